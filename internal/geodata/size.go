package geodata

import "math"

// Marker size bounds.
const (
	MinMarkerSize     = 6.0
	MaxMarkerSize     = 26.0
	DefaultMarkerSize = 10.0
)

// MapSizes maps costs linearly onto [MinMarkerSize, MaxMarkerSize]. When the
// range is degenerate (non-finite bounds or nearly constant costs) every size
// is DefaultMarkerSize.
func MapSizes(costs []float64) []float64 {
	out := make([]float64, len(costs))
	if len(costs) == 0 {
		return out
	}
	lo, hi := costs[0], costs[0]
	for _, c := range costs[1:] {
		// math.Min/Max propagate NaN, which then trips the degenerate case.
		lo = math.Min(lo, c)
		hi = math.Max(hi, c)
	}
	if !isFinite(lo) || !isFinite(hi) || math.Abs(hi-lo) < 1e-9 {
		for i := range out {
			out[i] = DefaultMarkerSize
		}
		return out
	}
	span := MaxMarkerSize - MinMarkerSize
	for i, c := range costs {
		out[i] = clip((c-lo)/(hi-lo)*span+MinMarkerSize, MinMarkerSize, MaxMarkerSize)
	}
	return out
}

func clip(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
