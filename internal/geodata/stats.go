package geodata

import (
	"math"
	"sort"
)

// Median returns the median of vals (mean of the two middle values for an
// even count). It returns NaN for an empty slice.
func Median(vals []float64) float64 {
	if len(vals) == 0 {
		return math.NaN()
	}
	cp := make([]float64, len(vals))
	copy(cp, vals)
	sort.Float64s(cp)
	return quantile(cp, 0.5)
}

// medianMAD computes median and MAD (median absolute deviation) of values.
func medianMAD(vals []float64) (median, mad float64) {
	if len(vals) == 0 {
		return 0, 0
	}
	cp := make([]float64, len(vals))
	copy(cp, vals)
	sort.Float64s(cp)
	median = quantile(cp, 0.5)
	dev := make([]float64, len(cp))
	for i, v := range cp {
		dev[i] = math.Abs(v - median)
	}
	sort.Float64s(dev)
	mad = quantile(dev, 0.5)
	return
}

func quantile(sorted []float64, q float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	if q <= 0 {
		return sorted[0]
	}
	if q >= 1 {
		return sorted[len(sorted)-1]
	}
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	w := pos - float64(lo)
	return sorted[lo]*(1-w) + sorted[hi]*w
}

// summary holds Welford running statistics.
type summary struct {
	n        int
	mean, m2 float64
	min, max float64
}

func summarize(vals []float64) summary {
	s := summary{min: math.Inf(1), max: math.Inf(-1)}
	for _, x := range vals {
		s.n++
		if x < s.min {
			s.min = x
		}
		if x > s.max {
			s.max = x
		}
		delta := x - s.mean
		s.mean += delta / float64(s.n)
		s.m2 += delta * (x - s.mean)
	}
	return s
}

func (s summary) std() float64 {
	if s.n < 2 {
		return 0
	}
	return math.Sqrt(s.m2 / float64(s.n-1))
}

// countOutliers counts robust |z| > thr using MAD; needs at least 8 values.
func countOutliers(vals []float64, thr float64) (count int, maxAbsZ float64) {
	if len(vals) < 8 {
		return 0, 0
	}
	median, mad := medianMAD(vals)
	if mad <= 0 || !isFinite(mad) {
		return 0, 0
	}
	for _, v := range vals {
		az := math.Abs(0.6745 * (v - median) / mad)
		if az > thr {
			count++
		}
		if az > maxAbsZ {
			maxAbsZ = az
		}
	}
	return count, maxAbsZ
}
