package geodata

import (
	"math"
	"testing"
)

func TestMapSizes(t *testing.T) {
	cases := []struct {
		name  string
		costs []float64
		want  []float64
	}{
		{"constant", []float64{5, 5, 5}, []float64{10, 10, 10}},
		{"linear", []float64{0, 50, 100}, []float64{6, 16, 26}},
		{"single row", []float64{42}, []float64{10}},
		{"near constant", []float64{1, 1 + 1e-12}, []float64{10, 10}},
		{"non-finite only", []float64{math.Inf(1), math.Inf(1)}, []float64{10, 10}},
		{"nan", []float64{math.NaN(), 3, 7}, []float64{10, 10, 10}},
		{"infinite bound", []float64{1, math.Inf(1)}, []float64{10, 10}},
		{"empty", []float64{}, []float64{}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := MapSizes(c.costs)
			if len(got) != len(c.want) {
				t.Fatalf("len = %d, want %d", len(got), len(c.want))
			}
			for i := range got {
				if math.Abs(got[i]-c.want[i]) > 1e-9 {
					t.Fatalf("sizes = %v, want %v", got, c.want)
				}
			}
		})
	}
}

func TestMapSizesBounded(t *testing.T) {
	costs := []float64{-1e300, 3, 7.5, 1e300, 0.1, 42}
	for i, s := range MapSizes(costs) {
		if s < MinMarkerSize || s > MaxMarkerSize {
			t.Fatalf("size[%d] = %v out of [%v, %v]", i, s, MinMarkerSize, MaxMarkerSize)
		}
	}
}
