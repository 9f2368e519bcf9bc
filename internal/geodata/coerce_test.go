package geodata

import (
	"math"
	"testing"
)

func TestParseNumber(t *testing.T) {
	strict := NumberFormat{}
	comma := NumberFormat{DecimalSeparator: ',', ThousandsSeparator: '.'}
	auto := NumberFormat{AutoDetect: true}
	cases := []struct {
		in   string
		nf   NumberFormat
		want float64
		ok   bool
	}{
		{"40.7", strict, 40.7, true},
		{"  -74.0 ", strict, -74, true},
		{"1e3", strict, 1000, true},
		{"", strict, 0, false},
		{"not_a_number", strict, 0, false},
		{"NaN", strict, 0, false},
		{"0x10", strict, 0, false},
		{"1,5", strict, 0, false},
		{"1.000,5", comma, 1000.5, true},
		{"1.5", NumberFormat{DecimalSeparator: ','}, 0, false},
		{"1.234,56", auto, 1234.56, true},
		{"1,234.56", auto, 1234.56, true},
		{"0,5", auto, 0.5, true},
		{"1,234", auto, 1234, true},
		{"1.234.567", auto, 1234567, true},
		{"12 ", strict, 12, true},
	}
	for _, c := range cases {
		got, ok := ParseNumber(c.in, c.nf)
		if ok != c.ok || (ok && math.Abs(got-c.want) > 1e-9) {
			t.Errorf("ParseNumber(%q, %+v) = (%v, %v), want (%v, %v)", c.in, c.nf, got, ok, c.want, c.ok)
		}
	}
	if f, ok := ParseNumber("inf", strict); !ok || !math.IsInf(f, 1) {
		t.Errorf("inf should parse as +Inf, got (%v, %v)", f, ok)
	}
}
