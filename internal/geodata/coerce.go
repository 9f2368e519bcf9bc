package geodata

import (
	"math"
	"strconv"
	"strings"
)

// NumberFormat controls how cells are coerced to numbers. The zero value is a
// strict parse: '.' decimal point, no thousands separator.
type NumberFormat struct {
	// DecimalSeparator defaults to '.'.
	DecimalSeparator rune
	// ThousandsSeparator is removed before parsing when set.
	ThousandsSeparator rune
	// AutoDetect guesses the separators per value: when both ',' and '.'
	// appear the rightmost one is the decimal point.
	AutoDetect bool
}

// ParseNumber coerces a cell to a float. Blank cells, unparseable text and NaN
// all report ok=false; infinities are returned as-is.
func ParseNumber(s string, nf NumberFormat) (float64, bool) {
	raw := strings.ReplaceAll(s, "\u00A0", " ")
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, false
	}
	dec := nf.DecimalSeparator
	if dec == 0 {
		dec = '.'
	}
	thou := nf.ThousandsSeparator
	if nf.AutoDetect {
		dec, thou = detectSeparators(raw)
	}
	if thou != 0 && thou != dec {
		raw = strings.ReplaceAll(raw, string(thou), "")
	}
	if dec != '.' {
		if strings.ContainsRune(raw, '.') {
			return 0, false
		}
		raw = strings.ReplaceAll(raw, string(dec), ".")
	}
	if isHexLiteral(raw) {
		return 0, false
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(f) {
		return 0, false
	}
	return f, true
}

func detectSeparators(raw string) (dec, thou rune) {
	cpos := strings.LastIndex(raw, ",")
	dpos := strings.LastIndex(raw, ".")
	switch {
	case cpos >= 0 && dpos >= 0:
		if cpos > dpos {
			return ',', '.'
		}
		return '.', ','
	case cpos >= 0:
		// "1,234" is ambiguous; a single comma followed by exactly three
		// digits reads as a thousands group.
		if strings.Count(raw, ",") > 1 || len(raw)-cpos-1 == 3 {
			return '.', ','
		}
		return ',', 0
	default:
		if strings.Count(raw, ".") > 1 {
			return ',', '.'
		}
		return '.', 0
	}
}

// isHexLiteral matches Go hex float syntax, which ParseFloat accepts but a
// spreadsheet cell never means.
func isHexLiteral(s string) bool {
	s = strings.TrimLeft(s, "+-")
	return len(s) > 1 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X')
}

func isFinite(f float64) bool { return !math.IsNaN(f) && !math.IsInf(f, 0) }
