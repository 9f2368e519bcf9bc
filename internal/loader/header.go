package loader

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

const bom = "\uFEFF"

// CleanHeader trims a header cell, drops a UTF-8 BOM and composes accents so
// that "preço" typed on any platform compares equal.
func CleanHeader(s string) string {
	s = strings.TrimPrefix(s, bom)
	return strings.TrimSpace(norm.NFC.String(s))
}

func cleanHeaders(cells []string) []string {
	out := make([]string, len(cells))
	for i, c := range cells {
		out[i] = CleanHeader(c)
	}
	return out
}

func blankRow(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
