package geodata

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// ColumnMapping records which raw column was chosen for each logical field.
// An empty string means the field was not found.
type ColumnMapping struct {
	Latitude  string `json:"latitude" yaml:"latitude"`
	Longitude string `json:"longitude" yaml:"longitude"`
	Cost      string `json:"cost,omitempty" yaml:"cost,omitempty"`
	Name      string `json:"name,omitempty" yaml:"name,omitempty"`
}

// Column returns the raw column mapped to f.
func (m ColumnMapping) Column(f Field) string {
	switch f {
	case FieldLatitude:
		return m.Latitude
	case FieldLongitude:
		return m.Longitude
	case FieldCost:
		return m.Cost
	case FieldName:
		return m.Name
	}
	return ""
}

// Found reports whether f was resolved.
func (m ColumnMapping) Found(f Field) bool { return m.Column(f) != "" }

// MissingRequired lists the unresolved coordinate fields.
func (m ColumnMapping) MissingRequired() []string {
	var missing []string
	if m.Latitude == "" {
		missing = append(missing, string(FieldLatitude))
	}
	if m.Longitude == "" {
		missing = append(missing, string(FieldLongitude))
	}
	return missing
}

// Resolve picks the column that represents a logical field.
//
// The exact phase runs to completion first: the first candidate that is a
// case-sensitive member of columns wins. Only then does the fallback phase
// look for the first column (in column order) containing a candidate as a
// case-insensitive substring, trying candidates in order.
func Resolve(columns []string, candidates []string) (string, bool) {
	for _, c := range candidates {
		for _, col := range columns {
			if col == c {
				return c, true
			}
		}
	}
	if len(columns) == 0 || len(candidates) == 0 {
		return "", false
	}
	// A Caser is stateful, so each call gets its own.
	lower := cases.Lower(language.Und)
	folded := make([]string, len(columns))
	for i, col := range columns {
		folded[i] = lower.String(col)
	}
	for _, c := range candidates {
		needle := lower.String(c)
		for i, col := range folded {
			if strings.Contains(col, needle) {
				return columns[i], true
			}
		}
	}
	return "", false
}

// ResolveColumns runs Resolve once per logical field.
func ResolveColumns(columns []string, candidates FieldCandidates) ColumnMapping {
	var m ColumnMapping
	m.Latitude, _ = Resolve(columns, candidates.Latitude)
	m.Longitude, _ = Resolve(columns, candidates.Longitude)
	m.Cost, _ = Resolve(columns, candidates.Cost)
	m.Name, _ = Resolve(columns, candidates.Name)
	return m
}
