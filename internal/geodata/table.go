package geodata

import "strings"

// RawTable is a loaded table before any schema inference. Cells are kept as
// text; numeric columns are parsed later by Normalize.
type RawTable struct {
	// Name identifies the source (usually the file base name).
	Name    string
	Columns []string
	// Rows are row-major; a row shorter than Columns is read as padded with
	// empty cells.
	Rows [][]string
	// Warnings collected by the loader (row limits, skipped sheets).
	Warnings []string
}

// Len returns the number of data rows.
func (t *RawTable) Len() int { return len(t.Rows) }

// ColumnIndex returns the position of the first column named exactly name,
// or -1.
func (t *RawTable) ColumnIndex(name string) int {
	for i, c := range t.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// Cell returns the trimmed cell at (row, col), or "" when the row is short.
func (t *RawTable) Cell(row, col int) string {
	if row < 0 || row >= len(t.Rows) || col < 0 {
		return ""
	}
	r := t.Rows[row]
	if col >= len(r) {
		return ""
	}
	return strings.TrimSpace(r[col])
}
