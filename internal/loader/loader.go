package loader

import (
	"errors"
	"fmt"
	"os"

	"github.com/KaramelBytes/poimap-cli/internal/geodata"
)

// Options controls how a table file is read.
type Options struct {
	// Delimiter for CSV. If 0, sniffed from the extension and header line.
	Delimiter rune
	// SheetName selects an XLSX sheet (case-insensitive); it wins over SheetIndex.
	SheetName string
	// SheetIndex is the 1-based XLSX sheet index used when SheetName is empty.
	SheetIndex int
	// MaxRows limits the data rows kept; 0 means unlimited.
	MaxRows int
}

// DefaultOptions returns reasonable defaults for loading tables.
func DefaultOptions() Options {
	return Options{SheetIndex: 1}
}

// Reader loads one table format.
type Reader interface {
	CanRead(filename string) bool
	Read(path string, opt Options) (*geodata.RawTable, error)
}

var registry []Reader

// Register adds a reader implementation to the registry.
func Register(r Reader) {
	registry = append(registry, r)
}

// ErrUnsupported indicates a file format no registered reader handles.
var ErrUnsupported = errors.New("unsupported table format")

// Load selects a reader based on filename and returns the raw table.
func Load(path string, opt Options) (*geodata.RawTable, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("stat table: %w", err)
	}
	for _, r := range registry {
		if r.CanRead(path) {
			return r.Read(path, opt)
		}
	}
	return nil, fmt.Errorf("%s: %w", path, ErrUnsupported)
}

// Supported reports whether some registered reader handles filename.
func Supported(filename string) bool {
	for _, r := range registry {
		if r.CanRead(filename) {
			return true
		}
	}
	return false
}

func init() {
	Register(csvReader{})
	Register(xlsxReader{})
}

// limitRows applies MaxRows and records a note when rows were cut.
func limitRows(t *geodata.RawTable, maxRows int) {
	if maxRows <= 0 || len(t.Rows) <= maxRows {
		return
	}
	total := len(t.Rows)
	t.Rows = t.Rows[:maxRows]
	t.Warnings = append(t.Warnings, fmt.Sprintf("loaded only %d/%d rows due to MaxRows", maxRows, total))
}
