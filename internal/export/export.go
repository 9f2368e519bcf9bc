package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/KaramelBytes/poimap-cli/internal/geodata"
	"github.com/KaramelBytes/poimap-cli/internal/utils"
)

// Format is an output encoding for normalized datasets.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatXLSX Format = "xlsx"
)

// ParseFormat validates a user-supplied format name.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "csv":
		return FormatCSV, nil
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "xlsx":
		return FormatXLSX, nil
	}
	return "", fmt.Errorf("unsupported format: %s (use csv|json|yaml|xlsx)", s)
}

// FormatFromPath infers the format from a file extension.
func FormatFromPath(path string) (Format, error) {
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	if ext == "" {
		return "", fmt.Errorf("cannot infer format from %q", path)
	}
	return ParseFormat(ext)
}

// Options controls exported columns.
type Options struct {
	// IncludeSizes adds the marker size per point.
	IncludeSizes bool
}

// Document is the JSON/YAML shape of an exported dataset.
type Document struct {
	Name    string                 `json:"name" yaml:"name"`
	Mapping geodata.ColumnMapping  `json:"mapping" yaml:"mapping"`
	Stats   geodata.NormalizeStats `json:"stats" yaml:"stats"`
	Center  *geodata.Coordinates   `json:"center,omitempty" yaml:"center,omitempty"`
	Points  []PointRow             `json:"points" yaml:"points"`
}

// PointRow is a point with its optional marker size.
type PointRow struct {
	geodata.Point `yaml:",inline"`
	Size          *float64 `json:"size,omitempty" yaml:"size,omitempty"`
}

// NewDocument builds the exported representation of ds.
func NewDocument(ds *geodata.Dataset, opt Options) Document {
	doc := Document{Name: ds.Name, Mapping: ds.Mapping, Stats: ds.Stats, Points: make([]PointRow, len(ds.Points))}
	if c, ok := geodata.Center(ds); ok {
		doc.Center = &c
	}
	var sizes []float64
	if opt.IncludeSizes {
		sizes = geodata.MapSizes(ds.Costs())
	}
	for i, p := range ds.Points {
		doc.Points[i] = PointRow{Point: p}
		if sizes != nil {
			doc.Points[i].Size = &sizes[i]
		}
	}
	return doc
}

// Write encodes ds to path in format f.
func Write(ds *geodata.Dataset, path string, f Format, opt Options) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir output dir: %w", err)
	}
	var data []byte
	var err error
	switch f {
	case FormatCSV:
		data, err = encodeCSV(ds, opt)
	case FormatJSON:
		data, err = utils.PrettyJSON(NewDocument(ds, opt))
	case FormatYAML:
		data, err = encodeYAML(NewDocument(ds, opt))
	case FormatXLSX:
		return writeXLSX(ds, path, opt)
	default:
		return fmt.Errorf("unsupported format: %s", f)
	}
	if err != nil {
		return err
	}
	return utils.SafeWriteFile(path, data)
}

func encodeCSV(ds *geodata.Dataset, opt Options) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	header := geodata.CanonicalColumns
	var sizes []float64
	if opt.IncludeSizes {
		header = append(append([]string{}, header...), "size")
		sizes = geodata.MapSizes(ds.Costs())
	}
	if err := w.Write(header); err != nil {
		return nil, fmt.Errorf("write csv header: %w", err)
	}
	for i, p := range ds.Points {
		rec := []string{geodata.FormatNumber(p.Lat), geodata.FormatNumber(p.Lon), geodata.FormatNumber(p.Cost), p.Name}
		if sizes != nil {
			rec = append(rec, geodata.FormatNumber(sizes[i]))
		}
		if err := w.Write(rec); err != nil {
			return nil, fmt.Errorf("write csv row %d: %w", i+1, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}
	return buf.Bytes(), nil
}

func encodeYAML(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return nil, fmt.Errorf("marshal yaml: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("marshal yaml: %w", err)
	}
	return buf.Bytes(), nil
}
