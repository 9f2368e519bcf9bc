package geodata

import (
	"fmt"
	"math"
	"strconv"
)

// Canonical column names of a normalized dataset.
const (
	ColLat  = "lat"
	ColLon  = "lon"
	ColCost = "cost"
	ColName = "name"
)

// CanonicalColumns is the header of a normalized dataset.
var CanonicalColumns = []string{ColLat, ColLon, ColCost, ColName}

// FallbackCost replaces missing costs when no usable median exists.
const FallbackCost = 1.0

// Options controls normalization. The zero value uses the built-in candidates
// and a strict number format.
type Options struct {
	Candidates FieldCandidates
	Numbers    NumberFormat
}

// DefaultOptions returns the built-in candidates and a strict number format.
func DefaultOptions() Options {
	return Options{Candidates: DefaultCandidates()}
}

// Point is one row of a normalized dataset.
type Point struct {
	Lat  float64 `json:"lat" yaml:"lat"`
	Lon  float64 `json:"lon" yaml:"lon"`
	Cost float64 `json:"cost" yaml:"cost"`
	Name string  `json:"name" yaml:"name"`
}

// NormalizeStats describes what normalization did to a table.
type NormalizeStats struct {
	InputRows   int `json:"input_rows" yaml:"input_rows"`
	DroppedRows int `json:"dropped_rows" yaml:"dropped_rows"`
	// CostParsed counts kept rows whose cost came from the source.
	CostParsed   int     `json:"cost_parsed" yaml:"cost_parsed"`
	CostImputed  int     `json:"cost_imputed" yaml:"cost_imputed"`
	ImputedValue float64 `json:"imputed_value" yaml:"imputed_value"`
	// NamesSynthesized counts placeholder names.
	NamesSynthesized int `json:"names_synthesized" yaml:"names_synthesized"`
}

// Dataset is a normalized table: canonical lat/lon/cost/name columns, every
// row with finite coordinates and a cost.
type Dataset struct {
	Name     string         `json:"name" yaml:"name"`
	Mapping  ColumnMapping  `json:"mapping" yaml:"mapping"`
	Stats    NormalizeStats `json:"stats" yaml:"stats"`
	Points   []Point        `json:"points" yaml:"points"`
	Warnings []string       `json:"warnings,omitempty" yaml:"warnings,omitempty"`
}

// Len returns the number of rows.
func (d *Dataset) Len() int { return len(d.Points) }

// Costs returns the cost column.
func (d *Dataset) Costs() []float64 {
	out := make([]float64, len(d.Points))
	for i, p := range d.Points {
		out[i] = p.Cost
	}
	return out
}

// RawTable renders the dataset back into a table with canonical headers.
// Normalizing it again yields the same points.
func (d *Dataset) RawTable() RawTable {
	rows := make([][]string, len(d.Points))
	for i, p := range d.Points {
		rows[i] = []string{FormatNumber(p.Lat), FormatNumber(p.Lon), FormatNumber(p.Cost), p.Name}
	}
	return RawTable{Name: d.Name, Columns: cloneStrings(CanonicalColumns), Rows: rows}
}

// FormatNumber renders f with the shortest representation that parses back
// to the same value.
func FormatNumber(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}

// PlaceholderName is the name given to row i when no name column exists.
func PlaceholderName(i int) string { return fmt.Sprintf("Point %d", i) }

// Normalize resolves the schema of raw and produces a clean dataset.
//
// Rows whose latitude or longitude is missing, unparseable or infinite are
// dropped. Missing costs are imputed with the median of the parsed ones, or
// FallbackCost when there is none or it is not finite.
func Normalize(raw RawTable, opt Options) (*Dataset, error) {
	cand := opt.Candidates.WithDefaults()
	m := ResolveColumns(raw.Columns, cand)
	if missing := m.MissingRequired(); len(missing) > 0 {
		return nil, &SchemaResolutionError{Table: raw.Name, Columns: cloneStrings(raw.Columns), Missing: missing}
	}
	latIdx := raw.ColumnIndex(m.Latitude)
	lonIdx := raw.ColumnIndex(m.Longitude)
	costIdx, nameIdx := -1, -1
	if m.Cost != "" {
		costIdx = raw.ColumnIndex(m.Cost)
	}
	if m.Name != "" {
		nameIdx = raw.ColumnIndex(m.Name)
	}

	ds := &Dataset{
		Name:     raw.Name,
		Mapping:  m,
		Points:   make([]Point, 0, raw.Len()),
		Warnings: cloneStrings(raw.Warnings),
	}
	ds.Stats.InputRows = raw.Len()
	hasCost := make([]bool, 0, raw.Len())
	for i := 0; i < raw.Len(); i++ {
		lat, okLat := ParseNumber(raw.Cell(i, latIdx), opt.Numbers)
		lon, okLon := ParseNumber(raw.Cell(i, lonIdx), opt.Numbers)
		if !okLat || !okLon || !isFinite(lat) || !isFinite(lon) {
			ds.Stats.DroppedRows++
			continue
		}
		p := Point{Lat: lat, Lon: lon}
		ok := false
		if costIdx >= 0 {
			p.Cost, ok = ParseNumber(raw.Cell(i, costIdx), opt.Numbers)
		}
		hasCost = append(hasCost, ok)
		if nameIdx >= 0 {
			p.Name = raw.Cell(i, nameIdx)
		}
		if p.Name == "" {
			p.Name = PlaceholderName(i)
			ds.Stats.NamesSynthesized++
		}
		ds.Points = append(ds.Points, p)
	}
	ds.Stats.CostImputed, ds.Stats.ImputedValue = imputeCosts(ds.Points, hasCost)
	ds.Stats.CostParsed = len(ds.Points) - ds.Stats.CostImputed
	if ds.Stats.DroppedRows > 0 {
		ds.Warnings = append(ds.Warnings, fmt.Sprintf("dropped %d/%d rows without usable coordinates", ds.Stats.DroppedRows, ds.Stats.InputRows))
	}
	return ds, nil
}

// imputeCosts fills every point whose hasCost flag is false.
func imputeCosts(points []Point, hasCost []bool) (imputed int, fill float64) {
	present := make([]float64, 0, len(points))
	for i, ok := range hasCost {
		if ok {
			present = append(present, points[i].Cost)
		}
	}
	fill = FallbackCost
	if len(present) > 0 {
		if med := Median(present); !math.IsNaN(med) && !math.IsInf(med, 0) {
			fill = med
		}
	}
	for i, ok := range hasCost {
		if !ok {
			points[i].Cost = fill
			imputed++
		}
	}
	return imputed, fill
}
