package export_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"
	"gopkg.in/yaml.v3"

	"github.com/KaramelBytes/poimap-cli/internal/export"
	"github.com/KaramelBytes/poimap-cli/internal/geodata"
	"github.com/KaramelBytes/poimap-cli/internal/loader"
)

func sampleDataset(t *testing.T) *geodata.Dataset {
	t.Helper()
	raw := geodata.RawTable{
		Name:    "rio.csv",
		Columns: []string{"Latitude", "Longitude", "preco", "nome"},
		Rows: [][]string{
			{"-22.9", "-43.2", "10", "A, with comma"},
			{"-22.8", "-43.1", "", "B"},
			{"-22.7", "-43.0", "30", "C"},
		},
	}
	ds, err := geodata.Normalize(raw, geodata.DefaultOptions())
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	return ds
}

func TestFormatFromPath(t *testing.T) {
	cases := map[string]export.Format{
		"out.csv":  export.FormatCSV,
		"out.JSON": export.FormatJSON,
		"out.yml":  export.FormatYAML,
		"a/b.xlsx": export.FormatXLSX,
	}
	for path, want := range cases {
		got, err := export.FormatFromPath(path)
		if err != nil || got != want {
			t.Fatalf("%s: got %q, %v want %q", path, got, err, want)
		}
	}
	if _, err := export.FormatFromPath("out.pdf"); err == nil {
		t.Fatalf("expected error for pdf")
	}
	if _, err := export.FormatFromPath("noext"); err == nil {
		t.Fatalf("expected error without extension")
	}
}

func TestCSVRoundTripIsIdempotent(t *testing.T) {
	ds := sampleDataset(t)
	path := filepath.Join(t.TempDir(), "out", "rio.csv")
	if err := export.Write(ds, path, export.FormatCSV, export.Options{}); err != nil {
		t.Fatalf("write: %v", err)
	}
	raw, err := loader.Load(path, loader.DefaultOptions())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if strings.Join(raw.Columns, ",") != "lat,lon,cost,name" {
		t.Fatalf("unexpected header: %v", raw.Columns)
	}
	again, err := geodata.Normalize(*raw, geodata.DefaultOptions())
	if err != nil {
		t.Fatalf("renormalize: %v", err)
	}
	if again.Len() != ds.Len() {
		t.Fatalf("len %d want %d", again.Len(), ds.Len())
	}
	for i := range ds.Points {
		if again.Points[i] != ds.Points[i] {
			t.Fatalf("row %d: %+v want %+v", i, again.Points[i], ds.Points[i])
		}
	}
	if again.Stats.CostImputed != 0 {
		t.Fatalf("expected no imputation on second pass, got %d", again.Stats.CostImputed)
	}
}

func TestCSVWithSizes(t *testing.T) {
	ds := sampleDataset(t)
	path := filepath.Join(t.TempDir(), "rio.csv")
	if err := export.Write(ds, path, export.FormatCSV, export.Options{IncludeSizes: true}); err != nil {
		t.Fatalf("write: %v", err)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(b)), "\n")
	if lines[0] != "lat,lon,cost,name,size" {
		t.Fatalf("header: %q", lines[0])
	}
	// costs 10, 20 (median), 30 map to 6, 16, 26
	if !strings.HasSuffix(lines[1], ",6") || !strings.HasSuffix(lines[2], ",16") || !strings.HasSuffix(lines[3], ",26") {
		t.Fatalf("unexpected sizes:\n%s", b)
	}
	if !strings.Contains(lines[1], `"A, with comma"`) {
		t.Fatalf("expected quoted name, got %q", lines[1])
	}
}

func TestJSONDocument(t *testing.T) {
	ds := sampleDataset(t)
	path := filepath.Join(t.TempDir(), "rio.json")
	if err := export.Write(ds, path, export.FormatJSON, export.Options{IncludeSizes: true}); err != nil {
		t.Fatalf("write: %v", err)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	var doc struct {
		Name    string `json:"name"`
		Mapping struct {
			Cost string `json:"cost"`
		} `json:"mapping"`
		Center *struct {
			Lat float64 `json:"lat"`
		} `json:"center"`
		Points []struct {
			Lat  float64  `json:"lat"`
			Cost float64  `json:"cost"`
			Name string   `json:"name"`
			Size *float64 `json:"size"`
		} `json:"points"`
	}
	if err := json.Unmarshal(b, &doc); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if doc.Name != "rio.csv" || doc.Mapping.Cost != "preco" {
		t.Fatalf("unexpected doc header: %+v", doc)
	}
	if doc.Center == nil || doc.Center.Lat > -22.79 || doc.Center.Lat < -22.81 {
		t.Fatalf("unexpected center: %+v", doc.Center)
	}
	if len(doc.Points) != 3 || doc.Points[1].Cost != 20 || doc.Points[1].Size == nil || *doc.Points[1].Size != 16 {
		t.Fatalf("unexpected points: %+v", doc.Points)
	}
}

func TestYAMLWithoutSizes(t *testing.T) {
	ds := sampleDataset(t)
	path := filepath.Join(t.TempDir(), "rio.yaml")
	if err := export.Write(ds, path, export.FormatYAML, export.Options{}); err != nil {
		t.Fatalf("write: %v", err)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if strings.Contains(string(b), "size:") {
		t.Fatalf("size should be omitted:\n%s", b)
	}
	var doc export.Document
	if err := yaml.Unmarshal(b, &doc); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(doc.Points) != 3 || doc.Points[2].Name != "C" || doc.Points[2].Cost != 30 {
		t.Fatalf("unexpected points: %+v", doc.Points)
	}
}

func TestXLSXExport(t *testing.T) {
	ds := sampleDataset(t)
	path := filepath.Join(t.TempDir(), "rio.xlsx")
	if err := export.Write(ds, path, export.FormatXLSX, export.Options{IncludeSizes: true}); err != nil {
		t.Fatalf("write: %v", err)
	}
	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()
	rows, err := f.GetRows(f.GetSheetName(0))
	if err != nil {
		t.Fatalf("rows: %v", err)
	}
	if len(rows) != 4 || strings.Join(rows[0], ",") != "lat,lon,cost,name,size" {
		t.Fatalf("unexpected rows: %v", rows)
	}
	if rows[2][3] != "B" || rows[2][2] != "20" {
		t.Fatalf("unexpected row: %v", rows[2])
	}

	raw, err := loader.Load(path, loader.DefaultOptions())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	again, err := geodata.Normalize(*raw, geodata.DefaultOptions())
	if err != nil {
		t.Fatalf("renormalize: %v", err)
	}
	if again.Points[0] != ds.Points[0] {
		t.Fatalf("xlsx round trip: %+v want %+v", again.Points[0], ds.Points[0])
	}
}
