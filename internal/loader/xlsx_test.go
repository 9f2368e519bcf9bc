package loader_test

import (
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/KaramelBytes/poimap-cli/internal/loader"
)

func writeWorkbook(t *testing.T, sheets map[string][][]any, order []string) string {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	first := f.GetSheetName(0)
	for i, name := range order {
		if i == 0 {
			if err := f.SetSheetName(first, name); err != nil {
				t.Fatalf("rename sheet: %v", err)
			}
		} else if _, err := f.NewSheet(name); err != nil {
			t.Fatalf("new sheet: %v", err)
		}
		for r, row := range sheets[name] {
			for c, v := range row {
				cell, _ := excelize.CoordinatesToCellName(c+1, r+1)
				if err := f.SetCellValue(name, cell, v); err != nil {
					t.Fatalf("set cell: %v", err)
				}
			}
		}
	}
	p := filepath.Join(t.TempDir(), "cities.xlsx")
	if err := f.SaveAs(p); err != nil {
		t.Fatalf("save xlsx: %v", err)
	}
	return p
}

func TestLoadXLSX_SheetSelection(t *testing.T) {
	p := writeWorkbook(t, map[string][][]any{
		"Notes": {{"just text"}},
		"NY": {
			{"Latitude", "Longitude", "price", "name"},
			{40.7128, -74.006, 120.5, "Midtown"},
			{40.7306, -73.9352, nil, "Brooklyn"},
		},
	}, []string{"Notes", "NY"})

	opt := loader.DefaultOptions()
	opt.SheetName = "ny"
	tbl, err := loader.Load(p, opt)
	if err != nil {
		t.Fatalf("load by name: %v", err)
	}
	if want := []string{"Latitude", "Longitude", "price", "name"}; !reflect.DeepEqual(tbl.Columns, want) {
		t.Fatalf("columns = %q", tbl.Columns)
	}
	if len(tbl.Rows) != 2 || tbl.Rows[0][0] != "40.7128" || tbl.Rows[0][2] != "120.5" {
		t.Fatalf("rows = %q", tbl.Rows)
	}
	if tbl.Name != "cities.xlsx (sheet: NY)" {
		t.Fatalf("name = %q", tbl.Name)
	}

	opt = loader.DefaultOptions()
	opt.SheetIndex = 2
	byIndex, err := loader.Load(p, opt)
	if err != nil {
		t.Fatalf("load by index: %v", err)
	}
	if !reflect.DeepEqual(byIndex.Rows, tbl.Rows) {
		t.Fatalf("index and name selection differ: %q vs %q", byIndex.Rows, tbl.Rows)
	}
}

func TestLoadXLSX_UnknownSheet(t *testing.T) {
	p := writeWorkbook(t, map[string][][]any{"Data": {{"lat", "lon"}}}, []string{"Data"})
	opt := loader.DefaultOptions()
	opt.SheetName = "Missing"
	_, err := loader.Load(p, opt)
	if err == nil || !strings.Contains(err.Error(), "Available sheets: Data") {
		t.Fatalf("expected sheet list in error, got %v", err)
	}
	opt = loader.DefaultOptions()
	opt.SheetIndex = 5
	if _, err := loader.Load(p, opt); err == nil {
		t.Fatalf("expected out of range error")
	}
}

func TestLoadXLSX_KeepsEmptyRowsAfterHeader(t *testing.T) {
	p := writeWorkbook(t, map[string][][]any{
		"Sheet": {
			{},
			{"lat", "lon"},
			{},
			{1.5, 2.5},
		},
	}, []string{"Sheet"})
	tbl, err := loader.Load(p, loader.DefaultOptions())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if want := []string{"lat", "lon"}; !reflect.DeepEqual(tbl.Columns, want) {
		t.Fatalf("columns = %q", tbl.Columns)
	}
	if len(tbl.Rows) != 2 || tbl.Cell(0, 0) != "" || tbl.Cell(1, 0) != "1.5" {
		t.Fatalf("rows = %q", tbl.Rows)
	}
}
