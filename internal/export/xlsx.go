package export

import (
	"fmt"
	"math"

	"github.com/xuri/excelize/v2"

	"github.com/KaramelBytes/poimap-cli/internal/geodata"
)

func writeXLSX(ds *geodata.Dataset, path string, opt Options) error {
	f := excelize.NewFile()
	defer f.Close()
	if err := writeSheet(f, f.GetSheetName(0), ds, opt); err != nil {
		return err
	}
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save xlsx: %w", err)
	}
	return nil
}

// writeSheet fills sheet with a header row and one row per point. It stops at
// the first cell that cannot be written.
func writeSheet(f *excelize.File, sheet string, ds *geodata.Dataset, opt Options) error {
	headers := append([]string{}, geodata.CanonicalColumns...)
	var sizes []float64
	if opt.IncludeSizes {
		headers = append(headers, "size")
		sizes = geodata.MapSizes(ds.Costs())
	}
	set := func(col, row int, value any) error {
		cell, err := excelize.CoordinatesToCellName(col, row)
		if err != nil {
			return fmt.Errorf("cell %d,%d: %w", col, row, err)
		}
		if err := f.SetCellValue(sheet, cell, value); err != nil {
			return fmt.Errorf("write cell %s: %w", cell, err)
		}
		return nil
	}
	for i, h := range headers {
		if err := set(i+1, 1, h); err != nil {
			return err
		}
	}
	for i, p := range ds.Points {
		r := i + 2
		values := []any{p.Lat, p.Lon, cellNumber(p.Cost), p.Name}
		if sizes != nil {
			values = append(values, sizes[i])
		}
		for c, v := range values {
			if err := set(c+1, r, v); err != nil {
				return err
			}
		}
	}
	return nil
}

// cellNumber keeps infinite costs readable; spreadsheets have no infinity.
func cellNumber(v float64) any {
	if math.IsInf(v, 0) {
		return geodata.FormatNumber(v)
	}
	return v
}
