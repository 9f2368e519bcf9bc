package geodata

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// ReportOptions controls the Markdown summary.
type ReportOptions struct {
	// SampleRows is the number of leading rows shown; 0 hides the table.
	SampleRows int
	// OutlierThreshold is the robust |z| above which a cost counts as an
	// outlier; 0 disables the count.
	OutlierThreshold float64
}

// DefaultReportOptions returns reasonable defaults for the summary.
func DefaultReportOptions() ReportOptions {
	return ReportOptions{SampleRows: 5, OutlierThreshold: 3.5}
}

// Markdown renders a compact summary of the dataset.
func (d *Dataset) Markdown(opt ReportOptions) string {
	var b strings.Builder
	b.WriteString("[DATASET SUMMARY]\n")
	if d.Name != "" {
		b.WriteString(fmt.Sprintf("File: %s\n", d.Name))
	}
	if d.Stats.DroppedRows > 0 {
		b.WriteString(fmt.Sprintf("Rows: %d (kept %d, dropped %d)\n", d.Stats.InputRows, d.Len(), d.Stats.DroppedRows))
	} else {
		b.WriteString(fmt.Sprintf("Rows: %d\n", d.Len()))
	}

	b.WriteString("\n[COLUMN MAPPING]\n")
	for _, f := range Fields {
		col := d.Mapping.Column(f)
		switch {
		case col != "":
			b.WriteString(fmt.Sprintf("- %s: %s\n", f, safeVal(col)))
		case f == FieldCost:
			b.WriteString(fmt.Sprintf("- %s: (not found, using %g)\n", f, FallbackCost))
		case f == FieldName:
			b.WriteString(fmt.Sprintf("- %s: (not found, using %q)\n", f, "Point <row>"))
		default:
			b.WriteString(fmt.Sprintf("- %s: (not found)\n", f))
		}
	}

	if d.Len() > 0 {
		costs := d.Costs()
		s := summarize(costs)
		b.WriteString("\n[COST]\n")
		b.WriteString(fmt.Sprintf("- parsed %d, imputed %d", d.Stats.CostParsed, d.Stats.CostImputed))
		if d.Stats.CostImputed > 0 {
			b.WriteString(fmt.Sprintf(" (fill %.4g)", d.Stats.ImputedValue))
		}
		b.WriteString("\n")
		b.WriteString(fmt.Sprintf("- min %.4g, max %.4g, mean %.4g, std %.4g\n", s.min, s.max, s.mean, s.std()))
		if opt.OutlierThreshold > 0 {
			if cnt, maxZ := countOutliers(costs, opt.OutlierThreshold); cnt > 0 {
				b.WriteString(fmt.Sprintf("- outliers: %d above |z|>%.1f (max |z|≈%.2f)\n", cnt, opt.OutlierThreshold, maxZ))
			}
		}
		if c, ok := Center(d); ok {
			b.WriteString("\n[CENTER]\n")
			b.WriteString(fmt.Sprintf("lat %.5f, lon %.5f\n", c.Lat, c.Lon))
		}
	}

	if opt.SampleRows > 0 && d.Len() > 0 {
		sizes := MapSizes(d.Costs())
		b.WriteString("\n[HEAD AND SAMPLE ROWS]\n")
		b.WriteString("| lat | lon | cost | name | size |\n")
		b.WriteString("| --- | --- | --- | --- | --- |\n")
		n := opt.SampleRows
		if n > d.Len() {
			n = d.Len()
		}
		for i := 0; i < n; i++ {
			p := d.Points[i]
			b.WriteString(fmt.Sprintf("| %.5f | %.5f | %.4g | %s | %.1f |\n", p.Lat, p.Lon, p.Cost, safeVal(truncate(p.Name, 80)), sizes[i]))
		}
	}
	if len(d.Warnings) > 0 {
		b.WriteString("\n[NOTES]\n")
		for _, w := range d.Warnings {
			b.WriteString("- ")
			b.WriteString(w)
			b.WriteString("\n")
		}
	}
	return b.String()
}

// truncate shortens s to at most n runes, ending in "...".
func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return string(r[:n-3]) + "..."
}

func safeVal(s string) string { return strings.ReplaceAll(strings.ReplaceAll(s, "\n", " "), "|", "/") }
