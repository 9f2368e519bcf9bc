package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/poimap-cli/internal/export"
	"github.com/KaramelBytes/poimap-cli/internal/geodata"
	"github.com/KaramelBytes/poimap-cli/internal/pipeline"
	"github.com/KaramelBytes/poimap-cli/internal/store"
)

var (
	normOutputPath string
	normFormat     string
	normSizes      bool
	normStorePath  string
	normReportPath string
	normSampleRows int
	normOutlierThr float64
	normLoad       loadFlags
)

var normalizeCmd = &cobra.Command{
	Use:   "normalize <file>",
	Short: "Normalize a CSV/TSV/XLSX table into lat, lon, cost, name",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]
		opt, err := normLoad.options()
		if err != nil {
			return err
		}
		res, err := pipeline.Process(commandContext(cmd), path, opt)
		if err != nil {
			return err
		}
		ds := res.Dataset
		debugf("%s: mapping %+v, stats %+v", path, ds.Mapping, ds.Stats)

		ropt := geodata.DefaultReportOptions()
		if cmd.Flags().Changed("sample-rows") {
			ropt.SampleRows = normSampleRows
		}
		if normOutlierThr > 0 {
			ropt.OutlierThreshold = normOutlierThr
		}
		md := ds.Markdown(ropt)

		// Decide where to write: --output path, --store, --report or stdout
		written := false
		if normOutputPath != "" {
			f, err := outputFormat(normFormat, normOutputPath)
			if err != nil {
				return err
			}
			if err := export.Write(ds, normOutputPath, f, export.Options{IncludeSizes: includeSizes(cmd, normSizes)}); err != nil {
				return fmt.Errorf("write output: %w", err)
			}
			fmt.Printf("✓ Wrote %d points to %s\n", ds.Len(), normOutputPath)
			written = true
		}
		if normStorePath != "" {
			id, err := saveToStore(commandContext(cmd), normStorePath, ds)
			if err != nil {
				return err
			}
			fmt.Printf("✓ Stored dataset %s in %s\n", id, normStorePath)
			written = true
		}
		if normReportPath != "" {
			if err := os.WriteFile(normReportPath, []byte(md), 0o644); err != nil {
				return fmt.Errorf("write report: %w", err)
			}
			fmt.Printf("✓ Wrote summary to %s\n", normReportPath)
			written = true
		}
		for _, w := range ds.Warnings {
			fmt.Fprintf(os.Stderr, "⚠ %s\n", w)
		}
		if !written {
			fmt.Println(md)
		}
		return nil
	},
}

// outputFormat picks the explicit --format, the extension of path, or the
// configured default, in that order.
func outputFormat(flag, path string) (export.Format, error) {
	if flag != "" {
		return export.ParseFormat(flag)
	}
	if f, err := export.FormatFromPath(path); err == nil {
		return f, nil
	}
	return export.ParseFormat(effectiveConfig().OutputFormat)
}

func includeSizes(cmd *cobra.Command, flag bool) bool {
	if cmd.Flags().Changed("sizes") {
		return flag
	}
	return effectiveConfig().IncludeSizes
}

func saveToStore(ctx context.Context, path string, ds *geodata.Dataset) (string, error) {
	db, err := store.Open(filepath.Clean(path))
	if err != nil {
		return "", err
	}
	defer db.Close()
	return db.SaveDataset(ctx, ds)
}

func init() {
	rootCmd.AddCommand(normalizeCmd)
	normalizeCmd.Flags().StringVarP(&normOutputPath, "output", "o", "", "write the normalized dataset to this path")
	normalizeCmd.Flags().StringVar(&normFormat, "format", "", "output format: csv|json|yaml|xlsx (default from extension)")
	normalizeCmd.Flags().BoolVar(&normSizes, "sizes", false, "include marker sizes in the output")
	normalizeCmd.Flags().StringVar(&normStorePath, "store", "", "also save the dataset into this SQLite file")
	normalizeCmd.Flags().StringVar(&normReportPath, "report", "", "write the Markdown summary to this path")
	normalizeCmd.Flags().IntVar(&normSampleRows, "sample-rows", 5, "number of sample rows in the summary")
	normalizeCmd.Flags().Float64Var(&normOutlierThr, "outlier-threshold", 3.5, "robust |z| threshold for cost outliers (MAD-based)")
	normLoad.register(normalizeCmd)
}
