package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/poimap-cli/internal/export"
	"github.com/KaramelBytes/poimap-cli/internal/pipeline"
	"github.com/KaramelBytes/poimap-cli/internal/store"
)

var (
	nbOutDir      string
	nbFormat      string
	nbSizes       bool
	nbSkipInvalid bool
	nbWorkers     int
	nbStorePath   string
	nbQuiet       bool
	nbLoad        loadFlags
)

var normalizeBatchCmd = &cobra.Command{
	Use:   "normalize-batch <files...>",
	Short: "Normalize many CSV/TSV/XLSX files in parallel",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		files := expandInputs(args)
		if len(files) == 0 {
			return fmt.Errorf("no input files matched")
		}

		opt, err := nbLoad.options()
		if err != nil {
			return err
		}
		if nbWorkers > 0 {
			opt.Workers = nbWorkers
		}
		opt.SkipInvalid = nbSkipInvalid

		var format export.Format
		if nbOutDir != "" {
			name := nbFormat
			if name == "" {
				name = effectiveConfig().OutputFormat
			}
			format, err = export.ParseFormat(name)
			if err != nil {
				return err
			}
			if err := os.MkdirAll(nbOutDir, 0o755); err != nil {
				return fmt.Errorf("mkdir output dir: %w", err)
			}
		}
		if !nbQuiet {
			fmt.Printf("Processing %d files with %d workers...\n", len(files), opt.Workers)
		}

		ctx := commandContext(cmd)
		results, err := pipeline.ProcessAll(ctx, files, opt)
		if err != nil {
			return err
		}

		var db *store.DB
		if nbStorePath != "" {
			db, err = store.Open(nbStorePath)
			if err != nil {
				return err
			}
			defer db.Close()
		}

		total := len(results)
		used := map[string]struct{}{}
		for i, r := range results {
			prefix := fmt.Sprintf("[%d/%d] %s", i+1, total, filepath.Base(r.Path))
			if !r.OK() {
				fmt.Fprintf(os.Stderr, "⚠ %s: skipped: %v\n", prefix, r.Err)
				continue
			}
			ds := r.Dataset
			line := fmt.Sprintf("%s: %d points", prefix, ds.Len())
			if ds.Stats.DroppedRows > 0 {
				line += fmt.Sprintf(" (%d dropped)", ds.Stats.DroppedRows)
			}
			if nbOutDir != "" {
				out := uniqueOutputPath(nbOutDir, r.Path, format, used)
				if err := export.Write(ds, out, format, export.Options{IncludeSizes: includeSizes(cmd, nbSizes)}); err != nil {
					return fmt.Errorf("write %s: %w", out, err)
				}
				line += " → " + out
			}
			if db != nil {
				id, err := db.SaveDataset(ctx, ds)
				if err != nil {
					return fmt.Errorf("store %s: %w", r.Path, err)
				}
				debugf("stored %s as %s", r.Path, id)
			}
			if !nbQuiet {
				fmt.Println(line)
			}
		}

		s := pipeline.Summarize(results)
		if s.Failed > 0 {
			fmt.Printf("⚠ %d of %d files skipped\n", s.Failed, s.Files)
		}
		fmt.Printf("✓ Normalized %d files (%d points, %d rows dropped)\n", s.OK, s.Points, s.Dropped)
		return nil
	},
}

// expandInputs resolves glob patterns, keeps literal paths that exist and
// returns a sorted list without duplicates.
func expandInputs(args []string) []string {
	var files []string
	seen := map[string]struct{}{}
	for _, arg := range args {
		matches, _ := filepath.Glob(arg)
		if len(matches) == 0 {
			// treat as literal path if exists
			if _, err := os.Stat(arg); err == nil {
				matches = []string{arg}
			}
		}
		for _, m := range matches {
			if _, ok := seen[m]; ok {
				continue
			}
			seen[m] = struct{}{}
			files = append(files, m)
		}
	}
	sort.Strings(files)
	return files
}

// uniqueOutputPath maps an input file to <dir>/<base>.<format>, suffixing
// __2, __3... when two inputs share a base name.
func uniqueOutputPath(dir, input string, f export.Format, used map[string]struct{}) string {
	base := filepath.Base(input)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	out := filepath.Join(dir, base+"."+string(f))
	for idx := 2; ; idx++ {
		if _, ok := used[out]; !ok {
			break
		}
		out = filepath.Join(dir, fmt.Sprintf("%s__%d.%s", base, idx, f))
	}
	used[out] = struct{}{}
	return out
}

func init() {
	rootCmd.AddCommand(normalizeBatchCmd)
	normalizeBatchCmd.Flags().StringVar(&nbOutDir, "out-dir", "", "directory to write normalized files into")
	normalizeBatchCmd.Flags().StringVar(&nbFormat, "format", "", "output format: csv|json|yaml|xlsx (default from config)")
	normalizeBatchCmd.Flags().BoolVar(&nbSizes, "sizes", false, "include marker sizes in the output")
	normalizeBatchCmd.Flags().BoolVar(&nbSkipInvalid, "skip-invalid", false, "skip files without coordinate columns instead of failing")
	normalizeBatchCmd.Flags().IntVarP(&nbWorkers, "workers", "w", 0, "number of files processed in parallel (default from config)")
	normalizeBatchCmd.Flags().StringVar(&nbStorePath, "store", "", "also save every dataset into this SQLite file")
	normalizeBatchCmd.Flags().BoolVar(&nbQuiet, "quiet", false, "suppress per-file output")
	nbLoad.register(normalizeBatchCmd)
}
