package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	cfgpkg "github.com/KaramelBytes/poimap-cli/internal/config"
	"github.com/KaramelBytes/poimap-cli/internal/export"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or set poimap configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg == nil {
			fmt.Println("No config loaded")
			return nil
		}
		fmt.Printf("projects_dir: %s\n", cfg.ProjectsDir)
		fmt.Printf("output_format: %s\n", cfg.OutputFormat)
		if cfg.OutputDir != "" {
			fmt.Printf("output_dir: %s\n", cfg.OutputDir)
		}
		fmt.Printf("workers: %d\n", cfg.Workers)
		fmt.Printf("include_sizes: %t\n", cfg.IncludeSizes)
		fmt.Printf("decimal_separator: %q\n", cfg.DecimalSeparator)
		if cfg.ThousandsSeparator != "" {
			fmt.Printf("thousands_separator: %q\n", cfg.ThousandsSeparator)
		}
		if cfg.Delimiter != "" {
			fmt.Printf("delimiter: %q\n", cfg.Delimiter)
		}
		if cfg.SheetName != "" {
			fmt.Printf("sheet_name: %s\n", cfg.SheetName)
		}
		fmt.Printf("sheet_index: %d\n", cfg.SheetIndex)
		if cfg.MaxRows > 0 {
			fmt.Printf("max_rows: %d\n", cfg.MaxRows)
		}
		c := cfg.Candidates()
		fmt.Printf("lat_candidates: %s\n", strings.Join(c.Latitude, ", "))
		fmt.Printf("lon_candidates: %s\n", strings.Join(c.Longitude, ", "))
		fmt.Printf("cost_candidates: %s\n", strings.Join(c.Cost, ", "))
		fmt.Printf("name_candidates: %s\n", strings.Join(c.Name, ", "))
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a config value and save to disk",
	Long: `Set a config value and save to disk.
Candidate lists take a comma-separated value, e.g.
  poimap config set cost_candidates "fare,price,valor"`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, val := args[0], args[1]
		if cfg == nil {
			c, err := cfgpkg.Load(cfgFile)
			if err != nil {
				return err
			}
			cfg = c
		}
		switch key {
		case "projects_dir":
			cfg.ProjectsDir = val
		case "output_format":
			f, err := export.ParseFormat(val)
			if err != nil {
				return err
			}
			cfg.OutputFormat = string(f)
		case "output_dir":
			cfg.OutputDir = val
		case "workers":
			i, err := strconv.Atoi(val)
			if err != nil || i < 1 {
				return fmt.Errorf("invalid int for workers: %v", val)
			}
			cfg.Workers = i
		case "include_sizes":
			b, err := strconv.ParseBool(val)
			if err != nil {
				return fmt.Errorf("invalid bool for include_sizes: %w", err)
			}
			cfg.IncludeSizes = b
		case "decimal_separator", "thousands_separator":
			next := *cfg
			if key == "decimal_separator" {
				next.DecimalSeparator = val
			} else {
				next.ThousandsSeparator = val
			}
			if _, err := next.NumberFormat(); err != nil {
				return err
			}
			*cfg = next
		case "delimiter":
			next := *cfg
			next.Delimiter = val
			if _, err := next.LoaderOptions(); err != nil {
				return err
			}
			cfg.Delimiter = val
		case "sheet_name":
			cfg.SheetName = val
		case "sheet_index":
			i, err := strconv.Atoi(val)
			if err != nil || i < 1 {
				return fmt.Errorf("invalid int for sheet_index: %v", val)
			}
			cfg.SheetIndex = i
		case "max_rows":
			i, err := strconv.Atoi(val)
			if err != nil || i < 0 {
				return fmt.Errorf("invalid int for max_rows: %v", val)
			}
			cfg.MaxRows = i
		case "lat_candidates":
			cfg.LatCandidates = splitList(val)
		case "lon_candidates":
			cfg.LonCandidates = splitList(val)
		case "cost_candidates":
			cfg.CostCandidates = splitList(val)
		case "name_candidates":
			cfg.NameCandidates = splitList(val)
		default:
			return fmt.Errorf("unknown key: %s", key)
		}
		if err := cfgpkg.Save(cfg, cfgFile); err != nil {
			return err
		}
		fmt.Println("Saved config")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
