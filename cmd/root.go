package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	cfgpkg "github.com/KaramelBytes/poimap-cli/internal/config"
	"github.com/KaramelBytes/poimap-cli/internal/pipeline"
)

var (
	// Global flags (wired later to config/viper)
	cfgFile string
	debug   bool
	// Number parsing flags (override config if set)
	flagDecimal   string
	flagThousands string

	// Loaded configuration
	cfg *cfgpkg.Global
)

var rootCmd = &cobra.Command{
	Use:   "poimap",
	Short: "poimap CLI: normalize point-of-interest tables into map-ready datasets",
	Long: `poimap reads CSV/TSV/XLSX tables of places, detects the latitude, longitude,
cost and name columns despite inconsistent naming, cleans the values and
produces normalized datasets, marker sizes and map views.`,
}

// Execute is the entry point called by main.main()
func Execute() {
	// Initialize configuration before executing commands
	cobra.OnInitialize(loadConfig)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "✗ Error:", err)
		os.Exit(1)
	}
}

func init() {
	// Persistent global flags available to all subcommands
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.poimap/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug output")
	rootCmd.PersistentFlags().StringVar(&flagDecimal, "decimal", "", "decimal separator for numbers: '.'|'comma'|'auto' (overrides config)")
	rootCmd.PersistentFlags().StringVar(&flagThousands, "thousands", "", "thousands separator for numbers: ','|'.'|'space' (overrides config)")
}

func loadConfig() {
	c, err := cfgpkg.Load(cfgFile)
	if err != nil {
		// Non-fatal: fall back to built-in defaults
		fmt.Fprintf(os.Stderr, "⚠ Warning: failed to load config: %v\n", err)
		return
	}
	cfg = c
	debugf("config loaded (projects_dir=%s, workers=%d)", cfg.ProjectsDir, cfg.Workers)
}

func debugf(format string, args ...any) {
	if !debug {
		return
	}
	fmt.Fprintf(os.Stderr, "[debug] "+format+"\n", args...)
}

// commandContext returns the command's context, or Background when the
// command was not started through ExecuteContext.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// effectiveConfig returns a copy of the loaded config, or built-in defaults.
func effectiveConfig() cfgpkg.Global {
	if cfg != nil {
		return *cfg
	}
	return cfgpkg.Global{
		OutputFormat:     "csv",
		Workers:          pipeline.DefaultWorkers,
		DecimalSeparator: ".",
		SheetIndex:       1,
	}
}

// pipelineOptions merges config with the global number flags.
func pipelineOptions() (pipeline.Options, error) {
	c := effectiveConfig()
	if flagDecimal != "" {
		switch strings.ToLower(strings.TrimSpace(flagDecimal)) {
		case ",", "comma":
			c.DecimalSeparator = ","
		case ".", "dot":
			c.DecimalSeparator = "."
		case cfgpkg.SeparatorAuto:
			c.DecimalSeparator = cfgpkg.SeparatorAuto
		default:
			return pipeline.Options{}, fmt.Errorf("unsupported --decimal: %s (use '.'|'comma'|'auto')", flagDecimal)
		}
	}
	if flagThousands != "" {
		switch strings.ToLower(flagThousands) {
		case ",":
			c.ThousandsSeparator = ","
		case ".":
			c.ThousandsSeparator = "."
		case "space", " ":
			c.ThousandsSeparator = " "
		default:
			return pipeline.Options{}, fmt.Errorf("unsupported --thousands: %s (use ','|'.'|'space')", flagThousands)
		}
	}
	opt, err := c.PipelineOptions()
	if err != nil {
		return opt, err
	}
	debugf("number format: %+v", opt.Normalize.Numbers)
	return opt, nil
}
