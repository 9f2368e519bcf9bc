package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/poimap-cli/internal/geodata"
	"github.com/KaramelBytes/poimap-cli/internal/loader"
)

var resolveLoad loadFlags

var resolveCmd = &cobra.Command{
	Use:   "resolve <file>",
	Short: "Show which columns map to latitude, longitude, cost and name",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opt, err := resolveLoad.options()
		if err != nil {
			return err
		}
		raw, err := loader.Load(args[0], opt.Load)
		if err != nil {
			return err
		}
		debugf("%s: %d columns, %d rows", raw.Name, len(raw.Columns), raw.Len())
		m := geodata.ResolveColumns(raw.Columns, opt.Normalize.Candidates)
		fmt.Printf("Columns: %s\n", strings.Join(raw.Columns, ", "))
		for _, f := range geodata.Fields {
			if col := m.Column(f); col != "" {
				fmt.Printf("  %-9s → %s\n", f, col)
			} else {
				fmt.Printf("  %-9s → (not found)\n", f)
			}
		}
		for _, w := range raw.Warnings {
			fmt.Printf("⚠ %s\n", w)
		}
		if missing := m.MissingRequired(); len(missing) > 0 {
			return &geodata.SchemaResolutionError{Table: raw.Name, Columns: raw.Columns, Missing: missing}
		}
		fmt.Println("✓ Coordinates resolved")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(resolveCmd)
	resolveLoad.register(resolveCmd)
}
