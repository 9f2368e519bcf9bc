package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/poimap-cli/internal/pipeline"
)

// loadFlags are the per-command loader overrides shared by the file commands.
type loadFlags struct {
	delimiter  string
	sheetName  string
	sheetIndex int
	maxRows    int
}

func (lf *loadFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&lf.delimiter, "delimiter", "", "CSV delimiter: ',' | ';' | 'tab' (sniffed if omitted)")
	cmd.Flags().StringVar(&lf.sheetName, "sheet-name", "", "XLSX: sheet name to read")
	cmd.Flags().IntVar(&lf.sheetIndex, "sheet-index", 0, "XLSX: 1-based sheet index (used if --sheet-name not provided)")
	cmd.Flags().IntVar(&lf.maxRows, "max-rows", 0, "maximum rows to read (0 = unlimited)")
}

// options applies the flags on top of config-derived pipeline options.
func (lf *loadFlags) options() (pipeline.Options, error) {
	opt, err := pipelineOptions()
	if err != nil {
		return opt, err
	}
	switch lf.delimiter {
	case "":
	case ",":
		opt.Load.Delimiter = ','
	case "\t", "tab":
		opt.Load.Delimiter = '\t'
	case ";":
		opt.Load.Delimiter = ';'
	case "|":
		opt.Load.Delimiter = '|'
	default:
		return opt, fmt.Errorf("unsupported --delimiter: %s", lf.delimiter)
	}
	if lf.sheetName != "" {
		opt.Load.SheetName = lf.sheetName
	}
	if lf.sheetIndex > 0 {
		opt.Load.SheetIndex = lf.sheetIndex
	}
	if lf.maxRows > 0 {
		opt.Load.MaxRows = lf.maxRows
	}
	return opt, nil
}
