package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/KaramelBytes/poimap-cli/internal/geodata"
	"github.com/KaramelBytes/poimap-cli/internal/loader"
	"github.com/KaramelBytes/poimap-cli/internal/pipeline"
)

// SeparatorAuto asks the number parser to guess separators per cell.
const SeparatorAuto = "auto"

// Global configuration structure.
type Global struct {
	ProjectsDir  string `mapstructure:"projects_dir" yaml:"projects_dir"`
	OutputFormat string `mapstructure:"output_format" yaml:"output_format"`
	OutputDir    string `mapstructure:"output_dir" yaml:"output_dir"`
	Workers      int    `mapstructure:"workers" yaml:"workers"`
	IncludeSizes bool   `mapstructure:"include_sizes" yaml:"include_sizes"`

	// Number parsing: "." / "," or "auto" for the decimal separator, and an
	// optional thousands separator.
	DecimalSeparator   string `mapstructure:"decimal_separator" yaml:"decimal_separator"`
	ThousandsSeparator string `mapstructure:"thousands_separator" yaml:"thousands_separator"`

	// Loader
	Delimiter  string `mapstructure:"delimiter" yaml:"delimiter"`
	SheetName  string `mapstructure:"sheet_name" yaml:"sheet_name"`
	SheetIndex int    `mapstructure:"sheet_index" yaml:"sheet_index"`
	MaxRows    int    `mapstructure:"max_rows" yaml:"max_rows"`

	// Column candidates, tried in order.
	LatCandidates  []string `mapstructure:"lat_candidates" yaml:"lat_candidates"`
	LonCandidates  []string `mapstructure:"lon_candidates" yaml:"lon_candidates"`
	CostCandidates []string `mapstructure:"cost_candidates" yaml:"cost_candidates"`
	NameCandidates []string `mapstructure:"name_candidates" yaml:"name_candidates"`
}

func configDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, ".poimap"), nil
}

// Save writes the given configuration to the cfgFile path. If cfgFile is empty,
// it writes to ~/.poimap/config.yaml, creating the directory if necessary.
func Save(c *Global, cfgFile string) error {
	var path string
	if cfgFile != "" {
		path = cfgFile
	} else {
		dir, err := configDir()
		if err != nil {
			return err
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("mkdir config dir: %w", err)
		}
		path = filepath.Join(dir, "config.yaml")
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Load loads configuration from file, env, and defaults.
// Precedence: flags (cfgFile) > env > config file > defaults.
// A .env file in the working directory is loaded into the environment first.
func Load(cfgFile string) (*Global, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("POIMAP")
	v.AutomaticEnv()

	def := geodata.DefaultCandidates()
	v.SetDefault("output_format", "csv")
	v.SetDefault("output_dir", "")
	v.SetDefault("workers", pipeline.DefaultWorkers)
	v.SetDefault("include_sizes", false)
	v.SetDefault("decimal_separator", ".")
	v.SetDefault("thousands_separator", "")
	v.SetDefault("delimiter", "")
	v.SetDefault("sheet_name", "")
	v.SetDefault("sheet_index", 1)
	v.SetDefault("max_rows", 0)
	v.SetDefault("lat_candidates", def.Latitude)
	v.SetDefault("lon_candidates", def.Longitude)
	v.SetDefault("cost_candidates", def.Cost)
	v.SetDefault("name_candidates", def.Name)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		dir, err := configDir()
		if err != nil {
			return nil, err
		}
		_ = os.MkdirAll(dir, 0o755)
		v.AddConfigPath(dir)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
	// optional read
	_ = v.ReadInConfig()

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	// Resolve projects_dir default: ~/.poimap/projects
	if c.ProjectsDir == "" {
		dir, err := configDir()
		if err != nil {
			return nil, err
		}
		c.ProjectsDir = filepath.Join(dir, "projects")
	}
	return &c, nil
}

// Candidates returns the configured column candidates. Blank entries are
// ignored and a list left empty falls back to the built-in one.
func (c *Global) Candidates() geodata.FieldCandidates {
	return geodata.FieldCandidates{
		Latitude:  cleanList(c.LatCandidates),
		Longitude: cleanList(c.LonCandidates),
		Cost:      cleanList(c.CostCandidates),
		Name:      cleanList(c.NameCandidates),
	}.WithDefaults()
}

func cleanList(in []string) []string {
	var out []string
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// NumberFormat converts the separator settings.
func (c *Global) NumberFormat() (geodata.NumberFormat, error) {
	var nf geodata.NumberFormat
	switch strings.ToLower(strings.TrimSpace(c.DecimalSeparator)) {
	case "", ".":
		nf.DecimalSeparator = '.'
	case ",":
		nf.DecimalSeparator = ','
	case SeparatorAuto:
		nf.AutoDetect = true
	default:
		return nf, fmt.Errorf("invalid decimal_separator: %q (use . , or auto)", c.DecimalSeparator)
	}
	thou, err := singleRune("thousands_separator", c.ThousandsSeparator)
	if err != nil {
		return nf, err
	}
	if thou != 0 && thou == nf.DecimalSeparator {
		return nf, fmt.Errorf("thousands_separator must differ from decimal_separator")
	}
	nf.ThousandsSeparator = thou
	return nf, nil
}

// LoaderOptions converts the loader settings.
func (c *Global) LoaderOptions() (loader.Options, error) {
	opt := loader.DefaultOptions()
	d := c.Delimiter
	if strings.EqualFold(d, "tab") || d == `\t` {
		d = "\t"
	}
	r, err := singleRune("delimiter", d)
	if err != nil {
		return opt, err
	}
	opt.Delimiter = r
	opt.SheetName = strings.TrimSpace(c.SheetName)
	if c.SheetIndex > 0 {
		opt.SheetIndex = c.SheetIndex
	}
	if c.MaxRows > 0 {
		opt.MaxRows = c.MaxRows
	}
	return opt, nil
}

// PipelineOptions assembles loader, normalizer and batch settings.
func (c *Global) PipelineOptions() (pipeline.Options, error) {
	opt := pipeline.DefaultOptions()
	lo, err := c.LoaderOptions()
	if err != nil {
		return opt, err
	}
	nf, err := c.NumberFormat()
	if err != nil {
		return opt, err
	}
	opt.Load = lo
	opt.Normalize = geodata.Options{Candidates: c.Candidates(), Numbers: nf}
	if c.Workers > 0 {
		opt.Workers = c.Workers
	}
	return opt, nil
}

func singleRune(key, s string) (rune, error) {
	if s == "" {
		return 0, nil
	}
	if utf8.RuneCountInString(s) != 1 {
		return 0, fmt.Errorf("invalid %s: %q (expected a single character)", key, s)
	}
	r, _ := utf8.DecodeRuneInString(s)
	return r, nil
}
