package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Global configuration structure.
type Global struct {
	Delimiter  string `mapstructure:"delimiter" yaml:"delimiter"`
	Decimal    string `mapstructure:"decimal" yaml:"decimal"`
	Round      int    `mapstructure:"round" yaml:"round"`
	OutputDir  string `mapstructure:"output_dir" yaml:"output_dir"`
	ReportName string `mapstructure:"report_name" yaml:"report_name"`
	StatsName  string `mapstructure:"stats_name" yaml:"stats_name"`
	StudiesDir string `mapstructure:"studies_dir" yaml:"studies_dir"`

	// Chart rendering
	Palette     string              `mapstructure:"palette" yaml:"palette"`
	Palettes    map[string][]string `mapstructure:"palettes" yaml:"palettes"`
	ChartWidth  int                 `mapstructure:"chart_width" yaml:"chart_width"`
	ChartHeight int                 `mapstructure:"chart_height" yaml:"chart_height"`

	// Weight calibration
	RakeTolerance float64 `mapstructure:"rake_tolerance" yaml:"rake_tolerance"`
	RakeMaxIter   int     `mapstructure:"rake_max_iter" yaml:"rake_max_iter"`
}

// defaultPalettes are the built-in chart palettes. They are copied into the
// loaded configuration so callers always receive an immutable-by-convention
// map owned by their own Global value.
func defaultPalettes() map[string][]string {
	return map[string][]string{
		"field": {"#1f6f8b", "#f2a154", "#99b898", "#e84a5f", "#6c5b7b", "#355c7d"},
		"mono":  {"#2b2b2b", "#555555", "#7f7f7f", "#aaaaaa", "#d4d4d4", "#efefef"},
		"vivid": {"#e63946", "#f4a261", "#2a9d8f", "#264653", "#e9c46a", "#8ab17d"},
	}
}

// ActivePalette resolves the configured palette name to its colour list,
// falling back to the "field" palette when the name is unknown.
func (c *Global) ActivePalette() []string {
	if c != nil && c.Palettes != nil {
		if p, ok := c.Palettes[c.Palette]; ok && len(p) > 0 {
			return append([]string(nil), p...)
		}
	}
	return append([]string(nil), defaultPalettes()["field"]...)
}

// Save writes the given configuration to the cfgFile path. If cfgFile is empty,
// it writes to ~/.crosstally/config.yaml, creating the directory if necessary.
func Save(c *Global, cfgFile string) error {
	var path string
	if cfgFile != "" {
		path = cfgFile
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("resolve home dir: %w", err)
		}
		dir := filepath.Join(home, ".crosstally")
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
func Load(cfgFile string) (*Global, error) {
	v := viper.New()
	v.SetEnvPrefix("CROSSTALLY")
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("delimiter", ",")
	v.SetDefault("decimal", "")
	v.SetDefault("round", 1)
	v.SetDefault("report_name", "crosstab_report.csv")
	v.SetDefault("stats_name", "crosstab_stats.csv")
	v.SetDefault("palette", "field")
	v.SetDefault("chart_width", 720)
	v.SetDefault("chart_height", 420)
	v.SetDefault("rake_tolerance", 1e-6)
	v.SetDefault("rake_max_iter", 50)

	// Config file
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolve home dir: %w", err)
		}
		dir := filepath.Join(home, ".crosstally")
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
	// Resolve directory defaults under the home config dir.
	if c.OutputDir == "" || c.StudiesDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolve home dir: %w", err)
		}
		if c.OutputDir == "" {
			c.OutputDir = filepath.Join(home, ".crosstally", "output")
		}
		if c.StudiesDir == "" {
			c.StudiesDir = filepath.Join(home, ".crosstally", "studies")
		}
	}
	// Merge built-in palettes under any user-defined ones.
	merged := defaultPalettes()
	for name, colors := range c.Palettes {
		merged[name] = colors
	}
	c.Palettes = merged
	return &c, nil
}
