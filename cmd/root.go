package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	cfgpkg "github.com/CrossTally/crosstally-cli/internal/config"
)

var (
	// Global flags (wired to config/viper)
	cfgFile       string
	debug         bool
	flagDelimiter string
	flagDecimal   string

	// Loaded configuration
	cfg *cfgpkg.Global
)

var rootCmd = &cobra.Command{
	Use:   "crosstally",
	Short: "CrossTally CLI: weighted crosstabs and survey statistics",
	Long: `CrossTally is a CLI toolkit for survey-data analysts: it loads respondent-level
datasets, calibrates design weights, computes weighted frequency tables and
cross-tabulations with association statistics, and compiles batches of
crosstabs into delimited reports and charts.`,
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
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.crosstally/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug output")
	rootCmd.PersistentFlags().StringVar(&flagDelimiter, "delimiter", "", "field delimiter: ','|';'|'tab' (overrides config)")
	rootCmd.PersistentFlags().StringVar(&flagDecimal, "decimal", "", "decimal separator for numbers: '.'|'comma' (overrides config)")
}

func loadConfig() {
	c, err := cfgpkg.Load(cfgFile)
	if err != nil {
		// Non-fatal: allow running commands that don't need config
		fmt.Fprintf(os.Stderr, "⚠ Warning: failed to load config: %v\n", err)
		return
	}
	cfg = c

	// Apply CLI overrides if provided
	f := rootCmd.PersistentFlags()
	if f.Changed("delimiter") && flagDelimiter != "" {
		cfg.Delimiter = flagDelimiter
	}
	if f.Changed("decimal") && flagDecimal != "" {
		cfg.Decimal = flagDecimal
	}
}

// activeConfig returns the loaded configuration, or built-in defaults when
// config loading failed.
func activeConfig() *cfgpkg.Global {
	if cfg != nil {
		return cfg
	}
	return &cfgpkg.Global{
		Delimiter:  ",",
		Round:      1,
		ReportName: "crosstab_report.csv",
		StatsName:  "crosstab_stats.csv",
	}
}
