package cmd

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	cfgpkg "github.com/CrossTally/crosstally-cli/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or set CrossTally configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg == nil {
			fmt.Println("No config loaded")
			return nil
		}
		fmt.Printf("delimiter: %s\n", cfg.Delimiter)
		if cfg.Decimal != "" {
			fmt.Printf("decimal: %s\n", cfg.Decimal)
		}
		fmt.Printf("round: %d\n", cfg.Round)
		fmt.Printf("output_dir: %s\n", cfg.OutputDir)
		fmt.Printf("report_name: %s\n", cfg.ReportName)
		fmt.Printf("stats_name: %s\n", cfg.StatsName)
		fmt.Printf("studies_dir: %s\n", cfg.StudiesDir)
		fmt.Printf("palette: %s\n", cfg.Palette)
		names := make([]string, 0, len(cfg.Palettes))
		for name := range cfg.Palettes {
			names = append(names, name)
		}
		sort.Strings(names)
		fmt.Printf("palettes: %s\n", strings.Join(names, ", "))
		fmt.Printf("chart_width: %d\n", cfg.ChartWidth)
		fmt.Printf("chart_height: %d\n", cfg.ChartHeight)
		fmt.Printf("rake_tolerance: %g\n", cfg.RakeTolerance)
		fmt.Printf("rake_max_iter: %d\n", cfg.RakeMaxIter)
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a config value and save to disk",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg == nil {
			cfg = &cfgpkg.Global{}
		}
		key, val := args[0], args[1]
		switch key {
		case "delimiter":
			if _, err := parseDelimiter(val); err != nil {
				return err
			}
			cfg.Delimiter = val
		case "decimal":
			if _, err := parseDecimal(val); err != nil {
				return err
			}
			cfg.Decimal = val
		case "round":
			n, err := strconv.Atoi(val)
			if err != nil {
				return fmt.Errorf("round must be an integer: %w", err)
			}
			cfg.Round = n
		case "output_dir":
			cfg.OutputDir = val
		case "report_name":
			cfg.ReportName = val
		case "stats_name":
			cfg.StatsName = val
		case "studies_dir":
			cfg.StudiesDir = val
		case "palette":
			if _, ok := cfg.Palettes[val]; !ok && len(cfg.Palettes) > 0 {
				return fmt.Errorf("unknown palette %q", val)
			}
			cfg.Palette = val
		case "chart_width":
			n, err := strconv.Atoi(val)
			if err != nil {
				return fmt.Errorf("chart_width must be an integer: %w", err)
			}
			cfg.ChartWidth = n
		case "chart_height":
			n, err := strconv.Atoi(val)
			if err != nil {
				return fmt.Errorf("chart_height must be an integer: %w", err)
			}
			cfg.ChartHeight = n
		case "rake_tolerance":
			f, err := strconv.ParseFloat(val, 64)
			if err != nil {
				return fmt.Errorf("rake_tolerance must be a number: %w", err)
			}
			cfg.RakeTolerance = f
		case "rake_max_iter":
			n, err := strconv.Atoi(val)
			if err != nil {
				return fmt.Errorf("rake_max_iter must be an integer: %w", err)
			}
			cfg.RakeMaxIter = n
		default:
			return fmt.Errorf("unknown config key: %s", key)
		}
		if err := cfgpkg.Save(cfg, cfgFile); err != nil {
			return err
		}
		fmt.Printf("✓ Set %s = %s\n", key, val)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
}
