package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/CrossTally/crosstally-cli/internal/render"
	"github.com/CrossTally/crosstally-cli/internal/tabulate"
	"github.com/CrossTally/crosstally-cli/internal/utils"
)

var (
	tabRow        string
	tabCol        string
	tabWeight     string
	tabPercent    bool
	tabTotals     string
	tabLayout     string
	tabStats      bool
	tabRound      int
	tabChartPath  string
	tabOutput     string
	tabSheetName  string
	tabSheetIndex int
)

var tabulateCmd = &cobra.Command{
	Use:   "tabulate <file>",
	Short: "Weighted two-way cross-tabulation with optional statistics and chart",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if tabRow == "" || tabCol == "" {
			return fmt.Errorf("--row and --col are required")
		}
		var totals tabulate.Totals
		switch tabTotals {
		case "", "none":
			totals = tabulate.TotalsNone
		case "rows":
			totals = tabulate.TotalsRows
		case "cols":
			totals = tabulate.TotalsCols
		case "both":
			totals = tabulate.TotalsBoth
		default:
			return fmt.Errorf("unsupported --totals: %s (use none|rows|cols|both)", tabTotals)
		}
		if tabLayout != "long" && tabLayout != "wide" {
			return fmt.Errorf("unsupported --layout: %s (use long|wide)", tabLayout)
		}
		ds, err := openDataset(args[0], tabWeight, tabSheetName, tabSheetIndex)
		if err != nil {
			return err
		}
		round := tabRound
		if !cmd.Flags().Changed("round") {
			round = activeConfig().Round
		}
		ct, err := tabulate.Build(ds, tabRow, tabCol, tabulate.CrosstabOptions{
			Weight:  tabWeight,
			Percent: tabPercent,
			Totals:  totals,
			Round:   round,
			Stats:   tabStats || tabChartPath != "",
		})
		if err != nil {
			return err
		}

		var header []string
		var rows [][]string
		if tabLayout == "long" {
			header, rows = render.LongTable(ct.RowVar, ct.ColVar, ct.Long(), round)
		} else {
			header, rows = render.WideTable(ct.Wide(), round)
		}

		if tabChartPath != "" {
			c := activeConfig()
			svg := render.BarChartSVG(ct.Wide(), render.ChartOptions{
				Title:   fmt.Sprintf("%s x %s", ct.RowVar, ct.ColVar),
				Palette: c.ActivePalette(),
				Width:   c.ChartWidth,
				Height:  c.ChartHeight,
			})
			if err := utils.SafeWriteFile(tabChartPath, svg); err != nil {
				return fmt.Errorf("write chart: %w", err)
			}
			fmt.Printf("✓ Wrote chart to %s\n", tabChartPath)
		}

		if tabOutput != "" {
			delim, err := parseDelimiter(activeConfig().Delimiter)
			if err != nil {
				return err
			}
			out, err := render.Delimited(header, rows, delim)
			if err != nil {
				return err
			}
			if err := os.WriteFile(tabOutput, out, 0o644); err != nil {
				return fmt.Errorf("write output: %w", err)
			}
			fmt.Printf("✓ Wrote crosstab to %s\n", tabOutput)
		} else {
			fmt.Print(render.Markdown(header, rows))
		}
		if tabStats && ct.Stats != nil {
			fmt.Printf("Statistics: %s\n", ct.Stats.Summary())
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(tabulateCmd)
	tabulateCmd.Flags().StringVar(&tabRow, "row", "", "row variable (categorical column)")
	tabulateCmd.Flags().StringVar(&tabCol, "col", "", "column variable (categorical column)")
	tabulateCmd.Flags().StringVarP(&tabWeight, "weight", "w", "", "weight column name")
	tabulateCmd.Flags().BoolVar(&tabPercent, "percent", false, "convert cells to percentages of the column total")
	tabulateCmd.Flags().StringVar(&tabTotals, "totals", "none", "append marginal totals: none|rows|cols|both")
	tabulateCmd.Flags().StringVar(&tabLayout, "layout", "wide", "output layout: long|wide")
	tabulateCmd.Flags().BoolVar(&tabStats, "stats", false, "print chi-square / Cramer's V summary")
	tabulateCmd.Flags().IntVar(&tabRound, "round", 1, "decimals for numeric output (-1 disables)")
	tabulateCmd.Flags().StringVar(&tabChartPath, "chart", "", "optional path to write an SVG bar chart")
	tabulateCmd.Flags().StringVarP(&tabOutput, "output", "o", "", "optional path to write a delimited table")
	tabulateCmd.Flags().StringVar(&tabSheetName, "sheet-name", "", "XLSX: sheet name to load")
	tabulateCmd.Flags().IntVar(&tabSheetIndex, "sheet-index", 1, "XLSX: 1-based sheet index (used if --sheet-name not provided)")
}
