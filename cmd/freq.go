package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/CrossTally/crosstally-cli/internal/render"
	"github.com/CrossTally/crosstally-cli/internal/tabulate"
)

var (
	freqBy      []string
	freqWeight  string
	freqPercent bool
	freqRound   int
	freqOutput  string
)

var freqCmd = &cobra.Command{
	Use:   "freq <file>",
	Short: "Weighted frequency table over one or two grouping columns",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(freqBy) == 0 {
			return fmt.Errorf("--by is required")
		}
		ds, err := openDataset(args[0], freqWeight, "", 0)
		if err != nil {
			return err
		}
		round := freqRound
		if !cmd.Flags().Changed("round") {
			round = activeConfig().Round
		}
		t, err := tabulate.Frequencies(ds, freqBy, tabulate.FreqOptions{
			Weight:  freqWeight,
			Percent: freqPercent,
			Round:   round,
		})
		if err != nil {
			return err
		}
		header, rows := render.FreqTable(t, freqPercent, round)
		if freqOutput != "" {
			delim, err := parseDelimiter(activeConfig().Delimiter)
			if err != nil {
				return err
			}
			out, err := render.Delimited(header, rows, delim)
			if err != nil {
				return err
			}
			if err := os.WriteFile(freqOutput, out, 0o644); err != nil {
				return fmt.Errorf("write output: %w", err)
			}
			fmt.Printf("✓ Wrote frequency table to %s\n", freqOutput)
			return nil
		}
		fmt.Print(render.Markdown(header, rows))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(freqCmd)
	freqCmd.Flags().StringSliceVar(&freqBy, "by", nil, "grouping column name(s), at most two (repeatable)")
	freqCmd.Flags().StringVarP(&freqWeight, "weight", "w", "", "weight column name")
	freqCmd.Flags().BoolVar(&freqPercent, "percent", false, "add a share column (within the outer group when two columns)")
	freqCmd.Flags().IntVar(&freqRound, "round", 1, "decimals for numeric output columns (-1 disables)")
	freqCmd.Flags().StringVarP(&freqOutput, "output", "o", "", "optional path to write a delimited table")
}
