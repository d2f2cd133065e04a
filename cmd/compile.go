package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/CrossTally/crosstally-cli/internal/compile"
	"github.com/CrossTally/crosstally-cli/internal/study"
)

var (
	compRows   []string
	compCols   []string
	compWeight string
	compMode   string
	compRound  int
	compOutput string
	compNoFile bool
	compStudy  string
)

var compileCmd = &cobra.Command{
	Use:   "compile <file>",
	Short: "Compile crosstabs over the cross-product of two variable lists",
	Long: `Compile iterates every (row variable, column variable) pair. In report mode
it assembles consolidated crosstab blocks, each followed by a statistics
summary line; in stats mode it produces one flat record per pair. The result
is written to a delimited file unless --no-file is given.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(compRows) == 0 || len(compCols) == 0 {
			return fmt.Errorf("--rows and --cols are required")
		}
		var mode compile.Mode
		switch compMode {
		case "", "report":
			mode = compile.ModeReport
		case "stats":
			mode = compile.ModeStats
		default:
			return fmt.Errorf("unsupported --mode: %s (use report|stats)", compMode)
		}
		ds, err := openDataset(args[0], compWeight, "", 0)
		if err != nil {
			return err
		}
		c := activeConfig()
		delim, err := parseDelimiter(c.Delimiter)
		if err != nil {
			return err
		}
		round := compRound
		if !cmd.Flags().Changed("round") {
			round = c.Round
		}
		res, err := compile.Run(ds, compRows, compCols, compile.Options{
			Weight:     compWeight,
			Mode:       mode,
			Round:      round,
			Delimiter:  delim,
			OutputPath: compOutput,
			OutputDir:  c.OutputDir,
			ReportName: c.ReportName,
			StatsName:  c.StatsName,
			NoFile:     compNoFile,
		})
		if err != nil {
			return err
		}

		if res.Path != "" {
			fmt.Printf("✓ Compiled %d pair(s) to %s\n", len(res.Records), res.Path)
		} else {
			fmt.Print(res.Text)
		}

		if compStudy != "" {
			if res.Path == "" {
				return fmt.Errorf("--study requires a file output (drop --no-file)")
			}
			s, err := study.Resolve(c.StudiesDir, compStudy)
			if err != nil {
				return err
			}
			kind := "report"
			if mode == compile.ModeStats {
				kind = "stats"
			}
			s.AddArtifact(res.Path, kind, fmt.Sprintf("compiled from %s", filepath.Base(args[0])))
			if err := s.Save(); err != nil {
				return err
			}
			fmt.Printf("✓ Attached output to study '%s'\n", s.Name)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(compileCmd)
	compileCmd.Flags().StringSliceVar(&compRows, "rows", nil, "row variable names (repeatable)")
	compileCmd.Flags().StringSliceVar(&compCols, "cols", nil, "column variable names (repeatable)")
	compileCmd.Flags().StringVarP(&compWeight, "weight", "w", "", "weight column name")
	compileCmd.Flags().StringVar(&compMode, "mode", "report", "output mode: report|stats")
	compileCmd.Flags().IntVar(&compRound, "round", 1, "decimals for report percentages (-1 disables)")
	compileCmd.Flags().StringVarP(&compOutput, "output", "o", "", "output file path (default: config output dir + default name)")
	compileCmd.Flags().BoolVar(&compNoFile, "no-file", false, "return the result on stdout instead of writing a file")
	compileCmd.Flags().StringVar(&compStudy, "study", "", "study name to attach the output to")
}
