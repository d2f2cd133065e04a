package cmd

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/CrossTally/crosstally-cli/internal/weight"
)

var (
	wtTargets    []string
	wtMethod     string
	wtWeight     string
	wtOutput     string
	wtWeightName string
)

var weightCmd = &cobra.Command{
	Use:   "weight <file>",
	Short: "Calibrate design weights by raking or post-stratification",
	Long: `Weight adjusts each respondent's weight so the weighted sample matches known
population distributions. Targets are marginal distributions per categorical
variable; values may be population counts, or shares summing to 1 (scaled to
the base weight total). Raking fits several margins iteratively;
post-stratification fits a single margin exactly.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(wtTargets) == 0 {
			return fmt.Errorf("--target is required")
		}
		targets, err := parseTargets(wtTargets)
		if err != nil {
			return err
		}
		ds, err := openDataset(args[0], wtWeight, "", 0)
		if err != nil {
			return err
		}

		c := activeConfig()
		opt := weight.Options{
			Weight:    wtWeight,
			Tolerance: c.RakeTolerance,
			MaxIter:   c.RakeMaxIter,
		}
		var res *weight.Result
		switch wtMethod {
		case "", "rake":
			res, err = weight.Rake(ds, targets, opt)
		case "post":
			if len(targets) != 1 {
				return fmt.Errorf("post-stratification takes exactly one --target, got %d", len(targets))
			}
			res, err = weight.PostStratify(ds, targets[0], opt)
		default:
			return fmt.Errorf("unsupported --method: %s (use rake|post)", wtMethod)
		}
		if err != nil {
			return err
		}

		d := weight.Diagnose(res.Weights)
		fmt.Printf("✓ Calibrated %d weights in %d iteration(s)\n", len(res.Weights), res.Iterations)
		fmt.Printf("  weights: min %.4f, mean %.4f, max %.4f\n", d.MinWeight, d.MeanWeight, d.MaxWeight)
		fmt.Printf("  design effect %.4f, effective n %.1f\n", d.DesignEffect, d.EffectiveN)

		out := wtOutput
		if out == "" {
			base := strings.TrimSuffix(filepath.Base(args[0]), filepath.Ext(args[0]))
			out = filepath.Join(filepath.Dir(args[0]), base+"_weighted.csv")
		}
		if err := ds.SetNumeric(wtWeightName, res.Weights); err != nil {
			return err
		}
		delim, err := parseDelimiter(c.Delimiter)
		if err != nil {
			return err
		}
		if err := ds.WriteCSV(out, delim); err != nil {
			return fmt.Errorf("write weighted dataset: %w", err)
		}
		fmt.Printf("✓ Wrote weighted dataset to %s (column %q)\n", out, wtWeightName)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(weightCmd)
	weightCmd.Flags().StringArrayVar(&wtTargets, "target", nil, "marginal target, Var=cat:value,cat:value (repeatable)")
	weightCmd.Flags().StringVar(&wtMethod, "method", "rake", "calibration method: rake|post")
	weightCmd.Flags().StringVarP(&wtWeight, "weight", "w", "", "base weight column name")
	weightCmd.Flags().StringVarP(&wtOutput, "output", "o", "", "output CSV path (default: <input>_weighted.csv)")
	weightCmd.Flags().StringVar(&wtWeightName, "weight-name", "weight", "name of the calibrated weight column")
}
