package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/CrossTally/crosstally-cli/internal/study"
	"github.com/CrossTally/crosstally-cli/internal/utils"
)

var (
	studyDesc    string
	studyDataset string
	studyWeight  string
)

var studyCmd = &cobra.Command{
	Use:   "study",
	Short: "Manage study bundles (dataset + compiled artifacts)",
}

var studyInitCmd = &cobra.Command{
	Use:   "init <name>",
	Short: "Create a new study",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]
		dir := filepath.Join(activeConfig().StudiesDir, name)
		s := study.New(name, studyDesc, dir)
		s.DatasetPath = studyDataset
		s.WeightVar = studyWeight
		if err := s.Save(); err != nil {
			return err
		}
		fmt.Printf("✓ Created study '%s' at %s\n", name, dir)
		return nil
	},
}

var studyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List studies",
	RunE: func(cmd *cobra.Command, args []string) error {
		studies, err := study.List(activeConfig().StudiesDir)
		if err != nil {
			return err
		}
		if len(studies) == 0 {
			fmt.Println("No studies found")
			return nil
		}
		for _, s := range studies {
			fmt.Printf("%s - %d artifact(s)", s.Name, len(s.Artifacts))
			if s.Description != "" {
				fmt.Printf(" - %s", s.Description)
			}
			fmt.Println()
		}
		return nil
	},
}

var studyShowCmd = &cobra.Command{
	Use:   "show [name]",
	Short: "Show a study and its artifacts",
	Long: `Show prints a study's metadata and artifact list. Without a name, the study
containing the current directory is shown.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var s *study.Study
		var err error
		if len(args) == 1 {
			s, err = study.Resolve(activeConfig().StudiesDir, args[0])
		} else {
			var root string
			root, err = utils.FindStudyRoot("")
			if err == nil {
				s, err = study.Load(root)
			}
		}
		if err != nil {
			return err
		}
		fmt.Printf("Study: %s (%s)\n", s.Name, s.ID)
		if s.Description != "" {
			fmt.Printf("Description: %s\n", s.Description)
		}
		if s.DatasetPath != "" {
			fmt.Printf("Dataset: %s\n", s.DatasetPath)
		}
		if s.WeightVar != "" {
			fmt.Printf("Weight: %s\n", s.WeightVar)
		}
		fmt.Printf("Created: %s\n", s.CreatedAt.Format("2006-01-02 15:04"))
		for _, a := range s.SortedArtifacts() {
			fmt.Printf("- [%s] %s", a.Kind, a.Path)
			if a.Description != "" {
				fmt.Printf(" (%s)", a.Description)
			}
			fmt.Println()
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(studyCmd)
	studyCmd.AddCommand(studyInitCmd)
	studyCmd.AddCommand(studyListCmd)
	studyCmd.AddCommand(studyShowCmd)
	studyInitCmd.Flags().StringVar(&studyDesc, "desc", "", "study description")
	studyInitCmd.Flags().StringVar(&studyDataset, "dataset", "", "path of the study's dataset file")
	studyInitCmd.Flags().StringVar(&studyWeight, "weight", "", "weight column of the study's dataset")
}
