package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	stagePattern string

	stageCmd = &cobra.Command{
		Use:   "stage [path]",
		Short: "Stage changes for the next commit",
		Long: `Stage changes in the repository at path (default ".").
With --pattern, stages only matching paths; otherwise stages everything.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runStage,
	}
)

func init() {
	stageCmd.Flags().StringVar(&stagePattern, "pattern", "", "stage only paths matching this pattern")
	rootCmd.AddCommand(stageCmd)
}

func runStage(cmd *cobra.Command, args []string) error {
	cfg, err := requireConfig()
	if err != nil {
		return err
	}
	repo, err := openRepo(cmd.Context(), args, cfg)
	if err != nil {
		return err
	}

	if stagePattern != "" {
		if _, err := repo.Runner().Run(cmd.Context(), "add", stagePattern); err != nil {
			return err
		}
		fmt.Fprintf(outWriter(), "[commit-buddy] Staged changes matching: %s\n", stagePattern)
		return nil
	}

	if _, err := repo.Runner().Run(cmd.Context(), "add", "-A"); err != nil {
		return err
	}
	fmt.Fprintln(outWriter(), "[commit-buddy] Staged all changes.")
	return nil
}
