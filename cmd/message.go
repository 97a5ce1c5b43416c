package cmd

import (
	"errors"
	"fmt"

	"github.com/samzong/commit-buddy/internal/diff"
	"github.com/samzong/commit-buddy/internal/ui"
	"github.com/spf13/cobra"
)

var (
	msgStaged      bool
	msgLanguage    string
	msgModel       string
	msgTemperature float32

	messageCmd = &cobra.Command{
		Use:   "message [path]",
		Short: "Generate a Conventional Commits message from the diff",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runMessage,
	}
)

func init() {
	messageCmd.Flags().BoolVar(&msgStaged, "staged", true, "describe staged changes only")
	messageCmd.Flags().StringVar(&msgLanguage, "language", "", "output language (default English)")
	messageCmd.Flags().StringVar(&msgModel, "model", "", "completion model (default from config)")
	messageCmd.Flags().Float32Var(&msgTemperature, "temperature", 0, "sampling temperature (default from config)")
	rootCmd.AddCommand(messageCmd)
}

func runMessage(cmd *cobra.Command, args []string) error {
	cfg, err := requireConfig()
	if err != nil {
		return err
	}
	repo, err := openRepo(cmd.Context(), args, cfg)
	if err != nil {
		return err
	}

	provider := diff.NewProvider(repo.Runner(), cfg.MaxDiffChars)
	doc, err := provider.Get(cmd.Context(), diff.Options{
		StagedOnly:   msgStaged,
		ContextLines: 3,
	})
	if errors.Is(err, diff.ErrNoChanges) {
		fmt.Fprintln(outWriter(), "[commit-buddy] No changes detected; nothing to describe.")
		return nil
	}
	if err != nil {
		return err
	}

	gen, err := newGenerator(cfg, msgModel, msgTemperature, cmd.Flags().Changed("temperature"))
	if err != nil {
		return err
	}

	sp := ui.NewSpinner("Generating commit message...")
	sp.Start()
	message, err := gen.Generate(cmd.Context(), doc.Text, msgLanguage)
	sp.Stop()
	if err != nil {
		return err
	}

	fmt.Fprintln(outWriter(), message)
	return nil
}
