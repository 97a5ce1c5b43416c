package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/samzong/commit-buddy/internal/diff"
	"github.com/spf13/cobra"
)

var (
	diffStaged   bool
	diffContext  int
	diffFilter   string
	diffMaxChars int

	diffCmd = &cobra.Command{
		Use:   "diff [path]",
		Short: "Show a redacted unified diff",
		Long: `Show a unified diff of the repository at path (default ".").
Credential-shaped values are masked and the output is capped in size.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runDiff,
	}
)

func init() {
	diffCmd.Flags().BoolVar(&diffStaged, "staged", true, "show staged changes only")
	diffCmd.Flags().IntVar(&diffContext, "context", 3, "context lines around each hunk")
	diffCmd.Flags().StringVar(&diffFilter, "filter", "", "limit the diff to a path")
	diffCmd.Flags().IntVar(&diffMaxChars, "max-chars", 0, "size cap for this call (default from config)")
	rootCmd.AddCommand(diffCmd)
}

func runDiff(cmd *cobra.Command, args []string) error {
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
		StagedOnly:   diffStaged,
		ContextLines: diffContext,
		PathFilter:   diffFilter,
		MaxChars:     diffMaxChars,
	})
	if errors.Is(err, diff.ErrNoChanges) {
		fmt.Fprintln(outWriter(), "[commit-buddy] No changes detected (diff is empty).")
		return nil
	}
	if err != nil {
		return err
	}

	fmt.Fprint(outWriter(), doc.Text)
	if !strings.HasSuffix(doc.Text, "\n") {
		fmt.Fprintln(outWriter())
	}
	return nil
}
