package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/samzong/commit-buddy/internal/diff"
	"github.com/samzong/commit-buddy/internal/ui"
	"github.com/samzong/commit-buddy/internal/workflow"
	"github.com/spf13/cobra"
)

var (
	commitMessage     string
	commitSignoff     bool
	commitBranch      string
	commitRemote      string
	commitPush        bool
	commitAllowMain   bool
	commitGenerate    bool
	commitStagedGen   bool
	commitDryRun      bool
	commitLanguage    string
	commitModel       string
	commitTemperature float32

	commitCmd = &cobra.Command{
		Use:   "commit [path]",
		Short: "Commit and optionally push, with guard rails",
		Long: `Commit staged changes in the repository at path (default ".") and
optionally push. An empty --message is drafted from the diff by the
completion service unless --generate-if-empty=false. Pushes to main or
master are blocked unless --allow-main-push is set, and --dry-run
previews the result without touching the repository.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runCommit,
	}
)

func init() {
	commitCmd.Flags().StringVarP(&commitMessage, "message", "m", "", "commit message (generated when empty)")
	commitCmd.Flags().BoolVar(&commitSignoff, "signoff", false, "add a Signed-off-by trailer")
	commitCmd.Flags().StringVar(&commitBranch, "branch", "", "target branch (default current)")
	commitCmd.Flags().StringVar(&commitRemote, "remote", "origin", "remote to push to")
	commitCmd.Flags().BoolVar(&commitPush, "push", true, "push after committing")
	commitCmd.Flags().BoolVar(&commitAllowMain, "allow-main-push", false, "allow pushing directly to main/master")
	commitCmd.Flags().BoolVar(&commitGenerate, "generate-if-empty", true, "generate a message when none is given")
	commitCmd.Flags().BoolVar(&commitStagedGen, "staged-only-for-gen", true, "generate from staged changes only")
	commitCmd.Flags().BoolVar(&commitDryRun, "dry-run", false, "preview without committing or pushing")
	commitCmd.Flags().StringVar(&commitLanguage, "language", "", "message language (default English)")
	commitCmd.Flags().StringVar(&commitModel, "model", "", "completion model (default from config)")
	commitCmd.Flags().Float32Var(&commitTemperature, "temperature", 0, "sampling temperature (default from config)")
	rootCmd.AddCommand(commitCmd)
}

func runCommit(cmd *cobra.Command, args []string) error {
	cfg, err := requireConfig()
	if err != nil {
		return err
	}
	repo, err := openRepo(cmd.Context(), args, cfg)
	if err != nil {
		return err
	}

	// With no credential the generator stays nil; the workflow then fails
	// only if generation is actually reached, matching the gate ordering.
	var gen workflow.MessageGenerator
	if cfg.APIKey != "" {
		g, err := newGenerator(cfg, commitModel, commitTemperature, cmd.Flags().Changed("temperature"))
		if err != nil {
			return err
		}
		gen = g
	}

	orch := workflow.New(repo.Runner(), diff.NewProvider(repo.Runner(), cfg.MaxDiffChars), gen)

	req := workflow.Request{
		Message:          commitMessage,
		Signoff:          commitSignoff,
		Branch:           commitBranch,
		Remote:           commitRemote,
		Push:             commitPush,
		AllowMainPush:    commitAllowMain,
		GenerateIfEmpty:  commitGenerate,
		StagedOnlyForGen: commitStagedGen,
		DryRun:           commitDryRun,
		Language:         commitLanguage,
	}

	var sp *ui.Spinner
	if strings.TrimSpace(commitMessage) == "" && commitGenerate && gen != nil {
		sp = ui.NewSpinner("Drafting commit message...")
		sp.Start()
	}

	out, err := orch.Run(cmd.Context(), req)
	if sp != nil {
		sp.Stop()
	}
	if err != nil {
		return err
	}

	renderOutcome(outWriter(), out)
	return nil
}

func renderOutcome(w io.Writer, out workflow.Outcome) {
	switch out.Kind {
	case workflow.NothingToCommit:
		fmt.Fprintln(w, "[commit-buddy] Nothing to commit.")
	case workflow.NothingToGenerate:
		fmt.Fprintln(w, "[commit-buddy] No changes detected for message generation.")
	case workflow.PushBlocked:
		fmt.Fprintf(w, "[commit-buddy] Push blocked: refusing to push directly to %s. Use --allow-main-push to override.\n", out.Branch)
	case workflow.DryRun:
		fmt.Fprintf(w, "[commit-buddy] DRY RUN\nBranch: %s\nRemote: %s\nMessage:\n%s\n(No commit/push executed.)\n",
			out.Branch, out.Remote, out.Message)
	case workflow.Committed:
		fmt.Fprintf(w, "[commit-buddy] Committed locally on %s. Push skipped.\n", out.Branch)
	case workflow.Pushed, workflow.PushedSetUpstream:
		fmt.Fprintf(w, "[commit-buddy] Committed and pushed to %s/%s.\n", out.Remote, out.Branch)
	}
}
