package cmd

import (
	"context"
	"fmt"

	"github.com/samzong/commit-buddy/internal/config"
	"github.com/samzong/commit-buddy/internal/git"
	"github.com/samzong/commit-buddy/internal/llm"
	"github.com/spf13/cobra"
)

var (
	cfgFile string
	cfg     config.Config
	cfgErr  error

	rootCtx = context.Background()

	rootCmd = &cobra.Command{
		Use:   "commit-buddy",
		Short: "commit-buddy - guarded git commits with generated messages",
		Long: `commit-buddy inspects repository changes, redacts secrets from diffs,
drafts Conventional Commits messages with an LLM, and performs guarded
commit and push operations.`,
		Version:       fmt.Sprintf("%s (built at %s)", Version, BuildTime),
		SilenceErrors: true,
		SilenceUsage:  true,
	}
)

// SetContext installs the signal-aware context commands run under.
func SetContext(ctx context.Context) {
	rootCtx = ctx
}

func Execute() error {
	return rootCmd.ExecuteContext(rootCtx)
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "",
		"config file (default $HOME/.commit-buddy.yaml)")
}

func initConfig() {
	cfg, cfgErr = config.Load(cfgFile)
}

func requireConfig() (config.Config, error) {
	if cfgErr != nil {
		return config.Config{}, fmt.Errorf("configuration error: %w", cfgErr)
	}
	return cfg, nil
}

// openRepo validates the optional path argument every subcommand shares.
func openRepo(ctx context.Context, args []string, cfg config.Config) (*git.Repo, error) {
	path := "."
	if len(args) > 0 {
		path = args[0]
	}
	return git.Open(ctx, path, cfg.AllowedRoots)
}

// newGenerator builds a generator from the config, honoring per-call model
// and temperature overrides. The temperature flag must be checked through
// cmd.Flags().Changed so an explicit 0 is distinguishable from unset.
func newGenerator(cfg config.Config, model string, temperature float32, tempSet bool) (*llm.Generator, error) {
	client, err := llm.NewOpenAIClient(cfg.APIKey, cfg.APIBase)
	if err != nil {
		return nil, err
	}
	if model == "" {
		model = cfg.Model
	}
	temp := cfg.Temperature
	if tempSet {
		temp = temperature
	}
	return llm.NewGenerator(client, model, temp), nil
}
