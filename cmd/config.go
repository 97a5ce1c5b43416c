package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/samzong/commit-buddy/internal/config"
	"github.com/spf13/cobra"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"
)

var (
	configCmd = &cobra.Command{
		Use:   "config",
		Short: "Manage commit-buddy configuration",
	}

	configShowCmd = &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		RunE:  runConfigShow,
	}

	configSetKeyCmd = &cobra.Command{
		Use:   "set-key [api-key]",
		Short: "Store the completion service API key",
		Long: `Store the completion service API key in the config file. With no
argument the key is read from a masked terminal prompt.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runConfigSetKey,
	}
)

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetKeyCmd)
	rootCmd.AddCommand(configCmd)
}

// configView is the YAML shape `config show` prints. The key is masked.
type configView struct {
	Model        string   `yaml:"openai_model"`
	Temperature  float32  `yaml:"temperature"`
	MaxDiffChars int      `yaml:"max_diff_chars"`
	AllowedRoots []string `yaml:"allowed_roots,omitempty"`
	APIKey       string   `yaml:"api_key"`
	APIBase      string   `yaml:"api_base,omitempty"`
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	cfg, err := requireConfig()
	if err != nil {
		return err
	}

	view := configView{
		Model:        cfg.Model,
		Temperature:  cfg.Temperature,
		MaxDiffChars: cfg.MaxDiffChars,
		AllowedRoots: cfg.AllowedRoots,
		APIBase:      cfg.APIBase,
	}
	if cfg.APIKey != "" {
		view.APIKey = "********"
	}

	out, err := yaml.Marshal(view)
	if err != nil {
		return fmt.Errorf("render config: %w", err)
	}
	fmt.Fprint(outWriter(), string(out))
	return nil
}

func runConfigSetKey(cmd *cobra.Command, args []string) error {
	var key string
	if len(args) == 1 {
		key = args[0]
	} else {
		if !isatty.IsTerminal(os.Stdin.Fd()) {
			return errors.New("api key argument required when stdin is not a terminal")
		}
		fmt.Fprint(errWriter(), "API key: ")
		raw, err := term.ReadPassword(int(os.Stdin.Fd()))
		fmt.Fprintln(errWriter())
		if err != nil {
			return fmt.Errorf("read api key: %w", err)
		}
		key = string(raw)
	}

	key = strings.TrimSpace(key)
	if key == "" {
		return errors.New("api key cannot be empty")
	}

	path, err := config.SaveAPIKey(cfgFile, key)
	if err != nil {
		return err
	}
	fmt.Fprintf(outWriter(), "API key saved to %s\n", path)
	return nil
}
