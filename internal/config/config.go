// Package config loads the process configuration exactly once and hands out
// an immutable value. Components receive the value through their
// constructors; nothing reads the environment after Load returns.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

const (
	envPrefix  = "COMMIT_BUDDY"
	configName = ".commit-buddy"
)

// Defaults match the service's documented behavior.
const (
	DefaultModel        = "gpt-4o-mini"
	DefaultTemperature  = 0.2
	DefaultMaxDiffChars = 200000
)

// Config is the effective configuration for one process.
type Config struct {
	// MaxDiffChars caps diff documents unless a call overrides it.
	MaxDiffChars int
	// AllowedRoots restricts which repository paths may be operated on.
	// Empty means unrestricted.
	AllowedRoots []string
	Model        string
	Temperature  float32
	APIKey       string
	APIBase      string
}

// Load reads defaults, the optional config file (~/.commit-buddy.yaml unless
// cfgFile overrides it), and COMMIT_BUDDY_* environment variables, in
// increasing precedence. OPENAI_API_KEY is honored as the credential
// fallback.
func Load(cfgFile string) (Config, error) {
	v := viper.New()
	v.SetDefault("max_diff_chars", DefaultMaxDiffChars)
	v.SetDefault("allowed_roots", "")
	v.SetDefault("openai_model", DefaultModel)
	v.SetDefault("temperature", DefaultTemperature)
	v.SetDefault("api_key", "")
	v.SetDefault("api_base", "")

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(home)
		v.SetConfigName(configName)
		v.SetConfigType("yaml")
	}

	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil && !missingConfigFile(err) {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	cfg := Config{
		MaxDiffChars: v.GetInt("max_diff_chars"),
		AllowedRoots: SplitRoots(v.GetString("allowed_roots")),
		Model:        v.GetString("openai_model"),
		Temperature:  float32(v.GetFloat64("temperature")),
		APIKey:       v.GetString("api_key"),
		APIBase:      v.GetString("api_base"),
	}
	if cfg.APIKey == "" {
		cfg.APIKey = os.Getenv("OPENAI_API_KEY")
	}
	return cfg, nil
}

func missingConfigFile(err error) bool {
	var notFound viper.ConfigFileNotFoundError
	if errors.As(err, &notFound) {
		return true
	}
	// SetConfigFile paths report plain fs errors instead.
	return errors.Is(err, os.ErrNotExist)
}

// SplitRoots parses the colon-separated allow-list into absolute, cleaned
// paths. Blank entries are dropped.
func SplitRoots(raw string) []string {
	var roots []string
	for _, p := range strings.Split(raw, string(os.PathListSeparator)) {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		abs, err := filepath.Abs(p)
		if err != nil {
			continue
		}
		roots = append(roots, filepath.Clean(abs))
	}
	return roots
}

// SaveAPIKey persists the credential into the YAML config file, creating the
// file when absent, and returns the path written.
func SaveAPIKey(cfgFile, key string) (string, error) {
	path := cfgFile
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("locate home directory: %w", err)
		}
		path = filepath.Join(home, configName+".yaml")
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil && !missingConfigFile(err) {
		return "", fmt.Errorf("read config: %w", err)
	}

	v.Set("api_key", key)
	if err := v.WriteConfigAs(path); err != nil {
		return "", fmt.Errorf("write config: %w", err)
	}
	return path, nil
}
