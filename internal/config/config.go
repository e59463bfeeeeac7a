package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/kaiwahq/kaiwa/internal/pathutil"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/cobra"
)

type Config struct {
	Log       LogConfig       `koanf:"log"`
	Models    ModelsConfig    `koanf:"models"`
	Normalize NormalizeConfig `koanf:"normalize"`
	Store     StoreConfig     `koanf:"store"`
}

type LogConfig struct {
	Level string `koanf:"level"`
}

type ModelsConfig struct {
	Default             string          `koanf:"default"`
	Fallback            string          `koanf:"fallback"`
	MaxFallbackAttempts int             `koanf:"max_fallback_attempts"`
	Registry            []ModelRegistry `koanf:"registry"`
}

type ModelRegistry struct {
	Name     string `koanf:"name"`
	Provider string `koanf:"provider"`
	BaseURL  string `koanf:"base_url"`
	APIKey   string `koanf:"api_key"`
}

type NormalizeConfig struct {
	SeparateTextFromToolCalls string `koanf:"separate_text_from_tool_calls"`
	MergeAdjacentSameRole     bool   `koanf:"merge_adjacent_same_role"`
}

type StoreConfig struct {
	WorkspacePath string `koanf:"workspace_path"`
	LockTimeout   string `koanf:"lock_timeout"`
	LockRetry     string `koanf:"lock_retry"`
	LockMaxRetry  int    `koanf:"lock_max_retry"`
}

const (
	DefaultLogLevel                 = "info"
	DefaultModelDefault             = "gpt-4-turbo"
	DefaultModelFallback            = "claude-sonnet-4-20250514"
	DefaultModelMaxFallbackAttempts = 2
	DefaultOpenAIBaseURL            = "https://api.openai.com/v1"
	DefaultNormalizeSeparation      = "trailing-tool-calls-only"
	DefaultNormalizeMergeSameRole   = false
	DefaultStoreLockTimeout         = "30s"
	DefaultStoreLockRetry           = "100ms"
	DefaultStoreLockMaxRetry        = 300
)

func Load(cmd *cobra.Command) (*Config, error) {
	k := koanf.New(".")

	// Hardcoded Defaults
	defaults := map[string]interface{}{
		"log.level":                    DefaultLogLevel,
		"models.default":               DefaultModelDefault,
		"models.fallback":              DefaultModelFallback,
		"models.max_fallback_attempts": DefaultModelMaxFallbackAttempts,
		"models.registry": []ModelRegistry{
			{Name: DefaultModelDefault, Provider: "openai"},
			{Name: DefaultModelFallback, Provider: "anthropic"},
		},
		"normalize.separate_text_from_tool_calls": DefaultNormalizeSeparation,
		"normalize.merge_adjacent_same_role":      DefaultNormalizeMergeSameRole,
		"store.workspace_path":                    filepath.Join(os.Getenv("HOME"), ".kaiwa", "transcripts"),
		"store.lock_timeout":                      DefaultStoreLockTimeout,
		"store.lock_retry":                        DefaultStoreLockRetry,
		"store.lock_max_retry":                    DefaultStoreLockMaxRetry,
	}
	for key, value := range defaults {
		k.Set(key, value)
	}

	// Config file loading
	configPath := ""
	if cmd != nil {
		if flag := cmd.Flags().Lookup("config"); flag != nil {
			configPath = strings.TrimSpace(flag.Value.String())
		}
	}

	if configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, err
		}
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			globalPath := filepath.Join(home, ".kaiwa", "config.yaml")
			if err := k.Load(file.Provider(globalPath), yaml.Parser()); err != nil {
				slog.Debug("Global config not found or invalid", "path", globalPath, "error", err)
			}
		}
	}

	// Environment Variables. Only the first underscore separates the section
	// from the key, so KAIWA_STORE_LOCK_TIMEOUT reaches store.lock_timeout.
	k.Load(env.Provider("KAIWA_", ".", func(s string) string {
		parts := strings.SplitN(strings.ToLower(strings.TrimPrefix(s, "KAIWA_")), "_", 2)
		return strings.Join(parts, ".")
	}), nil)

	// CLI Flags
	if cmd != nil {
		k.Load(posflag.Provider(cmd.Flags(), ".", k), nil)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, err
	}

	for i, m := range cfg.Models.Registry {
		if m.Provider == "" {
			cfg.Models.Registry[i].Provider = "openai"
		}
	}

	workspacePath, err := pathutil.Expand(cfg.Store.WorkspacePath)
	if err != nil {
		return nil, err
	}
	if workspacePath != "" {
		cfg.Store.WorkspacePath = workspacePath
	}

	// Post-Process: Inject standard Env Vars if missing
	envKeys := map[string]string{
		"openai":    "OPENAI_API_KEY",
		"anthropic": "ANTHROPIC_API_KEY",
		"gemini":    "GEMINI_API_KEY",
	}
	for provider, envKey := range envKeys {
		key := os.Getenv(envKey)
		if key == "" {
			continue
		}
		for i, m := range cfg.Models.Registry {
			if m.Provider == provider && m.APIKey == "" {
				cfg.Models.Registry[i].APIKey = key
			}
		}
	}

	return &cfg, nil
}
