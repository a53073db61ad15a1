// Package config handles configuration loading for lca. It supports
// XDG config paths, project-level overrides, and environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/ZephrFish/LCA/internal/llm"
	"github.com/ZephrFish/LCA/internal/mcp"
)

// Config holds all configuration for lca.
type Config struct {
	// Provider selects the completion backend: ollama, lmstudio, or anthropic.
	Provider string `mapstructure:"provider"`
	// Model is the model identifier passed to the provider.
	Model string `mapstructure:"model"`

	Ollama      OllamaConfig       `mapstructure:"ollama"`
	LMStudio    LMStudioConfig     `mapstructure:"lmstudio"`
	Anthropic   AnthropicConfig    `mapstructure:"anthropic"`
	Permissions PermissionsConfig  `mapstructure:"permissions"`
	DataDir     string             `mapstructure:"data_dir"`
	MCPServers  []mcp.ServerConfig `mapstructure:"mcp_servers"`
}

// OllamaConfig holds Ollama connection settings.
type OllamaConfig struct {
	BaseURL string `mapstructure:"base_url"`
}

// LMStudioConfig holds LM Studio connection settings.
type LMStudioConfig struct {
	BaseURL string `mapstructure:"base_url"`
}

// AnthropicConfig holds Anthropic API settings.
type AnthropicConfig struct {
	APIKey string `mapstructure:"api_key"`
	Model  string `mapstructure:"model"`
}

// PermissionsConfig holds the permission gate settings.
type PermissionsConfig struct {
	// AllowAll skips interactive confirmation for side effects.
	AllowAll bool `mapstructure:"allow_all"`
}

// Load loads configuration with the following precedence, highest first:
// environment variables (LCA_*, ANTHROPIC_API_KEY), project config
// (.lca.yaml in the current directory or a parent), user config
// (~/.config/lca/config.yaml), built-in defaults.
func Load() (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(getUserConfigDir())

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading user config: %w", err)
		}
	}

	if projectConfig := findProjectConfig(); projectConfig != "" {
		projectViper := viper.New()
		projectViper.SetConfigFile(projectConfig)
		if err := projectViper.ReadInConfig(); err == nil {
			if err := v.MergeConfigMap(projectViper.AllSettings()); err != nil {
				return nil, fmt.Errorf("merging project config: %w", err)
			}
		}
	}

	v.SetEnvPrefix("LCA")
	v.AutomaticEnv()
	v.BindEnv("provider", "LCA_PROVIDER")
	v.BindEnv("model", "LCA_MODEL")
	v.BindEnv("anthropic.api_key", "ANTHROPIC_API_KEY")

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	cfg.Anthropic.APIKey = os.ExpandEnv(cfg.Anthropic.APIKey)
	return cfg, nil
}

// LoadFromPath loads configuration from a specific file.
func LoadFromPath(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading config from %s: %w", path, err)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	cfg.Anthropic.APIKey = os.ExpandEnv(cfg.Anthropic.APIKey)
	return cfg, nil
}

// GetUserConfigPath returns the path to the user config file.
func GetUserConfigPath() string {
	return filepath.Join(getUserConfigDir(), "config.yaml")
}

// LLMOptions maps the provider settings onto the completion factory's
// options.
func (c *Config) LLMOptions() llm.Options {
	return llm.Options{
		OllamaBaseURL:   c.Ollama.BaseURL,
		LMStudioBaseURL: c.LMStudio.BaseURL,
		AnthropicAPIKey: c.Anthropic.APIKey,
		AnthropicModel:  c.Anthropic.Model,
	}
}

// setDefaults configures default values.
func setDefaults(v *viper.Viper) {
	v.SetDefault("provider", "ollama")
	v.SetDefault("model", "llama3.2")
	v.SetDefault("ollama.base_url", llm.DefaultOllamaBaseURL)
	v.SetDefault("lmstudio.base_url", llm.DefaultLMStudioBaseURL)
	v.SetDefault("anthropic.api_key", "")
	v.SetDefault("anthropic.model", "")
	v.SetDefault("permissions.allow_all", false)
	v.SetDefault("data_dir", "")
}

// getUserConfigDir returns the XDG config directory for lca.
func getUserConfigDir() string {
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return filepath.Join(xdgConfig, "lca")
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".config", "lca")
	}
	return filepath.Join(home, ".config", "lca")
}

// findProjectConfig searches for .lca.yaml in the current directory and
// its parents.
func findProjectConfig() string {
	cwd, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		configPath := filepath.Join(cwd, ".lca.yaml")
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}

		parent := filepath.Dir(cwd)
		if parent == cwd {
			break
		}
		cwd = parent
	}

	return ""
}
