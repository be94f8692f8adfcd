// Package config provides configuration management for the analyst
// application.
package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"finsight/internal/errors"
)

// Config holds all application configuration.
type Config struct {
	Agents      AgentConfig   `mapstructure:"agents"`
	Loop        LoopConfig    `mapstructure:"loop"`
	Logging     LoggingConfig `mapstructure:"logging"`
	Credentials Credentials   `mapstructure:"-"` // loaded from environment
}

// AgentConfig holds LLM agent configuration.
type AgentConfig struct {
	Model string `mapstructure:"model"`
}

// LoopConfig holds orchestration loop configuration.
type LoopConfig struct {
	MaxIterations  int `mapstructure:"max_iterations"`
	TimeoutSeconds int `mapstructure:"timeout_seconds"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level    string `mapstructure:"level"`
	Console  bool   `mapstructure:"console"`
	File     bool   `mapstructure:"file"`
	FilePath string `mapstructure:"file_path"`
}

// Credentials holds API credentials.
type Credentials struct {
	OpenAIAPIKey string
}

// DefaultConfigDir returns the default configuration directory.
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".config/finsight"
	}
	return filepath.Join(home, ".config", "finsight")
}

// Load loads configuration from the specified directory, falling back to
// defaults when no config file exists. Credentials come from the
// environment only and are never written to the config file.
func Load(configDir string) (*Config, error) {
	if configDir == "" {
		configDir = DefaultConfigDir()
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(configDir)

	v.SetDefault("agents.model", "gpt-4o-mini")
	v.SetDefault("loop.max_iterations", 3)
	v.SetDefault("loop.timeout_seconds", 60)
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.console", true)
	v.SetDefault("logging.file", true)
	v.SetDefault("logging.file_path", filepath.Join(configDir, "logs", "finsight.log"))

	v.SetEnvPrefix("FINSIGHT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, notFound := err.(viper.ConfigFileNotFoundError); !notFound {
			return nil, errors.Wrap(err, "read config file")
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, errors.Wrap(err, "unmarshal config")
	}

	cfg.Credentials.OpenAIAPIKey = os.Getenv("OPENAI_API_KEY")

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Loop.MaxIterations <= 0 {
		return errors.Wrap(errors.ErrConfigInvalid, "loop.max_iterations must be positive")
	}
	if c.Agents.Model == "" {
		return errors.Wrap(errors.ErrConfigInvalid, "agents.model must be set")
	}
	return nil
}
