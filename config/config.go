package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config represents the framework-wide configuration.
type Config struct {
	Server        ServerConfig        `mapstructure:"server"`
	Execution     ExecutionConfig     `mapstructure:"execution"`
	Mocking       MockingConfig       `mapstructure:"mocking"`
	Documentation DocumentationConfig `mapstructure:"documentation"`
	Logging       LoggingConfig       `mapstructure:"logging"`

	// PriorityLevels maps a priority level name to the sample types it
	// covers, e.g. "high": ["async", "streaming"].
	PriorityLevels map[string][]string `mapstructure:"priority_levels"`
}

// ServerConfig holds MCP server configuration.
type ServerConfig struct {
	Transport string `mapstructure:"transport"`
	HTTPPort  int    `mapstructure:"http_port"`
}

// ExecutionConfig holds sample execution configuration.
type ExecutionConfig struct {
	TimeoutSec        int `mapstructure:"timeout_sec"`
	RestoreTimeoutSec int `mapstructure:"restore_timeout_sec"`
}

// MockingConfig holds mock credential configuration.
type MockingConfig struct {
	APIKeyPlaceholder string `mapstructure:"api_key_placeholder"`
}

// DocumentationConfig locates the documentation corpus and the language
// descriptor files.
type DocumentationConfig struct {
	PagesPath     string `mapstructure:"pages_path"`
	LanguagesPath string `mapstructure:"languages_path"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Mode  string `mapstructure:"mode"`
	Level string `mapstructure:"level"`
}

// New loads and validates the framework configuration.
func New() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")

	viper.SetDefault("server.transport", "stdio")
	viper.SetDefault("server.http_port", 8080)
	viper.SetDefault("execution.timeout_sec", 30)
	viper.SetDefault("execution.restore_timeout_sec", 60)
	viper.SetDefault("mocking.api_key_placeholder", "test_api_key")
	viper.SetDefault("documentation.pages_path", "fern/pages")
	viper.SetDefault("documentation.languages_path", "languages")
	viper.SetDefault("logging.mode", "production")
	viper.SetDefault("logging.level", "info")
	viper.SetDefault("priority_levels", map[string][]string{
		"high":   {"async", "streaming"},
		"medium": {"sync", "function"},
		"low":    {"class"},
	})

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found, continue with defaults.
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := config.validate(); err != nil {
		return nil, fmt.Errorf("config validation error: %w", err)
	}

	return &config, nil
}

// validate ensures the configuration is valid.
func (c *Config) validate() error {
	if c.Server.Transport != "stdio" && c.Server.Transport != "http" {
		return fmt.Errorf("invalid server.transport: %s, must be 'stdio' or 'http'", c.Server.Transport)
	}

	if c.Execution.TimeoutSec <= 0 {
		return fmt.Errorf("execution.timeout_sec must be positive, got: %d", c.Execution.TimeoutSec)
	}

	if c.Execution.RestoreTimeoutSec <= 0 {
		return fmt.Errorf("execution.restore_timeout_sec must be positive, got: %d", c.Execution.RestoreTimeoutSec)
	}

	if c.Mocking.APIKeyPlaceholder == "" {
		return fmt.Errorf("mocking.api_key_placeholder must not be empty")
	}

	if c.Logging.Mode != "production" && c.Logging.Mode != "development" {
		return fmt.Errorf("invalid logging.mode: %s, must be 'production' or 'development'", c.Logging.Mode)
	}

	return nil
}

// GetTimeout returns the sample execution timeout as a duration.
func (c *Config) GetTimeout() time.Duration {
	return time.Duration(c.Execution.TimeoutSec) * time.Second
}

// GetRestoreTimeout returns the dependency-restore timeout as a duration.
func (c *Config) GetRestoreTimeout() time.Duration {
	return time.Duration(c.Execution.RestoreTimeoutSec) * time.Second
}
