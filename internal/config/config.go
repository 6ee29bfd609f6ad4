// Package config holds the YAML configuration of the npy command line tool.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/born-ml/npy/internal/serialization"
)

// Config represents the CLI configuration.
type Config struct {
	ConvertFloat16 bool          `yaml:"convert_float16"`
	ZeroCopy       bool          `yaml:"zero_copy"`
	LogLevel       string        `yaml:"log_level"`
	Indent         string        `yaml:"indent"`
	HTTPTimeout    time.Duration `yaml:"http_timeout"`
}

// DefaultConfig returns a default configuration
func DefaultConfig() *Config {
	return &Config{
		ConvertFloat16: true,
		LogLevel:       "info",
		Indent:         "  ",
		HTTPTimeout:    30 * time.Second,
	}
}

// LoadConfig loads configuration from the specified path.
// Keys missing from the file keep their default values.
func LoadConfig(configPath string) (*Config, error) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file does not exist: %s", configPath)
	}

	if !filepath.IsAbs(configPath) {
		absPath, err := filepath.Abs(configPath)
		if err != nil {
			return nil, fmt.Errorf("invalid config path: %w", err)
		}
		configPath = absPath
	}

	data, err := os.ReadFile(configPath) //nolint:gosec // G304: path is chosen by the user
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	if config.HTTPTimeout < 0 {
		return nil, fmt.Errorf("http_timeout must not be negative, got %s", config.HTTPTimeout)
	}

	return config, nil
}

// SaveConfig writes the configuration to the specified path
func SaveConfig(config *Config, configPath string) error {
	if err := os.MkdirAll(filepath.Dir(configPath), 0o750); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// ReadOptions converts the decoding settings into reader options.
func (c *Config) ReadOptions() serialization.ReadOptions {
	opts := serialization.DefaultReadOptions()
	opts.ConvertFloat16 = c.ConvertFloat16
	opts.ZeroCopy = c.ZeroCopy
	return opts
}
