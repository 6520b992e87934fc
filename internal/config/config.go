// Package config loads extsort configuration from YAML files and merges it
// with CLI flag overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config represents extsort configuration options
type Config struct {
	// Output is the root directory of the sorted output tree
	Output string `yaml:"output"`

	// MaxConcurrency is the maximum number of concurrent copies (0 = unlimited)
	MaxConcurrency int `yaml:"max_concurrency"`

	// LogLevel sets the logging verbosity (trace, debug, info, warn, error)
	LogLevel string `yaml:"log_level"`

	// LogDir is the directory where run logs will be written (empty = console only)
	LogDir string `yaml:"log_dir"`

	// DryRun lists the planned destination tree without copying anything
	DryRun bool `yaml:"dry_run"`
}

// DefaultConfig returns a Config with sensible default values
func DefaultConfig() *Config {
	return &Config{
		Output:         "dist",
		MaxConcurrency: 0, // Unlimited
		LogLevel:       "info",
		LogDir:         "",
		DryRun:         false,
	}
}

// LoadConfig loads configuration from the specified file path.
// If the file doesn't exist, returns default configuration without error.
// If the file exists but is malformed, returns an error.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		// File doesn't exist, return defaults (not an error)
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var fileCfg Config
	if err := yaml.Unmarshal(data, &fileCfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	// Apply non-zero values from file (merging with defaults)
	if fileCfg.Output != "" {
		cfg.Output = fileCfg.Output
	}
	if fileCfg.MaxConcurrency != 0 {
		cfg.MaxConcurrency = fileCfg.MaxConcurrency
	}
	if fileCfg.LogLevel != "" {
		cfg.LogLevel = fileCfg.LogLevel
	}
	if fileCfg.LogDir != "" {
		cfg.LogDir = fileCfg.LogDir
	}
	if fileCfg.DryRun {
		cfg.DryRun = fileCfg.DryRun
	}

	return cfg, nil
}

// LoadConfigFromDir loads configuration from .extsort/config.yaml in the
// specified directory. If the directory or file doesn't exist, returns
// default configuration without error.
func LoadConfigFromDir(dir string) (*Config, error) {
	configPath := filepath.Join(dir, ".extsort", "config.yaml")
	return LoadConfig(configPath)
}

// MergeWithFlags merges CLI flags into the configuration.
// Non-nil flag values override configuration values, allowing CLI flags to
// take precedence over config file settings.
func (c *Config) MergeWithFlags(output *string, maxConcurrency *int, logLevel *string, logDir *string, dryRun *bool) {
	if output != nil {
		c.Output = *output
	}
	if maxConcurrency != nil {
		c.MaxConcurrency = *maxConcurrency
	}
	if logLevel != nil {
		c.LogLevel = *logLevel
	}
	if logDir != nil {
		c.LogDir = *logDir
	}
	if dryRun != nil {
		c.DryRun = *dryRun
	}
}

// Validate validates the configuration values.
// Returns an error if any values are invalid.
func (c *Config) Validate() error {
	if c.Output == "" {
		return fmt.Errorf("output directory cannot be empty")
	}

	if c.MaxConcurrency < 0 {
		return fmt.Errorf("max_concurrency must be >= 0, got %d", c.MaxConcurrency)
	}

	validLevels := map[string]bool{
		"trace": true,
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[c.LogLevel] {
		return fmt.Errorf("invalid log_level %q, must be one of: trace, debug, info, warn, error", c.LogLevel)
	}

	return nil
}
