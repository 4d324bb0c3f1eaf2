// Package config loads and saves the analyzer configuration as TOML.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// Config represents the application configuration.
type Config struct {
	// Analysis bounds and defaults
	Analysis AnalysisConfig `toml:"analysis"`

	// Run history storage
	Storage StorageConfig `toml:"storage"`

	// Decklist watch mode
	Watch WatchConfig `toml:"watch"`

	// Application configuration
	App AppConfig `toml:"app"`
}

// AnalysisConfig bounds the enumeration work an analysis may do.
type AnalysisConfig struct {
	HandSize     int `toml:"hand_size"`      // Default opening-hand size
	MaxSupport   int `toml:"max_support"`    // Max vectors a full enumeration may produce (0 = unbounded)
	MaxTreeDepth int `toml:"max_tree_depth"` // Max draw-sequence tree depth (0 = unbounded)
}

// StorageConfig controls the SQLite run history.
type StorageConfig struct {
	Enabled bool   `toml:"enabled"` // Persist analysis runs
	Path    string `toml:"path"`    // Database file path ("" = default location)
}

// WatchConfig controls decklist watch mode.
type WatchConfig struct {
	MinInterval string `toml:"min_interval"` // Minimum time between re-analyses (e.g. "500ms")
}

// AppConfig contains general application settings.
type AppConfig struct {
	DebugMode bool `toml:"debug_mode"` // Enable debug logging
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Analysis: AnalysisConfig{
			HandSize:     7,
			MaxSupport:   200000,
			MaxTreeDepth: 8,
		},
		Storage: StorageConfig{
			Enabled: true,
			Path:    "",
		},
		Watch: WatchConfig{
			MinInterval: "500ms",
		},
		App: AppConfig{
			DebugMode: false,
		},
	}
}

// configPath returns the path to the configuration file.
func configPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home directory: %w", err)
	}

	configDir := filepath.Join(homeDir, ".manabase")
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return "", fmt.Errorf("create config directory: %w", err)
	}

	return filepath.Join(configDir, "config.toml"), nil
}

// DefaultStoragePath returns the default run-history database path.
func DefaultStoragePath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".manabase", "runs.db"), nil
}

// Load loads the configuration from the default location. Returns the
// default config if the file doesn't exist.
func Load() (*Config, error) {
	path, err := configPath()
	if err != nil {
		return nil, err
	}
	return LoadFrom(path)
}

// LoadFrom loads the configuration from an explicit path. Returns the
// default config if the file doesn't exist.
func LoadFrom(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return DefaultConfig(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	var config Config
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}

	return &config, nil
}

// Save saves the configuration to the default location.
func (c *Config) Save() error {
	path, err := configPath()
	if err != nil {
		return err
	}

	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}

	return nil
}

// Validate validates the configuration values.
func (c *Config) Validate() error {
	if c.Analysis.HandSize < 0 {
		return fmt.Errorf("hand size cannot be negative: %d", c.Analysis.HandSize)
	}
	if c.Analysis.MaxSupport < 0 {
		return fmt.Errorf("max support cannot be negative: %d", c.Analysis.MaxSupport)
	}
	if c.Analysis.MaxTreeDepth < 0 {
		return fmt.Errorf("max tree depth cannot be negative: %d", c.Analysis.MaxTreeDepth)
	}
	if c.Watch.MinInterval != "" {
		if _, err := time.ParseDuration(c.Watch.MinInterval); err != nil {
			return fmt.Errorf("invalid watch min interval %q: %w", c.Watch.MinInterval, err)
		}
	}
	return nil
}

// GetWatchMinInterval returns the watch throttle interval as a duration.
func (c *Config) GetWatchMinInterval() (time.Duration, error) {
	if c.Watch.MinInterval == "" {
		return 500 * time.Millisecond, nil
	}
	return time.ParseDuration(c.Watch.MinInterval)
}
