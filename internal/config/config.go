// Package config loads grepline's persistent configuration. The config
// file holds ambient preferences (logging, color, binary handling,
// history); search options themselves come from the command line.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// HistoryConfig controls run-history recording.
type HistoryConfig struct {
	// Enabled turns on recording of completed runs.
	Enabled bool `yaml:"enabled"`

	// DBPath is the SQLite database location.
	DBPath string `yaml:"db_path"`
}

// Config represents grepline configuration options.
type Config struct {
	// LogLevel sets diagnostic verbosity (debug, info, warn, error).
	LogLevel string `yaml:"log_level"`

	// NoColor disables colored output even on a terminal.
	NoColor bool `yaml:"no_color"`

	// BinaryCheck enables NUL-byte binary detection by default.
	BinaryCheck bool `yaml:"binary_check"`

	// FollowSymlinks follows symbolic links during recursive walks.
	FollowSymlinks bool `yaml:"follow_symlinks"`

	// History contains run-history configuration.
	History HistoryConfig `yaml:"history"`
}

// DefaultConfig returns a Config with sensible default values.
func DefaultConfig() *Config {
	return &Config{
		LogLevel:       "warn",
		NoColor:        false,
		BinaryCheck:    true,
		FollowSymlinks: false,
		History: HistoryConfig{
			Enabled: false,
			DBPath:  defaultHistoryPath(),
		},
	}
}

// defaultHistoryPath places the history database under the user config
// directory, falling back to a dotfile in the working directory.
func defaultHistoryPath() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "grepline", "history.db")
	}
	return filepath.Join(".grepline", "history.db")
}

// DefaultPath returns the config file location: $GREPLINE_CONFIG if set,
// otherwise .grepline.yaml in the user config directory.
func DefaultPath() string {
	if path := os.Getenv("GREPLINE_CONFIG"); path != "" {
		return path
	}
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "grepline", "config.yaml")
	}
	return ".grepline.yaml"
}

// LoadConfig loads configuration from the specified file path. A missing
// file returns the defaults without error; a malformed file is an error.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	// Fields absent from the file keep their defaults; yaml only
	// overwrites what the document mentions.
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}

	if cfg.History.DBPath == "" {
		cfg.History.DBPath = defaultHistoryPath()
	}

	return cfg, nil
}
