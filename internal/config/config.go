package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Default config file path.
const DefaultConfigPath = "~/.config/devicepulse/config.yaml"

// Config holds all devicepulse configuration.
type Config struct {
	Logs      LogsConfig      `yaml:"logs"`
	Storage   StorageConfig   `yaml:"storage"`
	Retention RetentionConfig `yaml:"retention"`
	Export    ExportConfig    `yaml:"export"`
	Report    ReportConfig    `yaml:"report"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// LogsConfig locates the diagnostic captures.
type LogsConfig struct {
	// Root is the directory whose immediate subdirectories are sessions.
	Root string `yaml:"root"`
}

type StorageConfig struct {
	Path       string `yaml:"path"`
	SQLiteFile string `yaml:"sqlite_file"`
}

type RetentionConfig struct {
	Days int `yaml:"days"`
}

type ExportConfig struct {
	Dir string `yaml:"dir"`
}

type ReportConfig struct {
	// TopN bounds the per-session "top consumers" lists.
	TopN int `yaml:"top_n"`
}

type LoggingConfig struct {
	Level string `yaml:"level"`
}

// Load reads a YAML config file at path and merges it with defaults.
// Returns an error if the file cannot be read or contains invalid YAML.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	return cfg, nil
}

// LoadOrDefault loads the config from path, falling back to defaults when
// path is empty or the file does not exist. A file that exists but cannot
// be parsed is still an error.
func LoadOrDefault(path string) (*Config, error) {
	if path == "" {
		expanded, err := ExpandPath(DefaultConfigPath)
		if err != nil {
			return DefaultConfig(), nil
		}
		path = expanded
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return DefaultConfig(), nil
	}
	return Load(path)
}

// DBPath returns the resolved SQLite database path.
func (c *Config) DBPath() (string, error) {
	dir, err := ExpandPath(c.Storage.Path)
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, c.Storage.SQLiteFile), nil
}

// ExpandPath replaces a leading ~ with the user's home directory.
func ExpandPath(path string) (string, error) {
	if len(path) > 0 && path[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolving home directory: %w", err)
		}
		return filepath.Join(home, path[1:]), nil
	}
	return path, nil
}
