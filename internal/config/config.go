// Package config provides configuration loading and validation for zonegen.
//
// Configuration comes from an optional YAML file; command-line flags
// override individual values afterwards. Validate fills in defaults.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// EnvConfigPath names the environment variable consulted when no -config
// flag is given.
const EnvConfigPath = "ZONEGEN_CONFIG"

const (
	defaultDatabase = "db.sqlite"
	defaultPrompt   = "❯ "
)

// ResolveConfigPath returns the flag value if set, otherwise the value of
// ZONEGEN_CONFIG. An empty result means no config file.
func ResolveConfigPath(flagValue string) string {
	if p := strings.TrimSpace(flagValue); p != "" {
		return p
	}
	return strings.TrimSpace(os.Getenv(EnvConfigPath))
}

// Load reads the YAML file at path. An empty path yields the defaults.
// The result is not validated: flags may still fill in Dir.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return cfg, nil
}

// Validate validates and normalizes the configuration.
func (cfg *Config) Validate() error {
	if strings.TrimSpace(cfg.Dir) == "" {
		return errors.New("dir must be set")
	}
	cfg.Dir = filepath.Clean(cfg.Dir)

	if cfg.Database == "" {
		cfg.Database = defaultDatabase
	}
	if strings.ContainsRune(cfg.Database, filepath.Separator) {
		return errors.New("database must be a file name inside dir")
	}
	if cfg.Prompt == "" {
		cfg.Prompt = defaultPrompt
	}

	// Normalize logging
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "INFO"
	}
	cfg.Logging.Level = strings.ToUpper(cfg.Logging.Level)
	if cfg.Logging.StructuredFormat == "" {
		cfg.Logging.StructuredFormat = "json"
	}
	if cfg.Logging.ExtraFields == nil {
		cfg.Logging.ExtraFields = map[string]string{}
	}

	return nil
}

// DatabasePath is the location of the database file.
func (cfg *Config) DatabasePath() string {
	return filepath.Join(cfg.Dir, cfg.Database)
}
