// Package config loads tool defaults from an optional YAML file,
// discovered upward from the working directory. Explicit command-line
// flags always win over config values.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/ianrastall/jsontool/internal/formatter"
)

// Config represents the tool's persistent defaults
type Config struct {
	// Indent is the default indentation option: "tab", "0", or a space
	// count as a string.
	Indent string `yaml:"indent"`
	// SortKeys sorts object keys alphabetically by default.
	SortKeys bool `yaml:"sort_keys"`
	// KeyCase renames object keys by default: camel, pascal, snake,
	// kebab or screaming-snake. Blank means no renaming.
	KeyCase string `yaml:"key_case"`
	// Query is a default JMESPath expression applied before formatting.
	Query string `yaml:"query"`
	// QueueSize is the worker request queue capacity.
	QueueSize int `yaml:"queue_size"`
}

// NewConfig creates a new Config with default values
func NewConfig() *Config {
	return &Config{
		Indent:    "",
		SortKeys:  false,
		KeyCase:   "",
		Query:     "",
		QueueSize: 16,
	}
}

// LoadConfig loads configuration from a YAML file
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := NewConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks config values that cannot be repaired silently.
func (c *Config) Validate() error {
	if _, err := formatter.KeyCaser(c.KeyCase); err != nil {
		return fmt.Errorf("invalid key_case %q: must be camel, pascal, snake, kebab or screaming-snake", c.KeyCase)
	}
	if c.QueueSize < 1 {
		c.QueueSize = 16
	}
	return nil
}

// FindConfigFile searches for a config file in the current directory
// and its parents.
func FindConfigFile() string {
	configNames := []string{".jsontool.yml", ".jsontool.yaml", "jsontool.yml", "jsontool.yaml"}

	currentDir, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		for _, name := range configNames {
			configPath := filepath.Join(currentDir, name)
			if _, err := os.Stat(configPath); err == nil {
				return configPath
			}
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			break
		}
		currentDir = parentDir
	}

	return ""
}
