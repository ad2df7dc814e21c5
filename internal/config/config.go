// Package config resolves memnet configuration from a YAML file and
// environment overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config is the resolved configuration passed into components.
type Config struct {
	// APIKey authenticates against the Hyperspell API.
	APIKey string `yaml:"api_key"`
	// BaseURL overrides the API endpoint, mainly for tests.
	BaseURL string `yaml:"base_url"`
	// UserID is the user the plugin acts on behalf of.
	UserID string `yaml:"user_id"`
	// Workspace is the root directory holding the memory tree.
	Workspace string `yaml:"workspace"`
	// BatchSize bounds one scan batch.
	BatchSize int `yaml:"batch_size"`
	// ContextBudget is the token budget for recall output.
	ContextBudget int `yaml:"context_budget"`
}

// DefaultPath returns the default config file location.
func DefaultPath() string {
	if env := os.Getenv("MEMNET_CONFIG"); env != "" {
		return env
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".memnet", "config.yaml")
}

// Load reads the config file at path (missing file is fine — defaults
// apply) and then applies environment overrides.
func Load(path string) (*Config, error) {
	cfg := &Config{
		BatchSize:     20,
		ContextBudget: 4000,
	}

	if b, err := os.ReadFile(path); err == nil {
		if err := yaml.Unmarshal(b, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	if v := os.Getenv("HYPERSPELL_API_KEY"); v != "" {
		cfg.APIKey = v
	}
	if v := os.Getenv("MEMNET_BASE_URL"); v != "" {
		cfg.BaseURL = v
	}
	if v := os.Getenv("MEMNET_USER_ID"); v != "" {
		cfg.UserID = v
	}
	if v := os.Getenv("MEMNET_WORKSPACE"); v != "" {
		cfg.Workspace = v
	}

	if cfg.Workspace == "" {
		home, _ := os.UserHomeDir()
		cfg.Workspace = filepath.Join(home, ".memnet")
	}
	return cfg, nil
}

// MemoryDir returns the workspace memory directory.
func (c *Config) MemoryDir() string {
	return filepath.Join(c.Workspace, "memory")
}
