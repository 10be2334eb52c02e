// Package config holds all regNERD configuration.
// Config lives at ~/.regnerd/config.yaml (or <workspace>/.regnerd/config.yaml)
// and is the single source of truth; environment variables override the file.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all regNERD configuration.
type Config struct {
	// Core settings
	Name    string `yaml:"name"`
	Version string `yaml:"version"`

	// openFDA API configuration
	API APIConfig `yaml:"api"`

	// FDA Data Dashboard configuration
	Dashboard DashboardConfig `yaml:"dashboard"`

	// Response cache configuration
	Cache CacheConfig `yaml:"cache"`

	// Skill installer configuration
	Install InstallConfig `yaml:"install"`

	// Logging
	Logging LoggingConfig `yaml:"logging"`
}

// APIConfig configures the openFDA client.
type APIConfig struct {
	// API key. Resolution order: --api-key flag > OPENFDA_API_KEY env >
	// ~/.regnerd/openfda_api_key file > this value. Empty is allowed
	// (anonymous tier: 40 requests/minute instead of 240).
	APIKey string `yaml:"api_key"`

	BaseURL    string `yaml:"base_url"`
	Timeout    string `yaml:"timeout"`
	MaxRetries int    `yaml:"max_retries"`
}

// DashboardConfig configures the FDA Data Dashboard client.
type DashboardConfig struct {
	BaseURL  string `yaml:"base_url"`
	AuthUser string `yaml:"auth_user"`
	AuthKey  string `yaml:"auth_key"`
	Timeout  string `yaml:"timeout"`
}

// CacheConfig configures the SQLite response cache.
type CacheConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
	TTL     string `yaml:"ttl"`
}

// InstallConfig configures the skill installer.
type InstallConfig struct {
	// Default install target: claude, codex, or agent
	DefaultTarget string `yaml:"default_target"`
}

// LoggingConfig configures the category file logger.
type LoggingConfig struct {
	DebugMode  bool            `yaml:"debug_mode"`
	Categories map[string]bool `yaml:"categories,omitempty"`
	Level      string          `yaml:"level"`
	JSONFormat bool            `yaml:"json_format"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Name:    "regNERD",
		Version: "1.0.0",
		API: APIConfig{
			BaseURL:    "https://api.fda.gov",
			Timeout:    "30s",
			MaxRetries: 3,
		},
		Dashboard: DashboardConfig{
			BaseURL: "https://api-datadashboard.fda.gov/v1",
			Timeout: "60s",
		},
		Cache: CacheConfig{
			Enabled: true,
			Path:    "", // empty = <workspace>/.regnerd/cache.db
			TTL:     "24h",
		},
		Install: InstallConfig{
			DefaultTarget: "claude",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load reads configuration from the given path and applies env overrides.
// A missing file is not an error; defaults are returned.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg.applyEnvOverrides()
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	cfg.applyEnvOverrides()
	return cfg, nil
}

// Save writes the configuration to the given path.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// applyEnvOverrides lets environment variables win over the config file.
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("OPENFDA_API_KEY"); v != "" {
		c.API.APIKey = v
	}
	if v := os.Getenv("OPENFDA_BASE_URL"); v != "" {
		c.API.BaseURL = v
	}
	if v := os.Getenv("FDA_DASHBOARD_AUTH_USER"); v != "" {
		c.Dashboard.AuthUser = v
	}
	if v := os.Getenv("FDA_DASHBOARD_AUTH_KEY"); v != "" {
		c.Dashboard.AuthKey = v
	}
	if v := os.Getenv("REGNERD_CACHE_PATH"); v != "" {
		c.Cache.Path = v
	}
}

// Validate checks the configuration for inconsistencies.
func (c *Config) Validate() error {
	if c.API.BaseURL == "" {
		return fmt.Errorf("api.base_url must not be empty")
	}
	if _, err := time.ParseDuration(c.API.Timeout); err != nil {
		return fmt.Errorf("api.timeout invalid: %w", err)
	}
	if c.API.MaxRetries < 0 || c.API.MaxRetries > 10 {
		return fmt.Errorf("api.max_retries must be between 0 and 10, got %d", c.API.MaxRetries)
	}
	if c.Cache.Enabled {
		if _, err := time.ParseDuration(c.Cache.TTL); err != nil {
			return fmt.Errorf("cache.ttl invalid: %w", err)
		}
	}
	switch c.Install.DefaultTarget {
	case "claude", "codex", "agent":
	default:
		return fmt.Errorf("install.default_target must be claude, codex, or agent, got %q", c.Install.DefaultTarget)
	}
	return nil
}

// GetAPITimeout returns the parsed API timeout, falling back to 30s.
func (c *Config) GetAPITimeout() time.Duration {
	d, err := time.ParseDuration(c.API.Timeout)
	if err != nil || d <= 0 {
		return 30 * time.Second
	}
	return d
}

// GetCacheTTL returns the parsed cache TTL, falling back to 24h.
func (c *Config) GetCacheTTL() time.Duration {
	d, err := time.ParseDuration(c.Cache.TTL)
	if err != nil || d <= 0 {
		return 24 * time.Hour
	}
	return d
}

// DefaultPath returns the config path inside the given workspace.
func DefaultPath(workspace string) string {
	return filepath.Join(workspace, ".regnerd", "config.yaml")
}
