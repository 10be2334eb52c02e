package config

import (
	"os"
	"path/filepath"
	"testing"
)

// =============================================================================
// UNIFIED CONFIG TESTS
// =============================================================================

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Name != "regNERD" {
		t.Errorf("expected Name=regNERD, got %s", cfg.Name)
	}
	if cfg.API.BaseURL != "https://api.fda.gov" {
		t.Errorf("expected openFDA base URL, got %s", cfg.API.BaseURL)
	}
	if cfg.API.MaxRetries != 3 {
		t.Errorf("expected MaxRetries=3, got %d", cfg.API.MaxRetries)
	}
	if !cfg.Cache.Enabled {
		t.Error("cache should be enabled by default")
	}
}

func TestConfig_SaveLoad(t *testing.T) {
	t.Setenv("OPENFDA_API_KEY", "")
	t.Setenv("OPENFDA_BASE_URL", "")

	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "config.yaml")

	cfg := DefaultConfig()
	cfg.API.APIKey = "test-key"
	cfg.Install.DefaultTarget = "codex"

	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if loaded.API.APIKey != "test-key" {
		t.Errorf("expected APIKey=test-key, got %s", loaded.API.APIKey)
	}
	if loaded.Install.DefaultTarget != "codex" {
		t.Errorf("expected DefaultTarget=codex, got %s", loaded.Install.DefaultTarget)
	}
}

func TestConfig_LoadMissingFileUsesDefaults(t *testing.T) {
	t.Setenv("OPENFDA_API_KEY", "")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("Load of missing file should not error, got %v", err)
	}
	if cfg.API.BaseURL != "https://api.fda.gov" {
		t.Errorf("expected default base URL, got %s", cfg.API.BaseURL)
	}
}

func TestConfig_EnvOverrides(t *testing.T) {
	t.Setenv("OPENFDA_API_KEY", "env-key")
	t.Setenv("OPENFDA_BASE_URL", "http://localhost:9999")

	cfg := DefaultConfig()
	cfg.applyEnvOverrides()

	if cfg.API.APIKey != "env-key" {
		t.Errorf("expected APIKey=env-key, got %s", cfg.API.APIKey)
	}
	if cfg.API.BaseURL != "http://localhost:9999" {
		t.Errorf("expected overridden base URL, got %s", cfg.API.BaseURL)
	}
}

func TestConfig_Validate(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate, got: %v", err)
	}

	cfg.API.Timeout = "not-a-duration"
	if err := cfg.Validate(); err == nil {
		t.Error("expected validation error for bad timeout")
	}

	cfg = DefaultConfig()
	cfg.Install.DefaultTarget = "cursor"
	if err := cfg.Validate(); err == nil {
		t.Error("expected validation error for unknown install target")
	}

	cfg = DefaultConfig()
	cfg.API.MaxRetries = 99
	if err := cfg.Validate(); err == nil {
		t.Error("expected validation error for excessive retries")
	}
}

func TestConfig_Helpers(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.GetAPITimeout() == 0 {
		t.Error("GetAPITimeout should return non-zero duration")
	}
	if cfg.GetCacheTTL() == 0 {
		t.Error("GetCacheTTL should return non-zero duration")
	}

	cfg.API.Timeout = "garbage"
	if cfg.GetAPITimeout().Seconds() != 30 {
		t.Errorf("expected 30s fallback, got %v", cfg.GetAPITimeout())
	}
}

// =============================================================================
// CREDENTIAL RESOLUTION TESTS
// =============================================================================

func TestResolveAPIKey_Priority(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("OPENFDA_API_KEY", "")

	cfg := DefaultConfig()
	cfg.API.APIKey = "config-key"

	// Config file is the last tier.
	if got := cfg.ResolveAPIKey(""); got != "config-key" {
		t.Errorf("expected config-key, got %s", got)
	}

	// Key file beats config.
	keyDir := filepath.Join(home, ".regnerd")
	if err := os.MkdirAll(keyDir, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(keyDir, "openfda_api_key"), []byte("file-key\n"), 0600); err != nil {
		t.Fatal(err)
	}
	if got := cfg.ResolveAPIKey(""); got != "file-key" {
		t.Errorf("expected file-key (trimmed), got %q", got)
	}

	// Env beats key file.
	t.Setenv("OPENFDA_API_KEY", "env-key")
	if got := cfg.ResolveAPIKey(""); got != "env-key" {
		t.Errorf("expected env-key, got %s", got)
	}

	// Flag beats everything.
	if got := cfg.ResolveAPIKey("flag-key"); got != "flag-key" {
		t.Errorf("expected flag-key, got %s", got)
	}
}

func TestKeySource(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("OPENFDA_API_KEY", "")

	cfg := DefaultConfig()
	if got := cfg.KeySource(""); got != "none (anonymous tier)" {
		t.Errorf("expected anonymous tier, got %s", got)
	}

	cfg.API.APIKey = "x"
	if got := cfg.KeySource(""); got != "config file" {
		t.Errorf("expected config file, got %s", got)
	}

	t.Setenv("OPENFDA_API_KEY", "y")
	if got := cfg.KeySource(""); got != "environment" {
		t.Errorf("expected environment, got %s", got)
	}

	if got := cfg.KeySource("z"); got != "flag" {
		t.Errorf("expected flag, got %s", got)
	}
}
