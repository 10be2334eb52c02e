package config

import (
	"os"
	"path/filepath"
	"strings"

	"regnerd/internal/logging"
)

// keyFileName is the bare key file under ~/.regnerd/. It holds nothing
// but the openFDA API key, so it can be chmod 600 and gitignored easily.
const keyFileName = "openfda_api_key"

// ResolveAPIKey resolves the openFDA API key with the following priority:
//
//  1. explicit value (--api-key flag)
//  2. OPENFDA_API_KEY environment variable
//  3. ~/.regnerd/openfda_api_key file (content trimmed)
//  4. api.api_key from the config file
//
// An empty result is not an error: openFDA accepts anonymous requests at
// a lower rate limit. Callers surface the tier in `regnerd status`.
func (c *Config) ResolveAPIKey(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}

	if v := os.Getenv("OPENFDA_API_KEY"); v != "" {
		return v
	}

	if key := readKeyFile(); key != "" {
		return key
	}

	return c.API.APIKey
}

// readKeyFile reads the key file from the user's home directory.
// Unreadable or missing files are skipped, not fatal.
func readKeyFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}

	path := filepath.Join(home, ".regnerd", keyFileName)
	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			logging.Get(logging.CategoryBoot).Warn("key file unreadable at %s: %v", path, err)
		}
		return ""
	}

	return strings.TrimSpace(string(data))
}

// KeySource reports where the effective key came from, for `regnerd status`.
func (c *Config) KeySource(flagValue string) string {
	switch {
	case flagValue != "":
		return "flag"
	case os.Getenv("OPENFDA_API_KEY") != "":
		return "environment"
	case readKeyFile() != "":
		return "key file"
	case c.API.APIKey != "":
		return "config file"
	default:
		return "none (anonymous tier)"
	}
}
