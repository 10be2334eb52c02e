package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, ws, content string) {
	t.Helper()
	dir := filepath.Join(ws, ".regnerd")
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(content), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

func resetLogging() {
	CloseAll()
	logsDir = ""
	workspace = ""
	config = loggingConfig{}
	configLoaded = false
	logLevel = LevelInfo
}

func TestInitialize_NoConfigIsSilent(t *testing.T) {
	defer resetLogging()

	ws := t.TempDir()
	if err := Initialize(ws); err != nil {
		t.Fatalf("Initialize: %v", err)
	}

	if IsDebugMode() {
		t.Error("expected debug mode off without config")
	}
	if _, err := os.Stat(filepath.Join(ws, ".regnerd", "logs")); !os.IsNotExist(err) {
		t.Error("logs directory should not be created in production mode")
	}
}

func TestInitialize_DebugModeWritesLogs(t *testing.T) {
	defer resetLogging()

	ws := t.TempDir()
	writeConfig(t, ws, "logging:\n  debug_mode: true\n  level: debug\n")

	if err := Initialize(ws); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	if !IsDebugMode() {
		t.Fatal("expected debug mode on")
	}

	API("openFDA request endpoint=%s", "device/510k")
	CloseAll()

	entries, err := os.ReadDir(filepath.Join(ws, ".regnerd", "logs"))
	if err != nil {
		t.Fatalf("read logs dir: %v", err)
	}
	var found bool
	for _, e := range entries {
		if strings.HasSuffix(e.Name(), "_api.log") {
			found = true
			data, err := os.ReadFile(filepath.Join(ws, ".regnerd", "logs", e.Name()))
			if err != nil {
				t.Fatalf("read log: %v", err)
			}
			if !strings.Contains(string(data), "device/510k") {
				t.Errorf("log missing message, got: %s", data)
			}
		}
	}
	if !found {
		t.Error("expected api log file")
	}
}

func TestCategoryFilter(t *testing.T) {
	defer resetLogging()

	ws := t.TempDir()
	writeConfig(t, ws, "logging:\n  debug_mode: true\n  categories:\n    cache: false\n")

	if err := Initialize(ws); err != nil {
		t.Fatalf("Initialize: %v", err)
	}

	if IsCategoryEnabled(CategoryCache) {
		t.Error("cache category should be disabled")
	}
	if !IsCategoryEnabled(CategoryAPI) {
		t.Error("api category should default to enabled")
	}
}

func TestRequestLoggerFormat(t *testing.T) {
	r := &RequestLogger{requestID: "abc123", fields: map[string]interface{}{}}
	msg := r.formatMsg("status=%d", 429)
	if msg != "[req:abc123] status=429" {
		t.Errorf("unexpected format: %q", msg)
	}

	r.WithField("endpoint", "device/510k")
	msg = r.formatMsg("retry")
	if !strings.Contains(msg, "endpoint") {
		t.Errorf("expected fields in message, got %q", msg)
	}
}
