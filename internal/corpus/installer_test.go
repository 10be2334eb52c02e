package corpus

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// waitForFile polls until the path exists or the deadline passes.
func waitForFile(t *testing.T, path string) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if _, err := os.Stat(path); err == nil {
			return
		}
		time.Sleep(25 * time.Millisecond)
	}
	t.Fatalf("file %s never appeared", path)
}

func TestWatch_MirrorsChangesAndStopsCleanly(t *testing.T) {
	src := t.TempDir()
	home := t.TempDir()

	skillDir := filepath.Join(src, "fda-510k-review")
	if err := os.MkdirAll(skillDir, 0755); err != nil {
		t.Fatal(err)
	}
	seed := filepath.Join(skillDir, "SKILL.md")
	if err := os.WriteFile(seed, []byte("---\nname: fda-510k-review\n---\nseed"), 0644); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- Watch(ctx, src, "claude", home)
	}()

	installed := filepath.Join(home, ".claude", "skills", "fda-510k-review")

	// The initial sync copies what already exists.
	waitForFile(t, filepath.Join(installed, "SKILL.md"))

	// A new markdown file lands after the debounce window.
	note := filepath.Join(skillDir, "notes.md")
	if err := os.WriteFile(note, []byte("# authoring note"), 0644); err != nil {
		t.Fatal(err)
	}
	waitForFile(t, filepath.Join(installed, "notes.md"))

	// An edit to an existing file is mirrored too.
	if err := os.WriteFile(seed, []byte("---\nname: fda-510k-review\n---\nupdated"), 0644); err != nil {
		t.Fatal(err)
	}
	deadline := time.Now().Add(5 * time.Second)
	for {
		data, err := os.ReadFile(filepath.Join(installed, "SKILL.md"))
		if err == nil && string(data) == "---\nname: fda-510k-review\n---\nupdated" {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("edited SKILL.md never resynced")
		}
		time.Sleep(25 * time.Millisecond)
	}

	cancel()
	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Watch returned %v, want context.Canceled", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Watch did not return after cancel")
	}
}

func TestWatch_UnknownTarget(t *testing.T) {
	err := Watch(context.Background(), t.TempDir(), "emacs", t.TempDir())
	if err == nil {
		t.Fatal("expected error for unknown install target")
	}
}

func TestWatch_MissingSource(t *testing.T) {
	err := Watch(context.Background(), filepath.Join(t.TempDir(), "nope"), "claude", t.TempDir())
	if err == nil {
		t.Fatal("expected error for missing source directory")
	}
}
