package corpus

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"regnerd/internal/logging"

	"github.com/fsnotify/fsnotify"
)

// installDirs maps an install target to its skills directory under the
// user's home.
var installDirs = map[string]string{
	"claude": ".claude/skills",
	"codex":  ".codex/skills",
	"agent":  ".agent/skills",
}

// Targets returns the supported install target names.
func Targets() []string {
	return []string{"claude", "codex", "agent"}
}

// InstallDir resolves the skills directory for a target under home.
func InstallDir(target, home string) (string, error) {
	dir, ok := installDirs[strings.ToLower(target)]
	if !ok {
		return "", fmt.Errorf("unknown install target %q (supported: %s)",
			target, strings.Join(Targets(), ", "))
	}
	return filepath.Join(home, dir), nil
}

// Install copies every embedded skill pack into the target's skills
// directory, overwriting files that already exist. Returns the number
// of files written.
func Install(target, home string) (int, error) {
	destRoot, err := InstallDir(target, home)
	if err != nil {
		return 0, err
	}

	written := 0
	err = fs.WalkDir(FS(), ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		dest := filepath.Join(destRoot, filepath.FromSlash(p))
		if d.IsDir() {
			return os.MkdirAll(dest, 0755)
		}

		data, err := fs.ReadFile(FS(), p)
		if err != nil {
			return fmt.Errorf("failed to read embedded %s: %w", p, err)
		}
		if err := os.WriteFile(dest, data, 0644); err != nil {
			return fmt.Errorf("failed to write %s: %w", dest, err)
		}
		written++
		logging.InstallDebug("wrote %s", dest)
		return nil
	})
	if err != nil {
		return written, err
	}

	logging.Install("installed %d file(s) to %s", written, destRoot)
	return written, nil
}

// Watch mirrors a skills source directory into the target's skills
// directory, re-syncing whenever a markdown file changes. Intended for
// skill authoring: edit locally, see the change land in the agent home.
// Blocks until the context is cancelled.
func Watch(ctx context.Context, srcDir, target, home string) error {
	destRoot, err := InstallDir(target, home)
	if err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()

	// Watch the source tree recursively; fsnotify is not recursive on
	// its own.
	err = filepath.WalkDir(srcDir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return watcher.Add(p)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to watch %s: %w", srcDir, err)
	}

	if err := syncDir(srcDir, destRoot); err != nil {
		return err
	}
	logging.Install("watching %s -> %s", srcDir, destRoot)

	// Editors fire bursts of events per save; debounce before syncing.
	var pending bool
	debounce := time.NewTimer(0)
	if !debounce.Stop() {
		<-debounce.C
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !strings.HasSuffix(event.Name, ".md") {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
				continue
			}
			if !pending {
				pending = true
				debounce.Reset(250 * time.Millisecond)
			}

		case <-debounce.C:
			pending = false
			if err := syncDir(srcDir, destRoot); err != nil {
				logging.InstallDebug("resync failed: %v", err)
			} else {
				logging.Install("resynced %s", destRoot)
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logging.InstallDebug("watcher error: %v", err)
		}
	}
}

// syncDir copies every markdown file under src into dest, preserving
// relative paths.
func syncDir(src, dest string) error {
	return filepath.WalkDir(src, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(p, ".md") {
			return nil
		}

		rel, err := filepath.Rel(src, p)
		if err != nil {
			return err
		}
		data, err := os.ReadFile(p)
		if err != nil {
			return err
		}
		target := filepath.Join(dest, rel)
		if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
			return err
		}
		return os.WriteFile(target, data, 0644)
	})
}
