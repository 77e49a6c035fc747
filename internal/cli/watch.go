package cli

import (
	"context"
	"crypto/sha256"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/aretw0/crank"
)

// Watch cranks paths once, then again whenever one of them is written,
// until ctx is done. Events are coalesced for debounce. Files whose content
// hash did not change since the last pass are skipped, so the rewrite crank
// itself performs does not trigger another pass.
func Watch(ctx context.Context, eng *crank.Engine, paths []string, debounce time.Duration, logger *slog.Logger, report func([]crank.Result)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()

	// Directories are watched rather than files: atomic writes replace the
	// inode, which drops a per-file watch.
	targets := make(map[string]string, len(paths))
	dirs := make(map[string]bool)
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return fmt.Errorf("failed to resolve %s: %w", p, err)
		}
		targets[abs] = p
		dir := filepath.Dir(abs)
		if dirs[dir] {
			continue
		}
		if err := watcher.Add(dir); err != nil {
			return fmt.Errorf("failed to watch %s: %w", dir, err)
		}
		dirs[dir] = true
	}

	hashes := make(map[string][sha256.Size]byte, len(paths))
	snapshot := func(path string) ([sha256.Size]byte, bool) {
		data, err := os.ReadFile(path)
		if err != nil {
			return [sha256.Size]byte{}, false
		}
		return sha256.Sum256(data), true
	}
	run := func(batch []string) {
		results := eng.CrankAll(ctx, batch)
		for _, p := range batch {
			if h, ok := snapshot(p); ok {
				hashes[p] = h
			}
		}
		report(results)
	}

	run(paths)

	pending := make(map[string]bool)
	timer := time.NewTimer(debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
				continue
			}
			p, ok := targets[filepath.Clean(ev.Name)]
			if !ok {
				continue
			}
			logger.Debug("file event", "file", p, "op", ev.Op.String())
			pending[p] = true
			timer.Reset(debounce)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watcher error", "error", err)

		case <-timer.C:
			var changed []string
			for _, p := range paths {
				if !pending[p] {
					continue
				}
				if h, ok := snapshot(p); ok && h != hashes[p] {
					changed = append(changed, p)
				}
			}
			clear(pending)
			if len(changed) > 0 {
				logger.Info("change detected, regenerating", "files", changed)
				run(changed)
			}
		}
	}
}
