package config

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

const reloadOps = fsnotify.Write | fsnotify.Create | fsnotify.Rename

// Watch calls onChange with the reloaded config every time the file at path
// changes. The parent directory is watched so saves that replace the file
// (temp file + rename) keep being seen. A file that fails to load is logged
// and skipped, leaving the previous config in place. It returns when ctx is done.
func Watch(ctx context.Context, path string, onChange func(*Config)) error {
	target := filepath.Clean(path)
	if _, err := os.Stat(target); err != nil {
		return fmt.Errorf("failed to watch config: %w", err)
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create config watcher: %w", err)
	}
	defer w.Close()

	dir := filepath.Dir(target)
	if err := w.Add(dir); err != nil {
		return fmt.Errorf("failed to watch config dir: %s: %w", dir, err)
	}
	slog.Debug("watching config", "path", target)

	for {
		select {
		case <-ctx.Done():
			return nil
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			slog.Error("config watcher error", "error", err)
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != target || ev.Op&reloadOps == 0 {
				continue
			}
			reload(target, onChange)
		}
	}
}

func reload(path string, onChange func(*Config)) {
	c, err := Load(path)
	if err != nil {
		// a rename away from path or a partial write lands here
		slog.Error("config reload failed, keeping previous", "path", path, "error", err)
		return
	}
	slog.Info("config reloaded", "path", path)
	onChange(c)
}
