package server

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/esologic/folio/internal/logfields"
)

// WatchAndRebuild watches the content tree and calls rebuild after changes,
// debounced so editor save bursts trigger a single build. It blocks until
// ctx is canceled.
func WatchAndRebuild(ctx context.Context, contentDir string, debounce time.Duration, rebuild func()) error {
	if st, err := os.Stat(contentDir); err != nil || !st.IsDir() {
		return fmt.Errorf("watch root is not a directory: %s", contentDir)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer func() { _ = watcher.Close() }()

	if err := addDirsRecursive(watcher, contentDir); err != nil {
		return err
	}

	var timer *time.Timer
	trigger := make(chan struct{}, 1)
	schedule := func() {
		if timer != nil {
			timer.Stop()
		}
		timer = time.AfterFunc(debounce, func() {
			select {
			case trigger <- struct{}{}:
			default:
			}
		})
	}

	slog.Info("Watching content for changes", logfields.Path(contentDir))
	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return nil
		case <-trigger:
			rebuild()
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if strings.HasPrefix(filepath.Base(ev.Name), ".") {
				continue
			}
			// New directories need their own watch before files inside
			// them produce events.
			if ev.Op&fsnotify.Create == fsnotify.Create {
				if err := addDirsRecursive(watcher, ev.Name); err != nil {
					slog.Debug("watch add", logfields.Path(ev.Name), logfields.Error(err))
				}
			}
			schedule()
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			slog.Warn("Watcher error", logfields.Error(err))
		}
	}
}

func addDirsRecursive(w *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			// The path may have vanished between event and walk.
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if strings.HasPrefix(d.Name(), ".") && path != root {
			return filepath.SkipDir
		}
		return w.Add(path)
	})
}
