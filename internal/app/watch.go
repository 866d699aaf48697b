package app

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/specialistvlad/behaviorkit/internal/ctxlog"
)

// Watch attaches once and then again every time the page or the settings
// file is written, until ctx is cancelled. Failed cycles are logged and do
// not stop the watch.
func (a *App) Watch(ctx context.Context) error {
	ctx = a.Context(ctx)
	logger := ctxlog.FromContext(ctx)

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()

	watched := map[string]bool{}
	for _, path := range []string{a.config.Page, a.config.Settings} {
		if path == "" {
			continue
		}
		abs, err := filepath.Abs(path)
		if err != nil {
			return err
		}
		watched[abs] = true
		// Editors often replace files, so the directory is watched instead
		// of the file itself.
		if err := watcher.Add(filepath.Dir(abs)); err != nil {
			return fmt.Errorf("failed to watch %s: %w", path, err)
		}
	}

	a.cycle(ctx)
	logger.Info("Watching for changes.", "page", a.config.Page, "settings", a.config.Settings)

	for {
		select {
		case <-ctx.Done():
			logger.Debug("Watch stopped.")
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			abs, err := filepath.Abs(event.Name)
			if err != nil || !watched[abs] {
				continue
			}
			logger.Debug("Change detected.", "file", event.Name, "op", event.Op.String())
			a.cycle(ctx)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("Watcher error.", "error", err)
		}
	}
}

func (a *App) cycle(ctx context.Context) {
	if _, err := a.Attach(ctx); err != nil {
		ctxlog.FromContext(ctx).Error("Attach cycle failed.", "error", err)
	}
}
