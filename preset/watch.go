package preset

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Watch reloads the preset document at path into reg whenever it changes,
// until ctx is cancelled. A document that fails to load is logged and the
// previous presets stay in effect. The parent directory is watched so that
// editors replacing the file by rename are picked up.
func Watch(ctx context.Context, path string, reg *Registry, logger *zap.Logger) error {
	if logger == nil {
		logger = zap.NewNop()
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolve %s: %w", path, err)
	}
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(abs), err)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case evt, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(evt.Name) != abs {
				continue
			}
			if !evt.Has(fsnotify.Write) && !evt.Has(fsnotify.Create) && !evt.Has(fsnotify.Rename) {
				continue
			}
			reload(abs, reg, logger)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("preset watcher error", zap.Error(err))
		}
	}
}

func reload(path string, reg *Registry, logger *zap.Logger) {
	descs, err := LoadFile(path)
	if err != nil {
		logger.Warn("rejected preset file, keeping previous presets",
			zap.String("path", path),
			zap.Error(err),
		)
		return
	}
	if err := reg.Merge(descs...); err != nil {
		logger.Warn("rejected preset file, keeping previous presets",
			zap.String("path", path),
			zap.Error(err),
		)
		return
	}
	logger.Debug("reloaded presets", zap.String("path", path), zap.Int("count", len(descs)))
}
