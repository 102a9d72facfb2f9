package analysis

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DebounceInterval is how long Watch waits after the last change event
// before reloading.
const DebounceInterval = 100 * time.Millisecond

// ChangeFunc receives each reload. Exactly one of res and err is non-nil.
type ChangeFunc func(res *Result, err error)

// Watch reloads the provider's fixture whenever the file is written or
// created, and reports every reload to onChange.
// The parent directory is watched so editors that replace the file are
// handled. Watch blocks until ctx is cancelled.
func Watch(ctx context.Context, p *FileProvider, logger *slog.Logger, onChange ChangeFunc) error {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	target, err := filepath.Abs(p.Path())
	if err != nil {
		return fmt.Errorf("resolve fixture path: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer func() { _ = watcher.Close() }()

	if err := watcher.Add(filepath.Dir(target)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(target), err)
	}
	logger.Debug("watching analysis fixture", "path", target)

	var debounceTimer *time.Timer
	defer func() {
		if debounceTimer != nil {
			debounceTimer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if name, err := filepath.Abs(event.Name); err != nil || name != target {
				continue
			}

			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			debounceTimer = time.AfterFunc(DebounceInterval, func() {
				if ctx.Err() != nil {
					return
				}
				logger.Debug("analysis fixture changed, reloading", "file", event.Name)
				p.Invalidate()
				res, err := p.Load(ctx)
				if err != nil {
					logger.Error("reload analysis failed", "error", err)
					onChange(nil, err)
					return
				}
				onChange(res, nil)
			})

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Error("watcher error", "error", err)
		}
	}
}
