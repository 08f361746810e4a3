package demoui

import (
	"context"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// watchDebounce absorbs editor save bursts (write + rename + chmod)
// into a single reload.
const watchDebounce = 100 * time.Millisecond

// WatchFile watches the document file and signals on the returned
// channel whenever it is written or recreated. The channel closes when
// the context is cancelled. The parent directory is watched rather than
// the file itself so atomic-rename saves keep working.
func WatchFile(ctx context.Context, path string, logger *slog.Logger) (<-chan struct{}, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		_ = watcher.Close()
		return nil, err
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}

	ch := make(chan struct{}, 1)
	go func() {
		defer close(ch)
		defer func() { _ = watcher.Close() }()

		var debounce *time.Timer
		for {
			select {
			case <-ctx.Done():
				return

			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
					continue
				}
				evAbs, err := filepath.Abs(event.Name)
				if err != nil || evAbs != abs {
					continue
				}
				if debounce != nil {
					debounce.Stop()
				}
				debounce = time.AfterFunc(watchDebounce, func() {
					logger.Debug("document changed on disk", "file", event.Name)
					select {
					case ch <- struct{}{}:
					default: // a reload is already pending
					}
				})

			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				logger.Error("watcher error", "err", err)
			}
		}
	}()

	return ch, nil
}
