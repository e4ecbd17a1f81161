// Package watch reports changes to input files using fsnotify.
package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/ifcp6/msp2ifc/internal/domain"
)

// DefaultDebounce is the quiet period after the last event before onChange runs.
const DefaultDebounce = 300 * time.Millisecond

// Ensure Watcher implements domain.FileWatcher.
var _ domain.FileWatcher = (*Watcher)(nil)

// Watcher calls back after a file is written, created or replaced.
type Watcher struct {
	logger   domain.Logger
	debounce time.Duration
}

// New creates a new Watcher. A non-positive debounce uses DefaultDebounce.
func New(logger domain.Logger, debounce time.Duration) *Watcher {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &Watcher{
		logger:   logger,
		debounce: debounce,
	}
}

// Watch blocks until ctx is done, calling onChange once per burst of changes to path.
// The parent directory is watched so that editors replacing the file are noticed.
// onChange runs on the watching goroutine, so calls never overlap.
func (w *Watcher) Watch(ctx context.Context, path string, onChange func()) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolve %s: %w", path, err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create fsnotify watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(abs), err)
	}

	timer := time.NewTimer(w.debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != abs || !isContentChange(event) {
				continue
			}
			w.logger.Debug("watch", fmt.Sprintf("%s: %s", event.Op, event.Name))
			timer.Reset(w.debounce)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watch", err.Error())
		case <-timer.C:
			onChange()
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func isContentChange(event fsnotify.Event) bool {
	return event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename)
}
