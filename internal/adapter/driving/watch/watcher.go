// Package watch re-runs registry generation when an input file changes.
package watch

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce collapses bursts of editor writes into one change.
const DefaultDebounce = 200 * time.Millisecond

// Watcher reports changes to a single file. It watches the parent directory
// so editors that replace the file on save are still seen.
type Watcher struct {
	path     string
	debounce time.Duration
	fw       *fsnotify.Watcher
}

// New creates a Watcher for path.
func New(path string, debounce time.Duration) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolving %s: %w", path, err)
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating watcher: %w", err)
	}
	if err := fw.Add(filepath.Dir(abs)); err != nil {
		_ = fw.Close()
		return nil, fmt.Errorf("watching %s: %w", filepath.Dir(abs), err)
	}

	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	return &Watcher{path: abs, debounce: debounce, fw: fw}, nil
}

// Run calls onChange once per debounced burst of changes to the file until
// ctx is cancelled. It closes the underlying watcher before returning.
func (w *Watcher) Run(ctx context.Context, onChange func(context.Context)) error {
	defer w.fw.Close()

	var fire <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.fw.Events:
			if !ok {
				return nil
			}
			if filepath.Base(event.Name) != filepath.Base(w.path) {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename) {
				slog.Debug("watched file changed", "path", w.path, "op", event.Op.String())
				fire = time.After(w.debounce)
			}

		case <-fire:
			fire = nil
			onChange(ctx)

		case err, ok := <-w.fw.Errors:
			if !ok {
				return nil
			}
			slog.Warn("file watcher error", "path", w.path, "error", err)
		}
	}
}
