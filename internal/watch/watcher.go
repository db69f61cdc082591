// Package watch re-validates scene files as they change on disk. Each
// validation run is independent, so a change burst simply produces one run
// per settled file.
package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"scenevalidator/internal/logging"
)

// ValidateFunc is invoked for each changed scene file.
type ValidateFunc func(ctx context.Context, path string)

// Watcher watches a directory for scene file changes.
type Watcher struct {
	dir      string
	validate ValidateFunc
	debounce time.Duration

	mu      sync.Mutex
	pending map[string]*time.Timer
}

// New creates a Watcher for dir. Only *.json files trigger validation.
func New(dir string, validate ValidateFunc) *Watcher {
	return &Watcher{
		dir:      dir,
		validate: validate,
		debounce: 500 * time.Millisecond,
		pending:  make(map[string]*time.Timer),
	}
}

// Run blocks watching the directory until ctx is cancelled. Editors fire
// several events per save; events are debounced per path so each save
// produces one validation.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer fw.Close()

	if err := fw.Add(w.dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", w.dir, err)
	}
	logging.Watch("watching %s for scene changes", w.dir)

	for {
		select {
		case <-ctx.Done():
			w.cancelPending()
			return ctx.Err()
		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			if strings.ToLower(filepath.Ext(event.Name)) != ".json" {
				continue
			}
			w.schedule(ctx, event.Name)
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			logging.WatchError("watch error: %v", err)
		}
	}
}

// schedule (re)arms the debounce timer for one path.
func (w *Watcher) schedule(ctx context.Context, path string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if timer, ok := w.pending[path]; ok {
		timer.Stop()
	}
	w.pending[path] = time.AfterFunc(w.debounce, func() {
		w.mu.Lock()
		delete(w.pending, path)
		w.mu.Unlock()

		if ctx.Err() != nil {
			return
		}
		logging.Watch("change detected: %s", path)
		w.validate(ctx, path)
	})
}

func (w *Watcher) cancelPending() {
	w.mu.Lock()
	defer w.mu.Unlock()
	for path, timer := range w.pending {
		timer.Stop()
		delete(w.pending, path)
	}
}
