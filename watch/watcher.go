// Package watch re-runs generation when Go sources change.
package watch

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/teranos/actorgen/errors"
	"github.com/teranos/actorgen/logger"
)

// ChangeFunc is called with the changed files of one debounced batch.
// An error is logged; watching continues.
type ChangeFunc func(ctx context.Context, changed []string) error

// Watcher watches directories for Go file changes and batches them
type Watcher struct {
	watcher        *fsnotify.Watcher
	ignore         func(path string) bool
	debouncePeriod time.Duration

	mu            sync.Mutex
	pending       map[string]struct{}
	debounceTimer *time.Timer
	fire          chan struct{}
}

// New creates a watcher over dirs. Files for which ignore returns true
// (typically generated outputs, whose writes would retrigger generation)
// never start a batch.
func New(dirs []string, debounce time.Duration, ignore func(path string) bool) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(err, "failed to create fsnotify watcher")
	}

	for _, dir := range dirs {
		if err := fsw.Add(dir); err != nil {
			fsw.Close()
			return nil, errors.Wrapf(err, "failed to watch %s", dir)
		}
	}

	if ignore == nil {
		ignore = func(string) bool { return false }
	}
	return &Watcher{
		watcher:        fsw,
		ignore:         ignore,
		debouncePeriod: debounce,
		pending:        make(map[string]struct{}),
		fire:           make(chan struct{}, 1),
	}, nil
}

// Run processes events until ctx is done. Batches are handed to fn on the
// calling goroutine, so runs of fn never overlap.
func (w *Watcher) Run(ctx context.Context, fn ChangeFunc) error {
	defer w.watcher.Close()
	defer w.stopTimer()
	log := logger.ComponentLogger("watch")

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if !relevant(event) || w.ignore(event.Name) {
				continue
			}
			log.Debugw("Detected change",
				logger.FieldFile, event.Name,
				"op", event.Op.String())
			w.schedule(event.Name)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			log.Warnw("Watcher error", logger.FieldError, err)

		case <-w.fire:
			changed := w.take()
			if len(changed) == 0 {
				continue
			}
			if err := fn(ctx, changed); err != nil {
				log.Warnw("Regeneration failed",
					logger.FieldCount, len(changed),
					logger.FieldError, err)
			}
		}
	}
}

// relevant keeps writes, creations and renames of Go files.
// Editors that save through a rename show up as Create on the new name.
func relevant(event fsnotify.Event) bool {
	if !strings.HasSuffix(event.Name, ".go") {
		return false
	}
	base := filepath.Base(event.Name)
	if strings.HasPrefix(base, ".") {
		return false
	}
	return event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0
}

// schedule records a change and restarts the debounce timer
func (w *Watcher) schedule(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.pending[path] = struct{}{}
	if w.debounceTimer != nil {
		w.debounceTimer.Stop()
	}
	w.debounceTimer = time.AfterFunc(w.debouncePeriod, func() {
		select {
		case w.fire <- struct{}{}:
		default:
		}
	})
}

// take returns and clears the pending batch, sorted
func (w *Watcher) take() []string {
	w.mu.Lock()
	defer w.mu.Unlock()

	changed := make([]string, 0, len(w.pending))
	for path := range w.pending {
		changed = append(changed, path)
	}
	w.pending = make(map[string]struct{})
	sort.Strings(changed)
	return changed
}

func (w *Watcher) stopTimer() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.debounceTimer != nil {
		w.debounceTimer.Stop()
	}
}

// Dirs returns the distinct existing directories of paths, for New
func Dirs(paths []string) ([]string, error) {
	seen := make(map[string]bool)
	var dirs []string
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, errors.Wrapf(err, "cannot watch %s", p)
		}
		dir := p
		if !info.IsDir() {
			dir = filepath.Dir(p)
		}
		if abs, err := filepath.Abs(dir); err == nil {
			dir = abs
		}
		if !seen[dir] {
			seen[dir] = true
			dirs = append(dirs, dir)
		}
	}
	sort.Strings(dirs)
	return dirs, nil
}
