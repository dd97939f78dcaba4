// Package watch reports changes to robot source files.
package watch

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is how long a file must stay quiet before it is reported.
const DefaultDebounce = 100 * time.Millisecond

// Watcher turns fsnotify events on *.neuro files into debounced change
// callbacks.
type Watcher struct {
	w        *fsnotify.Watcher
	logger   *slog.Logger
	ext      string
	debounce time.Duration
}

// New creates a watcher for files with the .neuro extension.
func New(logger *slog.Logger) (*Watcher, error) {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	return &Watcher{w: w, logger: logger, ext: ".neuro", debounce: DefaultDebounce}, nil
}

// SetDebounce changes the quiet period. It must be called before Run.
func (w *Watcher) SetDebounce(d time.Duration) {
	w.debounce = d
}

// Add watches each directory. Subdirectories are not followed.
func (w *Watcher) Add(dirs ...string) error {
	for _, dir := range dirs {
		if err := w.w.Add(dir); err != nil {
			return fmt.Errorf("watch %s: %w", dir, err)
		}
		w.logger.Debug("watching", "dir", dir)
	}
	return nil
}

// Run calls fn with the path of every source file that was written, created
// or renamed, once per burst of events. It returns nil when ctx is
// cancelled, and closes the watcher either way. fn runs on a single
// goroutine, never concurrently with itself.
func (w *Watcher) Run(ctx context.Context, fn func(path string)) error {
	defer w.w.Close()

	var (
		mu      sync.Mutex
		pending = make(map[string]*time.Timer)
		fire    = make(chan string)
		done    = make(chan struct{})
	)
	defer close(done)
	defer func() {
		mu.Lock()
		for _, t := range pending {
			t.Stop()
		}
		mu.Unlock()
	}()

	schedule := func(path string) {
		mu.Lock()
		defer mu.Unlock()
		if t, ok := pending[path]; ok {
			t.Reset(w.debounce)
			return
		}
		pending[path] = time.AfterFunc(w.debounce, func() {
			mu.Lock()
			delete(pending, path)
			mu.Unlock()
			deliver(ctx, fire, done, path)
		})
	}

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-w.w.Events:
			if !ok {
				return nil
			}
			if !w.relevant(ev) {
				continue
			}
			w.logger.Debug("file event", "file", ev.Name, "op", ev.Op.String())
			schedule(ev.Name)

		case path := <-fire:
			w.logger.Info("changed", "file", path)
			fn(path)

		case err, ok := <-w.w.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watch error", "err", err)
		}
	}
}

// deliver hands path to the Run loop unless Run has already returned or ctx
// is cancelled.
func deliver(ctx context.Context, fire chan<- string, done <-chan struct{}, path string) {
	select {
	case fire <- path:
	case <-done:
	case <-ctx.Done():
	}
}

func (w *Watcher) relevant(ev fsnotify.Event) bool {
	if filepath.Ext(ev.Name) != w.ext {
		return false
	}
	return ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) || ev.Has(fsnotify.Rename)
}

// Close releases the watcher without running it.
func (w *Watcher) Close() error {
	return w.w.Close()
}
