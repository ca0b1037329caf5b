// Package watch re-runs a function when watched files change.
package watch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/macropower/lintcfg/pkg/log"
)

// DefaultDebounce is the quiet period after an event before running again.
const DefaultDebounce = 100 * time.Millisecond

// Watcher watches a set of files through their parent directories, so files
// that are replaced or created after the watch starts are still seen.
type Watcher struct {
	watcher  *fsnotify.Watcher
	files    map[string]struct{}
	dirs     map[string]struct{}
	debounce time.Duration
}

// Opt configures a [Watcher].
type Opt func(*Watcher)

// WithDebounce sets the quiet period after an event. Defaults to
// [DefaultDebounce].
func WithDebounce(d time.Duration) Opt {
	return func(w *Watcher) {
		w.debounce = d
	}
}

// New creates a [Watcher] for the given files.
func New(files []string, opts ...Opt) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create fsnotify watcher: %w", err)
	}

	w := &Watcher{
		watcher:  fw,
		files:    make(map[string]struct{}, len(files)),
		dirs:     map[string]struct{}{},
		debounce: DefaultDebounce,
	}
	for _, opt := range opts {
		opt(w)
	}

	for _, file := range files {
		err := w.add(file)
		if err != nil {
			closeErr := fw.Close()

			return nil, errors.Join(err, closeErr)
		}
	}

	return w, nil
}

func (w *Watcher) add(file string) error {
	abs, err := filepath.Abs(file)
	if err != nil {
		return fmt.Errorf("get absolute path: %w", err)
	}

	dir := filepath.Dir(abs)
	if _, ok := w.dirs[dir]; !ok {
		err = w.watcher.Add(dir)
		if err != nil {
			return fmt.Errorf("add path to watcher: %w", err)
		}

		w.dirs[dir] = struct{}{}
	}

	w.files[abs] = struct{}{}

	return nil
}

// Files returns the number of watched files.
func (w *Watcher) Files() int {
	return len(w.files)
}

// Run calls fn once, then again after every change to a watched file, until
// ctx is done. Errors from fn are logged and do not stop the watch. Run
// returns nil when ctx is canceled.
func (w *Watcher) Run(ctx context.Context, fn func(ctx context.Context) error) error {
	logger := log.WithContext(ctx)

	call := func() {
		err := fn(ctx)
		if err != nil {
			logger.ErrorContext(ctx, "run after change", slog.Any("err", err))
		}
	}

	call()

	logger.DebugContext(ctx, "watching files",
		slog.Int("files", len(w.files)),
		slog.Int("dirs", len(w.dirs)),
	)

	timer := time.NewTimer(w.debounce)
	timer.Stop()

	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case evt, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}

			if !w.isWatched(evt.Name) {
				continue
			}

			// Ignore events that are not related to file content changes.
			if evt.Has(fsnotify.Chmod) {
				continue
			}

			logger.DebugContext(ctx, "file changed", slog.String("event", evt.String()))
			timer.Reset(w.debounce)

		case <-timer.C:
			call()

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}

			return fmt.Errorf("watch: %w", err)
		}
	}
}

func (w *Watcher) isWatched(name string) bool {
	abs, err := filepath.Abs(name)
	if err != nil {
		return false
	}

	_, ok := w.files[abs]

	return ok
}

// Close stops watching.
func (w *Watcher) Close() error {
	err := w.watcher.Close()
	if err != nil {
		return fmt.Errorf("close watcher: %w", err)
	}

	return nil
}
