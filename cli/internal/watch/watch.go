// Package watch re-runs an action whenever a configuration file changes.
//
// Overview:
//   - Responsibility: Turn file system events on one file into debounced change callbacks
//   - Key Types: Watcher
//   - Concurrency Model: One event loop per Run; the callback never runs concurrently with itself
//   - Error Semantics: Setup failures are returned; callback errors are logged and watching continues
//   - Performance Notes: Bursts of events inside the debounce window collapse into one callback
//
// Usage:
//
//	w, err := watch.New("bootforge.yaml", watch.WithLogger(logger))
//	err = w.Run(ctx, func(ctx context.Context) error { return regenerate(ctx) })
package watch

import (
	"context"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"go.eggybyte.com/bootforge/core/errors"
	"go.eggybyte.com/bootforge/core/log"
)

// DefaultDebounce is the quiet period before a change is reported.
const DefaultDebounce = 200 * time.Millisecond

// Watcher reports changes to one file. The parent directory is watched so
// that editors that replace the file on save are still seen.
type Watcher struct {
	path     string
	dir      string
	debounce time.Duration
	logger   log.Logger
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce sets the quiet period.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) { w.debounce = d }
}

// WithLogger sets the logger.
func WithLogger(l log.Logger) Option {
	return func(w *Watcher) { w.logger = l }
}

// New creates a watcher for path.
func New(path string, opts ...Option) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, errors.Wrap(errors.CodeInvalidArgument, "watch.New", err)
	}
	w := &Watcher{
		path:     abs,
		dir:      filepath.Dir(abs),
		debounce: DefaultDebounce,
		logger:   log.Nop(),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Run calls onChange after every settled change to the file until ctx is
// done. It does not call onChange for the initial state.
//
// Parameters:
//   - ctx: Stops watching when done
//   - onChange: Action to run; its error is logged and does not stop the watch
//
// Returns:
//   - error: nil when ctx ends, UNAVAILABLE when the watch cannot be set up or breaks
func (w *Watcher) Run(ctx context.Context, onChange func(context.Context) error) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(errors.CodeUnavailable, "watch.Run", err)
	}
	defer fsw.Close()

	if err := fsw.Add(w.dir); err != nil {
		return errors.Wrapf(errors.CodeUnavailable, "watch.Run", err, "watch %s", w.dir)
	}
	w.logger.Info("watching for changes", log.Str("path", w.path))

	timer := time.NewTimer(w.debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-fsw.Events:
			if !ok {
				return errors.New(errors.CodeUnavailable, "watch: event stream closed")
			}
			if event.Name != w.path || event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			w.logger.Debug("file event", log.Str("op", event.Op.String()))
			timer.Reset(w.debounce)

		case err, ok := <-fsw.Errors:
			if !ok {
				return errors.New(errors.CodeUnavailable, "watch: error stream closed")
			}
			w.logger.Warn("watch error", log.Str("error", err.Error()))

		case <-timer.C:
			if err := onChange(ctx); err != nil {
				w.logger.Error(err, "change handler failed")
			}
		}
	}
}
