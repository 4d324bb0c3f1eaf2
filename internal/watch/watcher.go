// Package watch re-runs an action whenever a decklist file changes.
// Editors fire bursts of write events for a single save, so re-analysis is
// throttled through a rate limiter: a burst collapses into one run per
// interval.
package watch

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"golang.org/x/time/rate"
)

// Config configures a decklist watcher.
type Config struct {
	// Path is the decklist file to watch.
	Path string
	// MinInterval is the minimum time between OnChange invocations.
	MinInterval time.Duration
	// OnChange runs after each (throttled) change to the file. Errors are
	// logged, not fatal: a half-saved decklist should not kill the watch.
	OnChange func(path string) error
	// Logger receives watch lifecycle events. Nil disables logging.
	Logger *slog.Logger
}

// Watcher monitors a decklist file and triggers re-analysis on change.
type Watcher struct {
	path     string
	limiter  *rate.Limiter
	onChange func(path string) error
	logger   *slog.Logger
}

// New creates a watcher from the config.
func New(cfg Config) (*Watcher, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("watch path is required")
	}
	if cfg.OnChange == nil {
		return nil, fmt.Errorf("OnChange callback is required")
	}
	if cfg.MinInterval <= 0 {
		cfg.MinInterval = 500 * time.Millisecond
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Watcher{
		path:     cfg.Path,
		limiter:  rate.NewLimiter(rate.Every(cfg.MinInterval), 1),
		onChange: cfg.OnChange,
		logger:   logger,
	}, nil
}

// Run watches until the context is cancelled. The parent directory is
// watched rather than the file itself so that editors which replace the
// file on save (rename-over) keep being tracked.
func (w *Watcher) Run(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	dir := filepath.Dir(w.path)
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}

	w.logger.Info("watching decklist", "path", w.path, "min_interval", w.limiter.Limit())

	target, err := filepath.Abs(w.path)
	if err != nil {
		return fmt.Errorf("resolve watch path: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !w.matches(event.Name, target) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if !w.limiter.Allow() {
				w.logger.Debug("change throttled", "event", event.Op.String())
				continue
			}
			w.logger.Debug("decklist changed", "event", event.Op.String())
			if err := w.onChange(w.path); err != nil {
				w.logger.Warn("re-analysis failed", "error", err)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("file watcher error", "error", err)
		}
	}
}

func (w *Watcher) matches(eventPath, target string) bool {
	abs, err := filepath.Abs(eventPath)
	if err != nil {
		return false
	}
	return abs == target
}
