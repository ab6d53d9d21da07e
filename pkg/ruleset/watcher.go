package ruleset

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// FileWatcher watches a single file and calls back after a quiet period.
//
// The parent directory is watched rather than the file itself, so editors
// that save by writing a temp file and renaming it over the original are
// still seen.
type FileWatcher struct {
	path     string
	watcher  *fsnotify.Watcher
	debounce *Debouncer
	logger   *slog.Logger
}

// NewFileWatcher creates a watcher for path.
func NewFileWatcher(path string, interval time.Duration, logger *slog.Logger) (*FileWatcher, error) {
	if logger == nil {
		logger = slog.Default()
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %q: %w", path, err)
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}

	return &FileWatcher{
		path:     abs,
		watcher:  w,
		debounce: NewDebouncer(interval),
		logger:   logger,
	}, nil
}

// Watch runs until ctx is cancelled or the watcher is closed. onChange
// errors are logged; watching continues.
func (fw *FileWatcher) Watch(ctx context.Context, onChange func() error) error {
	dir := filepath.Dir(fw.path)
	if err := fw.watcher.Add(dir); err != nil {
		return fmt.Errorf("failed to watch %q: %w", dir, err)
	}

	fw.logger.Info("Rules watcher started",
		"path", fw.path,
		"debounce_ms", fw.debounce.interval.Milliseconds(),
	)

	for {
		select {
		case <-ctx.Done():
			fw.logger.Info("Rules watcher stopped")
			return nil

		case event, ok := <-fw.watcher.Events:
			if !ok {
				return nil
			}
			if !fw.relevant(event) {
				continue
			}

			fw.logger.Debug("Rules file event", "path", event.Name, "op", event.Op.String())
			fw.debounce.Trigger(func() {
				// Errors are reported by onChange itself.
				_ = onChange()
			})

		case err, ok := <-fw.watcher.Errors:
			if !ok {
				return nil
			}
			fw.logger.Error("Rules watcher error", "error", err)
		}
	}
}

// Close stops the watcher and drops any pending callback.
func (fw *FileWatcher) Close() error {
	fw.debounce.Stop()
	if err := fw.watcher.Close(); err != nil && !errors.Is(err, fsnotify.ErrClosed) {
		return fmt.Errorf("failed to close watcher: %w", err)
	}
	return nil
}

func (fw *FileWatcher) relevant(event fsnotify.Event) bool {
	if event.Op == fsnotify.Chmod {
		return false
	}
	return filepath.Clean(event.Name) == fw.path
}

// Debouncer runs the most recent callback once no trigger has arrived for
// the interval.
type Debouncer struct {
	interval time.Duration

	mu       sync.Mutex
	timer    *time.Timer
	callback func()
	stopped  bool
}

// NewDebouncer creates a debouncer.
func NewDebouncer(interval time.Duration) *Debouncer {
	return &Debouncer{interval: interval}
}

// Trigger schedules callback, replacing any pending one.
func (d *Debouncer) Trigger(callback func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}
	d.callback = callback
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.interval, d.fire)
}

func (d *Debouncer) fire() {
	d.mu.Lock()
	cb := d.callback
	d.callback = nil
	stopped := d.stopped
	d.mu.Unlock()

	if cb != nil && !stopped {
		cb()
	}
}

// Stop cancels any pending callback. Later triggers are ignored.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.stopped = true
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.callback = nil
}
