package notes

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/cbyc/lexora/internal/logger"
)

// DefaultDebounce is the quiet period after the last change before a sync runs.
const DefaultDebounce = 500 * time.Millisecond

// Watcher calls a sync function when notes in a directory change. Bursts of
// events are coalesced into one call once the directory has been quiet for
// the debounce period.
type Watcher struct {
	watcher  *fsnotify.Watcher
	dir      string
	debounce time.Duration
	onChange func(context.Context) error
}

// NewWatcher starts watching dir. Events are buffered until Run is called.
func NewWatcher(dir string, debounce time.Duration, onChange func(context.Context) error) (*Watcher, error) {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := w.Add(dir); err != nil {
		_ = w.Close()
		return nil, fmt.Errorf("watch %s: %w", dir, err)
	}

	return &Watcher{watcher: w, dir: dir, debounce: debounce, onChange: onChange}, nil
}

// Run dispatches debounced changes until ctx is cancelled, then closes the watcher.
// Sync errors are logged and do not stop the watcher.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.watcher.Close()

	timer := time.NewTimer(0)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	logger.Info("watching notes", "dir", w.dir, "debounce", w.debounce)

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if !relevant(event) {
				continue
			}
			logger.Debug("note changed", "path", event.Name, "op", event.Op.String())
			timer.Reset(w.debounce)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watcher error", "error", err)

		case <-timer.C:
			if err := w.onChange(ctx); err != nil {
				logger.Error("notes sync failed", "error", err)
			}
		}
	}
}

func relevant(event fsnotify.Event) bool {
	if filepath.Ext(event.Name) != Extension {
		return false
	}
	return event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) != 0
}
