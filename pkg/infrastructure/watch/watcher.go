package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// ConfigWatcher watches a configuration directory and invokes onChange
// once per debounced burst of YAML edits. Reloading is the caller's
// job: rebuild the configuration object, never patch a live registry.
type ConfigWatcher struct {
	watcher  *fsnotify.Watcher
	debounce time.Duration
	onChange func(path string)
}

// NewConfigWatcher creates a watcher over the given directory.
func NewConfigWatcher(dir string, debounce time.Duration, onChange func(path string)) (*ConfigWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create fsnotify watcher: %w", err)
	}
	if err := w.Add(dir); err != nil {
		w.Close()
		return nil, fmt.Errorf("watch %s: %w", dir, err)
	}
	if debounce == 0 {
		debounce = 500 * time.Millisecond
	}
	return &ConfigWatcher{
		watcher:  w,
		debounce: debounce,
		onChange: onChange,
	}, nil
}

// Run starts the event loop. It blocks until the context is cancelled.
func (w *ConfigWatcher) Run(ctx context.Context) error {
	defer w.watcher.Close()

	var lastPath string
	debouncer := NewDebouncer(w.debounce, func() {
		if w.onChange != nil {
			w.onChange(lastPath)
		}
	})
	defer debouncer.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if !event.Op.Has(fsnotify.Write) && !event.Op.Has(fsnotify.Create) && !event.Op.Has(fsnotify.Rename) {
				continue
			}
			// Editors write temp files; only YAML documents matter.
			if ext := filepath.Ext(event.Name); ext != ".yaml" && ext != ".yml" {
				continue
			}
			lastPath = event.Name
			debouncer.Trigger()

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			return fmt.Errorf("watcher error: %w", err)
		}
	}
}
