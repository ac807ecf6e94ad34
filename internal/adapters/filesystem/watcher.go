package filesystem

import (
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Watcher implements secondary.EventSource over fsnotify: it emits one
// notification per observed change to the ledger file, so the engine can
// run an immediate parse pass instead of waiting for the next poll tick.
type Watcher struct {
	fw     *fsnotify.Watcher
	path   string
	events chan struct{}
	done   chan struct{}
}

// NewWatcher starts watching the ledger file's directory (watching the
// directory, not the file, survives editors and hosts that replace the
// file on save).
func NewWatcher(path string) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := fw.Add(filepath.Dir(path)); err != nil {
		fw.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", filepath.Dir(path), err)
	}

	w := &Watcher{
		fw:     fw,
		path:   filepath.Clean(path),
		events: make(chan struct{}, 1),
		done:   make(chan struct{}),
	}
	go w.run()
	return w, nil
}

// Events returns the change-notification channel.
func (w *Watcher) Events() <-chan struct{} {
	return w.events
}

// Close releases the underlying fsnotify watcher.
func (w *Watcher) Close() error {
	close(w.done)
	return w.fw.Close()
}

func (w *Watcher) run() {
	for {
		select {
		case <-w.done:
			return
		case ev, ok := <-w.fw.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != w.path {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
				continue
			}
			// Coalesce: one pending notification is enough, the
			// parse pass replays the whole ledger anyway.
			select {
			case w.events <- struct{}{}:
			default:
			}
		case _, ok := <-w.fw.Errors:
			if !ok {
				return
			}
			// Watch errors degrade to polling; nothing to do here.
		}
	}
}
