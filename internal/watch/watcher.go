// Package watch reports changes to the files that define a dataset: the
// config file and the note table.
package watch

import (
	"errors"
	"fmt"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// Event reports that one of the watched files changed, or that watching it
// failed.
type Event struct {
	Path  string
	Error error
}

// Watcher watches a set of files and sends an Event whenever one of them is
// written or re-created.
type Watcher struct {
	paths   []string
	watcher *fsnotify.Watcher
	events  chan Event
	done    chan struct{}
	mu      sync.Mutex
	running bool
}

// NewWatcher creates a Watcher for the given files.
func NewWatcher(paths ...string) (*Watcher, error) {
	if len(paths) == 0 {
		return nil, errors.New("no files to watch")
	}

	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	clean := make([]string, len(paths))
	for i, p := range paths {
		clean[i] = filepath.Clean(p)
	}

	return &Watcher{
		paths:   clean,
		watcher: fsWatcher,
		events:  make(chan Event, 10),
		done:    make(chan struct{}),
	}, nil
}

// Start begins watching. Every file must exist.
func (w *Watcher) Start() error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return errors.New("watcher already running")
	}
	w.running = true
	w.mu.Unlock()

	for _, p := range w.paths {
		if err := w.watcher.Add(p); err != nil {
			return fmt.Errorf("failed to watch %s: %w", p, err)
		}
	}

	go w.processEvents()

	return nil
}

// Stop stops watching and closes the events channel.
func (w *Watcher) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		w.watcher.Close()
		return
	}
	w.running = false
	w.mu.Unlock()

	close(w.done)
	w.watcher.Close()
}

// Events returns the channel for receiving change events.
func (w *Watcher) Events() <-chan Event {
	return w.events
}

// Paths returns the watched files.
func (w *Watcher) Paths() []string {
	return append([]string(nil), w.paths...)
}

func (w *Watcher) processEvents() {
	defer close(w.events)
	for {
		select {
		case <-w.done:
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			path := filepath.Clean(event.Name)

			if event.Op&(fsnotify.Write|fsnotify.Create) != 0 {
				w.send(Event{Path: path})
			}

			// Editors often save by renaming over the file, which drops
			// the watch. Re-add it; if the file is back this counts as a change.
			if event.Op&(fsnotify.Remove|fsnotify.Rename) != 0 {
				if err := w.watcher.Add(path); err != nil {
					w.send(Event{Path: path, Error: fmt.Errorf("%s was removed", path)})
				} else {
					w.send(Event{Path: path})
				}
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.send(Event{Error: err})
		}
	}
}

func (w *Watcher) send(e Event) {
	select {
	case w.events <- e:
	case <-w.done:
	}
}
