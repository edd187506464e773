package indexer

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/codeintel/symgraph/internal/debugx"
)

// EventKind classifies a filesystem change passed to a Watcher callback.
type EventKind int

const (
	EventWrite EventKind = iota
	EventCreate
	EventRemove
)

// Watcher wraps fsnotify with debounce: rapid repeated writes to the
// same path within the debounce window collapse into a single callback
// invocation.
type Watcher struct {
	fsw      *fsnotify.Watcher
	debounce time.Duration
	onEvent  func(path string, kind EventKind)

	mu      sync.Mutex
	pending map[string]EventKind
	timers  map[string]*time.Timer
}

func NewWatcher(debounce time.Duration, onEvent func(path string, kind EventKind)) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &Watcher{
		fsw:      fsw,
		debounce: debounce,
		onEvent:  onEvent,
		pending:  make(map[string]EventKind),
		timers:   make(map[string]*time.Timer),
	}, nil
}

// AddDir registers dir (non-recursively; callers add subdirectories as
// they're discovered) for fsnotify events.
func (w *Watcher) AddDir(dir string) error {
	return w.fsw.Add(dir)
}

// Run processes fsnotify events until ctx is cancelled.
func (w *Watcher) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			w.fsw.Close()
			return
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			w.handle(ev)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			debugx.LogIndex("watcher error: %v", err)
		}
	}
}

func (w *Watcher) handle(ev fsnotify.Event) {
	var kind EventKind
	switch {
	case ev.Op&fsnotify.Remove != 0, ev.Op&fsnotify.Rename != 0:
		kind = EventRemove
	case ev.Op&fsnotify.Create != 0:
		kind = EventCreate
	case ev.Op&fsnotify.Write != 0:
		kind = EventWrite
	default:
		return
	}

	path := filepath.Clean(ev.Name)

	w.mu.Lock()
	defer w.mu.Unlock()

	w.pending[path] = kind
	if t, exists := w.timers[path]; exists {
		t.Stop()
	}
	w.timers[path] = time.AfterFunc(w.debounce, func() {
		w.mu.Lock()
		k, ok := w.pending[path]
		delete(w.pending, path)
		delete(w.timers, path)
		w.mu.Unlock()
		if ok {
			w.onEvent(path, k)
		}
	})
}
