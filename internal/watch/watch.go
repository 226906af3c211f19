// Package watch drives the compiler's recompile-on-save mode. It wraps an
// fsnotify watcher, filters events down to Veridian sources, and coalesces
// the editor write bursts that would otherwise trigger duplicate builds.
package watch

import (
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// SourceExt is the Veridian source file extension.
const SourceExt = ".vd"

// debounceWindow coalesces rapid successive writes to one event.
const debounceWindow = 100 * time.Millisecond

// Watcher reports changes to Veridian sources under the watched paths.
type Watcher struct {
	fs     *fsnotify.Watcher
	events chan string
	errs   chan error

	mu      sync.Mutex
	pending map[string]*time.Timer
	done    chan struct{}
}

// New creates a watcher. Call Add for each directory of interest, then
// consume Events until Close.
func New() (*Watcher, error) {
	fs, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	w := &Watcher{
		fs:      fs,
		events:  make(chan string, 16),
		errs:    make(chan error, 1),
		pending: make(map[string]*time.Timer),
		done:    make(chan struct{}),
	}
	go w.run()
	return w, nil
}

// Add watches a directory (or single file) for source changes.
func (w *Watcher) Add(path string) error {
	return w.fs.Add(path)
}

// Events delivers the path of each changed source file, debounced.
func (w *Watcher) Events() <-chan string { return w.events }

// Errors delivers watcher failures.
func (w *Watcher) Errors() <-chan error { return w.errs }

// Close stops the watcher and releases its resources.
func (w *Watcher) Close() error {
	close(w.done)
	return w.fs.Close()
}

func (w *Watcher) run() {
	for {
		select {
		case <-w.done:
			return
		case event, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if !relevant(event) {
				continue
			}
			w.schedule(event.Name)
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			select {
			case w.errs <- err:
			default:
			}
		}
	}
}

// relevant keeps write and create events on Veridian sources.
func relevant(event fsnotify.Event) bool {
	if !event.Op.Has(fsnotify.Write) && !event.Op.Has(fsnotify.Create) {
		return false
	}
	return strings.EqualFold(filepath.Ext(event.Name), SourceExt)
}

// schedule arms (or re-arms) the debounce timer for one path.
func (w *Watcher) schedule(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if timer, ok := w.pending[path]; ok {
		timer.Reset(debounceWindow)
		return
	}
	w.pending[path] = time.AfterFunc(debounceWindow, func() {
		w.mu.Lock()
		delete(w.pending, path)
		w.mu.Unlock()

		select {
		case w.events <- path:
		case <-w.done:
		}
	})
}
