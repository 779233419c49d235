// Package fsnotify implements the ports.Watcher interface using github.com/fsnotify/fsnotify.
// It watches a flat dictionary directory, filters out everything that is not a
// dictionary text file, and debounces bursts of events (editors often write a
// file several times per save) so onChange fires once the file has settled.
package fsnotify

import (
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"fortio.org/log"
	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is how long a path must stay quiet before onChange fires.
const DefaultDebounce = 100 * time.Millisecond

// dictExt is the only extension that triggers onChange.
const dictExt = ".txt"

// Editor and OS droppings that share the dictionary directory.
var ignoreSuffixes = []string{"~", ".swp", ".swx", ".tmp", ".bak"}

// Watcher implements ports.Watcher using fsnotify.
type Watcher struct {
	fw       *fsnotify.Watcher
	done     chan struct{}
	debounce time.Duration

	mu      sync.Mutex
	stopped bool
	pending map[string]*time.Timer
}

// NewWatcher creates a new file system watcher.
func NewWatcher() (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &Watcher{
		fw:       fw,
		done:     make(chan struct{}),
		debounce: DefaultDebounce,
		pending:  make(map[string]*time.Timer),
	}, nil
}

// SetDebounce overrides the quiet period. Call before Watch.
func (w *Watcher) SetDebounce(d time.Duration) {
	w.debounce = d
}

// Watch starts monitoring dir (not recursive).
// onChange is called with the absolute path of each changed dictionary file.
func (w *Watcher) Watch(dir string, onChange func(filePath string)) error {
	absPath, err := filepath.Abs(dir)
	if err != nil {
		return err
	}
	if err := w.fw.Add(absPath); err != nil {
		return fmt.Errorf("watch %s: %w", absPath, err)
	}

	go func() {
		for {
			select {
			case event, ok := <-w.fw.Events:
				if !ok {
					return
				}
				if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
					!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
					continue
				}
				if shouldIgnorePath(event.Name) {
					continue
				}
				w.schedule(event.Name, onChange)

			case err, ok := <-w.fw.Errors:
				if !ok {
					return
				}
				// fsnotify recovers on its own; an overflow only means
				// some events were coalesced.
				log.S(log.Warning, "watcher error", log.Str("dir", absPath), log.Str("err", err.Error()))

			case <-w.done:
				return
			}
		}
	}()

	return nil
}

// schedule (re)arms the per-path timer so a burst of events yields one call.
func (w *Watcher) schedule(path string, onChange func(string)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.stopped {
		return
	}
	if t, ok := w.pending[path]; ok {
		t.Reset(w.debounce)
		return
	}
	w.pending[path] = time.AfterFunc(w.debounce, func() {
		w.mu.Lock()
		delete(w.pending, path)
		stopped := w.stopped
		w.mu.Unlock()
		if stopped {
			return
		}
		log.LogVf("dictionary file changed: %s", path)
		onChange(path)
	})
}

// Stop ends monitoring and releases all resources.
// Safe to call multiple times.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.stopped {
		return nil
	}
	w.stopped = true
	for path, t := range w.pending {
		t.Stop()
		delete(w.pending, path)
	}
	close(w.done)
	return w.fw.Close()
}

// shouldIgnorePath returns true if the file path should not trigger onChange.
func shouldIgnorePath(path string) bool {
	base := filepath.Base(path)
	if strings.HasPrefix(base, ".") || strings.HasPrefix(base, "#") {
		return true
	}
	for _, suffix := range ignoreSuffixes {
		if strings.HasSuffix(base, suffix) {
			return true
		}
	}
	return !strings.EqualFold(filepath.Ext(base), dictExt)
}
