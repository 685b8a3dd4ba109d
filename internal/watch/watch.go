// Package watch reports external changes to a single file.
package watch

import (
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/oukeidos/guini/internal/files"
	"github.com/oukeidos/guini/internal/logger"
)

// DefaultDelay collapses the burst of events an editor save produces.
const DefaultDelay = 500 * time.Millisecond

// Watcher calls a function once per burst of changes to one file. The
// file's directory is watched so editors that replace the file by rename
// are seen too.
type Watcher struct {
	fw     *fsnotify.Watcher
	target string
	delay  time.Duration
	notify func()

	mu       sync.Mutex
	timer    *time.Timer
	quietTil time.Time
	closed   bool

	done chan struct{}
}

// New starts watching path. onChange runs on a background goroutine.
func New(path string, delay time.Duration, onChange func()) (*Watcher, error) {
	target, err := files.ResolveTarget(path)
	if err != nil {
		return nil, err
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := fw.Add(filepath.Dir(target)); err != nil {
		fw.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", filepath.Dir(target), err)
	}
	if delay <= 0 {
		delay = DefaultDelay
	}
	w := &Watcher{
		fw:     fw,
		target: target,
		delay:  delay,
		notify: onChange,
		done:   make(chan struct{}),
	}
	go w.loop()
	return w, nil
}

// Path returns the resolved file being watched.
func (w *Watcher) Path() string { return w.target }

// Suppress ignores changes for d, so our own saves do not look external.
func (w *Watcher) Suppress(d time.Duration) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.quietTil = time.Now().Add(d)
	if w.timer != nil {
		w.timer.Stop()
		w.timer = nil
	}
}

func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	if w.timer != nil {
		w.timer.Stop()
	}
	w.mu.Unlock()
	err := w.fw.Close()
	<-w.done
	return err
}

func (w *Watcher) loop() {
	defer close(w.done)
	for {
		select {
		case ev, ok := <-w.fw.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != w.target {
				continue
			}
			if ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) {
				w.schedule()
			}
		case err, ok := <-w.fw.Errors:
			if !ok {
				return
			}
			logger.Warn("file watcher error", "path", w.target, "error", err)
		}
	}
}

func (w *Watcher) schedule() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed || time.Now().Before(w.quietTil) {
		return
	}
	if w.timer != nil {
		w.timer.Reset(w.delay)
		return
	}
	w.timer = time.AfterFunc(w.delay, w.fire)
}

func (w *Watcher) fire() {
	w.mu.Lock()
	w.timer = nil
	closed := w.closed
	w.mu.Unlock()
	if closed {
		return
	}
	logger.Debug("file changed on disk", "path", w.target)
	w.notify()
}
