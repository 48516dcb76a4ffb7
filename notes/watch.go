package notes

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

const (
	watchDebounce = 50 * time.Millisecond
	// Writes this close to our own save are treated as the save's echo.
	selfWriteWindow = time.Second
)

// Watcher reloads the note mapping when notes.json changes under us
// (an external editor, a sync tool). The callback runs on the watcher
// goroutine; the UI marshals it onto the GTK thread before touching
// the store.
type Watcher struct {
	paths    Paths
	log      *slog.Logger
	onReload func(map[string]*Note)
	ignore   func() time.Time

	watcher   *fsnotify.Watcher
	debouncer *debouncer
	done      chan struct{}
}

// NewWatcher wires a reload callback. ignore returns the store's last
// own-write time; events inside its window are dropped.
func NewWatcher(paths Paths, log *slog.Logger, ignore func() time.Time, onReload func(map[string]*Note)) *Watcher {
	if log == nil {
		log = slog.Default()
	}
	return &Watcher{
		paths:    paths,
		log:      log.With("component", "watcher"),
		onReload: onReload,
		ignore:   ignore,
	}
}

// Start begins watching. The data directory is watched rather than the
// file itself because saves replace the file by rename.
func (w *Watcher) Start() error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	if err := fw.Add(w.paths.Dir); err != nil {
		fw.Close()
		return fmt.Errorf("watch %s: %w", w.paths.Dir, err)
	}
	w.watcher = fw
	w.debouncer = newDebouncer(watchDebounce)
	w.done = make(chan struct{})
	go w.run()
	return nil
}

// Stop ends the watch. Safe to call when Start was never called.
func (w *Watcher) Stop() {
	if w.watcher == nil {
		return
	}
	close(w.done)
	w.watcher.Close()
	w.debouncer.stop()
	w.watcher = nil
}

func (w *Watcher) run() {
	for {
		select {
		case <-w.done:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != notesFileName {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			if w.ignore != nil && time.Since(w.ignore()) < selfWriteWindow {
				continue
			}
			w.debouncer.trigger(w.reload)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.log.Warn("watch error", "error", err)
		}
	}
}

func (w *Watcher) reload() {
	m := LoadNotesFile(w.paths, w.log)
	w.log.Info("notes file changed externally, reloading", "count", len(m))
	w.onReload(m)
}

// debouncer collapses a burst of events into one callback after a
// quiet period.
type debouncer struct {
	mu    sync.Mutex
	delay time.Duration
	timer *time.Timer
}

func newDebouncer(delay time.Duration) *debouncer {
	return &debouncer{delay: delay}
}

func (d *debouncer) trigger(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.delay, fn)
}

func (d *debouncer) stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
