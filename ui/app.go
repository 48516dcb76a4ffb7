// Package ui is the GTK front end: the manager window, the note
// windows, the tray indicator and the glue that marshals background
// events (file watcher, global hotkey) onto the GTK main loop.
package ui

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/gotk3/gotk3/glib"
	"github.com/gotk3/gotk3/gtk"

	"sticky-notes/hotkey"
	"sticky-notes/notes"
)

// App owns the GTK main loop and every open window. All methods must
// run on the GTK thread; background goroutines get in via glib.IdleAdd.
type App struct {
	log   *slog.Logger
	store *notes.Store
	geom  *notes.GeometryTracker
	open  *notes.OpenSetTracker
	paths notes.Paths

	wc        *windowCalls
	manager   *managerWindow
	indicator *trayIndicator
	windows   map[string]*noteWindow
	saved     map[string]notes.Geometry
}

func New(store *notes.Store, geom *notes.GeometryTracker, open *notes.OpenSetTracker,
	paths notes.Paths, log *slog.Logger) *App {
	return &App{
		log:     log,
		store:   store,
		geom:    geom,
		open:    open,
		paths:   paths,
		windows: make(map[string]*noteWindow),
		saved:   make(map[string]notes.Geometry),
	}
}

// Run builds the UI, restores the previously open notes and blocks in
// the GTK main loop until quit.
func (a *App) Run() error {
	gtk.Init(nil)

	a.wc = newWindowCalls(a.log)
	a.saved = a.geom.Load()

	var err error
	a.manager, err = newManagerWindow(a)
	if err != nil {
		return fmt.Errorf("build manager: %w", err)
	}
	a.indicator, err = newTrayIndicator(a)
	if err != nil {
		return fmt.Errorf("build tray indicator: %w", err)
	}

	a.store.OnDelete(a.onNotesDeleted)
	a.manager.show()
	for _, id := range a.open.Restorable(a.store) {
		a.openNote(id)
	}

	watcher := notes.NewWatcher(a.paths, a.log, a.store.LastWrite, a.onExternalChange)
	if err := watcher.Start(); err != nil {
		a.log.Warn("file watcher disabled", "error", err)
	}
	defer watcher.Stop()

	listener := hotkey.NewListener(a.log)
	if err := listener.Start(); err != nil {
		a.log.Warn("global hotkey unavailable", "error", err)
	} else {
		go a.pumpHotkey(listener)
		defer listener.Stop()
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		glib.IdleAdd(func() bool {
			a.Quit()
			return false
		})
	}()

	gtk.Main()
	a.saveAll()
	return nil
}

// pumpHotkey forwards portal activations onto the GTK thread.
func (a *App) pumpHotkey(listener *hotkey.Listener) {
	for req := range listener.Requests() {
		seed := req.SeedText
		glib.IdleAdd(func() bool {
			a.CreateNote(seed)
			return false
		})
	}
}

// onExternalChange runs on the watcher goroutine when notes.json was
// modified by someone else. The fresh mapping replaces the store on
// the GTK thread and every open view follows.
func (a *App) onExternalChange(fresh map[string]*notes.Note) {
	glib.IdleAdd(func() bool {
		a.store.Replace(fresh)
		a.log.Info("notes reloaded from disk", "count", a.store.Len())
		for id, w := range a.windows {
			note, ok := a.store.Get(id)
			if !ok {
				w.destroy()
				delete(a.windows, id)
				continue
			}
			w.note = note
			w.rich.SetDocument(note.Content)
			w.titleEntry.SetText(note.Title)
			w.applyCSS()
		}
		a.manager.refresh()
		a.saveOpenSet()
		return false
	})
}

// CreateNote makes a new note, optionally seeded with text, and opens
// its window.
func (a *App) CreateNote(seed string) {
	id, _ := a.store.Create(seed)
	if err := a.store.Save(); err != nil {
		a.log.Warn("save failed", "error", err)
	}
	a.manager.refresh()
	a.openNote(id)
}

// openNote shows the window for a note, raising it when already open.
// Opening clears the note's is-new flag so its geometry starts being
// tracked.
func (a *App) openNote(id string) {
	if w, ok := a.windows[id]; ok {
		w.present()
		return
	}
	note, ok := a.store.Get(id)
	if !ok {
		return
	}
	w, err := newNoteWindow(a, id, note)
	if err != nil {
		a.log.Error("open note failed", "note", id, "error", err)
		return
	}
	a.windows[id] = w
	a.store.MarkOpened(id)
	a.saveOpenSet()
}

func (a *App) closeNote(id string) {
	w, ok := a.windows[id]
	if !ok {
		return
	}
	w.win.Close()
}

// noteClosed is called from the window's close handler after it saved
// itself. The final geometry is persisted here so a closed window's
// position survives the session.
func (a *App) noteClosed(id string, g notes.Geometry) {
	delete(a.windows, id)
	if note, ok := a.store.Get(id); ok && !note.IsNew {
		a.saved[id] = g
		if err := a.geom.Set(id, g); err != nil {
			a.log.Warn("persist geometry failed", "note", id, "error", err)
		}
	}
	a.saveOpenSet()
}

// deleteNotes removes notes from the store and saves. Window teardown
// happens through the store's delete listener.
func (a *App) deleteNotes(ids ...string) {
	if a.store.Delete(ids...) == 0 {
		return
	}
	if err := a.store.Save(); err != nil {
		a.log.Warn("save failed", "error", err)
	}
}

func (a *App) onNotesDeleted(ids []string) {
	for _, id := range ids {
		if w, ok := a.windows[id]; ok {
			w.destroy()
			delete(a.windows, id)
		}
		delete(a.saved, id)
	}
	a.manager.refresh()
	a.saveOpenSet()
}

func (a *App) recolorNote(id, hex string) {
	if w, ok := a.windows[id]; ok {
		w.setColor(hex)
		return
	}
	note, ok := a.store.Get(id)
	if !ok {
		return
	}
	note.Color = hex
	if err := a.store.Save(); err != nil {
		a.log.Warn("save failed", "error", err)
	}
	a.manager.refresh()
}

func (a *App) savedGeometry(id string) (notes.Geometry, bool) {
	g, ok := a.saved[id]
	return g, ok
}

func (a *App) managerPosition() (int, int) {
	return a.manager.position()
}

func (a *App) openIDs() []string {
	ids := make([]string, 0, len(a.windows))
	for id := range a.windows {
		ids = append(ids, id)
	}
	return ids
}

func (a *App) saveOpenSet() {
	if err := a.open.Save(a.openIDs()); err != nil {
		a.log.Warn("persist open set failed", "error", err)
	}
}

func (a *App) liveGeometries() []notes.WindowGeometry {
	live := make([]notes.WindowGeometry, 0, len(a.windows))
	for id, w := range a.windows {
		live = append(live, notes.WindowGeometry{ID: id, Geometry: w.geometry()})
	}
	return live
}

// saveAll is the final persistence pass: note contents, window
// geometry and the open set.
func (a *App) saveAll() {
	for _, w := range a.windows {
		w.syncDocument()
	}
	if err := a.store.Save(); err != nil {
		a.log.Warn("save failed", "error", err)
	}
	if err := a.geom.Update(a.store, a.liveGeometries()); err != nil {
		a.log.Warn("persist geometry failed", "error", err)
	}
	a.saveOpenSet()
}

// Quit saves everything and stops the main loop.
func (a *App) Quit() {
	a.saveAll()
	gtk.MainQuit()
}

// matchShellID pairs a note window with a shell window on Wayland:
// same PID, closest size within tolerance, not claimed by another
// note.
func (a *App) matchShellID(target *noteWindow) uint32 {
	windows, err := a.wc.ProcessWindows()
	if err != nil || len(windows) == 0 {
		return 0
	}
	width, height := target.win.GetSize()

	claimed := make(map[uint32]bool)
	for _, w := range a.windows {
		if w != target && w.shellID != 0 {
			claimed[w.shellID] = true
		}
	}

	for _, win := range windows {
		if claimed[win.ID] {
			continue
		}
		details := win
		if details.Width == 0 && details.Height == 0 {
			d, err := a.wc.Details(win.ID)
			if err != nil || d == nil {
				continue
			}
			details.Width, details.Height = d.Width, d.Height
		}
		if absInt(details.Width-width) < 10 && absInt(details.Height-height) < 10 {
			return win.ID
		}
	}
	return 0
}
