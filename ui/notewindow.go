package ui

import (
	"fmt"
	"log/slog"

	"github.com/gotk3/gotk3/gdk"
	"github.com/gotk3/gotk3/glib"
	"github.com/gotk3/gotk3/gtk"

	"sticky-notes/notes"
)

const (
	defaultNoteWidth  = 270
	defaultNoteHeight = 270
)

// noteWindow is one sticky note on screen.
type noteWindow struct {
	app  *App
	log  *slog.Logger
	id   string
	note *notes.Note

	win        *gtk.Window
	titleEntry *gtk.Entry
	view       *gtk.TextView
	rich       *richText
	css        *gtk.CssProvider

	// shellID is the window-calls ID on Wayland, 0 until matched.
	shellID  uint32
	lastPos  [2]int
	lastSize [2]int

	deleting bool
}

func newNoteWindow(app *App, id string, note *notes.Note) (*noteWindow, error) {
	w := &noteWindow{
		app:  app,
		log:  app.log.With("component", "note-window", "note", id),
		id:   id,
		note: note,
	}
	if err := w.build(); err != nil {
		return nil, err
	}
	return w, nil
}

func (w *noteWindow) build() error {
	var err error
	w.win, err = gtk.WindowNew(gtk.WINDOW_TOPLEVEL)
	if err != nil {
		return fmt.Errorf("note window: %w", err)
	}
	w.win.SetTitle(w.note.Title)
	w.win.SetSkipPagerHint(true)

	vbox, err := gtk.BoxNew(gtk.ORIENTATION_VERTICAL, 2)
	if err != nil {
		return err
	}
	w.win.Add(vbox)

	// Header: title, pin, color, delete.
	header, err := gtk.BoxNew(gtk.ORIENTATION_HORIZONTAL, 2)
	if err != nil {
		return err
	}
	w.titleEntry, err = gtk.EntryNew()
	if err != nil {
		return err
	}
	w.titleEntry.SetText(w.note.Title)
	w.titleEntry.Connect("changed", w.onTitleChanged)
	header.PackStart(w.titleEntry, true, true, 0)

	pin, err := gtk.ToggleButtonNewWithLabel("Pin")
	if err != nil {
		return err
	}
	pin.SetTooltipText("Keep this note above other windows")
	pin.SetActive(w.note.Pinned)
	pin.Connect("toggled", func() {
		w.note.Pinned = pin.GetActive()
		w.win.SetKeepAbove(w.note.Pinned)
		w.save()
	})
	header.PackStart(pin, false, false, 0)

	colorBtn, err := gtk.ButtonNewWithLabel("Color")
	if err != nil {
		return err
	}
	colorBtn.Connect("clicked", func() { w.popupPalette(colorBtn) })
	header.PackStart(colorBtn, false, false, 0)

	delBtn, err := gtk.ButtonNewWithLabel("Delete")
	if err != nil {
		return err
	}
	delBtn.Connect("clicked", w.onDeleteClicked)
	header.PackStart(delBtn, false, false, 0)
	vbox.PackStart(header, false, false, 0)

	// Format bar.
	bar, err := gtk.BoxNew(gtk.ORIENTATION_HORIZONTAL, 2)
	if err != nil {
		return err
	}
	for _, b := range []struct {
		label   string
		tooltip string
		action  func()
	}{
		{"A+", "Increase font size", func() { w.rich.BumpFontSize(1) }},
		{"A-", "Decrease font size", func() { w.rich.BumpFontSize(-1) }},
		{"B", "Bold (Ctrl+B)", func() { w.rich.ToggleBold() }},
		{"I", "Italic (Ctrl+I)", func() { w.rich.ToggleItalic() }},
		{"U", "Underline (Ctrl+U)", func() { w.rich.ToggleUnderline() }},
	} {
		btn, err := gtk.ButtonNewWithLabel(b.label)
		if err != nil {
			return err
		}
		btn.SetTooltipText(b.tooltip)
		action := b.action
		btn.Connect("clicked", func() {
			action()
			w.save()
		})
		bar.PackStart(btn, false, false, 0)
	}
	vbox.PackStart(bar, false, false, 0)

	// Text body.
	scroll, err := gtk.ScrolledWindowNew(nil, nil)
	if err != nil {
		return err
	}
	w.view, err = gtk.TextViewNew()
	if err != nil {
		return err
	}
	w.view.SetWrapMode(gtk.WRAP_WORD)
	scroll.Add(w.view)
	vbox.PackStart(scroll, true, true, 0)

	w.rich, err = newRichText(w.view, w.id, w.app.paths, w.log)
	if err != nil {
		return err
	}
	w.rich.SetDocument(w.note.Content)

	// Transparency scale.
	scale, err := gtk.ScaleNewWithRange(gtk.ORIENTATION_HORIZONTAL,
		notes.MinTransparency, notes.MaxTransparency, 0.05)
	if err != nil {
		return err
	}
	scale.SetDrawValue(false)
	scale.SetTooltipText("Transparency")
	scale.SetValue(notes.ClampTransparency(w.note.Transparency))
	scale.Connect("value-changed", func() {
		v := notes.ClampTransparency(scale.GetValue())
		w.note.Transparency = v
		w.win.SetOpacity(v)
	})
	scale.Connect("button-release-event", func() bool {
		w.save()
		return false
	})
	vbox.PackStart(scale, false, false, 0)

	w.view.Connect("key-release-event", func() { w.save() })
	w.win.Connect("key-press-event", w.onKeyPress)
	w.win.Connect("configure-event", w.onConfigure)
	w.win.Connect("delete-event", w.onClose)

	w.applyCSS()
	w.placeWindow()
	w.win.ShowAll()
	w.win.SetOpacity(notes.ClampTransparency(w.note.Transparency))
	if w.note.Pinned {
		w.win.SetKeepAbove(true)
	}
	w.matchShellWindow()
	return nil
}

// placeWindow restores saved geometry, or centers a default-sized
// window on the manager. On Wayland the position part happens later in
// matchShellWindow, once the shell has assigned a window ID.
func (w *noteWindow) placeWindow() {
	g, ok := w.app.savedGeometry(w.id)
	if !ok {
		w.lastSize = [2]int{defaultNoteWidth, defaultNoteHeight}
		w.win.SetDefaultSize(defaultNoteWidth, defaultNoteHeight)
		mx, my := w.app.managerPosition()
		w.lastPos = [2]int{mx + 40, my + 40}
		w.win.Move(w.lastPos[0], w.lastPos[1])
		return
	}
	w.lastPos = [2]int{g.X, g.Y}
	w.lastSize = [2]int{g.Width, g.Height}
	w.win.SetDefaultSize(g.Width, g.Height)
	w.win.Resize(g.Width, g.Height)
	w.win.Move(g.X, g.Y)
}

// matchShellWindow finds this window in the shell's list by PID and
// size, then moves it to the saved position. Runs delayed so the
// window is realized and has its final size.
func (w *noteWindow) matchShellWindow() {
	if !w.app.wc.Available() {
		return
	}
	glib.TimeoutAdd(300, func() bool {
		if w.shellID == 0 {
			w.shellID = w.app.matchShellID(w)
		}
		if w.shellID != 0 {
			if err := w.app.wc.Move(w.shellID, w.lastPos[0], w.lastPos[1]); err != nil {
				w.log.Debug("shell move failed", "error", err)
			}
		}
		return false
	})
}

func (w *noteWindow) onTitleChanged() {
	text, err := w.titleEntry.GetText()
	if err != nil {
		return
	}
	w.note.Title = text
	w.win.SetTitle(text)
	w.save()
	w.app.manager.refresh()
}

func (w *noteWindow) onKeyPress(_ *gtk.Window, ev *gdk.Event) bool {
	key := gdk.EventKeyNewFromEvent(ev)
	if key.State()&uint(gdk.CONTROL_MASK) == 0 {
		return false
	}
	switch key.KeyVal() {
	case gdk.KeyvalFromName("b"):
		w.rich.ToggleBold()
	case gdk.KeyvalFromName("i"):
		w.rich.ToggleItalic()
	case gdk.KeyvalFromName("u"):
		w.rich.ToggleUnderline()
	case gdk.KeyvalFromName("v"):
		// Let GTK handle text paste; only intercept images.
		if !w.rich.PasteImage() {
			return false
		}
	default:
		return false
	}
	w.save()
	return true
}

// onConfigure tracks moves and resizes. On Wayland GTK reports (0,0),
// so the shell is asked instead when possible.
func (w *noteWindow) onConfigure() {
	if w.app.wc.Available() {
		if w.shellID == 0 {
			w.shellID = w.app.matchShellID(w)
		}
		if w.shellID != 0 {
			if details, err := w.app.wc.Details(w.shellID); err == nil && details != nil {
				w.lastPos = [2]int{details.X, details.Y}
				w.lastSize = [2]int{details.Width, details.Height}
				return
			}
		}
	}
	x, y := w.win.GetPosition()
	width, height := w.win.GetSize()
	if x != 0 || y != 0 {
		w.lastPos = [2]int{x, y}
	}
	if width > 1 && height > 1 {
		w.lastSize = [2]int{width, height}
	}
}

func (w *noteWindow) geometry() notes.Geometry {
	return notes.Geometry{
		X:      w.lastPos[0],
		Y:      w.lastPos[1],
		Width:  w.lastSize[0],
		Height: w.lastSize[1],
	}
}

// syncDocument flushes the buffer into the note.
func (w *noteWindow) syncDocument() {
	w.note.SetDocument(w.rich.Document())
}

func (w *noteWindow) save() {
	w.syncDocument()
	if err := w.app.store.Save(); err != nil {
		w.log.Warn("save failed", "error", err)
	}
}

func (w *noteWindow) onDeleteClicked() {
	if !confirm(w.win, "Delete this note?") {
		return
	}
	w.app.deleteNotes(w.id)
}

// onClose runs when the user closes the window. The window being
// destroyed because its note was deleted skips the save.
func (w *noteWindow) onClose() bool {
	if !w.deleting {
		w.save()
		w.app.noteClosed(w.id, w.geometry())
	}
	return false
}

func (w *noteWindow) present() {
	w.win.Present()
}

// destroy tears down without persisting, for deleted notes.
func (w *noteWindow) destroy() {
	w.deleting = true
	w.win.Destroy()
}

func (w *noteWindow) popupPalette(anchor *gtk.Button) {
	menu, err := gtk.MenuNew()
	if err != nil {
		return
	}
	for _, c := range Palette {
		hex := c.Hex
		item, err := gtk.MenuItemNew()
		if err != nil {
			continue
		}
		label, err := gtk.LabelNew("")
		if err != nil {
			continue
		}
		label.SetMarkup(fmt.Sprintf("<span background=%q>    </span> %s", hex, c.Name))
		label.SetXAlign(0)
		item.Add(label)
		item.Connect("activate", func() {
			w.setColor(hex)
		})
		menu.Append(item)
		item.ShowAll()
	}
	menu.PopupAtWidget(anchor, gdk.GDK_GRAVITY_SOUTH_WEST, gdk.GDK_GRAVITY_NORTH_WEST, nil)
}

func (w *noteWindow) setColor(hex string) {
	w.note.Color = hex
	w.applyCSS()
	w.save()
	w.app.manager.refresh()
}

// applyCSS paints the window and text view with the note color.
func (w *noteWindow) applyCSS() {
	if w.css == nil {
		var err error
		w.css, err = gtk.CssProviderNew()
		if err != nil {
			return
		}
		for _, widget := range []interface {
			GetStyleContext() (*gtk.StyleContext, error)
		}{w.win, w.view} {
			ctx, err := widget.GetStyleContext()
			if err != nil {
				continue
			}
			ctx.AddProvider(w.css, gtk.STYLE_PROVIDER_PRIORITY_USER)
		}
	}
	color := w.note.Color
	if color == "" {
		color = notes.DefaultColor
	}
	css := fmt.Sprintf(
		"window { background-color: %s; }\ntextview, textview text { background-color: %s; }\n",
		color, color)
	if err := w.css.LoadFromData(css); err != nil {
		w.log.Warn("css load failed", "error", err)
	}
}

// confirm shows a modal yes/no question. Declining is a no-op for the
// caller.
func confirm(parent *gtk.Window, question string) bool {
	dialog := gtk.MessageDialogNew(parent, gtk.DIALOG_MODAL, gtk.MESSAGE_QUESTION,
		gtk.BUTTONS_NONE, "%s", question)
	dialog.AddButton("Cancel", gtk.RESPONSE_REJECT)
	dialog.AddButton("OK", gtk.RESPONSE_ACCEPT)
	response := dialog.Run()
	dialog.Destroy()
	return response == gtk.RESPONSE_ACCEPT
}
