package ui

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/gotk3/gotk3/gdk"
	"github.com/gotk3/gotk3/gtk"

	"sticky-notes/notes"
)

// managerWindow lists every note with a color swatch and drives the
// bulk operations. Closing it quits the whole app; minimizing hides it
// to the tray.
type managerWindow struct {
	app *App
	log *slog.Logger

	win    *gtk.Window
	search *gtk.SearchEntry
	list   *gtk.ListBox

	// rows maps list row index to note ID for the current filter.
	rows []string
}

func newManagerWindow(app *App) (*managerWindow, error) {
	m := &managerWindow{
		app: app,
		log: app.log.With("component", "manager"),
	}
	if err := m.build(); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *managerWindow) build() error {
	var err error
	m.win, err = gtk.WindowNew(gtk.WINDOW_TOPLEVEL)
	if err != nil {
		return fmt.Errorf("manager window: %w", err)
	}
	m.win.SetTitle("Sticky Notes")
	m.win.SetDefaultSize(320, 420)

	vbox, err := gtk.BoxNew(gtk.ORIENTATION_VERTICAL, 4)
	if err != nil {
		return err
	}
	m.win.Add(vbox)

	buttons, err := gtk.BoxNew(gtk.ORIENTATION_HORIZONTAL, 4)
	if err != nil {
		return err
	}
	newBtn, err := gtk.ButtonNewWithLabel("New Note")
	if err != nil {
		return err
	}
	newBtn.Connect("clicked", func() { m.app.CreateNote("") })
	buttons.PackStart(newBtn, true, true, 0)

	delBtn, err := gtk.ButtonNewWithLabel("Delete Note")
	if err != nil {
		return err
	}
	delBtn.Connect("clicked", m.deleteSelected)
	buttons.PackStart(delBtn, true, true, 0)
	vbox.PackStart(buttons, false, false, 2)

	m.search, err = gtk.SearchEntryNew()
	if err != nil {
		return err
	}
	m.search.Connect("search-changed", func() { m.refresh() })
	vbox.PackStart(m.search, false, false, 0)

	scroll, err := gtk.ScrolledWindowNew(nil, nil)
	if err != nil {
		return err
	}
	m.list, err = gtk.ListBoxNew()
	if err != nil {
		return err
	}
	m.list.Connect("row-activated", m.onRowActivated)
	m.list.Connect("button-press-event", m.onButtonPress)
	scroll.Add(m.list)
	vbox.PackStart(scroll, true, true, 0)

	m.win.Connect("key-press-event", m.onKeyPress)
	m.win.Connect("window-state-event", m.onWindowState)
	m.win.Connect("delete-event", func() bool {
		m.app.Quit()
		return false
	})

	m.refresh()
	return nil
}

func (m *managerWindow) show() {
	m.win.ShowAll()
}

func (m *managerWindow) present() {
	m.win.ShowAll()
	m.win.Deiconify()
	m.win.Present()
}

func (m *managerWindow) position() (int, int) {
	return m.win.GetPosition()
}

func (m *managerWindow) query() string {
	text, err := m.search.GetText()
	if err != nil {
		return ""
	}
	return text
}

// refresh rebuilds the list for the current search filter, newest
// notes first.
func (m *managerWindow) refresh() {
	children := m.list.GetChildren()
	if children != nil {
		children.Foreach(func(item interface{}) {
			if widget, ok := item.(gtk.IWidget); ok {
				m.list.Remove(widget)
			}
		})
	}
	m.rows = m.rows[:0]

	for _, id := range m.app.store.Search(m.query()) {
		note, ok := m.app.store.Get(id)
		if !ok {
			continue
		}
		label, err := gtk.LabelNew("")
		if err != nil {
			continue
		}
		label.SetMarkup(rowMarkup(note))
		label.SetXAlign(0)
		m.list.Add(label)
		m.rows = append(m.rows, id)
	}
	m.list.ShowAll()
}

// rowMarkup renders a color swatch plus the note title with a short
// body snippet.
func rowMarkup(note *notes.Note) string {
	color := note.Color
	if color == "" {
		color = notes.DefaultColor
	}
	snippet := strings.SplitN(note.Content.PlainText(), "\n", 2)[0]
	snippet = strings.TrimSpace(snippet)
	if len(snippet) > 40 {
		snippet = string([]rune(snippet)[:40])
	}
	markup := fmt.Sprintf("<span background=%q>   </span> <b>%s</b>",
		color, escapeMarkup(note.Title))
	if snippet != "" && snippet != note.Title {
		markup += fmt.Sprintf("\n      <small>%s</small>", escapeMarkup(snippet))
	}
	return markup
}

func escapeMarkup(s string) string {
	s = strings.ReplaceAll(s, "&", "&amp;")
	s = strings.ReplaceAll(s, "<", "&lt;")
	s = strings.ReplaceAll(s, ">", "&gt;")
	return s
}

func (m *managerWindow) selectedID() (string, bool) {
	row := m.list.GetSelectedRow()
	if row == nil {
		return "", false
	}
	idx := row.GetIndex()
	if idx < 0 || idx >= len(m.rows) {
		return "", false
	}
	return m.rows[idx], true
}

func (m *managerWindow) onRowActivated(_ *gtk.ListBox, row *gtk.ListBoxRow) {
	idx := row.GetIndex()
	if idx < 0 || idx >= len(m.rows) {
		return
	}
	m.app.openNote(m.rows[idx])
}

func (m *managerWindow) deleteSelected() {
	id, ok := m.selectedID()
	if !ok {
		return
	}
	note, _ := m.app.store.Get(id)
	title := ""
	if note != nil {
		title = note.Title
	}
	if !confirm(m.win, fmt.Sprintf("Delete note %q?", title)) {
		return
	}
	m.app.deleteNotes(id)
}

func (m *managerWindow) onKeyPress(_ *gtk.Window, ev *gdk.Event) bool {
	key := gdk.EventKeyNewFromEvent(ev)
	switch {
	case key.KeyVal() == gdk.KeyvalFromName("Delete"):
		m.deleteSelected()
		return true
	case key.KeyVal() == gdk.KeyvalFromName("n") &&
		key.State()&uint(gdk.CONTROL_MASK) != 0 &&
		key.State()&uint(gdk.SHIFT_MASK) != 0:
		m.app.CreateNote("")
		return true
	case key.KeyVal() == gdk.KeyvalFromName("N") &&
		key.State()&uint(gdk.CONTROL_MASK) != 0:
		m.app.CreateNote("")
		return true
	}
	return false
}

// onButtonPress pops the context menu on right click. The row under
// the pointer is resolved from the event position; the press has not
// changed the selection yet, so selectedID would report the previous
// row.
func (m *managerWindow) onButtonPress(_ *gtk.ListBox, ev *gdk.Event) bool {
	button := gdk.EventButtonNewFromEvent(ev)
	if button.Button() != gdk.BUTTON_SECONDARY {
		return false
	}
	row := m.list.GetRowAtY(int(button.Y()))
	if row == nil {
		return false
	}
	m.list.SelectRow(row)
	idx := row.GetIndex()
	if idx < 0 || idx >= len(m.rows) {
		return false
	}
	m.popupContextMenu(m.rows[idx], ev)
	return true
}

func (m *managerWindow) popupContextMenu(id string, ev *gdk.Event) {
	menu, err := gtk.MenuNew()
	if err != nil {
		return
	}
	addItem := func(label string, action func()) {
		item, err := gtk.MenuItemNewWithLabel(label)
		if err != nil {
			return
		}
		item.Connect("activate", action)
		menu.Append(item)
		item.Show()
	}
	addItem("Open", func() { m.app.openNote(id) })
	addItem("Close", func() { m.app.closeNote(id) })
	addItem("Delete", func() {
		if confirm(m.win, "Delete this note?") {
			m.app.deleteNotes(id)
		}
	})

	sep, err := gtk.SeparatorMenuItemNew()
	if err == nil {
		menu.Append(sep)
		sep.Show()
	}
	head, err := gtk.MenuItemNewWithLabel("Color:")
	if err == nil {
		head.SetSensitive(false)
		menu.Append(head)
		head.Show()
	}
	for _, c := range Palette {
		hex := c.Hex
		addItem(c.Name, func() { m.app.recolorNote(id, hex) })
	}

	menu.PopupAtPointer(ev)
}

// onWindowState hides the manager to the tray when it is minimized.
func (m *managerWindow) onWindowState(_ *gtk.Window, ev *gdk.Event) {
	state := gdk.EventWindowStateNewFromEvent(ev)
	if state.ChangedMask()&gdk.WINDOW_STATE_ICONIFIED == 0 {
		return
	}
	if state.NewWindowState()&gdk.WINDOW_STATE_ICONIFIED != 0 {
		m.app.saveOpenSet()
		m.win.Hide()
	}
}
