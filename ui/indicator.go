package ui

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/dawidd6/go-appindicator"
	"github.com/gotk3/gotk3/gtk"
)

// trayIndicator is the always-present system tray entry.
type trayIndicator struct {
	app *App
	log *slog.Logger

	indicator *appindicator.Indicator
	menu      *gtk.Menu
}

func newTrayIndicator(app *App) (*trayIndicator, error) {
	t := &trayIndicator{
		app: app,
		log: app.log.With("component", "tray"),
	}

	t.indicator = appindicator.New("sticky-notes", "accessories-text-editor",
		appindicator.CategoryApplicationStatus)
	t.indicator.SetStatus(appindicator.StatusActive)
	t.indicator.SetTitle("Sticky Notes")

	if err := t.buildMenu(); err != nil {
		return nil, err
	}
	t.indicator.SetMenu(t.menu)
	return t, nil
}

func (t *trayIndicator) buildMenu() error {
	var err error
	t.menu, err = gtk.MenuNew()
	if err != nil {
		return fmt.Errorf("tray menu: %w", err)
	}

	addItem := func(label string, action func()) {
		item, err := gtk.MenuItemNewWithLabel(label)
		if err != nil {
			return
		}
		item.Connect("activate", action)
		t.menu.Append(item)
		item.Show()
	}
	addSep := func() {
		sep, err := gtk.SeparatorMenuItemNew()
		if err != nil {
			return
		}
		t.menu.Append(sep)
		sep.Show()
	}

	addItem("New Note", func() { t.app.CreateNote("") })
	addItem("Show Manager", func() { t.app.manager.present() })
	addSep()
	addItem("Export Data", t.exportData)
	addItem("Import Data", t.importData)
	addSep()
	addItem("Quit", t.app.Quit)
	return nil
}

func (t *trayIndicator) exportData() {
	dialog, err := gtk.FileChooserDialogNewWith2Buttons("Export Data", t.app.manager.win,
		gtk.FILE_CHOOSER_ACTION_SAVE,
		"Cancel", gtk.RESPONSE_CANCEL, "Save", gtk.RESPONSE_ACCEPT)
	if err != nil {
		return
	}
	dialog.SetDoOverwriteConfirmation(true)
	dialog.SetCurrentName("notes-export.json")
	response := dialog.Run()
	target := dialog.GetFilename()
	dialog.Destroy()
	if response != gtk.RESPONSE_ACCEPT || target == "" {
		return
	}

	data, err := t.app.store.Export()
	if err == nil {
		err = os.WriteFile(target, data, 0o644)
	}
	if err != nil {
		t.log.Error("export failed", "path", target, "error", err)
		alert(t.app.manager.win, "Error exporting data.")
		return
	}
	t.log.Info("notes exported", "path", target, "count", t.app.store.Len())
}

func (t *trayIndicator) importData() {
	dialog, err := gtk.FileChooserDialogNewWith2Buttons("Import Data", t.app.manager.win,
		gtk.FILE_CHOOSER_ACTION_OPEN,
		"Cancel", gtk.RESPONSE_CANCEL, "Open", gtk.RESPONSE_ACCEPT)
	if err != nil {
		return
	}
	response := dialog.Run()
	source := dialog.GetFilename()
	dialog.Destroy()
	if response != gtk.RESPONSE_ACCEPT || source == "" {
		return
	}

	data, err := os.ReadFile(source)
	if err != nil {
		t.log.Error("import read failed", "path", source, "error", err)
		alert(t.app.manager.win, "Error importing data.")
		return
	}
	added, updated, err := t.app.store.Merge(data)
	if err != nil {
		t.log.Error("import failed", "path", source, "error", err)
		alert(t.app.manager.win, "Error importing data.")
		return
	}
	t.log.Info("notes imported", "path", source, "added", added, "updated", updated)
	if err := t.app.store.Save(); err != nil {
		t.log.Warn("save after import failed", "error", err)
	}
	t.app.manager.refresh()
}

func alert(parent *gtk.Window, message string) {
	dialog := gtk.MessageDialogNew(parent, gtk.DIALOG_MODAL, gtk.MESSAGE_ERROR,
		gtk.BUTTONS_CLOSE, "%s", message)
	dialog.Run()
	dialog.Destroy()
}
