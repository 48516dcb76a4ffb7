package notes

import (
	"log/slog"
	"os"
)

type openState struct {
	OpenNotes []string `json:"open_notes"`
}

// OpenSetTracker persists which notes are currently displayed, so the
// window layout survives a relaunch. The set is rewritten on every
// state-affecting transition: open, close, minimize-to-tray, quit.
type OpenSetTracker struct {
	paths Paths
	log   *slog.Logger
}

func NewOpenSetTracker(paths Paths, log *slog.Logger) *OpenSetTracker {
	if log == nil {
		log = slog.Default()
	}
	return &OpenSetTracker{paths: paths, log: log.With("component", "openset")}
}

// Save records exactly the given IDs as the open set.
func (t *OpenSetTracker) Save(ids []string) error {
	if ids == nil {
		ids = []string{}
	}
	return writeJSONFile(t.paths.StateFile(), openState{OpenNotes: ids})
}

// Load returns the persisted open set; missing or corrupt yields nil.
func (t *OpenSetTracker) Load() []string {
	var st openState
	if err := readJSONFile(t.paths.StateFile(), &st); err != nil {
		if !os.IsNotExist(err) {
			t.log.Warn("state file unreadable, ignoring", "error", err)
		}
		return nil
	}
	return st.OpenNotes
}

// Restorable filters the persisted set down to the notes that still
// exist. IDs deleted while the app was closed are silently skipped.
func (t *OpenSetTracker) Restorable(store *Store) []string {
	var ids []string
	for _, id := range t.Load() {
		if _, ok := store.Get(id); ok {
			ids = append(ids, id)
		}
	}
	return ids
}
