package notes

import (
	"log/slog"
	"os"
)

// Geometry is one window's last known placement.
type Geometry struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// WindowGeometry pairs a note ID with its current on-screen geometry.
// The UI reports only windows that actually exist and are visible.
type WindowGeometry struct {
	ID       string
	Geometry Geometry
}

// GeometryTracker persists per-note screen geometry in positions.json,
// independent of note content. Entries for deleted notes are harmless
// orphans and are never pruned.
type GeometryTracker struct {
	paths Paths
	log   *slog.Logger
}

func NewGeometryTracker(paths Paths, log *slog.Logger) *GeometryTracker {
	if log == nil {
		log = slog.Default()
	}
	return &GeometryTracker{paths: paths, log: log.With("component", "geometry")}
}

// Load reads positions.json; missing or corrupt yields an empty map.
func (t *GeometryTracker) Load() map[string]Geometry {
	m := make(map[string]Geometry)
	if err := readJSONFile(t.paths.PositionsFile(), &m); err != nil {
		if !os.IsNotExist(err) {
			t.log.Warn("positions file unreadable, starting empty", "error", err)
		}
		return make(map[string]Geometry)
	}
	return m
}

// Update is a read-modify-write: existing entries survive, and the
// reported windows overlay theirs. A note still flagged is_new never
// gains an entry, so a default centered placement the user never chose
// is not persisted.
func (t *GeometryTracker) Update(store *Store, live []WindowGeometry) error {
	m := t.Load()
	for _, wg := range live {
		n, ok := store.Get(wg.ID)
		if !ok || n.IsNew {
			continue
		}
		m[wg.ID] = wg.Geometry
	}
	return writeJSONFile(t.paths.PositionsFile(), m)
}

// Set records one window's geometry directly (used when a window is
// closed and its final placement is known).
func (t *GeometryTracker) Set(id string, g Geometry) error {
	m := t.Load()
	m[id] = g
	return writeJSONFile(t.paths.PositionsFile(), m)
}
