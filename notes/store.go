package notes

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"strconv"
	"sync/atomic"
	"time"
)

// Store holds the in-memory note mapping backed by notes.json. All
// mutation happens on the UI thread; the only cross-goroutine traffic
// is the lastWrite stamp the reload watcher reads.
type Store struct {
	paths     Paths
	log       *slog.Logger
	notes     map[string]*Note
	onDelete  []func(ids []string)
	lastWrite atomic.Int64
}

// NewStore creates an empty store for the given data directory.
func NewStore(paths Paths, log *slog.Logger) *Store {
	if log == nil {
		log = slog.Default()
	}
	return &Store{
		paths: paths,
		log:   log.With("component", "store"),
		notes: make(map[string]*Note),
	}
}

func (s *Store) Paths() Paths { return s.paths }

// Load reads notes.json. A missing or corrupt file yields an empty
// store; startup never fails on bad data.
func (s *Store) Load() {
	s.notes = LoadNotesFile(s.paths, s.log)
}

// LoadNotesFile reads and migrates the note mapping without touching
// any store state, so the reload watcher can use it off-thread.
func LoadNotesFile(paths Paths, log *slog.Logger) map[string]*Note {
	m := make(map[string]*Note)
	if err := readJSONFile(paths.NotesFile(), &m); err != nil {
		if !os.IsNotExist(err) {
			log.Warn("notes file unreadable, starting empty", "path", paths.NotesFile(), "error", err)
		}
		return make(map[string]*Note)
	}
	return m
}

// Save writes the full mapping, pretty-printed, via temp+rename.
func (s *Store) Save() error {
	if err := writeJSONFile(s.paths.NotesFile(), s.notes); err != nil {
		return fmt.Errorf("save notes: %w", err)
	}
	s.lastWrite.Store(time.Now().UnixNano())
	return nil
}

// LastWrite reports when the store last wrote notes.json, so the
// watcher can tell its own echo from an external edit.
func (s *Store) LastWrite() time.Time {
	return time.Unix(0, s.lastWrite.Load())
}

// Replace swaps in a freshly loaded mapping (external file change).
func (s *Store) Replace(m map[string]*Note) {
	if m == nil {
		m = make(map[string]*Note)
	}
	s.notes = m
}

// Get returns the note for an ID.
func (s *Store) Get(id string) (*Note, bool) {
	n, ok := s.notes[id]
	return n, ok
}

// Len returns the number of notes.
func (s *Store) Len() int { return len(s.notes) }

// Create mints a new note. A non-empty seed (the hotkey path passes
// clipboard text) becomes the initial content and title.
func (s *Store) Create(seed string) (string, *Note) {
	now := time.Now()
	id := s.mintID(now)
	n := NewNote(seed, now)
	s.notes[id] = n
	s.log.Info("note created", "id", id)
	return id, n
}

// mintID bumps the millisecond until the ID is free. Interactive
// creation never collides; import can.
func (s *Store) mintID(now time.Time) string {
	ms := now.UnixMilli()
	for {
		id := strconv.FormatInt(ms, 10)
		if _, taken := s.notes[id]; !taken {
			return id
		}
		ms++
	}
}

// MarkOpened clears is_new on first display. Returns true if the flag
// actually changed, so callers know a save is warranted.
func (s *Store) MarkOpened(id string) bool {
	n, ok := s.notes[id]
	if !ok || !n.IsNew {
		return false
	}
	n.IsNew = false
	return true
}

// Delete removes notes and notifies the registered listeners (open
// windows close themselves, the open-set drops the IDs on its next
// save). Absent IDs are ignored.
func (s *Store) Delete(ids ...string) int {
	var removed []string
	for _, id := range ids {
		if _, ok := s.notes[id]; ok {
			delete(s.notes, id)
			removed = append(removed, id)
		}
	}
	if len(removed) == 0 {
		return 0
	}
	s.log.Info("notes deleted", "count", len(removed))
	for _, fn := range s.onDelete {
		fn(removed)
	}
	return len(removed)
}

// OnDelete registers a listener invoked with the IDs of every
// successful deletion.
func (s *Store) OnDelete(fn func(ids []string)) {
	s.onDelete = append(s.onDelete, fn)
}

// SortedIDs returns all IDs, descending by creation timestamp.
func (s *Store) SortedIDs() []string {
	ids := make([]string, 0, len(s.notes))
	for id := range s.notes {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		a, b := s.notes[ids[i]].Created, s.notes[ids[j]].Created
		if a != b {
			return a > b
		}
		return ids[i] > ids[j]
	})
	return ids
}

// Search returns the display-ordered IDs whose title or plain text
// contains the query, case-insensitively. Empty query matches all.
func (s *Store) Search(query string) []string {
	var ids []string
	for _, id := range s.SortedIDs() {
		if s.notes[id].Matches(query) {
			ids = append(ids, id)
		}
	}
	return ids
}

// Export serializes the mapping the same way Save writes it.
func (s *Store) Export() ([]byte, error) {
	return json.MarshalIndent(s.notes, "", "  ")
}

// Merge folds an exported document into the store: known IDs are
// updated in place, unknown ones added, and entries without a usable
// ID get a freshly minted one.
func (s *Store) Merge(data []byte) (added, updated int, err error) {
	incoming := make(map[string]*Note)
	if err := json.Unmarshal(data, &incoming); err != nil {
		return 0, 0, fmt.Errorf("import: %w", err)
	}
	for id, n := range incoming {
		if id == "" {
			id = s.mintID(time.Now())
		}
		if _, known := s.notes[id]; known {
			updated++
		} else {
			added++
		}
		s.notes[id] = n
	}
	s.log.Info("merge complete", "added", added, "updated", updated)
	return added, updated, nil
}
