package notes

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGeometryNewNoteNeverPersisted(t *testing.T) {
	s := setupStore(t)
	tracker := NewGeometryTracker(s.Paths(), testLogger())

	id, _ := s.Create("")
	live := []WindowGeometry{{ID: id, Geometry: Geometry{X: 100, Y: 120, Width: 270, Height: 270}}}
	require.NoError(t, tracker.Update(s, live))

	_, found := tracker.Load()[id]
	assert.False(t, found, "is_new note must not gain a positions entry")
}

func TestGeometrySurvivesRestart(t *testing.T) {
	s := setupStore(t)
	tracker := NewGeometryTracker(s.Paths(), testLogger())

	id, _ := s.Create("")
	s.MarkOpened(id)
	want := Geometry{X: 40, Y: 60, Width: 300, Height: 220}
	require.NoError(t, tracker.Update(s, []WindowGeometry{{ID: id, Geometry: want}}))

	// Simulated restart: a fresh tracker over the same files.
	again := NewGeometryTracker(s.Paths(), testLogger())
	assert.Equal(t, want, again.Load()[id])
}

func TestGeometryReadModifyWrite(t *testing.T) {
	s := setupStore(t)
	tracker := NewGeometryTracker(s.Paths(), testLogger())

	closedID, _ := s.Create("")
	s.MarkOpened(closedID)
	closed := Geometry{X: 1, Y: 2, Width: 3, Height: 4}
	require.NoError(t, tracker.Update(s, []WindowGeometry{{ID: closedID, Geometry: closed}}))

	// An update that only reports a different window must preserve the
	// entry for the window that is no longer open.
	openID, _ := s.Create("")
	s.MarkOpened(openID)
	require.NoError(t, tracker.Update(s, []WindowGeometry{{ID: openID, Geometry: Geometry{X: 9, Y: 9, Width: 9, Height: 9}}}))

	m := tracker.Load()
	assert.Equal(t, closed, m[closedID])
	assert.Contains(t, m, openID)
}

func TestGeometryOrphansAreHarmless(t *testing.T) {
	s := setupStore(t)
	tracker := NewGeometryTracker(s.Paths(), testLogger())

	id, _ := s.Create("")
	s.MarkOpened(id)
	require.NoError(t, tracker.Update(s, []WindowGeometry{{ID: id, Geometry: Geometry{X: 5, Y: 5, Width: 5, Height: 5}}}))

	s.Delete(id)
	require.NoError(t, tracker.Update(s, nil))

	// The stale entry stays; it is pruned only implicitly, never used.
	assert.Contains(t, tracker.Load(), id)
}

func TestGeometryCorruptFileStartsEmpty(t *testing.T) {
	s := setupStore(t)
	tracker := NewGeometryTracker(s.Paths(), testLogger())
	require.NoError(t, writeJSONFile(s.Paths().PositionsFile(), "not a mapping"))

	assert.Empty(t, tracker.Load())
}

func TestGeometrySet(t *testing.T) {
	s := setupStore(t)
	tracker := NewGeometryTracker(s.Paths(), testLogger())

	want := Geometry{X: 10, Y: 20, Width: 270, Height: 270}
	require.NoError(t, tracker.Set("123", want))
	assert.Equal(t, want, tracker.Load()["123"])
}
