package ui

import (
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sticky-notes/notes"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func newTestApp(t *testing.T) *App {
	t.Helper()
	log := testLogger()
	paths := notes.NewPaths(t.TempDir())
	require.NoError(t, paths.Ensure())
	store := notes.NewStore(paths, log)
	store.Load()
	geom := notes.NewGeometryTracker(paths, log)
	open := notes.NewOpenSetTracker(paths, log)
	return New(store, geom, open, paths, log)
}

func TestNoteClosedRefreshesSavedGeometry(t *testing.T) {
	a := newTestApp(t)
	id, _ := a.store.Create("")
	a.store.MarkOpened(id)

	first := notes.Geometry{X: 10, Y: 20, Width: 270, Height: 270}
	a.noteClosed(id, first)
	g, ok := a.savedGeometry(id)
	require.True(t, ok)
	assert.Equal(t, first, g)

	// A later close after the user moved the window must win over the
	// geometry cached at startup, both in memory and on disk.
	moved := notes.Geometry{X: 300, Y: 400, Width: 300, Height: 250}
	a.noteClosed(id, moved)
	g, ok = a.savedGeometry(id)
	require.True(t, ok)
	assert.Equal(t, moved, g)
	assert.Equal(t, moved, a.geom.Load()[id])
}

func TestNoteClosedSkipsNeverShownNotes(t *testing.T) {
	a := newTestApp(t)
	id, _ := a.store.Create("")

	a.noteClosed(id, notes.Geometry{X: 1, Y: 2, Width: 3, Height: 4})
	_, ok := a.savedGeometry(id)
	assert.False(t, ok)
	assert.Empty(t, a.geom.Load())
}
