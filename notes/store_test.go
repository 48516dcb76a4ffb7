package notes

import (
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func setupStore(t *testing.T) *Store {
	t.Helper()
	paths := NewPaths(t.TempDir())
	require.NoError(t, paths.Ensure())
	s := NewStore(paths, testLogger())
	s.Load()
	return s
}

func TestCreateDefaults(t *testing.T) {
	s := setupStore(t)

	id, n := s.Create("")
	assert.NotEmpty(t, id)
	assert.Equal(t, DefaultTitle, n.Title)
	assert.Equal(t, DefaultColor, n.Color)
	assert.True(t, n.IsNew)
	assert.False(t, n.Pinned)
	assert.Equal(t, MaxTransparency, n.Transparency)
	assert.True(t, n.Content.IsEmpty())
}

func TestCreateWithSeedText(t *testing.T) {
	s := setupStore(t)

	_, n := s.Create("grabbed from the clipboard\nsecond line")
	assert.Equal(t, "grabbed from the clipboard", n.Title)
	assert.Equal(t, "grabbed from the clipboard\nsecond line", n.ContentText)

	_, long := s.Create("a very long first line that should be truncated for the title")
	assert.Equal(t, "a very long first line that sh...", long.Title)
}

func TestMintIDBumpsOnCollision(t *testing.T) {
	s := setupStore(t)

	now := time.Now()
	a := s.mintID(now)
	s.notes[a] = NewNote("", now)
	b := s.mintID(now)
	assert.NotEqual(t, a, b)
}

func TestSaveLoadIdempotence(t *testing.T) {
	s := setupStore(t)
	id1, n1 := s.Create("first note body")
	n1.Pinned = true
	n1.Color = "#99CCFF"
	id2, n2 := s.Create("")
	n2.SetDocument(&Document{Version: 1, Ops: []Op{
		{Kind: OpTagOn, Value: "style_12_true_false_false"},
		{Kind: OpText, Value: "styled"},
		{Kind: OpTagOff, Value: "style_12_true_false_false"},
	}})
	require.NoError(t, s.Save())

	reloaded := NewStore(s.Paths(), testLogger())
	reloaded.Load()
	require.Equal(t, s.Len(), reloaded.Len())
	assert.Equal(t, s.notes[id1], reloaded.notes[id1])
	assert.Equal(t, s.notes[id2], reloaded.notes[id2])
}

func TestLoadCorruptFileStartsEmpty(t *testing.T) {
	paths := NewPaths(t.TempDir())
	require.NoError(t, paths.Ensure())
	require.NoError(t, os.WriteFile(paths.NotesFile(), []byte("{not json"), 0644))

	s := NewStore(paths, testLogger())
	s.Load()
	assert.Equal(t, 0, s.Len())
}

func TestSearch(t *testing.T) {
	s := setupStore(t)
	idA, a := s.Create("")
	a.Title = "Shopping"
	a.ContentText = "milk and eggs"
	idB, b := s.Create("")
	b.Title = "Work"
	b.ContentText = "ship the RELEASE"
	idC, c := s.Create("")
	c.Title = "Misc"
	c.ContentText = ""

	assert.ElementsMatch(t, []string{idA, idB, idC}, s.Search(""))
	assert.Equal(t, []string{idA}, s.Search("MILK"))
	assert.Equal(t, []string{idB}, s.Search("release"))
	assert.Equal(t, []string{idB}, s.Search("Wor"))
	assert.Empty(t, s.Search("absent"))
}

func TestSortedIDsDescendingByCreated(t *testing.T) {
	s := setupStore(t)
	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		ts := base.Add(time.Duration(i) * time.Hour)
		s.notes[NewID(ts)] = NewNote("", ts)
	}

	ids := s.SortedIDs()
	require.Len(t, ids, 5)
	for i := 1; i < len(ids); i++ {
		prev, cur := s.notes[ids[i-1]], s.notes[ids[i]]
		assert.Greater(t, prev.Created, cur.Created)
	}
}

func TestDeleteIdempotentAndNotifies(t *testing.T) {
	s := setupStore(t)
	var notified [][]string
	s.OnDelete(func(ids []string) { notified = append(notified, ids) })

	id1, _ := s.Create("")
	id2, _ := s.Create("")

	assert.Equal(t, 2, s.Delete(id1, id2, "never-existed"))
	assert.Equal(t, 0, s.Len())
	require.Len(t, notified, 1)
	assert.ElementsMatch(t, []string{id1, id2}, notified[0])

	// Deleting again is a no-op and fires no callback.
	assert.Equal(t, 0, s.Delete(id1))
	assert.Len(t, notified, 1)
}

func TestMarkOpened(t *testing.T) {
	s := setupStore(t)
	id, n := s.Create("")
	require.True(t, n.IsNew)

	assert.True(t, s.MarkOpened(id))
	assert.False(t, n.IsNew)
	assert.False(t, s.MarkOpened(id))
	assert.False(t, s.MarkOpened("missing"))
}

func TestExportMergeRoundTrip(t *testing.T) {
	s := setupStore(t)
	id, n := s.Create("take me along")
	n.Color = "#99FF99"
	data, err := s.Export()
	require.NoError(t, err)

	dst := setupStore(t)
	keepID, keep := dst.Create("")
	keep.Title = "local"

	added, updated, err := dst.Merge(data)
	require.NoError(t, err)
	assert.Equal(t, 1, added)
	assert.Equal(t, 0, updated)

	got, ok := dst.Get(id)
	require.True(t, ok)
	assert.Equal(t, "take me along", got.ContentText)
	assert.Equal(t, "#99FF99", got.Color)

	local, ok := dst.Get(keepID)
	require.True(t, ok)
	assert.Equal(t, "local", local.Title)

	// Merging the same document again updates in place.
	added, updated, err = dst.Merge(data)
	require.NoError(t, err)
	assert.Equal(t, 0, added)
	assert.Equal(t, 1, updated)
}

func TestMergeRejectsGarbage(t *testing.T) {
	s := setupStore(t)
	_, _, err := s.Merge([]byte("nope"))
	assert.Error(t, err)
}
