package notes

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatcherReloadsOnExternalChange(t *testing.T) {
	paths := NewPaths(t.TempDir())
	require.NoError(t, paths.Ensure())

	var mu sync.Mutex
	var got map[string]*Note
	ignore := func() time.Time { return time.Time{} }
	w := NewWatcher(paths, testLogger(), ignore, func(m map[string]*Note) {
		mu.Lock()
		got = m
		mu.Unlock()
	})
	require.NoError(t, w.Start())
	defer w.Stop()

	// An "external" writer replaces the notes file.
	external := NewStore(paths, testLogger())
	external.Create("written behind our back")
	require.NoError(t, external.Save())

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(got) == 1
	}, 2*time.Second, 20*time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	for _, n := range got {
		assert.Equal(t, "written behind our back", n.ContentText)
	}
}

func TestWatcherIgnoresOwnEcho(t *testing.T) {
	paths := NewPaths(t.TempDir())
	require.NoError(t, paths.Ensure())

	s := NewStore(paths, testLogger())
	reloads := 0
	var mu sync.Mutex
	w := NewWatcher(paths, testLogger(), s.LastWrite, func(map[string]*Note) {
		mu.Lock()
		reloads++
		mu.Unlock()
	})
	require.NoError(t, w.Start())
	defer w.Stop()

	s.Create("")
	require.NoError(t, s.Save())

	time.Sleep(300 * time.Millisecond)
	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 0, reloads)
}

func TestWatcherStopWithoutStart(t *testing.T) {
	w := NewWatcher(NewPaths(t.TempDir()), testLogger(), nil, nil)
	w.Stop()
}
