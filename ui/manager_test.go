package ui

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sticky-notes/notes"
)

func TestRowMarkupEscapesPangoSpecials(t *testing.T) {
	n := notes.NewNote("a <b> & c\nsecond line", time.Now())
	n.Title = "R&D <notes>"

	markup := rowMarkup(n)
	assert.Contains(t, markup, "R&amp;D &lt;notes&gt;")
	assert.Contains(t, markup, "a &lt;b&gt; &amp; c")
	assert.NotContains(t, markup, "<notes>")
}

func TestRowMarkupUsesDefaultColorWhenUnset(t *testing.T) {
	n := notes.NewNote("", time.Now())
	n.Color = ""

	assert.Contains(t, rowMarkup(n), notes.DefaultColor)
}

func TestRowMarkupSkipsSnippetMatchingTitle(t *testing.T) {
	n := notes.NewNote("shopping", time.Now())

	markup := rowMarkup(n)
	assert.Contains(t, markup, "shopping")
	assert.NotContains(t, markup, "<small>")
}

func TestPaletteEntriesAreValidHex(t *testing.T) {
	require.NotEmpty(t, Palette)
	seen := make(map[string]bool)
	for _, c := range Palette {
		assert.Regexp(t, `^#[0-9A-F]{6}$`, c.Hex, "color %s", c.Name)
		assert.NotEmpty(t, c.Name)
		assert.False(t, seen[c.Name], "duplicate palette name %s", c.Name)
		seen[c.Name] = true
	}
}
