package notes

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeDump(t *testing.T) {
	raw := json.RawMessage(`[
		["tagon", "style_14_True_False_True", "1.0"],
		["text", "Hi", "1.0"],
		["tagoff", "style_14_True_False_True", "1.2"],
		["text", " there\n", "1.2"],
		["image", "/data/images/123_456.png", "2.0"],
		["mark", "insert", "2.0"]
	]`)

	doc, err := decodeDump(raw)
	require.NoError(t, err)
	assert.Equal(t, []Op{
		{Kind: OpTagOn, Value: "style_14_True_False_True"},
		{Kind: OpText, Value: "Hi"},
		{Kind: OpTagOff, Value: "style_14_True_False_True"},
		{Kind: OpText, Value: " there\n"},
		{Kind: OpImage, Value: "/data/images/123_456.png"},
	}, doc.Ops)
	assert.Equal(t, "Hi there\n", doc.PlainText())
}

func TestDecodeDumpSkipsMalformedStyleTag(t *testing.T) {
	raw := json.RawMessage(`[
		["tagon", "style_bogus", "1.0"],
		["text", "plain", "1.0"],
		["tagoff", "style_bogus", "1.5"]
	]`)

	doc, err := decodeDump(raw)
	require.NoError(t, err)
	// The run survives unstyled.
	assert.Equal(t, []Op{{Kind: OpText, Value: "plain"}}, doc.Ops)
}

func TestDecodeDumpDropsEditorSelectionTags(t *testing.T) {
	// tk dumps interleave editor-internal tags like "sel" with the
	// content; a stray tagoff inside a style run must not end it.
	raw := json.RawMessage(`[
		["tagon", "style_12_True_False_False", "1.0"],
		["text", "ab", "1.0"],
		["tagoff", "sel", "1.2"],
		["text", "cd", "1.2"],
		["tagoff", "style_12_True_False_False", "1.4"]
	]`)

	doc, err := decodeDump(raw)
	require.NoError(t, err)
	assert.Equal(t, []Op{
		{Kind: OpTagOn, Value: "style_12_True_False_False"},
		{Kind: OpText, Value: "ab"},
		{Kind: OpText, Value: "cd"},
		{Kind: OpTagOff, Value: "style_12_True_False_False"},
	}, doc.Ops)
}

func TestDecodeTagRanges(t *testing.T) {
	tags := json.RawMessage(`[["style_12_true_false_false", "1.0", "1.5"]]`)
	doc, err := decodeTagRanges("Hello World", tags)
	require.NoError(t, err)
	assert.Equal(t, []Op{
		{Kind: OpTagOn, Value: "style_12_true_false_false"},
		{Kind: OpText, Value: "Hello"},
		{Kind: OpTagOff, Value: "style_12_true_false_false"},
		{Kind: OpText, Value: " World"},
	}, doc.Ops)
}

func TestDecodeTagRangesMultiline(t *testing.T) {
	// tk indices are line.char with 1-based lines.
	tags := json.RawMessage(`[["style_10_false_true_false", "2.0", "2.3"]]`)
	doc, err := decodeTagRanges("one\ntwo three", tags)
	require.NoError(t, err)
	assert.Equal(t, []Op{
		{Kind: OpText, Value: "one\n"},
		{Kind: OpTagOn, Value: "style_10_false_true_false"},
		{Kind: OpText, Value: "two"},
		{Kind: OpTagOff, Value: "style_10_false_true_false"},
		{Kind: OpText, Value: " three"},
	}, doc.Ops)
}

func TestDecodeTagRangesIgnoresBadEntries(t *testing.T) {
	tags := json.RawMessage(`[
		["style_nope_true_false_false", "1.0", "1.3"],
		["sel", "1.0", "1.3"],
		["style_10_true_false_false", "9.9", "1.2"],
		["style_10_true_false_false", "1.0", "1.0"]
	]`)
	doc, err := decodeTagRanges("abc", tags)
	require.NoError(t, err)
	assert.Equal(t, []Op{{Kind: OpText, Value: "abc"}}, doc.Ops)
}

func TestDecodeHTML(t *testing.T) {
	markup := `<html><head><style>p { margin: 0; }</style></head><body>
		<p>Hello <span style=" font-weight:600;">bold</span></p>
		<p><span style=" font-style:italic; font-size:14pt;">slanted</span></p>
		<p><img src="/data/images/1_2.png" /></p>
	</body></html>`

	doc := decodeHTML(markup)

	bold := StyleTag{Size: DefaultFontSize, Bold: true}.Name()
	italic14 := StyleTag{Size: 14, Italic: true}.Name()
	assert.Equal(t, []Op{
		{Kind: OpText, Value: "Hello "},
		{Kind: OpTagOn, Value: bold},
		{Kind: OpText, Value: "bold"},
		{Kind: OpTagOff, Value: bold},
		{Kind: OpText, Value: "\n"},
		{Kind: OpTagOn, Value: italic14},
		{Kind: OpText, Value: "slanted"},
		{Kind: OpTagOff, Value: italic14},
		{Kind: OpText, Value: "\n"},
		{Kind: OpImage, Value: "/data/images/1_2.png"},
		{Kind: OpText, Value: "\n"},
	}, doc.Ops)
}

func TestDecodeHTMLElementStyles(t *testing.T) {
	doc := decodeHTML(`<b>one</b><u>two</u><br/><i>three</i>`)
	assert.Equal(t, "onetwo\nthree", doc.PlainText())

	var tags []string
	for _, op := range doc.Ops {
		if op.Kind == OpTagOn {
			tags = append(tags, op.Value)
		}
	}
	assert.Equal(t, []string{
		StyleTag{Size: DefaultFontSize, Bold: true}.Name(),
		StyleTag{Size: DefaultFontSize, Underline: true}.Name(),
		StyleTag{Size: DefaultFontSize, Italic: true}.Name(),
	}, tags)
}

func TestNoteMigration(t *testing.T) {
	t.Run("v1 content object", func(t *testing.T) {
		var n Note
		require.NoError(t, json.Unmarshal([]byte(`{
			"title": "T",
			"content": {"version": 1, "ops": [{"op": "text", "value": "hi"}]},
			"content_text": "hi",
			"color": "#99CCFF",
			"created": "2026-08-29T10:00:00.000000"
		}`), &n))
		assert.Equal(t, "hi", n.Content.PlainText())
		assert.Equal(t, "#99CCFF", n.Color)
	})

	t.Run("tk dump dialect", func(t *testing.T) {
		var n Note
		require.NoError(t, json.Unmarshal([]byte(`{
			"title": "T",
			"content_dump": [["text", "dumped", "1.0"]],
			"content_text": "dumped"
		}`), &n))
		assert.Equal(t, "dumped", n.Content.PlainText())
	})

	t.Run("qt html dialect", func(t *testing.T) {
		var n Note
		require.NoError(t, json.Unmarshal([]byte(`{
			"title": "T",
			"content_html": "<p>from <b>qt</b></p>",
			"content_text": "from qt"
		}`), &n))
		assert.Equal(t, "from qt\n", n.Content.PlainText())
		assert.Equal(t, "from qt", n.ContentText)
	})

	t.Run("tag range dialect", func(t *testing.T) {
		var n Note
		require.NoError(t, json.Unmarshal([]byte(`{
			"title": "T",
			"content_text": "Hello",
			"content_tags": [["style_12_True_False_False", "1.0", "1.5"]]
		}`), &n))
		require.Len(t, n.Content.Ops, 3)
		assert.Equal(t, OpTagOn, n.Content.Ops[0].Kind)
	})

	t.Run("bare plain content string", func(t *testing.T) {
		var n Note
		require.NoError(t, json.Unmarshal([]byte(`{"title": "T", "content": "just text"}`), &n))
		assert.Equal(t, "just text", n.ContentText)
		assert.Equal(t, []Op{{Kind: OpText, Value: "just text"}}, n.Content.Ops)
	})

	t.Run("defaults and clamping", func(t *testing.T) {
		var n Note
		require.NoError(t, json.Unmarshal([]byte(`{"transparency": 0.05}`), &n))
		assert.Equal(t, DefaultTitle, n.Title)
		assert.Equal(t, DefaultColor, n.Color)
		assert.Equal(t, MinTransparency, n.Transparency)

		var m Note
		require.NoError(t, json.Unmarshal([]byte(`{"title": "x"}`), &m))
		assert.Equal(t, MaxTransparency, m.Transparency)
	})
}
