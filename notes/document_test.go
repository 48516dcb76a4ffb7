package notes

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStyleTagRoundTrip(t *testing.T) {
	for _, tag := range []StyleTag{
		{Size: 10},
		{Size: 12, Bold: true},
		{Size: 8, Italic: true},
		{Size: 32, Underline: true},
		{Size: 14, Bold: true, Italic: true, Underline: true},
	} {
		parsed, err := ParseStyleTag(tag.Name())
		require.NoError(t, err, tag.Name())
		assert.Equal(t, tag, parsed)
	}
}

func TestParseStyleTagLegacySpelling(t *testing.T) {
	tag, err := ParseStyleTag("style_14_True_False_True")
	require.NoError(t, err)
	assert.Equal(t, StyleTag{Size: 14, Bold: true, Underline: true}, tag)
}

func TestParseStyleTagMalformed(t *testing.T) {
	for _, name := range []string{
		"style_",
		"style_12_yes_no_maybe",
		"style_abc_true_false_false",
		"style_12_true_false",
		"style_12_true_false_false_extra",
		"sel",
	} {
		_, err := ParseStyleTag(name)
		assert.Error(t, err, name)
	}
}

func TestDocumentJSONRoundTrip(t *testing.T) {
	doc := &Document{
		Version: DocumentVersion,
		Ops: []Op{
			{Kind: OpTagOn, Value: "style_12_true_false_false"},
			{Kind: OpText, Value: "Hello"},
			{Kind: OpTagOff, Value: "style_12_true_false_false"},
			{Kind: OpText, Value: " world\n"},
			{Kind: OpImage, Value: "/tmp/img.png"},
		},
	}

	data, err := json.Marshal(doc)
	require.NoError(t, err)

	var back Document
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, *doc, back)
}

func TestPlainText(t *testing.T) {
	doc := &Document{Version: 1, Ops: []Op{
		{Kind: OpText, Value: "a"},
		{Kind: OpTagOn, Value: "style_10_true_false_false"},
		{Kind: OpText, Value: "b"},
		{Kind: OpTagOff, Value: "style_10_true_false_false"},
		{Kind: OpImage, Value: "/nowhere.png"},
		{Kind: OpText, Value: "c"},
	}}
	assert.Equal(t, "abc", doc.PlainText())
	assert.Equal(t, "", (*Document)(nil).PlainText())
}

func TestIsEmpty(t *testing.T) {
	assert.True(t, NewDocument().IsEmpty())
	assert.True(t, PlainDocument("").IsEmpty())
	assert.True(t, (&Document{Version: 1, Ops: []Op{{Kind: OpText, Value: " \n"}}}).IsEmpty())
	assert.False(t, PlainDocument("x").IsEmpty())
	assert.False(t, (&Document{Version: 1, Ops: []Op{{Kind: OpImage, Value: "p.png"}}}).IsEmpty())
}

func TestClampFontSize(t *testing.T) {
	assert.Equal(t, MinFontSize, ClampFontSize(1))
	assert.Equal(t, 12, ClampFontSize(12))
	assert.Equal(t, MaxFontSize, ClampFontSize(99))
}
