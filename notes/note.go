package notes

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

const (
	DefaultTitle = "Title"
	DefaultColor = "#FFFF99"

	MinTransparency = 0.3
	MaxTransparency = 1.0

	maxSeedTitleLen = 30
)

// createdLayout matches the zone-less ISO-8601 form the legacy files
// were written with. Created values sort lexicographically.
const createdLayout = "2006-01-02T15:04:05.000000"

// Note is one sticky note's persisted state. Window geometry lives in
// the positions file, never here.
type Note struct {
	Title        string    `json:"title"`
	Content      *Document `json:"content,omitempty"`
	ContentText  string    `json:"content_text"`
	Color        string    `json:"color"`
	Pinned       bool      `json:"pinned"`
	Transparency float64   `json:"transparency"`
	Created      string    `json:"created"`
	IsNew        bool      `json:"is_new"`
}

// NewNote builds a note with fresh defaults. A non-empty seed becomes
// the initial content, and its first line becomes the title.
func NewNote(seed string, now time.Time) *Note {
	n := &Note{
		Title:        DefaultTitle,
		Content:      NewDocument(),
		Color:        DefaultColor,
		Transparency: MaxTransparency,
		Created:      now.Format(createdLayout),
		IsNew:        true,
	}
	if seed = strings.TrimRight(seed, "\n"); seed != "" {
		n.Title = seedTitle(seed)
		n.Content = PlainDocument(seed)
		n.ContentText = seed
	}
	return n
}

func seedTitle(seed string) string {
	first, _, _ := strings.Cut(strings.TrimSpace(seed), "\n")
	if r := []rune(first); len(r) > maxSeedTitleLen {
		return string(r[:maxSeedTitleLen]) + "..."
	}
	return first
}

// NewID derives a note ID from millisecond creation time. Collisions
// are not defended against; interactive creation is human-paced.
func NewID(now time.Time) string {
	return strconv.FormatInt(now.UnixMilli(), 10)
}

// ClampTransparency bounds window opacity to [0.3, 1.0].
func ClampTransparency(v float64) float64 {
	if v < MinTransparency {
		return MinTransparency
	}
	if v > MaxTransparency {
		return MaxTransparency
	}
	return v
}

// SetDocument replaces the content and refreshes the plain projection.
func (n *Note) SetDocument(doc *Document) {
	n.Content = doc
	n.ContentText = strings.TrimRight(doc.PlainText(), "\n")
}

// Matches reports whether the note survives a manager search. An empty
// query matches everything.
func (n *Note) Matches(query string) bool {
	if query == "" {
		return true
	}
	q := strings.ToLower(query)
	return strings.Contains(strings.ToLower(n.Title), q) ||
		strings.Contains(strings.ToLower(n.ContentText), q)
}

// noteJSON is the superset of every schema dialect ever written: the
// canonical v1 fields plus the fields of the legacy op-dump, tag-range
// and HTML dialects.
type noteJSON struct {
	Title        string          `json:"title"`
	Content      json.RawMessage `json:"content,omitempty"`
	ContentText  string          `json:"content_text,omitempty"`
	ContentDump  json.RawMessage `json:"content_dump,omitempty"`
	ContentTags  json.RawMessage `json:"content_tags,omitempty"`
	ContentHTML  string          `json:"content_html,omitempty"`
	Color        string          `json:"color,omitempty"`
	Pinned       bool            `json:"pinned"`
	Transparency *float64        `json:"transparency,omitempty"`
	Created      string          `json:"created,omitempty"`
	IsNew        bool            `json:"is_new"`
}

// UnmarshalJSON accepts every dialect and migrates it to v1. Detection
// is by field presence since the legacy files carry no version marker:
// a v1 content object wins, then the tk op dump, then Qt HTML, then
// the tag-range pair, then bare plain text.
func (n *Note) UnmarshalJSON(data []byte) error {
	var raw noteJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	n.Title = raw.Title
	if n.Title == "" {
		n.Title = DefaultTitle
	}
	n.Color = raw.Color
	if n.Color == "" {
		n.Color = DefaultColor
	}
	n.Pinned = raw.Pinned
	n.Transparency = MaxTransparency
	if raw.Transparency != nil {
		n.Transparency = ClampTransparency(*raw.Transparency)
	}
	n.Created = raw.Created
	n.IsNew = raw.IsNew

	doc, plain := migrateContent(raw)
	n.Content = doc
	if plain == "" {
		plain = strings.TrimRight(doc.PlainText(), "\n")
	}
	n.ContentText = plain
	return nil
}

func migrateContent(raw noteJSON) (*Document, string) {
	// v1: content is an object.
	if len(raw.Content) > 0 && raw.Content[0] == '{' {
		var doc Document
		if err := json.Unmarshal(raw.Content, &doc); err == nil {
			return &doc, raw.ContentText
		}
	}
	if len(raw.ContentDump) > 0 {
		if doc, err := decodeDump(raw.ContentDump); err == nil {
			return doc, raw.ContentText
		}
	}
	if raw.ContentHTML != "" {
		return decodeHTML(raw.ContentHTML), raw.ContentText
	}
	if len(raw.ContentTags) > 0 {
		if doc, err := decodeTagRanges(raw.ContentText, raw.ContentTags); err == nil {
			return doc, raw.ContentText
		}
	}
	// Oldest shape: plain text, either under content_text or content.
	text := raw.ContentText
	if text == "" && len(raw.Content) > 0 {
		_ = json.Unmarshal(raw.Content, &text)
	}
	return PlainDocument(text), text
}
