package notes

import (
	"fmt"
	"strconv"
	"strings"
)

// DocumentVersion is the schema version written for rich-text content.
// Legacy files carry no version marker at all; see legacy.go for how
// the old dialects are detected and migrated.
const DocumentVersion = 1

// OpKind identifies one replayable operation of a rich-text document.
type OpKind string

const (
	OpText   OpKind = "text"   // Value holds literal text
	OpTagOn  OpKind = "tagon"  // Value holds a style tag name
	OpTagOff OpKind = "tagoff" // Value holds a style tag name
	OpImage  OpKind = "image"  // Value holds an image file path
)

// Op is one operation of a document. Ops are replayed in order against
// an empty buffer, so no explicit positions are stored: a tagon opens a
// style run at the current insertion point and the matching tagoff
// closes it.
type Op struct {
	Kind  OpKind `json:"op"`
	Value string `json:"value"`
}

// Document is the canonical serialized form of an editable rich-text
// buffer: styled text runs interleaved with inline image references.
type Document struct {
	Version int  `json:"version"`
	Ops     []Op `json:"ops"`
}

// NewDocument returns an empty v1 document.
func NewDocument() *Document {
	return &Document{Version: DocumentVersion}
}

// PlainDocument wraps plain text in a single unstyled text op.
func PlainDocument(text string) *Document {
	d := NewDocument()
	if text != "" {
		d.Ops = append(d.Ops, Op{Kind: OpText, Value: text})
	}
	return d
}

// PlainText is the unstyled projection of the document, used for search
// and for the list views. Images contribute nothing.
func (d *Document) PlainText() string {
	if d == nil {
		return ""
	}
	var b strings.Builder
	for _, op := range d.Ops {
		if op.Kind == OpText {
			b.WriteString(op.Value)
		}
	}
	return b.String()
}

// IsEmpty reports whether the document holds no text and no images.
func (d *Document) IsEmpty() bool {
	if d == nil {
		return true
	}
	for _, op := range d.Ops {
		if op.Kind == OpImage {
			return false
		}
		if op.Kind == OpText && strings.TrimSpace(op.Value) != "" {
			return false
		}
	}
	return true
}

// Font size bounds for the formatting controls.
const (
	MinFontSize     = 8
	MaxFontSize     = 32
	DefaultFontSize = 10
)

// ClampFontSize bounds a requested size to [MinFontSize, MaxFontSize].
func ClampFontSize(size int) int {
	if size < MinFontSize {
		return MinFontSize
	}
	if size > MaxFontSize {
		return MaxFontSize
	}
	return size
}

const styleTagPrefix = "style_"

// StyleTag is one deduplicated combination of text formatting. Two runs
// with the same combination share one tag name.
type StyleTag struct {
	Size      int
	Bold      bool
	Italic    bool
	Underline bool
}

// DefaultStyle is the unstyled combination at the default size.
func DefaultStyle() StyleTag {
	return StyleTag{Size: DefaultFontSize}
}

// IsDefault reports whether the tag adds nothing over unstyled text.
func (t StyleTag) IsDefault() bool {
	return t == DefaultStyle()
}

// Name returns the serialized tag name, e.g. "style_12_true_false_false".
func (t StyleTag) Name() string {
	return fmt.Sprintf("%s%d_%t_%t_%t", styleTagPrefix, t.Size, t.Bold, t.Italic, t.Underline)
}

// IsStyleTagName reports whether a tag name belongs to the style
// namespace. Foreign tag names, including editor-internal ones like
// "sel", are dropped during decode.
func IsStyleTagName(name string) bool {
	return strings.HasPrefix(name, styleTagPrefix)
}

// ParseStyleTag parses a style tag name. The booleans accept both the
// lowercase spelling written by this version and the "True"/"False"
// spelling found in legacy files.
func ParseStyleTag(name string) (StyleTag, error) {
	if !IsStyleTagName(name) {
		return StyleTag{}, fmt.Errorf("not a style tag: %q", name)
	}
	parts := strings.Split(name, "_")
	if len(parts) != 5 {
		return StyleTag{}, fmt.Errorf("malformed style tag: %q", name)
	}
	size, err := strconv.Atoi(parts[1])
	if err != nil {
		return StyleTag{}, fmt.Errorf("malformed style tag size in %q: %w", name, err)
	}
	tag := StyleTag{Size: size}
	for i, dst := range []*bool{&tag.Bold, &tag.Italic, &tag.Underline} {
		v, err := parseLegacyBool(parts[2+i])
		if err != nil {
			return StyleTag{}, fmt.Errorf("malformed style tag flag in %q: %w", name, err)
		}
		*dst = v
	}
	return tag, nil
}

func parseLegacyBool(s string) (bool, error) {
	switch {
	case strings.EqualFold(s, "true"):
		return true, nil
	case strings.EqualFold(s, "false"):
		return false, nil
	}
	return false, fmt.Errorf("bad boolean %q", s)
}
