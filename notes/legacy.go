package notes

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/net/html"
)

// decodeDump migrates the tk op-dump dialect: a JSON array of
// [kind, value, index] triples produced by dumping the whole editor
// buffer. The triples are ordered, so sequential replay reproduces the
// buffer and the index column can be ignored. Unknown kinds (marks,
// embedded windows) are dropped, and so are editor-internal tags like
// "sel": the dump applied tags positionally, but replay is sequential,
// so a stray tagoff in the middle of a style run must not end it.
func decodeDump(raw json.RawMessage) (*Document, error) {
	var triples [][]json.RawMessage
	if err := json.Unmarshal(raw, &triples); err != nil {
		return nil, fmt.Errorf("content dump: %w", err)
	}
	doc := NewDocument()
	for _, triple := range triples {
		if len(triple) < 2 {
			continue
		}
		var kind, value string
		if err := json.Unmarshal(triple[0], &kind); err != nil {
			continue
		}
		if err := json.Unmarshal(triple[1], &value); err != nil {
			continue
		}
		switch OpKind(kind) {
		case OpText:
			doc.Ops = append(doc.Ops, Op{Kind: OpText, Value: value})
		case OpTagOn, OpTagOff:
			if !IsStyleTagName(value) {
				continue
			}
			if _, err := ParseStyleTag(value); err != nil {
				// Malformed style tag: the run stays unstyled.
				continue
			}
			doc.Ops = append(doc.Ops, Op{Kind: OpKind(kind), Value: value})
		case OpImage:
			doc.Ops = append(doc.Ops, Op{Kind: OpImage, Value: value})
		}
	}
	return doc, nil
}

// decodeTagRanges migrates the oldest styled dialect: full plain text
// plus [name, start, end] triples with tk "line.char" indices, applied
// after the text was inserted.
func decodeTagRanges(text string, raw json.RawMessage) (*Document, error) {
	var triples [][3]string
	if err := json.Unmarshal(raw, &triples); err != nil {
		return nil, fmt.Errorf("content tags: %w", err)
	}

	type boundary struct {
		offset int
		kind   OpKind
		tag    string
	}
	var bounds []boundary
	runes := []rune(text)
	for _, t := range triples {
		name := t[0]
		if !IsStyleTagName(name) {
			continue
		}
		if _, err := ParseStyleTag(name); err != nil {
			continue
		}
		start, err := tkIndexToOffset(runes, t[1])
		if err != nil {
			continue
		}
		end, err := tkIndexToOffset(runes, t[2])
		if err != nil || end <= start {
			continue
		}
		bounds = append(bounds, boundary{start, OpTagOn, name}, boundary{end, OpTagOff, name})
	}

	// Stable-sort by offset with closes before opens, so adjacent runs
	// do not nest.
	for i := 1; i < len(bounds); i++ {
		for j := i; j > 0; j-- {
			a, b := bounds[j-1], bounds[j]
			if b.offset < a.offset || (b.offset == a.offset && b.kind == OpTagOff && a.kind == OpTagOn) {
				bounds[j-1], bounds[j] = b, a
			} else {
				break
			}
		}
	}

	doc := NewDocument()
	cur := 0
	for _, b := range bounds {
		if b.offset > cur {
			doc.Ops = append(doc.Ops, Op{Kind: OpText, Value: string(runes[cur:b.offset])})
			cur = b.offset
		}
		doc.Ops = append(doc.Ops, Op{Kind: b.kind, Value: b.tag})
	}
	if cur < len(runes) {
		doc.Ops = append(doc.Ops, Op{Kind: OpText, Value: string(runes[cur:])})
	}
	return doc, nil
}

// tkIndexToOffset converts a tk "line.char" index (lines 1-based,
// chars 0-based) to a rune offset into the text.
func tkIndexToOffset(runes []rune, index string) (int, error) {
	lineStr, charStr, ok := strings.Cut(index, ".")
	if !ok {
		return 0, fmt.Errorf("bad index %q", index)
	}
	line, err := strconv.Atoi(lineStr)
	if err != nil || line < 1 {
		return 0, fmt.Errorf("bad index line %q", index)
	}
	char, err := strconv.Atoi(charStr)
	if err != nil || char < 0 {
		return 0, fmt.Errorf("bad index column %q", index)
	}
	offset := 0
	for line > 1 {
		if offset >= len(runes) {
			break
		}
		if runes[offset] == '\n' {
			line--
		}
		offset++
	}
	offset += char
	if offset > len(runes) {
		offset = len(runes)
	}
	return offset, nil
}

// decodeHTML migrates the HTML dialect the Qt-based variant saved.
// Only the formatting this app can represent is recovered: bold,
// italic, underline, font size, inline images and paragraph breaks.
// Anything else degrades to plain text, never to a load failure.
func decodeHTML(markup string) *Document {
	doc := NewDocument()
	tz := html.NewTokenizer(strings.NewReader(markup))

	type frame struct{ style StyleTag }
	stack := []frame{{style: DefaultStyle()}}
	skipDepth := 0

	appendText := func(text string, style StyleTag) {
		if text == "" {
			return
		}
		if style.IsDefault() {
			doc.Ops = append(doc.Ops, Op{Kind: OpText, Value: text})
			return
		}
		name := style.Name()
		doc.Ops = append(doc.Ops,
			Op{Kind: OpTagOn, Value: name},
			Op{Kind: OpText, Value: text},
			Op{Kind: OpTagOff, Value: name},
		)
	}

	for {
		tt := tz.Next()
		if tt == html.ErrorToken {
			break
		}
		tok := tz.Token()
		switch tt {
		case html.StartTagToken, html.SelfClosingTagToken:
			switch tok.Data {
			case "head", "style", "script", "title":
				if tt == html.StartTagToken {
					skipDepth++
				}
				continue
			case "br":
				appendText("\n", DefaultStyle())
				continue
			case "img":
				for _, a := range tok.Attr {
					if a.Key == "src" && a.Val != "" {
						doc.Ops = append(doc.Ops, Op{Kind: OpImage, Value: a.Val})
					}
				}
				continue
			}
			if tt == html.SelfClosingTagToken {
				continue
			}
			style := stack[len(stack)-1].style
			switch tok.Data {
			case "b", "strong":
				style.Bold = true
			case "i", "em":
				style.Italic = true
			case "u":
				style.Underline = true
			}
			applyInlineStyle(&style, tok.Attr)
			stack = append(stack, frame{style: style})
		case html.EndTagToken:
			switch tok.Data {
			case "head", "style", "script", "title":
				if skipDepth > 0 {
					skipDepth--
				}
				continue
			case "p", "div", "li":
				appendText("\n", DefaultStyle())
			}
			if len(stack) > 1 {
				stack = stack[:len(stack)-1]
			}
		case html.TextToken:
			if skipDepth > 0 {
				continue
			}
			text := tok.Data
			if strings.TrimSpace(text) == "" {
				continue
			}
			appendText(text, stack[len(stack)-1].style)
		}
	}
	return doc
}

// applyInlineStyle folds a style="" attribute into the current
// combination. Qt writes font-size in pt and weight as a number.
func applyInlineStyle(style *StyleTag, attrs []html.Attribute) {
	for _, a := range attrs {
		if a.Key != "style" {
			continue
		}
		for _, decl := range strings.Split(a.Val, ";") {
			prop, val, ok := strings.Cut(decl, ":")
			if !ok {
				continue
			}
			prop = strings.TrimSpace(strings.ToLower(prop))
			val = strings.TrimSpace(strings.ToLower(val))
			switch prop {
			case "font-size":
				val = strings.TrimSuffix(strings.TrimSuffix(val, "pt"), "px")
				if size, err := strconv.Atoi(strings.TrimSpace(val)); err == nil {
					style.Size = ClampFontSize(size)
				}
			case "font-weight":
				if val == "bold" {
					style.Bold = true
				} else if weight, err := strconv.Atoi(val); err == nil && weight >= 600 {
					style.Bold = true
				}
			case "font-style":
				if val == "italic" {
					style.Italic = true
				}
			case "text-decoration":
				if strings.Contains(val, "underline") {
					style.Underline = true
				}
			}
		}
	}
}
