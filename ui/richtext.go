package ui

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/gotk3/gotk3/gdk"
	"github.com/gotk3/gotk3/gtk"
	"github.com/gotk3/gotk3/pango"

	"sticky-notes/notes"
)

// objectReplacement is what gtk_text_iter_get_char reports for an
// embedded pixbuf.
const objectReplacement = '￼'

// richText binds a note document to a GTK text buffer. Style tags are
// created lazily and registered by name, so every position in the
// buffer carries at most one of them. Embedded images are tracked with
// left-gravity marks so they can be mapped back to their files when
// the buffer is serialized.
type richText struct {
	log    *slog.Logger
	buf    *gtk.TextBuffer
	noteID string
	paths  notes.Paths

	tags   map[string]*gtk.TextTag
	styles map[string]notes.StyleTag
	images map[string]string // mark name -> image path
	imgSeq int
}

func newRichText(view *gtk.TextView, noteID string, paths notes.Paths, log *slog.Logger) (*richText, error) {
	buf, err := view.GetBuffer()
	if err != nil {
		return nil, fmt.Errorf("text buffer: %w", err)
	}
	return &richText{
		log:    log,
		buf:    buf,
		noteID: noteID,
		paths:  paths,
		tags:   make(map[string]*gtk.TextTag),
		styles: make(map[string]notes.StyleTag),
		images: make(map[string]string),
	}, nil
}

// ensureTag returns the buffer tag for a style, creating it on first
// use. The default style is represented by no tag at all.
func (r *richText) ensureTag(st notes.StyleTag) (*gtk.TextTag, error) {
	name := st.Name()
	if tag, ok := r.tags[name]; ok {
		return tag, nil
	}
	tag, err := gtk.TextTagNew(name)
	if err != nil {
		return nil, fmt.Errorf("create tag %s: %w", name, err)
	}
	tag.SetProperty("size-points", float64(st.Size))
	if st.Bold {
		tag.SetProperty("weight", int(pango.WEIGHT_BOLD))
	}
	if st.Italic {
		tag.SetProperty("style", int(pango.STYLE_ITALIC))
	}
	if st.Underline {
		tag.SetProperty("underline", int(pango.UNDERLINE_SINGLE))
	}
	table, err := r.buf.GetTagTable()
	if err != nil {
		return nil, fmt.Errorf("tag table: %w", err)
	}
	table.Add(tag)
	r.tags[name] = tag
	r.styles[name] = st
	return tag, nil
}

// SetDocument replaces the buffer contents with the document's ops.
func (r *richText) SetDocument(doc *notes.Document) {
	r.buf.SetText("")
	r.images = make(map[string]string)
	if doc == nil {
		return
	}

	var cur *notes.StyleTag
	for _, op := range doc.Ops {
		switch op.Kind {
		case notes.OpTagOn:
			st, err := notes.ParseStyleTag(op.Value)
			if err != nil {
				continue
			}
			if st.IsDefault() {
				cur = nil
			} else {
				cur = &st
			}
		case notes.OpTagOff:
			// Documents migrated from older files can carry editor-internal
			// tags like "sel"; only style tags end a run.
			if !notes.IsStyleTagName(op.Value) {
				continue
			}
			cur = nil
		case notes.OpText:
			r.insertStyled(op.Value, cur)
		case notes.OpImage:
			r.insertImage(op.Value)
		}
	}
}

func (r *richText) insertStyled(text string, st *notes.StyleTag) {
	start := r.buf.GetEndIter().GetOffset()
	r.buf.Insert(r.buf.GetEndIter(), text)
	if st == nil {
		return
	}
	tag, err := r.ensureTag(*st)
	if err != nil {
		r.log.Warn("style tag dropped", "error", err)
		return
	}
	r.buf.ApplyTag(tag, r.buf.GetIterAtOffset(start), r.buf.GetEndIter())
}

// insertImage loads an image file into the buffer. A relative value is
// resolved against the images directory; a missing file becomes a text
// placeholder so the note keeps a record of what was there.
func (r *richText) insertImage(path string) {
	resolved := path
	if !filepath.IsAbs(resolved) {
		resolved = filepath.Join(r.paths.ImagesDir(), resolved)
	}
	if !notes.ImageExists(resolved) {
		r.buf.Insert(r.buf.GetEndIter(), notes.MissingImagePlaceholder(path))
		return
	}
	pixbuf, err := gdk.PixbufNewFromFile(resolved)
	if err != nil {
		r.buf.Insert(r.buf.GetEndIter(), notes.MissingImagePlaceholder(path))
		return
	}
	iter := r.buf.GetEndIter()
	r.imgSeq++
	markName := fmt.Sprintf("img-%d", r.imgSeq)
	r.buf.CreateMark(markName, iter, true)
	r.buf.InsertPixbuf(iter, pixbuf)
	r.images[markName] = path
}

// pruneImages drops tracking entries whose mark no longer sits on an
// image, which happens when the user deletes an embedded image from
// the buffer. A stale entry would otherwise compete for the offset of
// a surviving image.
func (r *richText) pruneImages() {
	for markName := range r.images {
		mark := r.buf.GetMark(markName)
		if mark == nil {
			delete(r.images, markName)
			continue
		}
		if r.buf.GetIterAtMark(mark).GetChar() != objectReplacement {
			r.buf.DeleteMark(mark)
			delete(r.images, markName)
		}
	}
}

// imageAt resolves the mark closest to a buffer offset. Marks can
// drift one position when text is typed exactly at an image boundary,
// so nearest-match rather than exact-match.
func (r *richText) imageAt(offset int) (string, bool) {
	offsets := make(map[string]int, len(r.images))
	for markName := range r.images {
		mark := r.buf.GetMark(markName)
		if mark == nil {
			continue
		}
		offsets[markName] = r.buf.GetIterAtMark(mark).GetOffset()
	}
	name, ok := nearestMark(offsets, offset)
	if !ok {
		return "", false
	}
	return r.images[name], true
}

// nearestMark picks the mark whose offset is closest to the target,
// breaking distance ties by name so the result is deterministic.
func nearestMark(offsets map[string]int, target int) (string, bool) {
	best := ""
	bestDist := -1
	for name, off := range offsets {
		d := absInt(off - target)
		if bestDist < 0 || d < bestDist || (d == bestDist && name < best) {
			best = name
			bestDist = d
		}
	}
	return best, bestDist >= 0
}

// styleAt reports which registered style covers the given iter, or the
// default style when none does.
func (r *richText) styleAt(iter *gtk.TextIter) notes.StyleTag {
	for name, tag := range r.tags {
		if iter.HasTag(tag) {
			return r.styles[name]
		}
	}
	return notes.DefaultStyle()
}

// Document serializes the buffer back into op form. Runs of identical
// style collapse into a single tagon/text/tagoff group; default-styled
// text is emitted bare.
func (r *richText) Document() *notes.Document {
	doc := notes.NewDocument()
	r.pruneImages()
	end := r.buf.GetEndIter().GetOffset()

	cur := notes.DefaultStyle()
	curActive := false
	var run []rune

	flush := func() {
		if len(run) == 0 {
			return
		}
		doc.Ops = append(doc.Ops, notes.Op{Kind: notes.OpText, Value: string(run)})
		run = run[:0]
	}
	closeTag := func() {
		flush()
		if curActive {
			doc.Ops = append(doc.Ops, notes.Op{Kind: notes.OpTagOff, Value: cur.Name()})
			curActive = false
		}
	}

	for off := 0; off < end; off++ {
		iter := r.buf.GetIterAtOffset(off)
		st := r.styleAt(iter)
		if st != cur {
			closeTag()
			cur = st
			if !cur.IsDefault() {
				doc.Ops = append(doc.Ops, notes.Op{Kind: notes.OpTagOn, Value: cur.Name()})
				curActive = true
			}
		}

		ch := iter.GetChar()
		if ch == objectReplacement {
			flush()
			if path, ok := r.imageAt(off); ok {
				doc.Ops = append(doc.Ops, notes.Op{Kind: notes.OpImage, Value: path})
			}
			continue
		}
		run = append(run, ch)
	}
	closeTag()
	return doc
}

// restyle rewrites the style of every position in [start, end) through
// the transform function.
func (r *richText) restyle(start, end int, transform func(notes.StyleTag) notes.StyleTag) {
	for off := start; off < end; off++ {
		iter := r.buf.GetIterAtOffset(off)
		old := r.styleAt(iter)
		next := transform(old)
		if next == old {
			continue
		}
		next.Size = notes.ClampFontSize(next.Size)

		from := r.buf.GetIterAtOffset(off)
		to := r.buf.GetIterAtOffset(off + 1)
		if !old.IsDefault() {
			if tag, ok := r.tags[old.Name()]; ok {
				r.buf.RemoveTag(tag, from, to)
			}
		}
		if !next.IsDefault() {
			tag, err := r.ensureTag(next)
			if err != nil {
				continue
			}
			r.buf.ApplyTag(tag, from, to)
		}
	}
}

// selection returns the selected offset range, or ok=false when
// nothing is selected.
func (r *richText) selection() (int, int, bool) {
	start, end, ok := r.buf.GetSelectionBounds()
	if !ok {
		return 0, 0, false
	}
	return start.GetOffset(), end.GetOffset(), true
}

// ToggleBold flips bold over the selection. The first selected
// position decides the direction, so a mixed selection becomes
// uniform.
func (r *richText) ToggleBold() {
	r.toggle(func(st *notes.StyleTag, on bool) { st.Bold = on },
		func(st notes.StyleTag) bool { return st.Bold })
}

func (r *richText) ToggleItalic() {
	r.toggle(func(st *notes.StyleTag, on bool) { st.Italic = on },
		func(st notes.StyleTag) bool { return st.Italic })
}

func (r *richText) ToggleUnderline() {
	r.toggle(func(st *notes.StyleTag, on bool) { st.Underline = on },
		func(st notes.StyleTag) bool { return st.Underline })
}

func (r *richText) toggle(set func(*notes.StyleTag, bool), get func(notes.StyleTag) bool) {
	start, end, ok := r.selection()
	if !ok {
		return
	}
	target := !get(r.styleAt(r.buf.GetIterAtOffset(start)))
	r.restyle(start, end, func(st notes.StyleTag) notes.StyleTag {
		set(&st, target)
		return st
	})
}

// BumpFontSize shifts the font size of the selection by delta points,
// clamped to the allowed range.
func (r *richText) BumpFontSize(delta int) {
	start, end, ok := r.selection()
	if !ok {
		return
	}
	r.restyle(start, end, func(st notes.StyleTag) notes.StyleTag {
		st.Size = notes.ClampFontSize(st.Size + delta)
		return st
	})
}

// PasteImage pulls an image off the clipboard, stores it under the
// images directory and inserts it at the cursor. Reports whether an
// image was actually available.
func (r *richText) PasteImage() bool {
	clip, err := gtk.ClipboardGet(gdk.SELECTION_CLIPBOARD)
	if err != nil || !clip.WaitIsImageAvailable() {
		return false
	}
	pixbuf, err := clip.WaitForImage()
	if err != nil || pixbuf == nil {
		return false
	}

	if err := os.MkdirAll(r.paths.ImagesDir(), 0o755); err != nil {
		r.log.Warn("images dir", "error", err)
		return false
	}
	path := r.paths.ImageAssetPath(r.noteID, time.Now())
	if err := pixbuf.SavePNG(path, 9); err != nil {
		r.log.Warn("save pasted image", "error", err)
		return false
	}

	iter := r.buf.GetIterAtMark(r.buf.GetMark("insert"))
	r.imgSeq++
	markName := fmt.Sprintf("img-%d", r.imgSeq)
	r.buf.CreateMark(markName, iter, true)
	r.buf.InsertPixbuf(iter, pixbuf)
	r.images[markName] = path
	r.log.Debug("image pasted", "note", r.noteID, "path", path)
	return true
}
