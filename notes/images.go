package notes

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// ImageAssetPath names a pasted image under the images directory:
// {note_id}_{ms}.png, referenced by absolute path from image ops.
func (p Paths) ImageAssetPath(noteID string, now time.Time) string {
	name := fmt.Sprintf("%s_%d.png", noteID, now.UnixMilli())
	return filepath.Join(p.ImagesDir(), name)
}

// ImageExists reports whether a referenced image file is present; a
// missing file decodes to an inline placeholder instead of an error.
func ImageExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// MissingImagePlaceholder is the inline text shown for a reference
// whose file has gone away.
func MissingImagePlaceholder(path string) string {
	return fmt.Sprintf("\n[Image not found: %s]\n", path)
}
