package notes

import (
	"os"
	"path/filepath"
)

const (
	DataDirName    = ".sticky_notes"
	DevDataDirName = ".sticky_notes-dev"

	notesFileName     = "notes.json"
	stateFileName     = "state.json"
	positionsFileName = "positions.json"
	imagesDirName     = "images"
)

// Paths resolves the on-disk layout of one data directory: the three
// JSON documents plus the pasted-image assets directory.
type Paths struct {
	Dir string
}

// DefaultDataDir returns the per-user data directory, or the development
// variant so a dev build never touches real notes.
func DefaultDataDir(dev bool) string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	name := DataDirName
	if dev {
		name = DevDataDirName
	}
	return filepath.Join(home, name)
}

// NewPaths expands a leading "~/" the same way the data-file constants
// of earlier releases were written.
func NewPaths(dir string) Paths {
	if len(dir) > 1 && dir[0] == '~' {
		home, err := os.UserHomeDir()
		if err == nil {
			dir = filepath.Join(home, dir[2:])
		}
	}
	return Paths{Dir: dir}
}

func (p Paths) NotesFile() string     { return filepath.Join(p.Dir, notesFileName) }
func (p Paths) StateFile() string     { return filepath.Join(p.Dir, stateFileName) }
func (p Paths) PositionsFile() string { return filepath.Join(p.Dir, positionsFileName) }
func (p Paths) ImagesDir() string     { return filepath.Join(p.Dir, imagesDirName) }

// Ensure creates the data directory and the images subdirectory.
func (p Paths) Ensure() error {
	if err := os.MkdirAll(p.Dir, 0755); err != nil {
		return err
	}
	return os.MkdirAll(p.ImagesDir(), 0755)
}
