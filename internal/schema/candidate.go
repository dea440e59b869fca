package schema

import (
	"fmt"
	"path/filepath"
	"strings"
)

// DefaultIncrementPadding is the zero-padded width of a collision suffix.
const DefaultIncrementPadding = 3

// DestinationCandidate is the working destination identity of one file. It is
// created fresh for every file the engine processes and never reused.
type DestinationCandidate struct {
	Root      string
	Folder    string
	Prefix    string
	BaseName  string
	Increment int
	Extension string
	Padding   int
}

// Filename returns the filename as "[prefix_]base[_NNN][.ext]".
func (c *DestinationCandidate) Filename() string {
	var b strings.Builder

	if c.Prefix != "" {
		b.WriteString(c.Prefix)
		b.WriteString("_")
	}

	b.WriteString(c.BaseName)

	if c.Increment > 0 {
		padding := c.Padding
		if padding <= 0 {
			padding = DefaultIncrementPadding
		}
		fmt.Fprintf(&b, "_%0*d", padding, c.Increment)
	}

	if c.Extension != "" {
		b.WriteString(".")
		b.WriteString(c.Extension)
	}

	return b.String()
}

// Directory returns the absolute destination directory (root plus folder).
func (c *DestinationCandidate) Directory() string {
	return filepath.Join(c.Root, c.Folder)
}

// FullPath returns the complete destination path of the candidate.
func (c *DestinationCandidate) FullPath() string {
	return filepath.Join(c.Root, c.Folder, c.Filename())
}

// Bump advances the collision counter by one.
func (c *DestinationCandidate) Bump() {
	c.Increment++
}
