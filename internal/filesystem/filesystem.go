// Package filesystem implements the filesystem queries and adjustments the
// transfer needs beyond plain file I/O.
package filesystem

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"golang.org/x/sys/unix"
)

type osProvider interface {
	Stat(name string) (os.FileInfo, error)
}

type unixProvider interface {
	Statfs(path string, buf *unix.Statfs_t) error
	Stat(path string, stat *unix.Stat_t) error
	UtimesNano(path string, times []unix.Timespec) error
}

// Handler is the principal implementation for the filesystem functions.
type Handler struct {
	osOps   osProvider
	unixOps unixProvider
}

// NewHandler returns a pointer to a new filesystem [Handler].
func NewHandler(osOps osProvider, unixOps unixProvider) *Handler {
	return &Handler{
		osOps:   osOps,
		unixOps: unixOps,
	}
}

// existingAncestor returns path or its nearest parent that exists. A
// destination folder is usually created only right before the copy, but the
// filesystem it will live on can be examined before that.
func (h *Handler) existingAncestor(path string) (string, error) {
	current := filepath.Clean(path)

	for {
		_, err := h.osOps.Stat(current)
		if err == nil {
			return current, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("(fs-ancestor) failed to stat: %w", err)
		}

		parent := filepath.Dir(current)
		if parent == current {
			return "", fmt.Errorf("(fs-ancestor) %w: %s", ErrNoExistingAncestor, path)
		}
		current = parent
	}
}
