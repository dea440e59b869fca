package filesystem

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// CopyTimes applies the access and modification times of src to dst, so a
// later offload of the same file hits the size and time comparison.
func (h *Handler) CopyTimes(src string, dst string) error {
	var stat unix.Stat_t
	if err := h.unixOps.Stat(src, &stat); err != nil {
		return fmt.Errorf("(fs-times) failed to stat: %w", err)
	}

	ts := []unix.Timespec{stat.Atim, stat.Mtim}
	if err := h.unixOps.UtimesNano(dst, ts); err != nil {
		return fmt.Errorf("(fs-times) failed to set timestamp: %w", err)
	}

	return nil
}
