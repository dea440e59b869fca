package filesystem

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// DiskStats holds disk usage information. It is meant to be passed by value.
type DiskStats struct {
	TotalSize uint64
	FreeSpace uint64
}

// GetDiskUsage returns the [DiskStats] of the filesystem that path is (or
// would be) located on.
func (h *Handler) GetDiskUsage(path string) (DiskStats, error) {
	existing, err := h.existingAncestor(path)
	if err != nil {
		return DiskStats{}, fmt.Errorf("(fs-diskstats) %w", err)
	}

	var stat unix.Statfs_t
	if err := h.unixOps.Statfs(existing, &stat); err != nil {
		return DiskStats{}, fmt.Errorf("(fs-diskstats) failed to statfs: %w", err)
	}

	return DiskStats{
		TotalSize: stat.Blocks * handleSize(int64(stat.Bsize)), //nolint:unconvert
		FreeSpace: stat.Bavail * handleSize(int64(stat.Bsize)), //nolint:unconvert
	}, nil
}

// HasEnoughFreeSpace checks if the filesystem of path can take a file of
// fileSize bytes.
func (h *Handler) HasEnoughFreeSpace(path string, fileSize int64) (bool, error) {
	if fileSize < 0 {
		return false, fmt.Errorf("(fs-diskstats-efree) %w", ErrInvalidFileSize)
	}

	stats, err := h.GetDiskUsage(path)
	if err != nil {
		return false, fmt.Errorf("(fs-diskstats-efree) failed to get usage: %w", err)
	}

	return stats.FreeSpace >= uint64(fileSize), nil
}

func handleSize(size int64) uint64 {
	if size < 0 {
		return 0
	}

	return uint64(size)
}
