// Package checksum computes content digests of files and caches them for
// repeated lookups during collision checking.
package checksum

import (
	"encoding/hex"
	"fmt"
	"hash"
	"io"
	"os"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

const (
	// DefaultCacheSize is the number of digests kept in the cache.
	DefaultCacheSize = 1024

	// BlockSize is the read size used while digesting a file.
	BlockSize = 64 * 1024
)

type osProvider interface {
	Open(name string) (*os.File, error)
	Stat(name string) (os.FileInfo, error)
}

type cacheEntry struct {
	size    int64
	modTime time.Time
	sum     string
}

// Handler is the principal implementation of the checksum provider.
type Handler struct {
	algorithm Algorithm
	osOps     osProvider
	cache     *lru.Cache[string, cacheEntry]
}

// NewHandler returns a pointer to a new checksum [Handler]. A cacheSize of
// zero or less selects [DefaultCacheSize].
func NewHandler(algorithm Algorithm, cacheSize int, osOps osProvider) (*Handler, error) {
	if algorithm == "" {
		algorithm = DefaultAlgorithm
	}
	if _, err := ParseAlgorithm(string(algorithm)); err != nil {
		return nil, err
	}

	if cacheSize <= 0 {
		cacheSize = DefaultCacheSize
	}

	cache, err := lru.New[string, cacheEntry](cacheSize)
	if err != nil {
		return nil, fmt.Errorf("(checksum) failed to create cache: %w", err)
	}

	return &Handler{
		algorithm: algorithm,
		osOps:     osOps,
		cache:     cache,
	}, nil
}

// Algorithm returns the algorithm of the [Handler].
func (h *Handler) Algorithm() Algorithm {
	return h.algorithm
}

// New returns a fresh [hash.Hash] of the handler's algorithm, e.g. for
// computing a digest while streaming a copy.
func (h *Handler) New() hash.Hash {
	return h.algorithm.newHash()
}

// Sum returns the lowercase hex encoding of a finished hash.
func Sum(hsh hash.Hash) string {
	return hex.EncodeToString(hsh.Sum(nil))
}

// Digest returns the digest of the file at path. A cached digest is reused as
// long as size and modification time of the file are unchanged.
func (h *Handler) Digest(path string) (string, error) {
	info, err := h.osOps.Stat(path)
	if err != nil {
		return "", fmt.Errorf("(checksum) failed to stat: %w", err)
	}

	if entry, ok := h.cache.Get(path); ok {
		if entry.size == info.Size() && entry.modTime.Equal(info.ModTime()) {
			return entry.sum, nil
		}
	}

	return h.digest(path, info)
}

// DigestFresh always reads the file at path and refreshes the cache.
func (h *Handler) DigestFresh(path string) (string, error) {
	info, err := h.osOps.Stat(path)
	if err != nil {
		return "", fmt.Errorf("(checksum) failed to stat: %w", err)
	}

	return h.digest(path, info)
}

// Remember stores a digest that was computed elsewhere for the file at path.
func (h *Handler) Remember(path string, info os.FileInfo, sum string) {
	h.cache.Add(path, cacheEntry{size: info.Size(), modTime: info.ModTime(), sum: sum})
}

// Forget drops any cached digest of the file at path.
func (h *Handler) Forget(path string) {
	h.cache.Remove(path)
}

func (h *Handler) digest(path string, info os.FileInfo) (string, error) {
	if !info.Mode().IsRegular() {
		return "", fmt.Errorf("(checksum) %w: %s", ErrNotRegularFile, path)
	}

	f, err := h.osOps.Open(path)
	if err != nil {
		return "", fmt.Errorf("(checksum) failed to open: %w", err)
	}
	defer f.Close()

	hsh := h.New()
	buf := make([]byte, BlockSize)

	if _, err := io.CopyBuffer(hsh, f, buf); err != nil {
		return "", fmt.Errorf("(checksum) failed to read: %w", err)
	}

	sum := Sum(hsh)
	h.Remember(path, info, sum)

	return sum, nil
}
