package transfer

import (
	"errors"
	"fmt"
	"hash"
	"io"
	"io/fs"
	"os"

	"github.com/desertwitch/offload/internal/checksum"
	"github.com/desertwitch/offload/internal/schema"
)

// copyFile copies rec to dstPath through a temporary file, which is only
// renamed into place once it was fully written and synced. The digest of the
// source is computed from the very bytes that were written and returned.
func (e *Engine) copyFile(rec *schema.FileRecord, dstPath string) (string, error) {
	var transferComplete bool

	srcFile, err := e.osOps.Open(rec.SourcePath)
	if err != nil {
		return "", fmt.Errorf("failed to open source file: %w", err)
	}
	defer srcFile.Close()

	tmpPath := dstPath + TempSuffix
	defer func() {
		if !transferComplete {
			e.osOps.Remove(tmpPath) //nolint:errcheck
		}
	}()

	dstFile, err := e.osOps.OpenFile(tmpPath, os.O_CREATE|os.O_WRONLY|os.O_EXCL, 0o644) //nolint:mnd
	if err != nil {
		return "", fmt.Errorf("failed to open destination file %s: %w", tmpPath, err)
	}
	defer dstFile.Close()

	srcHasher := e.checksums.New()

	if rec.Size >= e.config.ChunkThreshold {
		err = copyChunked(dstFile, srcFile, srcHasher, e.config.ChunkSize)
	} else {
		err = copyWhole(dstFile, srcFile, srcHasher)
	}
	if err != nil {
		return "", err
	}

	if err := dstFile.Sync(); err != nil {
		return "", fmt.Errorf("failed to sync destination fs: %w", err)
	}

	if err := dstFile.Close(); err != nil {
		return "", fmt.Errorf("failed to close destination file: %w", err)
	}

	if _, err := e.osOps.Stat(dstPath); err == nil {
		return "", ErrRenameExists
	} else if !errors.Is(err, fs.ErrNotExist) {
		return "", fmt.Errorf("failed to check rename destination existence: %w", err)
	}

	if err := e.osOps.Rename(tmpPath, dstPath); err != nil {
		return "", fmt.Errorf("failed to rename temporary file to destination file: %w", err)
	}

	transferComplete = true

	return checksum.Sum(srcHasher), nil
}

// copyWhole reads the whole source into memory and writes it at once.
func copyWhole(dst io.Writer, src io.Reader, hsh hash.Hash) error {
	data, err := io.ReadAll(src)
	if err != nil {
		return fmt.Errorf("failed to read source file: %w", err)
	}

	_, _ = hsh.Write(data)

	if _, err := dst.Write(data); err != nil {
		return fmt.Errorf("failed to write destination file: %w", err)
	}

	return nil
}

// copyChunked streams the source in chunks of chunkSize, bounding memory use
// for large files.
func copyChunked(dst io.Writer, src io.Reader, hsh hash.Hash, chunkSize int) error {
	buf := make([]byte, chunkSize)

	for {
		n, readErr := src.Read(buf)
		if n > 0 {
			_, _ = hsh.Write(buf[:n])

			if _, err := dst.Write(buf[:n]); err != nil {
				return fmt.Errorf("failed to write destination file: %w", err)
			}
		}

		if errors.Is(readErr, io.EOF) {
			return nil
		}
		if readErr != nil {
			return fmt.Errorf("failed to read source file: %w", readErr)
		}
	}
}
