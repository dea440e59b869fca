package schema

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Digester produces a content digest for the file at a path.
type Digester interface {
	Digest(path string) (string, error)
}

// FileRecord is one discovered source file. Its filesystem facts are read
// once at discovery and only change through [FileRecord.Refresh].
type FileRecord struct {
	SourcePath   string
	RelativePath string
	Size         int64
	ModTime      time.Time
	Mode         os.FileMode

	checksum string
}

// NewFileRecord stats path (located below root) and returns a [FileRecord]
// for it. Anything but a regular file is rejected with [ErrNotRegularFile].
func NewFileRecord(root string, path string) (*FileRecord, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("(schema-record) failed to stat: %w", err)
	}

	return NewFileRecordFromInfo(root, path, info)
}

// NewFileRecordFromInfo returns a [FileRecord] built from an already obtained
// [os.FileInfo], avoiding a second stat during directory walks.
func NewFileRecordFromInfo(root string, path string, info os.FileInfo) (*FileRecord, error) {
	if !info.Mode().IsRegular() {
		return nil, fmt.Errorf("(schema-record) %w: %s", ErrNotRegularFile, path)
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("(schema-record) failed to get abs path: %w", err)
	}

	relPath := filepath.Base(absPath)
	if root != "" {
		absRoot, err := filepath.Abs(root)
		if err != nil {
			return nil, fmt.Errorf("(schema-record) failed to get abs root: %w", err)
		}
		if rel, err := filepath.Rel(absRoot, absPath); err == nil && !strings.HasPrefix(rel, "..") {
			relPath = rel
		}
	}

	return &FileRecord{
		SourcePath:   absPath,
		RelativePath: relPath,
		Size:         info.Size(),
		ModTime:      info.ModTime(),
		Mode:         info.Mode(),
	}, nil
}

// Name returns the filename including its extension.
func (f *FileRecord) Name() string {
	return filepath.Base(f.SourcePath)
}

// Extension returns the extension without its leading dot, in original case.
func (f *FileRecord) Extension() string {
	return strings.TrimPrefix(filepath.Ext(f.SourcePath), ".")
}

// Stem returns the filename without its extension.
func (f *FileRecord) Stem() string {
	name := f.Name()

	return strings.TrimSuffix(name, filepath.Ext(name))
}

// RelativeDir returns the directory of the file relative to the discovery
// root, or an empty string for files directly inside the root.
func (f *FileRecord) RelativeDir() string {
	dir := filepath.Dir(f.RelativePath)
	if dir == "." {
		return ""
	}

	return dir
}

// Checksum returns the content digest, computing it through d only once.
func (f *FileRecord) Checksum(d Digester) (string, error) {
	if f.checksum != "" {
		return f.checksum, nil
	}

	sum, err := d.Digest(f.SourcePath)
	if err != nil {
		return "", fmt.Errorf("(schema-record) failed to digest: %w", err)
	}
	f.checksum = sum

	return sum, nil
}

// SetChecksum stores a digest that was computed elsewhere, e.g. while the
// file was streamed during a copy.
func (f *FileRecord) SetChecksum(sum string) {
	f.checksum = sum
}

// Refresh re-reads size and modification time from the filesystem. The
// cached checksum is dropped if either of them changed. It returns true when
// the file changed since discovery (or the last refresh).
func (f *FileRecord) Refresh() (bool, error) {
	info, err := os.Stat(f.SourcePath)
	if err != nil {
		return false, fmt.Errorf("(schema-record) failed to stat: %w", err)
	}

	if !info.Mode().IsRegular() {
		return false, fmt.Errorf("(schema-record) %w: %s", ErrNotRegularFile, f.SourcePath)
	}

	changed := info.Size() != f.Size || !info.ModTime().Equal(f.ModTime)
	if changed {
		f.Size = info.Size()
		f.ModTime = info.ModTime()
		f.checksum = ""
	}
	f.Mode = info.Mode()

	return changed, nil
}
