// Package catalog discovers the files of a source tree that are to be
// offloaded.
package catalog

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/desertwitch/offload/internal/schema"
	"github.com/dustin/go-humanize"
	"github.com/kr/fs"
)

// Options control which entries of the source tree are discovered.
type Options struct {
	// ExcludeNames are exact entry names to skip. A matching directory is
	// skipped with its whole subtree.
	ExcludeNames []string

	// AllowedExtensions restricts discovery to these extensions when not
	// empty. They are compared lower-cased and without a leading dot.
	AllowedExtensions []string

	// ExcludeGlobs are doublestar patterns matched case-insensitively against
	// the slash-separated path relative to the root.
	ExcludeGlobs []string
}

// Catalog is the ordered collection of files discovered below a root.
type Catalog struct {
	Root  string
	files []*schema.FileRecord
}

// New returns a [Catalog] over already known records.
func New(root string, files []*schema.FileRecord) *Catalog {
	return &Catalog{
		Root:  root,
		files: files,
	}
}

// Discover recursively walks root and returns a [Catalog] of all regular
// files that pass the filters in opts. Symlinks and special files are
// skipped, unreadable entries are logged and skipped.
func Discover(root string, opts Options) (*Catalog, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("(catalog) %w: %s: %w", ErrDiscovery, root, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("(catalog) %w: %s", ErrDiscovery, root)
	}

	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("(catalog) failed to get abs root: %w", err)
	}

	f, err := newFilter(opts)
	if err != nil {
		return nil, err
	}

	c := &Catalog{Root: absRoot}

	walker := fs.Walk(absRoot)
	for walker.Step() {
		path := walker.Path()

		if err := walker.Err(); err != nil {
			slog.Warn("Skipped entry: unreadable", "path", path, "err", err)

			continue
		}

		if path == absRoot {
			continue
		}

		stat := walker.Stat()

		relPath, err := filepath.Rel(absRoot, path)
		if err != nil {
			slog.Warn("Skipped entry: failed to rel", "path", path, "err", err)

			continue
		}

		if f.excluded(relPath, stat.Name()) {
			slog.Debug("Skipped entry: excluded", "path", path)

			if stat.IsDir() {
				walker.SkipDir()
			}

			continue
		}

		if stat.IsDir() {
			continue
		}

		if !stat.Mode().IsRegular() {
			slog.Debug("Skipped entry: not a regular file", "path", path, "mode", stat.Mode().String())

			continue
		}

		if !f.allowed(stat.Name()) {
			continue
		}

		rec, err := schema.NewFileRecordFromInfo(absRoot, path, stat)
		if err != nil {
			slog.Warn("Skipped entry: failed to record", "path", path, "err", err)

			continue
		}

		c.files = append(c.files, rec)
	}

	return c, nil
}

// Files returns the records in their current order.
func (c *Catalog) Files() []*schema.FileRecord {
	return c.files
}

// Sort orders the records by modification time, oldest first. Records with
// equal times keep their discovery order.
func (c *Catalog) Sort() {
	slices.SortStableFunc(c.files, func(a, b *schema.FileRecord) int {
		return a.ModTime.Compare(b.ModTime)
	})
}

// Count returns the number of records.
func (c *Catalog) Count() int {
	return len(c.files)
}

// TotalSize returns the sum of all record sizes in bytes.
func (c *Catalog) TotalSize() int64 {
	var total int64
	for _, f := range c.files {
		total += f.Size
	}

	return total
}

// AverageSize returns the mean record size in bytes, or 0 for an empty
// [Catalog].
func (c *Catalog) AverageSize() int64 {
	if len(c.files) == 0 {
		return 0
	}

	return c.TotalSize() / int64(len(c.files))
}

// HumanSize returns the total size in human-readable form.
func (c *Catalog) HumanSize() string {
	return humanize.Bytes(uint64(c.TotalSize())) //nolint:gosec
}

type filter struct {
	names      map[string]struct{}
	extensions map[string]struct{}
	globs      []string
}

func newFilter(opts Options) (*filter, error) {
	f := &filter{
		names:      make(map[string]struct{}, len(opts.ExcludeNames)),
		extensions: make(map[string]struct{}, len(opts.AllowedExtensions)),
	}

	for _, n := range opts.ExcludeNames {
		f.names[n] = struct{}{}
	}

	for _, e := range opts.AllowedExtensions {
		e = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(e), "."))
		if e != "" {
			f.extensions[e] = struct{}{}
		}
	}

	for _, g := range opts.ExcludeGlobs {
		pattern := strings.ToLower(g)
		if !doublestar.ValidatePattern(pattern) {
			return nil, fmt.Errorf("(catalog) %w: %q", ErrInvalidPattern, g)
		}
		f.globs = append(f.globs, pattern)
	}

	return f, nil
}

func (f *filter) excluded(relPath string, name string) bool {
	if _, ok := f.names[name]; ok {
		return true
	}

	if len(f.globs) > 0 {
		normalized := strings.ToLower(filepath.ToSlash(relPath))
		for _, g := range f.globs {
			if matched, _ := doublestar.Match(g, normalized); matched {
				return true
			}
		}
	}

	return false
}

func (f *filter) allowed(name string) bool {
	if len(f.extensions) == 0 {
		return true
	}

	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(name), "."))
	_, ok := f.extensions[ext]

	return ok
}
