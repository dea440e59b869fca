// Package pathing derives destination folders, filename prefixes and base
// names from the configured presets.
package pathing

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/desertwitch/offload/internal/metadata"
	"github.com/desertwitch/offload/internal/schema"
)

// UnknownName is the base name used when a metadata-driven rename finds no
// value for its key.
const UnknownName = "unknown"

// Config holds the presets a [Resolver] works with.
type Config struct {
	Structure Structure
	Prefix    string
	Filename  Filename
	Padding   int
}

// Resolver computes [schema.DestinationCandidate] values for source files.
type Resolver struct {
	config      Config
	metadataKey string
	offloadDate time.Time
	metadata    metadata.Provider
}

// NewResolver returns a pointer to a new [Resolver]. The presets are
// validated here, so an unknown structure or filename preset fails before
// any file is touched. The offload date is fixed to now for the lifetime of
// the [Resolver], even when a run crosses midnight.
func NewResolver(config Config, md metadata.Provider, now time.Time) (*Resolver, error) {
	if config.Structure == "" {
		config.Structure = DefaultStructure
	}
	if _, err := ParseStructure(string(config.Structure)); err != nil {
		return nil, err
	}

	filename, err := ParseFilename(string(config.Filename))
	if err != nil {
		return nil, err
	}
	config.Filename = filename

	key, err := MetadataKey(filename)
	if err != nil {
		return nil, err
	}

	if config.Padding <= 0 {
		config.Padding = schema.DefaultIncrementPadding
	}

	if md == nil {
		md = metadata.None{}
	}

	return &Resolver{
		config:      config,
		metadataKey: key,
		offloadDate: now,
		metadata:    md,
	}, nil
}

// Config returns the effective presets of the [Resolver].
func (r *Resolver) Config() Config {
	return r.config
}

// OffloadDate returns the run date used by the offload_date presets.
func (r *Resolver) OffloadDate() time.Time {
	return r.offloadDate
}

// Resolve returns a fresh candidate for rec below the destination root,
// consulting the metadata provider when a rename preset needs it.
func (r *Resolver) Resolve(ctx context.Context, rec *schema.FileRecord, root string) (*schema.DestinationCandidate, error) {
	cand, err := r.candidate(rec, root)
	if err != nil {
		return nil, err
	}

	if r.metadataKey != "" {
		md := r.metadata.Metadata(ctx, rec.SourcePath)

		// Names made only of characters Sanitize drops count as missing.
		cand.BaseName = Sanitize(strings.ToLower(strings.TrimSpace(md[r.metadataKey])))
		if cand.BaseName == "" {
			cand.BaseName = UnknownName
		}
	}

	return cand, nil
}

// Placeholder returns a candidate for rec without any metadata lookup or
// filesystem access, keeping the source stem as base name. It describes
// where a file would have gone when it is never processed.
func (r *Resolver) Placeholder(rec *schema.FileRecord, root string) *schema.DestinationCandidate {
	cand, err := r.candidate(rec, root)
	if err != nil {
		return &schema.DestinationCandidate{
			Root:      root,
			BaseName:  rec.Stem(),
			Extension: rec.Extension(),
			Padding:   r.config.Padding,
		}
	}

	return cand
}

func (r *Resolver) candidate(rec *schema.FileRecord, root string) (*schema.DestinationCandidate, error) {
	folder, err := StructureFolder(r.config.Structure, rec.ModTime, r.offloadDate, rec.RelativeDir())
	if err != nil {
		return nil, fmt.Errorf("(pathing) failed to get folder: %w", err)
	}

	return &schema.DestinationCandidate{
		Root:      root,
		Folder:    folder,
		Prefix:    PrefixFor(r.config.Prefix, rec.ModTime, r.offloadDate),
		BaseName:  rec.Stem(),
		Extension: rec.Extension(),
		Padding:   r.config.Padding,
	}, nil
}
