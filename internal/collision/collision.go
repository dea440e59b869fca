// Package collision finds a safe destination name for a file, detecting
// destinations that already hold an identical copy.
package collision

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"github.com/desertwitch/offload/internal/schema"
)

// MaxAttempts is the ceiling of increments tried for a single file.
const MaxAttempts = 100000

type digester interface {
	Digest(path string) (string, error)
}

type osProvider interface {
	Stat(name string) (os.FileInfo, error)
}

// Outcome is the result of resolving a destination candidate.
type Outcome struct {
	// Identical is set when the candidate path already holds the same file.
	Identical bool

	// Candidate is the final candidate: a free path, or the path of the
	// identical file when Identical is set.
	Candidate *schema.DestinationCandidate

	// SourceChecksum and DestinationChecksum are only set when digests were
	// computed to reach the decision.
	SourceChecksum      string
	DestinationChecksum string
}

// Resolver is the principal implementation of the collision resolver.
type Resolver struct {
	checksums   digester
	osOps       osProvider
	maxAttempts int
}

// NewResolver returns a pointer to a new collision [Resolver].
func NewResolver(checksums digester, osOps osProvider) *Resolver {
	return &Resolver{
		checksums:   checksums,
		osOps:       osOps,
		maxAttempts: MaxAttempts,
	}
}

// Resolve examines cand.FullPath() and increments the candidate until the path
// is either free or holds a file identical to rec. The candidate is modified
// in place and returned in the [Outcome].
func (r *Resolver) Resolve(rec *schema.FileRecord, cand *schema.DestinationCandidate) (*Outcome, error) {
	outcome := &Outcome{Candidate: cand}

	for attempt := 0; attempt < r.maxAttempts; attempt++ {
		path := cand.FullPath()

		existing, err := r.osOps.Stat(path)
		if errors.Is(err, fs.ErrNotExist) {
			return outcome, nil
		}

		if err != nil {
			slog.Warn("Collision check failed: treating as different",
				"path", path,
				"err", fmt.Errorf("%w: %w", ErrCollisionCheck, err),
			)
			cand.Bump()

			continue
		}

		identical, err := r.identical(rec, path, existing, outcome)
		if err != nil {
			slog.Warn("Collision check failed: treating as different",
				"path", path,
				"err", err,
			)
		}

		if identical {
			outcome.Identical = true

			return outcome, nil
		}

		slog.Debug("Collision: destination differs, incrementing", "path", path)
		cand.Bump()
	}

	return nil, fmt.Errorf("(collision) %w: %s after %d attempts", ErrCollisionExhausted, rec.SourcePath, r.maxAttempts)
}

func (r *Resolver) identical(rec *schema.FileRecord, path string, existing os.FileInfo, outcome *Outcome) (bool, error) {
	if !existing.Mode().IsRegular() {
		return false, nil
	}

	if existing.Size() != rec.Size {
		return false, nil
	}

	if existing.ModTime().Equal(rec.ModTime) {
		return true, nil
	}

	srcSum, err := rec.Checksum(r.checksums)
	if err != nil {
		return false, fmt.Errorf("(collision) %w: source: %w", ErrCollisionCheck, err)
	}
	outcome.SourceChecksum = srcSum

	dstSum, err := r.checksums.Digest(path)
	if err != nil {
		return false, fmt.Errorf("(collision) %w: destination: %w", ErrCollisionCheck, err)
	}

	if srcSum == dstSum {
		outcome.DestinationChecksum = dstSum

		return true, nil
	}

	return false, nil
}
