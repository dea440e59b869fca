// Package transfer implements the offload engine: it takes the files of a
// catalog one at a time through destination derivation, collision checking,
// copying, verification and (in move mode) source removal, and reports one
// row per file.
package transfer

import (
	"context"
	"fmt"
	"hash"
	"log/slog"
	"os"
	"slices"
	"sync/atomic"
	"time"

	"github.com/desertwitch/offload/internal/catalog"
	"github.com/desertwitch/offload/internal/collision"
	"github.com/desertwitch/offload/internal/report"
	"github.com/desertwitch/offload/internal/schema"
	"github.com/dustin/go-humanize"
)

type destinationResolver interface {
	Resolve(ctx context.Context, rec *schema.FileRecord, root string) (*schema.DestinationCandidate, error)
	Placeholder(rec *schema.FileRecord, root string) *schema.DestinationCandidate
}

type collisionResolver interface {
	Resolve(rec *schema.FileRecord, cand *schema.DestinationCandidate) (*collision.Outcome, error)
}

type checksumProvider interface {
	New() hash.Hash
	DigestFresh(path string) (string, error)
	Forget(path string)
}

type reportWriter interface {
	Write(row report.Row) error
}

type fsProvider interface {
	HasEnoughFreeSpace(path string, fileSize int64) (bool, error)
	CopyTimes(src string, dst string) error
}

type osProvider interface {
	Open(name string) (*os.File, error)
	OpenFile(name string, flag int, perm os.FileMode) (*os.File, error)
	MkdirAll(path string, perm os.FileMode) error
	Remove(name string) error
	Rename(oldpath, newpath string) error
	Stat(name string) (os.FileInfo, error)
}

// Engine is the principal implementation of the offload engine. An [Engine]
// performs a single [Engine.Run].
type Engine struct {
	config Config

	resolver   destinationResolver
	collisions collisionResolver
	checksums  checksumProvider
	reporter   reportWriter
	fsOps      fsProvider
	osOps      osProvider

	progress schema.ProgressFunc
	clock    func() time.Time

	stopped atomic.Bool
}

// NewEngine returns a pointer to a new [Engine].
func NewEngine(config Config,
	resolver destinationResolver,
	collisions collisionResolver,
	checksums checksumProvider,
	reporter reportWriter,
	fsOps fsProvider,
	osOps osProvider,
) (*Engine, error) {
	if err := config.normalize(); err != nil {
		return nil, err
	}

	return &Engine{
		config:     config,
		resolver:   resolver,
		collisions: collisions,
		checksums:  checksums,
		reporter:   reporter,
		fsOps:      fsOps,
		osOps:      osOps,
		progress:   func(schema.Progress) {},
		clock:      time.Now,
	}, nil
}

// OnProgress sets the function receiving progress notifications. It is
// called on the goroutine executing [Engine.Run].
func (e *Engine) OnProgress(fn schema.ProgressFunc) {
	if fn == nil {
		fn = func(schema.Progress) {}
	}
	e.progress = fn
}

// Config returns the effective configuration of the [Engine].
func (e *Engine) Config() Config {
	return e.config
}

// Stop signals the [Engine] to not start any further files. A file that is
// being transferred is completed first. All files not yet started are still
// reported as [schema.StatusNotStarted]. It is safe to call concurrently.
func (e *Engine) Stop() {
	e.stopped.Store(true)
}

func (e *Engine) isStopped(ctx context.Context) bool {
	return e.stopped.Load() || ctx.Err() != nil
}

// fileOutcome is what processing a single file produced.
type fileOutcome struct {
	row         report.Row
	folder      string
	transferred int64
	err         error
	warning     error
}

// Run processes all files of the catalog in modification time order. Per-file
// failures never abort the run, they are reported and collected in the
// [Result]. An error is only returned when the report cannot be written.
func (e *Engine) Run(ctx context.Context, cat *catalog.Catalog) (*Result, error) {
	cat.Sort()

	files := cat.Files()
	total := len(files)

	res := &Result{
		Counts:  make(map[schema.Status]int, len(schema.Statuses)),
		Started: e.clock(),
	}
	folders := make(map[string]struct{})
	track := newTracker(cat.TotalSize(), total, e.clock)

	slog.Info("Offload started",
		"files", total,
		"size", cat.HumanSize(),
		"avg", humanize.Bytes(uint64(max(cat.AverageSize(), 0))), //nolint:gosec
		"mode", string(e.config.Mode),
		"dryrun", e.config.DryRun,
	)

	// A file that has begun is finished even when the run is cancelled
	// meanwhile, so per-file work does not observe the cancellation.
	fileCtx := context.WithoutCancel(ctx)

	for i, rec := range files {
		label := fmt.Sprintf("Processing file %d/%d", i+1, total)

		var out fileOutcome
		if e.isStopped(ctx) {
			if !res.Cancelled {
				slog.Warn("Offload cancelled: remaining files are not started", "remaining", total-i)
				res.Cancelled = true
			}
			cand := e.resolver.Placeholder(rec, e.config.Destination)
			out.row = report.NewRow(rec, cand, schema.StatusNotStarted, "", "")
		} else {
			slog.Info(label, "path", rec.SourcePath, "pct", fmt.Sprintf("%.2f", track.percentage()))
			e.progress(track.progress(label))

			out = e.process(fileCtx, rec, label, track)
			track.fileDone(rec.Size)
		}

		res.Counts[out.row.Status]++
		res.BytesTransferred += out.transferred

		if out.folder != "" {
			folders[out.folder] = struct{}{}
		}
		if out.err != nil {
			res.Errors = append(res.Errors, FileError{Path: rec.SourcePath, Err: out.err})
		}
		if out.warning != nil {
			res.Warnings = append(res.Warnings, FileError{Path: rec.SourcePath, Err: out.warning})
		}

		if err := e.reporter.Write(out.row); err != nil {
			return res, fmt.Errorf("(transfer) failed to write report: %w", err)
		}
	}

	res.DestinationFolders = make([]string, 0, len(folders))
	for f := range folders {
		res.DestinationFolders = append(res.DestinationFolders, f)
	}
	slices.Sort(res.DestinationFolders)

	res.Finished = e.clock()

	slog.Info("Offload finished",
		"successful", res.Counts[schema.StatusSuccessful],
		"skipped", res.Counts[schema.StatusSkipped],
		"failed", res.Counts[schema.StatusFailed],
		"notStarted", res.Counts[schema.StatusNotStarted],
		"folders", len(res.DestinationFolders),
		"transferred", humanize.Bytes(uint64(max(res.BytesTransferred, 0))), //nolint:gosec
		"elapsed", res.Finished.Sub(res.Started).Round(time.Millisecond).String(),
	)

	e.progress(track.finished(fmt.Sprintf("Finished %d/%d", total-res.Counts[schema.StatusNotStarted], total)))

	return res, nil
}

// process takes one file through the per-file state machine.
//
//nolint:funlen
func (e *Engine) process(ctx context.Context, rec *schema.FileRecord, label string, track *tracker) fileOutcome {
	state := schema.StatePending
	fail := func(cand *schema.DestinationCandidate, srcSum, dstSum string, err error) fileOutcome {
		slog.Error("Failed file: "+err.Error(), "path", rec.SourcePath, "state", state.String())

		out := fileOutcome{err: err}
		if cand == nil {
			cand = e.resolver.Placeholder(rec, e.config.Destination)
		} else {
			out.folder = cand.Directory()
		}
		out.row = report.NewRow(rec, cand, schema.StatusFailed, srcSum, dstSum)

		return out
	}

	if _, err := rec.Refresh(); err != nil {
		return fail(nil, "", "", fmt.Errorf("%w: %w", ErrCopyFailure, err))
	}

	cand, err := e.resolver.Resolve(ctx, rec, e.config.Destination)
	if err != nil {
		return fail(nil, "", "", fmt.Errorf("%w: %w", ErrCopyFailure, err))
	}
	state = schema.StateDestinationComputed
	slog.Debug("Destination computed", "path", rec.SourcePath, "dest", cand.FullPath())

	e.progress(track.progress(label + " [checking]"))

	outcome, err := e.collisions.Resolve(rec, cand)
	if err != nil {
		return fail(cand, "", "", err)
	}
	state = schema.StateCollisionChecked
	cand = outcome.Candidate
	dstPath := cand.FullPath()

	if outcome.Identical {
		state = schema.StateSkipped
		slog.Warn("Skipped file: identical file exists in destination", "path", rec.SourcePath, "dest", dstPath)

		return fileOutcome{
			row:    report.NewRow(rec, cand, schema.StatusSkipped, outcome.SourceChecksum, outcome.DestinationChecksum),
			folder: cand.Directory(),
		}
	}

	if e.config.DryRun {
		slog.Info("Dry run: not performing file actions", "path", rec.SourcePath, "dest", dstPath)

		return fileOutcome{
			row:    report.NewRow(rec, cand, schema.StatusNotStarted, "", ""),
			folder: cand.Directory(),
		}
	}

	if ok, err := e.fsOps.HasEnoughFreeSpace(cand.Directory(), rec.Size); err != nil {
		slog.Warn("Free space check failed: copying anyway", "path", rec.SourcePath, "err", err)
	} else if !ok {
		return fail(cand, "", "", fmt.Errorf("%w: %w", ErrCopyFailure, ErrNotEnoughSpace))
	}

	if err := e.osOps.MkdirAll(cand.Directory(), 0o755); err != nil { //nolint:mnd
		return fail(cand, "", "", fmt.Errorf("%w: failed to create folder: %w", ErrCopyFailure, err))
	}

	state = schema.StateCopying
	e.progress(track.progress(label + " [copying]"))

	srcSum, err := e.copyFile(rec, dstPath)
	if err != nil {
		return fail(cand, "", "", fmt.Errorf("%w: %w", ErrCopyFailure, err))
	}
	rec.SetChecksum(srcSum)

	if err := e.fsOps.CopyTimes(rec.SourcePath, dstPath); err != nil {
		slog.Warn("Failed to preserve timestamps", "path", dstPath, "err", err)
	}

	state = schema.StateVerifying
	e.progress(track.progress(label + " [verifying]"))

	dstSum, err := e.checksums.DigestFresh(dstPath)
	if err != nil {
		out := fail(cand, srcSum, "", fmt.Errorf("%w: %w", ErrVerificationFailure, err))
		out.transferred = rec.Size

		return out
	}

	if srcSum != dstSum {
		state = schema.StateVerificationFailed
		out := fail(cand, srcSum, dstSum,
			fmt.Errorf("%w: %s (src) != %s (dst)", ErrVerificationMismatch, srcSum, dstSum))
		out.transferred = rec.Size

		return out
	}
	state = schema.StateVerified
	slog.Info("Processed: verified", "path", rec.SourcePath, "dest", dstPath, "checksum", srcSum)

	out := fileOutcome{
		row:         report.NewRow(rec, cand, schema.StatusSuccessful, srcSum, dstSum),
		folder:      cand.Directory(),
		transferred: rec.Size,
	}

	if e.config.Mode == ModeMove {
		if err := e.osOps.Remove(rec.SourcePath); err != nil {
			out.warning = fmt.Errorf("%w: %w", ErrDeleteFailure, err)
			slog.Warn("Failed to remove source after verified move", "path", rec.SourcePath, "err", err)
		} else {
			e.checksums.Forget(rec.SourcePath)
			state = schema.StateSourceDeleted
			slog.Debug("Source removed", "path", rec.SourcePath, "state", state.String())
		}
	}

	return out
}
