package transfer

import (
	"time"

	"github.com/desertwitch/offload/internal/schema"
)

// tracker derives progress notifications from the bytes and files processed
// so far. Skipped and dry-run files count as processed.
type tracker struct {
	totalBytes int64
	totalFiles int

	doneBytes int64
	doneFiles int

	started time.Time
	clock   func() time.Time
}

func newTracker(totalBytes int64, totalFiles int, clock func() time.Time) *tracker {
	return &tracker{
		totalBytes: totalBytes,
		totalFiles: totalFiles,
		started:    clock(),
		clock:      clock,
	}
}

func (t *tracker) fileDone(size int64) {
	t.doneBytes += size
	t.doneFiles++
}

func (t *tracker) percentage() float64 {
	var pct float64

	switch {
	case t.totalBytes > 0:
		pct = float64(t.doneBytes) / float64(t.totalBytes) * 100 //nolint:mnd
	case t.totalFiles > 0:
		pct = float64(t.doneFiles) / float64(t.totalFiles) * 100 //nolint:mnd
	default:
		pct = 100 //nolint:mnd
	}

	return min(pct, 100) //nolint:mnd
}

// speed returns the average bytes per second so far.
func (t *tracker) speed() float64 {
	elapsed := t.clock().Sub(t.started).Seconds()
	if elapsed <= 0 {
		return 0
	}

	return float64(t.doneBytes) / elapsed
}

// remaining returns the estimated seconds left, or 0 while unknown.
func (t *tracker) remaining() float64 {
	if t.doneFiles == 0 {
		return 0
	}

	speed := t.speed()
	if speed <= 0 {
		return 0
	}

	return float64(max(t.totalBytes-t.doneBytes, 0)) / speed
}

func (t *tracker) progress(action string) schema.Progress {
	return schema.Progress{
		Percentage:    t.percentage(),
		Action:        action,
		TimeRemaining: t.remaining(),
		Speed:         t.speed(),
	}
}

func (t *tracker) finished(action string) schema.Progress {
	return schema.Progress{
		Percentage:    t.percentage(),
		Action:        action,
		TimeRemaining: 0,
		IsFinished:    true,
		Speed:         t.speed(),
	}
}
