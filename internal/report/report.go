// Package report writes the durable record of an offload run: an append-only
// CSV log written row by row, a human-readable HTML rendering and optional
// further sinks such as a run history database.
package report

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"
)

// Sink receives a copy of everything written to a [Report].
type Sink interface {
	Begin(run Run) error
	Append(runID string, seq int, row Row) error
	Finish(run Run, summary Summary) error
	Close() error
}

// Report is the principal implementation of a run report.
type Report struct {
	sync.Mutex

	run      Run
	csvPath  string
	htmlPath string

	file   *os.File
	writer *csv.Writer

	rows   []Row
	sinks  []Sink
	closed bool
}

// NewRunID returns a fresh unique run identifier.
func NewRunID() string {
	return uuid.NewString()
}

// Open creates (or appends to) the CSV report of run inside dir. The header
// is only written when the file is new. Sinks that fail to begin are logged
// and dropped.
func Open(dir string, run Run, sinks ...Sink) (*Report, error) {
	if run.ID == "" {
		run.ID = NewRunID()
	}

	if err := os.MkdirAll(dir, 0o755); err != nil { //nolint:mnd
		return nil, fmt.Errorf("(report) failed to create dir: %w", err)
	}

	stem := run.Started.Format("0601021504") + "_report"
	csvPath := filepath.Join(dir, stem+".csv")

	isNew := false
	if _, err := os.Stat(csvPath); errors.Is(err, os.ErrNotExist) {
		isNew = true
	}

	f, err := os.OpenFile(csvPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644) //nolint:mnd
	if err != nil {
		return nil, fmt.Errorf("(report) failed to open: %w", err)
	}

	r := &Report{
		run:      run,
		csvPath:  csvPath,
		htmlPath: filepath.Join(dir, stem+".html"),
		file:     f,
		writer:   csv.NewWriter(f),
	}

	if isNew {
		if err := r.writeRecord(Header); err != nil {
			f.Close()

			return nil, err
		}
	}

	for _, s := range sinks {
		if s == nil {
			continue
		}
		if err := s.Begin(run); err != nil {
			slog.Warn("Report sink unavailable: skipped", "err", err)
			_ = s.Close()

			continue
		}
		r.sinks = append(r.sinks, s)
	}

	return r, nil
}

// Run returns the run the [Report] belongs to.
func (r *Report) Run() Run {
	return r.run
}

// Path returns the path of the CSV report.
func (r *Report) Path() string {
	return r.csvPath
}

// HTMLPath returns the path the HTML rendering is written to.
func (r *Report) HTMLPath() string {
	return r.htmlPath
}

// Write appends row to the CSV report and all sinks. The CSV is flushed
// immediately, so a partial run is still recorded.
func (r *Report) Write(row Row) error {
	r.Lock()
	defer r.Unlock()

	if r.closed {
		return ErrReportClosed
	}

	r.rows = append(r.rows, row)
	seq := len(r.rows)

	for _, s := range r.sinks {
		if err := s.Append(r.run.ID, seq, row); err != nil {
			slog.Warn("Report sink failed to record row", "path", row.SourcePath, "err", err)
		}
	}

	return r.writeRecord(row.Record())
}

// Rows returns a copy of the rows written in this run, in order.
func (r *Report) Rows() []Row {
	r.Lock()
	defer r.Unlock()

	rows := make([]Row, len(r.rows))
	copy(rows, r.rows)

	return rows
}

// Finish closes the CSV report, renders the HTML report and finishes and
// closes all sinks.
func (r *Report) Finish(summary Summary) error {
	r.Lock()
	defer r.Unlock()

	if r.closed {
		return ErrReportClosed
	}
	r.closed = true

	var errs []error

	r.writer.Flush()
	if err := r.writer.Error(); err != nil {
		errs = append(errs, fmt.Errorf("(report) failed to flush: %w", err))
	}
	if err := r.file.Close(); err != nil {
		errs = append(errs, fmt.Errorf("(report) failed to close: %w", err))
	}

	if err := writeHTML(r.htmlPath, r.run, summary, r.rows); err != nil {
		errs = append(errs, err)
	}

	for _, s := range r.sinks {
		if err := s.Finish(r.run, summary); err != nil {
			errs = append(errs, fmt.Errorf("(report) %w: %w", ErrSinkFailure, err))
		}
		if err := s.Close(); err != nil {
			errs = append(errs, fmt.Errorf("(report) %w: %w", ErrSinkFailure, err))
		}
	}

	return errors.Join(errs...)
}

// CopyTo saves a copy of the CSV report into dir, named after the run start.
func (r *Report) CopyTo(dir string) (string, error) {
	r.Lock()
	defer r.Unlock()

	if !r.closed {
		r.writer.Flush()
	}

	if err := os.MkdirAll(dir, 0o755); err != nil { //nolint:mnd
		return "", fmt.Errorf("(report-copy) failed to create dir: %w", err)
	}

	dst := filepath.Join(dir, "Offload_Report_"+r.run.Started.Format("2006-01-02_1504")+".csv")

	src, err := os.Open(r.csvPath)
	if err != nil {
		return "", fmt.Errorf("(report-copy) failed to open: %w", err)
	}
	defer src.Close()

	out, err := os.Create(dst)
	if err != nil {
		return "", fmt.Errorf("(report-copy) failed to create: %w", err)
	}

	if _, err := io.Copy(out, src); err != nil {
		out.Close()

		return "", fmt.Errorf("(report-copy) failed to copy: %w", err)
	}

	if err := out.Close(); err != nil {
		return "", fmt.Errorf("(report-copy) failed to close: %w", err)
	}

	return dst, nil
}

func (r *Report) writeRecord(record []string) error {
	if err := r.writer.Write(record); err != nil {
		return fmt.Errorf("(report) failed to write: %w", err)
	}

	r.writer.Flush()
	if err := r.writer.Error(); err != nil {
		return fmt.Errorf("(report) failed to flush: %w", err)
	}

	return nil
}
