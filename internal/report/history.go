package report

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/desertwitch/offload/internal/schema"

	_ "modernc.org/sqlite"
)

const historySchema = `
CREATE TABLE IF NOT EXISTS runs (
	id                TEXT PRIMARY KEY,
	started_at        TEXT NOT NULL,
	finished_at       TEXT,
	source            TEXT NOT NULL,
	destination       TEXT NOT NULL,
	mode              TEXT NOT NULL,
	dry_run           INTEGER NOT NULL,
	successful        INTEGER NOT NULL DEFAULT 0,
	skipped           INTEGER NOT NULL DEFAULT 0,
	failed            INTEGER NOT NULL DEFAULT 0,
	not_started       INTEGER NOT NULL DEFAULT 0,
	bytes_transferred INTEGER NOT NULL DEFAULT 0
);
CREATE TABLE IF NOT EXISTS entries (
	run_id               TEXT NOT NULL REFERENCES runs(id),
	seq                  INTEGER NOT NULL,
	source_filename      TEXT NOT NULL,
	destination_filename TEXT NOT NULL,
	status               TEXT NOT NULL,
	source_checksum      TEXT NOT NULL,
	destination_checksum TEXT NOT NULL,
	source_path          TEXT NOT NULL,
	destination_path     TEXT NOT NULL,
	size                 TEXT NOT NULL,
	modification_date    TEXT NOT NULL,
	PRIMARY KEY (run_id, seq)
);
CREATE INDEX IF NOT EXISTS entries_source_path ON entries(source_path);
`

// HistorySink journals every run and its rows into a SQLite database, so
// past offloads of a file can be looked up later.
type HistorySink struct {
	db *sql.DB
}

// OpenHistory opens (and if needed creates) the history database at path.
func OpenHistory(path string) (*HistorySink, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("(report-history) failed to open: %w", err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(historySchema); err != nil {
		db.Close()

		return nil, fmt.Errorf("(report-history) failed to migrate: %w", err)
	}

	return &HistorySink{db: db}, nil
}

// Begin implements [Sink].
func (h *HistorySink) Begin(run Run) error {
	_, err := h.db.Exec(`
INSERT INTO runs (id, started_at, source, destination, mode, dry_run)
VALUES (?, ?, ?, ?, ?, ?)`,
		run.ID, run.Started.UTC().Format(time.RFC3339Nano), run.Source, run.Destination, run.Mode, boolToInt(run.DryRun),
	)
	if err != nil {
		return fmt.Errorf("(report-history) failed to insert run: %w", err)
	}

	return nil
}

// Append implements [Sink].
func (h *HistorySink) Append(runID string, seq int, row Row) error {
	_, err := h.db.Exec(`
INSERT INTO entries (run_id, seq, source_filename, destination_filename, status, source_checksum,
	destination_checksum, source_path, destination_path, size, modification_date)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		runID, seq, row.SourceFilename, row.DestinationFilename, string(row.Status), row.SourceChecksum,
		row.DestinationChecksum, row.SourcePath, row.DestinationPath, row.Size, row.ModificationDate,
	)
	if err != nil {
		return fmt.Errorf("(report-history) failed to insert row: %w", err)
	}

	return nil
}

// Finish implements [Sink].
func (h *HistorySink) Finish(run Run, summary Summary) error {
	_, err := h.db.Exec(`
UPDATE runs
SET finished_at = ?, successful = ?, skipped = ?, failed = ?, not_started = ?, bytes_transferred = ?
WHERE id = ?`,
		summary.Finished.UTC().Format(time.RFC3339Nano),
		summary.Counts[schema.StatusSuccessful],
		summary.Counts[schema.StatusSkipped],
		summary.Counts[schema.StatusFailed],
		summary.Counts[schema.StatusNotStarted],
		summary.BytesTransferred,
		run.ID,
	)
	if err != nil {
		return fmt.Errorf("(report-history) failed to update run: %w", err)
	}

	return nil
}

// Close implements [Sink].
func (h *HistorySink) Close() error {
	if err := h.db.Close(); err != nil {
		return fmt.Errorf("(report-history) failed to close: %w", err)
	}

	return nil
}

// Entry is one past row of a file, as recorded by a [HistorySink].
type Entry struct {
	RunID     string
	StartedAt string
	Row       Row
}

// Lookup returns all recorded rows of a source path, oldest run first.
func (h *HistorySink) Lookup(sourcePath string) ([]Entry, error) {
	rows, err := h.db.Query(`
SELECT r.id, r.started_at, w.source_filename, w.destination_filename, w.status, w.source_checksum,
	w.destination_checksum, w.source_path, w.destination_path, w.size, w.modification_date
FROM entries w JOIN runs r ON r.id = w.run_id
WHERE w.source_path = ?
ORDER BY r.started_at, w.seq`, sourcePath)
	if err != nil {
		return nil, fmt.Errorf("(report-history) failed to query: %w", err)
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var e Entry
		var status string
		if err := rows.Scan(
			&e.RunID, &e.StartedAt, &e.Row.SourceFilename, &e.Row.DestinationFilename, &status,
			&e.Row.SourceChecksum, &e.Row.DestinationChecksum, &e.Row.SourcePath, &e.Row.DestinationPath,
			&e.Row.Size, &e.Row.ModificationDate,
		); err != nil {
			return nil, fmt.Errorf("(report-history) failed to scan: %w", err)
		}
		e.Row.Status = schema.Status(status)
		out = append(out, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("(report-history) failed to iterate: %w", err)
	}

	return out, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}

	return 0
}
