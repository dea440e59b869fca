package report

import (
	"time"

	"github.com/desertwitch/offload/internal/schema"
	"github.com/dustin/go-humanize"
)

// DateFormat is the layout of the modification date column.
const DateFormat = "2006-01-02 15:04:05"

// Header is the header row of the CSV report.
//
//nolint:gochecknoglobals
var Header = []string{
	"Source Filename",
	"Destination Filename",
	"Status",
	"Source Checksum",
	"Destination Checksum",
	"Source Path",
	"Destination Path",
	"Size",
	"Modification Date",
}

// Row is the outcome of one file. Rows are never changed once written.
type Row struct {
	SourceFilename      string
	DestinationFilename string
	Status              schema.Status
	SourceChecksum      string
	DestinationChecksum string
	SourcePath          string
	DestinationPath     string
	Size                string
	ModificationDate    string
}

// NewRow builds the [Row] for a file and its final destination candidate.
// The checksums are left empty by the caller when no verification happened.
func NewRow(rec *schema.FileRecord, cand *schema.DestinationCandidate, status schema.Status, srcSum string, dstSum string) Row {
	return Row{
		SourceFilename:      rec.Name(),
		DestinationFilename: cand.Filename(),
		Status:              status,
		SourceChecksum:      srcSum,
		DestinationChecksum: dstSum,
		SourcePath:          rec.SourcePath,
		DestinationPath:     cand.FullPath(),
		Size:                humanize.Bytes(uint64(max(rec.Size, 0))), //nolint:gosec
		ModificationDate:    rec.ModTime.Format(DateFormat),
	}
}

// Record returns the row as CSV record in [Header] order.
func (r Row) Record() []string {
	return []string{
		r.SourceFilename,
		r.DestinationFilename,
		string(r.Status),
		r.SourceChecksum,
		r.DestinationChecksum,
		r.SourcePath,
		r.DestinationPath,
		r.Size,
		r.ModificationDate,
	}
}

// Run describes one offload run.
type Run struct {
	ID          string
	Started     time.Time
	Source      string
	Destination string
	Mode        string
	DryRun      bool
}

// Summary is what a [Report] needs to know about a finished run.
type Summary struct {
	Finished         time.Time
	Counts           map[schema.Status]int
	BytesTransferred int64
	Errors           []string
	Warnings         []string
}
