package transfer

import (
	"time"

	"github.com/desertwitch/offload/internal/schema"
)

// FileError is a per-file failure or warning, keyed by source path.
type FileError struct {
	Path string
	Err  error
}

func (e FileError) String() string {
	return e.Path + ": " + e.Err.Error()
}

// Result summarizes a run.
type Result struct {
	Counts             map[schema.Status]int
	BytesTransferred   int64
	DestinationFolders []string
	Errors             []FileError
	Warnings           []FileError
	Started            time.Time
	Finished           time.Time
	Cancelled          bool
}

// Failed reports whether any file failed.
func (r *Result) Failed() bool {
	return r.Counts[schema.StatusFailed] > 0
}

// Total returns the number of rows the run produced.
func (r *Result) Total() int {
	total := 0
	for _, n := range r.Counts {
		total += n
	}

	return total
}

// ErrorStrings returns the errors as "path: message" strings.
func (r *Result) ErrorStrings() []string {
	return fileErrorStrings(r.Errors)
}

// WarningStrings returns the warnings as "path: message" strings.
func (r *Result) WarningStrings() []string {
	return fileErrorStrings(r.Warnings)
}

func fileErrorStrings(errs []FileError) []string {
	out := make([]string, 0, len(errs))
	for _, e := range errs {
		out = append(out, e.String())
	}

	return out
}
