package report

import "errors"

var (
	// ErrReportClosed is an error that occurs when a row is written to a
	// [Report] that was already finished.
	ErrReportClosed = errors.New("report is closed")

	// ErrSinkFailure is an error that occurs when one or more [Sink] could not
	// record a run. The CSV report itself is not affected.
	ErrSinkFailure = errors.New("report sink failure")
)
