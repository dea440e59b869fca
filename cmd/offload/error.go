package main

import "errors"

var (
	// ErrInvalidSource occurs when the source is not an existing directory.
	ErrInvalidSource = errors.New("invalid source")

	// ErrSameSourceDestination occurs when the source is also the
	// destination.
	ErrSameSourceDestination = errors.New("source and destination are the same")

	// ErrNoHistory occurs when the history is looked up before any run was
	// recorded with --history.
	ErrNoHistory = errors.New("no run history recorded")

	// ErrFilesFailed occurs when at least one file of the run has failed.
	ErrFilesFailed = errors.New("some files have failed")
)
