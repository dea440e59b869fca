package catalog

import "errors"

var (
	// ErrDiscovery is an error that occurs when the source root is missing or
	// not a directory. It is fatal and aborts a run before any file is touched.
	ErrDiscovery = errors.New("source is not an existing directory")

	// ErrInvalidPattern is an error that occurs when an exclusion glob
	// pattern cannot be parsed.
	ErrInvalidPattern = errors.New("invalid exclusion pattern")
)
