package checksum

import "errors"

var (
	// ErrUnknownAlgorithm is an error that occurs when a checksum algorithm
	// name is not one of the supported algorithms.
	ErrUnknownAlgorithm = errors.New("unknown checksum algorithm")

	// ErrNotRegularFile is an error that occurs when a digest is requested
	// for something that is not a regular file.
	ErrNotRegularFile = errors.New("not a regular file")
)
