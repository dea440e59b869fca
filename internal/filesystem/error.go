package filesystem

import "errors"

var (
	// ErrNoExistingAncestor is an error that occurs when neither a path nor
	// any of its parents exist, so no filesystem can be examined.
	ErrNoExistingAncestor = errors.New("no existing ancestor")

	// ErrInvalidFileSize is an error that occurs when a given filesize is
	// smaller than 0 and impossible to handle in the respective function.
	ErrInvalidFileSize = errors.New("invalid file size < 0")
)
