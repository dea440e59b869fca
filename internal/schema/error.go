package schema

import "errors"

// ErrNotRegularFile is an error that occurs when a path handed to discovery
// is a directory, symlink or other non-regular filesystem entry.
var ErrNotRegularFile = errors.New("not a regular file")
