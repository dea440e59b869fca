package collision

import "errors"

var (
	// ErrCollisionExhausted is an error that occurs when no free or identical
	// destination name was found within [MaxAttempts] increments.
	ErrCollisionExhausted = errors.New("collision increments exhausted")

	// ErrCollisionCheck is an error that occurs when an existing destination
	// file cannot be examined. The file is then treated as different.
	ErrCollisionCheck = errors.New("collision check failed")
)
