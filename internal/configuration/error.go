package configuration

import "errors"

var (
	// ErrSettings is returned when the settings file cannot be read or written.
	ErrSettings = errors.New("settings failure")

	// ErrNoDestination is returned when no usable destination could be found.
	ErrNoDestination = errors.New("no usable destination")
)
