package transfer

import (
	"fmt"
	"strings"
)

const (
	// DefaultChunkThreshold is the file size from which files are streamed
	// in chunks instead of being read whole.
	DefaultChunkThreshold = 64 << 20

	// DefaultChunkSize is the buffer size used for streamed copies.
	DefaultChunkSize = 256 << 10

	// TempSuffix is appended to the destination path while a copy is in
	// flight.
	TempSuffix = ".offload"
)

// Mode is the transfer mode.
type Mode string

const (
	ModeCopy Mode = "copy"
	ModeMove Mode = "move"
)

// ParseMode returns the [Mode] for a case-insensitive name.
func ParseMode(name string) (Mode, error) {
	switch m := Mode(strings.ToLower(strings.TrimSpace(name))); m {
	case ModeCopy, ModeMove:
		return m, nil
	case "":
		return ModeCopy, nil
	default:
		return "", fmt.Errorf("(transfer) %w: mode %q", ErrInvalidConfig, name)
	}
}

// UnmarshalText allows a [Mode] to be used as a command-line flag.
func (m *Mode) UnmarshalText(b []byte) error {
	parsed, err := ParseMode(string(b))
	if err != nil {
		return err
	}
	*m = parsed

	return nil
}

// Config is the explicit configuration of an [Engine].
type Config struct {
	Source      string
	Destination string
	Mode        Mode
	DryRun      bool

	ChunkThreshold int64
	ChunkSize      int
}

func (c *Config) normalize() error {
	if c.Destination == "" {
		return fmt.Errorf("(transfer) %w: no destination", ErrInvalidConfig)
	}

	mode, err := ParseMode(string(c.Mode))
	if err != nil {
		return err
	}
	c.Mode = mode

	if c.ChunkThreshold <= 0 {
		c.ChunkThreshold = DefaultChunkThreshold
	}
	if c.ChunkSize <= 0 {
		c.ChunkSize = DefaultChunkSize
	}

	return nil
}
