package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/desertwitch/offload/internal/checksum"
)

// Config holds the command-line arguments.
type Config struct {
	Source      string `arg:"-s,--source" help:"source folder to offload (required unless --history-lookup is given)"`
	Destination string `arg:"-d,--destination" help:"destination folder (default: latest, then default destination, then home)"`

	Structure string `arg:"-f,--structure" help:"folder structure: original|taken_date|offload_date|year_month|year|flat"`
	Filename  string `arg:"-n,--name" help:"rename files: original|camera_make|camera_model"`
	Prefix    string `arg:"-p,--prefix" help:"filename prefix: none|taken_date|taken_date_time|offload_date|<custom>"`

	Move     bool `arg:"-m,--move" help:"remove source files after verified transfer"`
	DryRun   bool `arg:"--dryrun" help:"compute and report everything without touching any files"`
	DebugLog bool `arg:"--debug-log" help:"log debug messages to the terminal"`

	Extensions   []string `arg:"--ext,separate" help:"only offload files with this extension (repeatable)"`
	Exclude      []string `arg:"--exclude,separate" help:"additional file or folder names to skip (repeatable)"`
	ExcludeGlobs []string `arg:"--exclude-glob,separate" help:"skip paths matching this pattern, relative to the source (repeatable)"`

	Checksum checksum.Algorithm `arg:"--checksum" default:"xxhash" help:"checksum algorithm: xxhash|blake3|sha256|md5"`
	Exiftool bool               `arg:"--exiftool" help:"also read metadata through exiftool when it is installed"`

	ReportCopy  string `arg:"--report-copy" help:"also save a copy of the report into this folder"`
	History     bool   `arg:"--history" help:"record the run in the history database"`
	MetricsFile string `arg:"--metrics-file" help:"write run metrics in Prometheus textfile format to this path"`

	HistoryLookup string `arg:"--history-lookup" placeholder:"FILE" help:"print the recorded offloads of this source file and exit"`

	DefaultDestination string `arg:"--default-destination" help:"store a default destination folder in the settings"`
	SaveSettings       bool   `arg:"--save-settings" help:"store the given presets in the settings"`

	UI         bool   `arg:"--ui" default:"true" help:"show the terminal user interface when attached to a terminal"`
	CPUProfile string `arg:"--cpuprofile" help:"write a cpu profile to this file"`
}

// Description returns the program description for go-arg.
func (Config) Description() string {
	return "Offload files from a memory card or folder into an organized, verified destination"
}

// Version returns the version string for go-arg.
func (Config) Version() string {
	if Version == "" {
		return "offload (development build)"
	}

	return "offload " + Version
}

// validate checks the arguments that can be checked before any work starts.
func (cfg *Config) validate() error {
	if cfg.HistoryLookup != "" {
		return nil
	}

	if cfg.Source == "" {
		return fmt.Errorf("%w: --source is required", ErrInvalidSource)
	}

	info, err := os.Stat(cfg.Source)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidSource, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%w: %s is not a directory", ErrInvalidSource, cfg.Source)
	}

	if cfg.Destination != "" {
		src, _ := filepath.Abs(cfg.Source)
		dst, _ := filepath.Abs(cfg.Destination)
		if src == dst {
			return fmt.Errorf("%w: %s", ErrSameSourceDestination, cfg.Source)
		}
	}

	return nil
}
