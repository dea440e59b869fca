package pathing

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/desertwitch/offload/internal/metadata"
)

// Structure is a folder-structure preset.
type Structure string

const (
	StructureOriginal    Structure = "original"
	StructureTakenDate   Structure = "taken_date"
	StructureOffloadDate Structure = "offload_date"
	StructureYearMonth   Structure = "year_month"
	StructureYear        Structure = "year"
	StructureFlat        Structure = "flat"
)

// DefaultStructure is used when no structure preset is configured.
const DefaultStructure = StructureTakenDate

// Structures lists all recognized folder-structure presets.
//
//nolint:gochecknoglobals
var Structures = []Structure{
	StructureOriginal, StructureTakenDate, StructureOffloadDate,
	StructureYearMonth, StructureYear, StructureFlat,
}

// ParseStructure returns the [Structure] for name or [ErrConfiguration].
func ParseStructure(name string) (Structure, error) {
	s := Structure(strings.TrimSpace(name))
	for _, known := range Structures {
		if s == known {
			return s, nil
		}
	}

	return "", fmt.Errorf("(pathing) %w: structure %q", ErrConfiguration, name)
}

// UnmarshalText allows a [Structure] to be used as a command-line flag.
func (s *Structure) UnmarshalText(b []byte) error {
	parsed, err := ParseStructure(string(b))
	if err != nil {
		return err
	}
	*s = parsed

	return nil
}

// Filename is a filename (rename) preset.
type Filename string

const (
	FilenameOriginal    Filename = "original"
	FilenameCameraMake  Filename = "camera_make"
	FilenameCameraModel Filename = "camera_model"
)

// DefaultFilename is used when no filename preset is configured.
const DefaultFilename = FilenameOriginal

// ParseFilename returns the [Filename] for name or [ErrConfiguration]. The
// empty string and "none" select [FilenameOriginal].
func ParseFilename(name string) (Filename, error) {
	switch f := Filename(strings.TrimSpace(name)); {
	case isNoneKeyword(string(f)):
		return FilenameOriginal, nil
	case f == FilenameOriginal, f == FilenameCameraMake, f == FilenameCameraModel:
		return f, nil
	default:
		return "", fmt.Errorf("(pathing) %w: filename %q", ErrConfiguration, name)
	}
}

// UnmarshalText allows a [Filename] to be used as a command-line flag.
func (f *Filename) UnmarshalText(b []byte) error {
	parsed, err := ParseFilename(string(b))
	if err != nil {
		return err
	}
	*f = parsed

	return nil
}

// Prefix presets. Any other value is a literal custom prefix.
const (
	PrefixNone          = "none"
	PrefixTakenDate     = "taken_date"
	PrefixTakenDateTime = "taken_date_time"
	PrefixOffloadDate   = "offload_date"
)

// DefaultPrefix is used when no prefix preset is configured.
const DefaultPrefix = PrefixTakenDate

func isNoneKeyword(s string) bool {
	switch s {
	case "", "none", "None", "empty":
		return true
	}

	return false
}

// StructureFolder returns the relative destination folder for a file. The
// date is the file's own date, offloadDate the date the run started and
// relDir the file's directory relative to the source root.
func StructureFolder(preset Structure, date time.Time, offloadDate time.Time, relDir string) (string, error) {
	switch preset {
	case StructureOriginal:
		if relDir == "" || relDir == "." {
			return "", nil
		}

		return filepath.Clean(relDir), nil
	case StructureTakenDate:
		return filepath.Join(date.Format("2006"), date.Format("2006-01-02")), nil
	case StructureOffloadDate:
		return filepath.Join(offloadDate.Format("2006"), offloadDate.Format("2006-01-02")), nil
	case StructureYearMonth:
		return filepath.Join(date.Format("2006"), date.Format("01")), nil
	case StructureYear:
		return date.Format("2006"), nil
	case StructureFlat:
		return "", nil
	default:
		return "", fmt.Errorf("(pathing) %w: structure %q", ErrConfiguration, preset)
	}
}

// PrefixFor returns the filename prefix for a prefix preset. Unknown presets
// are returned unchanged as a literal custom prefix.
func PrefixFor(preset string, date time.Time, offloadDate time.Time) string {
	switch {
	case isNoneKeyword(preset):
		return ""
	case preset == PrefixTakenDate:
		return date.Format("060102")
	case preset == PrefixTakenDateTime:
		return date.Format("060102_150405")
	case preset == PrefixOffloadDate:
		return offloadDate.Format("060102")
	default:
		return preset
	}
}

// MetadataKey returns the metadata key a filename preset renames by, or an
// empty string when the source stem is kept.
func MetadataKey(preset Filename) (string, error) {
	switch preset {
	case FilenameOriginal, "":
		return "", nil
	case FilenameCameraMake:
		return metadata.KeyMake, nil
	case FilenameCameraModel:
		return metadata.KeyModel, nil
	default:
		return "", fmt.Errorf("(pathing) %w: filename %q", ErrConfiguration, preset)
	}
}
