package configuration

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/desertwitch/offload/internal/pathing"
)

// PresetFlags are the presets given on the command line. Empty is unset.
type PresetFlags struct {
	Structure string
	Prefix    string
	Filename  string
}

// Presets returns the [pathing.Config] where each preset comes from the flag,
// else the stored setting, else the built-in default.
func Presets(flags PresetFlags, settings Settings) pathing.Config {
	return pathing.Config{
		Structure: pathing.Structure(firstOf(flags.Structure, settings.Structure, string(pathing.DefaultStructure))),
		Prefix:    firstOf(flags.Prefix, settings.Prefix, pathing.DefaultPrefix),
		Filename:  pathing.Filename(firstOf(flags.Filename, settings.Filename, string(pathing.FilenameOriginal))),
	}
}

// Destination returns the explicit destination when given. Otherwise it falls
// back to the latest, then the default destination, then the home directory,
// using the first that is an existing directory.
func Destination(explicit string, settings Settings, home string) (string, error) {
	if explicit != "" {
		return explicit, nil
	}

	for _, candidate := range []struct {
		source string
		path   string
	}{
		{"latest", settings.LatestDestination},
		{"default", settings.DefaultDestination},
		{"home", home},
	} {
		if candidate.path == "" {
			continue
		}
		if isDir(candidate.path) {
			slog.Debug("Destination chosen from settings", "source", candidate.source, "path", candidate.path)

			return candidate.path, nil
		}
		slog.Debug("Destination candidate is not a directory", "source", candidate.source, "path", candidate.path)
	}

	return "", fmt.Errorf("(config-precedence) %w", ErrNoDestination)
}

func isDir(path string) bool {
	info, err := os.Stat(path)

	return err == nil && info.IsDir()
}

func firstOf(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}

	return ""
}
