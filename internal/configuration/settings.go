// Package configuration holds the persisted user settings, the application
// data paths and the precedence rules that turn flags and settings into the
// explicit configuration of a run.
package configuration

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
)

// Keys of the settings file.
const (
	KeyStructure          = "STRUCTURE"
	KeyPrefix             = "PREFIX"
	KeyFilename           = "FILENAME"
	KeyDefaultDestination = "DEFAULT_DESTINATION"
	KeyLatestDestination  = "LATEST_DESTINATION"
)

// noneValue marks a setting as explicitly unset.
const noneValue = "None"

type envProvider interface {
	Read(filenames ...string) (map[string]string, error)
	Write(envMap map[string]string, filename string) error
}

// Settings are the persisted user preferences. An empty field is unset.
type Settings struct {
	Structure          string
	Prefix             string
	Filename           string
	DefaultDestination string
	LatestDestination  string
}

// Store reads and writes [Settings] from and to an env-style file.
type Store struct {
	path string
	env  envProvider
}

// NewStore returns a pointer to a new [Store] for the file at path.
func NewStore(path string, env envProvider) *Store {
	if env == nil {
		env = &GodotenvProvider{}
	}

	return &Store{
		path: path,
		env:  env,
	}
}

// Path returns the location of the settings file.
func (s *Store) Path() string {
	return s.path
}

// Load returns the stored [Settings]. A missing file yields empty settings.
func (s *Store) Load() (Settings, error) {
	envMap, err := s.env.Read(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Settings{}, nil
		}

		return Settings{}, fmt.Errorf("(config-settings) %w: %w", ErrSettings, err)
	}

	return Settings{
		Structure:          mapKeyToString(envMap, KeyStructure),
		Prefix:             mapKeyToString(envMap, KeyPrefix),
		Filename:           mapKeyToString(envMap, KeyFilename),
		DefaultDestination: mapKeyToString(envMap, KeyDefaultDestination),
		LatestDestination:  mapKeyToString(envMap, KeyLatestDestination),
	}, nil
}

// Save writes all [Settings], storing unset fields as None.
func (s *Store) Save(settings Settings) error {
	envMap := map[string]string{
		KeyStructure:          orNone(settings.Structure),
		KeyPrefix:             orNone(settings.Prefix),
		KeyFilename:           orNone(settings.Filename),
		KeyDefaultDestination: orNone(settings.DefaultDestination),
		KeyLatestDestination:  orNone(settings.LatestDestination),
	}

	if err := s.env.Write(envMap, s.path); err != nil {
		return fmt.Errorf("(config-settings) %w: %w", ErrSettings, err)
	}

	return nil
}

// SetLatestDestination loads the settings, replaces the latest destination
// and saves them again.
func (s *Store) SetLatestDestination(dir string) error {
	settings, err := s.Load()
	if err != nil {
		return err
	}
	settings.LatestDestination = dir

	return s.Save(settings)
}

func mapKeyToString(envMap map[string]string, key string) string {
	value, exists := envMap[key]
	if !exists {
		return ""
	}

	value = strings.TrimSpace(value)
	if value == noneValue {
		return ""
	}

	return value
}

// orNone writes the unset marker for empty values. A value that spells the
// marker itself is an explicit "no prefix" choice and is stored lowercase so
// it does not read back as unset.
func orNone(value string) string {
	trimmed := strings.TrimSpace(value)

	switch {
	case trimmed == "":
		return noneValue
	case strings.EqualFold(trimmed, noneValue):
		return strings.ToLower(trimmed)
	default:
		return value
	}
}
