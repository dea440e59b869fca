package metadata

import (
	"context"
	"log/slog"
	"os"
	"strings"

	"github.com/rwcarlsen/goexif/exif"
)

type osProvider interface {
	Open(name string) (*os.File, error)
}

// ExifProvider decodes embedded EXIF data of JPEG and TIFF-based raw files.
type ExifProvider struct {
	osOps osProvider
}

// NewExifProvider returns a pointer to a new [ExifProvider].
func NewExifProvider(osOps osProvider) *ExifProvider {
	return &ExifProvider{
		osOps: osOps,
	}
}

// Metadata implements [Provider].
func (p *ExifProvider) Metadata(_ context.Context, path string) map[string]string {
	result := make(map[string]string)

	f, err := p.osOps.Open(path)
	if err != nil {
		slog.Debug("Metadata: failed to open file", "path", path, "err", err)

		return result
	}
	defer f.Close()

	x, err := exif.Decode(f)
	if err != nil {
		slog.Debug("Metadata: no exif data", "path", path, "err", err)

		return result
	}

	for key, field := range map[string]exif.FieldName{
		KeyMake:             exif.Make,
		KeyModel:            exif.Model,
		KeyDateTimeOriginal: exif.DateTimeOriginal,
	} {
		tag, err := x.Get(field)
		if err != nil {
			continue
		}

		val, err := tag.StringVal()
		if err != nil {
			continue
		}

		if val = strings.TrimSpace(strings.TrimRight(val, "\x00")); val != "" {
			result[key] = val
		}
	}

	return result
}
