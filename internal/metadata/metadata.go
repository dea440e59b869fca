// Package metadata reads camera metadata (make, model, capture time) from
// media files. Providers never fail their caller: whatever cannot be read is
// simply absent from the returned map.
package metadata

import (
	"context"
)

const (
	KeyMake             = "Make"
	KeyModel            = "Model"
	KeyDateTimeOriginal = "DateTimeOriginal"
)

// Provider returns metadata of the file at path as key/value strings.
type Provider interface {
	Metadata(ctx context.Context, path string) map[string]string
}

// Chain asks each of its providers in turn and returns the first non-empty
// answer.
type Chain []Provider

// Metadata implements [Provider].
func (c Chain) Metadata(ctx context.Context, path string) map[string]string {
	for _, p := range c {
		if p == nil {
			continue
		}
		if md := p.Metadata(ctx, path); len(md) > 0 {
			return md
		}
	}

	return map[string]string{}
}

// None is a [Provider] that knows nothing.
type None struct{}

// Metadata implements [Provider].
func (None) Metadata(context.Context, string) map[string]string {
	return map[string]string{}
}
