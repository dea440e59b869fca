package metadata

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"
	"time"
)

// DefaultExiftoolTimeout bounds a single exiftool invocation.
const DefaultExiftoolTimeout = 15 * time.Second

// commandRunner executes a command and returns its standard output.
type commandRunner interface {
	Output(ctx context.Context, name string, args ...string) ([]byte, error)
}

type execRunner struct{}

func (execRunner) Output(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).Output() //nolint:gosec
}

// ExiftoolProvider runs the external exiftool binary, which understands far
// more formats than the embedded decoder (video containers, vendor raws).
type ExiftoolProvider struct {
	Binary  string
	Timeout time.Duration

	runner commandRunner
}

// NewExiftoolProvider returns a pointer to a new [ExiftoolProvider] running
// the exiftool found in PATH.
func NewExiftoolProvider() *ExiftoolProvider {
	return &ExiftoolProvider{
		Binary:  "exiftool",
		Timeout: DefaultExiftoolTimeout,
		runner:  execRunner{},
	}
}

// Available reports whether the exiftool binary can be found.
func (p *ExiftoolProvider) Available() bool {
	_, err := exec.LookPath(p.Binary)

	return err == nil
}

// Metadata implements [Provider].
func (p *ExiftoolProvider) Metadata(ctx context.Context, path string) map[string]string {
	result := make(map[string]string)

	timeout := p.Timeout
	if timeout <= 0 {
		timeout = DefaultExiftoolTimeout
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	out, err := p.runner.Output(ctx, p.Binary, "-j", "-"+KeyMake, "-"+KeyModel, "-"+KeyDateTimeOriginal, path)
	if err != nil {
		slog.Debug("Metadata: exiftool failed", "path", path, "err", err)

		return result
	}

	parsed, err := parseExiftoolJSON(out)
	if err != nil {
		slog.Debug("Metadata: bad exiftool output", "path", path, "err", err)

		return result
	}

	return parsed
}

func parseExiftoolJSON(data []byte) (map[string]string, error) {
	var entries []map[string]any
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("(metadata-exiftool) failed to decode: %w", err)
	}

	result := make(map[string]string)
	if len(entries) == 0 {
		return result, nil
	}

	for _, key := range []string{KeyMake, KeyModel, KeyDateTimeOriginal} {
		v, ok := entries[0][key]
		if !ok || v == nil {
			continue
		}

		if s := strings.TrimSpace(fmt.Sprint(v)); s != "" {
			result[key] = s
		}
	}

	return result, nil
}
