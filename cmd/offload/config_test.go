package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestConfig_Validate(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	file := filepath.Join(dir, "file.jpg")
	require.NoError(t, os.WriteFile(file, nil, 0o644))

	tests := []struct {
		name    string
		cfg     Config
		wantErr error
	}{
		{"valid", Config{Source: dir, Destination: filepath.Join(dir, "out")}, nil},
		{"no destination", Config{Source: dir}, nil},
		{"missing source", Config{Source: filepath.Join(dir, "missing")}, ErrInvalidSource},
		{"source is a file", Config{Source: file}, ErrInvalidSource},
		{"same folder", Config{Source: dir, Destination: dir + "/."}, ErrSameSourceDestination},
		{"no source", Config{}, ErrInvalidSource},
		{"history lookup needs no source", Config{HistoryLookup: file}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := tt.cfg.validate()
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)

				return
			}
			require.NoError(t, err)
		})
	}
}
