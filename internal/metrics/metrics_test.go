package metrics

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/desertwitch/offload/internal/schema"
	"github.com/desertwitch/offload/internal/transfer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorder_WriteTextfile(t *testing.T) {
	t.Parallel()

	started := time.Unix(1_700_000_000, 0)

	rec := NewRecorder()
	rec.Observe(&transfer.Result{
		Counts: map[schema.Status]int{
			schema.StatusSuccessful: 4,
			schema.StatusSkipped:    2,
			schema.StatusFailed:     1,
		},
		BytesTransferred:   4096,
		DestinationFolders: []string{"/dst/2024/2024-03-05", "/dst/2024/2024-03-06"},
		Errors:             []transfer.FileError{{Path: "/src/x.jpg", Err: errors.New("boom")}},
		Started:            started,
		Finished:           started.Add(90 * time.Second),
	})

	path := filepath.Join(t.TempDir(), "offload.prom")
	require.NoError(t, rec.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	text := string(data)

	assert.Contains(t, text, `offload_files{status="Successful"} 4`)
	assert.Contains(t, text, `offload_files{status="Skipped"} 2`)
	assert.Contains(t, text, `offload_files{status="Failed"} 1`)
	assert.Contains(t, text, `offload_files{status="Not started"} 0`)
	assert.Contains(t, text, "offload_bytes_transferred 4096")
	assert.Contains(t, text, "including copies that later failed verification")
	assert.Contains(t, text, "offload_run_duration_seconds 90")
	assert.Contains(t, text, "offload_last_run_timestamp_seconds 1.70000009e+09")
	assert.Contains(t, text, "offload_errors 1")
	assert.Contains(t, text, "offload_warnings 0")
	assert.Contains(t, text, "offload_destination_folders 2")
}

func TestRecorder_WriteTextfile_BadPath(t *testing.T) {
	t.Parallel()

	rec := NewRecorder()
	err := rec.WriteTextfile(filepath.Join(t.TempDir(), "missing", "offload.prom"))
	require.Error(t, err)
}
