package report

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/desertwitch/offload/internal/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHistorySink_RoundTrip(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	dbPath := filepath.Join(dir, "history.db")

	for i, status := range []schema.Status{schema.StatusSuccessful, schema.StatusSkipped} {
		sink, err := OpenHistory(dbPath)
		require.NoError(t, err)

		run := testRun()
		run.ID = NewRunID()
		run.Started = started.Add(time.Duration(i) * time.Hour)

		r, err := Open(filepath.Join(dir, "reports"), run, sink)
		require.NoError(t, err)

		require.NoError(t, r.Write(row("a.jpg", status)))
		require.NoError(t, r.Write(row("b.jpg", status)))
		require.NoError(t, r.Finish(Summary{
			Finished: run.Started.Add(time.Minute),
			Counts:   map[schema.Status]int{status: 2},
		}))
	}

	sink, err := OpenHistory(dbPath)
	require.NoError(t, err)
	defer sink.Close()

	entries, err := sink.Lookup("/card/a.jpg")
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.Equal(t, schema.StatusSuccessful, entries[0].Row.Status)
	assert.Equal(t, schema.StatusSkipped, entries[1].Row.Status)
	assert.NotEqual(t, entries[0].RunID, entries[1].RunID)

	var successful, skipped int
	require.NoError(t, sink.db.QueryRow(`SELECT SUM(successful), SUM(skipped) FROM runs`).Scan(&successful, &skipped))
	assert.Equal(t, 2, successful)
	assert.Equal(t, 2, skipped)
}

func TestHistorySink_DuplicateRun_Error(t *testing.T) {
	t.Parallel()

	sink, err := OpenHistory(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	defer sink.Close()

	require.NoError(t, sink.Begin(testRun()))
	require.Error(t, sink.Begin(testRun()))
}
