package main

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/desertwitch/offload/internal/checksum"
	"github.com/desertwitch/offload/internal/configuration"
	"github.com/desertwitch/offload/internal/pathing"
	"github.com/desertwitch/offload/internal/report"
	"github.com/desertwitch/offload/internal/schema"
	"github.com/desertwitch/offload/internal/transfer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingReceiver struct {
	updates []schema.Progress
	summary []string
}

func (r *recordingReceiver) Progress(p schema.Progress) {
	r.updates = append(r.updates, p)
}

func (r *recordingReceiver) Finish(summary []string) {
	r.summary = summary
}

type appFixture struct {
	src   string
	dst   string
	paths configuration.AppPaths
	cfg   *Config
}

func newAppFixture(t *testing.T) *appFixture {
	t.Helper()

	root := t.TempDir()
	f := &appFixture{
		src:   filepath.Join(root, "card"),
		dst:   filepath.Join(root, "photos"),
		paths: configuration.NewAppPaths(filepath.Join(root, "home")),
	}
	require.NoError(t, f.paths.Ensure())
	require.NoError(t, os.MkdirAll(filepath.Join(f.src, "DCIM", "100CANON"), 0o755))
	require.NoError(t, os.MkdirAll(f.dst, 0o755))

	mtime := time.Date(2024, 3, 5, 10, 0, 0, 0, time.Local)
	for i, name := range []string{"IMG_0001.jpg", "IMG_0002.jpg", ".DS_Store"} {
		path := filepath.Join(f.src, "DCIM", "100CANON", name)
		require.NoError(t, os.WriteFile(path, []byte(strings.Repeat("x", 10*(i+1))), 0o644))
		ts := mtime.Add(time.Duration(i) * time.Minute)
		require.NoError(t, os.Chtimes(path, ts, ts))
	}

	f.cfg = &Config{
		Source:      f.src,
		Destination: f.dst,
		Checksum:    checksum.XXHash,
		History:     true,
		MetricsFile: filepath.Join(root, "offload.prom"),
		ReportCopy:  filepath.Join(root, "desktop"),
	}

	return f
}

func (f *appFixture) app() *App {
	app := NewApp(f.cfg, f.paths, time.Date(2024, 3, 6, 9, 30, 0, 0, time.Local))
	app.home = f.dst

	return app
}

func TestApp_Launch(t *testing.T) {
	t.Parallel()

	f := newAppFixture(t)
	app := f.app()

	receiver := &recordingReceiver{}
	app.SetProgressReceiver(receiver)

	require.NoError(t, app.Launch(t.Context()))

	day := filepath.Join(f.dst, "2024", "2024-03-05")
	for _, name := range []string{"240305_IMG_0001.jpg", "240305_IMG_0002.jpg"} {
		_, err := os.Stat(filepath.Join(day, name))
		require.NoError(t, err, name)
	}
	_, err := os.Stat(filepath.Join(day, "240305_.DS_Store"))
	require.ErrorIs(t, err, os.ErrNotExist)

	_, err = os.Stat(filepath.Join(f.src, "DCIM", "100CANON", "IMG_0001.jpg"))
	require.NoError(t, err, "copy mode keeps the source")

	csv := filepath.Join(f.paths.Reports, "2403060930_report.csv")
	_, err = os.Stat(csv)
	require.NoError(t, err)
	_, err = os.Stat(filepath.Join(f.paths.Reports, "2403060930_report.html"))
	require.NoError(t, err)
	_, err = os.Stat(filepath.Join(filepath.Dir(f.cfg.MetricsFile), "desktop", "Offload_Report_2024-03-06_0930.csv"))
	require.NoError(t, err)

	metrics, err := os.ReadFile(f.cfg.MetricsFile)
	require.NoError(t, err)
	assert.Contains(t, string(metrics), `offload_files{status="Successful"} 2`)

	history, err := report.OpenHistory(filepath.Join(f.paths.Home, historyFile))
	require.NoError(t, err)
	defer history.Close()

	entries, err := history.Lookup(filepath.Join(f.src, "DCIM", "100CANON", "IMG_0001.jpg"))
	require.NoError(t, err)
	require.Len(t, entries, 1)

	settings, err := configuration.NewStore(f.paths.Settings, nil).Load()
	require.NoError(t, err)
	assert.Equal(t, f.dst, settings.LatestDestination)

	require.NotEmpty(t, receiver.updates)
	assert.True(t, receiver.updates[len(receiver.updates)-1].IsFinished)
	assert.Contains(t, receiver.summary, "Successful: 2, Skipped: 0, Failed: 0, Not started: 0")
}

func TestApp_Launch_SecondRunSkips(t *testing.T) {
	t.Parallel()

	f := newAppFixture(t)
	f.cfg.History = false
	require.NoError(t, f.app().Launch(t.Context()))

	receiver := &recordingReceiver{}
	app := NewApp(f.cfg, f.paths, time.Date(2024, 3, 6, 9, 31, 0, 0, time.Local))
	app.SetProgressReceiver(receiver)
	require.NoError(t, app.Launch(t.Context()))

	assert.Contains(t, receiver.summary, "Successful: 0, Skipped: 2, Failed: 0, Not started: 0")
}

func TestApp_Launch_DestinationFromSettings(t *testing.T) {
	t.Parallel()

	f := newAppFixture(t)
	f.cfg.Destination = ""
	f.cfg.DryRun = true
	f.cfg.Structure = string(pathing.StructureFlat)
	f.cfg.Prefix = pathing.PrefixNone

	other := filepath.Join(filepath.Dir(f.dst), "other")
	require.NoError(t, os.Mkdir(other, 0o755))
	require.NoError(t, configuration.NewStore(f.paths.Settings, nil).Save(configuration.Settings{
		DefaultDestination: other,
	}))

	receiver := &recordingReceiver{}
	app := f.app()
	app.SetProgressReceiver(receiver)
	require.NoError(t, app.Launch(t.Context()))

	assert.Contains(t, receiver.summary, "Folder: "+other)
	assert.Contains(t, receiver.summary, "Successful: 0, Skipped: 0, Failed: 0, Not started: 2")

	entries, err := os.ReadDir(other)
	require.NoError(t, err)
	assert.Empty(t, entries, "dry run writes nothing")

	settings, err := configuration.NewStore(f.paths.Settings, nil).Load()
	require.NoError(t, err)
	assert.Empty(t, settings.LatestDestination, "dry run does not remember the destination")
}

func TestApp_Launch_Cancelled(t *testing.T) {
	t.Parallel()

	f := newAppFixture(t)
	f.cfg.History = false

	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	receiver := &recordingReceiver{}
	app := f.app()
	app.SetProgressReceiver(receiver)
	require.NoError(t, app.Launch(ctx))

	assert.Contains(t, receiver.summary, "Successful: 0, Skipped: 0, Failed: 0, Not started: 2")
	assert.Contains(t, receiver.summary, "Offload was cancelled")
}

func TestApp_Launch_FatalErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		modify func(f *appFixture)
	}{
		{"unknown filename preset", func(f *appFixture) { f.cfg.Filename = "lens_model" }},
		{"unknown structure preset", func(f *appFixture) { f.cfg.Structure = "by_color" }},
		{"missing source", func(f *appFixture) { f.cfg.Source = filepath.Join(f.src, "missing") }},
		{"invalid glob", func(f *appFixture) { f.cfg.ExcludeGlobs = []string{"[a-"} }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			f := newAppFixture(t)
			f.cfg.History = false
			tt.modify(f)

			err := f.app().Launch(t.Context())
			require.Error(t, err)
			assert.True(t, isFatal(err))

			entries, err := os.ReadDir(f.dst)
			require.NoError(t, err)
			assert.Empty(t, entries)
		})
	}
}

func TestApp_SaveSettings(t *testing.T) {
	t.Parallel()

	f := newAppFixture(t)
	f.cfg.History = false
	f.cfg.SaveSettings = true
	f.cfg.Structure = string(pathing.StructureYear)
	f.cfg.DefaultDestination = f.dst

	require.NoError(t, f.app().Launch(t.Context()))

	settings, err := configuration.NewStore(f.paths.Settings, nil).Load()
	require.NoError(t, err)
	assert.Equal(t, "year", settings.Structure)
	assert.Equal(t, f.dst, settings.DefaultDestination)
	assert.Empty(t, settings.Prefix)
}

// TestApp_SaveSettings_NoPrefix verifies that a stored "no prefix" choice
// still applies to the next run without flags.
func TestApp_SaveSettings_NoPrefix(t *testing.T) {
	t.Parallel()

	f := newAppFixture(t)
	f.cfg.History = false
	f.cfg.SaveSettings = true
	f.cfg.Prefix = "None"

	require.NoError(t, f.app().Launch(t.Context()))

	settings, err := configuration.NewStore(f.paths.Settings, nil).Load()
	require.NoError(t, err)
	assert.Equal(t, "none", settings.Prefix)

	f.cfg.SaveSettings = false
	f.cfg.Prefix = ""
	require.NoError(t, os.Remove(filepath.Join(f.dst, "2024", "2024-03-05", "IMG_0002.jpg")))

	later := NewApp(f.cfg, f.paths, time.Date(2024, 3, 6, 9, 31, 0, 0, time.Local))
	require.NoError(t, later.Launch(t.Context()))

	entries, err := os.ReadDir(filepath.Join(f.dst, "2024", "2024-03-05"))
	require.NoError(t, err)

	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	assert.ElementsMatch(t, []string{"IMG_0001.jpg", "IMG_0002.jpg"}, names)
}

func TestApp_LookupHistory(t *testing.T) {
	t.Parallel()

	f := newAppFixture(t)
	img := filepath.Join(f.src, "DCIM", "100CANON", "IMG_0001.jpg")

	_, err := f.app().LookupHistory(img)
	require.ErrorIs(t, err, ErrNoHistory)

	require.NoError(t, f.app().Launch(t.Context()))

	later := NewApp(f.cfg, f.paths, time.Date(2024, 3, 6, 9, 31, 0, 0, time.Local))
	require.NoError(t, later.Launch(t.Context()))

	entries, err := f.app().LookupHistory(img)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, schema.StatusSuccessful, entries[0].Row.Status)
	assert.Equal(t, schema.StatusSkipped, entries[1].Row.Status)
	assert.Equal(t, filepath.Join(f.dst, "2024", "2024-03-05", "240305_IMG_0001.jpg"), entries[0].Row.DestinationPath)

	entries, err = f.app().LookupHistory(filepath.Join(f.src, "never-offloaded.jpg"))
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestSummaryLines(t *testing.T) {
	t.Parallel()

	res := &transfer.Result{
		Counts:             map[schema.Status]int{schema.StatusSuccessful: 1, schema.StatusFailed: 1},
		BytesTransferred:   2000,
		DestinationFolders: []string{"/dst/2024"},
		Errors:             []transfer.FileError{{Path: "/src/a.jpg", Err: transfer.ErrVerificationMismatch}},
	}

	lines := summaryLines(res)

	assert.Equal(t, []string{
		"Successful: 1, Skipped: 0, Failed: 1, Not started: 0",
		"Transferred: 2.0 kB",
		"Folder: /dst/2024",
		"Error: /src/a.jpg: " + transfer.ErrVerificationMismatch.Error(),
	}, lines)
}
