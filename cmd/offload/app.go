package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/desertwitch/offload/internal/catalog"
	"github.com/desertwitch/offload/internal/checksum"
	"github.com/desertwitch/offload/internal/collision"
	"github.com/desertwitch/offload/internal/configuration"
	"github.com/desertwitch/offload/internal/filesystem"
	"github.com/desertwitch/offload/internal/metadata"
	"github.com/desertwitch/offload/internal/metrics"
	"github.com/desertwitch/offload/internal/pathing"
	"github.com/desertwitch/offload/internal/report"
	"github.com/desertwitch/offload/internal/schema"
	"github.com/desertwitch/offload/internal/transfer"
	"github.com/dustin/go-humanize"
)

// historyFile is the name of the run history database in the app data dir.
const historyFile = "history.db"

type progressReceiver interface {
	Progress(p schema.Progress)
	Finish(summary []string)
}

// App is one offload run, from the arguments to the written report.
type App struct {
	cfg     *Config
	paths   configuration.AppPaths
	store   *configuration.Store
	started time.Time

	home     string
	receiver progressReceiver
}

// NewApp returns a pointer to a new [App].
func NewApp(cfg *Config, paths configuration.AppPaths, started time.Time) *App {
	home, _ := os.UserHomeDir()

	return &App{
		cfg:     cfg,
		paths:   paths,
		store:   configuration.NewStore(paths.Settings, &configuration.GodotenvProvider{}),
		started: started,
		home:    home,
	}
}

// SetProgressReceiver sets where progress notifications are forwarded to.
func (app *App) SetProgressReceiver(r progressReceiver) {
	app.receiver = r
}

// Launch performs the offload. The returned error is either a fatal error
// that prevented the run or [ErrFilesFailed].
//
//nolint:funlen
func (app *App) Launch(ctx context.Context) error {
	settings, err := app.loadSettings()
	if err != nil {
		return err
	}

	presets := configuration.Presets(configuration.PresetFlags{
		Structure: app.cfg.Structure,
		Prefix:    app.cfg.Prefix,
		Filename:  app.cfg.Filename,
	}, settings)

	destination, err := configuration.Destination(app.cfg.Destination, settings, app.home)
	if err != nil {
		return fmt.Errorf("(app) %w", err)
	}
	if destination, err = filepath.Abs(destination); err != nil {
		return fmt.Errorf("(app) failed to get abs destination: %w", err)
	}

	osOps := &schema.OS{}

	resolver, err := pathing.NewResolver(presets, app.metadataProvider(), app.started)
	if err != nil {
		return fmt.Errorf("(app) %w", err)
	}

	cat, err := catalog.Discover(app.cfg.Source, catalog.Options{
		ExcludeNames:      append(slices.Clone(catalog.DefaultExcludeNames), app.cfg.Exclude...),
		AllowedExtensions: app.cfg.Extensions,
		ExcludeGlobs:      app.cfg.ExcludeGlobs,
	})
	if err != nil {
		return fmt.Errorf("(app) %w", err)
	}

	checksums, err := checksum.NewHandler(app.cfg.Checksum, checksum.DefaultCacheSize, osOps)
	if err != nil {
		return fmt.Errorf("(app) %w", err)
	}

	mode := transfer.ModeCopy
	if app.cfg.Move {
		mode = transfer.ModeMove
	}

	run := report.Run{
		ID:          report.NewRunID(),
		Started:     app.started,
		Source:      cat.Root,
		Destination: destination,
		Mode:        string(mode),
		DryRun:      app.cfg.DryRun,
	}

	rep, err := report.Open(app.paths.Reports, run, app.sinks()...)
	if err != nil {
		return fmt.Errorf("(app) %w", err)
	}

	engine, err := transfer.NewEngine(transfer.Config{
		Source:      cat.Root,
		Destination: destination,
		Mode:        mode,
		DryRun:      app.cfg.DryRun,
	},
		resolver,
		collision.NewResolver(checksums, osOps),
		checksums,
		rep,
		filesystem.NewHandler(osOps, &schema.Unix{}),
		osOps,
	)
	if err != nil {
		_ = rep.Finish(report.Summary{Finished: time.Now()})

		return fmt.Errorf("(app) %w", err)
	}

	if app.receiver != nil {
		engine.OnProgress(app.receiver.Progress)
	}

	naming := resolver.Config()
	slog.Info("Offload configured",
		"runID", run.ID,
		"source", cat.Root,
		"destination", destination,
		"mode", string(engine.Config().Mode),
		"structure", string(naming.Structure),
		"prefix", naming.Prefix,
		"filename", string(naming.Filename),
		"offloadDate", resolver.OffloadDate().Format(time.DateOnly),
		"checksum", string(checksums.Algorithm()),
	)

	res, runErr := engine.Run(ctx, cat)

	summary := report.Summary{
		Finished:         res.Finished,
		Counts:           res.Counts,
		BytesTransferred: res.BytesTransferred,
		Errors:           res.ErrorStrings(),
		Warnings:         res.WarningStrings(),
	}
	if summary.Finished.IsZero() {
		summary.Finished = time.Now()
	}

	if err := rep.Finish(summary); err != nil {
		slog.Error("Failed to finish the report", "err", err)
	}
	slog.Info("Report written", "csv", rep.Path(), "html", rep.HTMLPath())

	if runErr != nil {
		return fmt.Errorf("(app) %w", runErr)
	}

	app.afterRun(rep, res, destination)

	lines := summaryLines(res)
	for _, line := range lines {
		slog.Info(line)
	}
	if app.receiver != nil {
		app.receiver.Finish(lines)
	}

	if res.Failed() {
		return ErrFilesFailed
	}

	return nil
}

// LookupHistory logs every recorded offload of the source file at path,
// oldest first, and returns them.
func (app *App) LookupHistory(path string) ([]report.Entry, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("(app) failed to get abs path: %w", err)
	}

	dbPath := filepath.Join(app.paths.Home, historyFile)
	if _, err := os.Stat(dbPath); err != nil {
		return nil, fmt.Errorf("(app) %w: %w", ErrNoHistory, err)
	}

	history, err := report.OpenHistory(dbPath)
	if err != nil {
		return nil, fmt.Errorf("(app) %w", err)
	}
	defer history.Close()

	entries, err := history.Lookup(abs)
	if err != nil {
		return nil, fmt.Errorf("(app) %w", err)
	}

	if len(entries) == 0 {
		slog.Info("No offloads recorded for this file", "path", abs)

		return entries, nil
	}

	for _, e := range entries {
		slog.Info("Recorded offload",
			"runID", e.RunID,
			"started", e.StartedAt,
			"status", string(e.Row.Status),
			"destination", e.Row.DestinationPath,
			"checksum", firstNonEmpty(e.Row.DestinationChecksum, e.Row.SourceChecksum),
		)
	}

	return entries, nil
}

func (app *App) loadSettings() (configuration.Settings, error) {
	settings, err := app.store.Load()
	if err != nil {
		slog.Warn("Failed to read settings: using defaults", "path", app.store.Path(), "err", err)
		settings = configuration.Settings{}
	}

	if app.cfg.DefaultDestination == "" && !app.cfg.SaveSettings {
		return settings, nil
	}

	if app.cfg.DefaultDestination != "" {
		settings.DefaultDestination = app.cfg.DefaultDestination
	}
	if app.cfg.SaveSettings {
		settings.Structure = firstNonEmpty(app.cfg.Structure, settings.Structure)
		settings.Prefix = firstNonEmpty(app.cfg.Prefix, settings.Prefix)
		settings.Filename = firstNonEmpty(app.cfg.Filename, settings.Filename)

		// Reject presets that would break every later run.
		if _, err := pathing.NewResolver(configuration.Presets(configuration.PresetFlags{}, settings), nil, app.started); err != nil {
			return settings, fmt.Errorf("(app) %w", err)
		}
	}

	if err := app.store.Save(settings); err != nil {
		return settings, fmt.Errorf("(app) %w", err)
	}
	slog.Info("Settings saved", "path", app.store.Path())

	return settings, nil
}

func (app *App) metadataProvider() metadata.Provider {
	chain := metadata.Chain{metadata.NewExifProvider(&schema.OS{})}

	if app.cfg.Exiftool {
		tool := metadata.NewExiftoolProvider()
		if tool.Available() {
			chain = append(chain, tool)
		} else {
			slog.Warn("exiftool requested but not found in PATH")
		}
	}

	return chain
}

func (app *App) sinks() []report.Sink {
	if !app.cfg.History {
		return nil
	}

	history, err := report.OpenHistory(filepath.Join(app.paths.Home, historyFile))
	if err != nil {
		slog.Warn("Failed to open the run history: continuing without", "err", err)

		return nil
	}

	return []report.Sink{history}
}

// afterRun performs the optional post-run steps. Their failures are only
// logged, the files are already where they belong.
func (app *App) afterRun(rep *report.Report, res *transfer.Result, destination string) {
	if app.cfg.ReportCopy != "" {
		if path, err := rep.CopyTo(app.cfg.ReportCopy); err != nil {
			slog.Warn("Failed to save a copy of the report", "err", err)
		} else {
			slog.Info("Report copy saved", "path", path)
		}
	}

	if app.cfg.MetricsFile != "" {
		recorder := metrics.NewRecorder()
		recorder.Observe(res)

		if err := recorder.WriteTextfile(app.cfg.MetricsFile); err != nil {
			slog.Warn("Failed to write metrics", "err", err)
		}
	}

	if !app.cfg.DryRun {
		if err := app.store.SetLatestDestination(destination); err != nil {
			slog.Warn("Failed to remember the destination", "err", err)
		}
	}
}

func summaryLines(res *transfer.Result) []string {
	lines := []string{
		fmt.Sprintf("Successful: %d, Skipped: %d, Failed: %d, Not started: %d",
			res.Counts[schema.StatusSuccessful],
			res.Counts[schema.StatusSkipped],
			res.Counts[schema.StatusFailed],
			res.Counts[schema.StatusNotStarted],
		),
		"Transferred: " + humanize.Bytes(uint64(max(res.BytesTransferred, 0))), //nolint:gosec
	}

	for _, f := range res.DestinationFolders {
		lines = append(lines, "Folder: "+f)
	}
	for _, e := range res.ErrorStrings() {
		lines = append(lines, "Error: "+e)
	}
	for _, w := range res.WarningStrings() {
		lines = append(lines, "Warning: "+w)
	}
	if res.Cancelled {
		lines = append(lines, "Offload was cancelled")
	}

	return lines
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}

	return ""
}

// isFatal reports whether err prevented the run from happening at all.
func isFatal(err error) bool {
	return err != nil && !errors.Is(err, ErrFilesFailed)
}
