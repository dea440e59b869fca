// Offload copies or moves the files of a memory card or folder into an
// organized destination tree, verifying every copy by checksum and writing
// a report of the run.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"runtime"
	"sync"
	"syscall"
	"time"

	"github.com/alexflint/go-arg"
	"github.com/desertwitch/offload/internal/configuration"
	"github.com/desertwitch/offload/internal/ui"
	"golang.org/x/term"
)

const (
	stackTraceBufMax = 1 << 24
	uiPollInterval   = 10 * time.Millisecond
)

//nolint:gochecknoglobals
var (
	ExitCode = 0
	Version  string
)

func setupSignalHandlers(cancel context.CancelFunc) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)

	go func() {
		<-sigChan
		slog.Warn("Received termination signal: finishing the current file")
		cancel()
	}()

	sigChan2 := make(chan os.Signal, 1)
	signal.Notify(sigChan2, syscall.SIGUSR1)
	go func() {
		for range sigChan2 {
			buf := make([]byte, stackTraceBufMax)
			stacklen := runtime.Stack(buf, true)
			os.Stderr.Write(buf[:stacklen])
		}
	}()
}

func startApp(ctx context.Context, wg *sync.WaitGroup, app *App, uiHandler *ui.Handler) {
	defer wg.Done()

	if uiHandler != nil {
		slog.Info("Waiting for UI...")
		for !uiHandler.Ready.Load() && !uiHandler.Failed.Load() && ctx.Err() == nil {
			time.Sleep(uiPollInterval)
		}
	}

	if err := app.Launch(ctx); err != nil {
		ExitCode = 1
		if isFatal(err) {
			slog.Error("Offload failed", "err", err)
		} else {
			slog.Warn("Offload finished with failed files")
		}
	}
}

func startUI(wg *sync.WaitGroup, logManager *SlogManager, uiHandler *ui.Handler, debug bool) {
	defer wg.Done()

	terminal, hasTerminal := logManager.GetHandler(handlerTerminal)
	logManager.RemoveHandler(handlerTerminal)
	logManager.AddHandler(handlerUI, newTerminalHandler(uiHandler.LogWriter, debug))

	defer func() {
		logManager.RemoveHandler(handlerUI)
		if hasTerminal {
			logManager.AddHandler(handlerTerminal, terminal)
		}
	}()

	if err := uiHandler.Launch(); err != nil {
		slog.Error("UI failure: falling back to terminal.", "err", err)
	}
}

func main() {
	defer func() {
		os.Exit(ExitCode)
	}()

	var cfg Config
	arg.MustParse(&cfg)

	logManager := NewSlogManager()
	logManager.AddHandler(handlerTerminal, newTerminalHandler(os.Stdout, cfg.DebugLog))
	slog.SetDefault(slog.New(logManager))

	if err := cfg.validate(); err != nil {
		slog.Error("Invalid arguments", "err", err)
		ExitCode = 1

		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	setupSignalHandlers(cancel)

	profiler := startCPUProfiler(cfg.CPUProfile)
	defer profiler.Stop()

	memObserver := newMemoryObserver(ctx)
	defer memObserver.Stop()

	started := time.Now()

	paths, err := configuration.DefaultAppPaths()
	if err == nil {
		err = paths.Ensure()
	}
	if err != nil {
		slog.Error("Failed to establish the application data folder", "err", err)
		ExitCode = 1

		return
	}

	if h, closer, err := openLogFile(paths.LogFile(started)); err != nil {
		slog.Warn("Logging to terminal only", "err", err)
	} else {
		defer closer.Close()
		logManager.AddHandler(handlerFile, h)
	}

	app := NewApp(&cfg, paths, started)

	if cfg.HistoryLookup != "" {
		if _, err := app.LookupHistory(cfg.HistoryLookup); err != nil {
			slog.Error("History lookup failed", "err", err)
			ExitCode = 1
		}

		return
	}

	var uiHandler *ui.Handler
	if cfg.UI && term.IsTerminal(int(os.Stdout.Fd())) { //nolint:gosec
		uiHandler = ui.NewHandler(ctx, cancel, "Offload: "+cfg.Source)
		app.SetProgressReceiver(uiHandler)
	}

	var wg sync.WaitGroup

	if uiHandler != nil {
		wg.Add(1)
		go startUI(&wg, logManager, uiHandler, cfg.DebugLog)
	}

	wg.Add(1)
	go startApp(ctx, &wg, app, uiHandler)

	wg.Wait()
}
