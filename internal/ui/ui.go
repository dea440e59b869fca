// Package ui implements a command-line user interface using [tea].
package ui

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertwitch/offload/internal/schema"
)

// logBufferSize is the number of log lines buffered for the [tea.Program].
const logBufferSize = 1000

// LogMsg is one log line shown in the log viewport.
type LogMsg string

type teaProgramProvider interface {
	Send(msg tea.Msg)
}

// Handler is the principal implementation of a user interface [Handler].
type Handler struct {
	program *tea.Program

	LogWriter *TeaLogWriter

	Ready  atomic.Bool
	Failed atomic.Bool
}

// NewHandler returns a pointer to a new user interface [Handler]. The cancel
// function is called when the user requests the run to be cancelled.
func NewHandler(ctx context.Context, cancel context.CancelFunc, title string) *Handler {
	handler := &Handler{}

	model := NewTeaModel(handler, title, cancel)
	handler.program = tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	handler.LogWriter = NewTeaLogWriter(handler.program)

	return handler
}

// Progress forwards a progress notification to the user interface. It is
// safe to call from any goroutine.
func (uiHandler *Handler) Progress(p schema.Progress) {
	uiHandler.program.Send(ProgressMsg(p))
}

// Finish shows the end-of-run summary lines. The user interface stays open
// until the user quits it.
func (uiHandler *Handler) Finish(summary []string) {
	uiHandler.program.Send(SummaryMsg(summary))
}

// Launch starts the command-line user interface (the [tea.Program]).
func (uiHandler *Handler) Launch() error {
	defer uiHandler.LogWriter.Stop()

	if _, err := uiHandler.program.Run(); err != nil {
		uiHandler.Failed.Store(true)

		return fmt.Errorf("(ui) %w", err)
	}

	return nil
}

// TeaLogWriter is an [io.Writer] for a [slog.Handler] that forwards each
// written record to a [tea.Program] as one [LogMsg] per line. Records are
// queued, so a slow user interface never blocks the offload. Records that do
// not fit into the queue are counted and dropped.
type TeaLogWriter struct {
	program teaProgramProvider
	lines   chan LogMsg
	done    chan struct{}
	stopped atomic.Bool
	dropped atomic.Int64
}

// NewTeaLogWriter returns a pointer to a new [TeaLogWriter] and starts
// forwarding. It must be stopped with [TeaLogWriter.Stop].
func NewTeaLogWriter(program teaProgramProvider) *TeaLogWriter {
	wr := &TeaLogWriter{
		program: program,
		lines:   make(chan LogMsg, logBufferSize),
		done:    make(chan struct{}),
	}

	go wr.forward()

	return wr
}

// Stop ends forwarding. Records written afterwards are discarded.
func (wr *TeaLogWriter) Stop() {
	if wr.stopped.CompareAndSwap(false, true) {
		close(wr.done)
	}
}

// Dropped returns the number of lines discarded because the queue was full.
func (wr *TeaLogWriter) Dropped() int64 {
	return wr.dropped.Load()
}

func (wr *TeaLogWriter) forward() {
	for {
		select {
		case <-wr.done:
			return
		case line := <-wr.lines:
			wr.program.Send(line)
		}
	}
}

// Write splits p into lines and queues each of them. It never blocks.
func (wr *TeaLogWriter) Write(p []byte) (int, error) {
	if wr.stopped.Load() {
		return len(p), nil
	}

	for line := range strings.Lines(string(p)) {
		select {
		case wr.lines <- LogMsg(line):
		default:
			wr.dropped.Add(1)
		}
	}

	return len(p), nil
}
