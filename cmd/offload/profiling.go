package main

import (
	"context"
	"log/slog"
	"os"
	"runtime"
	"runtime/pprof"
	"sync/atomic"
	"time"

	"github.com/dustin/go-humanize"
)

// memoryMonitorInterval is the interval at which a [memoryObserver] samples.
const memoryMonitorInterval = 250 * time.Millisecond

// memoryObserver tracks the peak heap allocation of a run, which is bounded
// by the size of the largest file read whole.
type memoryObserver struct {
	maxAlloc atomic.Uint64
	stopChan chan struct{}
	doneChan chan struct{}
}

func newMemoryObserver(ctx context.Context) *memoryObserver {
	obs := &memoryObserver{
		stopChan: make(chan struct{}),
		doneChan: make(chan struct{}),
	}
	go obs.monitor(ctx)

	return obs
}

// Stop ends the sampling and logs the peak allocation.
func (o *memoryObserver) Stop() {
	close(o.stopChan)
	<-o.doneChan
	slog.Debug("Memory consumption peaked", "maxAlloc", humanize.Bytes(o.maxAlloc.Load()))
}

func (o *memoryObserver) monitor(ctx context.Context) {
	defer close(o.doneChan)

	ticker := time.NewTicker(memoryMonitorInterval)
	defer ticker.Stop()

	for {
		select {
		case <-o.stopChan:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			var m runtime.MemStats
			runtime.ReadMemStats(&m)

			if m.Alloc > o.maxAlloc.Load() {
				o.maxAlloc.Store(m.Alloc)
			}
		}
	}
}

// cpuProfiler writes a CPU profile for the lifetime of the program when a
// path was given.
type cpuProfiler struct {
	file *os.File
}

func startCPUProfiler(path string) *cpuProfiler {
	if path == "" {
		return &cpuProfiler{}
	}

	f, err := os.Create(path)
	if err != nil {
		slog.Error("Could not create cpu profile", "err", err)

		return &cpuProfiler{}
	}

	if err := pprof.StartCPUProfile(f); err != nil {
		slog.Error("Could not start cpu profile", "err", err)
		f.Close()

		return &cpuProfiler{}
	}

	return &cpuProfiler{file: f}
}

func (p *cpuProfiler) Stop() {
	if p.file == nil {
		return
	}

	pprof.StopCPUProfile()
	p.file.Close()
}
