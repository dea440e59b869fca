// Package metrics exports the outcome of offload runs in the Prometheus text
// format, for collection through the node exporter's textfile collector.
package metrics

import (
	"fmt"

	"github.com/desertwitch/offload/internal/schema"
	"github.com/desertwitch/offload/internal/transfer"
	"github.com/prometheus/client_golang/prometheus"
)

// Recorder holds the gauges of the last observed run in its own registry.
type Recorder struct {
	registry *prometheus.Registry

	files        *prometheus.GaugeVec
	bytes        prometheus.Gauge
	duration     prometheus.Gauge
	lastRun      prometheus.Gauge
	errors       prometheus.Gauge
	warnings     prometheus.Gauge
	destinations prometheus.Gauge
}

// NewRecorder returns a pointer to a new [Recorder].
func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		files: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "offload_files",
			Help: "Files of the last run by outcome.",
		}, []string{"status"}),
		bytes: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "offload_bytes_transferred",
			Help: "Bytes written to the destination in the last run, including copies that later failed verification.",
		}),
		duration: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "offload_run_duration_seconds",
			Help: "Wall-clock duration of the last run.",
		}),
		lastRun: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "offload_last_run_timestamp_seconds",
			Help: "Unix time the last run finished.",
		}),
		errors: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "offload_errors",
			Help: "Per-file errors of the last run.",
		}),
		warnings: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "offload_warnings",
			Help: "Per-file warnings of the last run.",
		}),
		destinations: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "offload_destination_folders",
			Help: "Destination folders used by the last run.",
		}),
	}

	r.registry.MustRegister(r.files, r.bytes, r.duration, r.lastRun, r.errors, r.warnings, r.destinations)

	return r
}

// Observe sets all gauges from a finished run.
func (r *Recorder) Observe(res *transfer.Result) {
	for _, status := range schema.Statuses {
		r.files.WithLabelValues(string(status)).Set(float64(res.Counts[status]))
	}

	r.bytes.Set(float64(res.BytesTransferred))
	r.duration.Set(res.Finished.Sub(res.Started).Seconds())
	r.lastRun.Set(float64(res.Finished.Unix()))
	r.errors.Set(float64(len(res.Errors)))
	r.warnings.Set(float64(len(res.Warnings)))
	r.destinations.Set(float64(len(res.DestinationFolders)))
}

// WriteTextfile atomically writes all gauges to path.
func (r *Recorder) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("(metrics) failed to write textfile: %w", err)
	}

	return nil
}
