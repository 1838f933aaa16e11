// Package metrics collects per-run generation counters and exports them
// in the Prometheus text format for the node exporter textfile collector.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the collectors for one generation run.
type Metrics struct {
	registry *prometheus.Registry

	FilesWritten   prometheus.Counter
	BytesWritten   prometheus.Counter
	NotesGenerated prometheus.Counter
	NotesSkipped   prometheus.Counter
	NotesFailed    prometheus.Counter
	NoteDuration   prometheus.Histogram
	LastRun        prometheus.Gauge
}

// New registers a fresh set of collectors on their own registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	f := promauto.With(reg)

	return &Metrics{
		registry: reg,

		// Counters
		FilesWritten: f.NewCounter(prometheus.CounterOpts{
			Name: "notegen_files_written_total",
			Help: "WAV files written",
		}),
		BytesWritten: f.NewCounter(prometheus.CounterOpts{
			Name: "notegen_bytes_written_total",
			Help: "Bytes of WAV data written",
		}),
		NotesGenerated: f.NewCounter(prometheus.CounterOpts{
			Name: "notegen_notes_generated_total",
			Help: "Note directories generated",
		}),
		NotesSkipped: f.NewCounter(prometheus.CounterOpts{
			Name: "notegen_notes_skipped_total",
			Help: "Notes skipped because their directory already existed",
		}),
		NotesFailed: f.NewCounter(prometheus.CounterOpts{
			Name: "notegen_notes_failed_total",
			Help: "Notes that failed to generate",
		}),

		// Histograms
		NoteDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "notegen_note_duration_seconds",
			Help:    "Time to render and write all files of one note",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}),

		// Gauges
		LastRun: f.NewGauge(prometheus.GaugeOpts{
			Name: "notegen_last_run_timestamp_seconds",
			Help: "Unix time the last run finished",
		}),
	}
}

// MarkFinished records the end of a run.
func (m *Metrics) MarkFinished(t time.Time) {
	m.LastRun.Set(float64(t.Unix()))
}

// WriteTextfile writes all collectors to path atomically.
func (m *Metrics) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, m.registry)
}
