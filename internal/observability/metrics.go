// Package observability provides Prometheus metrics for generator runs.
package observability

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Namespace prefixes every metric name.
const Namespace = "whitepaper_gen"

// Metrics holds the counters of one generator run.
type Metrics struct {
	registry *prometheus.Registry

	ArtifactsWritten  *prometheus.CounterVec
	PlaceholderTables *prometheus.CounterVec
	DegradedInputs    *prometheus.CounterVec
	FiguresSkipped    *prometheus.CounterVec
	RunsTotal         *prometheus.CounterVec
}

// NewMetrics creates run metrics registered on a fresh registry, so repeated
// runs in one process never collide.
func NewMetrics(tool string) *Metrics {
	reg := prometheus.NewRegistry()
	f := promauto.With(reg)
	labels := prometheus.Labels{"tool": tool}

	return &Metrics{
		registry: reg,
		ArtifactsWritten: f.NewCounterVec(prometheus.CounterOpts{
			Namespace:   Namespace,
			Subsystem:   "output",
			Name:        "artifacts_written_total",
			Help:        "Total number of output files written by kind",
			ConstLabels: labels,
		}, []string{"kind"}),
		PlaceholderTables: f.NewCounterVec(prometheus.CounterOpts{
			Namespace:   Namespace,
			Subsystem:   "output",
			Name:        "placeholder_tables_total",
			Help:        "Total number of tables rendered with only a placeholder row",
			ConstLabels: labels,
		}, []string{"table"}),
		DegradedInputs: f.NewCounterVec(prometheus.CounterOpts{
			Namespace:   Namespace,
			Subsystem:   "input",
			Name:        "degraded_total",
			Help:        "Total number of inputs replaced by defaults, by input and reason",
			ConstLabels: labels,
		}, []string{"input", "reason"}),
		FiguresSkipped: f.NewCounterVec(prometheus.CounterOpts{
			Namespace:   Namespace,
			Subsystem:   "output",
			Name:        "figures_skipped_total",
			Help:        "Total number of figures not produced, by reason",
			ConstLabels: labels,
		}, []string{"reason"}),
		RunsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace:   Namespace,
			Subsystem:   "pipeline",
			Name:        "runs_total",
			Help:        "Total number of pipeline runs by status",
			ConstLabels: labels,
		}, []string{"status"}),
	}
}

// Registry returns the registry holding the run metrics.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// RecordArtifact counts a written file.
func (m *Metrics) RecordArtifact(kind string, placeholder bool, name string) {
	m.ArtifactsWritten.WithLabelValues(kind).Inc()
	if placeholder {
		m.PlaceholderTables.WithLabelValues(name).Inc()
	}
}

// RecordDegraded counts an input replaced by its default.
func (m *Metrics) RecordDegraded(input, reason string) {
	m.DegradedInputs.WithLabelValues(input, reason).Inc()
}

// RecordFigureSkipped counts a figure that was not produced.
func (m *Metrics) RecordFigureSkipped(reason string) {
	m.FiguresSkipped.WithLabelValues(reason).Inc()
}

// RecordRun counts a finished run.
func (m *Metrics) RecordRun(err error) {
	status := "success"
	if err != nil {
		status = "failure"
	}
	m.RunsTotal.WithLabelValues(status).Inc()
}

// WriteTextfile writes the run metrics in the node-exporter textfile format.
// An empty path is a no-op.
func (m *Metrics) WriteTextfile(path string) error {
	if path == "" {
		return nil
	}
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}
