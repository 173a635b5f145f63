// Package metrics exposes run counters as Prometheus metrics, either over
// HTTP or as a node-exporter textfile.
package metrics

import (
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/hejijunhao/logsentry/internal/model"
)

const namespace = "logsentry"

// Metrics owns a private registry so that tests and embedded use never
// collide with the global default registry.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	recordsParsed         *prometheus.CounterVec
	recordsSkipped        *prometheus.CounterVec
	findings              *prometheus.CounterVec
	summarizationFailures prometheus.Counter
	runDuration           prometheus.Histogram
}

// New creates and registers the logsentry collectors.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		recordsParsed: prometheus.NewCounterVec(
			prometheus.CounterOpts{Namespace: namespace, Name: "records_parsed_total", Help: "Records turned into log entries, by source format."},
			[]string{"format"},
		),
		recordsSkipped: prometheus.NewCounterVec(
			prometheus.CounterOpts{Namespace: namespace, Name: "records_skipped_total", Help: "Malformed records skipped, by source format."},
			[]string{"format"},
		),
		findings: prometheus.NewCounterVec(
			prometheus.CounterOpts{Namespace: namespace, Name: "findings_total", Help: "Security findings emitted, by finding type."},
			[]string{"type"},
		),
		summarizationFailures: prometheus.NewCounter(
			prometheus.CounterOpts{Namespace: namespace, Name: "summarization_failures_total", Help: "Summaries that fell back to the plain listing."},
		),
		runDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{Namespace: namespace, Name: "run_duration_seconds", Help: "Wall time of one analysis run.", Buckets: prometheus.DefBuckets},
		),
	}
	m.registry.MustRegister(
		m.recordsParsed,
		m.recordsSkipped,
		m.findings,
		m.summarizationFailures,
		m.runDuration,
	)
	return m
}

// ObserveParse adds one source's parse counters.
func (m *Metrics) ObserveParse(format string, stats model.ParseStats) {
	if m == nil {
		return
	}
	m.recordsParsed.WithLabelValues(format).Add(float64(stats.Parsed))
	m.recordsSkipped.WithLabelValues(format).Add(float64(stats.Skipped))
}

// ObserveFindings counts findings by type.
func (m *Metrics) ObserveFindings(events []model.SecurityEvent) {
	if m == nil {
		return
	}
	for _, e := range events {
		m.findings.WithLabelValues(e.Type).Inc()
	}
}

// SummarizationFailed records one degraded summary.
func (m *Metrics) SummarizationFailed() {
	if m == nil {
		return
	}
	m.summarizationFailures.Inc()
}

// ObserveRun records the duration of a run that started at start.
func (m *Metrics) ObserveRun(start time.Time) {
	if m == nil {
		return
	}
	m.runDuration.Observe(time.Since(start).Seconds())
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// WriteTextfile writes the current values to path atomically, for the
// node-exporter textfile collector.
func (m *Metrics) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("metrics: write %s: %w", path, err)
	}
	return nil
}
