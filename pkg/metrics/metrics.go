// Package metrics holds the Prometheus collectors for script evaluation
// and mesh export.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Evaluation outcomes used as the "outcome" label.
const (
	OutcomeOK        = "ok"
	OutcomeEvalError = "eval_error"
	OutcomeFatal     = "fatal"
)

// Metrics bundles the collectors on a private registry so several
// instances can coexist in tests.
type Metrics struct {
	registry *prometheus.Registry

	evaluations  *prometheus.CounterVec
	evalDuration prometheus.Histogram
	faces        prometheus.Histogram
	exports      *prometheus.CounterVec
}

// New creates the collectors and registers them, plus the Go runtime and
// process collectors, on a fresh registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		evaluations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "polyops_evaluations_total",
				Help: "Total number of script evaluations by outcome",
			},
			[]string{"outcome"},
		),
		evalDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "polyops_eval_duration_seconds",
				Help:    "Duration of script evaluations",
				Buckets: prometheus.ExponentialBuckets(0.001, 4, 8),
			},
		),
		faces: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "polyops_result_faces",
				Help:    "Face count of successfully evaluated polyhedra",
				Buckets: prometheus.ExponentialBuckets(4, 4, 10),
			},
		),
		exports: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "polyops_exports_total",
				Help: "Total number of mesh exports by format",
			},
			[]string{"format"},
		),
	}
	m.registry.MustRegister(
		m.evaluations,
		m.evalDuration,
		m.faces,
		m.exports,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// ObserveEval records one evaluation. faces is ignored unless the outcome
// is OutcomeOK.
func (m *Metrics) ObserveEval(outcome string, d time.Duration, faces int) {
	m.evaluations.WithLabelValues(outcome).Inc()
	m.evalDuration.Observe(d.Seconds())
	if outcome == OutcomeOK {
		m.faces.Observe(float64(faces))
	}
}

// ObserveExport records one mesh export.
func (m *Metrics) ObserveExport(format string) {
	m.exports.WithLabelValues(format).Inc()
}

// Registry exposes the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
