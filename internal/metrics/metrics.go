// Package metrics exposes Prometheus instrumentation for work-log operations.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics owns a private registry so tests and multiple loggers never
// collide on the global default registerer.
type Metrics struct {
	Registry *prometheus.Registry

	Operations *prometheus.CounterVec
	Duration   *prometheus.HistogramVec
	ReportRows prometheus.Gauge
}

func New() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		Operations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "worklog_operations_total",
				Help: "Work-log operations by outcome",
			},
			[]string{"operation", "result"},
		),
		Duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "worklog_operation_duration_seconds",
				Help:    "Work-log operation latency in seconds",
				Buckets: []float64{.001, .005, .01, .05, .1, .5, 1, 5, 30},
			},
			[]string{"operation"},
		),
		ReportRows: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "worklog_report_rows",
				Help: "Rows in the most recently generated report",
			},
		),
	}
	m.Registry.MustRegister(m.Operations, m.Duration, m.ReportRows)
	return m
}

// Observe records one finished operation.
func (m *Metrics) Observe(operation string, d time.Duration, err error) {
	result := "success"
	if err != nil {
		result = "error"
	}
	m.Operations.WithLabelValues(operation, result).Inc()
	m.Duration.WithLabelValues(operation).Observe(d.Seconds())
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{Registry: m.Registry})
}

// WriteTextfile dumps the registry for the node-exporter textfile collector.
// One-shot CLI runs use it since nothing scrapes them.
func (m *Metrics) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, m.Registry)
}
