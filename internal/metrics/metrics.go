// Package metrics exports Prometheus metrics for calls made to the
// simplification service.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	OutcomeOK    = "ok"
	OutcomeError = "error"
)

// Metrics is safe to use as a nil pointer; every method is then a no-op.
type Metrics struct {
	registry *prometheus.Registry

	simplifyTotal   *prometheus.CounterVec
	simplifyLatency prometheus.Histogram
	healthTotal     *prometheus.CounterVec
	sessions        prometheus.Gauge
}

func New() *Metrics {
	registry := prometheus.NewRegistry()
	m := &Metrics{
		registry: registry,
		simplifyTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "legalease_simplify_requests_total",
				Help: "Calls to the /simplify endpoint by outcome",
			},
			[]string{"outcome"},
		),
		simplifyLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "legalease_simplify_duration_seconds",
			Help:    "Latency of /simplify calls",
			Buckets: []float64{0.25, 0.5, 1, 2, 5, 10, 20, 30},
		}),
		healthTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "legalease_health_checks_total",
				Help: "Health probes of the simplification service by resulting status",
			},
			[]string{"status"},
		),
		sessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "legalease_active_sessions",
			Help: "Browser sessions currently holding translator state",
		}),
	}
	registry.MustRegister(
		m.simplifyTotal,
		m.simplifyLatency,
		m.healthTotal,
		m.sessions,
		collectors.NewGoCollector(),
	)
	return m
}

func (m *Metrics) ObserveSimplify(outcome string, d time.Duration) {
	if m == nil {
		return
	}
	m.simplifyTotal.WithLabelValues(outcome).Inc()
	m.simplifyLatency.Observe(d.Seconds())
}

func (m *Metrics) ObserveHealth(status string) {
	if m == nil {
		return
	}
	m.healthTotal.WithLabelValues(status).Inc()
}

func (m *Metrics) SetSessions(n int) {
	if m == nil {
		return
	}
	m.sessions.Set(float64(n))
}

func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
