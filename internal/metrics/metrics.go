// Package metrics groups the Prometheus instruments exposed on /metrics.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all instruments. Each gateway gets its own registry so
// tests can build them independently.
type Metrics struct {
	registry *prometheus.Registry

	Dispatches       *prometheus.CounterVec
	CallbackRequests *prometheus.CounterVec
	ProviderErrors   *prometheus.CounterVec
}

// New creates a metrics set under the given namespace.
func New(namespace string) *Metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	factory := promauto.With(registry)

	return &Metrics{
		registry: registry,
		Dispatches: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "dispatches_total",
			Help:      "Dispatched operations by name and outcome.",
		}, []string{"operation", "outcome"}),
		CallbackRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "voice_callback_requests_total",
			Help:      "Voice callback requests by resolution.",
		}, []string{"resolution"}),
		ProviderErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "provider_errors_total",
			Help:      "Communication provider errors by operation.",
		}, []string{"operation"}),
	}
}

// ObserveDispatch counts one dispatch outcome. Implements the
// dispatcher's recorder.
func (m *Metrics) ObserveDispatch(operation, outcome string) {
	m.Dispatches.WithLabelValues(operation, outcome).Inc()
	if outcome != "ok" {
		m.ProviderErrors.WithLabelValues(operation).Inc()
	}
}

// ObserveCallback counts one voice callback by how the session was
// resolved: "session_id", "number" or "fallback".
func (m *Metrics) ObserveCallback(resolution string) {
	m.CallbackRequests.WithLabelValues(resolution).Inc()
}

// RegisterSessionGauge exposes the live voice session count.
func (m *Metrics) RegisterSessionGauge(namespace string, count func() int) {
	m.registry.MustRegister(prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "voice_sessions_active",
		Help:      "Voice sessions currently held in the store.",
	}, func() float64 { return float64(count()) }))
}

// Handler serves the registry in Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
