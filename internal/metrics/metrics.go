// Package metrics exposes ytpanel's Prometheus metrics.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "ytpanel"

// Metrics holds every collector on a private registry. A nil *Metrics is valid
// and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	InboundMessages  *prometheus.CounterVec
	UpstreamRequests *prometheus.CounterVec
	UpstreamDuration *prometheus.HistogramVec
	ShortsFallbacks  prometheus.Counter
	PanelsOpen       prometheus.Gauge
}

// New registers all collectors on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		InboundMessages: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "inbound_messages_total",
			Help:      "Inbound panel messages by command.",
		}, []string{"kind"}),
		UpstreamRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "upstream_requests_total",
			Help:      "YouTube Data API calls by endpoint and outcome.",
		}, []string{"endpoint", "outcome"}),
		UpstreamDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "upstream_request_duration_seconds",
			Help:      "YouTube Data API call latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"endpoint"}),
		ShortsFallbacks: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "shorts_fallbacks_total",
			Help:      "Shorts batches degraded to the seed video after the related fetch failed.",
		}),
		PanelsOpen: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "panels_open",
			Help:      "Panels currently registered with the host.",
		}),
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveUpstream matches youtube.Observer.
func (m *Metrics) ObserveUpstream(endpoint string, elapsed time.Duration, err error) {
	if m == nil {
		return
	}
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	m.UpstreamRequests.WithLabelValues(endpoint, outcome).Inc()
	m.UpstreamDuration.WithLabelValues(endpoint).Observe(elapsed.Seconds())
}

// Inbound counts one inbound message.
func (m *Metrics) Inbound(kind string) {
	if m == nil {
		return
	}
	m.InboundMessages.WithLabelValues(kind).Inc()
}

// ShortsFallback counts one degraded shorts batch.
func (m *Metrics) ShortsFallback() {
	if m == nil {
		return
	}
	m.ShortsFallbacks.Inc()
}

// SetPanelsOpen records the number of registered panels.
func (m *Metrics) SetPanelsOpen(n int) {
	if m == nil {
		return
	}
	m.PanelsOpen.Set(float64(n))
}
