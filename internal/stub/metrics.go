package stub

import (
	"net/http"
	"time"

	"github.com/davebream/rpcstub/internal/protocol"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const metricsNamespace = "rpcstub"

// Metrics counts handled calls per method label. A nil *Metrics is a no-op.
type Metrics struct {
	gatherer prometheus.Gatherer
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewMetrics registers the stub collectors on a fresh registry.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		gatherer: reg,
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Name:      "requests_total",
				Help:      "Number of JSON-RPC calls handled, by method.",
			},
			[]string{"method"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: metricsNamespace,
				Name:      "request_duration_seconds",
				Help:      "JSON-RPC call handling time, by method.",
			},
			[]string{"method"},
		),
	}
	reg.MustRegister(m.requests, m.duration)

	labels := append(protocol.Methods(), protocol.LabelUnknown, protocol.LabelInvalidJSON)
	for _, label := range labels {
		m.requests.WithLabelValues(label)
		m.duration.WithLabelValues(label)
	}
	return m
}

func (m *Metrics) observe(label string, d time.Duration) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(label).Inc()
	m.duration.WithLabelValues(label).Observe(d.Seconds())
}

// Handler exposes the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}
