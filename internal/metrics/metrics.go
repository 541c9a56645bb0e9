package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the Prometheus collectors for the checkout pipeline.
type Metrics struct {
	registry        *prometheus.Registry
	Checkouts       *prometheus.CounterVec
	Cancellations   prometheus.Counter
	OrderTotalCents prometheus.Histogram
}

// New registers the marketplace collectors on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()

	m := &Metrics{
		registry: reg,
		Checkouts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "marketplace",
			Name:      "checkouts_total",
			Help:      "Checkout attempts by result.",
		}, []string{"result"}),
		Cancellations: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "marketplace",
			Name:      "order_cancellations_total",
			Help:      "Orders cancelled with stock restored.",
		}),
		OrderTotalCents: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "marketplace",
			Name:      "order_total_cents",
			Help:      "Total value of created orders in cents.",
			Buckets:   prometheus.ExponentialBuckets(100, 10, 6),
		}),
	}

	reg.MustRegister(m.Checkouts, m.Cancellations, m.OrderTotalCents)
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
