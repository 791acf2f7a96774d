// Package observability holds Prometheus metrics and logger construction.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters and histograms for the API.
type Metrics struct {
	Extractions        *prometheus.CounterVec // labels: product, outcome={ok,error}
	ExtractionDuration prometheus.Histogram
	HTTPRequests       *prometheus.CounterVec // labels: route, status
}

func newMetrics() *Metrics {
	return &Metrics{
		Extractions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "swath_api",
			Name:      "extractions_total",
			Help:      "Point extractions by product and outcome.",
		}, []string{"product", "outcome"}),
		ExtractionDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "swath_api",
			Name:      "extraction_duration_seconds",
			Help:      "Duration of a complete load-calibrate-query cycle.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "swath_api",
			Name:      "http_requests_total",
			Help:      "HTTP requests by route and status code.",
		}, []string{"route", "status"}),
	}
}

// NewMetrics creates and registers all metrics with the default Prometheus
// registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(m.Extractions, m.ExtractionDuration, m.HTTPRequests)
	return m
}

// NewMetricsForTesting creates Metrics without registering them, avoiding
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

// ObserveExtraction records one extraction attempt.
func (m *Metrics) ObserveExtraction(product string, err error, seconds float64) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.Extractions.WithLabelValues(product, outcome).Inc()
	m.ExtractionDuration.Observe(seconds)
}
