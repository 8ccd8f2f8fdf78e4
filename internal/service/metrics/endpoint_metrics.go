package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Endpoint tracks latency and failures of the public API endpoints.
type Endpoint struct {
	latency *prometheus.HistogramVec
	errors  *prometheus.CounterVec
}

var (
	defaultOnce     sync.Once
	defaultEndpoint *Endpoint
)

// NewEndpoint registers endpoint metrics on reg.
func NewEndpoint(reg prometheus.Registerer) *Endpoint {
	e := &Endpoint{
		latency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "marketpulse",
				Subsystem: "api",
				Name:      "latency_seconds",
				Help:      "Latency of API endpoints",
				Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10, 30, 60},
			},
			[]string{"endpoint"},
		),
		errors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "marketpulse",
				Subsystem: "api",
				Name:      "errors_total",
				Help:      "Errors by API endpoint",
			},
			[]string{"endpoint"},
		),
	}
	reg.MustRegister(e.latency, e.errors)
	return e
}

// Default returns endpoint metrics registered once on the default registry.
func Default() *Endpoint {
	defaultOnce.Do(func() {
		defaultEndpoint = NewEndpoint(prometheus.DefaultRegisterer)
	})
	return defaultEndpoint
}

// Observe records one call to endpoint that started at start.
func (e *Endpoint) Observe(endpoint string, start time.Time, err error) {
	if e == nil {
		return
	}
	e.latency.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
	if err != nil {
		e.errors.WithLabelValues(endpoint).Inc()
	}
}
