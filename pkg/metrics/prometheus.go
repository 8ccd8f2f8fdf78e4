package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements the pipeline's metrics port using Prometheus.
type Recorder struct {
	providerOutcomes *prometheus.CounterVec
	retries          *prometheus.CounterVec
	fallbacks        *prometheus.CounterVec
	strategies       *prometheus.GaugeVec
	latency          *prometheus.HistogramVec
}

// New registers the recorder on the default Prometheus registry.
func New() *Recorder {
	return NewWithRegistry(prometheus.DefaultRegisterer)
}

// NewWithRegistry registers the recorder's collectors on reg.
func NewWithRegistry(reg prometheus.Registerer) *Recorder {
	f := promauto.With(reg)
	return &Recorder{
		providerOutcomes: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "marketpulse_provider_outcomes_total",
				Help: "Provider fetch outcomes by provider and status",
			},
			[]string{"provider", "status"},
		),
		retries: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "marketpulse_retries_total",
				Help: "Retried attempts by operation and error class",
			},
			[]string{"operation", "class"},
		),
		fallbacks: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "marketpulse_fallbacks_total",
				Help: "Requests served by each fallback tier",
			},
			[]string{"tier"},
		),
		strategies: f.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "marketpulse_strategy_info",
				Help: "Selected strategy per component (1 = active)",
			},
			[]string{"component", "kind"},
		),
		latency: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "marketpulse_operation_duration_seconds",
				Help:    "Duration of operations in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
	}
}

// RecordProviderOutcome counts one provider fetch by status (ok, empty, error, missing-credential).
func (r *Recorder) RecordProviderOutcome(provider, status string) {
	r.providerOutcomes.WithLabelValues(provider, status).Inc()
}

// RecordRetry counts a retried attempt.
func (r *Recorder) RecordRetry(op, class string) {
	r.retries.WithLabelValues(op, class).Inc()
}

// RecordFallback counts a request served by tier (news, social, none, local-dataset).
func (r *Recorder) RecordFallback(tier string) {
	r.fallbacks.WithLabelValues(tier).Inc()
}

// RecordStrategy marks kind as the active strategy for component.
func (r *Recorder) RecordStrategy(component, kind string) {
	r.strategies.DeletePartialMatch(prometheus.Labels{"component": component})
	r.strategies.WithLabelValues(component, kind).Set(1)
}

// RecordLatency records operation latency in seconds.
func (r *Recorder) RecordLatency(op string, seconds float64) {
	r.latency.WithLabelValues(op).Observe(seconds)
}
