package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecorderCounts(t *testing.T) {
	reg := prometheus.NewRegistry()
	r := NewWithRegistry(reg)

	r.RecordProviderOutcome("gnews", "ok")
	r.RecordProviderOutcome("gnews", "ok")
	r.RecordProviderOutcome("serp", "missing-credential")
	r.RecordFallback("news")

	assert.Equal(t, 2.0, testutil.ToFloat64(r.providerOutcomes.WithLabelValues("gnews", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.fallbacks.WithLabelValues("news")))
}

func TestRecordStrategyKeepsOneKindPerComponent(t *testing.T) {
	r := NewWithRegistry(prometheus.NewRegistry())

	r.RecordStrategy("forecast", "model-backed")
	r.RecordStrategy("forecast", "heuristic-fallback")

	assert.Equal(t, 1, testutil.CollectAndCount(r.strategies))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.strategies.WithLabelValues("forecast", "heuristic-fallback")))
}
