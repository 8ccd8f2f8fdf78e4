package repository

import (
	"context"
	"errors"

	"MarketPulse/internal/domain/models"
)

// ErrDatasetMissing is returned when a category has no local dataset file yet.
var ErrDatasetMissing = errors.New("dataset missing")

// Provider is one external content source. Fetch never fails; problems are
// reported through the outcome's status and tag.
type Provider interface {
	Name() string
	Class() models.ProviderClass
	Fetch(ctx context.Context, query string, limit int) models.ProviderOutcome
}

// Dataset reads and atomically replaces the per-category fallback files.
type Dataset interface {
	Load(ctx context.Context, category string) ([]models.SourceRecord, error)
	Replace(ctx context.Context, category string, records []models.SourceRecord) error
	Exists(category string) bool
}

// AlertSink persists alerts (log file, message bus, analytics store).
type AlertSink interface {
	Name() string
	Save(ctx context.Context, a models.Alert) error
}

// RecordArchive keeps scored live records for later analysis.
type RecordArchive interface {
	Archive(ctx context.Context, query, provenance string, records []models.SourceRecord) error
}

type Metrics interface {
	RecordProviderOutcome(provider, status string)
	RecordRetry(op, class string)
	RecordFallback(tier string)
	RecordStrategy(component, kind string)
	RecordLatency(op string, seconds float64)
}

// NopMetrics discards everything.
type NopMetrics struct{}

func (NopMetrics) RecordProviderOutcome(string, string) {}
func (NopMetrics) RecordRetry(string, string)           {}
func (NopMetrics) RecordFallback(string)                {}
func (NopMetrics) RecordStrategy(string, string)        {}
func (NopMetrics) RecordLatency(string, float64)        {}
