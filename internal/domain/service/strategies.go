package service

import (
	"context"
	"errors"

	"MarketPulse/internal/domain/models"
)

// ErrModelUnavailable is returned by a model-backed strategy that cannot serve a call.
var ErrModelUnavailable = errors.New("model unavailable")

// StrategyKind is the outcome of a startup capability probe.
type StrategyKind int

const (
	HeuristicFallback StrategyKind = iota
	ModelBacked
)

func (k StrategyKind) String() string {
	if k == ModelBacked {
		return "model-backed"
	}
	return "heuristic-fallback"
}

// Scorer maps text to a sentiment label and a score in [-1,1].
type Scorer interface {
	Score(text string) (models.Sentiment, float64)
	Kind() StrategyKind
}

// ForecastModel is a probabilistic time-series model (fit + predict in one call).
type ForecastModel interface {
	Predict(ctx context.Context, series []models.TimeSeriesPoint, horizon int) ([]models.ForecastPoint, error)
}

// Forecaster always yields a well-formed outcome, downgrading to a naive projection on failure.
type Forecaster interface {
	Forecast(ctx context.Context, series []models.TimeSeriesPoint, horizon int) models.ForecastOutcome
	Kind() StrategyKind
}

// Summarizer turns headline texts into a short bulleted summary. It never fails.
type Summarizer interface {
	Summarize(ctx context.Context, texts []string, entity, category string) string
	Kind() StrategyKind
}
