package usecase

import (
	"context"
	"errors"

	"MarketPulse/internal/domain/models"
	domrepo "MarketPulse/internal/domain/repository"
	domsvc "MarketPulse/internal/domain/service"
	"MarketPulse/internal/services/features"
	applogger "MarketPulse/pkg/logger"
)

// SourceEmpty tags a forecast request that found no dataset to work from.
const SourceEmpty = "fallback:empty"

type ForecastResult struct {
	Points []models.ForecastPoint
	Source string
}

// ForecastUseCase builds a daily sentiment series from the local dataset and projects it.
type ForecastUseCase struct {
	dataset domrepo.Dataset
	slugs   []string
	engine  domsvc.Forecaster
	log     *applogger.Logger
}

// NewForecastUseCase takes the catalog slugs in order; the first one with a
// dataset is used when the request names no domain.
func NewForecastUseCase(dataset domrepo.Dataset, slugs []string, engine domsvc.Forecaster, log *applogger.Logger) *ForecastUseCase {
	if log == nil {
		log = applogger.Nop()
	}
	return &ForecastUseCase{dataset: dataset, slugs: slugs, engine: engine, log: log}
}

func (u *ForecastUseCase) Forecast(ctx context.Context, company, domain string, days int) ForecastResult {
	if domain == "" {
		domain = u.firstAvailable()
	}
	if domain == "" {
		return ForecastResult{Points: []models.ForecastPoint{}, Source: SourceEmpty}
	}

	rows, err := u.dataset.Load(ctx, domain)
	if err != nil {
		if !errors.Is(err, domrepo.ErrDatasetMissing) {
			u.log.Warn("forecast dataset unreadable", applogger.String("domain", domain), applogger.Error(err))
		}
		return ForecastResult{Points: []models.ForecastPoint{}, Source: SourceEmpty}
	}

	series := features.DailySeries(features.FilterByEntity(rows, company))
	out := u.engine.Forecast(ctx, series, days)
	points := out.Points
	if points == nil {
		points = []models.ForecastPoint{}
	}
	u.log.Debug("forecast computed",
		applogger.String("domain", domain),
		applogger.String("company", company),
		applogger.Int("history", len(series)),
		applogger.Int("horizon", days),
		applogger.String("source", out.Source()),
	)
	return ForecastResult{Points: points, Source: out.Source()}
}

func (u *ForecastUseCase) firstAvailable() string {
	for _, slug := range u.slugs {
		if u.dataset.Exists(slug) {
			return slug
		}
	}
	return ""
}
