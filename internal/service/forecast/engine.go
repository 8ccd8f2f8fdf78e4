package forecast

import (
	"context"
	"fmt"

	"MarketPulse/internal/domain/models"
	domsvc "MarketPulse/internal/domain/service"
	applogger "MarketPulse/pkg/logger"
)

const (
	StrategyAuto  = "auto"
	StrategyModel = "model"
	StrategyNaive = "naive"
)

// DefaultBand is the relative half-width of the naive interval.
const DefaultBand = 0.02

// Prober is implemented by models that can report availability up front.
type Prober interface {
	Probe(ctx context.Context) error
}

// Engine produces forecasts from an optional model, downgrading to the naive
// projection when the model is absent, fails, or returns malformed output.
type Engine struct {
	model domsvc.ForecastModel
	band  float64
	log   *applogger.Logger
}

// NewEngine builds an engine. A nil model makes it purely naive.
func NewEngine(model domsvc.ForecastModel, band float64, log *applogger.Logger) *Engine {
	if band <= 0 {
		band = DefaultBand
	}
	if log == nil {
		log = applogger.Nop()
	}
	return &Engine{model: model, band: band, log: log}
}

// Kind reports whether a model is wired in.
func (e *Engine) Kind() domsvc.StrategyKind {
	if e.model != nil {
		return domsvc.ModelBacked
	}
	return domsvc.HeuristicFallback
}

// Forecast projects horizon days past the end of series. An empty series
// yields an empty outcome.
func (e *Engine) Forecast(ctx context.Context, series []models.TimeSeriesPoint, horizon int) models.ForecastOutcome {
	if len(series) == 0 || horizon <= 0 {
		return models.ForecastOutcome{}
	}
	lastDate := series[len(series)-1].Date

	if e.model != nil {
		points, err := e.model.Predict(ctx, series, horizon)
		if err == nil {
			if conformed, ok := conform(points, horizon, lastDate); ok {
				return models.ForecastOutcome{Points: conformed, UsedFullModel: true}
			}
			err = fmt.Errorf("model returned %d malformed points for horizon %d", len(points), horizon)
		}
		e.log.Warn("forecast model failed, using naive projection",
			applogger.Int("horizon", horizon),
			applogger.Error(err),
		)
	}

	return models.ForecastOutcome{Points: Naive(series, horizon, e.band)}
}

// Select probes model (when it implements Prober) and returns an engine for strategy.
// "model" fails when the probe fails; "auto" degrades to naive.
func Select(ctx context.Context, strategy string, model domsvc.ForecastModel, band float64, log *applogger.Logger) (*Engine, error) {
	if log == nil {
		log = applogger.Nop()
	}
	switch strategy {
	case StrategyNaive:
		return NewEngine(nil, band, log), nil
	case StrategyAuto, StrategyModel, "":
		err := probe(ctx, model)
		if err == nil {
			return NewEngine(model, band, log), nil
		}
		if strategy == StrategyModel {
			return nil, fmt.Errorf("forecast model probe: %w", err)
		}
		log.Warn("forecast model unavailable, using naive projection", applogger.Error(err))
		return NewEngine(nil, band, log), nil
	default:
		return nil, fmt.Errorf("unknown forecast strategy %q", strategy)
	}
}

func probe(ctx context.Context, model domsvc.ForecastModel) error {
	if model == nil {
		return domsvc.ErrModelUnavailable
	}
	if p, ok := model.(Prober); ok {
		return p.Probe(ctx)
	}
	return nil
}

var _ domsvc.Forecaster = (*Engine)(nil)
