package analytics

import (
	"context"
	"fmt"
	"time"

	"MarketPulse/internal/domain/models"
	domsvc "MarketPulse/internal/domain/service"
	"MarketPulse/pkg/util"
)

// ProphetForecaster calls a Prophet sidecar: POST /forecast fits the history
// and returns `periods` future rows; GET /health is the capability probe.
type ProphetForecaster struct {
	base *HTTPServiceBase
}

func NewProphetForecaster(base *HTTPServiceBase) *ProphetForecaster {
	return &ProphetForecaster{base: base}
}

type prophetPoint struct {
	DS string  `json:"ds"`
	Y  float64 `json:"y"`
}

type prophetReq struct {
	Series  []prophetPoint `json:"series"`
	Periods int            `json:"periods"`
}

type prophetRow struct {
	DS        string  `json:"ds"`
	YHat      float64 `json:"yhat"`
	YHatLower float64 `json:"yhat_lower"`
	YHatUpper float64 `json:"yhat_upper"`
}

type prophetResp struct {
	Forecast []prophetRow `json:"forecast"`
}

// Probe checks the sidecar's health endpoint.
func (f *ProphetForecaster) Probe(ctx context.Context) error {
	if f == nil || !f.base.Configured() {
		return domsvc.ErrModelUnavailable
	}
	if err := f.base.GetJSON(ctx, "/health", nil); err != nil {
		return fmt.Errorf("%w: %v", domsvc.ErrModelUnavailable, err)
	}
	return nil
}

// Predict fits the full history and returns the trailing `horizon` rows.
func (f *ProphetForecaster) Predict(ctx context.Context, series []models.TimeSeriesPoint, horizon int) ([]models.ForecastPoint, error) {
	req := prophetReq{Series: make([]prophetPoint, 0, len(series)), Periods: horizon}
	for _, p := range series {
		req.Series = append(req.Series, prophetPoint{DS: util.FormatDate(p.Date), Y: p.Value})
	}

	var resp prophetResp
	if err := f.base.PostJSON(ctx, "/forecast", req, &resp); err != nil {
		return nil, fmt.Errorf("prophet forecast: %w", err)
	}

	rows := resp.Forecast
	if len(rows) > horizon {
		rows = rows[len(rows)-horizon:]
	}
	out := make([]models.ForecastPoint, 0, len(rows))
	for _, r := range rows {
		out = append(out, models.ForecastPoint{
			Date:          util.NormalizeDate(r.DS, time.Time{}),
			PointEstimate: r.YHat,
			LowerBound:    r.YHatLower,
			UpperBound:    r.YHatUpper,
		})
	}
	return out, nil
}

var _ domsvc.ForecastModel = (*ProphetForecaster)(nil)
