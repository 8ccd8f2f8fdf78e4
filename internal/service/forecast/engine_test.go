package forecast

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"MarketPulse/internal/domain/models"
	domsvc "MarketPulse/internal/domain/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubModel struct {
	points   []models.ForecastPoint
	err      error
	probeErr error
}

func (m *stubModel) Predict(context.Context, []models.TimeSeriesPoint, int) ([]models.ForecastPoint, error) {
	return m.points, m.err
}

func (m *stubModel) Probe(context.Context) error { return m.probeErr }

func series(values ...float64) []models.TimeSeriesPoint {
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	out := make([]models.TimeSeriesPoint, len(values))
	for i, v := range values {
		out[i] = models.TimeSeriesPoint{Date: start.AddDate(0, 0, i), Value: v}
	}
	return out
}

func TestNaiveProjection(t *testing.T) {
	out := NewEngine(nil, 0.02, nil).Forecast(context.Background(), series(4, 10), 3)

	assert.False(t, out.UsedFullModel)
	assert.Equal(t, "forecast:naive", out.Source())
	require.Len(t, out.Points, 3)
	for i, p := range out.Points {
		assert.Equal(t, time.Date(2025, 1, 3+i, 0, 0, 0, 0, time.UTC).Format("2006-01-02"), p.Date)
		assert.InDelta(t, 10, p.PointEstimate, 1e-9)
		assert.InDelta(t, 9.8, p.LowerBound, 1e-9)
		assert.InDelta(t, 10.2, p.UpperBound, 1e-9)
	}
}

func TestNaiveKeepsBoundsOrderedForNegativeValues(t *testing.T) {
	out := NewEngine(nil, 0.02, nil).Forecast(context.Background(), series(-0.5), 2)
	for _, p := range out.Points {
		assert.LessOrEqual(t, p.LowerBound, p.PointEstimate)
		assert.LessOrEqual(t, p.PointEstimate, p.UpperBound)
	}
}

func TestNaiveUsesLastFiniteValue(t *testing.T) {
	out := Naive(series(4, 10, math.NaN()), 1, 0.02)
	require.Len(t, out, 1)
	assert.Equal(t, "2025-01-04", out[0].Date)
	assert.InDelta(t, 10, out[0].PointEstimate, 1e-9)
	assert.InDelta(t, 9.8, out[0].LowerBound, 1e-9)
	assert.InDelta(t, 10.2, out[0].UpperBound, 1e-9)

	assert.Empty(t, Naive(series(math.NaN(), math.Inf(1)), 2, 0.02))
}

func TestEmptySeries(t *testing.T) {
	out := NewEngine(&stubModel{}, 0.02, nil).Forecast(context.Background(), nil, 5)
	assert.Empty(t, out.Points)
	assert.False(t, out.UsedFullModel)
}

func TestModelOutputIsConformed(t *testing.T) {
	m := &stubModel{points: []models.ForecastPoint{
		{Date: "1999-01-01", PointEstimate: 0.1, LowerBound: 0.3, UpperBound: 0.0},
		{Date: "1999-01-02", PointEstimate: 0.2, LowerBound: 0.1, UpperBound: 0.3},
	}}
	out := NewEngine(m, 0.02, nil).Forecast(context.Background(), series(0.1, 0.2), 2)

	require.True(t, out.UsedFullModel)
	assert.Equal(t, "forecast:prophet", out.Source())
	assert.Equal(t, "2025-01-03", out.Points[0].Date)
	assert.Equal(t, "2025-01-04", out.Points[1].Date)
	assert.Equal(t, 0.0, out.Points[0].LowerBound)
	assert.Equal(t, 0.3, out.Points[0].UpperBound)
}

func TestModelFailuresDowngrade(t *testing.T) {
	cases := map[string]*stubModel{
		"error":       {err: errors.New("sidecar down")},
		"short":       {points: []models.ForecastPoint{{PointEstimate: 1}}},
		"non-finite":  {points: []models.ForecastPoint{{PointEstimate: math.NaN()}, {PointEstimate: 1}}},
		"infinite-ub": {points: []models.ForecastPoint{{UpperBound: math.Inf(1)}, {}}},
	}
	for name, m := range cases {
		t.Run(name, func(t *testing.T) {
			out := NewEngine(m, 0.02, nil).Forecast(context.Background(), series(1), 2)
			assert.False(t, out.UsedFullModel)
			assert.Len(t, out.Points, 2)
		})
	}
}

func TestSelect(t *testing.T) {
	ctx := context.Background()

	e, err := Select(ctx, StrategyAuto, &stubModel{}, 0.02, nil)
	require.NoError(t, err)
	assert.Equal(t, domsvc.ModelBacked, e.Kind())

	e, err = Select(ctx, StrategyAuto, &stubModel{probeErr: domsvc.ErrModelUnavailable}, 0.02, nil)
	require.NoError(t, err)
	assert.Equal(t, domsvc.HeuristicFallback, e.Kind())

	_, err = Select(ctx, StrategyModel, nil, 0.02, nil)
	assert.ErrorIs(t, err, domsvc.ErrModelUnavailable)

	e, err = Select(ctx, StrategyNaive, &stubModel{}, 0.02, nil)
	require.NoError(t, err)
	assert.Equal(t, domsvc.HeuristicFallback, e.Kind())

	_, err = Select(ctx, "bogus", nil, 0.02, nil)
	assert.Error(t, err)
}
