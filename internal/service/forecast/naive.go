package forecast

import (
	"math"
	"time"

	"MarketPulse/internal/domain/models"
	"MarketPulse/pkg/util"
)

// Naive repeats the last observed value for horizon consecutive days after the
// last series date, with a symmetric band of ±band around it. Non-finite
// trailing values are passed over.
func Naive(series []models.TimeSeriesPoint, horizon int, band float64) []models.ForecastPoint {
	if len(series) == 0 || horizon <= 0 {
		return nil
	}
	last := series[len(series)-1]
	for i := len(series) - 1; i >= 0; i-- {
		if finite(series[i].Value) {
			last.Value = series[i].Value
			break
		}
		if i == 0 {
			return nil
		}
	}
	lo, hi := last.Value*(1-band), last.Value*(1+band)
	if lo > hi {
		lo, hi = hi, lo
	}

	out := make([]models.ForecastPoint, 0, horizon)
	for i := 1; i <= horizon; i++ {
		out = append(out, models.ForecastPoint{
			Date:          util.FormatDate(util.AddDays(last.Date, i)),
			PointEstimate: last.Value,
			LowerBound:    lo,
			UpperBound:    hi,
		})
	}
	return out
}

// conform checks model output against the horizon and rewrites it onto the
// consecutive days after lastDate. Bounds are reordered when the model crossed them.
func conform(points []models.ForecastPoint, horizon int, lastDate time.Time) ([]models.ForecastPoint, bool) {
	if len(points) != horizon {
		return nil, false
	}
	out := make([]models.ForecastPoint, 0, horizon)
	for i, p := range points {
		if !finite(p.PointEstimate) || !finite(p.LowerBound) || !finite(p.UpperBound) {
			return nil, false
		}
		lo := math.Min(p.LowerBound, math.Min(p.PointEstimate, p.UpperBound))
		hi := math.Max(p.UpperBound, math.Max(p.PointEstimate, p.LowerBound))
		out = append(out, models.ForecastPoint{
			Date:          util.FormatDate(util.AddDays(lastDate, i+1)),
			PointEstimate: p.PointEstimate,
			LowerBound:    lo,
			UpperBound:    hi,
		})
	}
	return out, true
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
