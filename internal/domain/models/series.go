package models

import "time"

// DateLayout is the calendar date format used throughout records and forecasts.
const DateLayout = "2006-01-02"

// TimeSeriesPoint is one observation of a daily series. Series are ascending with unique dates.
type TimeSeriesPoint struct {
	Date  time.Time
	Value float64
}

// ForecastPoint is one projected day. LowerBound <= PointEstimate <= UpperBound always holds.
type ForecastPoint struct {
	Date          string  `json:"date"`
	PointEstimate float64 `json:"yhat"`
	LowerBound    float64 `json:"yhat_lower"`
	UpperBound    float64 `json:"yhat_upper"`
}

type ForecastOutcome struct {
	Points        []ForecastPoint
	UsedFullModel bool
}

// Source is the provenance tag reported by the forecast endpoint.
func (o ForecastOutcome) Source() string {
	if o.UsedFullModel {
		return "forecast:prophet"
	}
	return "forecast:naive"
}
