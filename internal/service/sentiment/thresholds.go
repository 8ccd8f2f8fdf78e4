package sentiment

import "MarketPulse/internal/domain/models"

// Thresholds decide labels: score > Positive is positive, score < Negative is
// negative, anything in between (bounds included) is neutral.
type Thresholds struct {
	Positive float64
	Negative float64
}

// DefaultThresholds are the ±0.2 cut-offs.
var DefaultThresholds = Thresholds{Positive: 0.2, Negative: -0.2}

// Label maps a score to its sentiment label.
func (t Thresholds) Label(score float64) models.Sentiment {
	switch {
	case score > t.Positive:
		return models.Positive
	case score < t.Negative:
		return models.Negative
	default:
		return models.Neutral
	}
}
