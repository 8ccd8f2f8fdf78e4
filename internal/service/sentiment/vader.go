package sentiment

import (
	"math"
	"strings"

	"MarketPulse/internal/domain/models"
	domsvc "MarketPulse/internal/domain/service"

	"github.com/jonreiter/govader"
)

// polarityAnalyzer is the part of the VADER analyzer the scorer uses.
type polarityAnalyzer interface {
	PolarityScores(text string) govader.Sentiment
}

// ModelScorer uses the VADER compound polarity, which is already in [-1,1].
type ModelScorer struct {
	analyzer polarityAnalyzer
	th       Thresholds
}

func NewModelScorer(th Thresholds) *ModelScorer {
	return &ModelScorer{analyzer: govader.NewSentimentIntensityAnalyzer(), th: th}
}

func (s *ModelScorer) Score(text string) (models.Sentiment, float64) {
	if strings.TrimSpace(text) == "" {
		return models.Neutral, 0
	}
	score := s.compound(text)
	return s.th.Label(score), score
}

func (s *ModelScorer) Kind() domsvc.StrategyKind { return domsvc.ModelBacked }

// compound never panics; an analyzer failure scores as 0.
func (s *ModelScorer) compound(text string) (score float64) {
	defer func() {
		if r := recover(); r != nil {
			score = 0
		}
	}()
	c := s.analyzer.PolarityScores(text).Compound
	if math.IsNaN(c) || math.IsInf(c, 0) {
		return 0
	}
	return math.Max(-1, math.Min(1, c))
}
