package sentiment

import (
	"strings"

	"MarketPulse/internal/domain/models"
	domsvc "MarketPulse/internal/domain/service"
)

var (
	positiveWords = []string{"good", "great", "excellent", "positive", "win", "advantage", "improve", "success", "growth", "beat", "upgrade"}
	negativeWords = []string{"bad", "fail", "loss", "negative", "drop", "bug", "vulnerability", "delay", "lawsuit", "attack", "downgrade"}
)

const lexiconWeight = 0.3

// LexiconScorer matches fixed word lists as case-insensitive substrings.
// Only-positive scores +0.3, only-negative -0.3, anything else 0.
type LexiconScorer struct {
	th Thresholds
}

func NewLexiconScorer(th Thresholds) *LexiconScorer {
	return &LexiconScorer{th: th}
}

func (s *LexiconScorer) Score(text string) (models.Sentiment, float64) {
	if strings.TrimSpace(text) == "" {
		return models.Neutral, 0
	}
	score := lexiconScore(strings.ToLower(text))
	return s.th.Label(score), score
}

func (s *LexiconScorer) Kind() domsvc.StrategyKind { return domsvc.HeuristicFallback }

func lexiconScore(lower string) float64 {
	pos := containsAny(lower, positiveWords)
	neg := containsAny(lower, negativeWords)
	switch {
	case pos && !neg:
		return lexiconWeight
	case neg && !pos:
		return -lexiconWeight
	default:
		return 0
	}
}

func containsAny(s string, words []string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}
