package sentiment

import (
	"testing"

	"MarketPulse/internal/domain/models"
	domsvc "MarketPulse/internal/domain/service"
	applogger "MarketPulse/pkg/logger"

	"github.com/jonreiter/govader"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedAnalyzer float64

func (f fixedAnalyzer) PolarityScores(string) govader.Sentiment {
	return govader.Sentiment{Compound: float64(f)}
}

func TestBlankTextIsNeutralZero(t *testing.T) {
	scorers := []domsvc.Scorer{
		NewLexiconScorer(DefaultThresholds),
		&ModelScorer{analyzer: fixedAnalyzer(0.9), th: DefaultThresholds},
	}
	for _, s := range scorers {
		for _, text := range []string{"", "   ", "\t\n"} {
			label, score := s.Score(text)
			assert.Equal(t, models.Neutral, label)
			assert.Equal(t, 0.0, score)
		}
	}
}

func TestLabelBoundaries(t *testing.T) {
	th := DefaultThresholds
	assert.Equal(t, models.Neutral, th.Label(0.2))
	assert.Equal(t, models.Neutral, th.Label(-0.2))
	assert.Equal(t, models.Neutral, th.Label(0))
	assert.Equal(t, models.Positive, th.Label(0.2001))
	assert.Equal(t, models.Negative, th.Label(-0.2001))
}

func TestLexiconScorer(t *testing.T) {
	s := NewLexiconScorer(DefaultThresholds)
	cases := []struct {
		text  string
		label models.Sentiment
		score float64
	}{
		{"NVIDIA posts record GROWTH", models.Positive, 0.3},
		{"Intel faces lawsuit over chip bug", models.Negative, -0.3},
		{"Apple wins case but shares drop", models.Neutral, 0},
		{"Sony launches a camera", models.Neutral, 0},
		{"Upgrades announced", models.Positive, 0.3},
	}
	for _, c := range cases {
		label, score := s.Score(c.text)
		assert.Equal(t, c.label, label, c.text)
		assert.Equal(t, c.score, score, c.text)
	}
	assert.Equal(t, domsvc.HeuristicFallback, s.Kind())
}

func TestModelScorerUsesCompound(t *testing.T) {
	s := &ModelScorer{analyzer: fixedAnalyzer(-0.75), th: DefaultThresholds}
	label, score := s.Score("anything")
	assert.Equal(t, models.Negative, label)
	assert.Equal(t, -0.75, score)
}

func TestModelScorerRealAnalyzer(t *testing.T) {
	s := NewModelScorer(DefaultThresholds)
	_, pos := s.Score("This is a great success and excellent growth.")
	_, neg := s.Score("Terrible failure, awful losses and a horrible lawsuit.")
	assert.Greater(t, pos, 0.2)
	assert.Less(t, neg, -0.2)
}

func TestSelect(t *testing.T) {
	s, err := Select(StrategyLexicon, DefaultThresholds, nil)
	require.NoError(t, err)
	assert.Equal(t, domsvc.HeuristicFallback, s.Kind())

	s, err = Select(StrategyAuto, DefaultThresholds, applogger.Nop())
	require.NoError(t, err)
	assert.Equal(t, domsvc.ModelBacked, s.Kind())

	_, err = Select("oracle", DefaultThresholds, nil)
	assert.Error(t, err)

	assert.Equal(t, domsvc.HeuristicFallback, Probe(&ModelScorer{analyzer: fixedAnalyzer(0), th: DefaultThresholds}))
}
