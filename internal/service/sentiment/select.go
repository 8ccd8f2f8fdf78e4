package sentiment

import (
	"fmt"

	domsvc "MarketPulse/internal/domain/service"
	applogger "MarketPulse/pkg/logger"
)

const (
	StrategyAuto    = "auto"
	StrategyModel   = "model"
	StrategyLexicon = "lexicon"
)

// probeText must score clearly positive on a working model.
const probeText = "This is a great success and excellent growth."

// Probe reports whether the model scorer produces a sane score. It runs once at startup.
func Probe(m *ModelScorer) domsvc.StrategyKind {
	if m == nil {
		return domsvc.HeuristicFallback
	}
	if _, score := m.Score(probeText); score > 0 {
		return domsvc.ModelBacked
	}
	return domsvc.HeuristicFallback
}

// Select builds the scorer for strategy ("auto", "model" or "lexicon").
// With "auto" the model is used only when Probe succeeds.
func Select(strategy string, th Thresholds, log *applogger.Logger) (domsvc.Scorer, error) {
	if log == nil {
		log = applogger.Nop()
	}
	switch strategy {
	case StrategyLexicon:
		return NewLexiconScorer(th), nil
	case StrategyModel, StrategyAuto, "":
		m := newModelSafely(th)
		if Probe(m) == domsvc.ModelBacked {
			return m, nil
		}
		if strategy == StrategyModel {
			return nil, fmt.Errorf("sentiment model probe failed: %w", domsvc.ErrModelUnavailable)
		}
		log.Warn("sentiment model unavailable, using lexicon scorer")
		return NewLexiconScorer(th), nil
	default:
		return nil, fmt.Errorf("unknown sentiment strategy %q", strategy)
	}
}

func newModelSafely(th Thresholds) (m *ModelScorer) {
	defer func() {
		if recover() != nil {
			m = nil
		}
	}()
	return NewModelScorer(th)
}
