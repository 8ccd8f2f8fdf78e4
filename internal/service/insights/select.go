package insights

import (
	"fmt"

	domsvc "MarketPulse/internal/domain/service"
	applogger "MarketPulse/pkg/logger"
)

const (
	StrategyAuto     = "auto"
	StrategyLLM      = "llm"
	StrategyTemplate = "template"
)

// Select picks the summarizer. The model is only usable with an API key;
// "auto" without one degrades to the template.
func Select(strategy string, cfg LLMConfig, tmpl *TemplateSummarizer, log *applogger.Logger) (domsvc.Summarizer, error) {
	if tmpl == nil {
		tmpl = NewTemplateSummarizer(0, 0)
	}
	switch strategy {
	case StrategyTemplate:
		return tmpl, nil
	case StrategyAuto, StrategyLLM, "":
		if cfg.APIKey != "" {
			return NewLLMSummarizer(cfg, tmpl, log), nil
		}
		if strategy == StrategyLLM {
			return nil, fmt.Errorf("insights: api key missing: %w", domsvc.ErrModelUnavailable)
		}
		return tmpl, nil
	default:
		return nil, fmt.Errorf("unknown insights strategy %q", strategy)
	}
}
