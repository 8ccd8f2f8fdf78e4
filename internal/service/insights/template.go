package insights

import (
	"context"
	"fmt"
	"strings"

	domsvc "MarketPulse/internal/domain/service"
	"MarketPulse/pkg/util"
)

// NoItemsSummary is returned when there is nothing to summarize.
const NoItemsSummary = "- No recent items available. Using local CSV fallback."

// TemplateSummarizer lists the first few texts as numbered bullets.
type TemplateSummarizer struct {
	items int
	chars int
}

// NewTemplateSummarizer bullets up to items texts, each cut to chars runes.
func NewTemplateSummarizer(items, chars int) *TemplateSummarizer {
	if items <= 0 {
		items = 6
	}
	if chars <= 0 {
		chars = 140
	}
	return &TemplateSummarizer{items: items, chars: chars}
}

func (s *TemplateSummarizer) Summarize(_ context.Context, texts []string, _, _ string) string {
	if len(texts) == 0 {
		return NoItemsSummary
	}
	n := util.MinInt(len(texts), s.items)
	lines := make([]string, 0, n)
	for i := 0; i < n; i++ {
		lines = append(lines, fmt.Sprintf("- [%d] %s...", i+1, util.Truncate(texts[i], s.chars)))
	}
	return strings.Join(lines, "\n")
}

func (s *TemplateSummarizer) Kind() domsvc.StrategyKind { return domsvc.HeuristicFallback }

var _ domsvc.Summarizer = (*TemplateSummarizer)(nil)
