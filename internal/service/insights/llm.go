package insights

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	domsvc "MarketPulse/internal/domain/service"
	applogger "MarketPulse/pkg/logger"
	"MarketPulse/pkg/util"

	"github.com/sashabaranov/go-openai"
)

const systemPrompt = "You are an analyst generating concise, actionable market and competitive insights. " +
	"Write in bullet points, focus on product moves, partnerships, funding, risks, and opportunities."

// LLMConfig holds chat-completion settings.
type LLMConfig struct {
	APIKey      string
	BaseURL     string
	Model       string
	Temperature float32
	MaxTokens   int
	Timeout     time.Duration
	MaxItems    int
	ItemChars   int
}

// LLMSummarizer asks an OpenAI-compatible chat model for bulleted insights.
// Any failure or empty reply falls back to the template summarizer.
type LLMSummarizer struct {
	client   *openai.Client
	cfg      LLMConfig
	fallback domsvc.Summarizer
	log      *applogger.Logger
}

func NewLLMSummarizer(cfg LLMConfig, fallback domsvc.Summarizer, log *applogger.Logger) *LLMSummarizer {
	if cfg.Model == "" {
		cfg.Model = openai.GPT3Dot5Turbo
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = 500
	}
	if cfg.MaxItems <= 0 {
		cfg.MaxItems = 20
	}
	if cfg.ItemChars <= 0 {
		cfg.ItemChars = 300
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if fallback == nil {
		fallback = NewTemplateSummarizer(0, 0)
	}
	if log == nil {
		log = applogger.Nop()
	}

	oc := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		oc.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	}
	return &LLMSummarizer{
		client:   openai.NewClientWithConfig(oc),
		cfg:      cfg,
		fallback: fallback,
		log:      log,
	}
}

func (s *LLMSummarizer) Summarize(ctx context.Context, texts []string, entity, category string) string {
	out, err := s.complete(ctx, userPrompt(texts, entity, category, s.cfg.MaxItems, s.cfg.ItemChars))
	if err != nil {
		s.log.Warn("insights model failed, using template", applogger.Error(err))
		return s.fallback.Summarize(ctx, texts, entity, category)
	}
	return out
}

func (s *LLMSummarizer) Kind() domsvc.StrategyKind { return domsvc.ModelBacked }

func (s *LLMSummarizer) complete(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.Timeout)
	defer cancel()

	resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: s.cfg.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		Temperature: s.cfg.Temperature,
		MaxTokens:   s.cfg.MaxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("openai completion failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("no response from openai")
	}
	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	if content == "" {
		return "", errors.New("empty completion")
	}
	return content, nil
}

func userPrompt(texts []string, entity, category string, maxItems, itemChars int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Domain: %s\nCompany: %s\nGiven the following items, summarize top insights as 6 bullets.\n", category, entity)
	n := util.MinInt(len(texts), maxItems)
	lines := make([]string, 0, n)
	for i := 0; i < n; i++ {
		lines = append(lines, "- "+util.Truncate(texts[i], itemChars))
	}
	b.WriteString(strings.Join(lines, "\n"))
	return b.String()
}

var _ domsvc.Summarizer = (*LLMSummarizer)(nil)
