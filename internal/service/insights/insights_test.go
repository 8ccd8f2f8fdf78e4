package insights

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	domsvc "MarketPulse/internal/domain/service"

	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTemplateSummary(t *testing.T) {
	s := NewTemplateSummarizer(6, 140)

	assert.Equal(t, NoItemsSummary, s.Summarize(context.Background(), nil, "", ""))

	texts := []string{"A", "B", "C", "D", "E", "F", "G", strings.Repeat("x", 10)}
	out := s.Summarize(context.Background(), texts, "NVIDIA", "ai-ml")
	lines := strings.Split(out, "\n")
	require.Len(t, lines, 6)
	assert.Equal(t, "- [1] A...", lines[0])
	assert.Equal(t, "- [6] F...", lines[5])

	long := NewTemplateSummarizer(6, 140).Summarize(context.Background(), []string{strings.Repeat("y", 200)}, "", "")
	assert.Equal(t, "- [1] "+strings.Repeat("y", 140)+"...", long)
}

func chatServer(t *testing.T, content string, status int) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasSuffix(r.URL.Path, "/chat/completions"))
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))

		var req openai.ChatCompletionRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "gpt-3.5-turbo", req.Model)
		assert.Equal(t, 500, req.MaxTokens)
		require.Len(t, req.Messages, 2)
		assert.Contains(t, req.Messages[1].Content, "Domain: ai-ml\nCompany: NVIDIA\n")

		if status != http.StatusOK {
			w.WriteHeader(status)
			_, _ = w.Write([]byte(`{"error":{"message":"boom"}}`))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(openai.ChatCompletionResponse{
			Choices: []openai.ChatCompletionChoice{{Message: openai.ChatCompletionMessage{Role: "assistant", Content: content}}},
		})
	}))
}

func llmConfig(url string) LLMConfig {
	return LLMConfig{APIKey: "sk-test", BaseURL: url, Model: "gpt-3.5-turbo", Temperature: 0.3, MaxTokens: 500}
}

func TestLLMSummary(t *testing.T) {
	srv := chatServer(t, "- NVIDIA expands data center lineup", http.StatusOK)
	defer srv.Close()

	s := NewLLMSummarizer(llmConfig(srv.URL), nil, nil)
	out := s.Summarize(context.Background(), []string{"NVIDIA surges"}, "NVIDIA", "ai-ml")
	assert.Equal(t, "- NVIDIA expands data center lineup", out)
	assert.Equal(t, domsvc.ModelBacked, s.Kind())
}

func TestLLMFallsBackToTemplate(t *testing.T) {
	for name, srv := range map[string]*httptest.Server{
		"error": chatServer(t, "", http.StatusInternalServerError),
		"empty": chatServer(t, "   ", http.StatusOK),
	} {
		t.Run(name, func(t *testing.T) {
			defer srv.Close()
			s := NewLLMSummarizer(llmConfig(srv.URL), NewTemplateSummarizer(6, 140), nil)
			out := s.Summarize(context.Background(), []string{"NVIDIA surges"}, "NVIDIA", "ai-ml")
			assert.Equal(t, "- [1] NVIDIA surges...", out)
		})
	}
}

func TestUserPromptCapsItems(t *testing.T) {
	texts := make([]string, 25)
	for i := range texts {
		texts[i] = strings.Repeat("z", 400)
	}
	p := userPrompt(texts, "Acme", "fintech", 20, 300)
	assert.Equal(t, 20, strings.Count(p, "\n- "))
	assert.NotContains(t, p, strings.Repeat("z", 301))
}

func TestSelect(t *testing.T) {
	s, err := Select(StrategyAuto, LLMConfig{}, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, domsvc.HeuristicFallback, s.Kind())

	s, err = Select(StrategyAuto, LLMConfig{APIKey: "k"}, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, domsvc.ModelBacked, s.Kind())

	_, err = Select(StrategyLLM, LLMConfig{}, nil, nil)
	assert.ErrorIs(t, err, domsvc.ErrModelUnavailable)

	_, err = Select("poetry", LLMConfig{}, nil, nil)
	assert.Error(t, err)
}
