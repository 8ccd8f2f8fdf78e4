package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"MarketPulse/internal/domain/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fetchedAt = time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC)

func testDeps() Deps {
	return Deps{
		Policy: Policy{
			MaxAttempts: 3,
			Sleeper:     func(context.Context, time.Duration) error { return nil },
		},
		Now: func() time.Time { return fetchedAt },
	}
}

func jsonHandler(t *testing.T, body interface{}, check func(r *http.Request)) http.HandlerFunc {
	t.Helper()
	return func(w http.ResponseWriter, r *http.Request) {
		if check != nil {
			check(r)
		}
		w.Header().Set("Content-Type", "application/json")
		require.NoError(t, json.NewEncoder(w).Encode(body))
	}
}

func TestGNewsNormalizesItems(t *testing.T) {
	srv := httptest.NewServer(jsonHandler(t, map[string]interface{}{
		"articles": []map[string]interface{}{
			{"title": "<b>NVIDIA</b> beats &amp; raises", "url": "https://news.example/a", "publishedAt": "2025-03-10T12:00:00Z", "source": map[string]string{"name": "Reuters"}},
			{"title": "No date, no source", "url": "https://news.example/b"},
			{"title": "   ", "url": "https://news.example/c"},
		},
	}, func(r *http.Request) {
		assert.Equal(t, "/search", r.URL.Path)
		assert.Equal(t, "nvidia", r.URL.Query().Get("q"))
		assert.Equal(t, "100", r.URL.Query().Get("max"))
		assert.Equal(t, "key", r.URL.Query().Get("token"))
		assert.Equal(t, DefaultUserAgent, r.Header.Get("User-Agent"))
	}))
	defer srv.Close()

	out := NewGNews("key", srv.URL, testDeps()).Fetch(context.Background(), "nvidia", 500)

	assert.Equal(t, "ok:gnews", out.Tag)
	require.Len(t, out.Records, 2)
	assert.Equal(t, "NVIDIA beats & raises", out.Records[0].Headline)
	assert.Equal(t, "2025-03-10", out.Records[0].Date)
	assert.Equal(t, "Reuters", out.Records[0].Source)
	assert.Nil(t, out.Records[0].Sentiment)
	assert.Equal(t, "2025-03-14", out.Records[1].Date)
	assert.Equal(t, "GNews", out.Records[1].Source)
}

func TestMissingCredentialSkipsNetwork(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) { atomic.AddInt32(&calls, 1) }))
	defer srv.Close()

	d := testDeps()
	for _, p := range []interface {
		Fetch(context.Context, string, int) models.ProviderOutcome
	}{
		NewGNews("", srv.URL, d), NewSerp("", srv.URL, d), NewTwitter("", srv.URL, d),
		NewFinnhub("", srv.URL, d), NewAlphaVantage("", srv.URL, d),
	} {
		out := p.Fetch(context.Background(), "q", 5)
		assert.Equal(t, models.StatusMissingCredential, out.Status)
		assert.True(t, strings.HasPrefix(out.Tag, "missing-credential:"))
		assert.Empty(t, out.Records)
	}
	assert.Zero(t, atomic.LoadInt32(&calls))
}

func TestRateLimitIsRetried(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		_, _ = w.Write([]byte(`{"news_results":[{"title":"AMD launches chip","link":"https://x.example/1","source":"CNBC"}]}`))
	}))
	defer srv.Close()

	out := NewSerp("key", srv.URL, testDeps()).Fetch(context.Background(), "amd", 5)
	assert.Equal(t, "ok:serp", out.Tag)
	assert.Len(t, out.Records, 1)
	assert.EqualValues(t, 3, atomic.LoadInt32(&calls))
}

func TestFailuresBecomeErrorOutcomes(t *testing.T) {
	cases := map[string]struct {
		status int
		calls  int32
	}{
		"unauthorized is permanent": {http.StatusUnauthorized, 1},
		"server error is retried":   {http.StatusBadGateway, 3},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			var calls int32
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				atomic.AddInt32(&calls, 1)
				w.WriteHeader(tc.status)
			}))
			defer srv.Close()

			out := NewGNews("key", srv.URL, testDeps()).Fetch(context.Background(), "q", 5)
			assert.Equal(t, "error:gnews", out.Tag)
			assert.Empty(t, out.Records)
			assert.Equal(t, tc.calls, atomic.LoadInt32(&calls))
		})
	}
}

func TestSerpEmpty(t *testing.T) {
	srv := httptest.NewServer(jsonHandler(t, map[string]interface{}{"news_results": []interface{}{}}, nil))
	defer srv.Close()

	out := NewSerp("key", srv.URL, testDeps()).Fetch(context.Background(), "q", 5)
	assert.Equal(t, "empty:serp", out.Tag)
}

func TestTwitterClampsAndTrims(t *testing.T) {
	tweets := make([]map[string]string, 0, 10)
	for i := 0; i < 10; i++ {
		tweets = append(tweets, map[string]string{
			"id":         fmt.Sprint(100 + i),
			"text":       "line one\nline two " + strings.Repeat("x", 200),
			"created_at": "2025-03-12T08:00:00.000Z",
		})
	}
	srv := httptest.NewServer(jsonHandler(t, map[string]interface{}{"data": tweets}, func(r *http.Request) {
		assert.Equal(t, "/tweets/search/recent", r.URL.Path)
		assert.Equal(t, "10", r.URL.Query().Get("max_results"))
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
	}))
	defer srv.Close()

	out := NewTwitter("tok", srv.URL, testDeps()).Fetch(context.Background(), "openai", 3)
	require.Len(t, out.Records, 3)
	r := out.Records[0]
	assert.NotContains(t, r.Headline, "\n")
	assert.LessOrEqual(t, len([]rune(r.Headline)), 140)
	assert.Equal(t, "https://twitter.com/i/web/status/100", r.Link)
	assert.Equal(t, "Twitter", r.Source)
	assert.Equal(t, "2025-03-12", r.Date)
}

func TestRedditBuildsLinksAndDates(t *testing.T) {
	srv := httptest.NewServer(jsonHandler(t, map[string]interface{}{
		"data": map[string]interface{}{
			"children": []map[string]interface{}{
				{"data": map[string]interface{}{"title": "Anthropic ships", "permalink": "/r/ml/comments/abc/", "created_utc": 1735732800.0}},
			},
		},
	}, func(r *http.Request) {
		assert.Equal(t, "50", r.URL.Query().Get("limit"))
		assert.Equal(t, "new", r.URL.Query().Get("sort"))
	}))
	defer srv.Close()

	out := NewReddit(srv.URL, testDeps()).Fetch(context.Background(), "anthropic", 80)
	require.Len(t, out.Records, 1)
	assert.Equal(t, "https://www.reddit.com/r/ml/comments/abc/", out.Records[0].Link)
	assert.Equal(t, "2025-01-01", out.Records[0].Date)
	assert.Equal(t, "Reddit", out.Records[0].Source)
}

func TestFinnhubCompanyNews(t *testing.T) {
	srv := httptest.NewServer(jsonHandler(t, []map[string]interface{}{
		{"headline": "Apple unveils", "source": "MarketWatch", "url": "https://mw.example/1", "datetime": 1741910400},
		{"headline": "Apple again", "url": "https://mw.example/2", "datetime": 1741910400},
	}, func(r *http.Request) {
		assert.Equal(t, "/company-news", r.URL.Path)
		assert.Equal(t, "AAPL", r.URL.Query().Get("symbol"))
		assert.Equal(t, "2025-03-07", r.URL.Query().Get("from"))
		assert.Equal(t, "2025-03-14", r.URL.Query().Get("to"))
		assert.Equal(t, "fh", r.Header.Get("X-Finnhub-Token"))
	}))
	defer srv.Close()

	out := NewFinnhub("fh", srv.URL, testDeps()).Fetch(context.Background(), "AAPL", 1)
	assert.Equal(t, "ok:finnhub", out.Tag)
	require.Len(t, out.Records, 1)
	assert.Equal(t, "MarketWatch", out.Records[0].Source)
}

func TestAlphaVantageParsesCompactTimestamps(t *testing.T) {
	srv := httptest.NewServer(jsonHandler(t, map[string]interface{}{
		"feed": []map[string]string{{"title": "IBM quantum update", "url": "https://av.example/1", "time_published": "20250301T101500"}},
	}, func(r *http.Request) {
		assert.Equal(t, "NEWS_SENTIMENT", r.URL.Query().Get("function"))
	}))
	defer srv.Close()

	out := NewAlphaVantage("av", srv.URL, testDeps()).Fetch(context.Background(), "IBM", 20)
	require.Len(t, out.Records, 1)
	assert.Equal(t, "2025-03-01", out.Records[0].Date)
	assert.Equal(t, "AlphaVantage", out.Records[0].Source)
}

func TestGoogleRSS(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search", r.URL.Path)
		assert.Equal(t, "US:en", r.URL.Query().Get("ceid"))
		w.Header().Set("Content-Type", "application/rss+xml")
		_, _ = w.Write([]byte(`<?xml version="1.0"?><rss version="2.0"><channel><title>t</title>
<item><title>Tesla Energy expands</title><link>https://n.example/1</link><pubDate>Mon, 10 Mar 2025 10:00:00 GMT</pubDate></item>
<item><title>Second</title><link>https://n.example/2</link></item>
</channel></rss>`))
	}))
	defer srv.Close()

	out := NewGoogleRSS(srv.URL, testDeps()).Fetch(context.Background(), "tesla", 1)
	assert.Equal(t, "ok:googlerss", out.Tag)
	require.Len(t, out.Records, 1)
	assert.Equal(t, "2025-03-10", out.Records[0].Date)
	assert.Equal(t, "Google News", out.Records[0].Source)
}

func TestRegistryPick(t *testing.T) {
	r := NewRegistry(Keys{}, nil, testDeps())
	ps, err := r.Pick([]string{"serp", "gnews"})
	require.NoError(t, err)
	assert.Equal(t, "serp", ps[0].Name())
	assert.Equal(t, models.ClassNews, ps[1].Class())

	_, err = r.Pick([]string{"myspace"})
	assert.Error(t, err)
	assert.Len(t, r.Names(), 7)
}
