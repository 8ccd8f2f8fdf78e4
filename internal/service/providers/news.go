package providers

import (
	"context"
	"strconv"

	"MarketPulse/internal/domain/models"
	xhttp "MarketPulse/pkg/http"
)

const (
	gnewsURL = "https://gnews.io/api/v4"
	serpURL  = "https://serpapi.com"
)

// GNews searches gnews.io.
type GNews struct {
	base
	key    string
	url    string
	client *xhttp.Client
}

func NewGNews(key, url string, d Deps) *GNews {
	b := newBase("gnews", "GNews", models.ClassNews, d)
	return &GNews{
		base:   b,
		key:    key,
		url:    baseURL(url, gnewsURL),
		client: xhttp.NewClient(xhttp.WithTimeout(b.deps.Timeout), xhttp.WithUserAgent(b.deps.UserAgent)),
	}
}

type gnewsResponse struct {
	Articles []struct {
		Title       string `json:"title"`
		URL         string `json:"url"`
		PublishedAt string `json:"publishedAt"`
		Source      struct {
			Name string `json:"name"`
		} `json:"source"`
	} `json:"articles"`
}

func (g *GNews) Fetch(ctx context.Context, query string, limit int) models.ProviderOutcome {
	if g.key == "" {
		return g.missingCredential()
	}
	return g.run(ctx, func(ctx context.Context) ([]item, error) {
		var resp gnewsResponse
		err := g.client.SendAndParse(ctx, &xhttp.RequestOptions{
			URL: g.url + "/search",
			QueryParams: map[string][]string{
				"q":     {query},
				"lang":  {"en"},
				"token": {g.key},
				"max":   {strconv.Itoa(pageSize(limit, maxPageSize))},
			},
		}, &resp)
		if err != nil {
			return nil, err
		}
		out := make([]item, 0, len(resp.Articles))
		for _, a := range resp.Articles {
			out = append(out, item{Date: a.PublishedAt, Headline: a.Title, Source: a.Source.Name, Link: a.URL})
		}
		return out, nil
	})
}

// Serp reads Google News results through SerpAPI.
type Serp struct {
	base
	key    string
	url    string
	client *xhttp.Client
}

func NewSerp(key, url string, d Deps) *Serp {
	b := newBase("serp", "Google News", models.ClassNews, d)
	return &Serp{
		base:   b,
		key:    key,
		url:    baseURL(url, serpURL),
		client: xhttp.NewClient(xhttp.WithTimeout(b.deps.Timeout), xhttp.WithUserAgent(b.deps.UserAgent)),
	}
}

type serpResponse struct {
	NewsResults []struct {
		Title  string `json:"title"`
		Link   string `json:"link"`
		Date   string `json:"date"`
		Source string `json:"source"`
	} `json:"news_results"`
}

func (s *Serp) Fetch(ctx context.Context, query string, limit int) models.ProviderOutcome {
	if s.key == "" {
		return s.missingCredential()
	}
	n := pageSize(limit, maxPageSize)
	return s.run(ctx, func(ctx context.Context) ([]item, error) {
		var resp serpResponse
		err := s.client.SendAndParse(ctx, &xhttp.RequestOptions{
			URL: s.url + "/search.json",
			QueryParams: map[string][]string{
				"engine":  {"google"},
				"q":       {query},
				"tbm":     {"nws"},
				"api_key": {s.key},
			},
		}, &resp)
		if err != nil {
			return nil, err
		}
		results := resp.NewsResults
		if len(results) > n {
			results = results[:n]
		}
		out := make([]item, 0, len(results))
		for _, r := range results {
			out = append(out, item{Date: r.Date, Headline: r.Title, Source: r.Source, Link: r.Link})
		}
		return out, nil
	})
}
