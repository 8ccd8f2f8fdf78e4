package providers

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"MarketPulse/internal/domain/models"
	xhttp "MarketPulse/pkg/http"
	"MarketPulse/pkg/util"

	finnhub "github.com/Finnhub-Stock-API/finnhub-go/v2"
)

const (
	finnhubURL      = "https://finnhub.io/api/v1"
	alphaVantageURL = "https://www.alphavantage.co"

	finnhubWindowDays  = 7
	alphaVantageMaxCap = 50
)

// Finnhub reads company news for a ticker symbol through the official SDK.
type Finnhub struct {
	base
	key string
	api *finnhub.DefaultApiService
}

func NewFinnhub(key, url string, d Deps) *Finnhub {
	b := newBase("finnhub", "Finnhub", models.ClassFinance, d)

	cfg := finnhub.NewConfiguration()
	cfg.AddDefaultHeader("X-Finnhub-Token", key)
	cfg.UserAgent = b.deps.UserAgent
	cfg.HTTPClient = &http.Client{Timeout: b.deps.Timeout}
	cfg.Servers = finnhub.ServerConfigurations{{URL: baseURL(url, finnhubURL)}}

	return &Finnhub{base: b, key: key, api: finnhub.NewAPIClient(cfg).DefaultApi}
}

func (f *Finnhub) Fetch(ctx context.Context, symbol string, limit int) models.ProviderOutcome {
	if f.key == "" {
		return f.missingCredential()
	}
	n := pageSize(limit, maxPageSize)
	to := f.deps.Now()
	from := util.AddDays(to, -finnhubWindowDays)

	return f.run(ctx, func(ctx context.Context) ([]item, error) {
		news, resp, err := f.api.CompanyNews(ctx).
			Symbol(symbol).
			From(util.FormatDate(from)).
			To(util.FormatDate(to)).
			Execute()
		if err != nil {
			if resp != nil && resp.StatusCode >= http.StatusBadRequest {
				return nil, &xhttp.StatusError{StatusCode: resp.StatusCode, Body: err.Error()}
			}
			return nil, fmt.Errorf("finnhub company news: %w", err)
		}
		if len(news) > n {
			news = news[:n]
		}
		out := make([]item, 0, len(news))
		for _, a := range news {
			it := item{}
			if a.Headline != nil {
				it.Headline = *a.Headline
			}
			if a.Source != nil {
				it.Source = *a.Source
			}
			if a.Url != nil {
				it.Link = *a.Url
			}
			if a.Datetime != nil {
				it.Date = strconv.FormatInt(*a.Datetime, 10)
			}
			out = append(out, it)
		}
		return out, nil
	})
}

// AlphaVantage reads the NEWS_SENTIMENT feed for a ticker.
type AlphaVantage struct {
	base
	key    string
	url    string
	client *xhttp.Client
}

func NewAlphaVantage(key, url string, d Deps) *AlphaVantage {
	b := newBase("alphavantage", "AlphaVantage", models.ClassFinance, d)
	return &AlphaVantage{
		base:   b,
		key:    key,
		url:    baseURL(url, alphaVantageURL),
		client: xhttp.NewClient(xhttp.WithTimeout(b.deps.Timeout), xhttp.WithUserAgent(b.deps.UserAgent)),
	}
}

type alphaVantageResponse struct {
	Feed []struct {
		Title         string `json:"title"`
		URL           string `json:"url"`
		TimePublished string `json:"time_published"`
		Source        string `json:"source"`
	} `json:"feed"`
}

func (a *AlphaVantage) Fetch(ctx context.Context, symbol string, limit int) models.ProviderOutcome {
	if a.key == "" {
		return a.missingCredential()
	}
	n := pageSize(limit, alphaVantageMaxCap)
	return a.run(ctx, func(ctx context.Context) ([]item, error) {
		var resp alphaVantageResponse
		err := a.client.SendAndParse(ctx, &xhttp.RequestOptions{
			URL: a.url + "/query",
			QueryParams: map[string][]string{
				"function": {"NEWS_SENTIMENT"},
				"tickers":  {symbol},
				"apikey":   {a.key},
			},
		}, &resp)
		if err != nil {
			return nil, err
		}
		feed := resp.Feed
		if len(feed) > n {
			feed = feed[:n]
		}
		out := make([]item, 0, len(feed))
		for _, f := range feed {
			out = append(out, item{Date: f.TimePublished, Headline: f.Title, Source: f.Source, Link: f.URL})
		}
		return out, nil
	})
}
