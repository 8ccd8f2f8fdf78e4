package providers

import (
	"context"
	"errors"
	"net/http"
	"net/url"

	"MarketPulse/internal/domain/models"
	xhttp "MarketPulse/pkg/http"
	"MarketPulse/pkg/util"

	"github.com/mmcdole/gofeed"
)

const googleRSSURL = "https://news.google.com/rss"

// GoogleRSS reads the Google News RSS search feed. It needs no credential.
type GoogleRSS struct {
	base
	url    string
	parser *gofeed.Parser
}

func NewGoogleRSS(feedURL string, d Deps) *GoogleRSS {
	b := newBase("googlerss", "Google News", models.ClassNews, d)
	fp := gofeed.NewParser()
	fp.UserAgent = b.deps.UserAgent
	fp.Client = &http.Client{Timeout: b.deps.Timeout}
	return &GoogleRSS{base: b, url: baseURL(feedURL, googleRSSURL), parser: fp}
}

func (g *GoogleRSS) Fetch(ctx context.Context, query string, limit int) models.ProviderOutcome {
	n := pageSize(limit, maxPageSize)
	q := url.Values{
		"q":    {query},
		"hl":   {"en-US"},
		"gl":   {"US"},
		"ceid": {"US:en"},
	}
	target := g.url + "/search?" + q.Encode()

	return g.run(ctx, func(ctx context.Context) ([]item, error) {
		feed, err := g.parser.ParseURLWithContext(target, ctx)
		if err != nil {
			var he gofeed.HTTPError
			if errors.As(err, &he) {
				return nil, &xhttp.StatusError{StatusCode: he.StatusCode, Body: he.Status}
			}
			return nil, err
		}
		items := feed.Items
		if len(items) > n {
			items = items[:n]
		}
		out := make([]item, 0, len(items))
		for _, it := range items {
			date := it.Published
			if it.PublishedParsed != nil {
				date = util.FormatDate(*it.PublishedParsed)
			}
			source := ""
			if it.Author != nil {
				source = it.Author.Name
			}
			out = append(out, item{Date: date, Headline: it.Title, Source: source, Link: it.Link})
		}
		return out, nil
	})
}
