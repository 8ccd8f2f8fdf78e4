package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"MarketPulse/internal/domain/models"
	xhttp "MarketPulse/pkg/http"
	"MarketPulse/pkg/util"

	"github.com/go-resty/resty/v2"
)

const (
	twitterURL = "https://api.twitter.com/2"
	redditURL  = "https://www.reddit.com"

	twitterMinResults = 10
	redditMaxLimit    = 50
	tweetChars        = 140
)

func newRestyClient(url string, d Deps) *resty.Client {
	return resty.New().
		SetBaseURL(url).
		SetTimeout(d.Timeout).
		SetHeader("User-Agent", d.UserAgent)
}

// getJSON issues a GET and decodes the body, turning non-2xx replies into *xhttp.StatusError.
func getJSON(req *resty.Request, path string, dest interface{}) error {
	resp, err := req.Get(path)
	if err != nil {
		return fmt.Errorf("get %s: %w", path, err)
	}
	if resp.IsError() {
		return &xhttp.StatusError{StatusCode: resp.StatusCode(), Body: util.Truncate(resp.String(), 512)}
	}
	if err := json.Unmarshal(resp.Body(), dest); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

// Twitter searches recent tweets with a bearer token.
type Twitter struct {
	base
	token  string
	client *resty.Client
}

func NewTwitter(token, url string, d Deps) *Twitter {
	b := newBase("twitter", "Twitter", models.ClassSocial, d)
	return &Twitter{base: b, token: token, client: newRestyClient(baseURL(url, twitterURL), b.deps)}
}

type tweetsResponse struct {
	Data []struct {
		ID        string `json:"id"`
		Text      string `json:"text"`
		CreatedAt string `json:"created_at"`
	} `json:"data"`
}

func (t *Twitter) Fetch(ctx context.Context, query string, limit int) models.ProviderOutcome {
	if t.token == "" {
		return t.missingCredential()
	}
	n := pageSize(limit, maxPageSize)
	// the API rejects max_results below 10; extra tweets are trimmed below
	maxResults := n
	if maxResults < twitterMinResults {
		maxResults = twitterMinResults
	}

	return t.run(ctx, func(ctx context.Context) ([]item, error) {
		var resp tweetsResponse
		req := t.client.R().
			SetContext(ctx).
			SetAuthToken(t.token).
			SetQueryParams(map[string]string{
				"query":        query,
				"tweet.fields": "created_at,public_metrics,lang",
				"max_results":  strconv.Itoa(maxResults),
			})
		if err := getJSON(req, "/tweets/search/recent", &resp); err != nil {
			return nil, err
		}
		data := resp.Data
		if len(data) > n {
			data = data[:n]
		}
		out := make([]item, 0, len(data))
		for _, tw := range data {
			out = append(out, item{
				Date:     tw.CreatedAt,
				Headline: util.Truncate(util.SingleLine(tw.Text), tweetChars),
				Source:   t.display,
				Link:     "https://twitter.com/i/web/status/" + tw.ID,
			})
		}
		return out, nil
	})
}

// Reddit uses the public JSON search; it needs no credential.
type Reddit struct {
	base
	client *resty.Client
}

func NewReddit(url string, d Deps) *Reddit {
	b := newBase("reddit", "Reddit", models.ClassSocial, d)
	return &Reddit{base: b, client: newRestyClient(baseURL(url, redditURL), b.deps)}
}

type redditResponse struct {
	Data struct {
		Children []struct {
			Data struct {
				Title      string  `json:"title"`
				Permalink  string  `json:"permalink"`
				CreatedUTC float64 `json:"created_utc"`
			} `json:"data"`
		} `json:"children"`
	} `json:"data"`
}

func (r *Reddit) Fetch(ctx context.Context, query string, limit int) models.ProviderOutcome {
	n := pageSize(limit, redditMaxLimit)
	return r.run(ctx, func(ctx context.Context) ([]item, error) {
		var resp redditResponse
		req := r.client.R().
			SetContext(ctx).
			SetQueryParams(map[string]string{
				"q":     query,
				"limit": strconv.Itoa(n),
				"sort":  "new",
			})
		if err := getJSON(req, "/search.json", &resp); err != nil {
			return nil, err
		}
		children := resp.Data.Children
		if len(children) > n {
			children = children[:n]
		}
		out := make([]item, 0, len(children))
		for _, c := range children {
			date := ""
			if c.Data.CreatedUTC > 0 {
				date = strconv.FormatInt(int64(c.Data.CreatedUTC), 10)
			}
			out = append(out, item{
				Date:     date,
				Headline: c.Data.Title,
				Source:   r.display,
				Link:     redditURL + c.Data.Permalink,
			})
		}
		return out, nil
	})
}
