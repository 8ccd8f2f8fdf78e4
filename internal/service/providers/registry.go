package providers

import (
	"fmt"
	"sort"

	"MarketPulse/internal/domain/repository"
)

// Keys holds the per-adapter credentials. Empty means "not configured".
type Keys struct {
	GNews        string
	SerpAPI      string
	Twitter      string
	Finnhub      string
	AlphaVantage string
}

// Registry owns every adapter, keyed by name.
type Registry struct {
	byName map[string]repository.Provider
}

// NewRegistry builds all known adapters. urls overrides endpoints by adapter name.
func NewRegistry(keys Keys, urls map[string]string, d Deps) *Registry {
	all := []repository.Provider{
		NewGNews(keys.GNews, urls["gnews"], d),
		NewSerp(keys.SerpAPI, urls["serp"], d),
		NewGoogleRSS(urls["googlerss"], d),
		NewTwitter(keys.Twitter, urls["twitter"], d),
		NewReddit(urls["reddit"], d),
		NewFinnhub(keys.Finnhub, urls["finnhub"], d),
		NewAlphaVantage(keys.AlphaVantage, urls["alphavantage"], d),
	}
	r := &Registry{byName: make(map[string]repository.Provider, len(all))}
	for _, p := range all {
		r.byName[p.Name()] = p
	}
	return r
}

// Get returns the adapter called name.
func (r *Registry) Get(name string) (repository.Provider, bool) {
	p, ok := r.byName[name]
	return p, ok
}

// Pick resolves names in order. Unknown names are an error.
func (r *Registry) Pick(names []string) ([]repository.Provider, error) {
	out := make([]repository.Provider, 0, len(names))
	for _, name := range names {
		p, ok := r.byName[name]
		if !ok {
			return nil, fmt.Errorf("unknown provider %q", name)
		}
		out = append(out, p)
	}
	return out, nil
}

// Names lists every registered adapter, sorted.
func (r *Registry) Names() []string {
	out := make([]string, 0, len(r.byName))
	for name := range r.byName {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
