package usecase

import (
	"context"
	"errors"
	"time"

	"MarketPulse/internal/domain/models"
	domrepo "MarketPulse/internal/domain/repository"
	domsvc "MarketPulse/internal/domain/service"
	"MarketPulse/internal/service/cache"
	"MarketPulse/pkg/fallback"
	applogger "MarketPulse/pkg/logger"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

const (
	tierNews   = "news"
	tierSocial = "social"
	tierNone   = "none"

	defaultSocialLimit = 20
)

// FetchResult is the orchestrator's answer: scored records plus the tag of the tier that served them.
type FetchResult struct {
	Records []models.SourceRecord `json:"records"`
	Tag     string                `json:"tag"`
}

// Empty reports whether no tier produced records.
func (r FetchResult) Empty() bool { return len(r.Records) == 0 }

type OrchestratorConfig struct {
	SocialLimit int
	CacheTTL    time.Duration
}

// FetchOrchestrator runs the news tier in priority order and stops at the first
// provider with records; only when every news provider comes back empty does it
// fan out to the social tier and concatenate what those return.
type FetchOrchestrator struct {
	news    []domrepo.Provider
	social  []domrepo.Provider
	cfg     OrchestratorConfig
	scorer  domsvc.Scorer
	cache   cache.BytesCache
	metrics domrepo.Metrics
	log     *applogger.Logger
}

func NewFetchOrchestrator(cfg OrchestratorConfig, news, social []domrepo.Provider, scorer domsvc.Scorer, c cache.BytesCache, metrics domrepo.Metrics, log *applogger.Logger) *FetchOrchestrator {
	if cfg.SocialLimit <= 0 {
		cfg.SocialLimit = defaultSocialLimit
	}
	if metrics == nil {
		metrics = domrepo.NopMetrics{}
	}
	if log == nil {
		log = applogger.Nop()
	}
	return &FetchOrchestrator{news: news, social: social, cfg: cfg, scorer: scorer, cache: c, metrics: metrics, log: log}
}

// Fetch runs news then social.
func (o *FetchOrchestrator) Fetch(ctx context.Context, query string, limit int) FetchResult {
	return o.cached(ctx, "all", query, limit, func(ctx context.Context) FetchResult {
		steps := make([]fallback.Step[[]models.SourceRecord], 0, len(o.news)+1)
		for _, p := range o.news {
			steps = append(steps, o.providerStep(p, query, limit))
		}
		steps = append(steps, o.socialStep(query, limit))
		return o.finish(fallback.First(ctx, steps...))
	})
}

// FetchSocial runs the social tier alone.
func (o *FetchOrchestrator) FetchSocial(ctx context.Context, query string, limit int) FetchResult {
	return o.cached(ctx, "social", query, limit, func(ctx context.Context) FetchResult {
		return o.finish(fallback.First(ctx, o.socialStep(query, limit)))
	})
}

func (o *FetchOrchestrator) cached(ctx context.Context, mode, query string, limit int, run func(context.Context) FetchResult) FetchResult {
	if limit <= 0 {
		return FetchResult{Tag: models.TagNone}
	}
	key := cache.Key("fetch", mode, query, limit)
	if o.cache != nil {
		var hit FetchResult
		if ok, err := cache.GetJSON(ctx, o.cache, key, &hit); err != nil {
			o.log.Warn("fetch cache read failed", applogger.String("key", key), applogger.Error(err))
		} else if ok {
			return hit
		}
	}

	res := run(ctx)
	if o.cache != nil && !res.Empty() && o.cfg.CacheTTL > 0 {
		if err := cache.SetJSON(ctx, o.cache, key, res, o.cfg.CacheTTL); err != nil {
			o.log.Warn("fetch cache write failed", applogger.String("key", key), applogger.Error(err))
		}
	}
	return res
}

func (o *FetchOrchestrator) providerStep(p domrepo.Provider, query string, limit int) fallback.Step[[]models.SourceRecord] {
	return func(ctx context.Context) fallback.Result[[]models.SourceRecord] {
		out := p.Fetch(ctx, query, limit)
		return toResult(out)
	}
}

func (o *FetchOrchestrator) socialStep(query string, limit int) fallback.Step[[]models.SourceRecord] {
	return func(ctx context.Context) fallback.Result[[]models.SourceRecord] {
		if len(o.social) == 0 {
			return fallback.Empty[[]models.SourceRecord](models.TagNone)
		}
		n := limit
		if n > o.cfg.SocialLimit {
			n = o.cfg.SocialLimit
		}

		outcomes := make([]models.ProviderOutcome, len(o.social))
		var g errgroup.Group
		for i, p := range o.social {
			i, p := i, p
			g.Go(func() error {
				outcomes[i] = p.Fetch(ctx, query, n)
				return nil
			})
		}
		_ = g.Wait()

		var records []models.SourceRecord
		trail := make([]string, 0, len(outcomes))
		for _, out := range outcomes {
			trail = append(trail, out.Tag)
			records = append(records, out.Records...)
		}
		res := fallback.Empty[[]models.SourceRecord](models.TagNone)
		if len(records) > 0 {
			res = fallback.Ok(records, models.TagSocial)
		}
		res.Trail = append(trail, res.Tag)
		return res
	}
}

func toResult(out models.ProviderOutcome) fallback.Result[[]models.SourceRecord] {
	switch {
	case !out.Empty():
		return fallback.Ok(out.Records, out.Tag)
	case out.Status == models.StatusError:
		return fallback.Fail[[]models.SourceRecord](out.Tag, errors.New(out.Tag))
	default:
		return fallback.Empty[[]models.SourceRecord](out.Tag)
	}
}

func (o *FetchOrchestrator) finish(res fallback.Result[[]models.SourceRecord]) FetchResult {
	tier := tierNews
	switch res.Tag {
	case models.TagSocial:
		tier = tierSocial
	case models.TagNone:
		tier = tierNone
	}
	if !res.OK() {
		tier = tierNone
		res.Tag = models.TagNone
		res.Value = nil
	}
	o.metrics.RecordFallback(tier)
	o.log.Info("fetch served",
		applogger.String("tag", res.Tag),
		applogger.String("tier", tier),
		applogger.Strings("trail", res.Trail),
		applogger.Int("records", len(res.Value)),
	)
	return FetchResult{Records: o.score(res.Value), Tag: res.Tag}
}

// score attaches label and score to every record. Labels come from the raw
// score; the stored score is rounded to 3 decimals.
func (o *FetchOrchestrator) score(records []models.SourceRecord) []models.SourceRecord {
	if len(records) == 0 {
		return nil
	}
	out := make([]models.SourceRecord, 0, len(records))
	for _, r := range records {
		label, score := o.scorer.Score(r.Headline)
		out = append(out, r.Scored(label, round3(score)))
	}
	return out
}

func round3(v float64) float64 {
	f, _ := decimal.NewFromFloat(v).Round(3).Float64()
	return f
}
