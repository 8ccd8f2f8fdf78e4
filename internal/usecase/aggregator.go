package usecase

import (
	"context"
	"errors"
	"time"

	"MarketPulse/internal/catalog"
	"MarketPulse/internal/domain/models"
	domrepo "MarketPulse/internal/domain/repository"
	domsvc "MarketPulse/internal/domain/service"
	"MarketPulse/internal/services/features"
	"MarketPulse/pkg/fallback"
	applogger "MarketPulse/pkg/logger"

	"github.com/shopspring/decimal"
)

// Fetcher is the live-source side of aggregation.
type Fetcher interface {
	Fetch(ctx context.Context, query string, limit int) FetchResult
	FetchSocial(ctx context.Context, query string, limit int) FetchResult
}

// CollectOptions selects what Collect gathers.
type CollectOptions struct {
	Company    string
	Domain     string
	Limit      int
	SocialOnly bool
	Summarize  bool
}

// Aggregator combines live records, the local dataset fallback, sentiment
// statistics and an optional summary into a Digest. It never fails.
type Aggregator struct {
	fetch      Fetcher
	dataset    domrepo.Dataset
	summarizer domsvc.Summarizer
	archive    domrepo.RecordArchive
	metrics    domrepo.Metrics
	log        *applogger.Logger
}

func NewAggregator(fetch Fetcher, dataset domrepo.Dataset, summarizer domsvc.Summarizer, archive domrepo.RecordArchive, metrics domrepo.Metrics, log *applogger.Logger) *Aggregator {
	if metrics == nil {
		metrics = domrepo.NopMetrics{}
	}
	if log == nil {
		log = applogger.Nop()
	}
	return &Aggregator{fetch: fetch, dataset: dataset, summarizer: summarizer, archive: archive, metrics: metrics, log: log}
}

func (a *Aggregator) Collect(ctx context.Context, opts CollectOptions) models.Digest {
	start := time.Now()
	defer func() { a.metrics.RecordLatency("aggregate.collect", time.Since(start).Seconds()) }()

	query := catalog.QueryText(opts.Company, opts.Domain)
	res := fallback.First(ctx, a.liveStep(query, opts), a.datasetStep(opts))

	records := res.Value
	if records == nil {
		records = []models.SourceRecord{}
	}
	if res.Tag == models.TagLocalDataset {
		a.metrics.RecordFallback("local-dataset")
		a.log.Info("serving local dataset",
			applogger.String("domain", opts.Domain),
			applogger.String("company", opts.Company),
			applogger.Strings("trail", res.Trail),
			applogger.Int("records", len(records)),
		)
	} else {
		a.archiveAsync(ctx, query, res.Tag, records)
	}

	avg, count := SentimentSummary(records)
	d := models.Digest{
		Records:          records,
		SentimentAverage: avg,
		SentimentCount:   count,
		Provenance:       res.Tag,
	}
	if opts.Summarize && a.summarizer != nil {
		texts := make([]string, 0, len(records))
		for _, r := range records {
			texts = append(texts, r.Headline)
		}
		d.Summary = a.summarizer.Summarize(ctx, texts, opts.Company, opts.Domain)
	}
	return d
}

func (a *Aggregator) liveStep(query string, opts CollectOptions) fallback.Step[[]models.SourceRecord] {
	return func(ctx context.Context) fallback.Result[[]models.SourceRecord] {
		var res FetchResult
		if opts.SocialOnly {
			res = a.fetch.FetchSocial(ctx, query, opts.Limit)
		} else {
			res = a.fetch.Fetch(ctx, query, opts.Limit)
		}
		if res.Empty() {
			return fallback.Empty[[]models.SourceRecord](res.Tag)
		}
		return fallback.Ok(head(res.Records, opts.Limit), res.Tag)
	}
}

func (a *Aggregator) datasetStep(opts CollectOptions) fallback.Step[[]models.SourceRecord] {
	return func(ctx context.Context) fallback.Result[[]models.SourceRecord] {
		rows, err := a.dataset.Load(ctx, opts.Domain)
		if err != nil {
			if !errors.Is(err, domrepo.ErrDatasetMissing) {
				a.log.Warn("local dataset unreadable", applogger.String("domain", opts.Domain), applogger.Error(err))
			}
			return fallback.Empty[[]models.SourceRecord](models.TagLocalDataset)
		}
		if opts.Company != "" {
			rows = features.MatchingHeadline(rows, opts.Company)
		}
		return fallback.Ok(head(rows, opts.Limit), models.TagLocalDataset)
	}
}

func (a *Aggregator) archiveAsync(ctx context.Context, query, provenance string, records []models.SourceRecord) {
	if a.archive == nil || len(records) == 0 {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
	go func() {
		defer cancel()
		if err := a.archive.Archive(ctx, query, provenance, records); err != nil {
			a.log.Warn("record archive failed", applogger.String("query", query), applogger.Error(err))
		}
	}()
}

// SentimentSummary returns the mean of the present scores, rounded to 3
// decimals, and how many records contributed. No scores means (0, 0).
func SentimentSummary(records []models.SourceRecord) (float64, int) {
	sum := decimal.Zero
	n := 0
	for _, r := range records {
		if s, ok := r.Score(); ok {
			sum = sum.Add(decimal.NewFromFloat(s))
			n++
		}
	}
	if n == 0 {
		return 0, 0
	}
	avg, _ := sum.Div(decimal.NewFromInt(int64(n))).Round(3).Float64()
	return avg, n
}

// head returns at most n records; n <= 0 yields none.
func head(records []models.SourceRecord, n int) []models.SourceRecord {
	if n <= 0 {
		return []models.SourceRecord{}
	}
	if len(records) > n {
		return records[:n]
	}
	return records
}
