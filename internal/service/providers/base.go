// Package providers holds the external content adapters. Every adapter turns
// its API into normalized SourceRecords and never returns an error: missing
// credentials, failures after retry and empty replies are reported as outcome tags.
package providers

import (
	"context"
	"html"
	"strings"
	"time"

	"MarketPulse/internal/domain/models"
	"MarketPulse/internal/domain/repository"
	xhttp "MarketPulse/pkg/http"
	applogger "MarketPulse/pkg/logger"
	"MarketPulse/pkg/retry"

	"github.com/microcosm-cc/bluemonday"
)

const (
	DefaultUserAgent = "InSightIQ/1.0"
	DefaultTimeout   = 30 * time.Second

	// maxPageSize is the largest request most APIs accept.
	maxPageSize = 100
)

// Policy is the retry policy applied to every adapter call.
type Policy struct {
	MaxAttempts int
	BaseDelay   time.Duration
	MaxJitter   time.Duration
	// Sleeper replaces the backoff sleep (tests).
	Sleeper func(ctx context.Context, d time.Duration) error
}

// Deps are the collaborators shared by all adapters.
type Deps struct {
	Policy    Policy
	Timeout   time.Duration
	UserAgent string
	Metrics   repository.Metrics
	Log       *applogger.Logger
	Now       func() time.Time
}

func (d Deps) withDefaults() Deps {
	if d.Policy.MaxAttempts <= 0 {
		d.Policy.MaxAttempts = retry.DefaultMaxAttempts
	}
	if d.Timeout <= 0 {
		d.Timeout = DefaultTimeout
	}
	if d.UserAgent == "" {
		d.UserAgent = DefaultUserAgent
	}
	if d.Metrics == nil {
		d.Metrics = repository.NopMetrics{}
	}
	if d.Log == nil {
		d.Log = applogger.Nop()
	}
	if d.Now == nil {
		d.Now = time.Now
	}
	return d
}

// item is a provider result before normalization.
type item struct {
	Date     string
	Headline string
	Source   string
	Link     string
}

type base struct {
	name    string
	display string
	class   models.ProviderClass
	deps    Deps
	retrier *retry.Executor
	strip   *bluemonday.Policy
	log     *applogger.Logger
}

func newBase(name, display string, class models.ProviderClass, d Deps) base {
	d = d.withDefaults()
	log := d.Log.With(applogger.String("provider", name))

	opts := []retry.Option{
		retry.WithMaxAttempts(d.Policy.MaxAttempts),
		retry.WithOnRetry(func(attempt int, delay time.Duration, err error) {
			class := "transient"
			if xhttp.IsRateLimited(err) {
				class = "rate-limited"
			}
			d.Metrics.RecordRetry(name, class)
			log.Warn("provider request failed, backing off",
				applogger.Int("attempt", attempt),
				applogger.Int("max_attempts", d.Policy.MaxAttempts),
				applogger.Duration("delay", delay),
				applogger.String("class", class),
				applogger.Error(err),
			)
		}),
	}
	if d.Policy.BaseDelay > 0 {
		opts = append(opts, retry.WithBaseDelay(d.Policy.BaseDelay))
	}
	if d.Policy.MaxJitter > 0 {
		opts = append(opts, retry.WithMaxJitter(d.Policy.MaxJitter))
	}
	if d.Policy.Sleeper != nil {
		opts = append(opts, retry.WithSleeper(d.Policy.Sleeper))
	}

	return base{
		name:    name,
		display: display,
		class:   class,
		deps:    d,
		retrier: retry.New(opts...),
		strip:   bluemonday.StrictPolicy(),
		log:     log,
	}
}

func (b *base) Name() string                { return b.name }
func (b *base) Class() models.ProviderClass { return b.class }

// missingCredential reports the credential outcome without touching the network.
func (b *base) missingCredential() models.ProviderOutcome {
	b.deps.Metrics.RecordProviderOutcome(b.name, string(models.StatusMissingCredential))
	b.log.Debug("provider skipped, credential not set")
	return models.NewOutcome(b.name, models.StatusMissingCredential, nil)
}

// run executes fetch under the retry policy and converts the result into an outcome.
func (b *base) run(ctx context.Context, fetch func(ctx context.Context) ([]item, error)) models.ProviderOutcome {
	start := b.deps.Now()
	items, err := retry.Value(ctx, b.retrier, func(ctx context.Context) ([]item, error) {
		items, err := fetch(ctx)
		return items, classify(err)
	})
	b.deps.Metrics.RecordLatency("provider."+b.name, b.deps.Now().Sub(start).Seconds())

	var out models.ProviderOutcome
	if err != nil {
		b.log.Warn("provider request failed", applogger.Error(err))
		out = models.NewOutcome(b.name, models.StatusError, nil)
	} else {
		out = models.NewOutcome(b.name, models.StatusOK, b.normalize(items))
		if out.Status == models.StatusEmpty {
			b.log.Info("provider returned no items")
		}
	}
	b.deps.Metrics.RecordProviderOutcome(b.name, string(out.Status))
	return out
}

// normalize sanitizes headlines, fills defaults and drops items that cannot
// become valid records.
func (b *base) normalize(items []item) []models.SourceRecord {
	fetchedAt := b.deps.Now()
	out := make([]models.SourceRecord, 0, len(items))
	for _, it := range items {
		headline := strings.TrimSpace(html.UnescapeString(b.strip.Sanitize(it.Headline)))
		if headline == "" {
			continue
		}
		source := strings.TrimSpace(it.Source)
		if source == "" {
			source = b.display
		}

		rec, err := models.NewSourceRecord(it.Date, headline, source, it.Link, fetchedAt)
		if err != nil && it.Link != "" {
			rec, err = models.NewSourceRecord(it.Date, headline, source, "", fetchedAt)
		}
		if err != nil {
			b.log.Debug("provider item dropped", applogger.String("headline", headline), applogger.Error(err))
			continue
		}
		out = append(out, rec)
	}
	return out
}

// classify marks client errors that a retry cannot fix as permanent.
func classify(err error) error {
	if xhttp.IsClientError(err) {
		return retry.Permanent(err)
	}
	return err
}

func pageSize(limit, max int) int {
	if limit <= 0 {
		return 0
	}
	if limit > max {
		return max
	}
	return limit
}

func baseURL(override, def string) string {
	if override != "" {
		return strings.TrimRight(override, "/")
	}
	return def
}
