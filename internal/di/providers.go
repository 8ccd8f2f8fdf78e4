package di

import (
	"context"
	"fmt"
	"time"

	"MarketPulse/internal/catalog"
	domrepo "MarketPulse/internal/domain/repository"
	domsvc "MarketPulse/internal/domain/service"
	"MarketPulse/internal/handler/api"
	internalrepo "MarketPulse/internal/repository"
	"MarketPulse/internal/service/cache"
	"MarketPulse/internal/service/dataset"
	"MarketPulse/internal/service/forecast"
	"MarketPulse/internal/service/insights"
	servicemetrics "MarketPulse/internal/service/metrics"
	"MarketPulse/internal/service/providers"
	"MarketPulse/internal/service/ratelimit"
	"MarketPulse/internal/service/sentiment"
	"MarketPulse/internal/services/analytics"
	"MarketPulse/internal/usecase"
	pkgch "MarketPulse/pkg/clickhouse"
	"MarketPulse/pkg/config"
	xhttp "MarketPulse/pkg/http"
	pkgkafka "MarketPulse/pkg/kafka"
	applogger "MarketPulse/pkg/logger"
	"MarketPulse/pkg/metrics"
	"MarketPulse/pkg/retry"
	"MarketPulse/pkg/server"
	"MarketPulse/pkg/util"

	"github.com/prometheus/client_golang/prometheus"
)

const probeTimeout = 5 * time.Second

// ProvideLogger builds the application logger from the logging section.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	l, err := applogger.New(&applogger.Config{
		Level:      cfg.Logging.Level,
		Format:     cfg.Logging.Format,
		Output:     cfg.Logging.Output,
		MaxSizeMB:  cfg.Logging.MaxSizeMB,
		MaxBackups: cfg.Logging.MaxBackups,
		MaxAgeDays: cfg.Logging.MaxAgeDays,
		Compress:   cfg.Logging.Compress,
	})
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	return l.With(applogger.String("env", cfg.Environment)), nil
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() domrepo.Metrics {
	return metrics.New()
}

func ProvideEndpointMetrics() *servicemetrics.Endpoint {
	return servicemetrics.Default()
}

// ProvideClickHouseClient opens the analytics store and creates its schema.
// Returns nil when ClickHouse is disabled.
func ProvideClickHouseClient(cfg *config.Config, log *applogger.Logger) (*pkgch.Client, func(), error) {
	if !cfg.ClickHouse.Enabled {
		return nil, func() {}, nil
	}
	client, err := pkgch.NewClient(
		pkgch.WithAddress(cfg.ClickHouse.Host, cfg.ClickHouse.Port),
		pkgch.WithDatabase(cfg.ClickHouse.Database),
		pkgch.WithCredentials(cfg.ClickHouse.User, cfg.ClickHouse.Password),
		pkgch.WithHTTP(cfg.ClickHouse.UseHTTP),
		pkgch.WithAsyncInsert(cfg.ClickHouse.AsyncInsert, cfg.ClickHouse.WaitForAsync),
		pkgch.WithTimeouts(cfg.ClickHouse.DialTimeout, cfg.ClickHouse.ReadTimeout),
		pkgch.WithMaxExecutionTime(cfg.ClickHouse.MaxExecutionTime),
		pkgch.WithConnectRetry(cfg.ClickHouse.ConnectAttempts, cfg.ClickHouse.ConnectDelay),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("clickhouse client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := client.InitSchema(ctx, internalrepo.Schema(cfg.ClickHouse.Database)); err != nil {
		_ = client.Close()
		return nil, nil, fmt.Errorf("clickhouse schema: %w", err)
	}
	log.Info("clickhouse ready", applogger.String("database", cfg.ClickHouse.Database))

	return client, func() {
		if err := client.Close(); err != nil {
			log.Warn("clickhouse close error", applogger.Error(err))
		}
	}, nil
}

// ProvideKafkaProducer creates the producer and routes warn/error log digests
// through it. Returns nil when Kafka is disabled.
func ProvideKafkaProducer(cfg *config.Config, log *applogger.Logger) (*pkgkafka.Producer, func(), error) {
	if !cfg.Kafka.Enabled {
		return nil, func() {}, nil
	}
	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithCompression(cfg.Kafka.Compression),
		pkgkafka.WithRequiredAcks(cfg.Kafka.RequiredAcks),
		pkgkafka.WithBatchSize(cfg.Kafka.Producer.BatchSize),
		pkgkafka.WithBatchTimeout(cfg.Kafka.Producer.Linger),
		pkgkafka.WithTimeouts(cfg.Kafka.Producer.WriteTimeout, cfg.Kafka.Producer.WriteTimeout),
		pkgkafka.WithMaxAttempts(cfg.Kafka.Producer.MaxAttempts),
		pkgkafka.WithAsync(cfg.Kafka.Producer.Async),
		pkgkafka.WithHashByKey(true),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("kafka producer: %w", err)
	}
	log.AddCollector(&applogger.CollectionConfig{
		TimeInterval:   cfg.Logging.CollectInterval,
		CountThreshold: cfg.Logging.CollectThreshold,
		Topic:          cfg.Kafka.LogTopic,
		Publisher:      producer,
	})

	return producer, func() {
		log.RemoveCollector()
		if err := producer.Close(); err != nil {
			log.Warn("kafka producer close error", applogger.Error(err))
		}
	}, nil
}

// ProvideKafkaConsumer archives the alerts topic into ClickHouse. It needs
// both Kafka and ClickHouse; otherwise it returns nil.
func ProvideKafkaConsumer(cfg *config.Config, ch *pkgch.Client, log *applogger.Logger) (*pkgkafka.Consumer, error) {
	if !cfg.Kafka.Enabled || ch == nil {
		return nil, nil
	}
	consumer, err := pkgkafka.NewConsumer(log,
		pkgkafka.WithConsumerBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithConsumerGroupID(cfg.Kafka.Consumer.GroupID),
		pkgkafka.WithConsumerRetry(cfg.Kafka.Consumer.RetryMax, cfg.Kafka.Consumer.BackoffMin),
		pkgkafka.WithConsumerDLQ(cfg.Kafka.AlertsTopic+".dlq"),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka consumer: %w", err)
	}
	store := internalrepo.NewCHAlertStore(ch.DB(), ch.Database(), log)
	consumer.RegisterHandler(usecase.NewAlertArchiveHandler(cfg.Kafka.AlertsTopic, store))
	return consumer, nil
}

// ProvideCache picks Redis when enabled, else the in-process TTL cache.
func ProvideCache(cfg *config.Config, log *applogger.Logger) (cache.BytesCache, func(), error) {
	if !cfg.Redis.Enabled {
		return cache.NewTTLCache(), func() {}, nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), probeTimeout)
	defer cancel()
	rc, err := cache.NewRedisCache(ctx, cache.RedisConfig{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("redis cache: %w", err)
	}
	log.Info("redis cache ready", applogger.String("addr", cfg.Redis.Addr))
	return rc, func() {
		if err := rc.Close(); err != nil {
			log.Warn("redis close error", applogger.Error(err))
		}
	}, nil
}

// ProvideScorer probes the sentiment model once and records the chosen strategy.
func ProvideScorer(cfg *config.Config, m domrepo.Metrics, log *applogger.Logger) (domsvc.Scorer, error) {
	th := sentiment.Thresholds{Positive: cfg.Sentiment.PositiveThreshold, Negative: cfg.Sentiment.NegativeThreshold}
	s, err := sentiment.Select(cfg.Sentiment.Strategy, th, log)
	if err != nil {
		return nil, err
	}
	m.RecordStrategy("sentiment", s.Kind().String())
	log.Info("sentiment strategy selected", applogger.String("kind", s.Kind().String()))
	return s, nil
}

// ProvideForecastEngine probes the Prophet sidecar (when configured) and
// records the chosen strategy.
func ProvideForecastEngine(cfg *config.Config, m domrepo.Metrics, log *applogger.Logger) (*forecast.Engine, error) {
	var model domsvc.ForecastModel
	if cfg.Forecast.ModelURL != "" {
		retrier := retry.New(
			retry.WithMaxAttempts(cfg.Providers.MaxAttempts),
			retry.WithBaseDelay(cfg.Providers.BaseDelay),
			retry.WithMaxJitter(cfg.Providers.MaxJitter),
		)
		model = analytics.NewProphetForecaster(analytics.NewHTTPServiceBase(cfg.Forecast.ModelURL, cfg.Forecast.Timeout, retrier))
	}

	ctx, cancel := context.WithTimeout(context.Background(), probeTimeout)
	defer cancel()
	e, err := forecast.Select(ctx, cfg.Forecast.Strategy, model, cfg.Forecast.Band, log)
	if err != nil {
		return nil, err
	}
	m.RecordStrategy("forecast", e.Kind().String())
	log.Info("forecast strategy selected", applogger.String("kind", e.Kind().String()))
	return e, nil
}

func ProvideSummarizer(cfg *config.Config, m domrepo.Metrics, log *applogger.Logger) (domsvc.Summarizer, error) {
	s, err := insights.Select(cfg.Insights.Strategy, insights.LLMConfig{
		APIKey:      cfg.Insights.APIKey,
		BaseURL:     cfg.Insights.BaseURL,
		Model:       cfg.Insights.Model,
		Temperature: cfg.Insights.Temperature,
		MaxTokens:   cfg.Insights.MaxTokens,
		Timeout:     cfg.Insights.Timeout,
		MaxItems:    cfg.Insights.MaxItems,
		ItemChars:   cfg.Insights.ItemChars,
	}, insights.NewTemplateSummarizer(cfg.Insights.TemplateItems, cfg.Insights.TemplateChars), log)
	if err != nil {
		return nil, err
	}
	m.RecordStrategy("insights", s.Kind().String())
	log.Info("insights strategy selected", applogger.String("kind", s.Kind().String()))
	return s, nil
}

func ProvideRegistry(cfg *config.Config, m domrepo.Metrics, log *applogger.Logger) *providers.Registry {
	p := cfg.Providers
	return providers.NewRegistry(providers.Keys{
		GNews:        p.Keys.GNews,
		SerpAPI:      p.Keys.SerpAPI,
		Twitter:      p.Keys.Twitter,
		Finnhub:      p.Keys.Finnhub,
		AlphaVantage: p.Keys.AlphaVantage,
	}, p.BaseURLs, providers.Deps{
		Policy: providers.Policy{
			MaxAttempts: p.MaxAttempts,
			BaseDelay:   p.BaseDelay,
			MaxJitter:   p.MaxJitter,
		},
		Timeout:   p.Timeout,
		UserAgent: p.UserAgent,
		Metrics:   m,
		Log:       log,
	})
}

// ProvideFetchOrchestrator resolves the configured tiers against the registry.
func ProvideFetchOrchestrator(
	cfg *config.Config,
	reg *providers.Registry,
	scorer domsvc.Scorer,
	c cache.BytesCache,
	m domrepo.Metrics,
	log *applogger.Logger,
) (*usecase.FetchOrchestrator, error) {
	news, err := reg.Pick(cfg.Providers.NewsOrder)
	if err != nil {
		return nil, fmt.Errorf("providers.news_order: %w", err)
	}
	social, err := reg.Pick(cfg.Providers.Social)
	if err != nil {
		return nil, fmt.Errorf("providers.social: %w", err)
	}
	log.Info("provider tiers",
		applogger.Strings("news", cfg.Providers.NewsOrder),
		applogger.Strings("social", cfg.Providers.Social),
	)
	return usecase.NewFetchOrchestrator(usecase.OrchestratorConfig{
		SocialLimit: cfg.Providers.SocialLimit,
		CacheTTL:    cfg.Providers.CacheTTL,
	}, news, social, scorer, c, m, log), nil
}

func ProvideCatalog() *catalog.Catalog {
	return catalog.New()
}

func ProvideDataset(cfg *config.Config, log *applogger.Logger) *internalrepo.CSVDataset {
	return internalrepo.NewCSVDataset(cfg.Dataset.Dir, log)
}

// ProvideGenerator builds the dataset generator; an empty anchor date means today.
func ProvideGenerator(cfg *config.Config, cat *catalog.Catalog) (*dataset.Generator, error) {
	var anchor time.Time
	if cfg.Dataset.AnchorDate != "" {
		t, ok := util.ParseDate(cfg.Dataset.AnchorDate)
		if !ok {
			return nil, fmt.Errorf("dataset.anchor_date %q is not YYYY-MM-DD", cfg.Dataset.AnchorDate)
		}
		anchor = t
	}
	return dataset.NewGenerator(cat, cfg.Dataset.Seed, cfg.Dataset.RowsPerCategory, anchor), nil
}

// ProvideRecordArchive returns the ClickHouse archive, or nil without ClickHouse.
func ProvideRecordArchive(cfg *config.Config, ch *pkgch.Client, log *applogger.Logger) domrepo.RecordArchive {
	if ch == nil {
		return nil
	}
	return internalrepo.NewCHRecordArchive(ch.DB(), ch.Database(), log)
}

func ProvideAggregator(
	orch *usecase.FetchOrchestrator,
	ds *internalrepo.CSVDataset,
	summarizer domsvc.Summarizer,
	archive domrepo.RecordArchive,
	m domrepo.Metrics,
	log *applogger.Logger,
) *usecase.Aggregator {
	return usecase.NewAggregator(orch, ds, summarizer, archive, m, log)
}

func ProvideForecastUseCase(ds *internalrepo.CSVDataset, cat *catalog.Catalog, engine *forecast.Engine, log *applogger.Logger) *usecase.ForecastUseCase {
	return usecase.NewForecastUseCase(ds, cat.Slugs(), engine, log)
}

func ProvideRegenerateUseCase(gen *dataset.Generator, ds *internalrepo.CSVDataset, log *applogger.Logger) *usecase.RegenerateUseCase {
	return usecase.NewRegenerateUseCase(gen, ds, log)
}

// ProvideAlertSinks always writes the JSONL log; Kafka is added when enabled.
func ProvideAlertSinks(cfg *config.Config, producer *pkgkafka.Producer, log *applogger.Logger) ([]domrepo.AlertSink, func()) {
	alertLog := internalrepo.NewAlertLog(cfg.Alerts.LogPath, cfg.Logging.MaxSizeMB, cfg.Logging.MaxBackups)
	sinks := []domrepo.AlertSink{alertLog}
	if producer != nil {
		sinks = append(sinks, internalrepo.NewKafkaAlertPublisher(producer, cfg.Kafka.AlertsTopic))
	}
	return sinks, func() {
		if err := alertLog.Close(); err != nil {
			log.Warn("alert log close error", applogger.Error(err))
		}
	}
}

func ProvideAlertUseCase(sinks []domrepo.AlertSink, log *applogger.Logger) *usecase.AlertUseCase {
	return usecase.NewAlertUseCase(sinks, log)
}

func ProvideLimiter(cfg *config.Config) *ratelimit.Limiter {
	return ratelimit.New(cfg.Server.RateLimit.RPS, cfg.Server.RateLimit.Burst)
}

func ProvideHandler(
	cfg *config.Config,
	log *applogger.Logger,
	cat *catalog.Catalog,
	agg *usecase.Aggregator,
	fc *usecase.ForecastUseCase,
	ds *internalrepo.CSVDataset,
	alerts *usecase.AlertUseCase,
	regen *usecase.RegenerateUseCase,
	m *servicemetrics.Endpoint,
) *api.MarketEchoHandler {
	return api.NewMarketEchoHandler(log, cat, agg, fc, ds, alerts, regen, m).
		WithForecastDays(cfg.Forecast.DefaultDays, cfg.Forecast.MaxDays)
}

func ProvideHTTPServer(cfg *config.Config, log *applogger.Logger, h *api.MarketEchoHandler, lim *ratelimit.Limiter) *xhttp.Server {
	return xhttp.NewServer(log, h,
		xhttp.WithPort(cfg.Server.Port),
		xhttp.WithTimeouts(cfg.Server.ReadTimeout, cfg.Server.WriteTimeout, cfg.Server.ShutdownTimeout),
		xhttp.WithCORS(cfg.Server.CORS.AllowOrigins, cfg.Server.CORS.MaxAge),
		xhttp.WithRateLimit(lim),
		xhttp.WithMetrics(prometheus.DefaultRegisterer),
	)
}

// ProvideApp creates the application server.
func ProvideApp(cfg *config.Config, log *applogger.Logger, srv *xhttp.Server, consumer *pkgkafka.Consumer) *server.App {
	var components []server.Component
	if consumer != nil {
		components = append(components, consumer)
	}
	return server.New(log, srv, cfg.Server.ShutdownTimeout, components...)
}
