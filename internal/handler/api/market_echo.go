package api

import (
	"context"
	"net/http"
	"time"

	"MarketPulse/internal/domain/models"
	"MarketPulse/internal/service/metrics"
	"MarketPulse/internal/usecase"
	xhttp "MarketPulse/pkg/http"
	applogger "MarketPulse/pkg/logger"

	"github.com/labstack/echo/v4"
)

const (
	insightsLimit     = 20
	socialPostsInView = 10

	DefaultForecastDays = 30
	MaxForecastDays     = 365
)

// Catalog is the category lookup behind /api/domains and /api/competitors.
type Catalog interface {
	All() []models.Category
	Get(slug string) (models.Category, bool)
}

// Collector gathers a digest for one entity/category.
type Collector interface {
	Collect(ctx context.Context, opts usecase.CollectOptions) models.Digest
}

type Forecaster interface {
	Forecast(ctx context.Context, company, domain string, days int) usecase.ForecastResult
}

// SampleSource reads the local dataset files directly.
type SampleSource interface {
	Load(ctx context.Context, category string) ([]models.SourceRecord, error)
	Exists(category string) bool
	Path(category string) string
}

type AlertReceiver interface {
	Receive(ctx context.Context, req models.AlertRequest) models.Alert
}

type Regenerator interface {
	Regenerate(ctx context.Context) error
}

// MarketEchoHandler serves the /api surface.
type MarketEchoHandler struct {
	logger   *applogger.Logger
	catalog  Catalog
	collect  Collector
	forecast Forecaster
	samples  SampleSource
	alerts   AlertReceiver
	regen    Regenerator
	metrics  *metrics.Endpoint

	defaultDays int
	maxDays     int
}

func NewMarketEchoHandler(
	logger *applogger.Logger,
	catalog Catalog,
	collect Collector,
	forecast Forecaster,
	samples SampleSource,
	alerts AlertReceiver,
	regen Regenerator,
	m *metrics.Endpoint,
) *MarketEchoHandler {
	if logger == nil {
		logger = applogger.Nop()
	}
	return &MarketEchoHandler{
		logger:   logger,
		catalog:  catalog,
		collect:  collect,
		forecast: forecast,
		samples:  samples,
		alerts:   alerts,
		regen:    regen,
		metrics:  m,

		defaultDays: DefaultForecastDays,
		maxDays:     MaxForecastDays,
	}
}

// WithForecastDays sets the horizon used when a request names none and the largest one accepted.
func (h *MarketEchoHandler) WithForecastDays(def, max int) *MarketEchoHandler {
	if def > 0 {
		h.defaultDays = def
	}
	if max > 0 {
		h.maxDays = max
	}
	return h
}

func (h *MarketEchoHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api")
	g.GET("/health", h.Health)
	g.GET("/domains", h.Domains)
	g.GET("/competitors", h.Competitors)
	g.GET("/news", h.News)
	g.GET("/social", h.Social)
	g.GET("/csv-sample", h.CSVSample)
	g.GET("/forecast", h.Forecast)
	g.GET("/insights", h.Insights)
	g.POST("/webhook/alerts", h.Alert)
	g.POST("/regenerate-csvs", h.Regenerate)
}

type feedResponse struct {
	Items  []models.SourceRecord `json:"items"`
	Source string                `json:"source"`
}

type sampleResponse struct {
	Items []models.SourceRecord `json:"items"`
	CSV   *string               `json:"csv"`
}

type competitorsResponse struct {
	Domain      string              `json:"domain"`
	Competitors []models.Competitor `json:"competitors"`
}

type forecastResponse struct {
	Forecast []models.ForecastPoint `json:"forecast"`
	Source   string                 `json:"source"`
}

type sentimentSummary struct {
	Average float64 `json:"average"`
	Count   int     `json:"count"`
}

type insightsResponse struct {
	Company          string                `json:"company"`
	Domain           string                `json:"domain"`
	Insights         string                `json:"insights"`
	TopHeadlines     []models.SourceRecord `json:"top_headlines"`
	SocialPosts      []models.SourceRecord `json:"social_posts"`
	SentimentSummary sentimentSummary      `json:"sentiment_summary"`
	Source           string                `json:"source"`
}

type statusResponse struct {
	Status string `json:"status"`
}

func (h *MarketEchoHandler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, statusResponse{Status: "ok"})
}

func (h *MarketEchoHandler) Domains(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string][]models.Category{"domains": h.catalog.All()})
}

func (h *MarketEchoHandler) Competitors(c echo.Context) error {
	req := &models.CompetitorsRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	cat, ok := h.catalog.Get(req.Domain)
	if !ok {
		return xhttp.AppErrorResponse(c, xhttp.UnknownDomainError(req.Domain))
	}
	return c.JSON(http.StatusOK, competitorsResponse{Domain: cat.Slug, Competitors: cat.Competitors})
}

func (h *MarketEchoHandler) News(c echo.Context) error {
	return h.feed(c, "news", false)
}

func (h *MarketEchoHandler) Social(c echo.Context) error {
	return h.feed(c, "social", true)
}

func (h *MarketEchoHandler) feed(c echo.Context, endpoint string, socialOnly bool) error {
	start := time.Now()
	req := &models.FeedRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	d := h.collect.Collect(c.Request().Context(), usecase.CollectOptions{
		Company:    req.Company,
		Domain:     req.Domain,
		Limit:      req.Limit,
		SocialOnly: socialOnly,
	})
	h.metrics.Observe(endpoint, start, nil)
	return c.JSON(http.StatusOK, feedResponse{Items: d.Records, Source: d.Provenance})
}

func (h *MarketEchoHandler) CSVSample(c echo.Context) error {
	req := &models.SampleRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	resp := sampleResponse{Items: []models.SourceRecord{}}
	if !h.samples.Exists(req.Domain) {
		return c.JSON(http.StatusOK, resp)
	}
	rows, err := h.samples.Load(c.Request().Context(), req.Domain)
	if err != nil {
		h.logger.Error("csv sample load failed", applogger.String("domain", req.Domain), applogger.Error(err))
		return xhttp.AppErrorResponse(c, xhttp.DatasetUnavailableError(req.Domain, err))
	}
	if len(rows) > req.Limit {
		rows = rows[:req.Limit]
	}
	path := h.samples.Path(req.Domain)
	resp.Items = rows
	resp.CSV = &path
	return c.JSON(http.StatusOK, resp)
}

func (h *MarketEchoHandler) Forecast(c echo.Context) error {
	start := time.Now()
	req := &models.ForecastRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	if req.Days == 0 {
		req.Days = h.defaultDays
	}
	if req.Days > h.maxDays {
		return xhttp.AppErrorResponse(c, xhttp.OutOfRangeError("days", h.maxDays))
	}
	res := h.forecast.Forecast(c.Request().Context(), req.Company, req.Domain, req.Days)
	h.metrics.Observe("forecast", start, nil)
	return c.JSON(http.StatusOK, forecastResponse{Forecast: res.Points, Source: res.Source})
}

func (h *MarketEchoHandler) Insights(c echo.Context) error {
	start := time.Now()
	req := &models.InsightsRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	d := h.collect.Collect(c.Request().Context(), usecase.CollectOptions{
		Company:   req.Company,
		Domain:    req.Domain,
		Limit:     insightsLimit,
		Summarize: true,
	})
	posts := d.Records
	if len(posts) > socialPostsInView {
		posts = posts[:socialPostsInView]
	}
	h.metrics.Observe("insights", start, nil)
	return c.JSON(http.StatusOK, insightsResponse{
		Company:          req.Company,
		Domain:           req.Domain,
		Insights:         d.Summary,
		TopHeadlines:     d.Records,
		SocialPosts:      posts,
		SentimentSummary: sentimentSummary{Average: d.SentimentAverage, Count: d.SentimentCount},
		Source:           d.Provenance,
	})
}

func (h *MarketEchoHandler) Alert(c echo.Context) error {
	req := &models.AlertRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	h.alerts.Receive(c.Request().Context(), *req)
	return c.JSON(http.StatusOK, statusResponse{Status: "received"})
}

func (h *MarketEchoHandler) Regenerate(c echo.Context) error {
	start := time.Now()
	err := h.regen.Regenerate(c.Request().Context())
	h.metrics.Observe("regenerate", start, err)
	if err != nil {
		h.logger.Error("regenerate usecase error", applogger.Error(err))
		return c.JSON(http.StatusInternalServerError, statusResponse{Status: "failed"})
	}
	return c.JSON(http.StatusOK, statusResponse{Status: "ok"})
}

var _ xhttp.Handler = (*MarketEchoHandler)(nil)
