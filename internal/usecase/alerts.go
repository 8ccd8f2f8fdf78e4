package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"MarketPulse/internal/domain/models"
	domrepo "MarketPulse/internal/domain/repository"
	pkgkafka "MarketPulse/pkg/kafka"
	applogger "MarketPulse/pkg/logger"
	"MarketPulse/pkg/retry"

	"github.com/google/uuid"
)

// AlertUseCase stamps incoming alerts and hands them to every sink.
// A failing sink is logged and never fails the request.
type AlertUseCase struct {
	sinks []domrepo.AlertSink
	now   func() time.Time
	newID func() string
	log   *applogger.Logger
}

func NewAlertUseCase(sinks []domrepo.AlertSink, log *applogger.Logger) *AlertUseCase {
	if log == nil {
		log = applogger.Nop()
	}
	return &AlertUseCase{sinks: sinks, now: time.Now, newID: func() string { return uuid.NewString() }, log: log}
}

func (u *AlertUseCase) Receive(ctx context.Context, req models.AlertRequest) models.Alert {
	sev := models.Severity(req.Severity)
	if sev == "" {
		sev = models.SeverityInfo
	}
	a := models.Alert{
		ID:         u.newID(),
		Title:      req.Title,
		Severity:   sev,
		Message:    req.Message,
		Meta:       req.Meta,
		ReceivedAt: u.now().UTC(),
	}
	if a.Meta == nil {
		a.Meta = map[string]interface{}{}
	}

	for _, s := range u.sinks {
		if err := s.Save(ctx, a); err != nil {
			u.log.Error("alert sink failed", applogger.String("sink", s.Name()), applogger.String("id", a.ID), applogger.Error(err))
		}
	}
	u.log.Info("ALERT received",
		applogger.String("id", a.ID),
		applogger.String("title", a.Title),
		applogger.String("severity", string(a.Severity)),
	)
	return a
}

// AlertArchiveHandler consumes the alerts topic into a store.
type AlertArchiveHandler struct {
	topic string
	store domrepo.AlertSink
}

func NewAlertArchiveHandler(topic string, store domrepo.AlertSink) *AlertArchiveHandler {
	return &AlertArchiveHandler{topic: topic, store: store}
}

func (h *AlertArchiveHandler) Topic() string { return h.topic }

func (h *AlertArchiveHandler) Handle(ctx context.Context, b []byte) error {
	var a models.Alert
	if err := json.Unmarshal(b, &a); err != nil {
		return retry.Permanent(fmt.Errorf("decode alert: %w", err))
	}
	if a.ID == "" {
		return retry.Permanent(fmt.Errorf("alert without id"))
	}
	return h.store.Save(ctx, a)
}

var _ pkgkafka.MessageHandler = (*AlertArchiveHandler)(nil)
