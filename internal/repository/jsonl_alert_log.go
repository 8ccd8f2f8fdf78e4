package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sync"

	"MarketPulse/internal/domain/models"
	domrepo "MarketPulse/internal/domain/repository"

	"gopkg.in/natefinch/lumberjack.v2"
)

// AlertLog appends alerts as JSON lines to a size-rotated file.
type AlertLog struct {
	mu sync.Mutex
	w  io.WriteCloser
}

func NewAlertLog(path string, maxSizeMB, maxBackups int) *AlertLog {
	return &AlertLog{w: &lumberjack.Logger{
		Filename:   path,
		MaxSize:    maxSizeMB,
		MaxBackups: maxBackups,
	}}
}

func (a *AlertLog) Name() string { return "jsonl" }

func (a *AlertLog) Save(_ context.Context, alert models.Alert) error {
	line, err := json.Marshal(alert)
	if err != nil {
		return fmt.Errorf("encode alert: %w", err)
	}
	line = append(line, '\n')

	a.mu.Lock()
	defer a.mu.Unlock()
	if _, err := a.w.Write(line); err != nil {
		return fmt.Errorf("append alert: %w", err)
	}
	return nil
}

func (a *AlertLog) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.w.Close()
}

var _ domrepo.AlertSink = (*AlertLog)(nil)
