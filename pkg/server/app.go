package server

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	xhttp "MarketPulse/pkg/http"
	applogger "MarketPulse/pkg/logger"
)

// Component is a background worker started with the app (Kafka consumer, etc).
type Component interface {
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
}

// App encapsulates the entire application lifecycle.
type App struct {
	log             *applogger.Logger
	httpServer      *xhttp.Server
	components      []Component
	shutdownTimeout time.Duration
}

// New creates a new App. Nil components are skipped.
func New(log *applogger.Logger, httpServer *xhttp.Server, shutdownTimeout time.Duration, components ...Component) *App {
	if log == nil {
		log = applogger.Nop()
	}
	if shutdownTimeout <= 0 {
		shutdownTimeout = 10 * time.Second
	}
	a := &App{log: log, httpServer: httpServer, shutdownTimeout: shutdownTimeout}
	for _, c := range components {
		if c != nil {
			a.components = append(a.components, c)
		}
	}
	return a
}

// Run starts the application and blocks until interrupted or ctx is done.
func (a *App) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	started := make([]Component, 0, len(a.components))
	for _, c := range a.components {
		if err := c.Start(ctx); err != nil {
			a.log.Error("component start failed", applogger.Error(err))
			a.stopComponents(started)
			return err
		}
		started = append(started, c)
	}

	if err := a.httpServer.Start(); err != nil {
		a.log.Error("http server start error", applogger.Error(err))
		a.stopComponents(started)
		return err
	}

	<-ctx.Done()
	a.log.Info("shutdown signal received")
	return a.shutdown(started)
}

// shutdown stops the HTTP server first so no new work arrives, then the components.
func (a *App) shutdown(started []Component) error {
	ctx, cancel := context.WithTimeout(context.Background(), a.shutdownTimeout)
	defer cancel()

	var firstErr error
	if err := a.httpServer.Stop(ctx); err != nil {
		a.log.Error("http shutdown error", applogger.Error(err))
		firstErr = err
	}
	if err := a.stopAll(ctx, started); err != nil && firstErr == nil {
		firstErr = err
	}
	a.log.Info("shutdown complete")
	return firstErr
}

func (a *App) stopComponents(started []Component) {
	ctx, cancel := context.WithTimeout(context.Background(), a.shutdownTimeout)
	defer cancel()
	_ = a.stopAll(ctx, started)
}

func (a *App) stopAll(ctx context.Context, started []Component) error {
	var firstErr error
	for i := len(started) - 1; i >= 0; i-- {
		if err := started[i].Stop(ctx); err != nil {
			a.log.Warn("component stop error", applogger.Error(err))
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}
