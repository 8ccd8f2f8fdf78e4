package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	domrepo "MarketPulse/internal/domain/repository"
	"MarketPulse/internal/service/dataset"
	applogger "MarketPulse/pkg/logger"
)

// Generator produces the dataset batches.
type Generator interface {
	Generate() []dataset.Batch
}

// RegenerateUseCase rewrites every category file. Runs are serialized.
type RegenerateUseCase struct {
	mu    sync.Mutex
	gen   Generator
	store domrepo.Dataset
	log   *applogger.Logger
}

func NewRegenerateUseCase(gen Generator, store domrepo.Dataset, log *applogger.Logger) *RegenerateUseCase {
	if log == nil {
		log = applogger.Nop()
	}
	return &RegenerateUseCase{gen: gen, store: store, log: log}
}

func (u *RegenerateUseCase) Regenerate(ctx context.Context) error {
	u.mu.Lock()
	defer u.mu.Unlock()

	start := time.Now()
	batches := u.gen.Generate()
	for _, b := range batches {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := u.store.Replace(ctx, b.Category, b.Records); err != nil {
			u.log.Error("dataset regeneration failed", applogger.String("category", b.Category), applogger.Error(err))
			return fmt.Errorf("regenerate %s: %w", b.Category, err)
		}
	}
	u.log.Info("dataset regenerated",
		applogger.Int("categories", len(batches)),
		applogger.Duration("duration", time.Since(start)),
	)
	return nil
}
