//go:build wireinject
// +build wireinject

package di

import (
	"MarketPulse/pkg/config"
	"MarketPulse/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, func(), error) {
	wire.Build(
		// Ambient
		ProvideLogger,
		ProvideMetrics,
		ProvideEndpointMetrics,

		// Infrastructure clients
		ProvideClickHouseClient,
		ProvideKafkaProducer,
		ProvideKafkaConsumer,
		ProvideCache,

		// Strategies (probed once)
		ProvideScorer,
		ProvideForecastEngine,
		ProvideSummarizer,

		// Repositories and services
		ProvideRegistry,
		ProvideCatalog,
		ProvideDataset,
		ProvideGenerator,
		ProvideRecordArchive,
		ProvideAlertSinks,

		// Use cases
		ProvideFetchOrchestrator,
		ProvideAggregator,
		ProvideForecastUseCase,
		ProvideRegenerateUseCase,
		ProvideAlertUseCase,

		// HTTP + application server
		ProvideLimiter,
		ProvideHandler,
		ProvideHTTPServer,
		ProvideApp,
	)
	return nil, nil, nil
}
