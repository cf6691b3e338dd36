//go:build wireinject
// +build wireinject

package di

import (
	"StockPilot/pkg/config"
	"StockPilot/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire generates the implementation in wire_gen.go.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		// Logging and metrics
		ProvideLogger,
		ProvideZerolog,
		ProvideMetrics,

		// Infrastructure clients
		ProvideClickHouseClient,
		ProvideRedisCache,
		ProvideCache,
		ProvideKafkaProducer,
		ProvideKafkaConsumer,
		ProvideTrainingQueue,

		// Repositories
		ProvidePriceStore,
		ProvidePredictionStore,
		ProvidePublisher,
		ProvideTradingStore,
		ProvideModelStore,

		// External services
		ProvideMarketData,
		ProvideNews,
		ProvideQuoteStream,
		ProvideQuoteBook,

		// Use cases
		ProvideHistoryUseCase,
		ProvidePredictionUseCase,
		ProvideAnalysisUseCase,
		ProvideTrainingUseCase,
		ProvideTradingUseCase,
		ProvidePredictionSink,
		ProvideStreamConsumer,

		// HTTP surface and application server
		ProvideRoutes,
		ProvideApp,
	)
	return &server.App{}, nil
}
