//go:build wireinject
// +build wireinject

package di

import (
	"FinDeck/internal/handler/api"
	"FinDeck/internal/usecase"
	"FinDeck/pkg/config"
	"FinDeck/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		ProvideLogger,
		ProvideMetrics,

		// Infrastructure clients
		ProvideClickHouseClient,
		ProvideKafkaProducer,
		ProvideKafkaConsumer,
		ProvideRedisCache,
		ProvideCacheService,

		// Market data providers
		ProvideMarketStream,
		ProvideLiveQuotes,
		ProvideEODHD,
		ProvideQuoteSource,
		ProvidePriceHistorySource,
		ProvideRateSource,
		ProvideNewsSource,

		// Repositories
		ProvideQuoteStorage,
		ProvideQuotePublisher,

		// Ingestion
		ProvideQuoteProcessor,
		ProvideQuoteCollector,
		ProvideKafkaQuotesHandler,

		// Portfolio
		ProvideRegistry,
		usecase.NewReconstructUsecase,
		ProvidePerformanceUsecase,
		usecase.NewTradeUsecase,
		usecase.NewHoldingsUsecase,
		usecase.NewMarketUsecase,
		ProvideDashboardUsecase,

		// HTTP handlers
		api.NewPortfolioHandler,
		ProvideMarketHandler,
		api.NewDashboardHandler,

		// Background refresh
		ProvideRefreshQueue,
		ProvideScheduler,

		// Application server
		ProvideApp,
	)
	return &server.App{}, nil
}
