//go:build wireinject
// +build wireinject

package di

import (
	"MagIntel/pkg/config"
	"MagIntel/pkg/server"

	"github.com/google/wire"
)

// InitializeApp builds the full application graph.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		ProvideLogger,
		ProvideMetrics,
		ProvideClickHouseClient,
		ProvideMarketStore,
		ProvidePriceFeed,
		ProvideForwardReturnFeed,
		ProvideSentimentFeed,
		ProvideBarWriter,
		ProvideKafkaProducer,
		ProvideEntryPublisher,
		ProvideKafkaConsumer,
		ProvideKafkaBarsHandler,
		ProvideCache,
		ProvideEngineConfig,
		ProvideSignalEngine,
		ProvideResearchUseCase,
		ProvideSignalsHandler,
		ProvideResearchHandler,
		ProvideRouter,
		ProvideApp,
	)
	return nil, nil
}
