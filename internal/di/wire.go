//go:build wireinject
// +build wireinject

package di

import (
	"LiqWatch/pkg/config"
	"LiqWatch/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		// Ambient infrastructure
		ProvideLogger,
		ProvideMetrics,

		// Infrastructure clients
		ProvideRedisCache,
		ProvideMirror,
		ProvideKafkaProducer,
		ProvideEventPublisher,
		ProvideBinanceStream,

		// Storage
		ProvideRegistry,
		ProvideStore,

		// Use cases
		ProvideProcessor,
		ProvidePipeline,
		ProvideCollector,
		ProvideJanitor,
		ProvideQueryService,

		// HTTP surface
		ProvideHandlers,

		// Application server
		ProvideApp,
	)
	return &server.App{}, nil
}
