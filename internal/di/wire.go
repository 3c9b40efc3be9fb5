//go:build wireinject
// +build wireinject

package di

import (
	"github.com/driver4567/StockvsTrend/internal/usecase"
	"github.com/driver4567/StockvsTrend/pkg/config"
	"github.com/driver4567/StockvsTrend/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		// Ambient
		ProvideLogger,
		ProvideMetrics,

		// Providers
		ProvideHTTPClient,
		ProvideFetchers,

		// Use cases
		ProvideQueryStore,
		usecase.NewOrchestrator,
		usecase.NewDashboard,

		// Result events
		ProvideEventPublisher,
		ProvideEventPipeline,

		// Transport
		ProvideHub,
		ProvideHTTPServer,

		// Application server
		ProvideApp,
	)
	return &server.App{}, nil
}
