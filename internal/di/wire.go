//go:build wireinject
// +build wireinject

package di

import (
	"FinAdvisor/pkg/config"
	"FinAdvisor/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		// Ambient
		ProvideLogger,
		ProvideMetrics,
		ProvideCacheService,
		ProvideProviderCache,
		ProvideRateLimiter,

		// Data providers
		ProvideHistoryProvider,
		ProvideQuoteProvider,
		ProvideScanner,

		// Use cases
		ProvideAdvisor,
		ProvideConsensusEngine,
		ProvideComparator,
		ProvideScanRunner,
		ProvideMarketReporter,

		// HTTP surface
		ProvideHandler,

		// Application server
		ProvideApp,
	)
	return &server.App{}, nil
}
