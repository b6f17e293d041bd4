//go:build wireinject
// +build wireinject

package di

import (
	"CoinPulse/pkg/config"
	"CoinPulse/pkg/server"

	"github.com/google/wire"
)

// infraSet is shared by every binary: logging, storage, caching, lifecycle.
var infraSet = wire.NewSet(
	ProvideLogger,
	ProvideClickHouseClient,
	ProvideRedisCache,
	ProvideBytesCache,
	ProvideTelemetryQueue,
	ProvideBarStore,
	ProvideApp,
)

// InitializeGatewayApp wires the public gateway: catalog, compare, and the
// analysis forwarder.
func InitializeGatewayApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		infraSet,
		ProvideMetrics,
		ProvideCatalogUseCase,
		ProvideCompareUseCase,
		ProvideForwardClient,
		ProvideGatewayHandler,
	)
	return &server.App{}, nil
}

// InitializeTechnicalApp wires the technical computation unit.
func InitializeTechnicalApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		infraSet,
		ProvideTechnicalStrategy,
		ProvideTechnicalFacade,
		ProvideTechnicalHandler,
	)
	return &server.App{}, nil
}

// InitializePredictionApp wires the prediction computation unit.
func InitializePredictionApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		infraSet,
		ProvidePredictionStrategy,
		ProvidePredictionFacade,
		ProvidePredictionHandler,
	)
	return &server.App{}, nil
}

// InitializeOnchainApp wires the onchain computation unit.
func InitializeOnchainApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		infraSet,
		ProvideOnchainStrategy,
		ProvideOnchainFacade,
		ProvideOnchainHandler,
	)
	return &server.App{}, nil
}
