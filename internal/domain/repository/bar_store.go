package repository

import (
	"context"
	"time"

	"CoinPulse/internal/domain/models"
)

// BarStore provides read-only access to daily OHLCV series and the asset
// registry. Implementations fail with fault.NotFound when a symbol has no
// stored bars at all; a known symbol whose window holds no bars yields an
// empty series and a nil error. Reads are single and bounded; retries belong
// to callers.
type BarStore interface {
	// GetSeries returns the last `days` daily bars for symbol, ascending.
	GetSeries(ctx context.Context, symbol string, days int) ([]models.Bar, error)

	// GetRange returns bars between from and to inclusive, ascending.
	GetRange(ctx context.Context, symbol string, from, to time.Time) ([]models.Bar, error)

	// ListAssets returns the known symbols with display metadata.
	ListAssets(ctx context.Context) ([]models.Asset, error)

	// Health pings the underlying store.
	Health(ctx context.Context) error
}

// Metrics records operational measurements for stores and the gateway.
type Metrics interface {
	RecordLatency(op string, seconds float64)
	RecordError(kind string)
	RecordLastPrice(symbol string, price float64)
	RecordForward(unit, outcome string)
}
