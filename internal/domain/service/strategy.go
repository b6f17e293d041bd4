package service

import (
	"context"

	"CoinPulse/internal/domain/models"
)

// Strategy is the shared capability behind the three analytics variants.
// Implementations are pure functions of (symbol, series, params) except for
// the Prediction variant's trained-model cache.
type Strategy interface {
	// Kind identifies the strategy family.
	Kind() models.AnalysisKind

	// MinBars is the minimum series length the strategy can analyze.
	MinBars() int

	// Analyze computes the strategy result for an already-fetched series.
	Analyze(ctx context.Context, symbol string, series []models.Bar, p models.AnalysisParams) (*models.Analysis, error)
}
