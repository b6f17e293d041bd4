package analytics

import (
	"context"
	"testing"

	"CoinPulse/internal/domain/fault"
	"CoinPulse/internal/domain/models"
)

func TestPredictionCacheHitKeepsVersionKey(t *testing.T) {
	closes := make([]float64, 50)
	for i := range closes {
		closes[i] = 120
	}
	bars := barsFromCloses(closes...)
	strat := NewPredictionStrategy(PredictionConfig{})
	params := models.AnalysisParams{Lookback: 10, Epochs: 5, UseCache: true}

	first, err := strat.Analyze(context.Background(), "BTC", bars, params)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first.Prediction.Cached {
		t.Fatalf("first call must train, not hit the cache")
	}
	if first.Prediction.PredictedClose != 120 {
		t.Fatalf("constant series must predict the constant, got %v", first.Prediction.PredictedClose)
	}

	second, err := strat.Analyze(context.Background(), "BTC", bars, params)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !second.Prediction.Cached {
		t.Fatalf("second call must hit the cache")
	}
	if second.Prediction.ModelVersionKey != first.Prediction.ModelVersionKey {
		t.Fatalf("version key changed across cache hit: %s vs %s",
			first.Prediction.ModelVersionKey, second.Prediction.ModelVersionKey)
	}
}

func TestPredictionBypassCacheRetrains(t *testing.T) {
	closes := make([]float64, 40)
	for i := range closes {
		closes[i] = 80 + float64(i%5)
	}
	bars := barsFromCloses(closes...)
	strat := NewPredictionStrategy(PredictionConfig{})
	params := models.AnalysisParams{Lookback: 8, Epochs: 5, UseCache: false}

	first, err := strat.Analyze(context.Background(), "ETH", bars, params)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := strat.Analyze(context.Background(), "ETH", bars, params)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first.Prediction.Cached || second.Prediction.Cached {
		t.Fatalf("use_cache=false must never report a cache hit")
	}
	if first.Prediction.ModelVersionKey == second.Prediction.ModelVersionKey {
		t.Fatalf("retraining must mint a new version key")
	}
}

func TestPredictionParameterDomains(t *testing.T) {
	bars := barsFromCloses(make([]float64, 120)...)
	strat := NewPredictionStrategy(PredictionConfig{})

	_, err := strat.Analyze(context.Background(), "BTC", bars, models.AnalysisParams{Lookback: 3, Epochs: 15, UseCache: true})
	if !fault.Is(err, fault.KindInvalidParameters) {
		t.Fatalf("expected invalid parameters for lookback 3, got %v", err)
	}
	_, err = strat.Analyze(context.Background(), "BTC", bars, models.AnalysisParams{Lookback: 101, Epochs: 15, UseCache: true})
	if !fault.Is(err, fault.KindInvalidParameters) {
		t.Fatalf("expected invalid parameters for lookback 101, got %v", err)
	}
	_, err = strat.Analyze(context.Background(), "BTC", bars, models.AnalysisParams{Lookback: 30, Epochs: 3, UseCache: true})
	if !fault.Is(err, fault.KindInvalidParameters) {
		t.Fatalf("expected invalid parameters for epochs 3, got %v", err)
	}
}

func TestPredictionInsufficientSeries(t *testing.T) {
	bars := barsFromCloses(10, 11, 12, 13, 14, 15, 16, 17, 18, 19)
	strat := NewPredictionStrategy(PredictionConfig{})
	_, err := strat.Analyze(context.Background(), "BTC", bars, models.AnalysisParams{Lookback: 30, Epochs: 15, UseCache: true})
	if !fault.Is(err, fault.KindInsufficientData) {
		t.Fatalf("expected insufficient data, got %v", err)
	}
}

func TestPredictionDefaultsApplied(t *testing.T) {
	closes := make([]float64, 60)
	for i := range closes {
		closes[i] = 300 + float64(i)
	}
	strat := NewPredictionStrategy(PredictionConfig{})
	res, err := strat.Analyze(context.Background(), "SOL", barsFromCloses(closes...), models.AnalysisParams{UseCache: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Prediction.Lookback != 30 || res.Prediction.Epochs != 15 {
		t.Fatalf("expected defaults 30/15, got %d/%d", res.Prediction.Lookback, res.Prediction.Epochs)
	}
	if res.Prediction.Horizon != "1d" {
		t.Fatalf("unexpected horizon %s", res.Prediction.Horizon)
	}
}
