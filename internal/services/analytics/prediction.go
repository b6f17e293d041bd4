package analytics

import (
	"context"
	"fmt"
	"hash/fnv"
	"time"

	"CoinPulse/internal/domain/fault"
	"CoinPulse/internal/domain/models"
	"CoinPulse/internal/services/forecast"
	"CoinPulse/internal/services/stats"
)

// PredictionConfig bounds the caller-supplied training parameters and carries
// the network hyperparameters.
type PredictionConfig struct {
	MinLookback     int
	MaxLookback     int
	DefaultLookback int
	MinEpochs       int
	MaxEpochs       int
	DefaultEpochs   int
	TrainPolicy     string
	Hidden1         int
	Hidden2         int
	LearningRate    float64
	TrainSplit      float64
}

// DefaultPredictionConfig returns the documented parameter domains and
// network defaults.
func DefaultPredictionConfig() PredictionConfig {
	return PredictionConfig{
		MinLookback:     5,
		MaxLookback:     100,
		DefaultLookback: 30,
		MinEpochs:       5,
		MaxEpochs:       50,
		DefaultEpochs:   15,
		TrainPolicy:     TrainPolicySingleflight,
		Hidden1:         32,
		Hidden2:         16,
		LearningRate:    0.01,
		TrainSplit:      0.7,
	}
}

func (c PredictionConfig) withDefaults() PredictionConfig {
	def := DefaultPredictionConfig()
	if c.MinLookback <= 0 {
		c.MinLookback = def.MinLookback
	}
	if c.MaxLookback <= 0 {
		c.MaxLookback = def.MaxLookback
	}
	if c.DefaultLookback <= 0 {
		c.DefaultLookback = def.DefaultLookback
	}
	if c.MinEpochs <= 0 {
		c.MinEpochs = def.MinEpochs
	}
	if c.MaxEpochs <= 0 {
		c.MaxEpochs = def.MaxEpochs
	}
	if c.DefaultEpochs <= 0 {
		c.DefaultEpochs = def.DefaultEpochs
	}
	if c.TrainPolicy == "" {
		c.TrainPolicy = def.TrainPolicy
	}
	if c.Hidden1 <= 0 {
		c.Hidden1 = def.Hidden1
	}
	if c.Hidden2 <= 0 {
		c.Hidden2 = def.Hidden2
	}
	if c.LearningRate <= 0 {
		c.LearningRate = def.LearningRate
	}
	if c.TrainSplit <= 0 || c.TrainSplit >= 1 {
		c.TrainSplit = def.TrainSplit
	}
	return c
}

// PredictionStrategy trains (or reuses) a per-key forecaster and produces a
// next-close estimate. The model cache is the only mutable state.
type PredictionStrategy struct {
	cfg   PredictionConfig
	cache *ModelCache
}

// NewPredictionStrategy builds the strategy and its model cache.
func NewPredictionStrategy(cfg PredictionConfig) *PredictionStrategy {
	cfg = cfg.withDefaults()
	return &PredictionStrategy{cfg: cfg, cache: NewModelCache(cfg.TrainPolicy)}
}

// Cache exposes the model cache for inspection.
func (s *PredictionStrategy) Cache() *ModelCache { return s.cache }

func (s *PredictionStrategy) Kind() models.AnalysisKind { return models.KindPrediction }

// MinBars is the floor across all valid parameterizations; the actual
// requirement is lookback+1 and is enforced per call.
func (s *PredictionStrategy) MinBars() int { return s.cfg.MinLookback + 1 }

func (s *PredictionStrategy) Analyze(ctx context.Context, symbol string, series []models.Bar, p models.AnalysisParams) (*models.Analysis, error) {
	lookback := p.Lookback
	if lookback == 0 {
		lookback = s.cfg.DefaultLookback
	}
	epochs := p.Epochs
	if epochs == 0 {
		epochs = s.cfg.DefaultEpochs
	}

	if lookback < s.cfg.MinLookback || lookback > s.cfg.MaxLookback {
		return nil, fault.InvalidParameters("lookback must be between %d and %d, got %d", s.cfg.MinLookback, s.cfg.MaxLookback, lookback)
	}
	if epochs < s.cfg.MinEpochs || epochs > s.cfg.MaxEpochs {
		return nil, fault.InvalidParameters("epochs must be between %d and %d, got %d", s.cfg.MinEpochs, s.cfg.MaxEpochs, epochs)
	}
	if len(series) < lookback+1 {
		return nil, fault.InsufficientData("%s needs at least %d bars for prediction with lookback %d, have %d", symbol, lookback+1, lookback, len(series))
	}

	closes := models.Closes(series)
	key := ModelKey(symbol, lookback, epochs)

	train := func() (*ModelEntry, error) {
		model, metrics, err := forecast.Train(closes, lookback, epochs, s.networkConfig(), seedFor(key))
		if err != nil {
			return nil, fault.Internal("training forecaster for %s", key).WithCause(err)
		}
		trainedAt := time.Now().UTC()
		return &ModelEntry{
			Model:      model,
			Metrics:    metrics,
			VersionKey: fmt.Sprintf("%s-%d-%d-%d", symbol, lookback, epochs, trainedAt.UnixNano()),
			TrainedAt:  trainedAt,
		}, nil
	}

	var (
		entry *ModelEntry
		hit   bool
		err   error
	)
	if p.UseCache {
		entry, hit, err = s.cache.GetOrTrain(key, train)
	} else {
		entry, err = train()
		if err == nil {
			s.cache.set(key, entry)
		}
	}
	if err != nil {
		return nil, err
	}

	predicted, err := entry.Model.PredictNext(closes)
	if err != nil {
		return nil, fault.Internal("predicting next close for %s", key).WithCause(err)
	}

	last := closes[len(closes)-1]
	report := &models.PredictionReport{
		Symbol:         symbol,
		Horizon:        "1d",
		PredictedClose: stats.Round2(predicted),
		LastClose:      last,
		ChangePct:      stats.Round2(stats.ChangePct(last, predicted)),
		Lookback:       lookback,
		Epochs:         epochs,
		Metrics: models.ModelMetrics{
			RMSE: stats.Round2(entry.Metrics.RMSE),
			MAPE: stats.Round2(entry.Metrics.MAPE),
			R2:   stats.Round4(entry.Metrics.R2),
		},
		ModelVersionKey: entry.VersionKey,
		Cached:          hit,
		TrainedAt:       entry.TrainedAt,
	}
	return &models.Analysis{Kind: models.KindPrediction, Prediction: report}, nil
}

func (s *PredictionStrategy) networkConfig() forecast.Config {
	return forecast.Config{
		Hidden1:      s.cfg.Hidden1,
		Hidden2:      s.cfg.Hidden2,
		LearningRate: s.cfg.LearningRate,
		TrainSplit:   s.cfg.TrainSplit,
	}
}

// seedFor derives a stable weight-initialization seed from the model key so
// retraining the same key reproduces the same model.
func seedFor(key string) int64 {
	h := fnv.New64a()
	h.Write([]byte(key))
	return int64(h.Sum64())
}
