package analytics

import (
	"context"
	"strings"
	"time"

	"CoinPulse/internal/domain/fault"
	"CoinPulse/internal/domain/models"
	domrepo "CoinPulse/internal/domain/repository"
	domsvc "CoinPulse/internal/domain/service"
	"CoinPulse/internal/service/metrics"
	applogger "CoinPulse/pkg/logger"
)

// FetchDepths is the number of daily bars loaded per strategy family. Each
// depth covers the deepest window its strategy can be asked for.
type FetchDepths struct {
	Technical  int
	Prediction int
	Onchain    int
}

func (d FetchDepths) withDefaults() FetchDepths {
	if d.Technical <= 0 {
		d.Technical = 200
	}
	if d.Prediction <= 0 {
		d.Prediction = 500
	}
	if d.Onchain <= 0 {
		d.Onchain = 365
	}
	return d
}

// Facade is the single entry point for the three analytics families. It owns
// series fetching and strategy dispatch; it never aggregates across
// strategies, so each operation stays independently cacheable.
type Facade struct {
	store      domrepo.BarStore
	strategies map[models.AnalysisKind]domsvc.Strategy
	depths     FetchDepths
	l          *applogger.Logger
}

// NewFacade registers the given strategies under their kinds.
func NewFacade(store domrepo.BarStore, depths FetchDepths, strategies ...domsvc.Strategy) *Facade {
	m := make(map[models.AnalysisKind]domsvc.Strategy, len(strategies))
	for _, s := range strategies {
		m[s.Kind()] = s
	}
	return &Facade{store: store, strategies: m, depths: depths.withDefaults()}
}

// SetLogger injects a structured logger.
func (f *Facade) SetLogger(l *applogger.Logger) { f.l = l }

// Technical computes the indicator report for the timeframe window.
func (f *Facade) Technical(ctx context.Context, symbol, timeframe string) (*models.Analysis, error) {
	return f.analyze(ctx, models.KindTechnical, symbol, models.AnalysisParams{Timeframe: timeframe})
}

// Prediction produces the next-close estimate, training or reusing the cached
// model for (symbol, lookback, epochs).
func (f *Facade) Prediction(ctx context.Context, symbol string, lookback, epochs int, useCache bool) (*models.Analysis, error) {
	return f.analyze(ctx, models.KindPrediction, symbol, models.AnalysisParams{
		Lookback: lookback,
		Epochs:   epochs,
		UseCache: useCache,
	})
}

// OnchainSentiment derives the proxy on-chain metrics and sentiment report.
func (f *Facade) OnchainSentiment(ctx context.Context, symbol string) (*models.Analysis, error) {
	return f.analyze(ctx, models.KindOnchain, symbol, models.AnalysisParams{})
}

func (f *Facade) analyze(ctx context.Context, kind models.AnalysisKind, symbol string, p models.AnalysisParams) (*models.Analysis, error) {
	start := time.Now()

	strat, ok := f.strategies[kind]
	if !ok {
		return nil, fault.Internal("no strategy registered for kind %q", kind)
	}

	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "" {
		return nil, fault.InvalidParameters("symbol is required")
	}

	series, err := f.store.GetSeries(ctx, symbol, f.depth(kind))
	if err != nil {
		return nil, f.fail(kind, symbol, "loading series", err)
	}

	res, err := strat.Analyze(ctx, symbol, series, p)
	if err != nil {
		return nil, f.fail(kind, symbol, "analyzing", err)
	}

	metrics.AnalysisLatency.WithLabelValues(string(kind)).Observe(time.Since(start).Seconds())
	if kind == models.KindPrediction && res.Prediction != nil {
		outcome := "miss"
		if res.Prediction.Cached {
			outcome = "hit"
		}
		metrics.ModelTrainings.WithLabelValues(outcome).Inc()
	}
	if f.l != nil {
		f.l.Info("analysis ok",
			applogger.String("kind", string(kind)),
			applogger.String("symbol", symbol),
			applogger.Duration("duration_ms", time.Since(start)),
		)
	}
	return res, nil
}

// fail records the failure and returns it typed, preserving an existing fault
// kind and wrapping anything else as internal.
func (f *Facade) fail(kind models.AnalysisKind, symbol, action string, err error) error {
	metrics.AnalysisErrors.WithLabelValues(string(kind), string(fault.KindOf(err))).Inc()
	if f.l != nil {
		f.l.Error("analysis failed",
			applogger.String("kind", string(kind)),
			applogger.String("symbol", symbol),
			applogger.String("action", action),
			applogger.Error(err),
		)
	}
	return fault.AsError(err, action+" for "+symbol)
}

func (f *Facade) depth(kind models.AnalysisKind) int {
	switch kind {
	case models.KindTechnical:
		return f.depths.Technical
	case models.KindPrediction:
		return f.depths.Prediction
	default:
		return f.depths.Onchain
	}
}
