package usecase

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"CoinPulse/internal/domain/fault"
	"CoinPulse/internal/domain/models"
	domrepo "CoinPulse/internal/domain/repository"
	"CoinPulse/internal/services/stats"
	applogger "CoinPulse/pkg/logger"
	"CoinPulse/pkg/util"
)

// CatalogConfig bounds the listing fan-out and the per-symbol read depths.
type CatalogConfig struct {
	DefaultLimit  int
	MaxLimit      int
	ListingDepth  int
	DetailDepth   int
	Workers       int
	DisplaySupply float64
}

// DefaultCatalogConfig returns standard catalog limits.
func DefaultCatalogConfig() CatalogConfig {
	return CatalogConfig{
		DefaultLimit:  100,
		MaxLimit:      250,
		ListingDepth:  365,
		DetailDepth:   2000,
		Workers:       8,
		DisplaySupply: 1_000_000,
	}
}

func (c CatalogConfig) withDefaults() CatalogConfig {
	d := DefaultCatalogConfig()
	if c.DefaultLimit <= 0 {
		c.DefaultLimit = d.DefaultLimit
	}
	if c.MaxLimit <= 0 {
		c.MaxLimit = d.MaxLimit
	}
	if c.ListingDepth <= 0 {
		c.ListingDepth = d.ListingDepth
	}
	if c.DetailDepth <= 0 {
		c.DetailDepth = d.DetailDepth
	}
	if c.Workers <= 0 {
		c.Workers = d.Workers
	}
	if c.DisplaySupply <= 0 {
		c.DisplaySupply = d.DisplaySupply
	}
	return c
}

// CatalogUseCase composes listing, detail, and history views from the bar store.
type CatalogUseCase struct {
	store   domrepo.BarStore
	metrics domrepo.Metrics
	cfg     CatalogConfig
	l       *applogger.Logger
}

func NewCatalogUseCase(store domrepo.BarStore, metrics domrepo.Metrics, cfg CatalogConfig) *CatalogUseCase {
	return &CatalogUseCase{store: store, metrics: metrics, cfg: cfg.withDefaults()}
}

// SetLogger injects a structured logger.
func (uc *CatalogUseCase) SetLogger(l *applogger.Logger) { uc.l = l }

// ListAssets returns up to limit listing rows, one per registered symbol.
// Symbols whose series cannot be read are skipped, not failed.
func (uc *CatalogUseCase) ListAssets(ctx context.Context, limit int) ([]models.AssetSummary, error) {
	start := time.Now()
	if limit <= 0 {
		limit = uc.cfg.DefaultLimit
	}
	if limit > uc.cfg.MaxLimit {
		limit = uc.cfg.MaxLimit
	}

	assets, err := uc.store.ListAssets(ctx)
	if err != nil {
		uc.metrics.RecordError("catalog_registry")
		return nil, fmt.Errorf("list assets: %w", err)
	}
	if len(assets) > limit {
		assets = assets[:limit]
	}

	rows := make([]*models.AssetSummary, len(assets))
	sem := make(chan struct{}, uc.cfg.Workers)
	var wg sync.WaitGroup
	for i, a := range assets {
		wg.Add(1)
		sem <- struct{}{}
		go func(i int, a models.Asset) {
			defer wg.Done()
			defer func() { <-sem }()
			bars, err := uc.store.GetSeries(ctx, a.Symbol, uc.cfg.ListingDepth)
			if err != nil {
				uc.metrics.RecordError("catalog_symbol")
				if uc.l != nil {
					uc.l.Warn("catalog listing skipped symbol",
						applogger.String("symbol", a.Symbol),
						applogger.Error(err),
					)
				}
				return
			}
			row := uc.compose(a, bars)
			uc.metrics.RecordLastPrice(a.Symbol, row.Price)
			rows[i] = &row
		}(i, a)
	}
	wg.Wait()

	out := make([]models.AssetSummary, 0, len(rows))
	for _, r := range rows {
		if r != nil {
			out = append(out, *r)
		}
	}
	uc.metrics.RecordLatency("catalog_listing", time.Since(start).Seconds())
	if uc.l != nil {
		uc.l.Info("catalog listing composed",
			applogger.Int("symbols", len(out)),
			applogger.Int("skipped", len(assets)-len(out)),
			applogger.Duration("duration_ms", time.Since(start)),
		)
	}
	return out, nil
}

// AssetDetail returns the listing row plus whole-window aggregates for one symbol.
func (uc *CatalogUseCase) AssetDetail(ctx context.Context, symbol string) (*models.AssetDetail, error) {
	start := time.Now()
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "" {
		return nil, fault.InvalidParameters("symbol is required")
	}

	bars, err := uc.store.GetSeries(ctx, symbol, uc.cfg.DetailDepth)
	if err != nil {
		return nil, fault.AsError(err, "asset detail for "+symbol)
	}
	asset := uc.lookupAsset(ctx, symbol)

	closes := models.Closes(bars)

	weekBars := bars
	if len(weekBars) > 7 {
		weekBars = weekBars[len(weekBars)-7:]
	}
	d := &models.AssetDetail{
		AssetSummary: uc.compose(asset, bars),
		AvgPrice:     stats.Round2(stats.Mean(closes)),
		VWAP:         stats.Round2(closeVWAP(weekBars)),
		Change7d:     changeOver(closes, 7),
		Change30d:    changeOver(closes, 30),
		TotalRecords: len(bars),
	}
	uc.metrics.RecordLatency("catalog_detail", time.Since(start).Seconds())
	return d, nil
}

// History returns the trailing days of daily OHLCV points for one symbol.
func (uc *CatalogUseCase) History(ctx context.Context, symbol string, days int) (*models.History, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "" {
		return nil, fault.InvalidParameters("symbol is required")
	}
	if days <= 0 {
		days = 365
	}
	if days > 2000 {
		days = 2000
	}

	bars, err := uc.store.GetSeries(ctx, symbol, days)
	if err != nil {
		return nil, fault.AsError(err, "history for "+symbol)
	}
	return &models.History{Symbol: symbol, Days: len(bars), Points: historyPoints(bars)}, nil
}

// HistoryRange returns daily OHLCV points between two days inclusive. A known
// symbol with no bars in the window yields an empty series, not an error.
func (uc *CatalogUseCase) HistoryRange(ctx context.Context, symbol string, from, to time.Time) (*models.History, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "" {
		return nil, fault.InvalidParameters("symbol is required")
	}
	from, to = util.Day(from), util.Day(to)
	if from.After(to) {
		return nil, fault.InvalidParameters("from must not be after to")
	}

	bars, err := uc.store.GetRange(ctx, symbol, from, to)
	if err != nil {
		return nil, fault.AsError(err, "history range for "+symbol)
	}
	return &models.History{Symbol: symbol, Days: len(bars), Points: historyPoints(bars)}, nil
}

func historyPoints(bars []models.Bar) []models.HistoryPoint {
	points := make([]models.HistoryPoint, len(bars))
	for i, b := range bars {
		points[i] = models.HistoryPoint{
			Date:   b.Date,
			Open:   b.Open,
			High:   b.High,
			Low:    b.Low,
			Close:  b.Close,
			Volume: b.Volume,
		}
	}
	return points
}

// compose builds a listing row from an ascending series. bars is never empty;
// the store reports a missing symbol as NotFound instead.
func (uc *CatalogUseCase) compose(asset models.Asset, bars []models.Bar) models.AssetSummary {
	closes := models.Closes(bars)
	volumes := models.Volumes(bars)
	latest := bars[len(bars)-1]

	change24h := 0.0
	if len(closes) >= 2 {
		change24h = stats.Round2(stats.ChangePct(closes[len(closes)-2], latest.Close))
	}
	week := stats.Tail(closes, 7)
	weekHigh, weekLow := stats.MaxMin(week)
	ath, atl := stats.MaxMin(closes)

	marketCap := latest.Close * uc.cfg.DisplaySupply
	liquidity := 0.0
	if marketCap > 0 {
		liquidity = stats.Round4(stats.TailMean(volumes, 7) / marketCap * 100)
	}

	return models.AssetSummary{
		Symbol:         latest.Symbol,
		Name:           asset.Name,
		Price:          latest.Close,
		Change24h:      change24h,
		Volume24h:      latest.Volume,
		MarketCap:      marketCap,
		LiquidityScore: liquidity,
		Sparkline:      week,
		Week7High:      weekHigh,
		Week7Low:       weekLow,
		Volatility:     stats.Round2(stats.PopStdDev(week)),
		ATH:            ath,
		ATL:            atl,
		AsOf:           latest.Date,
	}
}

// lookupAsset resolves the display name from the registry, falling back to the
// symbol itself when the registry read fails or has no row.
func (uc *CatalogUseCase) lookupAsset(ctx context.Context, symbol string) models.Asset {
	assets, err := uc.store.ListAssets(ctx)
	if err == nil {
		for _, a := range assets {
			if a.Symbol == symbol {
				return a
			}
		}
	}
	return models.Asset{Symbol: symbol, Name: symbol}
}

// changeOver is the percentage change from daysBack bars ago to the latest
// close, clamped to the series start on short histories.
func changeOver(closes []float64, daysBack int) float64 {
	idx := len(closes) - 1 - daysBack
	if idx < 0 {
		idx = 0
	}
	return stats.Round2(stats.ChangePct(closes[idx], closes[len(closes)-1]))
}

// closeVWAP is the close-weighted average price over bars, zero when no volume
// was traded.
func closeVWAP(bars []models.Bar) float64 {
	var pv, vol float64
	for _, b := range bars {
		pv += b.Close * b.Volume
		vol += b.Volume
	}
	if vol == 0 {
		return 0
	}
	return pv / vol
}
