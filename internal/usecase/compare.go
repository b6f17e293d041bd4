package usecase

import (
	"context"
	"sort"
	"strings"
	"time"

	"CoinPulse/internal/domain/fault"
	"CoinPulse/internal/domain/models"
	domrepo "CoinPulse/internal/domain/repository"
	applogger "CoinPulse/pkg/logger"
	"CoinPulse/pkg/util"
)

// CompareUseCase merges two symbols' daily series into one date-unioned view.
type CompareUseCase struct {
	store       domrepo.BarStore
	metrics     domrepo.Metrics
	defaultDays int
	maxDays     int
	l           *applogger.Logger
}

func NewCompareUseCase(store domrepo.BarStore, metrics domrepo.Metrics, defaultDays, maxDays int) *CompareUseCase {
	if defaultDays <= 0 {
		defaultDays = 365
	}
	if maxDays <= 0 {
		maxDays = 2000
	}
	return &CompareUseCase{store: store, metrics: metrics, defaultDays: defaultDays, maxDays: maxDays}
}

// SetLogger injects a structured logger.
func (uc *CompareUseCase) SetLogger(l *applogger.Logger) { uc.l = l }

// Compare reads both series concurrently and joins them before merging; a
// failed leg fails the whole call, never a partial response. The merged series
// is the sorted union of both date sets with nil closes marking absent dates.
func (uc *CompareUseCase) Compare(ctx context.Context, base, quote string, days int) (*models.Comparison, error) {
	start := time.Now()
	base = strings.ToUpper(strings.TrimSpace(base))
	quote = strings.ToUpper(strings.TrimSpace(quote))
	if base == "" || quote == "" {
		return nil, fault.InvalidParameters("base and quote symbols are required")
	}
	if base == quote {
		return nil, fault.InvalidParameters("base and quote must differ")
	}
	if days <= 0 {
		days = uc.defaultDays
	}
	if days > uc.maxDays {
		days = uc.maxDays
	}

	type leg struct {
		symbol string
		bars   []models.Bar
		err    error
	}
	ch := make(chan leg, 2)
	for _, sym := range []string{base, quote} {
		go func(sym string) {
			bars, err := uc.store.GetSeries(ctx, sym, days)
			ch <- leg{symbol: sym, bars: bars, err: err}
		}(sym)
	}
	legs := map[string]leg{}
	for i := 0; i < 2; i++ {
		l := <-ch
		legs[l.symbol] = l
	}
	for _, sym := range []string{base, quote} {
		if err := legs[sym].err; err != nil {
			uc.metrics.RecordError("compare_leg")
			return nil, fault.AsError(err, "compare leg "+sym)
		}
	}

	merged := map[string]*models.ComparisonPoint{}
	add := func(bars []models.Bar, set func(p *models.ComparisonPoint, v float64)) {
		for _, b := range bars {
			k := util.DayKey(b.Date)
			p := merged[k]
			if p == nil {
				p = &models.ComparisonPoint{Date: b.Date}
				merged[k] = p
			}
			set(p, b.Close)
		}
	}
	add(legs[base].bars, func(p *models.ComparisonPoint, v float64) {
		c := v
		p.BaseClose = &c
	})
	add(legs[quote].bars, func(p *models.ComparisonPoint, v float64) {
		c := v
		p.QuoteClose = &c
	})

	keys := make([]string, 0, len(merged))
	for k := range merged {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	series := make([]models.ComparisonPoint, 0, len(keys))
	for _, k := range keys {
		series = append(series, *merged[k])
	}

	names := uc.resolveNames(ctx, base, quote)
	uc.metrics.RecordLatency("compare", time.Since(start).Seconds())
	if uc.l != nil {
		uc.l.Info("compare merged",
			applogger.String("base", base),
			applogger.String("quote", quote),
			applogger.Int("points", len(series)),
			applogger.Duration("duration_ms", time.Since(start)),
		)
	}
	return &models.Comparison{
		Base:   models.CoinRef{Symbol: base, Name: names[base]},
		Quote:  models.CoinRef{Symbol: quote, Name: names[quote]},
		Days:   len(series),
		Series: series,
	}, nil
}

// resolveNames maps both symbols to registry display names, defaulting to the
// symbol itself.
func (uc *CompareUseCase) resolveNames(ctx context.Context, base, quote string) map[string]string {
	names := map[string]string{base: base, quote: quote}
	assets, err := uc.store.ListAssets(ctx)
	if err != nil {
		return names
	}
	for _, a := range assets {
		if _, ok := names[a.Symbol]; ok && a.Name != "" {
			names[a.Symbol] = a.Name
		}
	}
	return names
}
