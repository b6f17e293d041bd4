package usecase

import (
	"context"
	"sync"
	"testing"
	"time"

	"CoinPulse/internal/domain/fault"
	"CoinPulse/internal/domain/models"
)

type stubStore struct {
	mu       sync.Mutex
	series   map[string][]models.Bar
	assets   []models.Asset
	lastDays int
}

func (s *stubStore) GetSeries(ctx context.Context, symbol string, days int) ([]models.Bar, error) {
	s.mu.Lock()
	s.lastDays = days
	s.mu.Unlock()
	bars, ok := s.series[symbol]
	if !ok || len(bars) == 0 {
		return nil, fault.NotFound("no data found for %s", symbol)
	}
	if len(bars) > days {
		bars = bars[len(bars)-days:]
	}
	return bars, nil
}

func (s *stubStore) GetRange(ctx context.Context, symbol string, from, to time.Time) ([]models.Bar, error) {
	bars, ok := s.series[symbol]
	if !ok {
		return nil, fault.NotFound("no data found for %s", symbol)
	}
	out := []models.Bar{}
	for _, b := range bars {
		if !b.Date.Before(from) && !b.Date.After(to) {
			out = append(out, b)
		}
	}
	return out, nil
}

func (s *stubStore) ListAssets(ctx context.Context) ([]models.Asset, error) {
	return s.assets, nil
}

func (s *stubStore) Health(ctx context.Context) error { return nil }

type stubMetrics struct {
	mu     sync.Mutex
	errors map[string]int
}

func newStubMetrics() *stubMetrics { return &stubMetrics{errors: map[string]int{}} }

func (m *stubMetrics) RecordLatency(op string, seconds float64) {}
func (m *stubMetrics) RecordError(kind string) {
	m.mu.Lock()
	m.errors[kind]++
	m.mu.Unlock()
}
func (m *stubMetrics) RecordLastPrice(symbol string, price float64) {}
func (m *stubMetrics) RecordForward(unit, outcome string)           {}

func day(i int) time.Time {
	return time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, i)
}

func mkBars(symbol string, closes []float64, volume float64) []models.Bar {
	bars := make([]models.Bar, len(closes))
	for i, c := range closes {
		bars[i] = models.Bar{
			Symbol: symbol,
			Date:   day(i),
			Open:   c,
			High:   c,
			Low:    c,
			Close:  c,
			Volume: volume,
		}
	}
	return bars
}

func fixtureStore() *stubStore {
	return &stubStore{
		series: map[string][]models.Bar{
			"AAA": mkBars("AAA", []float64{10, 10, 10, 10, 10, 10, 10, 10, 10, 10}, 100),
			"BBB": mkBars("BBB", []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, 50),
		},
		assets: []models.Asset{
			{Symbol: "AAA", Name: "Alpha", ListedAt: day(0)},
			{Symbol: "BBB", Name: "Beta", ListedAt: day(0)},
		},
	}
}

func TestListAssetsComposesRows(t *testing.T) {
	uc := NewCatalogUseCase(fixtureStore(), newStubMetrics(), CatalogConfig{})
	rows, err := uc.ListAssets(context.Background(), 0)
	if err != nil {
		t.Fatalf("ListAssets: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(rows))
	}

	aaa, bbb := rows[0], rows[1]
	if aaa.Symbol != "AAA" || bbb.Symbol != "BBB" {
		t.Fatalf("row order = %s, %s", aaa.Symbol, bbb.Symbol)
	}
	if aaa.Name != "Alpha" {
		t.Errorf("AAA name = %q", aaa.Name)
	}
	if aaa.Price != 10 || aaa.Change24h != 0 || aaa.Volatility != 0 {
		t.Errorf("AAA row = %+v", aaa)
	}
	if aaa.MarketCap != 10_000_000 {
		t.Errorf("AAA market cap = %v", aaa.MarketCap)
	}
	if aaa.LiquidityScore != 0.001 {
		t.Errorf("AAA liquidity = %v", aaa.LiquidityScore)
	}
	if len(aaa.Sparkline) != 7 {
		t.Errorf("AAA sparkline length = %d", len(aaa.Sparkline))
	}
	if !aaa.AsOf.Equal(day(9)) {
		t.Errorf("AAA as-of = %v", aaa.AsOf)
	}

	if bbb.Change24h != 11.11 {
		t.Errorf("BBB change 24h = %v", bbb.Change24h)
	}
	if bbb.Week7High != 10 || bbb.Week7Low != 4 {
		t.Errorf("BBB week range = %v..%v", bbb.Week7Low, bbb.Week7High)
	}
	if bbb.Volatility != 2 {
		t.Errorf("BBB volatility = %v", bbb.Volatility)
	}
	if bbb.ATH != 10 || bbb.ATL != 1 {
		t.Errorf("BBB ath/atl = %v/%v", bbb.ATH, bbb.ATL)
	}
	if bbb.LiquidityScore != 0.0005 {
		t.Errorf("BBB liquidity = %v", bbb.LiquidityScore)
	}
}

func TestListAssetsSkipsBrokenSymbol(t *testing.T) {
	store := fixtureStore()
	store.assets = append(store.assets, models.Asset{Symbol: "ZZZ", Name: "Zeta"})
	m := newStubMetrics()

	rows, err := NewCatalogUseCase(store, m, CatalogConfig{}).ListAssets(context.Background(), 0)
	if err != nil {
		t.Fatalf("ListAssets: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("rows = %d, want 2 (ZZZ skipped)", len(rows))
	}
	if m.errors["catalog_symbol"] != 1 {
		t.Errorf("catalog_symbol errors = %d, want 1", m.errors["catalog_symbol"])
	}
}

func TestListAssetsHonorsLimit(t *testing.T) {
	uc := NewCatalogUseCase(fixtureStore(), newStubMetrics(), CatalogConfig{})
	rows, err := uc.ListAssets(context.Background(), 1)
	if err != nil {
		t.Fatalf("ListAssets: %v", err)
	}
	if len(rows) != 1 || rows[0].Symbol != "AAA" {
		t.Fatalf("rows = %+v, want just AAA", rows)
	}
}

func TestAssetDetail(t *testing.T) {
	uc := NewCatalogUseCase(fixtureStore(), newStubMetrics(), CatalogConfig{})
	d, err := uc.AssetDetail(context.Background(), " bbb ")
	if err != nil {
		t.Fatalf("AssetDetail: %v", err)
	}
	if d.Symbol != "BBB" || d.Name != "Beta" {
		t.Fatalf("detail identity = %s/%s", d.Symbol, d.Name)
	}
	if d.AvgPrice != 5.5 {
		t.Errorf("avg price = %v", d.AvgPrice)
	}
	if d.VWAP != 7 {
		t.Errorf("vwap = %v", d.VWAP)
	}
	if d.Change7d != 233.33 {
		t.Errorf("change 7d = %v", d.Change7d)
	}
	if d.Change30d != 900 {
		t.Errorf("change 30d = %v", d.Change30d)
	}
	if d.TotalRecords != 10 {
		t.Errorf("total records = %d", d.TotalRecords)
	}
}

func TestAssetDetailUnknownSymbol(t *testing.T) {
	uc := NewCatalogUseCase(fixtureStore(), newStubMetrics(), CatalogConfig{})
	_, err := uc.AssetDetail(context.Background(), "ZZZ")
	if !fault.Is(err, fault.KindNotFound) {
		t.Fatalf("err = %v, want not_found", err)
	}
}

func TestHistoryBounds(t *testing.T) {
	store := fixtureStore()
	uc := NewCatalogUseCase(store, newStubMetrics(), CatalogConfig{})

	h, err := uc.History(context.Background(), "AAA", 0)
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if store.lastDays != 365 {
		t.Errorf("default days = %d, want 365", store.lastDays)
	}
	if h.Days != 10 || len(h.Points) != 10 {
		t.Fatalf("history size = %d/%d, want 10", h.Days, len(h.Points))
	}
	p := h.Points[9]
	if p.Close != 10 || p.Volume != 100 || !p.Date.Equal(day(9)) {
		t.Errorf("last point = %+v", p)
	}

	if _, err := uc.History(context.Background(), "AAA", 3000); err != nil {
		t.Fatalf("History: %v", err)
	}
	if store.lastDays != 2000 {
		t.Errorf("clamped days = %d, want 2000", store.lastDays)
	}
}

func TestHistoryRange(t *testing.T) {
	uc := NewCatalogUseCase(fixtureStore(), newStubMetrics(), CatalogConfig{})

	h, err := uc.HistoryRange(context.Background(), "bbb", day(2).Add(13*time.Hour), day(4))
	if err != nil {
		t.Fatalf("HistoryRange: %v", err)
	}
	if h.Symbol != "BBB" {
		t.Errorf("symbol = %q", h.Symbol)
	}
	if h.Days != 3 || len(h.Points) != 3 {
		t.Fatalf("range size = %d/%d, want 3 (from truncates to its day)", h.Days, len(h.Points))
	}
	if h.Points[0].Close != 3 || h.Points[2].Close != 5 {
		t.Errorf("points = %+v", h.Points)
	}
}

func TestHistoryRangeInverted(t *testing.T) {
	uc := NewCatalogUseCase(fixtureStore(), newStubMetrics(), CatalogConfig{})
	_, err := uc.HistoryRange(context.Background(), "BBB", day(5), day(2))
	if !fault.Is(err, fault.KindInvalidParameters) {
		t.Fatalf("err = %v, want invalid_parameters", err)
	}
}
