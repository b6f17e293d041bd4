package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	models "CoinPulse/internal/domain/models"
	icache "CoinPulse/internal/service/cache"
	"CoinPulse/internal/services/remote"
	"CoinPulse/internal/usecase"

	"github.com/labstack/echo/v4"
)

func newGatewayEcho(store *testStore, unitURL string, cfg GatewayConfig) *echo.Echo {
	cat := usecase.NewCatalogUseCase(store, noMetrics{}, usecase.CatalogConfig{})
	cmp := usecase.NewCompareUseCase(store, noMetrics{}, 0, 0)

	var rc remote.Config
	if unitURL != "" {
		rc.Technical = remote.UnitConfig{BaseURL: unitURL, Timeout: 2 * time.Second}
	}
	fwd := remote.New(rc, noMetrics{})

	h := NewGatewayHandler(cat, cmp, fwd, store, cfg)
	h.SetCache(icache.NewTTLCache())
	e := echo.New()
	h.RegisterRoutes(e)
	return e
}

func gatewayFixture() *testStore {
	return &testStore{
		series: map[string][]models.Bar{
			"AAA": testBars("AAA", []float64{10, 11, 12, 13, 14, 15, 16, 17, 18, 19}),
			"BBB": testBars("BBB", []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}),
		},
		assets: []models.Asset{
			{Symbol: "AAA", Name: "Alpha"},
			{Symbol: "BBB", Name: "Beta"},
		},
	}
}

func TestGatewayListingServedFromCache(t *testing.T) {
	store := gatewayFixture()
	e := newGatewayEcho(store, "", GatewayConfig{ListingTTL: time.Minute})

	rec, env := doGet(t, e, "/api/v1/assets")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body %s)", rec.Code, rec.Body.String())
	}
	var rows []struct {
		Symbol string  `json:"symbol"`
		Name   string  `json:"name"`
		Price  float64 `json:"price"`
	}
	if err := json.Unmarshal(env.Data, &rows); err != nil {
		t.Fatalf("decode rows: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(rows))
	}
	if rows[0].Symbol != "AAA" || rows[0].Name != "Alpha" || rows[0].Price != 19 {
		t.Errorf("first row = %+v", rows[0])
	}

	hitsAfterFirst := store.hits()
	rec, _ = doGet(t, e, "/api/v1/assets")
	if rec.Code != http.StatusOK {
		t.Fatalf("cached status = %d, want 200", rec.Code)
	}
	if store.hits() != hitsAfterFirst {
		t.Errorf("series reads grew from %d to %d; second listing should come from cache", hitsAfterFirst, store.hits())
	}
}

func TestGatewayAssetDetailNotFound(t *testing.T) {
	e := newGatewayEcho(gatewayFixture(), "", GatewayConfig{})

	rec, env := doGet(t, e, "/api/v1/assets/ZZZ")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404 (body %s)", rec.Code, rec.Body.String())
	}
	errs := envelopeErrs(t, env)
	if errs[0].Code != "ERR_NOT_FOUND" {
		t.Errorf("code = %q, want ERR_NOT_FOUND", errs[0].Code)
	}
	if errs[0].Message != "no data found for ZZZ" {
		t.Errorf("message = %q", errs[0].Message)
	}
}

func TestGatewayHistoryValidatesDays(t *testing.T) {
	e := newGatewayEcho(gatewayFixture(), "", GatewayConfig{})

	rec, env := doGet(t, e, "/api/v1/assets/AAA/history?days=5000")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	errs := envelopeErrs(t, env)
	if errs[0].Code != "ERR_LTE" {
		t.Errorf("code = %q, want ERR_LTE", errs[0].Code)
	}
}

func TestGatewayHistoryRange(t *testing.T) {
	e := newGatewayEcho(gatewayFixture(), "", GatewayConfig{})

	rec, env := doGet(t, e, "/api/v1/assets/AAA/history?from=2025-01-03&to=2025-01-05")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body %s)", rec.Code, rec.Body.String())
	}
	var hist models.History
	if err := json.Unmarshal(env.Data, &hist); err != nil {
		t.Fatalf("decode history: %v", err)
	}
	if hist.Days != 3 || len(hist.Points) != 3 {
		t.Fatalf("days = %d points = %d, want 3/3", hist.Days, len(hist.Points))
	}
	if hist.Points[0].Close != 12 || hist.Points[2].Close != 14 {
		t.Errorf("points = %+v", hist.Points)
	}
}

func TestGatewayHistoryRangeEmptyWindow(t *testing.T) {
	e := newGatewayEcho(gatewayFixture(), "", GatewayConfig{})

	rec, env := doGet(t, e, "/api/v1/assets/AAA/history?from=2030-01-01&to=2030-01-31")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 for a known symbol with no bars in window (body %s)", rec.Code, rec.Body.String())
	}
	var hist models.History
	if err := json.Unmarshal(env.Data, &hist); err != nil {
		t.Fatalf("decode history: %v", err)
	}
	if hist.Days != 0 || len(hist.Points) != 0 {
		t.Errorf("days = %d points = %d, want empty series", hist.Days, len(hist.Points))
	}
}

func TestGatewayHistoryRangeRejected(t *testing.T) {
	cases := []struct {
		name     string
		target   string
		wantCode string
	}{
		{"lone from", "/api/v1/assets/AAA/history?from=2025-01-03", "ERR_INVALID_PARAMETERS"},
		{"lone to", "/api/v1/assets/AAA/history?to=2025-01-05", "ERR_INVALID_PARAMETERS"},
		{"inverted", "/api/v1/assets/AAA/history?from=2025-01-05&to=2025-01-03", "ERR_INVALID_PARAMETERS"},
		{"malformed day", "/api/v1/assets/AAA/history?from=03/01/2025&to=2025-01-05", "ERR_DATETIME"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e := newGatewayEcho(gatewayFixture(), "", GatewayConfig{})
			rec, env := doGet(t, e, tc.target)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400 (body %s)", rec.Code, rec.Body.String())
			}
			errs := envelopeErrs(t, env)
			if errs[0].Code != tc.wantCode {
				t.Errorf("code = %q, want %q", errs[0].Code, tc.wantCode)
			}
		})
	}
}

func TestGatewayCompareSameSymbol(t *testing.T) {
	e := newGatewayEcho(gatewayFixture(), "", GatewayConfig{})

	rec, env := doGet(t, e, "/api/v1/compare?base=AAA&quote=aaa")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400 (body %s)", rec.Code, rec.Body.String())
	}
	errs := envelopeErrs(t, env)
	if errs[0].Code != "ERR_INVALID_PARAMETERS" {
		t.Errorf("code = %q, want ERR_INVALID_PARAMETERS", errs[0].Code)
	}
}

func TestGatewayCompareMergesUnion(t *testing.T) {
	e := newGatewayEcho(gatewayFixture(), "", GatewayConfig{})

	rec, env := doGet(t, e, "/api/v1/compare?base=AAA&quote=BBB&days=30")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body %s)", rec.Code, rec.Body.String())
	}
	var cmp models.Comparison
	if err := json.Unmarshal(env.Data, &cmp); err != nil {
		t.Fatalf("decode comparison: %v", err)
	}
	if cmp.Base.Name != "Alpha" || cmp.Quote.Name != "Beta" {
		t.Errorf("names = %q/%q, want Alpha/Beta", cmp.Base.Name, cmp.Quote.Name)
	}
	if cmp.Days != 10 || len(cmp.Series) != 10 {
		t.Fatalf("days = %d series = %d, want 10/10", cmp.Days, len(cmp.Series))
	}
	last := cmp.Series[len(cmp.Series)-1]
	if last.BaseClose == nil || *last.BaseClose != 19 || last.QuoteClose == nil || *last.QuoteClose != 10 {
		t.Errorf("last point = %+v", last)
	}
}

func TestGatewayForwardRelaysFault(t *testing.T) {
	unit := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"status":404,"message":"Not Found","data":[{"code":"ERR_NOT_FOUND","message":"no data found for ZZZ"}]}`))
	}))
	defer unit.Close()

	e := newGatewayEcho(gatewayFixture(), unit.URL, GatewayConfig{})

	rec, env := doGet(t, e, "/api/v1/analysis/technical?symbol=ZZZ")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404 (body %s)", rec.Code, rec.Body.String())
	}
	errs := envelopeErrs(t, env)
	if errs[0].Code != "ERR_NOT_FOUND" {
		t.Errorf("code = %q, want ERR_NOT_FOUND", errs[0].Code)
	}
	if errs[0].Message != "no data found for ZZZ" {
		t.Errorf("message = %q, want unit message relayed verbatim", errs[0].Message)
	}
}

func TestGatewayForwardPassesPayload(t *testing.T) {
	unit := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Path; got != "/api/v1/technical" {
			t.Errorf("unit path = %q", got)
		}
		if got := r.URL.Query().Get("symbol"); got != "BTC" {
			t.Errorf("symbol = %q, want BTC", got)
		}
		if got := r.URL.Query().Get("timeframe"); got != "7d" {
			t.Errorf("timeframe = %q, want 7d", got)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":200,"message":"OK","data":{"kind":"technical","technical":{"symbol":"BTC","signal":"bullish"}}}`))
	}))
	defer unit.Close()

	e := newGatewayEcho(gatewayFixture(), unit.URL, GatewayConfig{})

	rec, env := doGet(t, e, "/api/v1/analysis/technical?symbol=BTC&timeframe=7d")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body %s)", rec.Code, rec.Body.String())
	}
	var payload struct {
		Kind      string `json:"kind"`
		Technical struct {
			Symbol string `json:"symbol"`
			Signal string `json:"signal"`
		} `json:"technical"`
	}
	if err := json.Unmarshal(env.Data, &payload); err != nil {
		t.Fatalf("decode payload: %v", err)
	}
	if payload.Kind != "technical" || payload.Technical.Signal != "bullish" {
		t.Errorf("payload = %+v, want unit payload relayed unchanged", payload)
	}
}

func TestGatewayRateLimitsAnalysis(t *testing.T) {
	unit := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":200,"message":"OK","data":{"kind":"technical"}}`))
	}))
	defer unit.Close()

	e := newGatewayEcho(gatewayFixture(), unit.URL, GatewayConfig{RateCapacity: 2, RateRefill: 0.001})

	for i := 0; i < 2; i++ {
		rec, _ := doGet(t, e, "/api/v1/analysis/technical?symbol=BTC")
		if rec.Code != http.StatusOK {
			t.Fatalf("request %d status = %d, want 200", i+1, rec.Code)
		}
	}
	rec, env := doGet(t, e, "/api/v1/analysis/technical?symbol=BTC")
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("third request status = %d, want 429", rec.Code)
	}
	errs := envelopeErrs(t, env)
	if errs[0].Code != "ERR_RATE_LIMITED" {
		t.Errorf("code = %q, want ERR_RATE_LIMITED", errs[0].Code)
	}
}

func TestGatewayAnalysisTypeValidated(t *testing.T) {
	e := newGatewayEcho(gatewayFixture(), "", GatewayConfig{})

	rec, env := doGet(t, e, "/api/v1/analysis/bogus?symbol=BTC")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	errs := envelopeErrs(t, env)
	if errs[0].Code != "ERR_ONEOF" {
		t.Errorf("code = %q, want ERR_ONEOF", errs[0].Code)
	}
}
