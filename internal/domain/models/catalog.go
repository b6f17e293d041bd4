package models

import "time"

// AssetSummary is one catalog listing row composed by the gateway.
type AssetSummary struct {
	Symbol         string    `json:"symbol"`
	Name           string    `json:"name"`
	Price          float64   `json:"price"`
	Change24h      float64   `json:"change_24h"`
	Volume24h      float64   `json:"volume_24h"`
	MarketCap      float64   `json:"market_cap"`
	LiquidityScore float64   `json:"liquidity_score"`
	Sparkline      []float64 `json:"sparkline"`
	Week7High      float64   `json:"week7_high"`
	Week7Low       float64   `json:"week7_low"`
	Volatility     float64   `json:"volatility"`
	ATH            float64   `json:"ath"`
	ATL            float64   `json:"atl"`
	AsOf           time.Time `json:"as_of"`
}

// AssetDetail extends the summary with whole-series aggregates and
// longer-window changes.
type AssetDetail struct {
	AssetSummary
	AvgPrice     float64 `json:"avg_price"`
	VWAP         float64 `json:"vwap"`
	Change7d     float64 `json:"change_7d"`
	Change30d    float64 `json:"change_30d"`
	TotalRecords int     `json:"total_records"`
}

// HistoryPoint is one daily OHLCV observation.
type HistoryPoint struct {
	Date   time.Time `json:"date"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume float64   `json:"volume"`
}

// History is a symbol's trailing window of daily points.
type History struct {
	Symbol string         `json:"symbol"`
	Days   int            `json:"days"`
	Points []HistoryPoint `json:"points"`
}

// CoinRef names one side of a comparison.
type CoinRef struct {
	Symbol string `json:"symbol"`
	Name   string `json:"name"`
}

// ComparisonPoint is one date of the merged comparison series. A nil close
// marks a date on which that symbol has no bar; it is never fabricated as zero.
type ComparisonPoint struct {
	Date       time.Time `json:"date"`
	BaseClose  *float64  `json:"base_close"`
	QuoteClose *float64  `json:"quote_close"`
}

// Comparison is the date-unioned merge of two symbols' series.
type Comparison struct {
	Base   CoinRef           `json:"base"`
	Quote  CoinRef           `json:"quote"`
	Days   int               `json:"days"`
	Series []ComparisonPoint `json:"series"`
}
