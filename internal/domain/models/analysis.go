package models

import "time"

// AnalysisKind identifies one of the three analytics strategy families.
type AnalysisKind string

const (
	KindTechnical  AnalysisKind = "technical"
	KindPrediction AnalysisKind = "prediction"
	KindOnchain    AnalysisKind = "onchain"
)

// Signal values derived from indicator votes.
const (
	SignalBullish = "bullish"
	SignalBearish = "bearish"
	SignalNeutral = "neutral"
)

// AnalysisParams carries the per-strategy knobs; each strategy reads only its own.
type AnalysisParams struct {
	Timeframe string
	Lookback  int
	Epochs    int
	UseCache  bool
}

// Analysis is the closed union over the three result shapes. Exactly one of
// the payload fields is set, matching Kind.
type Analysis struct {
	Kind       AnalysisKind      `json:"kind"`
	Technical  *TechnicalReport  `json:"technical,omitempty"`
	Prediction *PredictionReport `json:"prediction,omitempty"`
	Onchain    *OnchainReport    `json:"onchain,omitempty"`
}

// MACDValue holds the latest MACD line, signal line and histogram.
type MACDValue struct {
	Line      float64 `json:"line"`
	Signal    float64 `json:"signal"`
	Histogram float64 `json:"histogram"`
}

// StochasticValue holds the latest %K/%D pair.
type StochasticValue struct {
	K float64 `json:"k"`
	D float64 `json:"d"`
}

// IndicatorSet holds the latest value of every computed indicator.
type IndicatorSet struct {
	SMAShort   float64         `json:"sma_short"`
	SMALong    float64         `json:"sma_long"`
	EMA        float64         `json:"ema"`
	WMA        float64         `json:"wma"`
	HMA        float64         `json:"hma"`
	VWAP       float64         `json:"vwap"`
	RSI        float64         `json:"rsi"`
	MACD       MACDValue       `json:"macd"`
	Stochastic StochasticValue `json:"stochastic"`
	CCI        float64         `json:"cci"`
	MFI        float64         `json:"mfi"`
}

// TechnicalReport is the Technical strategy result.
type TechnicalReport struct {
	Symbol     string            `json:"symbol"`
	Timeframe  string            `json:"timeframe"`
	Bars       int               `json:"bars"`
	LastClose  float64           `json:"last_close"`
	Indicators IndicatorSet      `json:"indicators"`
	Votes      map[string]string `json:"votes"`
	Signal     string            `json:"signal"`
	ComputedAt time.Time         `json:"computed_at"`
}

// ModelMetrics are the held-out evaluation metrics of a trained forecaster.
type ModelMetrics struct {
	RMSE float64 `json:"rmse"`
	MAPE float64 `json:"mape"`
	R2   float64 `json:"r2"`
}

// PredictionReport is the Prediction strategy result.
type PredictionReport struct {
	Symbol          string       `json:"symbol"`
	Horizon         string       `json:"horizon"`
	PredictedClose  float64      `json:"predicted_close"`
	LastClose       float64      `json:"last_close"`
	ChangePct       float64      `json:"change_pct"`
	Lookback        int          `json:"lookback"`
	Epochs          int          `json:"epochs"`
	Metrics         ModelMetrics `json:"metrics"`
	ModelVersionKey string       `json:"model_version_key"`
	Cached          bool         `json:"cached"`
	TrainedAt       time.Time    `json:"trained_at"`
}

// OnchainMetrics are proxy network metrics derived from price/volume shape.
type OnchainMetrics struct {
	ActiveAddresses float64 `json:"active_addresses"`
	InflowShare     float64 `json:"inflow_share"`
	OutflowShare    float64 `json:"outflow_share"`
	NetFlow         float64 `json:"net_flow"`
	WhaleActivity   string  `json:"whale_activity"`
	HashRate        float64 `json:"hash_rate"`
	TVL             float64 `json:"tvl"`
	NVT             float64 `json:"nvt"`
	MVRV            float64 `json:"mvrv"`
}

// SentimentBreakdown classifies the recent window into share buckets.
// Shares always sum to 1.
type SentimentBreakdown struct {
	PositiveShare float64 `json:"positive_share"`
	NeutralShare  float64 `json:"neutral_share"`
	NegativeShare float64 `json:"negative_share"`
	Score         float64 `json:"score"`
	Label         string  `json:"label"`
}

// OnchainReport is the OnchainSentiment strategy result.
type OnchainReport struct {
	Symbol         string             `json:"symbol"`
	Window         int                `json:"window"`
	Metrics        OnchainMetrics     `json:"metrics"`
	Sentiment      SentimentBreakdown `json:"sentiment"`
	Votes          map[string]string  `json:"votes"`
	CombinedSignal string             `json:"combined_signal"`
	ComputedAt     time.Time          `json:"computed_at"`
}
