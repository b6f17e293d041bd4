package models

// Requests for the analytics and catalog HTTP endpoints. Defined in domain for
// consistency and reuse; bound from query/path params and validated at the edge.

type TechnicalRequest struct {
	Symbol    string `query:"symbol" json:"symbol" validate:"required,alphanum,max=12"`
	Timeframe string `query:"timeframe" json:"timeframe" default:"1m" validate:"oneof=7d 1m 3m 6m 1y"`
}

type PredictionRequest struct {
	Symbol   string `query:"symbol" json:"symbol" validate:"required,alphanum,max=12"`
	Lookback int    `query:"lookback" json:"lookback" default:"30" validate:"gte=5,lte=100"`
	Epochs   int    `query:"epochs" json:"epochs" default:"15" validate:"gte=5,lte=50"`
	// UseCache defaults to true; a pointer keeps an explicit false from being
	// clobbered by the defaults pass.
	UseCache *bool `query:"use_cache" json:"use_cache"`
}

// Cache reports the effective use_cache value.
func (r *PredictionRequest) Cache() bool {
	return r.UseCache == nil || *r.UseCache
}

type OnchainRequest struct {
	Symbol string `query:"symbol" json:"symbol" validate:"required,alphanum,max=12"`
}

type ListAssetsRequest struct {
	Limit int `query:"limit" json:"limit" default:"100" validate:"gte=1,lte=250"`
}

type AssetDetailRequest struct {
	Symbol string `param:"symbol" json:"symbol" validate:"required,alphanum,max=12"`
}

// HistoryRequest selects a trailing window by days, or an explicit day range
// when both from and to are set. The range pair wins over days.
type HistoryRequest struct {
	Symbol string `param:"symbol" json:"symbol" validate:"required,alphanum,max=12"`
	Days   int    `query:"days" json:"days" default:"365" validate:"gte=1,lte=2000"`
	From   string `query:"from" json:"from" validate:"omitempty,datetime=2006-01-02"`
	To     string `query:"to" json:"to" validate:"omitempty,datetime=2006-01-02"`
}

// Ranged reports whether the explicit from/to pair is in play.
func (r *HistoryRequest) Ranged() bool {
	return r.From != "" || r.To != ""
}

type CompareRequest struct {
	Base  string `query:"base" json:"base" validate:"required,alphanum,max=12"`
	Quote string `query:"quote" json:"quote" validate:"required,alphanum,max=12"`
	Days  int    `query:"days" json:"days" default:"365" validate:"gte=1,lte=2000"`
}

// ForwardAnalysisRequest is the gateway-side view of a single-asset analytics
// request. Strategy parameters are relayed as raw strings; their domains are
// validated by the owning computation unit, not here.
type ForwardAnalysisRequest struct {
	Type      string `param:"type" json:"type" validate:"required,oneof=technical prediction onchain"`
	Symbol    string `query:"symbol" json:"symbol" validate:"required,alphanum,max=12"`
	Timeframe string `query:"timeframe" json:"timeframe"`
	Lookback  string `query:"lookback" json:"lookback"`
	Epochs    string `query:"epochs" json:"epochs"`
	UseCache  string `query:"use_cache" json:"use_cache"`
}
