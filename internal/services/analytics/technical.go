package analytics

import (
	"context"
	"math"
	"time"

	"CoinPulse/internal/domain/fault"
	"CoinPulse/internal/domain/models"
	domrepo "CoinPulse/internal/domain/repository"
	"CoinPulse/internal/services/indicators"
	"CoinPulse/internal/services/stats"
)

// TechnicalConfig holds the indicator windows. Zero values fall back to the
// conventional defaults.
type TechnicalConfig struct {
	ShortWindow int
	LongWindow  int
	EMAWindow   int
	WMAWindow   int
	HMAWindow   int
	RSIPeriod   int
	MACDFast    int
	MACDSlow    int
	MACDSignal  int
	StochPeriod int
	StochSmooth int
	CCIPeriod   int
	MFIPeriod   int
}

// DefaultTechnicalConfig returns the conventional indicator windows.
func DefaultTechnicalConfig() TechnicalConfig {
	return TechnicalConfig{
		ShortWindow: 20,
		LongWindow:  50,
		EMAWindow:   20,
		WMAWindow:   20,
		HMAWindow:   20,
		RSIPeriod:   14,
		MACDFast:    12,
		MACDSlow:    26,
		MACDSignal:  9,
		StochPeriod: 14,
		StochSmooth: 3,
		CCIPeriod:   20,
		MFIPeriod:   14,
	}
}

func (c TechnicalConfig) withDefaults() TechnicalConfig {
	def := DefaultTechnicalConfig()
	if c.ShortWindow <= 0 {
		c.ShortWindow = def.ShortWindow
	}
	if c.LongWindow <= 0 {
		c.LongWindow = def.LongWindow
	}
	if c.EMAWindow <= 0 {
		c.EMAWindow = def.EMAWindow
	}
	if c.WMAWindow <= 0 {
		c.WMAWindow = def.WMAWindow
	}
	if c.HMAWindow <= 0 {
		c.HMAWindow = def.HMAWindow
	}
	if c.RSIPeriod <= 0 {
		c.RSIPeriod = def.RSIPeriod
	}
	if c.MACDFast <= 0 {
		c.MACDFast = def.MACDFast
	}
	if c.MACDSlow <= 0 {
		c.MACDSlow = def.MACDSlow
	}
	if c.MACDSignal <= 0 {
		c.MACDSignal = def.MACDSignal
	}
	if c.StochPeriod <= 0 {
		c.StochPeriod = def.StochPeriod
	}
	if c.StochSmooth <= 0 {
		c.StochSmooth = def.StochSmooth
	}
	if c.CCIPeriod <= 0 {
		c.CCIPeriod = def.CCIPeriod
	}
	if c.MFIPeriod <= 0 {
		c.MFIPeriod = def.MFIPeriod
	}
	return c
}

// TechnicalStrategy computes moving averages and oscillators over the
// timeframe window and derives a signal by majority vote.
type TechnicalStrategy struct {
	cfg     TechnicalConfig
	minBars int
}

// NewTechnicalStrategy builds the strategy with normalized config.
func NewTechnicalStrategy(cfg TechnicalConfig) *TechnicalStrategy {
	cfg = cfg.withDefaults()
	return &TechnicalStrategy{cfg: cfg, minBars: minBarsFor(cfg)}
}

// minBarsFor is the longest series any configured indicator needs for its
// latest value.
func minBarsFor(c TechnicalConfig) int {
	reqs := []int{
		c.ShortWindow,
		c.LongWindow,
		c.EMAWindow,
		c.WMAWindow,
		c.HMAWindow + isqrt(c.HMAWindow) - 1,
		c.RSIPeriod + 1,
		c.MACDSlow + c.MACDSignal - 1,
		c.StochPeriod + c.StochSmooth - 1,
		c.CCIPeriod,
		c.MFIPeriod + 1,
	}
	max := 0
	for _, r := range reqs {
		if r > max {
			max = r
		}
	}
	return max
}

func isqrt(n int) int {
	if n < 1 {
		return 1
	}
	s := int(math.Sqrt(float64(n)))
	if s < 1 {
		s = 1
	}
	return s
}

func (s *TechnicalStrategy) Kind() models.AnalysisKind { return models.KindTechnical }

func (s *TechnicalStrategy) MinBars() int { return s.minBars }

// Analyze computes the indicator set over the timeframe window (never less
// than MinBars bars) and the majority-vote signal.
func (s *TechnicalStrategy) Analyze(ctx context.Context, symbol string, series []models.Bar, p models.AnalysisParams) (*models.Analysis, error) {
	if len(series) < s.minBars {
		return nil, fault.InsufficientData("%s needs at least %d bars for technical analysis, have %d", symbol, s.minBars, len(series))
	}

	tf := domrepo.NormalizeTimeframe(p.Timeframe)
	window := domrepo.WindowBars(tf)
	if window < s.minBars {
		window = s.minBars
	}
	bars := series
	if len(bars) > window {
		bars = bars[len(bars)-window:]
	}

	closes := models.Closes(bars)
	last := closes[len(closes)-1]

	macdLine, macdSignal, macdHist := indicators.MACD(closes, s.cfg.MACDFast, s.cfg.MACDSlow, s.cfg.MACDSignal)
	stochK, stochD := indicators.Stochastic(bars, s.cfg.StochPeriod, s.cfg.StochSmooth)

	set := models.IndicatorSet{
		SMAShort: indicators.SMA(closes, s.cfg.ShortWindow),
		SMALong:  indicators.SMA(closes, s.cfg.LongWindow),
		EMA:      indicators.EMA(closes, s.cfg.EMAWindow),
		WMA:      indicators.WMA(closes, s.cfg.WMAWindow),
		HMA:      indicators.HMA(closes, s.cfg.HMAWindow),
		VWAP:     indicators.VWAP(bars),
		RSI:      indicators.RSI(closes, s.cfg.RSIPeriod),
		MACD: models.MACDValue{
			Line:      macdLine,
			Signal:    macdSignal,
			Histogram: macdHist,
		},
		Stochastic: models.StochasticValue{K: stochK, D: stochD},
		CCI:        indicators.CCI(bars, s.cfg.CCIPeriod),
		MFI:        indicators.MFI(bars, s.cfg.MFIPeriod),
	}

	votes := map[string]string{
		"price_ma":   compareVote(last, set.SMALong),
		"ma_cross":   compareVote(set.SMAShort, set.SMALong),
		"rsi":        bandVote(set.RSI, 30, 70),
		"macd":       compareVote(set.MACD.Line, set.MACD.Signal),
		"stochastic": bandVote(set.Stochastic.K, 20, 80),
		"cci":        bandVote(set.CCI, -100, 100),
		"mfi":        bandVote(set.MFI, 20, 80),
	}

	report := &models.TechnicalReport{
		Symbol:     symbol,
		Timeframe:  string(tf),
		Bars:       len(bars),
		LastClose:  last,
		Indicators: roundIndicators(set),
		Votes:      votes,
		Signal:     majority(votes),
		ComputedAt: time.Now().UTC(),
	}
	return &models.Analysis{Kind: models.KindTechnical, Technical: report}, nil
}

// compareVote votes bullish when a sits above b, bearish below, neutral on
// equality.
func compareVote(a, b float64) string {
	switch {
	case a > b:
		return models.SignalBullish
	case a < b:
		return models.SignalBearish
	default:
		return models.SignalNeutral
	}
}

// bandVote votes bullish below the oversold bound, bearish above the
// overbought bound, neutral inside the band.
func bandVote(v, oversold, overbought float64) string {
	switch {
	case v < oversold:
		return models.SignalBullish
	case v > overbought:
		return models.SignalBearish
	default:
		return models.SignalNeutral
	}
}

// majority resolves the vote map: strictly more bullish than bearish wins and
// vice versa, everything else is neutral.
func majority(votes map[string]string) string {
	bull, bear := 0, 0
	for _, v := range votes {
		switch v {
		case models.SignalBullish:
			bull++
		case models.SignalBearish:
			bear++
		}
	}
	switch {
	case bull > bear:
		return models.SignalBullish
	case bear > bull:
		return models.SignalBearish
	default:
		return models.SignalNeutral
	}
}

func roundIndicators(set models.IndicatorSet) models.IndicatorSet {
	set.SMAShort = stats.Round2(set.SMAShort)
	set.SMALong = stats.Round2(set.SMALong)
	set.EMA = stats.Round2(set.EMA)
	set.WMA = stats.Round2(set.WMA)
	set.HMA = stats.Round2(set.HMA)
	set.VWAP = stats.Round2(set.VWAP)
	set.RSI = stats.Round2(set.RSI)
	set.MACD.Line = stats.Round2(set.MACD.Line)
	set.MACD.Signal = stats.Round2(set.MACD.Signal)
	set.MACD.Histogram = stats.Round2(set.MACD.Histogram)
	set.Stochastic.K = stats.Round2(set.Stochastic.K)
	set.Stochastic.D = stats.Round2(set.Stochastic.D)
	set.CCI = stats.Round2(set.CCI)
	set.MFI = stats.Round2(set.MFI)
	return set
}
