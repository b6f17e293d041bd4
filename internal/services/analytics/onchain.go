package analytics

import (
	"context"
	"math"
	"time"

	"CoinPulse/internal/domain/fault"
	"CoinPulse/internal/domain/models"
	"CoinPulse/internal/services/stats"
)

// OnchainConfig carries the proxy-heuristic tables. The metrics are derived
// from price/volume shape only; these constants anchor them per symbol.
type OnchainConfig struct {
	SentimentWindow   int
	UpDayThreshold    float64
	LabelThreshold    float64
	BaseAddresses     map[string]float64
	DefaultAddresses  float64
	HashRates         map[string]float64
	TVL               map[string]float64
	DefaultTVL        float64
	CirculatingSupply float64
}

// DefaultOnchainConfig returns the stock heuristic tables.
func DefaultOnchainConfig() OnchainConfig {
	return OnchainConfig{
		SentimentWindow: 7,
		UpDayThreshold:  0.005,
		LabelThreshold:  0.05,
		BaseAddresses: map[string]float64{
			"BTC": 900_000,
			"ETH": 500_000,
			"BNB": 200_000,
			"SOL": 150_000,
			"XRP": 100_000,
		},
		DefaultAddresses: 50_000,
		HashRates: map[string]float64{
			"BTC": 450,
			"ETH": 0,
			"LTC": 800,
			"BCH": 2.5,
			"BSV": 1.8,
		},
		TVL: map[string]float64{
			"BTC":   48_000_000_000,
			"ETH":   55_000_000_000,
			"BNB":   8_000_000_000,
			"SOL":   4_000_000_000,
			"AVAX":  2_000_000_000,
			"MATIC": 1_500_000_000,
		},
		DefaultTVL:        500_000_000,
		CirculatingSupply: 21_000_000,
	}
}

func (c OnchainConfig) withDefaults() OnchainConfig {
	def := DefaultOnchainConfig()
	if c.SentimentWindow <= 1 {
		c.SentimentWindow = def.SentimentWindow
	}
	if c.UpDayThreshold <= 0 {
		c.UpDayThreshold = def.UpDayThreshold
	}
	if c.LabelThreshold <= 0 {
		c.LabelThreshold = def.LabelThreshold
	}
	if len(c.BaseAddresses) == 0 {
		c.BaseAddresses = def.BaseAddresses
	}
	if c.DefaultAddresses <= 0 {
		c.DefaultAddresses = def.DefaultAddresses
	}
	if len(c.HashRates) == 0 {
		c.HashRates = def.HashRates
	}
	if len(c.TVL) == 0 {
		c.TVL = def.TVL
	}
	if c.DefaultTVL <= 0 {
		c.DefaultTVL = def.DefaultTVL
	}
	if c.CirculatingSupply <= 0 {
		c.CirculatingSupply = def.CirculatingSupply
	}
	return c
}

// OnchainStrategy derives proxy on-chain metrics and a sentiment breakdown
// from the series shape, then fuses them into a combined signal.
type OnchainStrategy struct {
	cfg OnchainConfig
}

// NewOnchainStrategy builds the strategy with normalized config.
func NewOnchainStrategy(cfg OnchainConfig) *OnchainStrategy {
	return &OnchainStrategy{cfg: cfg.withDefaults()}
}

func (s *OnchainStrategy) Kind() models.AnalysisKind { return models.KindOnchain }

func (s *OnchainStrategy) MinBars() int { return s.cfg.SentimentWindow }

func (s *OnchainStrategy) Analyze(ctx context.Context, symbol string, series []models.Bar, p models.AnalysisParams) (*models.Analysis, error) {
	if len(series) < s.cfg.SentimentWindow {
		return nil, fault.InsufficientData("%s needs at least %d bars for onchain analysis, have %d", symbol, s.cfg.SentimentWindow, len(series))
	}

	closes := models.Closes(series)
	volumes := models.Volumes(series)

	metrics := s.metrics(symbol, closes, volumes)
	sentiment := s.sentiment(closes)

	votes := map[string]string{
		"sentiment": sentimentVote(sentiment.Label),
		"net_flow":  flowVote(metrics.NetFlow),
		"mvrv":      mvrvVote(metrics.MVRV),
		"nvt":       nvtVote(metrics.NVT),
	}

	report := &models.OnchainReport{
		Symbol:         symbol,
		Window:         len(series),
		Metrics:        metrics,
		Sentiment:      sentiment,
		Votes:          votes,
		CombinedSignal: majority(votes),
		ComputedAt:     time.Now().UTC(),
	}
	return &models.Analysis{Kind: models.KindOnchain, Onchain: report}, nil
}

func (s *OnchainStrategy) metrics(symbol string, closes, volumes []float64) models.OnchainMetrics {
	last := closes[len(closes)-1]
	w := s.cfg.SentimentWindow

	inflowShare, outflowShare, netFlow := exchangeFlows(volumes, w)

	return models.OnchainMetrics{
		ActiveAddresses: s.activeAddresses(symbol, closes),
		InflowShare:     inflowShare,
		OutflowShare:    outflowShare,
		NetFlow:         stats.Round2(netFlow),
		WhaleActivity:   whaleActivity(volumes, w),
		HashRate:        s.cfg.HashRates[symbol],
		TVL:             s.tvl(symbol),
		NVT:             s.nvt(last, volumes),
		MVRV:            mvrv(last, stats.Mean(closes)),
	}
}

// activeAddresses anchors the per-symbol base count and scales it by the
// coefficient of variation of the recent closes.
func (s *OnchainStrategy) activeAddresses(symbol string, closes []float64) float64 {
	base, ok := s.cfg.BaseAddresses[symbol]
	if !ok {
		base = s.cfg.DefaultAddresses
	}

	recent := stats.Tail(closes, s.cfg.SentimentWindow)
	mean := stats.Mean(recent)
	cv := 0.0
	if mean > 0 {
		cv = stats.StdDev(recent) / mean
	}
	return math.Round(base * (1 + cv*0.5))
}

// exchangeFlows splits the latest volume 60/40 toward inflow when it runs
// above the recent average, 40/60 when below. Net flow is inflow minus
// outflow in volume units.
func exchangeFlows(volumes []float64, window int) (inflowShare, outflowShare, netFlow float64) {
	recent := stats.Tail(volumes, window)
	if len(recent) < 2 {
		return 0, 0, 0
	}
	latest := recent[len(recent)-1]
	if latest > stats.Mean(recent) {
		inflowShare, outflowShare = 0.6, 0.4
	} else {
		inflowShare, outflowShare = 0.4, 0.6
	}
	return inflowShare, outflowShare, (inflowShare - outflowShare) * latest
}

// whaleActivity tiers the latest volume against the 95th percentile of the
// whole series.
func whaleActivity(volumes []float64, window int) string {
	if len(volumes) < window {
		return "normal"
	}
	p95 := stats.Percentile(volumes, 95)
	latest := volumes[len(volumes)-1]
	switch {
	case latest > p95*1.5:
		return "very_high"
	case latest > p95:
		return "high"
	default:
		return "normal"
	}
}

func (s *OnchainStrategy) tvl(symbol string) float64 {
	if v, ok := s.cfg.TVL[symbol]; ok {
		return v
	}
	return s.cfg.DefaultTVL
}

// nvt is market cap over annualized daily transaction value, both priced at
// the latest close.
func (s *OnchainStrategy) nvt(last float64, volumes []float64) float64 {
	marketCap := last * s.cfg.CirculatingSupply
	dailyValue := stats.TailMean(volumes, 30) * last
	if dailyValue <= 0 {
		return 0
	}
	return stats.Round2(marketCap / (dailyValue * 365))
}

func mvrv(last, avg float64) float64 {
	if avg <= 0 {
		return 1
	}
	return stats.Round2(last / avg)
}

// sentiment buckets the last-window daily returns into up, flat and down days.
func (s *OnchainStrategy) sentiment(closes []float64) models.SentimentBreakdown {
	rets := stats.Tail(stats.DailyReturns(closes), s.cfg.SentimentWindow)

	var pos, neu, neg float64
	for _, r := range rets {
		switch {
		case r > s.cfg.UpDayThreshold:
			pos++
		case r < -s.cfg.UpDayThreshold:
			neg++
		default:
			neu++
		}
	}

	total := pos + neu + neg
	out := models.SentimentBreakdown{Label: models.SignalNeutral}
	if total == 0 {
		out.NeutralShare = 1
		return out
	}
	out.PositiveShare = pos / total
	out.NeutralShare = neu / total
	out.NegativeShare = neg / total
	out.Score = stats.Round(out.PositiveShare-out.NegativeShare, 3)

	switch {
	case out.Score >= s.cfg.LabelThreshold:
		out.Label = "positive"
	case out.Score <= -s.cfg.LabelThreshold:
		out.Label = "negative"
	}
	return out
}

func sentimentVote(label string) string {
	switch label {
	case "positive":
		return models.SignalBullish
	case "negative":
		return models.SignalBearish
	default:
		return models.SignalNeutral
	}
}

// flowVote treats net outflow from exchanges as accumulation.
func flowVote(netFlow float64) string {
	switch {
	case netFlow < 0:
		return models.SignalBullish
	case netFlow > 0:
		return models.SignalBearish
	default:
		return models.SignalNeutral
	}
}

func mvrvVote(v float64) string {
	switch {
	case v > 1.5:
		return models.SignalBullish
	case v < 0.8:
		return models.SignalBearish
	default:
		return models.SignalNeutral
	}
}

func nvtVote(v float64) string {
	switch {
	case v > 0 && v < 40:
		return models.SignalBullish
	case v > 80:
		return models.SignalBearish
	default:
		return models.SignalNeutral
	}
}
