package analytics

import (
	"context"
	"testing"
	"time"

	"CoinPulse/internal/domain/fault"
	"CoinPulse/internal/domain/models"
)

// smallConfig shrinks every window so three bars satisfy the strategy.
func smallConfig() TechnicalConfig {
	return TechnicalConfig{
		ShortWindow: 2,
		LongWindow:  3,
		EMAWindow:   2,
		WMAWindow:   2,
		HMAWindow:   2,
		RSIPeriod:   2,
		MACDFast:    1,
		MACDSlow:    2,
		MACDSignal:  1,
		StochPeriod: 2,
		StochSmooth: 1,
		CCIPeriod:   3,
		MFIPeriod:   2,
	}
}

func barsFromCloses(closes ...float64) []models.Bar {
	out := make([]models.Bar, len(closes))
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, c := range closes {
		out[i] = models.Bar{
			Symbol: "X",
			Date:   base.AddDate(0, 0, i),
			Open:   c,
			High:   c,
			Low:    c,
			Close:  c,
			Volume: 100,
		}
	}
	return out
}

func TestTechnicalTwoDayShortMA(t *testing.T) {
	strat := NewTechnicalStrategy(smallConfig())
	if strat.MinBars() != 3 {
		t.Fatalf("expected min bars 3, got %d", strat.MinBars())
	}

	res, err := strat.Analyze(context.Background(), "X", barsFromCloses(10, 12, 11), models.AnalysisParams{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	rep := res.Technical
	if rep == nil {
		t.Fatalf("expected technical report")
	}

	if rep.Indicators.SMAShort != 11.5 {
		t.Fatalf("expected short MA 11.5, got %v", rep.Indicators.SMAShort)
	}
	if rep.Indicators.SMALong != 11 {
		t.Fatalf("expected long MA 11, got %v", rep.Indicators.SMALong)
	}

	// close equals the long MA and the MACD lines coincide, so only the MA
	// cross and the oversold stochastic cast votes, both bullish.
	if got := rep.Votes["price_ma"]; got != models.SignalNeutral {
		t.Fatalf("expected neutral price_ma vote, got %s", got)
	}
	if got := rep.Votes["ma_cross"]; got != models.SignalBullish {
		t.Fatalf("expected bullish ma_cross vote, got %s", got)
	}
	if got := rep.Votes["stochastic"]; got != models.SignalBullish {
		t.Fatalf("expected bullish stochastic vote, got %s", got)
	}
	if rep.Signal != models.SignalBullish {
		t.Fatalf("expected bullish signal, got %s", rep.Signal)
	}
	if rep.Bars != 3 {
		t.Fatalf("expected 3 bars analyzed, got %d", rep.Bars)
	}
	if rep.Timeframe != "1m" {
		t.Fatalf("expected default timeframe, got %s", rep.Timeframe)
	}
}

func TestTechnicalInsufficientData(t *testing.T) {
	strat := NewTechnicalStrategy(smallConfig())
	_, err := strat.Analyze(context.Background(), "X", barsFromCloses(10, 12), models.AnalysisParams{})
	if !fault.Is(err, fault.KindInsufficientData) {
		t.Fatalf("expected insufficient data, got %v", err)
	}
}

func TestTechnicalDefaultMinBars(t *testing.T) {
	strat := NewTechnicalStrategy(TechnicalConfig{})
	if strat.MinBars() != 50 {
		t.Fatalf("expected min bars 50, got %d", strat.MinBars())
	}
}

func TestTechnicalSteadyUptrend(t *testing.T) {
	closes := make([]float64, 60)
	for i := range closes {
		closes[i] = 100 + float64(i)
	}
	strat := NewTechnicalStrategy(TechnicalConfig{})
	res, err := strat.Analyze(context.Background(), "X", barsFromCloses(closes...), models.AnalysisParams{Timeframe: "3m"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	rep := res.Technical

	switch rep.Signal {
	case models.SignalBullish, models.SignalBearish, models.SignalNeutral:
	default:
		t.Fatalf("signal outside enum: %s", rep.Signal)
	}

	// a monotone ramp keeps price above the long MA and maxes the
	// overbought oscillators
	if got := rep.Votes["price_ma"]; got != models.SignalBullish {
		t.Fatalf("expected bullish price_ma vote, got %s", got)
	}
	if rep.Indicators.RSI != 100 {
		t.Fatalf("expected RSI 100 on all-gain series, got %v", rep.Indicators.RSI)
	}
	if got := rep.Votes["rsi"]; got != models.SignalBearish {
		t.Fatalf("expected bearish rsi vote, got %s", got)
	}
	if rep.Bars != 60 {
		t.Fatalf("expected 60 bars analyzed, got %d", rep.Bars)
	}
}

func TestMajorityTies(t *testing.T) {
	if got := majority(map[string]string{"a": models.SignalBullish, "b": models.SignalBearish}); got != models.SignalNeutral {
		t.Fatalf("expected neutral on tie, got %s", got)
	}
	if got := majority(map[string]string{}); got != models.SignalNeutral {
		t.Fatalf("expected neutral on no votes, got %s", got)
	}
	if got := majority(map[string]string{"a": models.SignalBullish, "b": models.SignalNeutral}); got != models.SignalBullish {
		t.Fatalf("expected bullish, got %s", got)
	}
}
