package analytics

import (
	"context"
	"math"
	"testing"

	"CoinPulse/internal/domain/fault"
	"CoinPulse/internal/domain/models"
)

func TestOnchainInsufficientData(t *testing.T) {
	strat := NewOnchainStrategy(OnchainConfig{})
	_, err := strat.Analyze(context.Background(), "BTC", barsFromCloses(1, 2, 3, 4, 5), models.AnalysisParams{})
	if !fault.Is(err, fault.KindInsufficientData) {
		t.Fatalf("expected insufficient data, got %v", err)
	}
}

func TestOnchainUptrendReport(t *testing.T) {
	// eight up days at ~2% keep every return above the up-day threshold
	bars := barsFromCloses(100, 102, 104, 106, 108, 110, 112, 114)
	strat := NewOnchainStrategy(OnchainConfig{})

	res, err := strat.Analyze(context.Background(), "BTC", bars, models.AnalysisParams{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	rep := res.Onchain

	if rep.Sentiment.PositiveShare != 1 || rep.Sentiment.Label != "positive" {
		t.Fatalf("expected fully positive sentiment, got %+v", rep.Sentiment)
	}
	sum := rep.Sentiment.PositiveShare + rep.Sentiment.NeutralShare + rep.Sentiment.NegativeShare
	if math.Abs(sum-1) > 1e-9 {
		t.Fatalf("shares must sum to 1, got %v", sum)
	}

	// flat equal volumes: latest is not above the average, so the split
	// leans outflow and the whale tier stays normal
	if rep.Metrics.InflowShare != 0.4 || rep.Metrics.OutflowShare != 0.6 {
		t.Fatalf("unexpected flow split %+v", rep.Metrics)
	}
	if rep.Metrics.NetFlow != -20 {
		t.Fatalf("expected net flow -20, got %v", rep.Metrics.NetFlow)
	}
	if rep.Metrics.WhaleActivity != "normal" {
		t.Fatalf("expected normal whale activity, got %s", rep.Metrics.WhaleActivity)
	}

	if rep.Metrics.ActiveAddresses <= 900_000 || rep.Metrics.ActiveAddresses >= 940_000 {
		t.Fatalf("active addresses outside the BTC band: %v", rep.Metrics.ActiveAddresses)
	}
	if rep.Metrics.HashRate != 450 {
		t.Fatalf("expected BTC hash rate 450, got %v", rep.Metrics.HashRate)
	}
	if rep.Metrics.TVL != 48_000_000_000 {
		t.Fatalf("expected BTC TVL table value, got %v", rep.Metrics.TVL)
	}

	// sentiment and net outflow vote bullish, the high NVT votes bearish,
	// MVRV near 1 abstains
	if rep.CombinedSignal != models.SignalBullish {
		t.Fatalf("expected bullish combined signal, got %s", rep.CombinedSignal)
	}
	if rep.Window != 8 {
		t.Fatalf("expected window 8, got %d", rep.Window)
	}
}

func TestOnchainDeterministic(t *testing.T) {
	bars := barsFromCloses(50, 51, 49, 52, 48, 53, 47, 54, 46, 55)
	strat := NewOnchainStrategy(OnchainConfig{})

	a, err := strat.Analyze(context.Background(), "ETH", bars, models.AnalysisParams{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, err := strat.Analyze(context.Background(), "ETH", bars, models.AnalysisParams{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if a.Onchain.Metrics != b.Onchain.Metrics {
		t.Fatalf("metrics differ across identical inputs: %+v vs %+v", a.Onchain.Metrics, b.Onchain.Metrics)
	}
	if a.Onchain.Sentiment != b.Onchain.Sentiment {
		t.Fatalf("sentiment differs across identical inputs")
	}
	if a.Onchain.CombinedSignal != b.Onchain.CombinedSignal {
		t.Fatalf("combined signal differs across identical inputs")
	}
}

func TestWhaleActivityTiers(t *testing.T) {
	mk := func(latest float64) []float64 {
		vols := make([]float64, 10)
		for i := range vols {
			vols[i] = 100
		}
		vols[9] = latest
		return vols
	}

	if got := whaleActivity(mk(500), 7); got != "very_high" {
		t.Fatalf("expected very_high, got %s", got)
	}
	if got := whaleActivity(mk(350), 7); got != "high" {
		t.Fatalf("expected high, got %s", got)
	}
	if got := whaleActivity(mk(100), 7); got != "normal" {
		t.Fatalf("expected normal, got %s", got)
	}
}

func TestSentimentDowntrend(t *testing.T) {
	strat := NewOnchainStrategy(OnchainConfig{})
	// seven down days at ~2%
	s := strat.sentiment([]float64{100, 98, 96, 94, 92, 90, 88, 86})
	if s.NegativeShare != 1 || s.Label != "negative" {
		t.Fatalf("expected fully negative sentiment, got %+v", s)
	}
	if s.Score != -1 {
		t.Fatalf("expected score -1, got %v", s.Score)
	}
}

func TestFlowVotes(t *testing.T) {
	if got := flowVote(-5); got != models.SignalBullish {
		t.Fatalf("net outflow must vote bullish, got %s", got)
	}
	if got := flowVote(5); got != models.SignalBearish {
		t.Fatalf("net inflow must vote bearish, got %s", got)
	}
	if got := flowVote(0); got != models.SignalNeutral {
		t.Fatalf("flat flow must abstain, got %s", got)
	}
}
