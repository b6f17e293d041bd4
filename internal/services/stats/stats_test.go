package stats

import (
	"math"
	"testing"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestDailyReturns(t *testing.T) {
	got := DailyReturns([]float64{100, 110, 99})
	if len(got) != 2 {
		t.Fatalf("expected 2 returns, got %d", len(got))
	}
	if !almostEqual(got[0], 0.1) {
		t.Fatalf("expected 0.1, got %v", got[0])
	}
	if !almostEqual(got[1], -0.1) {
		t.Fatalf("expected -0.1, got %v", got[1])
	}
}

func TestDailyReturnsShort(t *testing.T) {
	if got := DailyReturns([]float64{100}); got != nil {
		t.Fatalf("expected nil for single close, got %v", got)
	}
}

func TestMeanAndStdDev(t *testing.T) {
	xs := []float64{2, 4, 4, 4, 5, 5, 7, 9}
	if m := Mean(xs); !almostEqual(m, 5) {
		t.Fatalf("expected mean 5, got %v", m)
	}
	// sample stddev of the classic example: sqrt(32/7)
	want := math.Sqrt(32.0 / 7.0)
	if s := StdDev(xs); !almostEqual(s, want) {
		t.Fatalf("expected stddev %v, got %v", want, s)
	}
}

func TestPercentile(t *testing.T) {
	xs := []float64{1, 2, 3, 4}
	if p := Percentile(xs, 50); !almostEqual(p, 2.5) {
		t.Fatalf("expected median 2.5, got %v", p)
	}
	if p := Percentile(xs, 0); !almostEqual(p, 1) {
		t.Fatalf("expected min 1, got %v", p)
	}
	if p := Percentile(xs, 100); !almostEqual(p, 4) {
		t.Fatalf("expected max 4, got %v", p)
	}
}

func TestPopStdDev(t *testing.T) {
	// population stddev of the classic example: sqrt(32/8) = 2
	if s := PopStdDev([]float64{2, 4, 4, 4, 5, 5, 7, 9}); !almostEqual(s, 2) {
		t.Fatalf("expected 2, got %v", s)
	}
	if s := PopStdDev([]float64{5}); s != 0 {
		t.Fatalf("expected 0 below two samples, got %v", s)
	}
}

func TestRound(t *testing.T) {
	if r := Round2(11.567); !almostEqual(r, 11.57) {
		t.Fatalf("expected 11.57, got %v", r)
	}
	if r := Round4(0.123456); !almostEqual(r, 0.1235) {
		t.Fatalf("expected 0.1235, got %v", r)
	}
	if r := Round(-19.999999999999996, 2); r != -20 {
		t.Fatalf("expected -20, got %v", r)
	}
}

func TestMaxMin(t *testing.T) {
	max, min := MaxMin([]float64{3, 9, 1, 5})
	if max != 9 || min != 1 {
		t.Fatalf("expected 9/1, got %v/%v", max, min)
	}
}

func TestChangePct(t *testing.T) {
	if c := ChangePct(100, 125); !almostEqual(c, 25) {
		t.Fatalf("expected 25, got %v", c)
	}
	if c := ChangePct(0, 10); c != 0 {
		t.Fatalf("expected 0 for non-positive base, got %v", c)
	}
}
