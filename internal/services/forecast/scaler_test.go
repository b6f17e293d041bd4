package forecast

import (
	"math"
	"testing"
)

func TestScalerRoundTrip(t *testing.T) {
	s := FitScaler([]float64{10, 20, 15})
	if s.Min != 10 || s.Max != 20 {
		t.Fatalf("unexpected bounds %v %v", s.Min, s.Max)
	}
	got := s.Transform(15)
	if math.Abs(got-0.5) > 1e-9 {
		t.Fatalf("expected 0.5, got %v", got)
	}
	back := s.Inverse(got)
	if math.Abs(back-15) > 1e-9 {
		t.Fatalf("expected 15, got %v", back)
	}
}

func TestScalerFlatSeries(t *testing.T) {
	s := FitScaler([]float64{5, 5, 5})
	if got := s.Transform(5); got != 0 {
		t.Fatalf("expected 0, got %v", got)
	}
	if got := s.Inverse(0.7); got != 5 {
		t.Fatalf("expected 5, got %v", got)
	}
}

func TestScalerTransformAll(t *testing.T) {
	s := FitScaler([]float64{0, 4})
	got := s.TransformAll([]float64{0, 1, 2, 4})
	want := []float64{0, 0.25, 0.5, 1}
	for i := range want {
		if math.Abs(got[i]-want[i]) > 1e-9 {
			t.Fatalf("index %d: expected %v, got %v", i, want[i], got[i])
		}
	}
}
