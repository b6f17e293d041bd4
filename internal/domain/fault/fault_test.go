package fault

import (
	"errors"
	"fmt"
	"testing"
)

func TestKindOfTyped(t *testing.T) {
	err := NotFound("symbol %s has no stored bars", "ZZZ")
	if got := KindOf(err); got != KindNotFound {
		t.Fatalf("expected %s, got %s", KindNotFound, got)
	}
}

func TestKindOfWrapped(t *testing.T) {
	inner := InsufficientData("need 50 bars, have 3")
	wrapped := fmt.Errorf("technical: %w", inner)
	if got := KindOf(wrapped); got != KindInsufficientData {
		t.Fatalf("expected %s, got %s", KindInsufficientData, got)
	}
	if !Is(wrapped, KindInsufficientData) {
		t.Fatalf("expected Is to see through the wrap")
	}
}

func TestKindOfUntyped(t *testing.T) {
	if got := KindOf(errors.New("boom")); got != KindInternal {
		t.Fatalf("expected %s, got %s", KindInternal, got)
	}
}

func TestAsErrorKeepsTyped(t *testing.T) {
	orig := InvalidParameters("lookback must be positive")
	got := AsError(fmt.Errorf("prediction: %w", orig), "analysis failed")
	if got.Kind != KindInvalidParameters {
		t.Fatalf("expected original kind preserved, got %s", got.Kind)
	}
}

func TestAsErrorWrapsUntyped(t *testing.T) {
	cause := errors.New("nan in weights")
	got := AsError(cause, "analysis failed")
	if got.Kind != KindInternal {
		t.Fatalf("expected internal kind, got %s", got.Kind)
	}
	if !errors.Is(got, cause) {
		t.Fatalf("expected cause to be preserved")
	}
}

func TestCodeRoundTrip(t *testing.T) {
	kinds := []Kind{KindNotFound, KindInsufficientData, KindInvalidParameters, KindUpstream, KindInternal}
	for _, k := range kinds {
		if got := KindFromCode(k.Code()); got != k {
			t.Errorf("round trip %s -> %s -> %s", k, k.Code(), got)
		}
	}
	if got := KindFromCode("ERR_SOMETHING_ELSE"); got != KindInternal {
		t.Errorf("unknown code mapped to %s, want internal", got)
	}
}
