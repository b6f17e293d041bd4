package util

import (
	"testing"
	"time"
)

func TestParseDay(t *testing.T) {
	got, err := ParseDay("2025-03-09")
	if err != nil {
		t.Fatalf("parse day: %v", err)
	}
	want := time.Date(2025, 3, 9, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("got %v want %v", got, want)
	}
}

func TestParseDayRejectsGarbage(t *testing.T) {
	for _, s := range []string{"", "03/09/2025", "2025-13-01", "yesterday"} {
		if _, err := ParseDay(s); err == nil {
			t.Fatalf("expected error for %q", s)
		}
	}
}

func TestDayKeyRoundTrip(t *testing.T) {
	in := time.Date(2025, 3, 9, 17, 45, 12, 0, time.UTC)
	if got := DayKey(in); got != "2025-03-09" {
		t.Fatalf("got %q", got)
	}
	if got := Day(in); !got.Equal(time.Date(2025, 3, 9, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("got %v", got)
	}
}

func TestParseIntDefault(t *testing.T) {
	if got := ParseIntDefault("42", 7); got != 42 {
		t.Fatalf("got %d", got)
	}
	if got := ParseIntDefault("", 7); got != 7 {
		t.Fatalf("got %d", got)
	}
	if got := ParseIntDefault("4x2", 7); got != 7 {
		t.Fatalf("got %d", got)
	}
}
