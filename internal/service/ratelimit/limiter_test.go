package ratelimit

import "testing"

func TestAllowConsumesBucket(t *testing.T) {
	l := New()
	for i := 0; i < 3; i++ {
		if !l.Allow("1.2.3.4", 3, 0) {
			t.Fatalf("request %d rejected within capacity", i)
		}
	}
	if l.Allow("1.2.3.4", 3, 0) {
		t.Fatal("request allowed past an empty bucket with no refill")
	}
}

func TestAllowKeysAreIndependent(t *testing.T) {
	l := New()
	if !l.Allow("a", 1, 0) {
		t.Fatal("first key rejected")
	}
	if l.Allow("a", 1, 0) {
		t.Fatal("first key not exhausted")
	}
	if !l.Allow("b", 1, 0) {
		t.Fatal("second key should have its own bucket")
	}
}
