package remote

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"CoinPulse/internal/domain/fault"
	"CoinPulse/internal/domain/models"
)

type recordingMetrics struct {
	mu       sync.Mutex
	forwards map[string]int
}

func newRecordingMetrics() *recordingMetrics {
	return &recordingMetrics{forwards: map[string]int{}}
}

func (m *recordingMetrics) RecordLatency(op string, seconds float64)     {}
func (m *recordingMetrics) RecordError(kind string)                      {}
func (m *recordingMetrics) RecordLastPrice(symbol string, price float64) {}
func (m *recordingMetrics) RecordForward(unit, outcome string) {
	m.mu.Lock()
	m.forwards[unit+"/"+outcome]++
	m.mu.Unlock()
}

func unitClient(t *testing.T, srvURL string, timeout time.Duration) *Client {
	t.Helper()
	return New(Config{
		Technical: UnitConfig{BaseURL: srvURL, Timeout: timeout},
	}, newRecordingMetrics())
}

func TestForwardRelaysSuccessPayload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/technical" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("symbol"); got != "BTC" {
			t.Errorf("symbol query = %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":200,"message":"OK","data":{"symbol":"BTC","signal":"bullish"}}`))
	}))
	defer srv.Close()

	payload, err := unitClient(t, srv.URL, time.Second).Forward(
		context.Background(), models.KindTechnical, url.Values{"symbol": {"BTC"}})
	if err != nil {
		t.Fatalf("Forward: %v", err)
	}
	var got map[string]string
	if err := json.Unmarshal(payload, &got); err != nil {
		t.Fatalf("payload not json: %v", err)
	}
	if got["symbol"] != "BTC" || got["signal"] != "bullish" {
		t.Fatalf("payload = %v", got)
	}
}

func TestForwardReconstructsRelayedFault(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"status":404,"message":"Not Found","data":[{"code":"ERR_NOT_FOUND","message":"no data found for ZZZ"}]}`))
	}))
	defer srv.Close()

	_, err := unitClient(t, srv.URL, time.Second).Forward(
		context.Background(), models.KindTechnical, url.Values{"symbol": {"ZZZ"}})
	if !fault.Is(err, fault.KindNotFound) {
		t.Fatalf("err = %v, want relayed not_found", err)
	}
	var fe *fault.Error
	if !errors.As(err, &fe) || fe.Message != "no data found for ZZZ" {
		t.Fatalf("message not relayed verbatim: %v", err)
	}
}

func TestForwardTimeoutSingleAttempt(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		time.Sleep(300 * time.Millisecond)
	}))
	defer srv.Close()

	_, err := unitClient(t, srv.URL, 50*time.Millisecond).Forward(
		context.Background(), models.KindTechnical, nil)
	if !fault.Is(err, fault.KindUpstream) {
		t.Fatalf("err = %v, want upstream_unavailable", err)
	}
	if n := atomic.LoadInt32(&calls); n != 1 {
		t.Fatalf("unit called %d times, want exactly 1", n)
	}
}

func TestForwardMalformedReply(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>not json</html>"))
	}))
	defer srv.Close()

	_, err := unitClient(t, srv.URL, time.Second).Forward(
		context.Background(), models.KindTechnical, nil)
	if !fault.Is(err, fault.KindUpstream) {
		t.Fatalf("err = %v, want upstream_unavailable", err)
	}
}

func TestForwardErrorWithoutEnvelope(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"status":500,"message":"Internal Server Error","data":"boom"}`))
	}))
	defer srv.Close()

	_, err := unitClient(t, srv.URL, time.Second).Forward(
		context.Background(), models.KindTechnical, nil)
	if !fault.Is(err, fault.KindUpstream) {
		t.Fatalf("err = %v, want upstream_unavailable", err)
	}
}

func TestForwardUnknownUnit(t *testing.T) {
	c := New(Config{}, newRecordingMetrics())
	_, err := c.Forward(context.Background(), models.KindOnchain, nil)
	if !fault.Is(err, fault.KindInternal) {
		t.Fatalf("err = %v, want internal", err)
	}
}
