package queue

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"CoinPulse/pkg/logger"
)

type logLine struct {
	Level   string `json:"level"`
	Message string `json:"message"`
}

type recordingJob struct {
	got []logLine
	err error
}

func (j *recordingJob) Name() string { return "persist-log" }
func (j *recordingJob) Type() string { return "logs" }

func (j *recordingJob) Handle(_ context.Context, payload interface{}) error {
	line, err := ParsePayload[logLine](payload)
	if err != nil {
		return err
	}
	j.got = append(j.got, *line)
	return j.err
}

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	lgr, err := logger.New(&logger.Config{Level: "error", Format: "json", Output: "stderr"})
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	return lgr
}

func TestParsePayloadForms(t *testing.T) {
	want := logLine{Level: "error", Message: "boom"}

	for name, payload := range map[string]interface{}{
		"typed":   want,
		"pointer": &want,
		"map":     map[string]interface{}{"level": "error", "message": "boom"},
		"raw":     json.RawMessage(`{"level":"error","message":"boom"}`),
	} {
		got, err := ParsePayload[logLine](payload)
		if err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		if *got != want {
			t.Fatalf("%s: got %+v", name, *got)
		}
	}

	if _, err := ParsePayload[logLine](42); err == nil {
		t.Fatal("expected error for unsupported payload type")
	}
}

// Dispatch is exercised directly so the test needs no running Redis. The wire
// round trip turns typed payloads into maps, which normalizePayload re-encodes
// as raw JSON before the job sees them.
func TestProcessMessageDispatchesRegisteredJob(t *testing.T) {
	job := &recordingJob{}
	q := NewRedisQueue(testLogger(t), &QueueConfig{Workers: 1}, nil, ModeConsumerOnly)
	q.RegisterJob(job)

	q.processMessage(Message{
		ID:        "1",
		Type:      "logs",
		Payload:   map[string]interface{}{"level": "error", "message": "boom"},
		Timestamp: time.Now(),
	})

	if len(job.got) != 1 {
		t.Fatalf("expected one handled message, got %d", len(job.got))
	}
	if job.got[0].Message != "boom" {
		t.Fatalf("got %+v", job.got[0])
	}
}

func TestRegisterJobIgnoredInProducerMode(t *testing.T) {
	job := &recordingJob{}
	q := NewRedisQueue(testLogger(t), nil, nil, ModeProducerOnly)
	q.RegisterJob(job)

	q.processMessage(Message{ID: "1", Type: "logs", Payload: map[string]interface{}{}})
	if len(job.got) != 0 {
		t.Fatal("job should not be registered in producer-only mode")
	}
}
