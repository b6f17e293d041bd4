package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// Job handles one message type pulled off the queue.
type Job interface {
	// Name identifies the job in logs.
	Name() string
	// Type is the message type this job consumes.
	Type() string
	// Handle processes one payload.
	Handle(ctx context.Context, payload interface{}) error
}

// QueueConfig tunes the consumer side. A message is retried RetryLimit times,
// RetryDelay apart, before landing in the dead letter list.
type QueueConfig struct {
	Workers    int
	RetryLimit int
	RetryDelay time.Duration
}

// Message is the wire format stored in Redis.
type Message struct {
	ID        string
	Type      string
	Payload   interface{}
	Attempts  int
	Timestamp time.Time
}

// ParsePayload converts a payload into *T. Direct values pass through; JSON
// containers, raw or already decoded, go through one unmarshal.
func ParsePayload[T any](payload interface{}) (*T, error) {
	switch p := payload.(type) {
	case *T:
		return p, nil
	case T:
		return &p, nil
	}

	var raw json.RawMessage
	switch p := payload.(type) {
	case json.RawMessage:
		raw = p
	case map[string]interface{}, []interface{}:
		data, err := json.Marshal(p)
		if err != nil {
			return nil, fmt.Errorf("marshal payload: %w", err)
		}
		raw = data
	default:
		return nil, fmt.Errorf("invalid payload type: %T", payload)
	}

	var result T
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, fmt.Errorf("unmarshal payload: %w", err)
	}
	return &result, nil
}
