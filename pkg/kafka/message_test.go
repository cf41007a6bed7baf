package kafka

import (
	"context"
	"errors"
	"fmt"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMessageBuilder(t *testing.T) {
	ts := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	msg := NewMessage().
		WithKey("slot-1").
		WithValue(map[string]int{"n": 1}).
		WithEventID("evt-1").
		WithEventType("booking.canceled").
		WithCorrelationID("").
		WithSource("studio").
		WithSchemaVersion("1").
		WithTimestamp(ts).
		Build()

	assert.Equal(t, "slot-1", msg.Key)
	assert.Equal(t, "evt-1", msg.GetEventID())
	assert.Equal(t, "booking.canceled", msg.GetEventType())
	assert.Empty(t, msg.GetCorrelationID())
	assert.Equal(t, ts.Format(time.RFC3339Nano), msg.Headers[HeaderTimestamp])

	var decoded map[string]int
	require.NoError(t, msg.DecodeValue(&decoded))
	assert.Equal(t, 1, decoded["n"])
}

func TestMessageBuilder_GeneratesEventID(t *testing.T) {
	msg := NewMessage().WithKey("k").Build()
	assert.NotEmpty(t, msg.GetEventID())
}

func TestMessageBuilder_EncodeError(t *testing.T) {
	b := NewMessage().WithKey("k").WithValue(math.Inf(1))
	assert.Error(t, b.Err())
	assert.Empty(t, b.Build().Value)
}

func TestRetryCount(t *testing.T) {
	var msg Message
	assert.Equal(t, 0, msg.GetRetryCount())

	for i := 0; i < 11; i++ {
		msg.IncrementRetryCount()
	}
	assert.Equal(t, 11, msg.GetRetryCount())

	msg.Headers[HeaderRetryCount] = "garbage"
	assert.Equal(t, 0, msg.GetRetryCount())
}

func TestClassifyError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorType
	}{
		{"nil", nil, ErrorTypeUnknown},
		{"transient wrapper", NewTransientError("x", nil), ErrorTypeTransient},
		{"permanent wrapper", fmt.Errorf("wrapped: %w", NewPermanentError("x", errors.New("timeout"))), ErrorTypePermanent},
		{"deadline", fmt.Errorf("op: %w", context.DeadlineExceeded), ErrorTypeTransient},
		{"connection refused", errors.New("dial tcp: Connection Refused"), ErrorTypeTransient},
		{"schema", errors.New("schema mismatch on field"), ErrorTypePermanent},
		{"unknown text", errors.New("something odd"), ErrorTypePermanent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyError(tt.err))
		})
	}
}

func TestKafkaError_WithDetail(t *testing.T) {
	err := NewPermanentError("invalid message", errors.New("missing slot_id")).WithDetail("event_id", "e-1")

	assert.Equal(t, "invalid message: missing slot_id", err.Error())
	assert.Equal(t, "e-1", err.Details["event_id"])
	assert.Equal(t, "permanent", ClassifyError(err).String())
}

func TestShouldRetry(t *testing.T) {
	transient := errors.New("i/o timeout")
	assert.True(t, ShouldRetry(transient, 0, 3))
	assert.False(t, ShouldRetry(transient, 3, 3))
	assert.False(t, ShouldRetry(errors.New("invalid message"), 0, 3))
	assert.False(t, ShouldRetry(nil, 0, 3))
}
