package kafka

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"studio/pkg/logger"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runConsumer(t *testing.T, c *Consumer, reader *fakeReader) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- c.Start(ctx) }()

	select {
	case <-reader.drained:
	case <-time.After(2 * time.Second):
		t.Fatal("consumer did not drain messages")
	}
	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)
}

func TestConsumer_HandlesAndCommits(t *testing.T) {
	reader := newFakeReader(
		kafka.Message{Key: []byte("s1"), Value: []byte(`{}`), Offset: 1},
		kafka.Message{Key: []byte("s2"), Value: []byte(`{}`), Offset: 2},
	)
	var handled atomic.Int32
	c := newConsumer(reader, nil, "booking-events", "g", "", 3, func(ctx context.Context, msg Message) error {
		handled.Add(1)
		return nil
	}, logger.Discard())

	runConsumer(t, c, reader)

	assert.Equal(t, int32(2), handled.Load())
	assert.Len(t, reader.committed, 2)
	require.NoError(t, c.Close())
	assert.True(t, reader.closed)
}

func TestConsumer_RetriesTransientErrors(t *testing.T) {
	reader := newFakeReader(kafka.Message{Key: []byte("s1"), Value: []byte(`{}`)})
	var attempts atomic.Int32
	c := newConsumer(reader, nil, "t", "g", "", 3, func(ctx context.Context, msg Message) error {
		if attempts.Add(1) < 3 {
			return NewTransientError("store unavailable", nil)
		}
		return nil
	}, logger.Discard())
	c.retryBackoff = time.Millisecond

	runConsumer(t, c, reader)

	assert.Equal(t, int32(3), attempts.Load())
	assert.Len(t, reader.committed, 1)
}

func TestConsumer_PermanentErrorGoesToDLQ(t *testing.T) {
	reader := newFakeReader(kafka.Message{
		Key:     []byte("s1"),
		Value:   []byte(`not json`),
		Headers: []kafka.Header{{Key: HeaderEventID, Value: []byte("e1")}},
	})
	dlq := &fakeWriter{}
	var attempts atomic.Int32
	c := newConsumer(reader, dlq, "booking-events", "recorder", "booking-events-dlq", 3, func(ctx context.Context, msg Message) error {
		attempts.Add(1)
		return NewPermanentError("deserialization failed", errors.New("bad json"))
	}, logger.Discard())

	runConsumer(t, c, reader)

	assert.Equal(t, int32(1), attempts.Load())
	dead := dlq.messages()
	require.Len(t, dead, 1)
	assert.Equal(t, "e1", headerValue(dead[0], HeaderEventID))
	assert.Equal(t, "recorder", headerValue(dead[0], HeaderDLQConsumerGroup))
	assert.Equal(t, "booking-events", headerValue(dead[0], HeaderOriginalTopic))
	assert.Len(t, reader.committed, 1, "dead-lettered messages are committed")
}

func TestConsumer_ExhaustedRetriesGoToDLQ(t *testing.T) {
	reader := newFakeReader(kafka.Message{Key: []byte("s1"), Value: []byte(`{}`)})
	dlq := &fakeWriter{}
	var attempts atomic.Int32
	c := newConsumer(reader, dlq, "t", "g", "dlq", 2, func(ctx context.Context, msg Message) error {
		attempts.Add(1)
		return errors.New("i/o timeout")
	}, logger.Discard())
	c.retryBackoff = time.Millisecond

	runConsumer(t, c, reader)

	assert.Equal(t, int32(3), attempts.Load())
	dead := dlq.messages()
	require.Len(t, dead, 1)
	assert.Equal(t, "2", headerValue(dead[0], HeaderRetryCount))
}

func TestConsumer_StartAfterClose(t *testing.T) {
	c := newConsumer(newFakeReader(), nil, "t", "g", "", 1, func(context.Context, Message) error { return nil }, logger.Discard())
	require.NoError(t, c.Close())
	assert.ErrorIs(t, c.Start(context.Background()), ErrConsumerClosed)
}

func TestConsumer_Lag(t *testing.T) {
	reader := newFakeReader(kafka.Message{}, kafka.Message{})
	c := newConsumer(reader, nil, "t", "g", "", 1, func(context.Context, Message) error { return nil }, logger.Discard())
	assert.Equal(t, int64(2), c.Lag())
}
