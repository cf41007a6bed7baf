package kafka

import (
	"context"
	"errors"
	"testing"

	kafka_config "studio/pkg/kafka/config"
	"studio/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProducer_Validation(t *testing.T) {
	log := logger.Discard()

	_, err := NewProducer(nil, "t", "", log)
	assert.Error(t, err)

	_, err = NewProducer(&kafka_config.Config{}, "t", "", log)
	assert.Error(t, err)

	_, err = NewProducer(&kafka_config.Config{Brokers: []string{"localhost:9092"}}, "", "", log)
	assert.Error(t, err)

	p, err := NewProducer(&kafka_config.Config{Brokers: []string{"localhost:9092"}}, "booking-events", "booking-events-dlq", log)
	require.NoError(t, err)
	assert.Equal(t, "booking-events", p.Topic())
	assert.NoError(t, p.Close())
}

func TestProducer_Publish(t *testing.T) {
	w := &fakeWriter{}
	p := newProducer(w, nil, "booking-events", "", logger.Discard())

	msg := NewMessage().WithKey("slot-1").WithValue(map[string]string{"a": "b"}).WithEventType("booking.reserved").Build()
	require.NoError(t, p.Publish(context.Background(), msg))

	written := w.messages()
	require.Len(t, written, 1)
	assert.Equal(t, "slot-1", string(written[0].Key))
	assert.JSONEq(t, `{"a":"b"}`, string(written[0].Value))
	assert.Equal(t, "booking.reserved", headerValue(written[0], HeaderEventType))
	assert.NotEmpty(t, headerValue(written[0], HeaderEventID))
}

func TestProducer_RejectsInvalidMessages(t *testing.T) {
	p := newProducer(&fakeWriter{}, nil, "t", "", logger.Discard())

	err := p.Publish(context.Background(), Message{Value: []byte("x")})
	assert.ErrorIs(t, err, ErrEmptyKey)

	err = p.Publish(context.Background(), Message{Key: "k"})
	assert.ErrorIs(t, err, ErrEmptyValue)
}

func TestProducer_FailureGoesToDLQ(t *testing.T) {
	writeErr := errors.New("connection refused")
	w := &fakeWriter{writeErr: writeErr}
	dlq := &fakeWriter{}
	p := newProducer(w, dlq, "booking-events", "booking-events-dlq", logger.Discard())

	msg := NewMessage().WithKey("slot-1").WithRawValue([]byte(`{}`)).Build()
	err := p.Publish(context.Background(), msg)
	assert.ErrorIs(t, err, writeErr)

	dead := dlq.messages()
	require.Len(t, dead, 1)
	assert.Equal(t, "booking-events", headerValue(dead[0], HeaderOriginalTopic))
	assert.Equal(t, "connection refused", headerValue(dead[0], HeaderDLQError))
	assert.Empty(t, msg.Headers[HeaderDLQError], "caller headers untouched")
}

func TestProducer_MiddlewareOrder(t *testing.T) {
	p := newProducer(&fakeWriter{}, nil, "t", "", logger.Discard())

	var order []string
	for _, name := range []string{"outer", "inner"} {
		name := name
		p.Use(func(ctx context.Context, msg Message, next func(context.Context, Message) error) error {
			order = append(order, name)
			return next(ctx, msg)
		})
	}

	msg := NewMessage().WithKey("k").WithRawValue([]byte("v")).Build()
	require.NoError(t, p.Publish(context.Background(), msg))
	assert.Equal(t, []string{"outer", "inner"}, order)
}

func TestProducer_Closed(t *testing.T) {
	w := &fakeWriter{}
	p := newProducer(w, nil, "t", "", logger.Discard())
	require.NoError(t, p.Close())
	assert.True(t, w.closed)
	assert.NoError(t, p.Close())

	err := p.Publish(context.Background(), NewMessage().WithKey("k").WithRawValue([]byte("v")).Build())
	assert.ErrorIs(t, err, ErrProducerClosed)
}

func TestProducer_PublishBatchSkipsEmpty(t *testing.T) {
	w := &fakeWriter{}
	p := newProducer(w, nil, "t", "", logger.Discard())

	err := p.PublishBatch(context.Background(), []Message{
		{Key: "a", Value: []byte("1")},
		{Key: "", Value: []byte("2")},
		{Key: "c"},
	})
	require.NoError(t, err)
	assert.Len(t, w.messages(), 1)

	assert.ErrorIs(t, p.PublishBatch(context.Background(), []Message{{}}), ErrInvalidMessage)
}
