package kafka_middleware

import (
	"context"
	"errors"
	"testing"

	"studio/pkg/kafka"
	"studio/pkg/logger"

	"github.com/stretchr/testify/assert"
)

func TestMetricsMiddleware(t *testing.T) {
	m := NewMetrics()
	produce := MetricsProducerMiddleware(m)
	consume := MetricsConsumerMiddleware(m)
	ctx := context.Background()
	msg := kafka.NewMessage().WithKey("k").Build()

	_ = produce(ctx, msg, func(context.Context, kafka.Message) error { return nil })
	_ = produce(ctx, msg, func(context.Context, kafka.Message) error { return errors.New("down") })
	_ = consume(ctx, msg, func(context.Context, kafka.Message) error { return nil })

	assert.Equal(t, int64(1), m.MessagesPublished.Load())
	assert.Equal(t, int64(1), m.MessagesPublishedFailed.Load())
	assert.Equal(t, int64(1), m.MessagesConsumed.Load())
	assert.Equal(t, int64(0), m.MessagesConsumedFailed.Load())

	m.LogMetrics(logger.Discard())
	m.Reset()
	assert.Equal(t, int64(0), m.MessagesPublished.Load())
	assert.Zero(t, m.GetAvgConsumeDuration())
}

func TestLoggingMiddleware_PassesThroughErrors(t *testing.T) {
	want := errors.New("boom")
	log := logger.Discard()
	msg := kafka.NewMessage().WithKey("k").Build()

	err := LoggingProducerMiddleware(log)(context.Background(), msg, func(context.Context, kafka.Message) error { return want })
	assert.ErrorIs(t, err, want)

	err = LoggingConsumerMiddleware(log)(context.Background(), msg, func(context.Context, kafka.Message) error { return nil })
	assert.NoError(t, err)
}
