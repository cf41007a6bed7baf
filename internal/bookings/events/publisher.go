package events

import (
	"context"
	"fmt"

	"studio/pkg/kafka"
	"studio/pkg/middleware"
	"studio/pkg/model"
)

const SchemaVersion = "1"

// Publisher announces committed booking changes.
type Publisher interface {
	Publish(ctx context.Context, event *model.BookingEvent) error
	Close() error
}

type messagePublisher interface {
	Publish(ctx context.Context, msg kafka.Message) error
	Close() error
}

type kafkaPublisher struct {
	producer messagePublisher
	source   string
}

// NewKafkaPublisher publishes events keyed by slot id, so events of one slot
// stay ordered within a partition.
func NewKafkaPublisher(producer messagePublisher, source string) Publisher {
	return &kafkaPublisher{producer: producer, source: source}
}

func (p *kafkaPublisher) Publish(ctx context.Context, event *model.BookingEvent) error {
	builder := kafka.NewMessage().
		WithKey(event.SlotID).
		WithValue(event).
		WithEventID(event.EventID).
		WithEventType(string(event.Type)).
		WithCorrelationID(middleware.RequestIDFromContext(ctx)).
		WithSchemaVersion(SchemaVersion).
		WithSource(p.source).
		WithTimestamp(event.OccurredAt)
	if err := builder.Err(); err != nil {
		return fmt.Errorf("failed to encode booking event: %w", err)
	}

	if err := p.producer.Publish(ctx, builder.Build()); err != nil {
		return fmt.Errorf("failed to publish %s: %w", event.Type, err)
	}
	return nil
}

func (p *kafkaPublisher) Close() error {
	return p.producer.Close()
}

// Noop drops events; used when Kafka is disabled.
type Noop struct{}

func (Noop) Publish(context.Context, *model.BookingEvent) error { return nil }

func (Noop) Close() error { return nil }
