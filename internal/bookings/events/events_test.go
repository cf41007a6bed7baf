package events

import (
	"context"
	"errors"
	"testing"
	"time"

	"studio/pkg/kafka"
	"studio/pkg/logger"
	"studio/pkg/middleware"
	"studio/pkg/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockProducer struct {
	mock.Mock
}

func (m *mockProducer) Publish(ctx context.Context, msg kafka.Message) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

func (m *mockProducer) Close() error {
	return m.Called().Error(0)
}

type mockEventRepository struct {
	mock.Mock
}

func (m *mockEventRepository) Record(ctx context.Context, event *model.BookingEvent) (bool, error) {
	args := m.Called(ctx, event)
	return args.Bool(0), args.Error(1)
}

func (m *mockEventRepository) FindByBooking(ctx context.Context, bookingID string) ([]*model.BookingEvent, error) {
	args := m.Called(ctx, bookingID)
	return args.Get(0).([]*model.BookingEvent), args.Error(1)
}

func sampleEvent() *model.BookingEvent {
	return &model.BookingEvent{
		EventID:     "evt-1",
		Type:        model.EventBookingReserved,
		BookingID:   "b1",
		SlotID:      "s1",
		UserID:      "u1",
		ActorID:     "u1",
		BookedCount: 3,
		OccurredAt:  time.Date(2026, 5, 4, 9, 0, 0, 0, time.UTC),
	}
}

func TestKafkaPublisher_Publish(t *testing.T) {
	producer := new(mockProducer)
	pub := NewKafkaPublisher(producer, "studio")
	ctx := context.WithValue(context.Background(), middleware.RequestIDKey, "req-9")

	producer.On("Publish", ctx, mock.MatchedBy(func(msg kafka.Message) bool {
		var decoded model.BookingEvent
		return msg.Key == "s1" &&
			msg.GetEventID() == "evt-1" &&
			msg.GetEventType() == "booking.reserved" &&
			msg.GetCorrelationID() == "req-9" &&
			msg.Headers[kafka.HeaderSource] == "studio" &&
			msg.DecodeValue(&decoded) == nil && decoded.BookedCount == 3
	})).Return(nil).Once()

	require.NoError(t, pub.Publish(ctx, sampleEvent()))
	producer.AssertExpectations(t)
}

func TestKafkaPublisher_Error(t *testing.T) {
	producer := new(mockProducer)
	pub := NewKafkaPublisher(producer, "studio")
	producer.On("Publish", mock.Anything, mock.Anything).Return(errors.New("broker down"))

	err := pub.Publish(context.Background(), sampleEvent())
	assert.ErrorContains(t, err, "broker down")
}

func TestRecorder_Handle(t *testing.T) {
	repo := new(mockEventRepository)
	rec := NewRecorder(repo, logger.Discard())
	fixed := time.Date(2026, 5, 4, 9, 0, 1, 0, time.UTC)
	rec.now = func() time.Time { return fixed }

	msg := kafka.NewMessage().WithKey("s1").WithValue(sampleEvent()).WithEventID("evt-1").Build()

	repo.On("Record", mock.Anything, mock.MatchedBy(func(e *model.BookingEvent) bool {
		return e.EventID == "evt-1" && e.RecordedAt.Equal(fixed)
	})).Return(true, nil).Once()
	require.NoError(t, rec.Handle(context.Background(), msg))

	repo.On("Record", mock.Anything, mock.Anything).Return(false, nil).Once()
	require.NoError(t, rec.Handle(context.Background(), msg), "redelivery is a no-op")

	repo.AssertExpectations(t)
}

func TestRecorder_ErrorClassification(t *testing.T) {
	repo := new(mockEventRepository)
	rec := NewRecorder(repo, logger.Discard())

	err := rec.Handle(context.Background(), kafka.Message{Value: []byte("{oops")})
	assert.Equal(t, kafka.ErrorTypePermanent, kafka.ClassifyError(err))

	bad := sampleEvent()
	bad.Type = "booking.moved"
	msg := kafka.NewMessage().WithKey("s1").WithValue(bad).Build()
	err = rec.Handle(context.Background(), msg)
	assert.Equal(t, kafka.ErrorTypePermanent, kafka.ClassifyError(err))

	repo.On("Record", mock.Anything, mock.Anything).Return(false, errors.New("no reachable servers"))
	msg = kafka.NewMessage().WithKey("s1").WithValue(sampleEvent()).Build()
	err = rec.Handle(context.Background(), msg)
	assert.Equal(t, kafka.ErrorTypeTransient, kafka.ClassifyError(err))
}

func TestRecorder_FallsBackToHeaderEventID(t *testing.T) {
	repo := new(mockEventRepository)
	rec := NewRecorder(repo, logger.Discard())

	event := sampleEvent()
	event.EventID = ""
	msg := kafka.NewMessage().WithKey("s1").WithValue(event).WithEventID("from-header").Build()

	repo.On("Record", mock.Anything, mock.MatchedBy(func(e *model.BookingEvent) bool {
		return e.EventID == "from-header"
	})).Return(true, nil).Once()

	require.NoError(t, rec.Handle(context.Background(), msg))
	repo.AssertExpectations(t)
}
