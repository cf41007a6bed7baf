package events

import (
	"context"
	"fmt"
	"time"

	"studio/internal/bookings/repository"
	"studio/pkg/kafka"
	"studio/pkg/logger"
	"studio/pkg/model"
)

// Recorder persists consumed booking events into the audit collection.
type Recorder struct {
	repo repository.EventRepository
	log  *logger.Logger
	now  func() time.Time
}

func NewRecorder(repo repository.EventRepository, log *logger.Logger) *Recorder {
	return &Recorder{repo: repo, log: log, now: time.Now}
}

// Handle is a kafka.MessageHandler. Undecodable or incomplete events are
// permanent failures; store failures are transient.
func (r *Recorder) Handle(ctx context.Context, msg kafka.Message) error {
	var event model.BookingEvent
	if err := msg.DecodeValue(&event); err != nil {
		return kafka.NewPermanentError("deserialization failed", err)
	}

	if event.EventID == "" {
		event.EventID = msg.GetEventID()
	}
	if err := validateEvent(&event); err != nil {
		return kafka.NewPermanentError("invalid message", err).WithDetail("event_id", event.EventID)
	}

	event.RecordedAt = r.now().UTC()
	inserted, err := r.repo.Record(ctx, &event)
	if err != nil {
		return kafka.NewTransientError("failed to record booking event", err)
	}

	if !inserted {
		r.log.Debug("Booking event already recorded", "event_id", event.EventID)
		return nil
	}

	r.log.Info("Booking event recorded",
		"event_id", event.EventID,
		"type", event.Type,
		"booking_id", event.BookingID,
		"slot_id", event.SlotID,
		"booked_count", event.BookedCount,
	)
	return nil
}

func validateEvent(e *model.BookingEvent) error {
	switch {
	case e.EventID == "":
		return fmt.Errorf("event_id is required")
	case e.Type != model.EventBookingReserved && e.Type != model.EventBookingCanceled:
		return fmt.Errorf("unknown event type %q", e.Type)
	case e.BookingID == "" || e.SlotID == "" || e.UserID == "":
		return fmt.Errorf("booking_id, slot_id and user_id are required")
	case e.OccurredAt.IsZero():
		return fmt.Errorf("occurred_at is required")
	}
	return nil
}
