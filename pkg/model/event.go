package model

import "time"

type BookingEventType string

const (
	EventBookingReserved BookingEventType = "booking.reserved"
	EventBookingCanceled BookingEventType = "booking.canceled"
)

// SlotCountUnknown marks an event whose slot no longer exists.
const SlotCountUnknown = -1

type BookingEvent struct {
	EventID     string           `json:"event_id" bson:"_id"`
	Type        BookingEventType `json:"type" bson:"type"`
	BookingID   string           `json:"booking_id" bson:"booking_id"`
	SlotID      string           `json:"slot_id" bson:"slot_id"`
	UserID      string           `json:"user_id" bson:"user_id"`
	ActorID     string           `json:"actor_id" bson:"actor_id"`
	BookedCount int              `json:"booked_count" bson:"booked_count"`
	OccurredAt  time.Time        `json:"occurred_at" bson:"occurred_at"`
	RecordedAt  time.Time        `json:"recorded_at,omitempty" bson:"recorded_at,omitempty"`
}
