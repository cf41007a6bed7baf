package model

import (
	"time"
)

type BookingStatus string

const (
	BookingActive   BookingStatus = "active"
	BookingCanceled BookingStatus = "canceled"
)

// Booking is created active by a reservation and moves to canceled exactly once.
type Booking struct {
	ID         string        `json:"id,omitempty" bson:"_id,omitempty"`
	SlotID     string        `json:"slot_id" bson:"slot_id"`
	UserID     string        `json:"user_id" bson:"user_id"`
	UserEmail  string        `json:"user_email,omitempty" bson:"user_email,omitempty"`
	UserName   string        `json:"user_name,omitempty" bson:"user_name,omitempty"`
	Status     BookingStatus `json:"status" bson:"status"`
	CreatedAt  time.Time     `json:"created_at" bson:"created_at"`
	CanceledAt *time.Time    `json:"canceled_at,omitempty" bson:"canceled_at,omitempty"`
	CanceledBy string        `json:"canceled_by,omitempty" bson:"canceled_by,omitempty"`
}

func (b *Booking) IsActive() bool {
	return b.Status == BookingActive
}

// BookingWithSlot is a booking joined with its slot for member listings.
type BookingWithSlot struct {
	Booking
	Slot *Slot `json:"slot"`
}

// BookingContact is optional display data stored alongside a reservation.
type BookingContact struct {
	Email string `json:"user_email,omitempty" validate:"omitempty,email,max=254"`
	Name  string `json:"user_name,omitempty" validate:"omitempty,max=100"`
}

// BookingStats is the admin dashboard summary. Seat totals cover upcoming
// open slots only.
type BookingStats struct {
	TotalBookings     int64 `json:"total_bookings"`
	ActiveBookings    int64 `json:"active_bookings"`
	CanceledBookings  int64 `json:"canceled_bookings"`
	UpcomingOpenSlots int   `json:"upcoming_open_slots"`
	SeatsBooked       int   `json:"seats_booked"`
	SeatsAvailable    int   `json:"seats_available"`
}
