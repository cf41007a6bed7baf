package errors

import "errors"

var (
	ErrSlotNotFound = errors.New("slot not found")

	ErrBookingNotFound = errors.New("booking not found")

	ErrInvalidID = errors.New("invalid ID format")

	// ErrActiveBookingExists is raised by the store when the unique index on
	// active (slot, user) pairs rejects an insert.
	ErrActiveBookingExists = errors.New("active booking already exists for slot and user")

	ErrInvalidTimeRange = errors.New("end time must be after start time")

	ErrCapacityBelowBooked = errors.New("capacity cannot be lower than the number of booked seats")
)
