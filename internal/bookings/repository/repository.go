package repository

import (
	"context"
	"fmt"
	"time"

	bookingserrors "studio/internal/bookings/errors"
	mongotx "studio/pkg/db/mongo"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	SlotsCollection         = "Slots"
	BookingsCollection      = "Bookings"
	BookingEventsCollection = "Booking_events"
)

// withTimeout bounds a single store call. Inside a transaction the context is
// returned as is; the transaction owns its deadline.
func withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if mongotx.InTransaction(ctx) {
		return ctx, func() {}
	}

	deadline, hasDeadline := ctx.Deadline()
	if !hasDeadline {
		return context.WithTimeout(ctx, timeout)
	}

	remaining := time.Until(deadline)
	if remaining < timeout {
		return context.WithTimeout(ctx, remaining)
	}

	return context.WithTimeout(ctx, timeout)
}

func objectID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("%w: %s", bookingserrors.ErrInvalidID, id)
	}
	return oid, nil
}

// IsValidID reports whether id has the shape of a store identifier.
func IsValidID(id string) bool {
	return primitive.IsValidObjectID(id)
}
