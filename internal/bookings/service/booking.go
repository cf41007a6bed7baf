package service

import (
	"context"
	"errors"
	"slices"
	"sort"
	"sync"
	"time"

	"studio/internal/auth"
	"studio/internal/bookings/cache"
	bookingserrors "studio/internal/bookings/errors"
	"studio/internal/bookings/events"
	"studio/internal/bookings/repository"
	"studio/internal/bookings/validator"
	"studio/pkg/config"
	mongotx "studio/pkg/db/mongo"
	apperrors "studio/pkg/errors"
	"studio/pkg/logger"
	"studio/pkg/model"
	"studio/pkg/sanitizer"

	"github.com/google/uuid"
)

// BookingService is the booking coordinator plus the member and admin
// operations around it. The caller is always passed explicitly.
type BookingService interface {
	ListOpenSlots(ctx context.Context) ([]*model.Slot, error)
	ListLocations(ctx context.Context) ([]string, error)
	GetSlot(ctx context.Context, id string) (*model.Slot, error)
	ReserveSlot(ctx context.Context, caller auth.Principal, slotID string, contact *model.BookingContact) (string, error)
	CancelBooking(ctx context.Context, caller auth.Principal, bookingID string) error
	GetUserBookings(ctx context.Context, caller auth.Principal) ([]*model.BookingWithSlot, error)

	CreateSlot(ctx context.Context, caller auth.Principal, slot *model.Slot) error
	UpdateSlot(ctx context.Context, caller auth.Principal, id string, update *model.SlotUpdate) (*model.Slot, error)
	DeleteSlot(ctx context.Context, caller auth.Principal, id string) error
	ListSlotBookings(ctx context.Context, caller auth.Principal, slotID string) ([]*model.Booking, error)
	ListAllBookings(ctx context.Context, caller auth.Principal, limit int, offset int64) ([]*model.Booking, int64, error)
	BookingStats(ctx context.Context, caller auth.Principal) (*model.BookingStats, error)
}

type bookingService struct {
	slots     repository.SlotRepository
	bookings  repository.BookingRepository
	tx        mongotx.TransactionManager
	validator *validator.SlotValidator
	cache     cache.Cache
	publisher events.Publisher
	isAdmin   auth.AdminPolicy
	log       *logger.Logger
	now       func() time.Time
}

func NewBookingService(
	slots repository.SlotRepository,
	bookings repository.BookingRepository,
	tx mongotx.TransactionManager,
	validator *validator.SlotValidator,
	cache cache.Cache,
	publisher events.Publisher,
	isAdmin auth.AdminPolicy,
	log *logger.Logger,
) BookingService {
	return &bookingService{
		slots:     slots,
		bookings:  bookings,
		tx:        tx,
		validator: validator,
		cache:     cache,
		publisher: publisher,
		isAdmin:   isAdmin,
		log:       log,
		now:       time.Now,
	}
}

const postCommitTimeout = 5 * time.Second

// --- Booking coordinator ---

func (s *bookingService) ListOpenSlots(ctx context.Context) ([]*model.Slot, error) {
	now := s.now()

	cached, found, err := s.cache.GetOpenSlots(ctx)
	if err != nil {
		s.log.Warn("Open slot cache read failed, reading from store", "error", err)
	} else if found {
		return upcomingOpen(cached, now), nil
	}

	// Read before the store so a concurrent invalidation orphans this fill.
	gen, genErr := s.cache.OpenSlotsGeneration(ctx)

	slots, err := s.slots.FindOpenFrom(ctx, now)
	if err != nil {
		s.log.Error("Failed to list open slots", "error", err)
		return nil, apperrors.Internal("Failed to retrieve slots", err)
	}

	if genErr != nil {
		s.log.Warn("Open slot cache generation unavailable, not caching", "error", genErr)
		return slots, nil
	}
	if err := s.cache.SetOpenSlots(ctx, gen, slots); err != nil {
		s.log.Warn("Failed to cache open slots", "error", err)
	}
	return slots, nil
}

// upcomingOpen drops slots that started or closed since the listing was cached.
func upcomingOpen(slots []*model.Slot, now time.Time) []*model.Slot {
	out := make([]*model.Slot, 0, len(slots))
	for _, slot := range slots {
		if slot.IsOpen() && !slot.StartAt.Before(now) {
			out = append(out, slot)
		}
	}
	return out
}

func (s *bookingService) ReserveSlot(ctx context.Context, caller auth.Principal, slotID string, contact *model.BookingContact) (string, error) {
	if caller.IsZero() {
		return "", apperrors.Unauthorized("Authentication required")
	}
	if !repository.IsValidID(slotID) {
		return "", apperrors.InvalidInput("Invalid slot ID format")
	}
	if contact == nil {
		contact = &model.BookingContact{}
	}
	contact.Name = sanitizer.TrimAndNormalize(contact.Name)
	contact.Email = sanitizer.TrimAndNormalize(contact.Email)
	if err := s.validator.ValidateContact(contact); err != nil {
		return "", s.validationError("Invalid booking contact", err)
	}

	var booking *model.Booking
	var bookedCount int

	err := s.tx.ExecuteTransaction(ctx, func(ctx context.Context) error {
		slot, err := s.slots.FindByID(ctx, slotID)
		if err != nil {
			return s.storeError(err, "Slot", slotID)
		}

		if !slot.IsOpen() {
			return apperrors.SlotUnavailable(slotID)
		}
		if slot.IsFull() {
			return apperrors.SlotFull(slotID)
		}

		exists, err := s.bookings.ExistsActive(ctx, slotID, caller.UserID)
		if err != nil {
			return s.storeError(err, "Booking", "")
		}
		if exists {
			return apperrors.DuplicateBooking(slotID)
		}

		b := &model.Booking{
			SlotID:    slotID,
			UserID:    caller.UserID,
			UserEmail: contact.Email,
			UserName:  contact.Name,
			Status:    model.BookingActive,
			CreatedAt: s.timestamp(),
		}
		if err := s.bookings.Create(ctx, b); err != nil {
			if errors.Is(err, bookingserrors.ErrActiveBookingExists) {
				return apperrors.DuplicateBooking(slotID)
			}
			return s.storeError(err, "Booking", "")
		}

		if err := s.slots.SetBookedCount(ctx, slotID, slot.BookedCount, slot.BookedCount+1); err != nil {
			return s.storeError(err, "Slot", slotID)
		}

		booking = b
		bookedCount = slot.BookedCount + 1
		return nil
	})
	if err != nil {
		s.logFailure("Failed to reserve slot", err, "slot_id", slotID, "user_id", caller.UserID)
		return "", s.txError(err, "Failed to reserve slot")
	}

	s.log.Info("Slot reserved",
		"booking_id", booking.ID,
		"slot_id", slotID,
		"user_id", caller.UserID,
		"booked_count", bookedCount,
	)

	s.afterCommit(ctx, model.EventBookingReserved, booking, caller.UserID, bookedCount)
	return booking.ID, nil
}

func (s *bookingService) CancelBooking(ctx context.Context, caller auth.Principal, bookingID string) error {
	if caller.IsZero() {
		return apperrors.Unauthorized("Authentication required")
	}
	if !repository.IsValidID(bookingID) {
		return apperrors.InvalidInput("Invalid booking ID format")
	}
	admin := s.isAdmin(caller)

	var booking *model.Booking
	var bookedCount int

	err := s.tx.ExecuteTransaction(ctx, func(ctx context.Context) error {
		b, err := s.bookings.FindByID(ctx, bookingID)
		if err != nil {
			return s.storeError(err, "Booking", bookingID)
		}

		if b.UserID != caller.UserID && !admin {
			return apperrors.Forbidden("You can only cancel your own bookings")
		}
		if !b.IsActive() {
			return apperrors.InvalidState("Booking is not active")
		}

		slot, err := s.slots.FindByID(ctx, b.SlotID)
		if err != nil {
			if !errors.Is(err, bookingserrors.ErrSlotNotFound) && !errors.Is(err, bookingserrors.ErrInvalidID) {
				return s.storeError(err, "Slot", b.SlotID)
			}
			slot = nil
		}

		canceledAt := s.timestamp()
		if err := s.bookings.MarkCanceled(ctx, bookingID, caller.UserID, canceledAt); err != nil {
			return s.storeError(err, "Booking", bookingID)
		}

		bookedCount = model.SlotCountUnknown
		if slot != nil {
			next := max(slot.BookedCount-1, 0)
			if err := s.slots.SetBookedCount(ctx, slot.ID, slot.BookedCount, next); err != nil {
				return s.storeError(err, "Slot", slot.ID)
			}
			bookedCount = next
		}

		b.Status = model.BookingCanceled
		b.CanceledAt = &canceledAt
		b.CanceledBy = caller.UserID
		booking = b
		return nil
	})
	if err != nil {
		s.logFailure("Failed to cancel booking", err, "booking_id", bookingID, "user_id", caller.UserID)
		return s.txError(err, "Failed to cancel booking")
	}

	s.log.Info("Booking canceled",
		"booking_id", bookingID,
		"slot_id", booking.SlotID,
		"owner_id", booking.UserID,
		"canceled_by", caller.UserID,
		"admin", admin,
		"booked_count", bookedCount,
	)

	s.afterCommit(ctx, model.EventBookingCanceled, booking, caller.UserID, bookedCount)
	return nil
}

// --- Member reads ---

func (s *bookingService) ListLocations(ctx context.Context) ([]string, error) {
	slots, err := s.ListOpenSlots(ctx)
	if err != nil {
		return nil, err
	}

	locations := make([]string, 0)
	for _, slot := range slots {
		if slot.Location != "" && !slices.Contains(locations, slot.Location) {
			locations = append(locations, slot.Location)
		}
	}
	sort.Strings(locations)
	return locations, nil
}

func (s *bookingService) GetSlot(ctx context.Context, id string) (*model.Slot, error) {
	if !repository.IsValidID(id) {
		return nil, apperrors.InvalidInput("Invalid slot ID format")
	}

	slot, err := s.slots.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingserrors.ErrSlotNotFound) {
			return nil, apperrors.NotFoundWithID("Slot", id)
		}
		return nil, apperrors.Internal("Failed to retrieve slot", err)
	}
	return slot, nil
}

func (s *bookingService) GetUserBookings(ctx context.Context, caller auth.Principal) ([]*model.BookingWithSlot, error) {
	if caller.IsZero() {
		return nil, apperrors.Unauthorized("Authentication required")
	}

	cached, found, err := s.cache.GetUserBookings(ctx, caller.UserID)
	if err != nil {
		s.log.Warn("User bookings cache read failed, reading from store", "user_id", caller.UserID, "error", err)
	} else if found {
		return cached, nil
	}

	gen, genErr := s.cache.UserBookingsGeneration(ctx, caller.UserID)

	bookings, err := s.bookings.FindByUser(ctx, caller.UserID)
	if err != nil {
		s.log.Error("Failed to list user bookings", "user_id", caller.UserID, "error", err)
		return nil, apperrors.Internal("Failed to retrieve bookings", err)
	}

	slotIDs := make([]string, 0, len(bookings))
	for _, b := range bookings {
		if !slices.Contains(slotIDs, b.SlotID) {
			slotIDs = append(slotIDs, b.SlotID)
		}
	}

	slots, err := s.slots.FindByIDs(ctx, slotIDs)
	if err != nil {
		s.log.Error("Failed to load slots for user bookings", "user_id", caller.UserID, "error", err)
		return nil, apperrors.Internal("Failed to retrieve bookings", err)
	}

	result := make([]*model.BookingWithSlot, 0, len(bookings))
	for _, b := range bookings {
		slot, ok := slots[b.SlotID]
		if !ok {
			continue
		}
		result = append(result, &model.BookingWithSlot{Booking: *b, Slot: slot})
	}

	if genErr != nil {
		s.log.Warn("User bookings cache generation unavailable, not caching", "user_id", caller.UserID, "error", genErr)
		return result, nil
	}
	if err := s.cache.SetUserBookings(ctx, caller.UserID, gen, result); err != nil {
		s.log.Warn("Failed to cache user bookings", "user_id", caller.UserID, "error", err)
	}
	return result, nil
}

// --- Slot administration ---

func (s *bookingService) CreateSlot(ctx context.Context, caller auth.Principal, slot *model.Slot) error {
	if err := s.requireAdmin(caller); err != nil {
		return err
	}

	s.applyDefaults(slot)
	s.sanitize(slot)
	now := s.timestamp()
	slot.ID = ""
	slot.BookedCount = 0
	slot.CreatedAt = now
	slot.CreatedBy = caller.UserID
	slot.UpdatedAt = now
	slot.UpdatedBy = caller.UserID

	if err := s.validator.Validate(slot, now); err != nil {
		s.log.Warn("Slot validation failed", "error", err)
		return s.validationError("Slot validation failed", err)
	}

	if err := s.slots.Create(ctx, slot); err != nil {
		s.log.Error("Failed to create slot", "error", err)
		return apperrors.Internal("Failed to create slot", err)
	}

	s.log.Info("Slot created successfully",
		"id", slot.ID,
		"start_at", slot.StartAt,
		"capacity", slot.Capacity,
		"location", slot.Location,
		"created_by", caller.UserID,
	)

	s.invalidateSlotCaches(ctx, "")
	return nil
}

func (s *bookingService) UpdateSlot(ctx context.Context, caller auth.Principal, id string, update *model.SlotUpdate) (*model.Slot, error) {
	if err := s.requireAdmin(caller); err != nil {
		return nil, err
	}
	if !repository.IsValidID(id) {
		return nil, apperrors.InvalidInput("Invalid slot ID format")
	}
	if update == nil || update.IsEmpty() {
		return nil, apperrors.InvalidInput("No fields to update")
	}
	s.sanitizeUpdate(update)

	var updated *model.Slot
	err := s.tx.ExecuteTransaction(ctx, func(ctx context.Context) error {
		existing, err := s.slots.FindByID(ctx, id)
		if err != nil {
			return s.storeError(err, "Slot", id)
		}

		merged := *existing
		update.Apply(&merged)
		if err := s.validator.ValidateUpdate(update, &merged); err != nil {
			return s.validationError("Slot update validation failed", err)
		}

		merged.UpdatedAt = s.timestamp()
		merged.UpdatedBy = caller.UserID
		if err := s.slots.Update(ctx, &merged); err != nil {
			return s.storeError(err, "Slot", id)
		}

		updated = &merged
		return nil
	})
	if err != nil {
		s.logFailure("Failed to update slot", err, "id", id)
		return nil, s.txError(err, "Failed to update slot")
	}

	s.log.Info("Slot updated successfully", "id", id, "updated_by", caller.UserID)
	s.invalidateSlotCaches(ctx, id)
	return updated, nil
}

func (s *bookingService) DeleteSlot(ctx context.Context, caller auth.Principal, id string) error {
	if err := s.requireAdmin(caller); err != nil {
		return err
	}
	if !repository.IsValidID(id) {
		return apperrors.InvalidInput("Invalid slot ID format")
	}

	err := s.tx.ExecuteTransaction(ctx, func(ctx context.Context) error {
		if _, err := s.slots.FindByID(ctx, id); err != nil {
			return s.storeError(err, "Slot", id)
		}

		active, err := s.bookings.CountActiveBySlot(ctx, id)
		if err != nil {
			return s.storeError(err, "Booking", "")
		}
		if active > 0 {
			return apperrors.Conflict("Cannot delete a slot with active bookings").
				WithDetails(map[string]any{"slot_id": id, "active_bookings": active})
		}

		if err := s.slots.Delete(ctx, id); err != nil {
			return s.storeError(err, "Slot", id)
		}
		return nil
	})
	if err != nil {
		s.logFailure("Failed to delete slot", err, "id", id)
		return s.txError(err, "Failed to delete slot")
	}

	s.log.Info("Slot deleted successfully", "id", id, "deleted_by", caller.UserID)
	s.invalidateSlotCaches(ctx, id)
	return nil
}

func (s *bookingService) ListSlotBookings(ctx context.Context, caller auth.Principal, slotID string) ([]*model.Booking, error) {
	if err := s.requireAdmin(caller); err != nil {
		return nil, err
	}
	if !repository.IsValidID(slotID) {
		return nil, apperrors.InvalidInput("Invalid slot ID format")
	}

	bookings, err := s.bookings.FindBySlot(ctx, slotID)
	if err != nil {
		s.log.Error("Failed to list slot bookings", "slot_id", slotID, "error", err)
		return nil, apperrors.Internal("Failed to retrieve bookings", err)
	}
	return bookings, nil
}

func (s *bookingService) ListAllBookings(ctx context.Context, caller auth.Principal, limit int, offset int64) ([]*model.Booking, int64, error) {
	if err := s.requireAdmin(caller); err != nil {
		return nil, 0, err
	}
	limit = config.NormalizePaginationLimit(limit)
	offset = config.NormalizeOffset(offset)

	var count int64
	var bookings []*model.Booking
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		count, errCount = s.bookings.Count(ctx)
		if errCount != nil {
			s.log.Error("Failed to count bookings", "error", errCount)
			errCount = apperrors.Internal("Failed to count bookings", errCount)
		}
	}()

	go func() {
		defer wg.Done()
		bookings, errFind = s.bookings.FindAll(ctx, limit, offset)
		if errFind != nil {
			s.log.Error("Failed to list bookings", "error", errFind)
			errFind = apperrors.Internal("Failed to retrieve bookings", errFind)
		}
	}()

	wg.Wait()
	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}

	return bookings, count, nil
}

func (s *bookingService) BookingStats(ctx context.Context, caller auth.Principal) (*model.BookingStats, error) {
	if err := s.requireAdmin(caller); err != nil {
		return nil, err
	}

	stats := &model.BookingStats{}
	var slots []*model.Slot
	var errTotal, errActive, errSlots error
	var wg sync.WaitGroup
	wg.Add(3)

	go func() {
		defer wg.Done()
		stats.TotalBookings, errTotal = s.bookings.Count(ctx)
	}()

	go func() {
		defer wg.Done()
		stats.ActiveBookings, errActive = s.bookings.CountByStatus(ctx, model.BookingActive)
	}()

	go func() {
		defer wg.Done()
		slots, errSlots = s.slots.FindOpenFrom(ctx, s.now())
	}()

	wg.Wait()
	if err := errors.Join(errTotal, errActive, errSlots); err != nil {
		if appErr := contextError(err); appErr != nil {
			return nil, appErr
		}
		s.log.Error("Failed to compute booking stats", "error", err)
		return nil, apperrors.Internal("Failed to retrieve booking stats", err)
	}

	stats.UpcomingOpenSlots = len(slots)
	for _, slot := range slots {
		stats.SeatsBooked += slot.BookedCount
		stats.SeatsAvailable += slot.Available()
	}
	// Counts are read independently, so clamp rather than report negative.
	stats.CanceledBookings = max(stats.TotalBookings-stats.ActiveBookings, 0)
	return stats, nil
}

// --- Helpers ---

func (s *bookingService) requireAdmin(caller auth.Principal) error {
	if caller.IsZero() {
		return apperrors.Unauthorized("Authentication required")
	}
	if !s.isAdmin(caller) {
		return apperrors.Forbidden("Administrator access required")
	}
	return nil
}

// timestamp is the store's resolution, so values read back compare equal.
func (s *bookingService) timestamp() time.Time {
	return s.now().UTC().Truncate(time.Millisecond)
}

func (s *bookingService) applyDefaults(slot *model.Slot) {
	if slot.Status == "" {
		slot.Status = model.SlotOpen
	}
}

func (s *bookingService) sanitize(slot *model.Slot) {
	slot.Title = sanitizer.NormalizeTitle(slot.Title)
	slot.Location = sanitizer.NormalizeLocation(slot.Location)
	slot.StartAt = slot.StartAt.UTC().Truncate(time.Millisecond)
	slot.EndAt = slot.EndAt.UTC().Truncate(time.Millisecond)
}

func (s *bookingService) sanitizeUpdate(update *model.SlotUpdate) {
	if update.Title != nil {
		title := sanitizer.NormalizeTitle(*update.Title)
		update.Title = &title
	}
	if update.Location != nil {
		location := sanitizer.NormalizeLocation(*update.Location)
		update.Location = &location
	}
	if update.StartAt != nil {
		start := update.StartAt.UTC().Truncate(time.Millisecond)
		update.StartAt = &start
	}
	if update.EndAt != nil {
		end := update.EndAt.UTC().Truncate(time.Millisecond)
		update.EndAt = &end
	}
}

// storeError maps repository errors inside a transaction body. Retryable
// errors pass through untouched so the transaction manager can re-run the body.
func (s *bookingService) storeError(err error, resource, id string) error {
	switch {
	case mongotx.IsRetryable(err), apperrors.IsAppError(err):
		return err
	case errors.Is(err, bookingserrors.ErrSlotNotFound), errors.Is(err, bookingserrors.ErrBookingNotFound):
		return apperrors.NotFoundWithID(resource, id)
	case errors.Is(err, bookingserrors.ErrInvalidID):
		return apperrors.InvalidInput("Invalid " + resource + " ID format")
	}
	return apperrors.Internal("Failed to access "+resource, err)
}

func (s *bookingService) txError(err error, message string) error {
	if ctxErr := contextError(err); ctxErr != nil {
		return ctxErr
	}
	if errors.Is(err, mongotx.ErrTxConflict) {
		return apperrors.Conflict("The slot is busy, please try again").
			WithDetails(map[string]any{"reason": "transaction retries exhausted"})
	}
	if apperrors.IsAppError(err) {
		return apperrors.AsAppError(err)
	}
	return apperrors.Internal(message, err)
}

// contextError reports a deadline or cancellation of the caller's context.
// These end the request but are not server faults.
func contextError(err error) *apperrors.AppError {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return apperrors.Timeout("The request timed out, please try again")
	case errors.Is(err, context.Canceled):
		return apperrors.Canceled("The request was canceled")
	}
	return nil
}

func (s *bookingService) validationError(message string, err error) error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		return apperrors.Validation(message, verrs.Fields())
	}
	return apperrors.Validation(message, map[string]any{"error": err.Error()})
}

// logFailure keeps expected business outcomes at info level.
func (s *bookingService) logFailure(msg string, err error, args ...any) {
	args = append(args, "error", err)
	if contextError(err) != nil {
		s.log.Warn(msg, args...)
		return
	}
	appErr := apperrors.AsAppError(err)
	if appErr.HTTPStatus >= 500 || errors.Is(err, mongotx.ErrTxConflict) {
		s.log.Error(msg, args...)
		return
	}
	s.log.Info(msg, args...)
}

// afterCommit runs the effects of a committed booking change. Failures are
// logged; the change itself already happened.
func (s *bookingService) afterCommit(ctx context.Context, eventType model.BookingEventType, booking *model.Booking, actorID string, bookedCount int) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), postCommitTimeout)
	defer cancel()

	if err := s.cache.InvalidateOpenSlots(ctx); err != nil {
		s.log.Warn("Failed to invalidate open slot cache", "error", err)
	}
	if err := s.cache.InvalidateUserBookings(ctx, booking.UserID); err != nil {
		s.log.Warn("Failed to invalidate user bookings cache", "user_id", booking.UserID, "error", err)
	}

	occurredAt := booking.CreatedAt
	if booking.CanceledAt != nil {
		occurredAt = *booking.CanceledAt
	}
	event := &model.BookingEvent{
		EventID:     uuid.NewString(),
		Type:        eventType,
		BookingID:   booking.ID,
		SlotID:      booking.SlotID,
		UserID:      booking.UserID,
		ActorID:     actorID,
		BookedCount: bookedCount,
		OccurredAt:  occurredAt,
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.log.Error("Failed to publish booking event",
			"event_id", event.EventID,
			"type", eventType,
			"booking_id", booking.ID,
			"error", err,
		)
	}
}

// invalidateSlotCaches drops the open listing and, for an existing slot, the
// cached booking lists of everyone who booked it.
func (s *bookingService) invalidateSlotCaches(ctx context.Context, slotID string) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), postCommitTimeout)
	defer cancel()

	if err := s.cache.InvalidateOpenSlots(ctx); err != nil {
		s.log.Warn("Failed to invalidate open slot cache", "error", err)
	}
	if slotID == "" {
		return
	}

	bookings, err := s.bookings.FindBySlot(ctx, slotID)
	if err != nil {
		s.log.Warn("Failed to load slot bookings for cache invalidation", "slot_id", slotID, "error", err)
		return
	}
	userIDs := make([]string, 0, len(bookings))
	for _, b := range bookings {
		if !slices.Contains(userIDs, b.UserID) {
			userIDs = append(userIDs, b.UserID)
		}
	}
	if err := s.cache.InvalidateUserBookings(ctx, userIDs...); err != nil {
		s.log.Warn("Failed to invalidate user bookings cache", "slot_id", slotID, "error", err)
	}
}
