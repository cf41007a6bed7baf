package service

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	bookingserrors "studio/internal/bookings/errors"
	"studio/internal/bookings/repository"
	mongotx "studio/pkg/db/mongo"
	"studio/pkg/model"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// memStore implements the slot and booking repositories in memory. Its
// transaction manager runs one body at a time and rolls back on failure,
// which gives the serializable behaviour the Mongo transactions provide.
type memStore struct {
	mu       sync.RWMutex
	slots    map[string]model.Slot
	bookings map[string]model.Booking

	// injected write conflicts for SetBookedCount
	conflicts int
	setCalls  int
}

func newMemStore() *memStore {
	return &memStore{
		slots:    make(map[string]model.Slot),
		bookings: make(map[string]model.Booking),
	}
}

func (m *memStore) slotRepo() repository.SlotRepository       { return (*memSlots)(m) }
func (m *memStore) bookingRepo() repository.BookingRepository { return (*memBookings)(m) }

func (m *memStore) snapshot() (map[string]model.Slot, map[string]model.Booking) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	slots := make(map[string]model.Slot, len(m.slots))
	for k, v := range m.slots {
		slots[k] = v
	}
	bookings := make(map[string]model.Booking, len(m.bookings))
	for k, v := range m.bookings {
		bookings[k] = v
	}
	return slots, bookings
}

func (m *memStore) restore(slots map[string]model.Slot, bookings map[string]model.Booking) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.slots = slots
	m.bookings = bookings
}

func (m *memStore) addSlot(slot model.Slot) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if slot.ID == "" {
		slot.ID = primitive.NewObjectID().Hex()
	}
	m.slots[slot.ID] = slot
	return slot.ID
}

func (m *memStore) slot(id string) model.Slot {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.slots[id]
}

func (m *memStore) activeCount(slotID, userID string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	n := 0
	for _, b := range m.bookings {
		if b.SlotID == slotID && (userID == "" || b.UserID == userID) && b.Status == model.BookingActive {
			n++
		}
	}
	return n
}

type memTx struct {
	store  *memStore
	policy mongotx.RetryPolicy
	serial sync.Mutex

	attempts int
}

func newMemTx(store *memStore, attempts int) *memTx {
	return &memTx{
		store:  store,
		policy: mongotx.RetryPolicy{MaxAttempts: attempts, BackoffBase: time.Microsecond, BackoffMax: 20 * time.Microsecond},
	}
}

func (t *memTx) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return t.policy.Run(ctx, func(ctx context.Context) error {
		t.serial.Lock()
		defer t.serial.Unlock()
		t.attempts++

		slots, bookings := t.store.snapshot()
		if err := fn(ctx); err != nil {
			t.store.restore(slots, bookings)
			return err
		}
		return nil
	})
}

type memSlots memStore

func (r *memSlots) Create(_ context.Context, slot *model.Slot) error {
	slot.ID = (*memStore)(r).addSlot(*slot)
	return nil
}

func (r *memSlots) FindByID(_ context.Context, id string) (*model.Slot, error) {
	if !repository.IsValidID(id) {
		return nil, fmt.Errorf("%w: %s", bookingserrors.ErrInvalidID, id)
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	slot, ok := r.slots[id]
	if !ok {
		return nil, bookingserrors.ErrSlotNotFound
	}
	return &slot, nil
}

func (r *memSlots) FindByIDs(_ context.Context, ids []string) (map[string]*model.Slot, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[string]*model.Slot)
	for _, id := range ids {
		if slot, ok := r.slots[id]; ok {
			out[id] = &slot
		}
	}
	return out, nil
}

func (r *memSlots) FindOpenFrom(_ context.Context, from time.Time) ([]*model.Slot, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*model.Slot, 0)
	for _, slot := range r.slots {
		if slot.Status == model.SlotOpen && !slot.StartAt.Before(from) {
			out = append(out, &slot)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartAt.Before(out[j].StartAt) })
	return out, nil
}

func (r *memSlots) Update(_ context.Context, slot *model.Slot) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	current, ok := r.slots[slot.ID]
	if !ok || current.BookedCount != slot.BookedCount {
		return mongotx.ErrWriteConflict
	}
	r.slots[slot.ID] = *slot
	return nil
}

func (r *memSlots) SetBookedCount(_ context.Context, id string, observed, next int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.setCalls++
	if r.conflicts > 0 {
		r.conflicts--
		return fmt.Errorf("update slot: %w", mongotx.ErrWriteConflict)
	}
	slot, ok := r.slots[id]
	if !ok || slot.BookedCount != observed {
		return mongotx.ErrWriteConflict
	}
	slot.BookedCount = next
	r.slots[id] = slot
	return nil
}

func (r *memSlots) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.slots[id]; !ok {
		return bookingserrors.ErrSlotNotFound
	}
	delete(r.slots, id)
	return nil
}

type memBookings memStore

func (r *memBookings) Create(_ context.Context, booking *model.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, b := range r.bookings {
		if b.SlotID == booking.SlotID && b.UserID == booking.UserID && b.Status == model.BookingActive {
			return bookingserrors.ErrActiveBookingExists
		}
	}
	booking.ID = primitive.NewObjectID().Hex()
	r.bookings[booking.ID] = *booking
	return nil
}

func (r *memBookings) FindByID(_ context.Context, id string) (*model.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	b, ok := r.bookings[id]
	if !ok {
		return nil, bookingserrors.ErrBookingNotFound
	}
	return &b, nil
}

func (r *memBookings) ExistsActive(_ context.Context, slotID, userID string) (bool, error) {
	return (*memStore)(r).activeCount(slotID, userID) > 0, nil
}

func (r *memBookings) MarkCanceled(_ context.Context, id, canceledBy string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bookings[id]
	if !ok || b.Status != model.BookingActive {
		return mongotx.ErrWriteConflict
	}
	b.Status = model.BookingCanceled
	b.CanceledAt = &at
	b.CanceledBy = canceledBy
	r.bookings[id] = b
	return nil
}

func (r *memBookings) filter(keep func(model.Booking) bool) []*model.Booking {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*model.Booking, 0)
	for _, b := range r.bookings {
		if keep(b) {
			out = append(out, &b)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

func (r *memBookings) FindByUser(_ context.Context, userID string) ([]*model.Booking, error) {
	return r.filter(func(b model.Booking) bool { return b.UserID == userID }), nil
}

func (r *memBookings) FindBySlot(_ context.Context, slotID string) ([]*model.Booking, error) {
	return r.filter(func(b model.Booking) bool { return b.SlotID == slotID }), nil
}

func (r *memBookings) FindAll(_ context.Context, limit int, offset int64) ([]*model.Booking, error) {
	all := r.filter(func(model.Booking) bool { return true })
	if offset >= int64(len(all)) {
		return []*model.Booking{}, nil
	}
	end := min(int(offset)+limit, len(all))
	return all[offset:end], nil
}

func (r *memBookings) Count(_ context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.bookings)), nil
}

func (r *memBookings) CountByStatus(_ context.Context, status model.BookingStatus) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var n int64
	for _, b := range r.bookings {
		if b.Status == status {
			n++
		}
	}
	return n, nil
}

func (r *memBookings) CountActiveBySlot(_ context.Context, slotID string) (int64, error) {
	return int64((*memStore)(r).activeCount(slotID, "")), nil
}
