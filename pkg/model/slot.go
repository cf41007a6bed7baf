package model

import "time"

type SlotStatus string

const (
	SlotOpen   SlotStatus = "open"
	SlotClosed SlotStatus = "closed"
)

const MaxSlotCapacity = 200

// Slot is a bookable time window. BookedCount mirrors the number of active
// bookings and is only changed by reserve and cancel transactions.
type Slot struct {
	ID          string     `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	Title       string     `json:"title,omitempty" bson:"title,omitempty" validate:"omitempty,max=120"`
	StartAt     time.Time  `json:"start_at" bson:"start_at" validate:"required"`
	EndAt       time.Time  `json:"end_at" bson:"end_at" validate:"required,gtfield=StartAt"`
	Capacity    int        `json:"capacity" bson:"capacity" validate:"required,min=1,max=200"`
	BookedCount int        `json:"booked_count" bson:"booked_count" validate:"min=0,ltefield=Capacity"`
	Status      SlotStatus `json:"status" bson:"status" validate:"required,oneof=open closed"`
	Location    string     `json:"location" bson:"location" validate:"required,max=200"`
	CreatedAt   time.Time  `json:"created_at" bson:"created_at"`
	CreatedBy   string     `json:"created_by,omitempty" bson:"created_by,omitempty"`
	UpdatedAt   time.Time  `json:"updated_at,omitempty" bson:"updated_at,omitempty"`
	UpdatedBy   string     `json:"updated_by,omitempty" bson:"updated_by,omitempty"`
}

func (s *Slot) IsOpen() bool {
	return s.Status == SlotOpen
}

func (s *Slot) IsFull() bool {
	return s.BookedCount >= s.Capacity
}

// Available returns the number of seats left, never negative.
func (s *Slot) Available() int {
	return max(s.Capacity-s.BookedCount, 0)
}

// SlotUpdate is a partial update; nil fields are left unchanged.
type SlotUpdate struct {
	Title    *string     `json:"title,omitempty" validate:"omitempty,max=120"`
	StartAt  *time.Time  `json:"start_at,omitempty"`
	EndAt    *time.Time  `json:"end_at,omitempty"`
	Capacity *int        `json:"capacity,omitempty" validate:"omitempty,min=1,max=200"`
	Status   *SlotStatus `json:"status,omitempty" validate:"omitempty,oneof=open closed"`
	Location *string     `json:"location,omitempty" validate:"omitempty,min=1,max=200"`
}

func (u *SlotUpdate) IsEmpty() bool {
	return u.Title == nil && u.StartAt == nil && u.EndAt == nil &&
		u.Capacity == nil && u.Status == nil && u.Location == nil
}

// Apply copies the set fields onto slot.
func (u *SlotUpdate) Apply(slot *Slot) {
	if u.Title != nil {
		slot.Title = *u.Title
	}
	if u.StartAt != nil {
		slot.StartAt = *u.StartAt
	}
	if u.EndAt != nil {
		slot.EndAt = *u.EndAt
	}
	if u.Capacity != nil {
		slot.Capacity = *u.Capacity
	}
	if u.Status != nil {
		slot.Status = *u.Status
	}
	if u.Location != nil {
		slot.Location = *u.Location
	}
}
