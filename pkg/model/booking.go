package model

import (
	"time"
)

// Booking statuses. Cancelled and completed bookings no longer occupy the
// item's timeline; every other status blocks overlapping admissions.
const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusPaid      = "paid"
	StatusActive    = "active"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
	StatusRefunded  = "refunded"
)

// NonBlockingStatuses are the terminal statuses excluded from conflict checks.
var NonBlockingStatuses = []string{StatusCancelled, StatusCompleted}

// StatusBlocks reports whether a booking in the given status occupies the
// item's timeline for conflict purposes.
func StatusBlocks(status string) bool {
	return status != StatusCancelled && status != StatusCompleted
}

type Booking struct {
	ID         string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,uuid4"`
	UserID     string    `json:"user_id" bson:"user_id" validate:"required,uuid4"`
	ItemID     string    `json:"item_id" bson:"item_id" validate:"required,uuid4"`
	StartDate  time.Time `json:"start_date" bson:"start_date" validate:"required"`
	EndDate    time.Time `json:"end_date" bson:"end_date" validate:"required"`
	TotalPrice float64   `json:"total_price" bson:"total_price" validate:"gte=0"`
	Status     string    `json:"status" bson:"status" validate:"required,oneof=pending confirmed paid active completed cancelled refunded"`
	Notes      string    `json:"notes,omitempty" bson:"notes,omitempty" validate:"omitempty,max=2000"`
	CreatedAt  time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt  time.Time `json:"updated_at" bson:"updated_at"`
}

// BookingRequest is the caller-supplied input to admission. TotalPrice and
// Status are never accepted from the caller; the engine derives them.
type BookingRequest struct {
	UserID    string    `json:"user_id" validate:"required,uuid4"`
	ItemID    string    `json:"item_id" validate:"required,uuid4"`
	StartDate time.Time `json:"start_date" validate:"required"`
	EndDate   time.Time `json:"end_date" validate:"required"`
	Notes     string    `json:"notes,omitempty" validate:"omitempty,max=2000"`
}
