package model

import "time"

// Item is the bookable resource. The bookings service treats items as a
// read-only directory record; item master data is owned elsewhere.
type Item struct {
	ID              string    `json:"id" bson:"_id" validate:"required,uuid4"`
	Name            string    `json:"name" bson:"name" validate:"required,max=255"`
	Description     string    `json:"description,omitempty" bson:"description,omitempty"`
	Category        string    `json:"category,omitempty" bson:"category,omitempty" validate:"omitempty,max=100"`
	PricePerDay     float64   `json:"price_per_day" bson:"price_per_day" validate:"required,gt=0"`
	MaxDurationDays int       `json:"max_duration_days" bson:"max_duration_days" validate:"required,min=1"`
	IsAvailable     bool      `json:"is_available" bson:"is_available"`
	Location        string    `json:"location,omitempty" bson:"location,omitempty" validate:"omitempty,max=255"`
	CreatedAt       time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt       time.Time `json:"updated_at" bson:"updated_at"`
}
