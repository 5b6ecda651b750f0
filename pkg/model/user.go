package model

import "time"

// User is the booking requester. Only the identity matters to admission;
// the record is a local replica of the user service's master data.
type User struct {
	ID        string    `json:"id" bson:"_id" validate:"required,uuid4"`
	Name      string    `json:"name" bson:"name" validate:"required,max=255"`
	Email     string    `json:"email" bson:"email" validate:"required,email"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
}
