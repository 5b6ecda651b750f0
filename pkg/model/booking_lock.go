package model

import "time"

// BookingLock is an advisory lock serializing admissions per item. The _id is
// derived from the item identifier so a concurrent insert for the same item
// fails with a duplicate key error. ExpiresAt backs a TTL index so a crashed
// holder cannot wedge the item.
type BookingLock struct {
	ID        string    `bson:"_id" json:"id"`
	ItemID    string    `bson:"item_id" json:"item_id"`
	ExpiresAt time.Time `bson:"expires_at" json:"expires_at"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}
