package model

import "time"

// BookingLock is an advisory lock document serialising availability
// check-then-write sequences for one room type across service instances.
type BookingLock struct {
	ID        string    `bson:"_id" json:"id"`
	Owner     string    `bson:"owner" json:"owner"`
	ExpiresAt time.Time `bson:"expires_at" json:"expires_at"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}

func (l *BookingLock) IsExpired(now time.Time) bool {
	return !now.Before(l.ExpiresAt)
}
