package store

import (
	"errors"
	"time"
)

// ErrNotFound is returned when a looked-up record does not exist.
var ErrNotFound = errors.New("not found")

// Room is a room's metadata record. Live membership is in-memory and
// owned by the chat engine; this is only the durable registration.
type Room struct {
	ID        string // external 6-char code
	Name      string
	CreatedBy string
	CreatedAt time.Time
}

// User is an account record. Password hashes never leave this package.
type User struct {
	ID        string
	Username  string
	Email     string
	CreatedAt time.Time
}
