package chat

import (
	"context"
	"time"
)

// Participant identifies a user inside a room. Two browser tabs with the
// same account produce two participants on distinct connections; this
// layer does not deduplicate them.
type Participant struct {
	UserID   string `json:"userId"`
	Username string `json:"username"`
}

// Message is a chat message held in memory until a flush persists it.
// CreatedAt is assigned at send time and survives any flush delay.
type Message struct {
	ID        string
	RoomID    string
	UserID    string
	Username  string
	Text      string
	CreatedAt time.Time
}

// Client is one connected transport endpoint. Send must never block:
// implementations enqueue the frame and drop it if the peer is too slow.
type Client interface {
	Send(event string, data any)
}

// Store is the durable message store the engine writes batches to and
// reads history from.
type Store interface {
	InsertMessages(ctx context.Context, msgs []Message) error
	RecentMessages(ctx context.Context, roomID string, limit int) ([]Message, error)
}

// Bus replicates broadcast frames to peer server instances. Membership
// stays instance-local; only room-wide frames travel.
type Bus interface {
	Publish(ctx context.Context, roomID, event string, data any)
}
