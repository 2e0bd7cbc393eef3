package ws

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"realtime-chat/internal/app"
)

// BusMessage is one broadcast frame crossing instances. Origin tags the
// publishing instance so subscribers can ignore their own echoes.
type BusMessage struct {
	Origin string          `json:"origin"`
	RoomID string          `json:"roomId"`
	Event  string          `json:"event"`
	Data   json.RawMessage `json:"data"`
}

// RedisBus replicates room broadcasts across server instances via
// redis pub/sub. Implements chat.Bus.
type RedisBus struct {
	rdb    *redis.Client
	log    *slog.Logger
	origin string
}

// NewRedisBus connects to redis and verifies connectivity
func NewRedisBus(ctx context.Context, cfg app.Config, log *slog.Logger) (*RedisBus, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr: cfg.RedisAddr,
		DB:   cfg.RedisDB,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, err
	}
	return &RedisBus{rdb: rdb, log: log, origin: uuid.NewString()}, nil
}

// Publish sends a broadcast frame to the room's channel.
func (b *RedisBus) Publish(ctx context.Context, roomID, event string, data any) {
	raw, err := json.Marshal(data)
	if err != nil {
		return
	}
	m := BusMessage{Origin: b.origin, RoomID: roomID, Event: event, Data: raw}
	buf, _ := json.Marshal(m)
	if err := b.rdb.Publish(ctx, channel(roomID), buf).Err(); err != nil {
		b.log.Warn("bus.publish", "room", roomID, "err", err)
	}
}

// Subscribe listens to all room channels and invokes fn for every
// frame published by another instance.
func (b *RedisBus) Subscribe(ctx context.Context, fn func(BusMessage)) {
	pubsub := b.rdb.PSubscribe(ctx, channel("*"))
	ch := pubsub.Channel()

	for {
		select {
		case <-ctx.Done():
			_ = pubsub.Close()
			return
		case msg := <-ch:
			var bm BusMessage
			if err := json.Unmarshal([]byte(msg.Payload), &bm); err != nil {
				continue
			}
			if bm.RoomID == "" || bm.Origin == b.origin {
				continue
			}
			fn(bm)
		}
	}
}

// Close shuts down the redis connection
func (b *RedisBus) Close() { _ = b.rdb.Close() }

// channel namespacing for room pub/sub
func channel(roomID string) string { return "room:" + roomID }
