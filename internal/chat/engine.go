package chat

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"realtime-chat/pkg/metrics"
)

// Server -> client events.
const (
	EvtChatHistory    = "chat-history"
	EvtUserJoined     = "user-joined"
	EvtRoomUsers      = "room-users"
	EvtReceiveMessage = "receive-message"
	EvtUserTyping     = "user-typing"
	EvtUserLeft       = "user-left"
)

// MessagePayload is the wire shape of a delivered message, both for
// live broadcast and for history replay.
type MessagePayload struct {
	ID        string    `json:"id"`
	Message   string    `json:"message"`
	UserID    string    `json:"userId"`
	Username  string    `json:"username"`
	Timestamp time.Time `json:"timestamp"`
}

// TypingPayload is the wire shape of a typing-state change.
type TypingPayload struct {
	UserID   string `json:"userId"`
	Username string `json:"username"`
	IsTyping bool   `json:"isTyping"`
}

// Options are the engine's tunables.
type Options struct {
	HistoryLimit  int           // messages replayed to a joiner
	BufferLimit   int           // per-room append count that forces a flush
	TypingTimeout time.Duration // idle window before typing auto-clears
}

// Engine is the presence and delivery state machine. Every inbound
// connection event funnels through it: it keeps the room directory and
// connection registry consistent, broadcasts immediately, and hands
// messages to the buffer without ever blocking delivery on storage.
type Engine struct {
	log   *slog.Logger
	store Store
	dir   *Directory
	reg   *Registry
	buf   *Buffer
	fl    *Flusher
	bus   Bus // may be nil
	opts  Options

	tmu    sync.Mutex
	typing map[Client]*time.Timer
}

func NewEngine(log *slog.Logger, store Store, buf *Buffer, fl *Flusher, bus Bus, opts Options) *Engine {
	return &Engine{
		log:    log,
		store:  store,
		dir:    NewDirectory(),
		reg:    NewRegistry(),
		buf:    buf,
		fl:     fl,
		bus:    bus,
		opts:   opts,
		typing: map[Client]*time.Timer{},
	}
}

// Join moves c into roomID. A client already in another room leaves it
// first, notifications included. The joiner alone gets recent history;
// everyone else learns about the arrival; everyone gets the new list.
func (e *Engine) Join(ctx context.Context, c Client, roomID string, p Participant) {
	if prev, ok := e.reg.Lookup(c); ok && prev != roomID {
		e.leaveRoom(ctx, c, prev)
	}

	created, members := e.dir.Join(roomID, c, p)
	e.reg.Bind(c, roomID)
	if created {
		metrics.ActiveRooms.Inc()
	}

	// History replay is best effort: a store failure degrades the join
	// to an empty history, it never fails the join.
	history, err := e.store.RecentMessages(ctx, roomID, e.opts.HistoryLimit)
	if err != nil {
		e.log.Warn("history.load", "room", roomID, "err", err)
		history = nil
	}
	replay := make([]MessagePayload, 0, len(history))
	for _, m := range history {
		replay = append(replay, payloadFor(m))
	}
	c.Send(EvtChatHistory, replay)

	e.broadcast(ctx, roomID, c, EvtUserJoined, p)
	e.dir.Broadcast(roomID, nil, EvtRoomUsers, members)
	e.log.Info("room.join", "room", roomID, "user", p.UserID, "members", len(members))
}

// Send broadcasts text to c's current room and queues it for
// persistence. A client with no room binding is a no-op.
func (e *Engine) Send(ctx context.Context, c Client, text string) {
	roomID, ok := e.reg.Lookup(c)
	if !ok {
		e.log.Debug("send.unbound")
		return
	}
	p, ok := e.dir.Participant(roomID, c)
	if !ok {
		return
	}

	m := Message{
		ID:        uuid.NewString(),
		RoomID:    roomID,
		UserID:    p.UserID,
		Username:  p.Username,
		Text:      text,
		CreatedAt: time.Now().UTC(),
	}

	// Broadcast first, sender included for a consistent echo. The
	// append and any flush happen after and never delay delivery.
	e.broadcast(ctx, roomID, nil, EvtReceiveMessage, payloadFor(m))
	metrics.MessagesBroadcast.Inc()

	if n := e.buf.Append(roomID, m); n >= e.opts.BufferLimit {
		go e.fl.Flush(ctx, roomID)
	}
}

// Typing relays a typing-state change to the rest of the room. The
// server arms its own idle timer so the indicator clears even when the
// client never sends the false signal.
func (e *Engine) Typing(ctx context.Context, c Client, isTyping bool) {
	roomID, ok := e.reg.Lookup(c)
	if !ok {
		return
	}
	p, ok := e.dir.Participant(roomID, c)
	if !ok {
		return
	}
	e.broadcast(ctx, roomID, c, EvtUserTyping, TypingPayload{UserID: p.UserID, Username: p.Username, IsTyping: isTyping})

	e.tmu.Lock()
	if t := e.typing[c]; t != nil {
		t.Stop()
		delete(e.typing, c)
	}
	if isTyping {
		e.typing[c] = time.AfterFunc(e.opts.TypingTimeout, func() { e.typingExpired(c) })
	}
	e.tmu.Unlock()
}

func (e *Engine) typingExpired(c Client) {
	e.tmu.Lock()
	delete(e.typing, c)
	e.tmu.Unlock()

	roomID, ok := e.reg.Lookup(c)
	if !ok {
		return
	}
	p, ok := e.dir.Participant(roomID, c)
	if !ok {
		return
	}
	e.broadcast(context.Background(), roomID, c, EvtUserTyping, TypingPayload{UserID: p.UserID, Username: p.Username, IsTyping: false})
}

// Leave removes c from its current room. Leaving twice, or leaving
// then disconnecting, is absorbed without a second notification.
func (e *Engine) Leave(ctx context.Context, c Client) {
	if roomID, ok := e.reg.Lookup(c); ok {
		e.leaveRoom(ctx, c, roomID)
	}
}

// Disconnect is the transport-level leave, discovered via the registry
// rather than a payload. Idempotent with an explicit leave.
func (e *Engine) Disconnect(ctx context.Context, c Client) {
	e.Leave(ctx, c)
}

func (e *Engine) leaveRoom(ctx context.Context, c Client, roomID string) {
	e.reg.Unbind(c)
	e.stopTyping(c)

	p, ok, empty := e.dir.Leave(roomID, c)
	if !ok {
		return
	}
	if empty {
		metrics.ActiveRooms.Dec()
		// Last one out: drain anything still buffered before the
		// room's in-memory state is gone.
		_ = e.fl.Flush(ctx, roomID)
		e.log.Info("room.teardown", "room", roomID)
		return
	}
	e.broadcast(ctx, roomID, nil, EvtUserLeft, p)
	e.dir.Broadcast(roomID, nil, EvtRoomUsers, e.dir.Participants(roomID))
	e.log.Info("room.leave", "room", roomID, "user", p.UserID)
}

func (e *Engine) stopTyping(c Client) {
	e.tmu.Lock()
	if t := e.typing[c]; t != nil {
		t.Stop()
		delete(e.typing, c)
	}
	e.tmu.Unlock()
}

// broadcast fans out locally and, for room-wide frames, to peer
// instances over the bus. The participant list is instance-local and
// never crosses the bus.
func (e *Engine) broadcast(ctx context.Context, roomID string, except Client, event string, data any) {
	e.dir.Broadcast(roomID, except, event, data)
	if e.bus != nil {
		e.bus.Publish(ctx, roomID, event, data)
	}
}

// Deliver injects a frame received from a peer instance into the local
// copy of the room.
func (e *Engine) Deliver(roomID, event string, data any) {
	e.dir.Broadcast(roomID, nil, event, data)
}

// Rooms reports the number of active rooms, for health output.
func (e *Engine) Rooms() int { return e.dir.Len() }

func payloadFor(m Message) MessagePayload {
	return MessagePayload{
		ID:        m.ID,
		Message:   m.Text,
		UserID:    m.UserID,
		Username:  m.Username,
		Timestamp: m.CreatedAt,
	}
}
