package ws

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"realtime-chat/internal/chat"
	"realtime-chat/pkg/metrics"
)

// Hub owns the websocket endpoint: it upgrades connections, decodes
// inbound frames, and dispatches them to the chat engine. It also
// forwards bus traffic from peer instances into local rooms.
type Hub struct {
	log    *slog.Logger
	engine *chat.Engine
	bus    *RedisBus
}

func NewHub(logger *slog.Logger, engine *chat.Engine, bus *RedisBus) *Hub {
	return &Hub{log: logger, engine: engine, bus: bus}
}

// Run listens to the redis bus and delivers peer broadcasts to local
// room members until ctx is done.
func (h *Hub) Run(ctx context.Context) {
	if h.bus == nil {
		<-ctx.Done()
		return
	}
	go h.bus.Subscribe(ctx, func(m BusMessage) {
		h.engine.Deliver(m.RoomID, m.Event, m.Data)
	})
	<-ctx.Done()
}

// ServeWS handles a new /ws connection for its whole lifetime: read
// loop here, write loop in a goroutine, disconnect semantics on exit.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	sock, err := Accept(w, r)
	if err != nil {
		h.log.Error("ws.accept", "err", err)
		return
	}
	c := NewConn(sock)
	metrics.ConnectedClients.Inc()
	defer metrics.ConnectedClients.Dec()

	go c.WriteLoop(ctx)

	for {
		raw, ok := c.Read(ctx)
		if !ok {
			break
		}
		var f frame
		if err := json.Unmarshal(raw, &f); err != nil {
			h.log.Debug("ws.bad_frame", "err", err)
			continue
		}
		h.dispatch(ctx, c, f)
	}

	// Transport-level disconnect is a leave discovered via the
	// registry. The request ctx is ending; teardown work (final
	// flush included) must not be cancelled with it.
	h.engine.Disconnect(context.WithoutCancel(ctx), c)
	_ = c.Close()
}

func (h *Hub) dispatch(ctx context.Context, c *Conn, f frame) {
	switch f.Event {
	case evtJoinRoom:
		var p joinPayload
		if err := json.Unmarshal(f.Data, &p); err != nil || p.RoomID == "" {
			h.log.Debug("ws.bad_join")
			return
		}
		h.engine.Join(ctx, c, p.RoomID, chat.Participant{UserID: p.UserID, Username: p.Username})
	case evtSendMessage:
		var p sendPayload
		if err := json.Unmarshal(f.Data, &p); err != nil || p.Message == "" {
			return
		}
		h.engine.Send(ctx, c, p.Message)
	case evtTyping:
		var p typingPayload
		if err := json.Unmarshal(f.Data, &p); err != nil {
			return
		}
		h.engine.Typing(ctx, c, p.IsTyping)
	case evtLeaveRoom:
		h.engine.Leave(ctx, c)
	default:
		h.log.Debug("ws.unknown_event", "event", f.Event)
	}
}
