package ws

import "encoding/json"

// Client -> server events. Server -> client events live in the chat
// package next to the code that emits them.
const (
	evtJoinRoom    = "join-room"
	evtSendMessage = "send-message"
	evtTyping      = "typing"
	evtLeaveRoom   = "leave-room"
)

// frame is the JSON envelope for every event on the socket, in both
// directions: {"event": "...", "data": {...}}.
type frame struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

type outFrame struct {
	Event string `json:"event"`
	Data  any    `json:"data"`
}

type joinPayload struct {
	RoomID   string `json:"roomId"`
	UserID   string `json:"userId"`
	Username string `json:"username"`
}

type sendPayload struct {
	RoomID   string `json:"roomId"`
	Message  string `json:"message"`
	UserID   string `json:"userId"`
	Username string `json:"username"`
}

type typingPayload struct {
	RoomID   string `json:"roomId"`
	UserID   string `json:"userId"`
	Username string `json:"username"`
	IsTyping bool   `json:"isTyping"`
}
