package ws

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFrameDecode(t *testing.T) {
	raw := []byte(`{"event":"join-room","data":{"roomId":"ABCDEF","userId":"u1","username":"Alice"}}`)

	var f frame
	require.NoError(t, json.Unmarshal(raw, &f))
	require.Equal(t, evtJoinRoom, f.Event)

	var p joinPayload
	require.NoError(t, json.Unmarshal(f.Data, &p))
	require.Equal(t, joinPayload{RoomID: "ABCDEF", UserID: "u1", Username: "Alice"}, p)
}

func TestOutFrameEncode(t *testing.T) {
	b, err := json.Marshal(outFrame{Event: "user-typing", Data: map[string]any{"isTyping": true}})
	require.NoError(t, err)
	require.JSONEq(t, `{"event":"user-typing","data":{"isTyping":true}}`, string(b))
}

func TestOutFrameRelaysRawBusData(t *testing.T) {
	// Frames from the bus arrive pre-marshaled; they must pass through
	// byte for byte, not get re-encoded as base64.
	bm := BusMessage{
		Origin: "peer",
		RoomID: "ABCDEF",
		Event:  "receive-message",
		Data:   json.RawMessage(`{"message":"hello"}`),
	}
	b, err := json.Marshal(outFrame{Event: bm.Event, Data: bm.Data})
	require.NoError(t, err)
	require.JSONEq(t, `{"event":"receive-message","data":{"message":"hello"}}`, string(b))
}
