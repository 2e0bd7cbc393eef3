package chat

import "sync"

// Registry maps a live client to the single room it currently occupies.
// One binding per client; rebinding overwrites.
type Registry struct {
	mu    sync.Mutex
	rooms map[Client]string
}

func NewRegistry() *Registry {
	return &Registry{rooms: map[Client]string{}}
}

// Bind records or overwrites the room for c.
func (r *Registry) Bind(c Client, roomID string) {
	r.mu.Lock()
	r.rooms[c] = roomID
	r.mu.Unlock()
}

// Unbind removes and returns the prior binding. Safe to call on an
// already-unbound client.
func (r *Registry) Unbind(c Client) (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	roomID, ok := r.rooms[c]
	if ok {
		delete(r.rooms, c)
	}
	return roomID, ok
}

// Lookup returns the room c is bound to, if any.
func (r *Registry) Lookup(c Client) (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	roomID, ok := r.rooms[c]
	return roomID, ok
}
