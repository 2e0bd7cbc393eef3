package chat

import "sync"

// Directory is the in-memory map of active rooms and who is in them.
// A room exists here iff at least one client is joined to it: the entry
// is created on first join and removed in the same critical section
// that drops the last participant, so an empty room is never visible.
type Directory struct {
	mu    sync.RWMutex
	rooms map[string]map[Client]Participant
}

func NewDirectory() *Directory {
	return &Directory{rooms: map[string]map[Client]Participant{}}
}

// Join adds c to roomID, creating the room on first join, and returns
// whether the room is new plus a snapshot of everyone now in it.
// Joining again on the same connection overwrites the participant.
func (d *Directory) Join(roomID string, c Client, p Participant) (created bool, members []Participant) {
	d.mu.Lock()
	defer d.mu.Unlock()
	room := d.rooms[roomID]
	if room == nil {
		room = map[Client]Participant{}
		d.rooms[roomID] = room
		created = true
	}
	room[c] = p
	members = make([]Participant, 0, len(room))
	for _, m := range room {
		members = append(members, m)
	}
	return created, members
}

// Leave removes c from roomID. When the last participant goes, the
// room entry goes with it atomically and empty reports true.
func (d *Directory) Leave(roomID string, c Client) (p Participant, ok bool, empty bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	room := d.rooms[roomID]
	if room == nil {
		return Participant{}, false, false
	}
	p, ok = room[c]
	if !ok {
		return Participant{}, false, false
	}
	delete(room, c)
	if len(room) == 0 {
		delete(d.rooms, roomID)
		return p, true, true
	}
	return p, true, false
}

// Participant returns c's record in roomID, if joined.
func (d *Directory) Participant(roomID string, c Client) (Participant, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	p, ok := d.rooms[roomID][c]
	return p, ok
}

// Participants returns a snapshot of everyone in roomID.
func (d *Directory) Participants(roomID string) []Participant {
	d.mu.RLock()
	defer d.mu.RUnlock()
	room := d.rooms[roomID]
	out := make([]Participant, 0, len(room))
	for _, p := range room {
		out = append(out, p)
	}
	return out
}

// Broadcast fans event out to every client in roomID except the one
// given (nil means everyone). Sends are non-blocking by the Client
// contract, so a slow consumer never stalls the room.
func (d *Directory) Broadcast(roomID string, except Client, event string, data any) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	for c := range d.rooms[roomID] {
		if c == except {
			continue
		}
		c.Send(event, data)
	}
}

// Len reports the number of active rooms.
func (d *Directory) Len() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.rooms)
}
