package chat

import "sync"

// Buffer holds per-room queues of messages that have been broadcast but
// not yet persisted. Appends are in-memory only and never touch I/O.
type Buffer struct {
	mu      sync.Mutex
	pending map[string][]Message
}

func NewBuffer() *Buffer {
	return &Buffer{pending: map[string][]Message{}}
}

// Append queues m for roomID and reports the new queue length.
func (b *Buffer) Append(roomID string, m Message) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.pending[roomID] = append(b.pending[roomID], m)
	return len(b.pending[roomID])
}

// Take swaps out and returns roomID's queue. The swap happens under the
// lock but the returned batch is owned by the caller, so an append
// racing a flush lands in a fresh queue and is untouched by the
// in-flight write. The lock is never held across I/O.
func (b *Buffer) Take(roomID string) []Message {
	b.mu.Lock()
	defer b.mu.Unlock()
	batch := b.pending[roomID]
	if batch != nil {
		delete(b.pending, roomID)
	}
	return batch
}

// Len reports how many messages are queued for roomID.
func (b *Buffer) Len(roomID string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.pending[roomID])
}

// Rooms lists the rooms with at least one queued message.
func (b *Buffer) Rooms() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]string, 0, len(b.pending))
	for id := range b.pending {
		out = append(out, id)
	}
	return out
}
