package chat

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"time"
)

// fakeClient records every frame it is sent.
type fakeClient struct {
	mu     sync.Mutex
	events []recordedEvent
}

type recordedEvent struct {
	name string
	data any
}

func (f *fakeClient) Send(name string, data any) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, recordedEvent{name: name, data: data})
}

func (f *fakeClient) names() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, 0, len(f.events))
	for _, e := range f.events {
		out = append(out, e.name)
	}
	return out
}

func (f *fakeClient) byName(name string) []any {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []any
	for _, e := range f.events {
		if e.name == name {
			out = append(out, e.data)
		}
	}
	return out
}

func (f *fakeClient) count(name string) int { return len(f.byName(name)) }

func (f *fakeClient) reset() {
	f.mu.Lock()
	f.events = nil
	f.mu.Unlock()
}

// fakeStore is an in-memory Store. A non-nil block channel makes
// InsertMessages wait, to hold a flush in flight from a test.
type fakeStore struct {
	mu         sync.Mutex
	batches    [][]Message
	history    []Message
	insertErr  error
	historyErr error

	block   chan struct{} // close to release blocked inserts
	entered chan struct{} // signalled when an insert starts
}

func (s *fakeStore) InsertMessages(_ context.Context, msgs []Message) error {
	if s.entered != nil {
		select {
		case s.entered <- struct{}{}:
		default:
		}
	}
	if s.block != nil {
		<-s.block
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.insertErr != nil {
		return s.insertErr
	}
	cp := make([]Message, len(msgs))
	copy(cp, msgs)
	s.batches = append(s.batches, cp)
	return nil
}

func (s *fakeStore) RecentMessages(_ context.Context, _ string, _ int) ([]Message, error) {
	if s.historyErr != nil {
		return nil, s.historyErr
	}
	return s.history, nil
}

func (s *fakeStore) batchCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.batches)
}

func (s *fakeStore) inserted() []Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []Message
	for _, b := range s.batches {
		out = append(out, b...)
	}
	return out
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newTestEngine wires an engine whose periodic sweep never fires, so
// tests control flushing explicitly or via the size threshold.
func newTestEngine(s Store, opts Options) *Engine {
	log := discardLogger()
	buf := NewBuffer()
	fl := NewFlusher(log, s, buf, time.Hour, time.Second)
	return NewEngine(log, s, buf, fl, nil, opts)
}

func testOptions() Options {
	return Options{HistoryLimit: 100, BufferLimit: 20, TypingTimeout: 25 * time.Millisecond}
}
