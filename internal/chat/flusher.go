package chat

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"realtime-chat/pkg/metrics"
)

// Flusher drains message buffers into the durable store. A periodic
// sweep covers every non-empty room; size-triggered flushes from the
// engine call the same single-flight Flush, so two triggers for one
// room can never turn into two overlapping durable writes.
type Flusher struct {
	log      *slog.Logger
	store    Store
	buf      *Buffer
	interval time.Duration
	timeout  time.Duration

	mu       sync.Mutex
	inflight map[string]struct{}
}

func NewFlusher(log *slog.Logger, store Store, buf *Buffer, interval, timeout time.Duration) *Flusher {
	return &Flusher{
		log:      log,
		store:    store,
		buf:      buf,
		interval: interval,
		timeout:  timeout,
		inflight: map[string]struct{}{},
	}
}

// Run sweeps all buffered rooms on a fixed interval until ctx is done.
// Rooms flush concurrently with each other, never with themselves.
func (f *Flusher) Run(ctx context.Context) {
	t := time.NewTicker(f.interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			for _, roomID := range f.buf.Rooms() {
				go f.Flush(ctx, roomID)
			}
		}
	}
}

// Flush claims roomID's buffered batch and writes it in one call. If a
// flush for the room is already in flight the call is a no-op and the
// messages wait for the next trigger. A failed write is logged and the
// batch dropped; the write is bounded by the configured timeout and is
// not cancelled by the caller's ctx, so a disconnect mid-flush still
// completes the claimed batch.
func (f *Flusher) Flush(ctx context.Context, roomID string) error {
	f.mu.Lock()
	if _, busy := f.inflight[roomID]; busy {
		f.mu.Unlock()
		return nil
	}
	f.inflight[roomID] = struct{}{}
	f.mu.Unlock()
	defer func() {
		f.mu.Lock()
		delete(f.inflight, roomID)
		f.mu.Unlock()
	}()

	batch := f.buf.Take(roomID)
	if len(batch) == 0 {
		return nil
	}

	wctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), f.timeout)
	defer cancel()
	if err := f.store.InsertMessages(wctx, batch); err != nil {
		metrics.FlushFailures.Inc()
		f.log.Error("flush.failed", "room", roomID, "dropped", len(batch), "err", err)
		return err
	}
	metrics.MessagesPersisted.Add(float64(len(batch)))
	f.log.Debug("flush.ok", "room", roomID, "count", len(batch))
	return nil
}

// FlushAll synchronously drains every buffered room, used on shutdown.
func (f *Flusher) FlushAll(ctx context.Context) {
	for _, roomID := range f.buf.Rooms() {
		_ = f.Flush(ctx, roomID)
	}
}
