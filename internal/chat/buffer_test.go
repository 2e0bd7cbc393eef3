package chat

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBufferAppendTake(t *testing.T) {
	b := NewBuffer()

	require.Equal(t, 1, b.Append("ABCDEF", Message{Text: "one"}))
	require.Equal(t, 2, b.Append("ABCDEF", Message{Text: "two"}))
	require.Equal(t, 2, b.Len("ABCDEF"))

	batch := b.Take("ABCDEF")
	require.Len(t, batch, 2)
	require.Equal(t, "one", batch[0].Text)
	require.Equal(t, "two", batch[1].Text)
	require.Zero(t, b.Len("ABCDEF"))

	require.Nil(t, b.Take("ABCDEF"))
}

func TestBufferRooms(t *testing.T) {
	b := NewBuffer()
	b.Append("A", Message{})
	b.Append("B", Message{})

	require.ElementsMatch(t, []string{"A", "B"}, b.Rooms())

	b.Take("A")
	require.Equal(t, []string{"B"}, b.Rooms())
}

func TestBufferNoLossUnderConcurrentTake(t *testing.T) {
	// Appends racing swaps must land either in a taken batch or in the
	// live buffer, never nowhere.
	b := NewBuffer()
	const n = 1000

	var taken []Message
	var mu sync.Mutex
	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 200; i++ {
			batch := b.Take("ABCDEF")
			mu.Lock()
			taken = append(taken, batch...)
			mu.Unlock()
		}
	}()

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			b.Append("ABCDEF", Message{ID: fmt.Sprintf("m%d", i)})
		}(i)
	}
	wg.Wait()
	<-done

	mu.Lock()
	total := len(taken) + b.Len("ABCDEF")
	seen := map[string]bool{}
	for _, m := range taken {
		require.False(t, seen[m.ID], "message %s taken twice", m.ID)
		seen[m.ID] = true
	}
	mu.Unlock()
	require.Equal(t, n, total)
}
