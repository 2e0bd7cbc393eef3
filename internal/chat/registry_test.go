package chat

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRegistryBindLookup(t *testing.T) {
	r := NewRegistry()
	c := &fakeClient{}

	_, ok := r.Lookup(c)
	require.False(t, ok)

	r.Bind(c, "ABCDEF")
	roomID, ok := r.Lookup(c)
	require.True(t, ok)
	require.Equal(t, "ABCDEF", roomID)
}

func TestRegistryOverwrite(t *testing.T) {
	r := NewRegistry()
	c := &fakeClient{}

	r.Bind(c, "AAAAAA")
	r.Bind(c, "BBBBBB")

	roomID, ok := r.Lookup(c)
	require.True(t, ok)
	require.Equal(t, "BBBBBB", roomID)
}

func TestRegistryUnbindIdempotent(t *testing.T) {
	r := NewRegistry()
	c := &fakeClient{}
	r.Bind(c, "ABCDEF")

	roomID, ok := r.Unbind(c)
	require.True(t, ok)
	require.Equal(t, "ABCDEF", roomID)

	// A connection has at most one binding; a second unbind finds none.
	_, ok = r.Unbind(c)
	require.False(t, ok)
	_, ok = r.Lookup(c)
	require.False(t, ok)
}
