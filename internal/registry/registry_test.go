package registry

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddAndGet(t *testing.T) {
	r := New()
	r.Add("10.0.0.1:4242", "")

	s, ok := r.Get("10.0.0.1:4242")
	require.True(t, ok)
	assert.Equal(t, "10.0.0.1:4242", s.Addr)
	assert.Empty(t, s.Content)
	assert.False(t, s.LastSeen.IsZero())
	assert.Equal(t, 1, r.Len())
}

func TestAdd_ReplacesContentKeepsIdentity(t *testing.T) {
	r := New()
	r.Add("10.0.0.1:4242", "first")
	before, _ := r.Get("10.0.0.1:4242")

	time.Sleep(5 * time.Millisecond)
	r.Add("10.0.0.1:4242", "second")

	after, ok := r.Get("10.0.0.1:4242")
	require.True(t, ok)
	assert.Equal(t, 1, r.Len(), "re-add must not duplicate")
	assert.Equal(t, "second", after.Content)
	assert.Equal(t, before.ConnectedAt, after.ConnectedAt, "logical session identity survives re-add")
	assert.True(t, after.LastSeen.After(before.LastSeen) || after.LastSeen.Equal(before.LastSeen))
}

func TestUpdate_IsAddWithNewContent(t *testing.T) {
	r := New()
	r.Update("10.0.0.1:4242", "hello")

	s, ok := r.Get("10.0.0.1:4242")
	require.True(t, ok)
	assert.Equal(t, "hello", s.Content)
}

func TestRemove(t *testing.T) {
	r := New()
	r.Add("10.0.0.1:4242", "")
	r.Remove("10.0.0.1:4242")

	_, ok := r.Get("10.0.0.1:4242")
	assert.False(t, ok)
	assert.Equal(t, 0, r.Len())

	// Removing an absent address is a no-op.
	r.Remove("10.0.0.9:9999")
	assert.Equal(t, 0, r.Len())
}

func TestClear(t *testing.T) {
	r := New()
	r.Add("10.0.0.1:1", "a")
	r.Add("10.0.0.2:2", "b")
	r.Clear()
	assert.Equal(t, 0, r.Len())
}

func TestSnapshot_SortedByAddr(t *testing.T) {
	r := New()
	r.Add("10.0.0.2:2", "b")
	r.Add("10.0.0.1:1", "a")

	snap := r.Snapshot()
	require.Len(t, snap, 2)
	assert.Equal(t, "10.0.0.1:1", snap[0].Addr)
	assert.Equal(t, "10.0.0.2:2", snap[1].Addr)
}

func TestConcurrentMutation(t *testing.T) {
	r := New()
	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			addr := fmt.Sprintf("10.0.0.%d:4242", i)
			for j := 0; j < 100; j++ {
				r.Add(addr, "x")
				r.Update(addr, "y")
				r.Snapshot()
				r.Remove(addr)
			}
		}(i)
	}
	wg.Wait()
	assert.Equal(t, 0, r.Len())
}
