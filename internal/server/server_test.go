package server

import (
	"context"
	"errors"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clipwire/clipshare/internal/event"
	"github.com/clipwire/clipshare/internal/frame"
	"github.com/clipwire/clipshare/internal/registry"
)

// fakeClip records writes; an optional gate makes Write block so a test
// can observe handlers mid-flight.
type fakeClip struct {
	mu       sync.Mutex
	written  []string
	gate     chan struct{}
	writeErr error
}

func (f *fakeClip) Name() string          { return "fake" }
func (f *fakeClip) Read() (string, error) { return "", nil }

func (f *fakeClip) Write(text string) error {
	if f.gate != nil {
		<-f.gate
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.writeErr != nil {
		return f.writeErr
	}
	f.written = append(f.written, text)
	return nil
}

func (f *fakeClip) all() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.written...)
}

type fixture struct {
	addr   string
	events <-chan event.Event
	reg    *registry.Registry
	clip   *fakeClip
}

func startServer(t *testing.T, consume bool, fc *fakeClip) *fixture {
	t.Helper()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	reg := registry.New()
	relay := event.NewRelay()
	events := relay.Subscribe(64)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	srv := New(reg, relay, fc, consume)
	go func() { _ = srv.Serve(ctx, ln) }()

	e := waitEvent(t, events)
	require.Equal(t, event.ServerStarted, e.Kind)

	return &fixture{addr: ln.Addr().String(), events: events, reg: reg, clip: fc}
}

func waitEvent(t *testing.T, ch <-chan event.Event) event.Event {
	t.Helper()
	select {
	case e := <-ch:
		return e
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for event")
		return event.Event{}
	}
}

func push(t *testing.T, addr, text string) {
	t.Helper()
	conn, err := net.Dial("tcp", addr)
	require.NoError(t, err)
	defer conn.Close()
	require.NoError(t, frame.Write(conn, text))
}

func TestServe_ReceiveUpdatesClipboardAndRegistry(t *testing.T) {
	fx := startServer(t, true, &fakeClip{})

	push(t, fx.addr, "hello")

	added := waitEvent(t, fx.events)
	require.Equal(t, event.ClientAdded, added.Kind)

	updated := waitEvent(t, fx.events)
	require.Equal(t, event.ClientUpdated, updated.Kind)
	assert.Equal(t, added.Peer, updated.Peer)
	assert.Equal(t, "hello", updated.Content)

	received := waitEvent(t, fx.events)
	require.Equal(t, event.Received, received.Kind)
	assert.Equal(t, 5, received.Size)

	removed := waitEvent(t, fx.events)
	require.Equal(t, event.ClientRemoved, removed.Kind)
	assert.Equal(t, added.Peer, removed.Peer)

	assert.Equal(t, []string{"hello"}, fx.clip.all())
	assert.Equal(t, 0, fx.reg.Len(), "registry empty after disconnect")
}

func TestServe_ConsumeDisabledLeavesClipboardUntouched(t *testing.T) {
	fx := startServer(t, false, &fakeClip{})

	push(t, fx.addr, "hello")

	require.Equal(t, event.ClientAdded, waitEvent(t, fx.events).Kind)
	updated := waitEvent(t, fx.events)
	require.Equal(t, event.ClientUpdated, updated.Kind)
	assert.Equal(t, "hello", updated.Content)
	require.Equal(t, event.Received, waitEvent(t, fx.events).Kind)
	require.Equal(t, event.ClientRemoved, waitEvent(t, fx.events).Kind)

	assert.Empty(t, fx.clip.all(), "consume disabled must not write the clipboard")
}

func TestServe_HeaderlessConnectIsAddedThenRemoved(t *testing.T) {
	fx := startServer(t, true, &fakeClip{})

	conn, err := net.Dial("tcp", fx.addr)
	require.NoError(t, err)
	require.NoError(t, conn.Close())

	require.Equal(t, event.ClientAdded, waitEvent(t, fx.events).Kind)
	require.Equal(t, event.ClientRemoved, waitEvent(t, fx.events).Kind)
	assert.Empty(t, fx.clip.all())
}

func TestServe_ConcurrentPeersGetIndependentEntries(t *testing.T) {
	gate := make(chan struct{})
	fx := startServer(t, true, &fakeClip{gate: gate})

	connA, err := net.Dial("tcp", fx.addr)
	require.NoError(t, err)
	defer connA.Close()
	connB, err := net.Dial("tcp", fx.addr)
	require.NoError(t, err)
	defer connB.Close()

	require.NoError(t, frame.Write(connA, "from A"))
	require.NoError(t, frame.Write(connB, "from B"))

	// Both handlers are now parked in the gated clipboard write, with
	// their registry entries populated.
	require.Eventually(t, func() bool {
		sa, okA := fx.reg.Get(connA.LocalAddr().String())
		sb, okB := fx.reg.Get(connB.LocalAddr().String())
		return okA && okB && sa.Content == "from A" && sb.Content == "from B"
	}, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, 2, fx.reg.Len())

	close(gate)
	assert.Eventually(t, func() bool {
		return fx.reg.Len() == 0
	}, 2*time.Second, 10*time.Millisecond)
	assert.ElementsMatch(t, []string{"from A", "from B"}, fx.clip.all())
}

func TestServe_HandlerFailureDoesNotStopAcceptLoop(t *testing.T) {
	fx := startServer(t, true, &fakeClip{writeErr: errors.New("clipboard wedged")})

	push(t, fx.addr, "doomed")

	require.Equal(t, event.ClientAdded, waitEvent(t, fx.events).Kind)
	require.Equal(t, event.ClientUpdated, waitEvent(t, fx.events).Kind)
	failed := waitEvent(t, fx.events)
	require.Equal(t, event.Error, failed.Kind)
	assert.Contains(t, failed.Message, "clipboard wedged")
	require.Equal(t, event.ClientRemoved, waitEvent(t, fx.events).Kind)

	// The accept loop must still be serving.
	conn, err := net.Dial("tcp", fx.addr)
	require.NoError(t, err)
	require.NoError(t, conn.Close())
	require.Equal(t, event.ClientAdded, waitEvent(t, fx.events).Kind)
	require.Equal(t, event.ClientRemoved, waitEvent(t, fx.events).Kind)
}

func TestServe_CancelStopsAcceptLoop(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	relay := event.NewRelay()
	srv := New(registry.New(), relay, &fakeClip{}, true)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx, ln) }()

	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("Serve did not return after cancellation")
	}
}
