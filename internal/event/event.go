// Package event defines the engine's notification events and the relay
// that fans them out to observers (log, status surfaces, tests).
//
// The relay is deliver-and-continue: publishing never blocks the engine.
// A subscriber that falls behind loses events rather than stalling a
// connection handler or the monitor loop.
package event

import (
	"sync"
	"time"
)

// Kind identifies the kind of engine event.
type Kind string

const (
	Sent          Kind = "sent"
	Received      Kind = "received"
	ServerStarted Kind = "server_started"
	Error         Kind = "error"
	ClientAdded   Kind = "client_added"
	ClientUpdated Kind = "client_updated"
	ClientRemoved Kind = "client_removed"
)

// Event is one engine notification.
type Event struct {
	Kind Kind

	// Peer is the remote endpoint the event concerns: the send target
	// for Sent, the inbound address for Received and the client_*
	// events, or the listen address for ServerStarted.
	Peer string

	// Content carries the decoded payload on ClientUpdated.
	Content string

	// Size is the payload byte count on Sent and Received.
	Size int

	// Message carries detail on Error events.
	Message string

	At time.Time
}

// Relay fans events out to subscribers.
type Relay struct {
	mu   sync.RWMutex
	subs []chan Event
}

// NewRelay returns a Relay with no subscribers. Publishing to it is a no-op
// until someone subscribes.
func NewRelay() *Relay {
	return &Relay{}
}

// Subscribe registers a new subscriber and returns its channel. buf is the
// channel capacity; events published while the channel is full are dropped
// for that subscriber. The channel is never closed.
func (r *Relay) Subscribe(buf int) <-chan Event {
	ch := make(chan Event, buf)
	r.mu.Lock()
	r.subs = append(r.subs, ch)
	r.mu.Unlock()
	return ch
}

// Publish stamps e with the current time if unset and delivers it to every
// subscriber without blocking.
func (r *Relay) Publish(e Event) {
	if e.At.IsZero() {
		e.At = time.Now()
	}
	r.mu.RLock()
	subs := r.subs
	r.mu.RUnlock()
	for _, ch := range subs {
		select {
		case ch <- e:
		default:
		}
	}
}
