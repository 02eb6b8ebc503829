// Package monitor implements the outbound half of clipboard sync: poll
// the local clipboard and push each propagation-worthy change to one
// remote peer as a single frame over a single-use connection.
package monitor

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"strings"
	"time"

	"github.com/clipwire/clipshare/internal/clip"
	"github.com/clipwire/clipshare/internal/event"
	"github.com/clipwire/clipshare/internal/frame"
)

const (
	// DefaultInterval is the default poll interval.
	DefaultInterval = time.Second

	// DialTimeout bounds the outbound connection attempt.
	DialTimeout = 5 * time.Second
)

// Snapshot is one observation of the local clipboard.
type Snapshot struct {
	Text       string
	ObservedAt time.Time
}

// Poller samples the clipboard on a fixed interval. It does not compare
// or filter; deciding what is propagation-worthy is the Monitor's job.
type Poller struct {
	clip     clip.Accessor
	interval time.Duration
}

// NewPoller returns a Poller reading via accessor every interval.
func NewPoller(accessor clip.Accessor, interval time.Duration) *Poller {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Poller{clip: accessor, interval: interval}
}

// Next blocks for the poll interval, then reads the clipboard. A read
// failure still returns a zero-text Snapshot alongside the error.
func (p *Poller) Next(ctx context.Context) (Snapshot, error) {
	select {
	case <-ctx.Done():
		return Snapshot{}, ctx.Err()
	case <-time.After(p.interval):
	}
	text, err := p.clip.Read()
	return Snapshot{Text: text, ObservedAt: time.Now()}, err
}

// Send pushes text to peer: dial with a bounded timeout, write one
// frame, close. Returns the payload byte count on success.
func Send(peer, text string, timeout time.Duration) (int, error) {
	conn, err := net.DialTimeout("tcp", peer, timeout)
	if err != nil {
		return 0, fmt.Errorf("connect %s: %w", peer, err)
	}
	defer conn.Close()

	if err := frame.Write(conn, text); err != nil {
		return 0, fmt.Errorf("send to %s: %w", peer, err)
	}
	return len(text), nil
}

// Monitor watches the local clipboard and pushes changes to one peer.
//
// The comparison baseline advances only when a tick observes a value
// that both differs from the baseline and is non-empty after trimming
// whitespace — and then it advances whether or not the send succeeds.
// Two consequences are part of the observable contract:
//
//   - A value that failed to send is not retried; the next attempt
//     waits for the next distinct clipboard value.
//   - The sequence A → "" → A sends nothing for the second A: the empty
//     intermediate never advanced the baseline, so the returning A
//     compares equal to it.
type Monitor struct {
	clip        clip.Accessor
	relay       *event.Relay
	peer        string
	poller      *Poller
	dialTimeout time.Duration
	baseline    string
}

// New returns a Monitor pushing to peer ("host:port") every interval.
func New(accessor clip.Accessor, relay *event.Relay, peer string, interval time.Duration) *Monitor {
	return &Monitor{
		clip:        accessor,
		relay:       relay,
		peer:        peer,
		poller:      NewPoller(accessor, interval),
		dialTimeout: DialTimeout,
	}
}

// Run executes the monitor loop until ctx is cancelled. Transient
// failures — clipboard reads, dials, writes — are reported as error
// events and never terminate the loop.
func (m *Monitor) Run(ctx context.Context) error {
	if text, err := m.clip.Read(); err == nil {
		m.baseline = text
	} else {
		m.relay.Publish(event.Event{
			Kind:    event.Error,
			Peer:    m.peer,
			Message: fmt.Sprintf("clipboard monitoring error: %v", err),
		})
	}
	slog.Info("monitoring clipboard", "peer", m.peer, "interval", m.poller.interval)

	for {
		snap, err := m.poller.Next(ctx)
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err != nil {
			m.relay.Publish(event.Event{
				Kind:    event.Error,
				Peer:    m.peer,
				Message: fmt.Sprintf("clipboard monitoring error: %v", err),
			})
			continue
		}

		if snap.Text != m.baseline && strings.TrimSpace(snap.Text) != "" {
			if n, err := Send(m.peer, snap.Text, m.dialTimeout); err != nil {
				m.relay.Publish(event.Event{
					Kind:    event.Error,
					Peer:    m.peer,
					Message: fmt.Sprintf("failed to send to %s: %v", m.peer, err),
				})
			} else {
				m.relay.Publish(event.Event{Kind: event.Sent, Peer: m.peer, Size: n})
			}
			m.baseline = snap.Text
		}
	}
}
