// Package registry tracks the remote peers currently (or recently)
// connected to the sync server, keyed by their "host:port" address,
// together with the last payload each one sent.
//
// Entries never expire on their own: a session is removed when its
// connection handler returns, or when the registry is cleared
// explicitly. A slow or silent peer therefore holds its entry for as
// long as it holds its connection.
package registry

import (
	"log/slog"
	"sort"
	"sync"
	"time"
)

// Session is one inbound peer's registry entry.
type Session struct {
	Addr        string
	Content     string
	ConnectedAt time.Time
	LastSeen    time.Time
}

// Registry is a concurrency-safe map of peer address to Session. Every
// connection handler mutates it, so all access goes through the mutex.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]Session
}

// New returns an empty Registry.
func New() *Registry {
	return &Registry{sessions: make(map[string]Session)}
}

// Add inserts or replaces the entry for addr, refreshing LastSeen. A
// reconnecting peer replaces its prior entry's content and timestamp
// but keeps the logical session's ConnectedAt.
func (r *Registry) Add(addr, content string) {
	now := time.Now()
	r.mu.Lock()
	s, existed := r.sessions[addr]
	if !existed {
		s = Session{Addr: addr, ConnectedAt: now}
	}
	s.Content = content
	s.LastSeen = now
	r.sessions[addr] = s
	total := len(r.sessions)
	r.mu.Unlock()

	if !existed {
		slog.Debug("peer registered", "peer", addr, "total", total)
	}
}

// Update records a newly decoded payload for addr. The registry does not
// distinguish first-seen from refreshed beyond the timestamp, so this is
// Add with new content.
func (r *Registry) Update(addr, content string) {
	r.Add(addr, content)
}

// Remove deletes the entry for addr if present; a no-op otherwise.
func (r *Registry) Remove(addr string) {
	r.mu.Lock()
	_, existed := r.sessions[addr]
	delete(r.sessions, addr)
	total := len(r.sessions)
	r.mu.Unlock()

	if existed {
		slog.Debug("peer unregistered", "peer", addr, "total", total)
	}
}

// Clear empties the registry. Used by the explicit clear operation, not
// by connection lifecycle.
func (r *Registry) Clear() {
	r.mu.Lock()
	n := len(r.sessions)
	r.sessions = make(map[string]Session)
	r.mu.Unlock()

	if n > 0 {
		slog.Debug("registry cleared", "removed", n)
	}
}

// Get returns the session for addr.
func (r *Registry) Get(addr string) (Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sessions[addr]
	return s, ok
}

// Len returns the number of registered sessions.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// Snapshot returns all sessions sorted by address.
func (r *Registry) Snapshot() []Session {
	r.mu.RLock()
	out := make([]Session, 0, len(r.sessions))
	for _, s := range r.sessions {
		out = append(out, s)
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].Addr < out[j].Addr })
	return out
}
