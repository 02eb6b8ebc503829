// Package server implements the inbound half of clipboard sync: a TCP
// accept loop that decodes one frame per connection and applies it to
// the local clipboard.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"

	"github.com/clipwire/clipshare/internal/clip"
	"github.com/clipwire/clipshare/internal/event"
	"github.com/clipwire/clipshare/internal/frame"
	"github.com/clipwire/clipshare/internal/registry"
)

// Server accepts sync connections and tracks their senders.
//
// Each accepted connection gets its own goroutine with no admission
// control: simplicity over bounded concurrency, so a flood of
// connections is a known resource-exhaustion risk. Inbound reads also
// carry no deadline, so a silent peer holds its handler and registry
// entry until it disconnects.
type Server struct {
	reg     *registry.Registry
	relay   *event.Relay
	clip    clip.Accessor
	consume bool
}

// New returns a Server. consume controls whether received payloads are
// written to the local clipboard; peers are tracked either way.
func New(reg *registry.Registry, relay *event.Relay, accessor clip.Accessor, consume bool) *Server {
	return &Server{reg: reg, relay: relay, clip: accessor, consume: consume}
}

// Serve accepts connections on ln until ctx is cancelled or the
// listener fails. It emits server_started once, before the first
// accept. Individual connection failures never stop the loop.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	s.relay.Publish(event.Event{Kind: event.ServerStarted, Peer: ln.Addr().String()})

	// Unblock Accept on cancellation.
	stop := context.AfterFunc(ctx, func() { _ = ln.Close() })
	defer stop()

	for {
		conn, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if errors.Is(err, net.ErrClosed) {
				return err
			}
			slog.Error("accept failed", "err", err)
			s.relay.Publish(event.Event{
				Kind:    event.Error,
				Peer:    ln.Addr().String(),
				Message: fmt.Sprintf("accept: %v", err),
			})
			continue
		}
		go s.handle(conn)
	}
}

// handle processes one connection: register the peer, decode one frame,
// apply it, unregister. The registry entry exists from before the first
// byte is read until the handler returns, whatever the outcome.
func (s *Server) handle(conn net.Conn) {
	addr := conn.RemoteAddr().String()
	defer conn.Close()

	s.reg.Add(addr, "")
	s.relay.Publish(event.Event{Kind: event.ClientAdded, Peer: addr})
	defer func() {
		s.reg.Remove(addr)
		s.relay.Publish(event.Event{Kind: event.ClientRemoved, Peer: addr})
	}()

	text, ok, err := frame.Read(conn)
	if err != nil {
		s.relay.Publish(event.Event{
			Kind:    event.Error,
			Peer:    addr,
			Message: fmt.Sprintf("handling %s: %v", addr, err),
		})
		return
	}
	if !ok {
		// Peer closed before sending a header: nothing to do.
		return
	}

	s.reg.Update(addr, text)
	s.relay.Publish(event.Event{Kind: event.ClientUpdated, Peer: addr, Content: text})

	if s.consume {
		if err := s.clip.Write(text); err != nil {
			s.relay.Publish(event.Event{
				Kind:    event.Error,
				Peer:    addr,
				Message: fmt.Sprintf("handling %s: %v", addr, err),
			})
			return
		}
	}

	s.relay.Publish(event.Event{Kind: event.Received, Peer: addr, Size: len(text)})
}
