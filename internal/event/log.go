package event

import "log/slog"

// Log consumes events from ch and writes each to the global slog logger.
// Run it in its own goroutine; it returns when ch is drained and the
// relay is gone (in practice, never — relay channels stay open for the
// life of the process).
func Log(ch <-chan Event) {
	for e := range ch {
		switch e.Kind {
		case Sent:
			slog.Info("sent", "peer", e.Peer, "bytes", e.Size)
		case Received:
			slog.Info("received", "peer", e.Peer, "bytes", e.Size)
		case ServerStarted:
			slog.Info("server started", "addr", e.Peer)
		case ClientAdded:
			slog.Debug("client connected", "peer", e.Peer)
		case ClientUpdated:
			preview := e.Content
			if len(preview) > 120 {
				preview = preview[:120] + "…"
			}
			slog.Debug("client updated", "peer", e.Peer, "preview", preview)
		case ClientRemoved:
			slog.Debug("client disconnected", "peer", e.Peer)
		case Error:
			slog.Warn("engine error", "peer", e.Peer, "detail", e.Message)
		default:
			slog.Warn("unexpected event kind", "kind", e.Kind)
		}
	}
}
