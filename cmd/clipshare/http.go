package main

import (
	"encoding/json"
	"net/http"
	"time"
)

// statusHandler serves a read-only JSON snapshot of the daemon: listen
// and peer configuration plus the current client registry. The headless
// analog of a clients table in a GUI.
func statusHandler(state *serveState) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /status", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, statusResponse(state))
	})
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, map[string]any{
			"status": "ok",
			"uptime": time.Since(state.startedAt).Round(time.Second).String(),
		})
	})
	return mux
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}
