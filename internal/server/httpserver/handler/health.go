// Package handler provides HTTP request handlers for nilkv.
package handler

import (
	"net/http"
	"time"
)

// HandleHealth handles GET /health. It reports liveness only: the process
// is running and its event loop goroutine has not deadlocked the HTTP
// server that shares its address space.
func (h *Handler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, r, http.StatusOK, map[string]string{
		"status": "healthy",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

// HandleReady handles GET /ready.
func (h *Handler) HandleReady(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, r, http.StatusOK, map[string]string{
		"status": "ready",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}
