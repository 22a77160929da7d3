// Package handler provides HTTP request handlers for nilkv.
package handler

import (
	"encoding/json"
	"net/http"

	"github.com/nilkv/nilkv/internal/telemetry/logger"
)

// Handler holds the dependencies shared by the sidecar's HTTP handlers.
type Handler struct {
	logger logger.Logger
}

// New creates a Handler. log may be nil.
func New(log logger.Logger) *Handler {
	return &Handler{logger: log}
}

// writeJSON encodes v as the JSON response body with the given status code.
func (h *Handler) writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil && h.logger != nil {
		h.logger.Error("failed to encode response", "path", r.URL.Path, "error", err)
	}
}
