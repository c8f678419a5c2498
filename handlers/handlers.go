// ABOUTME: HTTP handlers for the dashboard session and data proxy
// ABOUTME: Holds shared dependencies and the JSON response helpers

package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/jacksmith315/homealign-dashboard/cache"
	"github.com/jacksmith315/homealign-dashboard/config"
	"github.com/jacksmith315/homealign-dashboard/models"
	"github.com/jacksmith315/homealign-dashboard/services"
)

const maxBodyBytes = 1 << 20

type Handler struct {
	cfg     *config.Config
	cache   *cache.Cache[bool]
	creds   *services.CredentialStore
	backend *services.BackendClient
}

// NewHandler wires the handler from configuration. A nil cfg yields a handler
// suitable for route inspection only; a nil cache disables ping caching.
func NewHandler(cfg *config.Config, c *cache.Cache[bool]) *Handler {
	h := &Handler{
		cfg:   cfg,
		cache: c,
	}

	if cfg != nil {
		h.creds = services.NewCredentialStore(cfg.CookieSecure, cfg.DefaultTenant)
		h.backend = services.NewBackendClient(cfg.BackendAPIURL, cfg.BackendAPIBaseURL, cfg.BackendTimeout)
	}

	return h
}

func (h *Handler) healthTimeout() time.Duration {
	if h.cfg == nil || h.cfg.HealthTimeout <= 0 {
		return 5 * time.Second
	}
	return h.cfg.HealthTimeout
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, message, detail string) {
	writeJSON(w, status, models.ErrorResponse{
		Error:  message,
		Detail: detail,
		Code:   status,
	})
}

func writeSuccess(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusOK, models.SuccessResponse{
		Success: true,
		Message: message,
	})
}
