// ABOUTME: Session proxy handlers for tenant login, logout and token refresh
// ABOUTME: Tokens live in HttpOnly cookies; the browser never sees them directly

package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/jacksmith315/homealign-dashboard/logger"
	"github.com/jacksmith315/homealign-dashboard/models"
	"github.com/jacksmith315/homealign-dashboard/services"
)

// Identity reported when the backend accepts the token but neither the token
// nor the /user/ endpoint describes who it belongs to.
var tokenOnlyIdentity = models.UserIdentity{
	Email:    "authenticated.user@example.com",
	Username: "authenticated_user",
	ID:       "1",
	Role:     "User",
}

// Login exchanges tenant credentials for tokens and stores them as cookies
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(&req); err != nil {
		slog.Debug("Login body not parsable", "error", err)
	}

	if !req.Complete() {
		writeError(w, http.StatusBadRequest, "Database, email, and password are required", "")
		return
	}

	pair, err := h.backend.TenantLogin(r.Context(), req.Database, req.Email, req.Password)
	if err != nil {
		if services.BackendStatus(err) == http.StatusUnauthorized {
			slog.Warn("Tenant login rejected", "tenant", req.Database)
			writeError(w, http.StatusUnauthorized, "Invalid credentials", "")
			return
		}
		slog.Error("Tenant login failed", "tenant", req.Database, "error", err)
		writeError(w, http.StatusInternalServerError, "Login failed. Please try again.", "")
		return
	}

	h.creds.SetTokens(w, pair)

	slog.Info("Tenant login succeeded", "tenant", req.Database, logger.Token("access", pair.Access))
	writeSuccess(w, "Login successful")
}

// Logout revokes the refresh token upstream when possible and always clears cookies
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	creds := h.creds.Read(r)

	if creds.RefreshToken != "" {
		if err := h.backend.Logout(r.Context(), creds.RefreshToken); err != nil {
			slog.Warn("Upstream logout failed", "error", err)
		}
	}

	h.creds.ClearAll(w)
	writeSuccess(w, "Logged out successfully")
}

// Refresh replaces the access token cookie using the refresh token cookie
func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	creds := h.creds.Read(r)
	if creds.RefreshToken == "" {
		writeError(w, http.StatusUnauthorized, "No refresh token available", "")
		return
	}

	access, err := h.backend.TenantRefresh(r.Context(), creds.RefreshToken)
	if err != nil {
		slog.Warn("Token refresh failed", "error", err)
		h.creds.ClearTokens(w)
		writeError(w, http.StatusUnauthorized, "Token refresh failed", "")
		return
	}

	h.creds.SetAccessToken(w, access)
	writeSuccess(w, "Token refreshed")
}

// Session reports cookie presence without contacting the backend
func (h *Handler) Session(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.creds.Read(r).Session())
}

// User describes the signed-in user. The token payload is tried first, then
// the backend's /user/ endpoint, then a cheap list call that only proves the
// token is accepted.
func (h *Handler) User(w http.ResponseWriter, r *http.Request) {
	creds := h.creds.Read(r)
	if creds.AccessToken == "" {
		writeError(w, http.StatusUnauthorized, "Not authenticated", "")
		return
	}

	identity, err := services.ExtractIdentity(creds.AccessToken)
	if err == nil {
		writeJSON(w, http.StatusOK, models.UserResponse{User: withIdentityDefaults(*identity)})
		return
	}
	slog.Debug("Access token not decodable", "error", err)

	user, err := h.backend.UserInfo(r.Context(), creds.AccessToken)
	if err == nil {
		writeJSON(w, http.StatusOK, models.UserResponse{User: user})
		return
	}
	slog.Debug("User endpoint unavailable", "error", err)

	if err := h.backend.CheckToken(r.Context(), creds.AccessToken); err != nil {
		var be *services.BackendError
		if !errors.As(err, &be) {
			slog.Warn("Token check failed", "error", err)
		}
		writeError(w, http.StatusUnauthorized, "Invalid token", "")
		return
	}

	writeJSON(w, http.StatusOK, models.UserResponse{User: tokenOnlyIdentity})
}

func withIdentityDefaults(id models.UserIdentity) models.UserIdentity {
	if id.Email == "" {
		id.Email = "current.user@example.com"
	}
	if id.Username == "" {
		id.Username = "current_user"
	}
	if id.ID == "" {
		id.ID = "1"
	}
	if id.Role == "" {
		id.Role = "User"
	}
	return id
}
