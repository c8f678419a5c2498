// ABOUTME: Health endpoint aggregating proxy, session and backend checks
// ABOUTME: The session check is in-process liveness; the upstream ping is cached briefly

package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"time"

	"github.com/jacksmith315/homealign-dashboard/models"
)

const backendPingKey = "health:backend-ping"

// Health reports whether the proxy can serve sessions and reach the backend.
// Degraded answers use 503 so load balancers can act on the status alone.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	checks := models.HealthChecks{
		Proxy:      true,
		Session:    h.sessionAnswers(r),
		BackendAPI: h.backendReachable(r.Context()),
	}

	resp := models.HealthResponse{
		Status:    models.HealthStatusHealthy,
		Timestamp: time.Now().UTC(),
		Checks:    checks,
	}
	if h.cfg != nil {
		resp.Version = h.cfg.Version
		resp.Environment = h.cfg.Env
	}

	status := http.StatusOK
	if !checks.AllPass() {
		resp.Status = models.HealthStatusDegraded
		status = http.StatusServiceUnavailable
		slog.Warn("Health degraded", "session", checks.Session, "backend_api", checks.BackendAPI)
	}

	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
	writeJSON(w, status, resp)
}

// sessionAnswers runs the session handler in-process against the caller's
// cookies. It does no I/O, so it is a liveness check of the handler only and
// cannot report an upstream problem.
func (h *Handler) sessionAnswers(r *http.Request) bool {
	rec := httptest.NewRecorder()
	h.Session(rec, r)
	return rec.Code == http.StatusOK
}

// backendReachable pings the backend, reusing a recent result when cached.
// Failed pings are cached too so an outage does not multiply upstream load.
func (h *Handler) backendReachable(ctx context.Context) bool {
	ping := func() (bool, error) {
		ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), h.healthTimeout())
		defer cancel()

		if err := h.backend.Ping(ctx); err != nil {
			slog.Warn("Backend ping failed", "error", err)
			return false, nil
		}
		return true, nil
	}

	if h.cache == nil {
		ok, _ := ping()
		return ok
	}
	ok, _ := h.cache.GetOrLoad(backendPingKey, ping)
	return ok
}
