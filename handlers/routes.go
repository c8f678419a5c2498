// ABOUTME: Declarative route table for API endpoints
// ABOUTME: Defines all routes with their HTTP methods, handlers and rate limit class

package handlers

import (
	"net/http"
	"time"

	"github.com/jacksmith315/homealign-dashboard/middleware"
)

// RateClass selects which rate limiter guards a route
type RateClass int

const (
	RateDefault RateClass = iota
	RateAuth              // credential submission
	RateRefresh           // token refresh
	RateNone              // health checks
)

// key picks the bucket key: refresh is limited per session, the rest per client IP
func (c RateClass) key(trustProxy bool) func(*http.Request) string {
	ip := middleware.PeerIP
	if trustProxy {
		ip = middleware.ClientIP
	}
	if c == RateRefresh {
		return middleware.SessionKey(ip)
	}
	return ip
}

// Route defines an API endpoint with its HTTP method and handler.
type Route struct {
	Method  string           // HTTP method (GET, POST, etc.)
	Path    string           // ServeMux pattern path (e.g., "/api/data/{entity}")
	Handler http.HandlerFunc // Handler function
	Rate    RateClass
}

// Routes returns all API routes for registration.
func (h *Handler) Routes() []Route {
	return []Route{
		// Health
		{Method: http.MethodGet, Path: "/api/health", Handler: h.Health, Rate: RateNone},

		// Session proxy
		{Method: http.MethodPost, Path: "/api/auth/login", Handler: h.Login, Rate: RateAuth},
		{Method: http.MethodPost, Path: "/api/auth/logout", Handler: h.Logout},
		{Method: http.MethodPost, Path: "/api/auth/refresh", Handler: h.Refresh, Rate: RateRefresh},
		{Method: http.MethodGet, Path: "/api/auth/session", Handler: h.Session},
		{Method: http.MethodGet, Path: "/api/auth/user", Handler: h.User},

		// Tenant selection and lookups
		{Method: http.MethodGet, Path: "/api/data/database", Handler: h.GetDatabase},
		{Method: http.MethodPost, Path: "/api/data/database", Handler: h.SetDatabase},
		{Method: http.MethodGet, Path: "/api/data/lookup", Handler: h.Lookup},

		// Entities
		{Method: http.MethodGet, Path: "/api/data/{entity}", Handler: h.EntityCollection},
		{Method: http.MethodPost, Path: "/api/data/{entity}", Handler: h.EntityCollection},
		{Method: http.MethodGet, Path: "/api/data/{entity}/{id}", Handler: h.EntityItem},
		{Method: http.MethodPut, Path: "/api/data/{entity}/{id}", Handler: h.EntityItem},
		{Method: http.MethodDelete, Path: "/api/data/{entity}/{id}", Handler: h.EntityItem},
	}
}

// Router registers every route behind logging, CORS and rate limiting
func (h *Handler) Router() http.Handler {
	limiters := h.rateLimiters()
	var origins []string
	trustProxy := true
	if h.cfg != nil {
		origins = h.cfg.CORSAllowedOrigins
		trustProxy = h.cfg.TrustProxy
	}

	mux := http.NewServeMux()
	preflight := map[string]bool{}
	for _, route := range h.Routes() {
		mux.HandleFunc(route.Method+" "+route.Path, middleware.Chain(route.Handler,
			middleware.LogRequest,
			middleware.CORS(origins),
			middleware.RateLimit(limiters[route.Rate], route.Rate.key(trustProxy)),
		))

		if !preflight[route.Path] {
			preflight[route.Path] = true
			mux.HandleFunc(http.MethodOptions+" "+route.Path, middleware.CORS(origins)(func(http.ResponseWriter, *http.Request) {}))
		}
	}
	return mux
}

// rateLimiters builds one limiter per class. Missing entries disable limiting.
func (h *Handler) rateLimiters() map[RateClass]*middleware.RateLimiter {
	if h.cfg == nil || !h.cfg.RateLimitEnabled {
		return nil
	}
	return map[RateClass]*middleware.RateLimiter{
		RateDefault: middleware.NewRateLimiter(h.cfg.RateLimitDefault, time.Minute),
		RateAuth:    middleware.NewRateLimiter(h.cfg.RateLimitAuth, time.Minute),
		RateRefresh: middleware.NewRateLimiter(h.cfg.RateLimitRefresh, time.Minute),
	}
}
