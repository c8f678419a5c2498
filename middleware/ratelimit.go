// ABOUTME: Rate limiting middleware backed by per-key token buckets
// ABOUTME: Provides per-endpoint rate limits keyed by client IP or session

package middleware

import (
	"log/slog"
	"math"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/jacksmith315/homealign-dashboard/services"
)

// RateLimiter allows limit requests per window for each key.
// Buckets refill continuously, so a client that stops sending recovers
// capacity gradually instead of at a window boundary.
type RateLimiter struct {
	mu          sync.Mutex
	buckets     map[string]*rate.Limiter
	every       rate.Limit
	burst       int
	lastCleanup time.Time
}

// NewRateLimiter creates a rate limiter that allows limit requests per window.
func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		buckets:     make(map[string]*rate.Limiter),
		every:       rate.Limit(float64(limit) / window.Seconds()),
		burst:       limit,
		lastCleanup: time.Now(),
	}
}

// Allow checks whether a request for the given key should be permitted.
// Returns true if within limits, or false with the delay until the next token.
func (rl *RateLimiter) Allow(key string) (bool, time.Duration) {
	limiter := rl.bucket(key)
	if limiter.Allow() {
		return true, 0
	}

	r := limiter.Reserve()
	delay := r.Delay()
	r.Cancel()
	return false, delay
}

func (rl *RateLimiter) bucket(key string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	rl.cleanup(time.Now())

	limiter, ok := rl.buckets[key]
	if !ok {
		limiter = rate.NewLimiter(rl.every, rl.burst)
		rl.buckets[key] = limiter
	}
	return limiter
}

// cleanup drops full buckets every few minutes; a full bucket means the key
// has been idle long enough that recreating it changes nothing.
// Must be called while holding rl.mu.
func (rl *RateLimiter) cleanup(now time.Time) {
	if now.Sub(rl.lastCleanup) < 5*time.Minute {
		return
	}
	rl.lastCleanup = now
	for k, l := range rl.buckets {
		if l.TokensAt(now) >= float64(rl.burst) {
			delete(rl.buckets, k)
		}
	}
}

// ClientIP extracts the client IP from X-Forwarded-For (leftmost) or RemoteAddr.
// It trusts the header as sent: any caller can pick its own leftmost entry, so
// use it only behind a reverse proxy that overwrites X-Forwarded-For.
// PeerIP is the choice when the proxy is reachable directly (TRUST_PROXY=false).
func ClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		parts := strings.SplitN(xff, ",", 2)
		ip := strings.TrimSpace(parts[0])
		if ip != "" && net.ParseIP(ip) != nil {
			return "ip:" + ip
		}
	}
	return PeerIP(r)
}

// PeerIP keys on the connection's remote address and ignores forwarding headers
func PeerIP(r *http.Request) string {
	host := r.RemoteAddr
	if h, _, err := net.SplitHostPort(host); err == nil {
		host = h
	}
	return "ip:" + host
}

// SessionKey keys on the refresh token cookie so one signed-in browser
// shares a budget across tabs. Without a session it falls back to ip.
func SessionKey(ip func(*http.Request) string) func(*http.Request) string {
	return func(r *http.Request) string {
		cookie, err := r.Cookie(services.RefreshTokenCookie)
		if err == nil && cookie.Value != "" {
			return "session:" + cookie.Value
		}
		return ip(r)
	}
}

// RateLimit returns middleware that enforces rate limits using the given limiter and key function.
// If limiter is nil, the middleware is a no-op (disabled mode).
// If keyFunc returns an empty string, the request passes through (unidentifiable client).
func RateLimit(limiter *RateLimiter, keyFunc func(*http.Request) string) Middleware {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			if limiter == nil || keyFunc == nil {
				next(w, r)
				return
			}

			key := keyFunc(r)
			if key == "" {
				next(w, r)
				return
			}

			allowed, retryAfter := limiter.Allow(key)
			if allowed {
				next(w, r)
				return
			}

			retrySeconds := max(int(math.Ceil(retryAfter.Seconds())), 1)
			slog.Warn("Rate limit exceeded", "path", sanitizePath(r.URL.Path), "retry_after", retrySeconds)

			writeRateLimited(w, retrySeconds)
		}
	}
}
