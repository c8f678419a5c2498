// ABOUTME: Test helpers for e2e tests
// ABOUTME: Starts a fake healthcare backend and the proxy built from environment config

package e2e

import (
	"encoding/json"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"os"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/jacksmith315/homealign-dashboard/cache"
	"github.com/jacksmith315/homealign-dashboard/config"
	"github.com/jacksmith315/homealign-dashboard/handlers"
)

// withTestEnv points the proxy at backendURL plus additional vars,
// returning a cleanup function that restores all original values.
//
// Example:
//
//	t.Cleanup(withTestEnv(t, backend.URL, map[string]string{
//	    "RATE_LIMIT_AUTH": "1",
//	}))
func withTestEnv(t *testing.T, backendURL string, extra map[string]string) func() {
	t.Helper()

	vars := map[string]string{
		"BACKEND_API_URL":      backendURL,
		"BACKEND_API_BASE_URL": backendURL + "/core-api",
		"APP_ENV":              "test",
		"DEFAULT_TENANT":       "allyalign",
		"RATE_LIMIT_ENABLED":   "false",
	}
	for k, v := range extra {
		vars[k] = v
	}

	originals := make(map[string]*string, len(vars))
	for key, value := range vars {
		if old, ok := os.LookupEnv(key); ok {
			originals[key] = &old
		} else {
			originals[key] = nil
		}
		os.Setenv(key, value)
	}

	return func() {
		for key, value := range originals {
			if value == nil {
				os.Unsetenv(key)
			} else {
				os.Setenv(key, *value)
			}
		}
	}
}

// backend is a minimal stateful stand-in for the healthcare API. It issues
// numbered tokens and only accepts the most recent access token.
type backend struct {
	*httptest.Server

	mu          sync.Mutex
	accessSeq   int
	validAccess string
	revoked     map[string]bool
	dbSeen      []string
}

func newBackend(t *testing.T) *backend {
	t.Helper()
	b := &backend{revoked: map[string]bool{}}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /tenant-login/", b.login)
	mux.HandleFunc("POST /tenant-refresh/", b.refresh)
	mux.HandleFunc("POST /logout/", b.logout)
	mux.HandleFunc("GET /ping", func(w http.ResponseWriter, r *http.Request) {})
	mux.HandleFunc("GET /core-api/patients/", b.patients)

	b.Server = httptest.NewServer(mux)
	t.Cleanup(b.Close)
	return b
}

func (b *backend) login(w http.ResponseWriter, r *http.Request) {
	var req struct{ Tenant, Email, Password string }
	json.NewDecoder(r.Body).Decode(&req)
	if req.Password != "correct-horse" {
		reply(w, http.StatusUnauthorized, map[string]string{"detail": "No active account found"})
		return
	}
	reply(w, http.StatusOK, map[string]string{"access": b.issue(), "refresh": "refresh-" + req.Tenant})
}

func (b *backend) refresh(w http.ResponseWriter, r *http.Request) {
	var req struct{ Refresh string }
	json.NewDecoder(r.Body).Decode(&req)

	b.mu.Lock()
	revoked := b.revoked[req.Refresh]
	b.mu.Unlock()
	if revoked || !strings.HasPrefix(req.Refresh, "refresh-") {
		reply(w, http.StatusUnauthorized, map[string]string{"detail": "Token is invalid or expired"})
		return
	}
	reply(w, http.StatusOK, map[string]string{"access": b.issue()})
}

func (b *backend) logout(w http.ResponseWriter, r *http.Request) {
	var req struct {
		RefreshToken string `json:"refresh_token"`
	}
	json.NewDecoder(r.Body).Decode(&req)
	b.revoke(req.RefreshToken)
	w.WriteHeader(http.StatusOK)
}

func (b *backend) patients(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	ok := r.Header.Get("Authorization") == "Bearer "+b.validAccess
	b.dbSeen = append(b.dbSeen, r.URL.Query().Get("db"))
	b.mu.Unlock()

	if !ok {
		reply(w, http.StatusUnauthorized, map[string]string{"detail": "Given token not valid for any token type"})
		return
	}
	reply(w, http.StatusOK, map[string]any{"count": 1, "results": []map[string]any{{"id": 1, "firstname": "Ada"}}})
}

// expireAccess invalidates the current access token as if it had timed out
func (b *backend) expireAccess() {
	b.mu.Lock()
	b.validAccess = ""
	b.mu.Unlock()
}

func (b *backend) revoke(refresh string) {
	b.mu.Lock()
	b.revoked[refresh] = true
	b.mu.Unlock()
}

func (b *backend) issue() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.accessSeq++
	b.validAccess = "access-" + strconv.Itoa(b.accessSeq)
	return b.validAccess
}

func (b *backend) tenants() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.dbSeen...)
}

func reply(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// startProxy loads config from the environment and serves the full router
func startProxy(t *testing.T) *httptest.Server {
	t.Helper()

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("config.Load() error: %v", err)
	}
	c := cache.New[bool](time.Second)
	t.Cleanup(c.Close)

	proxy := httptest.NewServer(handlers.NewHandler(cfg, c).Router())
	t.Cleanup(proxy.Close)
	return proxy
}

// browser returns an HTTP client that keeps cookies like a browser would
func browser(t *testing.T) *http.Client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatalf("cookiejar.New() error: %v", err)
	}
	return &http.Client{Jar: jar, Timeout: 5 * time.Second}
}

func post(t *testing.T, c *http.Client, url, body string) *http.Response {
	t.Helper()
	resp, err := c.Post(url, "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("POST %s: %v", url, err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func get(t *testing.T, c *http.Client, url string) *http.Response {
	t.Helper()
	resp, err := c.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decode(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return body
}
