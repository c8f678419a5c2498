// ABOUTME: Shared test fixtures for handler tests
// ABOUTME: Provides a fake upstream backend, request helpers and cookie assertions

package handlers

import (
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/jacksmith315/homealign-dashboard/cache"
	"github.com/jacksmith315/homealign-dashboard/config"
)

// upstreamCall records one request the fake backend received
type upstreamCall struct {
	Method string
	Path   string
	Query  map[string][]string
	Auth   string
	Body   string
}

// fakeBackend is an httptest server standing in for the healthcare API.
// Routes are registered on mux; every request is recorded.
type fakeBackend struct {
	*httptest.Server
	mux   *http.ServeMux
	mu    sync.Mutex
	calls []upstreamCall
}

func newFakeBackend(t *testing.T) *fakeBackend {
	t.Helper()
	fb := &fakeBackend{mux: http.NewServeMux()}
	fb.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		fb.mu.Lock()
		fb.calls = append(fb.calls, upstreamCall{
			Method: r.Method,
			Path:   r.URL.Path,
			Query:  r.URL.Query(),
			Auth:   r.Header.Get("Authorization"),
			Body:   string(body),
		})
		fb.mu.Unlock()
		r.Body = io.NopCloser(strings.NewReader(string(body)))
		fb.mux.ServeHTTP(w, r)
	}))
	t.Cleanup(fb.Close)
	return fb
}

func (fb *fakeBackend) handle(pattern string, fn http.HandlerFunc) {
	fb.mux.HandleFunc(pattern, fn)
}

func (fb *fakeBackend) recorded() []upstreamCall {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	return append([]upstreamCall(nil), fb.calls...)
}

func testConfig(backendURL string) *config.Config {
	return &config.Config{
		Port:              "8080",
		Env:               "test",
		Version:           "9.9.9",
		BackendAPIURL:     backendURL,
		BackendAPIBaseURL: backendURL + "/core-api",
		BackendTimeout:    5 * time.Second,
		DefaultTenant:     "allyalign",
		HealthTimeout:     time.Second,
		HealthCacheTTL:    time.Minute,
	}
}

// newTestServer returns the fully routed proxy in front of a fresh fake backend
func newTestServer(t *testing.T) (http.Handler, *fakeBackend) {
	t.Helper()
	fb := newFakeBackend(t)
	c := cache.New[bool](time.Minute)
	t.Cleanup(c.Close)
	h := NewHandler(testConfig(fb.URL), c)
	return h.Router(), fb
}

func doRequest(h http.Handler, method, target, body string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, rd)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func cookie(name, value string) *http.Cookie {
	return &http.Cookie{Name: name, Value: value}
}

func responseCookie(rec *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	return body
}

func writeUpstreamJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// buildTestJWT creates an unsigned JWT with the given payload.
func buildTestJWT(payload string) string {
	header := base64.RawURLEncoding.EncodeToString([]byte(`{"alg":"none"}`))
	body := base64.RawURLEncoding.EncodeToString([]byte(payload))
	return header + "." + body + ".sig"
}
