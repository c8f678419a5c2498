// ABOUTME: Cookie jar that survives between CLI invocations
// ABOUTME: Mirrors the proxy's session cookies into a 0600 JSON file

package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// storedCookie is the on-disk form of one session cookie
type storedCookie struct {
	URL     string    `json:"url"`
	Name    string    `json:"name"`
	Value   string    `json:"value"`
	Secure  bool      `json:"secure,omitempty"`
	Expires time.Time `json:"expires"`
}

// SessionJar is an http.CookieJar whose cookies are written to path after
// every change. An empty path keeps cookies in memory only.
type SessionJar struct {
	mu     sync.Mutex
	path   string
	inner  *cookiejar.Jar
	stored map[string]storedCookie
}

// NewMemoryJar returns a jar that is never persisted
func NewMemoryJar() *SessionJar {
	jar, _ := cookiejar.New(nil)
	return &SessionJar{inner: jar, stored: map[string]storedCookie{}}
}

// OpenSessionJar loads cookies saved at path. A missing file is an empty session.
func OpenSessionJar(path string) (*SessionJar, error) {
	j := NewMemoryJar()
	j.path = path

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return j, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read session file: %w", err)
	}

	var cookies []storedCookie
	if err := json.Unmarshal(data, &cookies); err != nil {
		return nil, fmt.Errorf("failed to parse session file %s: %w", path, err)
	}

	now := time.Now()
	for _, sc := range cookies {
		if !sc.Expires.After(now) {
			continue
		}
		u, err := url.Parse(sc.URL)
		if err != nil {
			continue
		}
		j.inner.SetCookies(u, []*http.Cookie{{
			Name:    sc.Name,
			Value:   sc.Value,
			Path:    "/",
			Secure:  sc.Secure,
			Expires: sc.Expires,
		}})
		j.stored[sc.Name] = sc
	}
	return j, nil
}

// SetCookies implements http.CookieJar
func (j *SessionJar) SetCookies(u *url.URL, cookies []*http.Cookie) {
	j.mu.Lock()
	defer j.mu.Unlock()

	j.inner.SetCookies(u, cookies)

	now := time.Now()
	origin := (&url.URL{Scheme: u.Scheme, Host: u.Host}).String()
	for _, c := range cookies {
		expires := c.Expires
		if c.MaxAge > 0 {
			expires = now.Add(time.Duration(c.MaxAge) * time.Second)
		}
		if c.MaxAge < 0 || (!expires.IsZero() && !expires.After(now)) {
			delete(j.stored, c.Name)
			continue
		}
		if expires.IsZero() {
			// Session cookies end with the process; keep them for a day on disk
			expires = now.Add(24 * time.Hour)
		}
		j.stored[c.Name] = storedCookie{
			URL:     origin,
			Name:    c.Name,
			Value:   c.Value,
			Secure:  c.Secure,
			Expires: expires,
		}
	}

	j.persist()
}

// Cookies implements http.CookieJar
func (j *SessionJar) Cookies(u *url.URL) []*http.Cookie {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.inner.Cookies(u)
}

// Has reports whether a cookie called name would be sent to u
func (j *SessionJar) Has(u *url.URL, name string) bool {
	for _, c := range j.Cookies(u) {
		if c.Name == name && c.Value != "" {
			return true
		}
	}
	return false
}

// Clear forgets every cookie and removes the session file
func (j *SessionJar) Clear() {
	j.mu.Lock()
	defer j.mu.Unlock()

	j.inner, _ = cookiejar.New(nil)
	j.stored = map[string]storedCookie{}
	if j.path != "" {
		if err := os.Remove(j.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			fmt.Fprintf(os.Stderr, "warning: could not remove session file: %v\n", err)
		}
	}
}

// persist writes the stored cookies. Must be called while holding j.mu.
func (j *SessionJar) persist() {
	if j.path == "" {
		return
	}

	cookies := make([]storedCookie, 0, len(j.stored))
	for _, sc := range j.stored {
		cookies = append(cookies, sc)
	}
	data, err := json.MarshalIndent(cookies, "", "  ")
	if err != nil {
		return
	}

	if err := os.MkdirAll(filepath.Dir(j.path), 0o700); err != nil {
		fmt.Fprintf(os.Stderr, "warning: could not create session directory: %v\n", err)
		return
	}
	if err := os.WriteFile(j.path, data, 0o600); err != nil {
		fmt.Fprintf(os.Stderr, "warning: could not save session: %v\n", err)
	}
}
