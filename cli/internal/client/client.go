// ABOUTME: HTTP client for the HomeAlign dashboard proxy API
// ABOUTME: Keeps session cookies in a jar and wraps calls with CLI-friendly errors

package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync/atomic"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/jacksmith315/homealign-dashboard/models"
)

// Client talks to the dashboard proxy on behalf of one signed-in user
type Client struct {
	baseURL       string
	base          *url.URL
	httpClient    *http.Client
	jar           *SessionJar
	auth          *AuthContext
	onAuthFailure func()

	refreshGroup singleflight.Group
	sessionEpoch atomic.Uint64 // bumped after each refresh or forced logout
}

// Option customises a Client
type Option func(*Client)

// WithSessionJar persists cookies in jar instead of an in-memory jar
func WithSessionJar(jar *SessionJar) Option {
	return func(c *Client) { c.jar = jar }
}

// WithAuthContext shares auth state with the caller
func WithAuthContext(auth *AuthContext) Option {
	return func(c *Client) { c.auth = auth }
}

// WithAuthFailureHook runs fn after a failed refresh has logged the user out
func WithAuthFailureHook(fn func()) Option {
	return func(c *Client) { c.onAuthFailure = fn }
}

// WithTimeout overrides the per-request timeout
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.httpClient.Timeout = d }
}

// New creates a new API client with the given base URL
func New(baseURL string, opts ...Option) *Client {
	baseURL = strings.TrimRight(baseURL, "/")
	base, err := url.Parse(baseURL)
	if err != nil {
		base = &url.URL{}
	}

	c := &Client{
		baseURL: baseURL,
		base:    base,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.jar == nil {
		c.jar = NewMemoryJar()
	}
	if c.auth == nil {
		c.auth = NewAuthContext()
	}
	c.httpClient.Jar = c.jar
	return c
}

// Auth returns the client's auth context
func (c *Client) Auth() *AuthContext {
	return c.auth
}

// BaseURL returns the proxy URL the client talks to
func (c *Client) BaseURL() string {
	return c.baseURL
}

// APIError is a non-2xx answer from the proxy
type APIError struct {
	StatusCode int
	Message    string
	Detail     string
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s: %s", e.Message, e.Detail)
	}
	return e.Message
}

// StatusCode returns the HTTP status carried by err, or 0 if there is none
func StatusCode(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}

// send issues one request with the session cookies attached
func (c *Client) send(ctx context.Context, method, path string, query url.Values, body []byte) (*http.Response, error) {
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var rd io.Reader
	if body != nil {
		rd = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, rd)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, c.handleRequestError(ctx, err)
	}
	return resp, nil
}

// handleRequestError converts context errors to user-friendly messages
func (c *Client) handleRequestError(ctx context.Context, err error) error {
	if errors.Is(ctx.Err(), context.Canceled) {
		return fmt.Errorf("request canceled")
	}
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return fmt.Errorf("request timed out")
	}
	return fmt.Errorf("cannot connect to proxy at %s: %w", c.baseURL, err)
}

// handleErrorResponse parses API error responses
func handleErrorResponse(resp *http.Response) error {
	apiErr := &APIError{StatusCode: resp.StatusCode}

	var errResp models.ErrorResponse
	if err := json.NewDecoder(resp.Body).Decode(&errResp); err != nil || errResp.Error == "" {
		apiErr.Message = fmt.Sprintf("proxy returned status %d", resp.StatusCode)
		return apiErr
	}
	apiErr.Message = errResp.Error
	apiErr.Detail = errResp.Detail
	return apiErr
}

// decodeResponse closes resp, turning non-2xx into *APIError and decoding
// the body into out when out is non-nil
func decodeResponse(resp *http.Response, out any) error {
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return handleErrorResponse(resp)
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("invalid response from proxy: %w", err)
	}
	return nil
}

func encodeBody(v any) ([]byte, error) {
	if v == nil {
		return nil, nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal input: %w", err)
	}
	return data, nil
}
