// ABOUTME: HTTP client for the upstream healthcare REST backend
// ABOUTME: Handles tenant login/refresh/logout, user lookup, ping and generic entity forwarding

package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/jacksmith315/homealign-dashboard/models"
)

// BackendError is a non-2xx answer from the upstream backend
type BackendError struct {
	StatusCode int
	Detail     string // upstream "detail" field, when the body carried one
	Body       []byte
}

func (e *BackendError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("backend returned status %d: %s", e.StatusCode, e.Detail)
	}
	return fmt.Sprintf("backend returned status %d", e.StatusCode)
}

// BackendStatus returns the upstream status carried by err, or 0 for transport failures
func BackendStatus(err error) int {
	var be *BackendError
	if errors.As(err, &be) {
		return be.StatusCode
	}
	return 0
}

// BackendRequest describes a data call relative to the base URL
type BackendRequest struct {
	Method      string
	Path        string // e.g. "/patients/7/"
	Query       url.Values
	Body        []byte // JSON; nil sends no body
	AccessToken string // sent as a bearer token when non-empty
}

type BackendClient struct {
	authURL string // tenant-login, tenant-refresh, logout, ping
	baseURL string // user info and entities
	client  *http.Client
}

func NewBackendClient(authURL, baseURL string, timeout time.Duration) *BackendClient {
	return &BackendClient{
		authURL: authURL,
		baseURL: baseURL,
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

// TenantLogin exchanges tenant credentials for a token pair
func (c *BackendClient) TenantLogin(ctx context.Context, tenant, email, password string) (*models.TokenPair, error) {
	payload := map[string]string{
		"tenant":   tenant,
		"email":    email,
		"password": password,
	}

	var pair models.TokenPair
	if err := c.postJSON(ctx, c.authURL+"/tenant-login/", payload, &pair); err != nil {
		return nil, err
	}
	if pair.Access == "" || pair.Refresh == "" {
		return nil, fmt.Errorf("tenant login response missing tokens")
	}

	return &pair, nil
}

// TenantRefresh exchanges a refresh token for a new access token
func (c *BackendClient) TenantRefresh(ctx context.Context, refreshToken string) (string, error) {
	var resp struct {
		Access string `json:"access"`
	}
	if err := c.postJSON(ctx, c.authURL+"/tenant-refresh/", map[string]string{"refresh": refreshToken}, &resp); err != nil {
		return "", err
	}
	if resp.Access == "" {
		return "", fmt.Errorf("tenant refresh response missing access token")
	}

	return resp.Access, nil
}

// Logout asks the backend to invalidate a refresh token
func (c *BackendClient) Logout(ctx context.Context, refreshToken string) error {
	return c.postJSON(ctx, c.authURL+"/logout/", map[string]string{"refresh_token": refreshToken}, nil)
}

// UserInfo fetches the current user's record from the backend
func (c *BackendClient) UserInfo(ctx context.Context, accessToken string) (json.RawMessage, error) {
	resp, err := c.Forward(ctx, BackendRequest{
		Method:      http.MethodGet,
		Path:        "/user/",
		AccessToken: accessToken,
	})
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var user json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		return nil, fmt.Errorf("failed to parse user info: %w", err)
	}

	return user, nil
}

// CheckToken confirms the backend accepts the access token with the cheapest list call
func (c *BackendClient) CheckToken(ctx context.Context, accessToken string) error {
	resp, err := c.Forward(ctx, BackendRequest{
		Method:      http.MethodGet,
		Path:        "/" + models.EntityPatients + "/",
		Query:       url.Values{"page": {"1"}, "page_size": {"1"}},
		AccessToken: accessToken,
	})
	if err != nil {
		return err
	}
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	return nil
}

// Ping checks that the backend is reachable
func (c *BackendClient) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.authURL+"/ping", nil)
	if err != nil {
		return fmt.Errorf("failed to create ping request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("ping failed: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &BackendError{StatusCode: resp.StatusCode}
	}
	return nil
}

// Forward issues a data request. On 2xx the caller owns and must close the
// response body. Any other status is returned as a *BackendError with the
// body already consumed.
func (c *BackendClient) Forward(ctx context.Context, br BackendRequest) (*http.Response, error) {
	target := c.baseURL + br.Path
	if len(br.Query) > 0 {
		target += "?" + br.Query.Encode()
	}

	var body io.Reader
	if br.Body != nil {
		body = bytes.NewReader(br.Body)
	}

	req, err := http.NewRequestWithContext(ctx, br.Method, target, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if br.AccessToken != "" {
		req.Header.Set("Authorization", "Bearer "+br.AccessToken)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("backend request failed: %w", err)
	}

	if resp.StatusCode >= 300 {
		defer resp.Body.Close()
		return nil, readBackendError(resp)
	}

	return resp, nil
}

// postJSON sends payload to an auth endpoint and decodes the answer into out (if non-nil)
func (c *BackendClient) postJSON(ctx context.Context, target string, payload, out any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("backend request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return readBackendError(resp)
	}

	if out == nil {
		io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to parse backend response: %w", err)
	}
	return nil
}

// readBackendError captures status, body and the Django-style "detail" message
func readBackendError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	be := &BackendError{StatusCode: resp.StatusCode, Body: body}

	var payload struct {
		Detail any `json:"detail"`
	}
	if json.Unmarshal(body, &payload) == nil {
		if s, ok := payload.Detail.(string); ok {
			be.Detail = s
		}
	}

	return be
}
