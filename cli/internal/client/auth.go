// ABOUTME: Session proxy calls: login, logout, refresh, session and user
// ABOUTME: Each call keeps the AuthContext in step with the proxy's answer

package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/jacksmith315/homealign-dashboard/models"
)

// User is the signed-in user's display identity. IDs arrive as strings from
// decoded tokens and as numbers from the backend's /user/ endpoint.
type User struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	ID       FlexID `json:"id"`
	Role     string `json:"role"`
}

// FlexID accepts a JSON string or number
type FlexID string

func (f *FlexID) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		*f = ""
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*f = FlexID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("id must be a string or number: %w", err)
	}
	*f = FlexID(n.String())
	return nil
}

// Login signs in to tenant with email and password
func (c *Client) Login(ctx context.Context, tenant, email, password string) error {
	body, err := encodeBody(models.LoginRequest{Database: tenant, Email: email, Password: password})
	if err != nil {
		return err
	}

	resp, err := c.send(ctx, http.MethodPost, "/api/auth/login", nil, body)
	if err != nil {
		return err
	}
	if err := decodeResponse(resp, nil); err != nil {
		return err
	}

	c.auth.Apply(LoginSucceeded{Tenant: tenant})
	return nil
}

// Logout ends the session on the proxy (best effort) and always forgets
// local cookies
func (c *Client) Logout(ctx context.Context) error {
	var logoutErr error
	resp, err := c.send(ctx, http.MethodPost, "/api/auth/logout", nil, nil)
	if err != nil {
		logoutErr = err
	} else {
		logoutErr = decodeResponse(resp, nil)
	}

	c.jar.Clear()
	c.auth.Apply(LoggedOut{})
	return logoutErr
}

// Refresh asks the proxy for a new access token
func (c *Client) Refresh(ctx context.Context) error {
	resp, err := c.send(ctx, http.MethodPost, "/api/auth/refresh", nil, nil)
	if err != nil {
		if ctx.Err() == nil {
			c.auth.Apply(RefreshFailed{})
		}
		return err
	}
	if err := decodeResponse(resp, nil); err != nil {
		c.auth.Apply(RefreshFailed{})
		return err
	}

	c.auth.Apply(RefreshSucceeded{})
	return nil
}

// Session reports what the proxy sees in the cookies. It never triggers a refresh.
func (c *Client) Session(ctx context.Context) (*models.SessionInfo, error) {
	resp, err := c.send(ctx, http.MethodGet, "/api/auth/session", nil, nil)
	if err != nil {
		return nil, err
	}

	var info models.SessionInfo
	if err := decodeResponse(resp, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

// User fetches the signed-in user's identity
func (c *Client) User(ctx context.Context) (*User, error) {
	resp, err := c.do(ctx, http.MethodGet, "/api/auth/user", nil, nil)
	if err != nil {
		return nil, err
	}

	var wrapper struct {
		User User `json:"user"`
	}
	if err := decodeResponse(resp, &wrapper); err != nil {
		return nil, err
	}

	c.auth.SetUser(&wrapper.User)
	return &wrapper.User, nil
}

// GetTenant returns the selected tenant and the tenants on offer
func (c *Client) GetTenant(ctx context.Context) (*models.DatabaseResponse, error) {
	resp, err := c.send(ctx, http.MethodGet, "/api/data/database", nil, nil)
	if err != nil {
		return nil, err
	}

	var db models.DatabaseResponse
	if err := decodeResponse(resp, &db); err != nil {
		return nil, err
	}
	return &db, nil
}

// SetTenant switches the tenant that data calls query
func (c *Client) SetTenant(ctx context.Context, tenant string) error {
	body, err := encodeBody(models.DatabaseSelection{SelectedDB: tenant})
	if err != nil {
		return err
	}

	resp, err := c.send(ctx, http.MethodPost, "/api/data/database", nil, body)
	if err != nil {
		return err
	}
	if err := decodeResponse(resp, nil); err != nil {
		return err
	}

	c.auth.SetTenant(tenant)
	return nil
}

// String renders the ID for display
func (f FlexID) String() string {
	return string(f)
}
