// ABOUTME: Authenticated request wrapper with a single refresh-and-retry on 401
// ABOUTME: Concurrent 401s share one refresh; a failed refresh logs out once

package client

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/url"
)

// Cookie names set by the proxy's credential store
const (
	accessCookie  = "access_token"
	refreshCookie = "refresh_token"
)

// ErrAuthenticationFailed means the session expired and could not be refreshed.
// The client has already logged out when it is returned.
var ErrAuthenticationFailed = errors.New("authentication failed: please log in again")

// ErrNotAuthenticated means no session cookies are held at all
var ErrNotAuthenticated = errors.New("not logged in: run 'homealign login' first")

// RequireSession fails fast when neither an access nor a refresh cookie is held
func (c *Client) RequireSession() error {
	if c.jar.Has(c.base, accessCookie) || c.jar.Has(c.base, refreshCookie) {
		return nil
	}
	return ErrNotAuthenticated
}

// do sends the request and, on 401, refreshes the access token and replays
// the request once with the same body. Statuses other than the first 401,
// including a 401 on the replay, are returned to the caller unchanged.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body []byte) (*http.Response, error) {
	epoch := c.sessionEpoch.Load()
	resp, err := c.send(ctx, method, path, query, body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusUnauthorized {
		return resp, nil
	}
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()

	if err := c.recoverSession(ctx, epoch); err != nil {
		return nil, err
	}

	return c.send(ctx, method, path, query, body)
}

// recoverSession runs at most one refresh at a time for all callers that hit
// a 401. A caller whose request went out before the last refresh or forced
// logout (epoch is stale) reuses that outcome instead of refreshing again.
func (c *Client) recoverSession(ctx context.Context, epoch uint64) error {
	_, err, _ := c.refreshGroup.Do("refresh", func() (any, error) {
		if c.sessionEpoch.Load() != epoch {
			if c.auth.Snapshot().State == Authenticated {
				return nil, nil
			}
			return nil, ErrAuthenticationFailed
		}

		if err := c.Refresh(ctx); err != nil {
			// cancelled by the caller: the session may still be valid
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			c.forceLogout(ctx)
			c.sessionEpoch.Add(1)
			return nil, ErrAuthenticationFailed
		}
		c.sessionEpoch.Add(1)
		return nil, nil
	})
	return err
}

// forceLogout ends the session locally and on the proxy, then notifies the hook
func (c *Client) forceLogout(ctx context.Context) {
	c.Logout(ctx)
	if c.onAuthFailure != nil {
		c.onAuthFailure()
	}
}
