// ABOUTME: Periodic session check that keeps the AuthContext current
// ABOUTME: Refreshes the access token when only the refresh cookie remains

package client

import (
	"context"
	"time"
)

// DefaultMonitorInterval is how often RunSessionMonitor checks the session
const DefaultMonitorInterval = 5 * time.Minute

// CheckSession asks the proxy which cookies are present and updates the auth
// context. With a full session the user is fetched; with only a refresh
// token left, the access token is refreshed first.
func (c *Client) CheckSession(ctx context.Context) (Snapshot, error) {
	info, err := c.Session(ctx)
	if err != nil {
		c.auth.Apply(SessionChecked{Authenticated: false})
		return c.auth.Snapshot(), err
	}

	authenticated := info.IsAuthenticated
	if !info.HasTokens.Access && info.HasTokens.Refresh {
		authenticated = c.Refresh(ctx) == nil
	}
	c.auth.Apply(SessionChecked{Authenticated: authenticated, Tenant: info.SelectedDB})

	if authenticated {
		if _, err := c.User(ctx); err != nil {
			return c.auth.Snapshot(), err
		}
	}
	return c.auth.Snapshot(), nil
}

// RunSessionMonitor checks the session immediately and then every interval
// until ctx is cancelled. report, if non-nil, receives each result.
func (c *Client) RunSessionMonitor(ctx context.Context, interval time.Duration, report func(Snapshot, error)) {
	if interval <= 0 {
		interval = DefaultMonitorInterval
	}

	check := func() {
		snap, err := c.CheckSession(ctx)
		if report != nil && ctx.Err() == nil {
			report(snap, err)
		}
	}

	check()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			check()
		}
	}
}
