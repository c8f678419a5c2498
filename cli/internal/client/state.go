// ABOUTME: Explicit auth state for the CLI client
// ABOUTME: Pure transition function plus a mutex-guarded context holding user and tenant

package client

import "sync"

// State is the client's view of whether it holds a usable session
type State int

const (
	Unauthenticated State = iota
	Authenticated
)

func (s State) String() string {
	if s == Authenticated {
		return "authenticated"
	}
	return "unauthenticated"
}

// Event is something that happened to the session
type Event interface {
	isEvent()
}

// LoginSucceeded records a successful tenant login
type LoginSucceeded struct {
	Tenant string
}

// RefreshSucceeded records a new access token
type RefreshSucceeded struct{}

// RefreshFailed records that the refresh token was rejected or unusable
type RefreshFailed struct{}

// LoggedOut records an explicit or forced logout
type LoggedOut struct{}

// SessionChecked carries what /auth/session reported
type SessionChecked struct {
	Authenticated bool
	Tenant        string
}

func (LoginSucceeded) isEvent()   {}
func (RefreshSucceeded) isEvent() {}
func (RefreshFailed) isEvent()    {}
func (LoggedOut) isEvent()        {}
func (SessionChecked) isEvent()   {}

// Transition returns the state after e. It has no side effects.
func Transition(s State, e Event) State {
	switch ev := e.(type) {
	case LoginSucceeded, RefreshSucceeded:
		return Authenticated
	case RefreshFailed, LoggedOut:
		return Unauthenticated
	case SessionChecked:
		if ev.Authenticated {
			return Authenticated
		}
		return Unauthenticated
	default:
		return s
	}
}

// Snapshot is a consistent copy of the auth context
type Snapshot struct {
	State  State
	User   *User
	Tenant string
}

// AuthContext is the only place the client keeps auth state
type AuthContext struct {
	mu     sync.RWMutex
	state  State
	user   *User
	tenant string
}

func NewAuthContext() *AuthContext {
	return &AuthContext{}
}

// Apply feeds e through Transition and updates the user and tenant to match
func (a *AuthContext) Apply(e Event) State {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.state = Transition(a.state, e)

	switch ev := e.(type) {
	case LoginSucceeded:
		a.tenant = ev.Tenant
	case SessionChecked:
		if ev.Tenant != "" {
			a.tenant = ev.Tenant
		}
	case LoggedOut:
		a.tenant = ""
	}
	if a.state == Unauthenticated {
		a.user = nil
	}
	return a.state
}

// SetUser records the signed-in user's identity
func (a *AuthContext) SetUser(u *User) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.user = u
}

// SetTenant records the selected tenant
func (a *AuthContext) SetTenant(tenant string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.tenant = tenant
}

// Snapshot returns a copy of the current state
func (a *AuthContext) Snapshot() Snapshot {
	a.mu.RLock()
	defer a.mu.RUnlock()

	snap := Snapshot{State: a.state, Tenant: a.tenant}
	if a.user != nil {
		u := *a.user
		snap.User = &u
	}
	return snap
}
