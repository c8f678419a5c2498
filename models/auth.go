// ABOUTME: Auth request/response models for the cookie session proxy
// ABOUTME: Defines login, session and user identity API contracts

package models

// LoginRequest represents tenant credentials for authentication
type LoginRequest struct {
	Database string `json:"database"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Complete reports whether all required login fields are present
func (r LoginRequest) Complete() bool {
	return r.Database != "" && r.Email != "" && r.Password != ""
}

// TokenPair is the upstream tenant-login response
type TokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// TokenPresence reports which auth cookies a request carried
type TokenPresence struct {
	Access  bool `json:"access"`
	Refresh bool `json:"refresh"`
}

// SessionInfo is derived entirely from cookie presence; nothing is stored server-side
type SessionInfo struct {
	IsAuthenticated bool          `json:"isAuthenticated"`
	SelectedDB      string        `json:"selectedDb"`
	HasTokens       TokenPresence `json:"hasTokens"`
}

// UserIdentity is display data decoded from the access token.
// It is advisory only and must never drive an authorization decision.
type UserIdentity struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	ID       string `json:"id"`
	Role     string `json:"role"`
}

// UserResponse wraps the current user. User is either a UserIdentity or the
// upstream /user/ body relayed verbatim.
type UserResponse struct {
	User any `json:"user"`
}

// DatabaseSelection is the body of POST /api/data/database
type DatabaseSelection struct {
	SelectedDB string `json:"selectedDb"`
}

// DatabaseResponse describes the current tenant selection
type DatabaseResponse struct {
	Success    bool     `json:"success,omitempty"`
	SelectedDB string   `json:"selectedDb"`
	Databases  []Tenant `json:"databases,omitempty"`
}

// Tenant is a backend database the dashboard can query
type Tenant struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Tenants lists the databases offered by the tenant selector.
// The list is informational; the selection cookie is not validated against it.
var Tenants = []Tenant{
	{ID: "allyalign", Name: "Allyalign"},
	{ID: "core", Name: "Core"},
	{ID: "humana", Name: "Humana"},
	{ID: "bcbs_az", Name: "BCBS Arizona"},
	{ID: "centene", Name: "Centene"},
	{ID: "uhc", Name: "UHC"},
	{ID: "aarp", Name: "AARP"},
	{ID: "aetna", Name: "Aetna"},
}

// TenantName returns the display name for a tenant id, or the id itself
func TenantName(id string) string {
	for _, t := range Tenants {
		if t.ID == id {
			return t.Name
		}
	}
	return id
}
