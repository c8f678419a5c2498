// ABOUTME: Cookie-backed credential store for the session proxy
// ABOUTME: Single place that reads and writes access_token, refresh_token and selected_db

package services

import (
	"net/http"

	"github.com/jacksmith315/homealign-dashboard/models"
)

// Cookie names and lifetimes (seconds)
const (
	AccessTokenCookie  = "access_token"
	RefreshTokenCookie = "refresh_token"
	SelectedDBCookie   = "selected_db"

	AccessTokenMaxAge  = 60 * 60
	RefreshTokenMaxAge = 60 * 60 * 24 * 7
	SelectedDBMaxAge   = 60 * 60 * 24 * 30
)

// Credentials is what a single request carries in its cookies
type Credentials struct {
	AccessToken  string
	RefreshToken string
	SelectedDB   string
}

// Authenticated reports whether both tokens are present
func (c Credentials) Authenticated() bool {
	return c.AccessToken != "" && c.RefreshToken != ""
}

// Session derives the session view from cookie presence alone
func (c Credentials) Session() models.SessionInfo {
	return models.SessionInfo{
		IsAuthenticated: c.Authenticated(),
		SelectedDB:      c.SelectedDB,
		HasTokens: models.TokenPresence{
			Access:  c.AccessToken != "",
			Refresh: c.RefreshToken != "",
		},
	}
}

// CredentialStore reads and writes the auth cookies. Tokens live only in the
// browser; the proxy never keeps a copy.
type CredentialStore struct {
	secure        bool
	defaultTenant string
}

// NewCredentialStore creates a store. secure sets the Secure flag on every cookie.
func NewCredentialStore(secure bool, defaultTenant string) *CredentialStore {
	return &CredentialStore{secure: secure, defaultTenant: defaultTenant}
}

// Read extracts credentials from the request. SelectedDB falls back to the default tenant.
func (s *CredentialStore) Read(r *http.Request) Credentials {
	creds := Credentials{
		AccessToken:  cookieValue(r, AccessTokenCookie),
		RefreshToken: cookieValue(r, RefreshTokenCookie),
		SelectedDB:   cookieValue(r, SelectedDBCookie),
	}
	if creds.SelectedDB == "" {
		creds.SelectedDB = s.defaultTenant
	}
	return creds
}

// SetTokens stores a freshly issued token pair
func (s *CredentialStore) SetTokens(w http.ResponseWriter, pair *models.TokenPair) {
	s.SetAccessToken(w, pair.Access)
	http.SetCookie(w, s.cookie(RefreshTokenCookie, pair.Refresh, RefreshTokenMaxAge, true))
}

// SetAccessToken replaces only the access token
func (s *CredentialStore) SetAccessToken(w http.ResponseWriter, token string) {
	http.SetCookie(w, s.cookie(AccessTokenCookie, token, AccessTokenMaxAge, true))
}

// SetTenant stores the tenant selection. The cookie is readable by client
// script and is not a security control.
func (s *CredentialStore) SetTenant(w http.ResponseWriter, tenant string) {
	http.SetCookie(w, s.cookie(SelectedDBCookie, tenant, SelectedDBMaxAge, false))
}

// ClearTokens expires both token cookies
func (s *CredentialStore) ClearTokens(w http.ResponseWriter) {
	http.SetCookie(w, s.cookie(AccessTokenCookie, "", -1, true))
	http.SetCookie(w, s.cookie(RefreshTokenCookie, "", -1, true))
}

// ClearAll expires both token cookies and the tenant selection
func (s *CredentialStore) ClearAll(w http.ResponseWriter) {
	s.ClearTokens(w)
	http.SetCookie(w, s.cookie(SelectedDBCookie, "", -1, false))
}

// cookie builds a Path=/ SameSite=Lax cookie. maxAge < 0 deletes it (Max-Age=0).
func (s *CredentialStore) cookie(name, value string, maxAge int, httpOnly bool) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: httpOnly,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
	}
}

func cookieValue(r *http.Request, name string) string {
	c, err := r.Cookie(name)
	if err != nil {
		return ""
	}
	return c.Value
}
