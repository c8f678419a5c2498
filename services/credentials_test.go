// ABOUTME: Tests for the cookie credential store
// ABOUTME: Verifies cookie names, lifetimes, flags and session derivation

package services

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/jacksmith315/homealign-dashboard/models"
)

func findCookie(cookies []*http.Cookie, name string) *http.Cookie {
	for _, c := range cookies {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func TestCredentialStore_ReadDefaultsTenant(t *testing.T) {
	store := NewCredentialStore(false, "allyalign")
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	creds := store.Read(req)
	if creds.SelectedDB != "allyalign" {
		t.Errorf("Expected default tenant, got %q", creds.SelectedDB)
	}
	if creds.Authenticated() {
		t.Error("Expected unauthenticated without cookies")
	}
}

func TestCredentialStore_Read(t *testing.T) {
	store := NewCredentialStore(false, "allyalign")
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: AccessTokenCookie, Value: "A"})
	req.AddCookie(&http.Cookie{Name: RefreshTokenCookie, Value: "R"})
	req.AddCookie(&http.Cookie{Name: SelectedDBCookie, Value: "core"})

	creds := store.Read(req)
	if creds.AccessToken != "A" || creds.RefreshToken != "R" || creds.SelectedDB != "core" {
		t.Errorf("Unexpected credentials: %+v", creds)
	}
	if !creds.Authenticated() {
		t.Error("Expected authenticated with both tokens")
	}
}

func TestCredentials_Session(t *testing.T) {
	tests := []struct {
		name  string
		creds Credentials
		want  models.SessionInfo
	}{
		{
			name:  "both tokens",
			creds: Credentials{AccessToken: "a", RefreshToken: "r", SelectedDB: "core"},
			want:  models.SessionInfo{IsAuthenticated: true, SelectedDB: "core", HasTokens: models.TokenPresence{Access: true, Refresh: true}},
		},
		{
			name:  "refresh only",
			creds: Credentials{RefreshToken: "r", SelectedDB: "core"},
			want:  models.SessionInfo{IsAuthenticated: false, SelectedDB: "core", HasTokens: models.TokenPresence{Refresh: true}},
		},
		{
			name:  "access only",
			creds: Credentials{AccessToken: "a", SelectedDB: "core"},
			want:  models.SessionInfo{IsAuthenticated: false, SelectedDB: "core", HasTokens: models.TokenPresence{Access: true}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.creds.Session(); got != tt.want {
				t.Errorf("Session() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestCredentialStore_SetTokens(t *testing.T) {
	store := NewCredentialStore(true, "allyalign")
	rec := httptest.NewRecorder()

	store.SetTokens(rec, &models.TokenPair{Access: "A.B.C", Refresh: "D.E.F"})

	cookies := rec.Result().Cookies()
	access := findCookie(cookies, AccessTokenCookie)
	refresh := findCookie(cookies, RefreshTokenCookie)
	if access == nil || refresh == nil {
		t.Fatalf("Expected both token cookies, got %v", cookies)
	}

	if access.Value != "A.B.C" || access.MaxAge != 3600 {
		t.Errorf("Unexpected access cookie: %+v", access)
	}
	if refresh.Value != "D.E.F" || refresh.MaxAge != 604800 {
		t.Errorf("Unexpected refresh cookie: %+v", refresh)
	}
	for _, c := range []*http.Cookie{access, refresh} {
		if !c.HttpOnly {
			t.Errorf("%s should be HttpOnly", c.Name)
		}
		if !c.Secure {
			t.Errorf("%s should be Secure", c.Name)
		}
		if c.SameSite != http.SameSiteLaxMode {
			t.Errorf("%s should be SameSite=Lax", c.Name)
		}
		if c.Path != "/" {
			t.Errorf("%s should have Path=/", c.Name)
		}
	}
}

func TestCredentialStore_SetTenantIsClientReadable(t *testing.T) {
	store := NewCredentialStore(false, "allyalign")
	rec := httptest.NewRecorder()

	store.SetTenant(rec, "humana")

	c := findCookie(rec.Result().Cookies(), SelectedDBCookie)
	if c == nil {
		t.Fatal("Expected selected_db cookie")
	}
	if c.HttpOnly {
		t.Error("selected_db must be readable by client script")
	}
	if c.MaxAge != 2592000 {
		t.Errorf("Expected 30 day lifetime, got %d", c.MaxAge)
	}
	if c.Secure {
		t.Error("Expected Secure=false outside production")
	}
}

func TestCredentialStore_ClearAll(t *testing.T) {
	store := NewCredentialStore(false, "allyalign")
	rec := httptest.NewRecorder()

	store.ClearAll(rec)

	header := rec.Header().Values("Set-Cookie")
	if len(header) != 3 {
		t.Fatalf("Expected 3 Set-Cookie headers, got %d: %v", len(header), header)
	}
	for _, name := range []string{AccessTokenCookie, RefreshTokenCookie, SelectedDBCookie} {
		c := findCookie(rec.Result().Cookies(), name)
		if c == nil {
			t.Fatalf("Expected %s to be cleared", name)
		}
		if c.Value != "" || c.MaxAge >= 0 {
			t.Errorf("Expected %s expired, got %+v", name, c)
		}
	}
}
