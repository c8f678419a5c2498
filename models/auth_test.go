// ABOUTME: Tests for auth and entity models
// ABOUTME: Verifies required-field checks and tenant/entity lookups

package models

import (
	"encoding/json"
	"testing"
)

func TestLoginRequest_Complete(t *testing.T) {
	tests := []struct {
		name string
		req  LoginRequest
		want bool
	}{
		{"all fields", LoginRequest{Database: "core", Email: "a@b.com", Password: "x"}, true},
		{"missing database", LoginRequest{Email: "a@b.com", Password: "x"}, false},
		{"missing email", LoginRequest{Database: "core", Password: "x"}, false},
		{"missing password", LoginRequest{Database: "core", Email: "a@b.com"}, false},
		{"empty", LoginRequest{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.req.Complete(); got != tt.want {
				t.Errorf("Complete() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSessionInfo_JSONShape(t *testing.T) {
	info := SessionInfo{
		IsAuthenticated: true,
		SelectedDB:      "core",
		HasTokens:       TokenPresence{Access: true, Refresh: true},
	}

	data, err := json.Marshal(info)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}

	want := `{"isAuthenticated":true,"selectedDb":"core","hasTokens":{"access":true,"refresh":true}}`
	if string(data) != want {
		t.Errorf("got %s, want %s", data, want)
	}
}

func TestTenantName(t *testing.T) {
	if got := TenantName("bcbs_az"); got != "BCBS Arizona" {
		t.Errorf("TenantName(bcbs_az) = %q", got)
	}
	if got := TenantName("unknown"); got != "unknown" {
		t.Errorf("TenantName(unknown) = %q, want id echoed back", got)
	}
}

func TestIsEntity(t *testing.T) {
	for _, e := range Entities {
		if !IsEntity(e) {
			t.Errorf("IsEntity(%q) = false", e)
		}
	}
	for _, e := range []string{"", "users", "lookup", "database", "Patients"} {
		if IsEntity(e) {
			t.Errorf("IsEntity(%q) = true", e)
		}
	}
}

func TestHealthChecks_AllPass(t *testing.T) {
	if !(HealthChecks{Proxy: true, Session: true, BackendAPI: true}).AllPass() {
		t.Error("expected all checks to pass")
	}
	if (HealthChecks{Proxy: true, Session: true}).AllPass() {
		t.Error("expected degraded when backend is unreachable")
	}
}

func TestPaginatedResponse_Decode(t *testing.T) {
	body := `{"count":42,"next":"http://x/patients/?page=3","previous":null,"results":[{"id":7,"firstname":"Ada","lastname":"Lovelace"}]}`

	var page PaginatedResponse[Patient]
	if err := json.Unmarshal([]byte(body), &page); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if page.Count != 42 || page.Next == nil || page.Previous != nil {
		t.Errorf("unexpected envelope: %+v", page)
	}
	if len(page.Results) != 1 || page.Results[0].FirstName != "Ada" {
		t.Errorf("unexpected results: %+v", page.Results)
	}
}
