// ABOUTME: Tests for the login, logout, session and user commands

package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/jacksmith315/homealign-dashboard/cli/internal/client"
	"github.com/jacksmith315/homealign-dashboard/models"
)

func loginHandler(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	json.NewDecoder(r.Body).Decode(&req)
	if req.Password != "secret" {
		respondJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Invalid credentials", Code: 401})
		return
	}
	http.SetCookie(w, &http.Cookie{Name: "access_token", Value: "a1", Path: "/", MaxAge: 3600, HttpOnly: true})
	http.SetCookie(w, &http.Cookie{Name: "refresh_token", Value: "r1", Path: "/", MaxAge: 604800, HttpOnly: true})
	http.SetCookie(w, &http.Cookie{Name: "selected_db", Value: req.Database, Path: "/", MaxAge: 2592000})
	respondJSON(w, http.StatusOK, models.SuccessResponse{Success: true})
}

func TestLogin_PersistsSessionForNextInvocation(t *testing.T) {
	server := proxyStub(t, map[string]http.HandlerFunc{
		"POST /api/auth/login": loginHandler,
	})
	useProxy(t, server)

	c, err := newClient()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var buf bytes.Buffer
	err = runLogin(context.Background(), &buf, c, credentials{Tenant: "humana", Email: "nurse@homealign.test", Password: "secret"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(buf.String(), "Logged in to Humana as nurse@homealign.test") {
		t.Errorf("unexpected output %q", buf.String())
	}

	next, err := newClient()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := next.RequireSession(); err != nil {
		t.Errorf("expected saved session to be reloaded, got %v", err)
	}
}

func TestLogin_InvalidCredentials(t *testing.T) {
	server := proxyStub(t, map[string]http.HandlerFunc{
		"POST /api/auth/login": loginHandler,
	})

	var buf bytes.Buffer
	err := runLogin(context.Background(), &buf, client.New(server.URL), credentials{Tenant: "core", Email: "x@y.z", Password: "nope"})
	if err == nil || err.Error() != "Invalid credentials" {
		t.Errorf("expected Invalid credentials, got %v", err)
	}
	if buf.Len() != 0 {
		t.Errorf("expected no output on failure, got %q", buf.String())
	}
}

func TestLoginCommand_PromptsForMissingFields(t *testing.T) {
	server := proxyStub(t, map[string]http.HandlerFunc{
		"POST /api/auth/login": loginHandler,
	})
	useProxy(t, server)
	t.Setenv("HOMEALIGN_PASSWORD", "")

	orig := promptCredentials
	var prompted credentials
	promptCredentials = func(c *credentials) error {
		prompted = *c
		c.Email = "admin@homealign.test"
		c.Password = "secret"
		return nil
	}

	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetArgs([]string{"login", "--tenant", "core"})
	defer func() {
		promptCredentials = orig
		rootCmd.SetOut(nil)
		rootCmd.SetArgs(nil)
		loginCreds = credentials{}
	}()

	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if prompted.Tenant != "core" || prompted.Email != "" || prompted.Password != "" {
		t.Errorf("expected prompt to receive only the tenant, got %+v", prompted)
	}
	if !strings.Contains(buf.String(), "Logged in to Core as admin@homealign.test") {
		t.Errorf("unexpected output %q", buf.String())
	}
}

func TestLogout_ReportsProxyFailure(t *testing.T) {
	server := proxyStub(t, map[string]http.HandlerFunc{
		"POST /api/auth/logout": func(w http.ResponseWriter, _ *http.Request) {
			respondJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "boom", Code: 500})
		},
	})

	var buf bytes.Buffer
	if err := runLogout(context.Background(), &buf, client.New(server.URL)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(buf.String(), "Logged out locally") {
		t.Errorf("unexpected output %q", buf.String())
	}
}

func TestSession_JSON(t *testing.T) {
	server := proxyStub(t, map[string]http.HandlerFunc{
		"GET /api/auth/session": func(w http.ResponseWriter, _ *http.Request) {
			respondJSON(w, http.StatusOK, models.SessionInfo{
				IsAuthenticated: true,
				SelectedDB:      "uhc",
				HasTokens:       models.TokenPresence{Access: true, Refresh: true},
			})
		},
	})
	jsonOutput = true
	defer func() { jsonOutput = false }()

	var buf bytes.Buffer
	if err := runSession(context.Background(), &buf, client.New(server.URL)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var info models.SessionInfo
	if err := json.Unmarshal(buf.Bytes(), &info); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if !info.IsAuthenticated || info.SelectedDB != "uhc" {
		t.Errorf("unexpected session %+v", info)
	}
}

func TestSession_Human(t *testing.T) {
	server := proxyStub(t, map[string]http.HandlerFunc{
		"GET /api/auth/session": func(w http.ResponseWriter, _ *http.Request) {
			respondJSON(w, http.StatusOK, models.SessionInfo{SelectedDB: "bcbs_az"})
		},
	})

	var buf bytes.Buffer
	if err := runSession(context.Background(), &buf, client.New(server.URL)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, want := range []string{"signed out", "BCBS Arizona (bcbs_az)"} {
		if !strings.Contains(buf.String(), want) {
			t.Errorf("expected output to contain %q, got %q", want, buf.String())
		}
	}
}

func TestUser_RequiresSession(t *testing.T) {
	var buf bytes.Buffer
	err := runUser(context.Background(), &buf, client.New("http://127.0.0.1:1"))
	if !errors.Is(err, client.ErrNotAuthenticated) {
		t.Errorf("expected ErrNotAuthenticated, got %v", err)
	}
}
