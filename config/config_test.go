package config

import (
	"strings"
	"testing"
	"time"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Cleanup(withCleanEnv(t, nil))

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if cfg.Port != "8080" {
		t.Errorf("Expected default port 8080, got %s", cfg.Port)
	}
	if cfg.BackendAPIURL != "http://localhost:8000" {
		t.Errorf("Expected default backend URL, got %s", cfg.BackendAPIURL)
	}
	if cfg.BackendAPIBaseURL != "http://localhost:8000/core-api" {
		t.Errorf("Expected base URL derived from backend URL, got %s", cfg.BackendAPIBaseURL)
	}
	if cfg.BackendTimeout != 30*time.Second {
		t.Errorf("Expected 30s backend timeout, got %v", cfg.BackendTimeout)
	}
	if cfg.HealthTimeout != 5*time.Second {
		t.Errorf("Expected 5s health timeout, got %v", cfg.HealthTimeout)
	}
	if cfg.DefaultTenant != "allyalign" {
		t.Errorf("Expected default tenant allyalign, got %s", cfg.DefaultTenant)
	}
	if cfg.CookieSecure {
		t.Error("Expected insecure cookies outside production")
	}
	if !cfg.RateLimitEnabled {
		t.Error("Expected rate limiting enabled by default")
	}
	if !cfg.TrustProxy {
		t.Error("Expected X-Forwarded-For trusted by default")
	}
}

func TestLoadConfig_ProductionSecureCookies(t *testing.T) {
	t.Cleanup(withCleanEnv(t, map[string]string{"APP_ENV": "production"}))

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if !cfg.IsProduction() {
		t.Error("Expected production mode")
	}
	if !cfg.CookieSecure {
		t.Error("Expected Secure cookies in production")
	}
}

func TestLoadConfig_CookieSecureOverride(t *testing.T) {
	t.Cleanup(withCleanEnv(t, map[string]string{
		"APP_ENV":       "production",
		"COOKIE_SECURE": "false",
	}))

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if cfg.CookieSecure {
		t.Error("Expected COOKIE_SECURE=false to win over APP_ENV")
	}
}

func TestLoadConfig_TrustProxyOff(t *testing.T) {
	t.Cleanup(withCleanEnv(t, map[string]string{"TRUST_PROXY": "false"}))

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if cfg.TrustProxy {
		t.Error("Expected TRUST_PROXY=false to disable forwarded addresses")
	}
}

func TestLoadConfig_TrimsTrailingSlash(t *testing.T) {
	t.Cleanup(withCleanEnv(t, map[string]string{
		"BACKEND_API_URL":      "https://api.example.com/",
		"BACKEND_API_BASE_URL": "https://api.example.com/core-api/",
	}))

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if cfg.BackendAPIURL != "https://api.example.com" {
		t.Errorf("got %s", cfg.BackendAPIURL)
	}
	if cfg.BackendAPIBaseURL != "https://api.example.com/core-api" {
		t.Errorf("got %s", cfg.BackendAPIBaseURL)
	}
}

func TestLoadConfig_InvalidValues(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		wantErr string
	}{
		{"bad scheme", map[string]string{"BACKEND_API_URL": "ftp://example.com"}, "BACKEND_API_URL"},
		{"missing host", map[string]string{"BACKEND_API_BASE_URL": "http://"}, "BACKEND_API_BASE_URL"},
		{"zero timeout", map[string]string{"BACKEND_TIMEOUT": "0"}, "BACKEND_TIMEOUT"},
		{"zero health timeout", map[string]string{"HEALTH_TIMEOUT": "0"}, "HEALTH_TIMEOUT"},
		{"auth limit too low", map[string]string{"RATE_LIMIT_AUTH": "0"}, "RATE_LIMIT_AUTH"},
		{"default limit too high", map[string]string{"RATE_LIMIT_DEFAULT": "10001"}, "RATE_LIMIT_DEFAULT"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Cleanup(withCleanEnv(t, tt.env))

			_, err := Load()
			if err == nil {
				t.Fatal("Expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Expected error mentioning %s, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestLoadConfig_CORSOrigins(t *testing.T) {
	t.Cleanup(withCleanEnv(t, map[string]string{
		"CORS_ALLOWED_ORIGINS": " https://a.example.com , ,https://b.example.com",
	}))

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(cfg.CORSAllowedOrigins) != 2 {
		t.Fatalf("Expected 2 origins, got %v", cfg.CORSAllowedOrigins)
	}
	if cfg.CORSAllowedOrigins[0] != "https://a.example.com" {
		t.Errorf("Expected trimmed origin, got %q", cfg.CORSAllowedOrigins[0])
	}
}

func TestLoadConfig_DotEnvFile(t *testing.T) {
	t.Cleanup(withCleanEnv(t, map[string]string{"PORT": "9999"}))

	writeDotEnv(t, "DEFAULT_TENANT=humana\nPORT=7777\n")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if cfg.DefaultTenant != "humana" {
		t.Errorf("Expected tenant from .env, got %s", cfg.DefaultTenant)
	}
	if cfg.Port != "9999" {
		t.Errorf("Expected environment to win over .env, got %s", cfg.Port)
	}
}
