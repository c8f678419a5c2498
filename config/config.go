// ABOUTME: Configuration loader for the dashboard proxy
// ABOUTME: Loads settings from an optional .env file and environment variables with defaults

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	// EnvProduction enables Secure cookies by default
	EnvProduction = "production"

	defaultBackendURL = "http://localhost:8000"
)

type Config struct {
	// Server
	Port               string
	Env                string   // APP_ENV: development, production
	Version            string   // reported by the health endpoint
	CORSAllowedOrigins []string // allowed CORS origins (empty = block all cross-origin)
	CookieSecure       bool     // Secure flag on auth cookies (default: true in production)
	TrustProxy         bool     // key rate limits on X-Forwarded-For (only behind a proxy that overwrites it)

	// Upstream backend
	BackendAPIURL     string        // auth endpoints: tenant-login, tenant-refresh, logout, ping
	BackendAPIBaseURL string        // data endpoints: user, entities, lookups
	BackendTimeout    time.Duration // per-request client timeout
	DefaultTenant     string        // db used when no selected_db cookie is present

	// Health
	HealthTimeout  time.Duration // upstream ping timeout
	HealthCacheTTL time.Duration // how long a ping result is reused

	// Rate Limiting
	RateLimitEnabled bool // Enable rate limiting (default: true)
	RateLimitAuth    int  // Requests per minute for login (default: 5)
	RateLimitRefresh int  // Requests per minute for refresh (default: 10)
	RateLimitDefault int  // Requests per minute for all other endpoints (default: 100)
}

// IsProduction reports whether the proxy runs in production mode
func (c *Config) IsProduction() bool {
	return c.Env == EnvProduction
}

// Load reads configuration. A .env file in the working directory is applied
// first; variables already set in the environment win over it.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	env := getEnv("APP_ENV", "development")
	backendURL := strings.TrimRight(getEnv("BACKEND_API_URL", defaultBackendURL), "/")

	cfg := &Config{
		Port:               getEnv("PORT", "8080"),
		Env:                env,
		Version:            getEnv("APP_VERSION", "1.0.0"),
		CORSAllowedOrigins: getEnvStringList("CORS_ALLOWED_ORIGINS"),
		CookieSecure:       getEnvBool("COOKIE_SECURE", env == EnvProduction),
		TrustProxy:         getEnvBool("TRUST_PROXY", true),

		BackendAPIURL:     backendURL,
		BackendAPIBaseURL: strings.TrimRight(getEnv("BACKEND_API_BASE_URL", backendURL+"/core-api"), "/"),
		BackendTimeout:    time.Duration(getEnvInt("BACKEND_TIMEOUT", 30)) * time.Second,
		DefaultTenant:     getEnv("DEFAULT_TENANT", "allyalign"),

		HealthTimeout:  time.Duration(getEnvInt("HEALTH_TIMEOUT", 5)) * time.Second,
		HealthCacheTTL: time.Duration(getEnvInt("HEALTH_CACHE_TTL", 10)) * time.Second,

		RateLimitEnabled: getEnvBool("RATE_LIMIT_ENABLED", true),
		RateLimitAuth:    getEnvInt("RATE_LIMIT_AUTH", 5),
		RateLimitRefresh: getEnvInt("RATE_LIMIT_REFRESH", 10),
		RateLimitDefault: getEnvInt("RATE_LIMIT_DEFAULT", 100),
	}

	for _, u := range []struct {
		name  string
		value string
	}{
		{"BACKEND_API_URL", cfg.BackendAPIURL},
		{"BACKEND_API_BASE_URL", cfg.BackendAPIBaseURL},
	} {
		if err := validateURL(u.value); err != nil {
			return nil, fmt.Errorf("%s: %w", u.name, err)
		}
	}

	if cfg.BackendTimeout <= 0 {
		return nil, fmt.Errorf("BACKEND_TIMEOUT must be positive")
	}
	if cfg.HealthTimeout <= 0 {
		return nil, fmt.Errorf("HEALTH_TIMEOUT must be positive")
	}
	if cfg.DefaultTenant == "" {
		return nil, fmt.Errorf("DEFAULT_TENANT must not be empty")
	}

	// Validate rate limit values
	for _, rl := range []struct {
		name  string
		value int
	}{
		{"RATE_LIMIT_AUTH", cfg.RateLimitAuth},
		{"RATE_LIMIT_REFRESH", cfg.RateLimitRefresh},
		{"RATE_LIMIT_DEFAULT", cfg.RateLimitDefault},
	} {
		if rl.value < 1 || rl.value > 10000 {
			return nil, fmt.Errorf("%s must be between 1 and 10000, got %d", rl.name, rl.value)
		}
	}

	return cfg, nil
}

func validateURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid URL %q: %w", raw, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("invalid URL %q: scheme must be http or https", raw)
	}
	if u.Host == "" {
		return fmt.Errorf("invalid URL %q: missing host", raw)
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getEnvStringList(key string) []string {
	value := os.Getenv(key)
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
