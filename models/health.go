// ABOUTME: Health check response model
// ABOUTME: Aggregates proxy, session and upstream backend reachability

package models

import "time"

// Health statuses
const (
	HealthStatusHealthy  = "healthy"
	HealthStatusDegraded = "degraded"
)

// HealthChecks holds the individual reachability results
type HealthChecks struct {
	Proxy      bool `json:"proxy"`
	Session    bool `json:"session"`
	BackendAPI bool `json:"backendApi"`
}

// AllPass reports whether every check succeeded
func (c HealthChecks) AllPass() bool {
	return c.Proxy && c.Session && c.BackendAPI
}

// HealthResponse is returned by GET /api/health
type HealthResponse struct {
	Status      string       `json:"status"`
	Timestamp   time.Time    `json:"timestamp"`
	Version     string       `json:"version"`
	Environment string       `json:"environment"`
	Checks      HealthChecks `json:"checks"`
}
