// ABOUTME: Health check call for the dashboard proxy
// ABOUTME: Returns the report for both healthy and degraded answers

package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/jacksmith315/homealign-dashboard/models"
)

// Health calls /api/health. A degraded proxy answers 503 with a full report,
// so that status is decoded rather than treated as an error.
func (c *Client) Health(ctx context.Context) (*models.HealthResponse, error) {
	resp, err := c.send(ctx, http.MethodGet, "/api/health", nil, nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusServiceUnavailable {
		return nil, handleErrorResponse(resp)
	}

	var health models.HealthResponse
	if err := json.NewDecoder(resp.Body).Decode(&health); err != nil {
		return nil, fmt.Errorf("invalid response from proxy: %w", err)
	}
	return &health, nil
}
