package api

import (
	"context"
	"net/http"
)

// Dashboard fetches the aggregate counters shown on the dashboard screen.
func (c *Client) Dashboard(ctx context.Context) (*DashboardStats, error) {
	var stats DashboardStats
	if err := c.do(ctx, http.MethodGet, "/api/dashboard", nil, nil, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

// Health probes the backend health endpoint. It reports degraded services
// without failing the call; only transport and 5xx failures surface as errors.
func (c *Client) Health(ctx context.Context) (*HealthReport, error) {
	var report HealthReport
	if err := c.do(ctx, http.MethodGet, "/health", nil, nil, &report); err != nil {
		return nil, err
	}
	return &report, nil
}
