// Package weatherapi is the HTTP client for the external weather and
// air-quality API that feeds the dashboard.
package weatherapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"climatebuddy/internal/domain"
)

const defaultTimeout = 10 * time.Second

// Client fetches dashboard data from a remote weather API. The API is
// treated as an opaque collaborator returning JSON shaped per the dashboard
// types.
type Client struct {
	baseURL string
	http    *http.Client
}

// Ensure the provider port is met.
var _ domain.WeatherProvider = (*Client)(nil)

// New creates a client for the API at baseURL (e.g. "http://localhost:8000/api").
// A non-positive timeout falls back to the default.
func New(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
	}
}

// FetchDashboard retrieves current weather, air quality, charts, and
// forecast for the city over the last days days.
func (c *Client) FetchDashboard(ctx context.Context, city string, days int) (*domain.DashboardData, error) {
	endpoint := fmt.Sprintf("%s/dashboard/data?city=%s&days=%d&data_type=all",
		c.baseURL, url.QueryEscape(city), days)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("weather api: status %d", resp.StatusCode)
	}

	var data domain.DashboardData
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, fmt.Errorf("weather api: decode: %w", err)
	}
	if data.City == "" {
		data.City = city
	}
	return &data, nil
}
