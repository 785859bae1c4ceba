// Package geoip resolves client IPs to a coarse location via the ip-api.com
// JSON endpoint.
package geoip

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"hub-backend/internal/shared/metrics"
)

// Location is the subset of ip-api.com fields the profile endpoint exposes.
type Location struct {
	Status      string `json:"status"`
	City        string `json:"city"`
	RegionName  string `json:"regionName"`
	Country     string `json:"country"`
	CountryCode string `json:"countryCode"`
	Timezone    string `json:"timezone"`
}

// Resolved reports whether the lookup succeeded. Reserved-range and invalid
// IPs come back with status "fail".
func (l Location) Resolved() bool {
	return l.Status == "success"
}

// Label renders the "City, Country" string attached to profiles.
func (l Location) Label() string {
	return l.City + ", " + l.Country
}

// Client queries the geolocation service. Lookups are best effort; callers
// drop the result on any failure.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL:    baseURL,
		HTTPClient: &http.Client{Timeout: 5 * time.Second},
	}
}

// Lookup resolves a single IP.
func (c *Client) Lookup(ctx context.Context, ip string) (Location, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"/json/"+ip, nil)
	if err != nil {
		return Location{}, err
	}

	start := time.Now()
	resp, err := c.HTTPClient.Do(req)
	metrics.ObserveProviderRequest("geoip", err, time.Since(start))
	if err != nil {
		return Location{}, fmt.Errorf("geoip request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Location{}, fmt.Errorf("geoip returned status %d", resp.StatusCode)
	}

	var loc Location
	if err := json.NewDecoder(resp.Body).Decode(&loc); err != nil {
		return Location{}, fmt.Errorf("parse geoip response: %w", err)
	}
	return loc, nil
}
