// Package github fetches the authenticated user's profile and email
// addresses from the GitHub REST API.
package github

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"hub-backend/internal/shared/metrics"
)

const defaultAPIBaseURL = "https://api.github.com"

// Client calls the GitHub API on behalf of a user token.
type Client struct {
	APIBaseURL string
	HTTPClient *http.Client
}

// NewClient constructs a Client against the production GitHub API.
func NewClient() *Client {
	return &Client{
		APIBaseURL: defaultAPIBaseURL,
		HTTPClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// EmptyProfile is the placeholder returned without a token.
func EmptyProfile() map[string]any {
	return map[string]any{
		"profile": map[string]any{
			"name":  "GitHub User",
			"email": "user@github.com",
		},
	}
}

// EmptyEmails is the placeholder returned without a token.
func EmptyEmails() map[string]any {
	return map[string]any{"emails": []string{"user@github.com"}}
}

// UnknownProfile stands in for the profile on aggregate responses when the
// GitHub call fails.
func UnknownProfile() map[string]any {
	return map[string]any{
		"profile": map[string]any{
			"name":  "Unknown",
			"email": "unknown@example.com",
		},
	}
}

// Profile fetches the authenticated user. An empty token returns the
// placeholder without a network call.
func (c *Client) Profile(ctx context.Context, token string) (map[string]any, error) {
	if token == "" {
		return EmptyProfile(), nil
	}
	raw, err := c.get(ctx, c.APIBaseURL+"/user", token)
	if err != nil {
		return nil, err
	}
	var payload map[string]any
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, fmt.Errorf("parse github profile: %w", err)
	}
	return payload, nil
}

// Emails fetches the authenticated user's email addresses. GitHub returns a
// JSON array on success but an object on error, so the result is untyped.
func (c *Client) Emails(ctx context.Context, token string) (any, error) {
	if token == "" {
		return EmptyEmails(), nil
	}
	raw, err := c.get(ctx, c.APIBaseURL+"/user/emails", token)
	if err != nil {
		return nil, err
	}
	var payload any
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, fmt.Errorf("parse github emails: %w", err)
	}
	return payload, nil
}

// get performs one bearer-authenticated GET. Upstream error payloads pass
// through as-is; only transport failures surface as errors.
func (c *Client) get(ctx context.Context, url, token string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)

	start := time.Now()
	resp, err := c.HTTPClient.Do(req)
	metrics.ObserveProviderRequest("github", err, time.Since(start))
	if err != nil {
		return nil, fmt.Errorf("github request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read github response: %w", err)
	}
	return body, nil
}
