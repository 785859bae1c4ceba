// Package google fetches Gmail and Calendar data with a caller-supplied
// access token and extracts Google Meet links from calendar events.
package google

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"hub-backend/internal/shared/metrics"
)

const (
	defaultGmailBaseURL    = "https://gmail.googleapis.com"
	defaultCalendarBaseURL = "https://www.googleapis.com"

	meetDomain = "meet.google.com"
)

// Client calls Google APIs on behalf of a user token. Base URLs are
// overridable for tests.
type Client struct {
	GmailBaseURL    string
	CalendarBaseURL string
	HTTPClient      *http.Client
}

// NewClient constructs a Client against the production Google endpoints.
func NewClient() *Client {
	return &Client{
		GmailBaseURL:    defaultGmailBaseURL,
		CalendarBaseURL: defaultCalendarBaseURL,
		HTTPClient:      &http.Client{Timeout: 10 * time.Second},
	}
}

// EmptyMessages is the Gmail shape returned without a token or on degraded
// aggregate responses.
func EmptyMessages() map[string]any {
	return map[string]any{"messages": []any{}}
}

// EmptyEvents is the Calendar shape returned without a token or on degraded
// aggregate responses.
func EmptyEvents() map[string]any {
	return map[string]any{"items": []any{}}
}

// Messages fetches the caller's Gmail message list. An empty token returns
// the empty shape without a network call.
func (c *Client) Messages(ctx context.Context, token string) (map[string]any, error) {
	if token == "" {
		return EmptyMessages(), nil
	}
	return c.getJSON(ctx, c.GmailBaseURL+"/gmail/v1/users/me/messages", token)
}

// CalendarEvents fetches the caller's primary calendar events. An empty token
// returns the empty shape without a network call.
func (c *Client) CalendarEvents(ctx context.Context, token string) (map[string]any, error) {
	if token == "" {
		return EmptyEvents(), nil
	}
	return c.getJSON(ctx, c.calendarEventsURL(), token)
}

// MeetLinks fetches calendar events and extracts Meet entry points, in event
// order.
func (c *Client) MeetLinks(ctx context.Context, token string) (map[string]any, error) {
	links := []string{}
	if token == "" {
		return map[string]any{"meet_links": links}, nil
	}

	raw, err := c.get(ctx, c.calendarEventsURL(), token)
	if err != nil {
		return nil, err
	}

	var events eventList
	if err := json.Unmarshal(raw, &events); err != nil {
		return nil, fmt.Errorf("parse calendar events: %w", err)
	}

	for _, event := range events.Items {
		for _, entry := range event.ConferenceData.EntryPoints {
			if entry.EntryPointType == "video" && strings.Contains(entry.URI, meetDomain) {
				links = append(links, entry.URI)
			}
		}
	}
	return map[string]any{"meet_links": links}, nil
}

func (c *Client) calendarEventsURL() string {
	return c.CalendarBaseURL + "/calendar/v3/calendars/primary/events"
}

type eventList struct {
	Items []struct {
		ConferenceData struct {
			EntryPoints []struct {
				EntryPointType string `json:"entryPointType"`
				URI            string `json:"uri"`
			} `json:"entryPoints"`
		} `json:"conferenceData"`
	} `json:"items"`
}

func (c *Client) getJSON(ctx context.Context, url, token string) (map[string]any, error) {
	raw, err := c.get(ctx, url, token)
	if err != nil {
		return nil, err
	}
	var payload map[string]any
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, fmt.Errorf("parse google response: %w", err)
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
	metrics.ObserveProviderRequest("google", err, time.Since(start))
	if err != nil {
		return nil, fmt.Errorf("google request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read google response: %w", err)
	}
	return body, nil
}
