// Package microsoft fetches Outlook and Calendar data from Microsoft Graph
// and extracts Teams meeting join links.
package microsoft

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"hub-backend/internal/shared/metrics"
)

const defaultGraphBaseURL = "https://graph.microsoft.com"

// Fallback for events missing onlineMeeting but carrying the join link in
// the body HTML.
var teamsJoinLink = regexp.MustCompile(`https://teams\.microsoft\.com/l/meetup-join[^\s"]+`)

// Client calls Microsoft Graph on behalf of a user token.
type Client struct {
	GraphBaseURL string
	HTTPClient   *http.Client
}

// NewClient constructs a Client against the production Graph endpoint.
func NewClient() *Client {
	return &Client{
		GraphBaseURL: defaultGraphBaseURL,
		HTTPClient:   &http.Client{Timeout: 10 * time.Second},
	}
}

// EmptyMessages is the Outlook shape returned without a token or on degraded
// aggregate responses.
func EmptyMessages() map[string]any {
	return map[string]any{"messages": []any{}}
}

// EmptyEvents is the Calendar shape returned without a token or on degraded
// aggregate responses.
func EmptyEvents() map[string]any {
	return map[string]any{"value": []any{}}
}

// Messages fetches the caller's Outlook message list. An empty token returns
// the empty shape without a network call.
func (c *Client) Messages(ctx context.Context, token string) (map[string]any, error) {
	if token == "" {
		return EmptyMessages(), nil
	}
	return c.getJSON(ctx, c.GraphBaseURL+"/v1.0/me/messages", token)
}

// CalendarEvents fetches the caller's calendar events. An empty token returns
// the empty shape without a network call.
func (c *Client) CalendarEvents(ctx context.Context, token string) (map[string]any, error) {
	if token == "" {
		return EmptyEvents(), nil
	}
	return c.getJSON(ctx, c.eventsURL(), token)
}

// TeamsMeetings fetches calendar events and extracts Teams join links. The
// structured onlineMeeting join URL wins; the body is scanned only when the
// event lacks one.
func (c *Client) TeamsMeetings(ctx context.Context, token string) (map[string]any, error) {
	links := []string{}
	if token == "" {
		return map[string]any{"teams_links": links}, nil
	}

	raw, err := c.get(ctx, c.eventsURL(), token)
	if err != nil {
		return nil, err
	}

	var events eventList
	if err := json.Unmarshal(raw, &events); err != nil {
		return nil, fmt.Errorf("parse calendar events: %w", err)
	}

	for _, event := range events.Value {
		if event.OnlineMeeting.JoinURL != "" {
			links = append(links, event.OnlineMeeting.JoinURL)
			continue
		}
		if strings.Contains(event.Body.Content, "teams.microsoft.com") {
			links = append(links, teamsJoinLink.FindAllString(event.Body.Content, -1)...)
		}
	}
	return map[string]any{"teams_links": links}, nil
}

func (c *Client) eventsURL() string {
	return c.GraphBaseURL + "/v1.0/me/events"
}

type eventList struct {
	Value []struct {
		OnlineMeeting struct {
			JoinURL string `json:"joinUrl"`
		} `json:"onlineMeeting"`
		Body struct {
			Content string `json:"content"`
		} `json:"body"`
	} `json:"value"`
}

func (c *Client) getJSON(ctx context.Context, url, token string) (map[string]any, error) {
	raw, err := c.get(ctx, url, token)
	if err != nil {
		return nil, err
	}
	var payload map[string]any
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, fmt.Errorf("parse graph response: %w", err)
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
	metrics.ObserveProviderRequest("microsoft", err, time.Since(start))
	if err != nil {
		return nil, fmt.Errorf("graph request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read graph response: %w", err)
	}
	return body, nil
}
