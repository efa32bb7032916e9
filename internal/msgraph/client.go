package msgraph

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"golang.org/x/oauth2"

	"github.com/Tiliavir/flightlog/internal/logger"
)

const graphBaseURL = "https://graph.microsoft.com/v1.0"

// Client is an authenticated Microsoft Graph API client.
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// NewClient creates a Graph client that refreshes tok as needed and saves
// every refreshed token to store.
func NewClient(ctx context.Context, tok *oauth2.Token, cfg *oauth2.Config, store *TokenStore) *Client {
	ts := cfg.TokenSource(ctx, tok)
	return &Client{
		httpClient: oauth2.NewClient(ctx, &savingTokenSource{ts: ts, store: store}),
		baseURL:    graphBaseURL,
	}
}

// NewClientWithHTTP creates a client on top of an existing HTTP client and
// base URL, e.g. a test server.
func NewClientWithHTTP(hc *http.Client, baseURL string) *Client {
	return &Client{httpClient: hc, baseURL: baseURL}
}

// savingTokenSource wraps a TokenSource and persists refreshed tokens.
type savingTokenSource struct {
	ts    oauth2.TokenSource
	store *TokenStore
}

func (s *savingTokenSource) Token() (*oauth2.Token, error) {
	tok, err := s.ts.Token()
	if err != nil {
		return nil, err
	}
	if err := s.store.Save(tok); err != nil {
		logger.Debug("could not persist token", "err", err)
	}
	return tok, nil
}

// DateTimeTimeZone is Graph's dateTimeTimeZone resource.
type DateTimeTimeZone struct {
	DateTime string `json:"dateTime"`
	TimeZone string `json:"timeZone"`
}

// ItemBody is Graph's itemBody resource.
type ItemBody struct {
	ContentType string `json:"contentType"`
	Content     string `json:"content"`
}

// Event represents a Microsoft Graph calendar event.
type Event struct {
	ID         string           `json:"id,omitempty"`
	Subject    string           `json:"subject"`
	Body       *ItemBody        `json:"body,omitempty"`
	IsAllDay   bool             `json:"isAllDay"`
	ShowAs     string           `json:"showAs,omitempty"` // "free", "busy", ...
	Start      DateTimeTimeZone `json:"start"`
	End        DateTimeTimeZone `json:"end"`
	Categories []string         `json:"categories,omitempty"`
}

// CreateEvent adds ev to the signed-in user's default calendar and returns
// the stored event, including its ID.
func (c *Client) CreateEvent(ctx context.Context, ev Event) (Event, error) {
	var created Event
	if err := c.do(ctx, http.MethodPost, "/me/events", ev, http.StatusCreated, &created); err != nil {
		return Event{}, err
	}
	return created, nil
}

// UpdateEvent replaces the mutable fields of the event with the given ID.
func (c *Client) UpdateEvent(ctx context.Context, id string, ev Event) error {
	ev.ID = ""
	return c.do(ctx, http.MethodPatch, "/me/events/"+url.PathEscape(id), ev, http.StatusOK, nil)
}

// do sends body as JSON and decodes the response into out when out is non-nil.
func (c *Client) do(ctx context.Context, method, path string, body any, want int, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encoding request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("graph API request failed: %w", err)
	}
	respBody, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		return fmt.Errorf("reading response body: %w", err)
	}

	logger.Debug("graph request", "method", method, "path", path, "status", resp.StatusCode)
	if resp.StatusCode != want {
		return fmt.Errorf("graph API error %d: %s", resp.StatusCode, string(respBody))
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("decoding graph response: %w", err)
	}
	return nil
}
