// Package storyapi reads story events from the game backend.
package storyapi

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"github.com/ziadkadry99/storyreel/internal/markup"
)

// RemoteEvent is a story event as the backend describes it.
type RemoteEvent struct {
	ID        string
	Title     string
	Format    markup.Format
	Content   string
	UpdatedAt time.Time
}

// Client talks to the backend's story-event endpoints.
type Client struct {
	BaseURL string
	Token   string
	HTTP    *http.Client
}

// NewClient creates a client for baseURL. A zero timeout leaves requests
// bounded only by their context.
func NewClient(baseURL, token string, timeout time.Duration) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Token:   token,
		HTTP:    &http.Client{Timeout: timeout},
	}
}

// List fetches every story event.
func (c *Client) List(ctx context.Context) ([]RemoteEvent, error) {
	body, err := c.get(ctx, "/story-events")
	if err != nil {
		return nil, err
	}

	list := envelope(body)
	if !list.IsArray() {
		return nil, fmt.Errorf("listing story events: expected an array")
	}
	var events []RemoteEvent
	list.ForEach(func(_, v gjson.Result) bool {
		if ev, ok := parseEvent(v); ok {
			events = append(events, ev)
		}
		return true
	})
	return events, nil
}

// Get fetches one story event. A missing event returns (nil, nil).
func (c *Client) Get(ctx context.Context, id string) (*RemoteEvent, error) {
	body, err := c.get(ctx, "/story-events/"+url.PathEscape(id))
	if err == errNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	ev, ok := parseEvent(envelope(body))
	if !ok {
		return nil, fmt.Errorf("story event %s: missing id", id)
	}
	return &ev, nil
}

var errNotFound = errors.New("not found")

func (c *Client) get(ctx context.Context, path string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+path, nil)
	if err != nil {
		return "", fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return "", fmt.Errorf("requesting %s: %w", path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 16<<20))
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", path, err)
	}
	switch {
	case resp.StatusCode == http.StatusNotFound:
		return "", errNotFound
	case resp.StatusCode >= 300:
		msg := gjson.GetBytes(data, "error").String()
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return "", fmt.Errorf("%s: %d %s", path, resp.StatusCode, msg)
	}
	if !gjson.ValidBytes(data) {
		return "", fmt.Errorf("%s: invalid JSON response", path)
	}
	return string(data), nil
}

// envelope unwraps {"data": ...} responses.
func envelope(body string) gjson.Result {
	if d := gjson.Get(body, "data"); d.Exists() {
		return d
	}
	return gjson.Parse(body)
}

// firstOf returns the first non-empty string among paths.
func firstOf(v gjson.Result, paths ...string) string {
	for _, p := range paths {
		if s := strings.TrimSpace(v.Get(p).String()); s != "" {
			return s
		}
	}
	return ""
}

func parseEvent(v gjson.Result) (RemoteEvent, bool) {
	ev := RemoteEvent{
		ID:      firstOf(v, "id", "_id"),
		Title:   firstOf(v, "title", "name"),
		Content: firstOf(v, "content", "body", "description"),
		Format:  markup.FormatHTML,
	}
	if ev.ID == "" {
		return ev, false
	}
	if ev.Title == "" {
		ev.Title = "Story event " + ev.ID
	}
	if f := markup.Format(strings.ToLower(firstOf(v, "format", "content_format"))); f.Valid() {
		ev.Format = f
	}
	if t := firstOf(v, "updated_at", "updatedAt"); t != "" {
		ev.UpdatedAt, _ = time.Parse(time.RFC3339, t)
	}
	return ev, true
}
