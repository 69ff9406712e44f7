package tools

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// CalendarClient talks to the external calendar service. Event creation is
// the side effect behind the approval flow; listing is read-only.
type CalendarClient struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

func NewCalendarClient(baseURL, apiKey string) *CalendarClient {
	return &CalendarClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		client:  &http.Client{Timeout: 15 * time.Second},
	}
}

type calendarEvent struct {
	Title    string `json:"title"`
	Date     string `json:"date"`
	Time     string `json:"time,omitempty"`
	Duration string `json:"duration,omitempty"`
}

func (c *CalendarClient) CreateEvent(ctx context.Context, event calendarEvent) (string, error) {
	payload, err := json.Marshal(event)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/events", bytes.NewBuffer(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("calendar request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return "", fmt.Errorf("calendar error: status %d, body: %s", resp.StatusCode, string(body))
	}

	return fmt.Sprintf("Event %q created for %s %s.", event.Title, event.Date, event.Time), nil
}

func (c *CalendarClient) ListEvents(ctx context.Context, date string) (string, error) {
	endpoint := c.baseURL + "/events"
	if date != "" {
		endpoint += "?date=" + date
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("calendar request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("calendar error: status %d, body: %s", resp.StatusCode, string(body))
	}

	var events []calendarEvent
	if err := json.Unmarshal(body, &events); err != nil {
		return "", err
	}
	if len(events) == 0 {
		return "No events found.", nil
	}

	var b strings.Builder
	for _, e := range events {
		fmt.Fprintf(&b, "- %s on %s %s\n", e.Title, e.Date, e.Time)
	}
	return strings.TrimSpace(b.String()), nil
}

// CalendarCreateTool schedules an event. Side-effecting: the executor never
// runs it directly, it only materializes approved proposals.
type CalendarCreateTool struct {
	client *CalendarClient
}

func NewCalendarCreateTool(client *CalendarClient) *CalendarCreateTool {
	return &CalendarCreateTool{client: client}
}

func (t *CalendarCreateTool) Name() string        { return "calendar_create_event" }
func (t *CalendarCreateTool) Kind() Kind          { return KindSideEffecting }
func (t *CalendarCreateTool) Description() string { return "Creates a calendar event" }

func (t *CalendarCreateTool) Invoke(ctx context.Context, params map[string]string) (string, error) {
	if params["title"] == "" || params["date"] == "" {
		return "", fmt.Errorf("calendar_create_event: title and date are required")
	}
	return t.client.CreateEvent(ctx, calendarEvent{
		Title:    params["title"],
		Date:     params["date"],
		Time:     params["time"],
		Duration: params["duration"],
	})
}

// CalendarListTool reads upcoming events. Read-only, runs without approval.
type CalendarListTool struct {
	client *CalendarClient
}

func NewCalendarListTool(client *CalendarClient) *CalendarListTool {
	return &CalendarListTool{client: client}
}

func (t *CalendarListTool) Name() string        { return "calendar_list_events" }
func (t *CalendarListTool) Kind() Kind          { return KindPure }
func (t *CalendarListTool) Description() string { return "Lists calendar events" }

func (t *CalendarListTool) Invoke(ctx context.Context, params map[string]string) (string, error) {
	return t.client.ListEvents(ctx, params["date"])
}
