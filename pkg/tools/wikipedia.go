package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// WikipediaTool fetches the summary of an article via the Wikipedia REST API.
type WikipediaTool struct {
	baseURL string
	client  *http.Client
}

func NewWikipediaTool(baseURL string) *WikipediaTool {
	if baseURL == "" {
		baseURL = "https://en.wikipedia.org"
	}
	return &WikipediaTool{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: 15 * time.Second},
	}
}

func (t *WikipediaTool) Name() string        { return "wikipedia" }
func (t *WikipediaTool) Kind() Kind          { return KindPure }
func (t *WikipediaTool) Description() string { return "Looks up an article summary on Wikipedia" }

type wikipediaSummaryResponse struct {
	Title   string `json:"title"`
	Extract string `json:"extract"`
}

func (t *WikipediaTool) Invoke(ctx context.Context, params map[string]string) (string, error) {
	query := params["query"]
	if query == "" {
		return "", fmt.Errorf("wikipedia: missing query")
	}

	title := url.PathEscape(strings.ReplaceAll(strings.TrimSpace(query), " ", "_"))
	endpoint := fmt.Sprintf("%s/api/rest_v1/page/summary/%s", t.baseURL, title)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", err
	}

	resp, err := t.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("wikipedia request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	if resp.StatusCode == http.StatusNotFound {
		return fmt.Sprintf("No Wikipedia article found for %q.", query), nil
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("wikipedia error: status %d, body: %s", resp.StatusCode, string(body))
	}

	var parsed wikipediaSummaryResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", err
	}
	if parsed.Extract == "" {
		return fmt.Sprintf("No Wikipedia article found for %q.", query), nil
	}

	return fmt.Sprintf("%s: %s", parsed.Title, parsed.Extract), nil
}
