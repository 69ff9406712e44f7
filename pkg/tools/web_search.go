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

const serperEndpoint = "https://google.serper.dev/search"

// WebSearchTool queries the Serper search API and returns the top organic
// results as plain text.
type WebSearchTool struct {
	apiKey     string
	endpoint   string
	maxResults int
	client     *http.Client
}

func NewWebSearchTool(apiKey string) *WebSearchTool {
	return &WebSearchTool{
		apiKey:     apiKey,
		endpoint:   serperEndpoint,
		maxResults: 3,
		client:     &http.Client{Timeout: 15 * time.Second},
	}
}

func (t *WebSearchTool) Name() string        { return "web_search" }
func (t *WebSearchTool) Kind() Kind          { return KindPure }
func (t *WebSearchTool) Description() string { return "Searches the web for current information" }

type serperRequest struct {
	Q string `json:"q"`
}

type serperResponse struct {
	Organic []struct {
		Title   string `json:"title"`
		Link    string `json:"link"`
		Snippet string `json:"snippet"`
	} `json:"organic"`
}

func (t *WebSearchTool) Invoke(ctx context.Context, params map[string]string) (string, error) {
	query := params["query"]
	if query == "" {
		return "", fmt.Errorf("web_search: missing query")
	}
	if t.apiKey == "" {
		return "", fmt.Errorf("web_search: no API key configured")
	}

	payload, err := json.Marshal(serperRequest{Q: query})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.endpoint, bytes.NewBuffer(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("X-API-KEY", t.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("web search request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("web search error: status %d, body: %s", resp.StatusCode, string(body))
	}

	var parsed serperResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", err
	}
	if len(parsed.Organic) == 0 {
		return fmt.Sprintf("No web results found for %q.", query), nil
	}

	var b strings.Builder
	for i, result := range parsed.Organic {
		if i >= t.maxResults {
			break
		}
		fmt.Fprintf(&b, "%d. %s\n%s\n%s\n", i+1, result.Title, result.Snippet, result.Link)
	}
	return strings.TrimSpace(b.String()), nil
}
