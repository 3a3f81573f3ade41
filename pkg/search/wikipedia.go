package search

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

const wikipediaSummaryEndpoint = "https://en.wikipedia.org/api/rest_v1/page/summary/"

// Wikipedia fetches the lead-section extract for a topic via the REST summary
// endpoint. Used as the encyclopedic fallback when web search yields nothing.
type Wikipedia struct {
	endpoint string
	client   *http.Client
}

func NewWikipedia() *Wikipedia {
	return &Wikipedia{
		endpoint: wikipediaSummaryEndpoint,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

var _ Summarizer = &Wikipedia{}

type wikipediaSummary struct {
	Title   string `json:"title"`
	Extract string `json:"extract"`
}

func (w *Wikipedia) Summarize(ctx context.Context, topic string, sentences int) (string, error) {
	if sentences <= 0 {
		sentences = 3
	}

	title := strings.ReplaceAll(strings.TrimSpace(topic), " ", "_")
	req, err := http.NewRequestWithContext(ctx, "GET", w.endpoint+url.PathEscape(title), nil)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := w.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("wikipedia request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("wikipedia error: status %d", resp.StatusCode)
	}

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	var summary wikipediaSummary
	if err := json.Unmarshal(bodyBytes, &summary); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if summary.Extract == "" {
		return "", fmt.Errorf("no extract for topic %q", topic)
	}

	return TruncateSentences(summary.Extract, sentences), nil
}

// TruncateSentences keeps at most n sentences of text, splitting on ". ".
func TruncateSentences(text string, n int) string {
	parts := strings.SplitAfter(text, ". ")
	if len(parts) <= n {
		return text
	}
	return strings.TrimSpace(strings.Join(parts[:n], ""))
}
