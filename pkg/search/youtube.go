package search

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"time"
)

const youtubeResultsEndpoint = "https://www.youtube.com/results"

// YouTubeSearch scrapes the YouTube results page. The page embeds its result
// data as JSON inside a `ytInitialData` script; we pull out videoRenderer
// blocks instead of walking the whole (huge, unstable) structure.
type YouTubeSearch struct {
	endpoint string
	client   *http.Client
}

func NewYouTubeSearch() *YouTubeSearch {
	return &YouTubeSearch{
		endpoint: youtubeResultsEndpoint,
		client: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

var _ VideoSearcher = &YouTubeSearch{}

// The repeat bound stays under Go's regexp limit of 1000.
var videoRendererRe = regexp.MustCompile(
	`"videoRenderer":\{"videoId":"([a-zA-Z0-9_-]{11})".{0,1000}?"title":\{"runs":\[\{"text":"((?:[^"\\]|\\.)*)"`)

func (y *YouTubeSearch) SearchVideos(ctx context.Context, query string, maxResults int) ([]VideoResult, error) {
	if maxResults <= 0 {
		maxResults = 3
	}

	req, err := http.NewRequestWithContext(ctx, "GET",
		y.endpoint+"?search_query="+url.QueryEscape(query), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (compatible; tubemind/1.0)")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := y.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("youtube request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("youtube error: status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	return ParseVideoResults(string(body), maxResults), nil
}

// ParseVideoResults extracts up to maxResults videos from a results page body.
func ParseVideoResults(body string, maxResults int) []VideoResult {
	matches := videoRendererRe.FindAllStringSubmatch(body, -1)

	var results []VideoResult
	seen := make(map[string]bool)
	for _, m := range matches {
		id, rawTitle := m[1], m[2]
		if seen[id] {
			continue
		}
		seen[id] = true

		results = append(results, VideoResult{
			Title: unescapeJSONString(rawTitle),
			Link:  "https://www.youtube.com/watch?v=" + id,
		})
		if len(results) >= maxResults {
			break
		}
	}
	return results
}

// unescapeJSONString decodes the escapes inside a raw JSON string fragment.
func unescapeJSONString(raw string) string {
	var s string
	if err := json.Unmarshal([]byte(`"`+raw+`"`), &s); err != nil {
		return raw
	}
	return s
}
