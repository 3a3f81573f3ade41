package search

import "context"

// Result is a single web search hit.
type Result struct {
	Title   string
	Snippet string
	URL     string
}

// WebSearcher finds web pages for a free-text query. Implementations fail
// closed: quota or network errors yield an empty result set, not a hard fault,
// so callers can treat "no results" and "search down" the same way.
type WebSearcher interface {
	Search(ctx context.Context, query string, maxResults int) ([]Result, error)
}

// Summarizer produces a short encyclopedic summary for a topic. Fails closed.
type Summarizer interface {
	Summarize(ctx context.Context, topic string, sentences int) (string, error)
}

// VideoResult is a recommended video.
type VideoResult struct {
	Title string
	Link  string
}

// VideoSearcher finds videos for a query. Fails closed.
type VideoSearcher interface {
	SearchVideos(ctx context.Context, query string, maxResults int) ([]VideoResult, error)
}
