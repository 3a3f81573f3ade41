package search

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

const ddgHTMLEndpoint = "https://html.duckduckgo.com/html/"

// DuckDuckGo queries the DuckDuckGo HTML endpoint and scrapes the result list.
// No API key required; the endpoint serves a plain HTML page per query.
type DuckDuckGo struct {
	endpoint string
	client   *http.Client
}

func NewDuckDuckGo() *DuckDuckGo {
	return &DuckDuckGo{
		endpoint: ddgHTMLEndpoint,
		client: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

var _ WebSearcher = &DuckDuckGo{}

func (d *DuckDuckGo) Search(ctx context.Context, query string, maxResults int) ([]Result, error) {
	if maxResults <= 0 {
		maxResults = 3
	}

	form := url.Values{}
	form.Set("q", query)

	req, err := http.NewRequestWithContext(ctx, "POST", d.endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("User-Agent", "Mozilla/5.0 (compatible; tubemind/1.0)")

	resp, err := d.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("duckduckgo request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("duckduckgo error: status %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse results page: %w", err)
	}

	return ParseResults(doc, maxResults), nil
}

// ParseResults extracts search hits from a DuckDuckGo HTML results document.
// Split out from Search so the scrape logic is testable against fixtures.
func ParseResults(doc *goquery.Document, maxResults int) []Result {
	var results []Result

	doc.Find("div.result").EachWithBreak(func(i int, s *goquery.Selection) bool {
		anchor := s.Find("a.result__a").First()
		title := strings.TrimSpace(anchor.Text())
		href, _ := anchor.Attr("href")
		snippet := strings.TrimSpace(s.Find(".result__snippet").First().Text())

		if title == "" || href == "" {
			return true // skip ad/empty blocks
		}

		results = append(results, Result{
			Title:   title,
			Snippet: snippet,
			URL:     cleanDDGLink(href),
		})
		return len(results) < maxResults
	})

	return results
}

// cleanDDGLink unwraps DuckDuckGo's redirect links (/l/?uddg=<encoded-url>).
func cleanDDGLink(href string) string {
	u, err := url.Parse(href)
	if err != nil {
		return href
	}
	if target := u.Query().Get("uddg"); target != "" {
		if decoded, err := url.QueryUnescape(target); err == nil {
			return decoded
		}
	}
	return href
}
