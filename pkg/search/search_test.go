package search

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
)

const ddgResultsPage = `
<html><body>
<div class="result result--ad">
  <span class="badge--ad">Ad</span>
</div>
<div class="result">
  <a class="result__a" href="//duckduckgo.com/l/?uddg=https%3A%2F%2Fgo.dev%2Fblog%2Fcontext&amp;rut=abc">Go Concurrency Patterns: Context</a>
  <a class="result__snippet">In Go servers, each incoming request is handled in its own goroutine.</a>
</div>
<div class="result">
  <a class="result__a" href="https://blog.example.com/channels">Understanding Channels</a>
  <a class="result__snippet">Channels are typed conduits.</a>
</div>
<div class="result">
  <a class="result__a" href="https://example.org/third">Third Result</a>
</div>
</body></html>`

func TestParseResults(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(ddgResultsPage))
	if err != nil {
		t.Fatalf("parse fixture: %v", err)
	}

	results := ParseResults(doc, 10)
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}

	first := results[0]
	if first.Title != "Go Concurrency Patterns: Context" {
		t.Errorf("unexpected title: %q", first.Title)
	}
	if first.URL != "https://go.dev/blog/context" {
		t.Errorf("redirect link not unwrapped: %q", first.URL)
	}
	if !strings.Contains(first.Snippet, "goroutine") {
		t.Errorf("unexpected snippet: %q", first.Snippet)
	}
	if results[2].Snippet != "" {
		t.Errorf("expected empty snippet for third result, got %q", results[2].Snippet)
	}
}

func TestParseResultsHonorsMax(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(ddgResultsPage))
	if err != nil {
		t.Fatalf("parse fixture: %v", err)
	}

	results := ParseResults(doc, 2)
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
}

func TestCleanDDGLink(t *testing.T) {
	cases := []struct {
		name string
		href string
		want string
	}{
		{
			"redirect",
			"//duckduckgo.com/l/?uddg=https%3A%2F%2Fgo.dev%2Fdoc%2F&rut=xyz",
			"https://go.dev/doc/",
		},
		{"direct", "https://example.com/page", "https://example.com/page"},
		{"no uddg param", "//duckduckgo.com/l/?other=1", "//duckduckgo.com/l/?other=1"},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := cleanDDGLink(c.href); got != c.want {
				t.Errorf("cleanDDGLink(%q) = %q, want %q", c.href, got, c.want)
			}
		})
	}
}

func TestParseVideoResults(t *testing.T) {
	body := `{"contents":[` +
		`{"videoRenderer":{"videoId":"abcdefghij1","thumbnail":{},"title":{"runs":[{"text":"Go in 100 Seconds"}]}}},` +
		`{"videoRenderer":{"videoId":"abcdefghij1","thumbnail":{},"title":{"runs":[{"text":"Go in 100 Seconds"}]}}},` +
		`{"videoRenderer":{"videoId":"abcdefghij2","thumbnail":{},"title":{"runs":[{"text":"Rob Pike & friends say \"hello\""}]}}},` +
		`{"videoRenderer":{"videoId":"abcdefghij3","thumbnail":{},"title":{"runs":[{"text":"Extra"}]}}}]}`

	results := ParseVideoResults(body, 2)
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results[0].Title != "Go in 100 Seconds" {
		t.Errorf("unexpected first title: %q", results[0].Title)
	}
	if results[0].Link != "https://www.youtube.com/watch?v=abcdefghij1" {
		t.Errorf("unexpected link: %q", results[0].Link)
	}
	if results[1].Title != `Rob Pike & friends say "hello"` {
		t.Errorf("escapes not decoded: %q", results[1].Title)
	}
}

func TestParseVideoResultsWideRenderer(t *testing.T) {
	// Real renderer blocks put hundreds of bytes of thumbnail and accessibility
	// data between the id and the title.
	filler := `"thumbnail":{"thumbnails":[{"url":"` + strings.Repeat("x", 900) + `"}]},`
	body := `{"videoRenderer":{"videoId":"abcdefghij4",` + filler + `"title":{"runs":[{"text":"Deep Dive"}]}}}`

	results := ParseVideoResults(body, 3)
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	if results[0].Title != "Deep Dive" {
		t.Errorf("unexpected title: %q", results[0].Title)
	}
}

func TestParseVideoResultsNoMatches(t *testing.T) {
	if results := ParseVideoResults("<html>nothing here</html>", 3); len(results) != 0 {
		t.Fatalf("expected no results, got %v", results)
	}
}

func TestTruncateSentences(t *testing.T) {
	text := "First sentence. Second sentence. Third sentence. Fourth sentence."

	if got := TruncateSentences(text, 2); got != "First sentence. Second sentence." {
		t.Errorf("unexpected truncation: %q", got)
	}
	if got := TruncateSentences(text, 10); got != text {
		t.Errorf("short text must pass through, got %q", got)
	}
}
