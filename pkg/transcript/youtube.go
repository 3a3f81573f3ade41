package transcript

import (
	"context"
	"encoding/json"
	"encoding/xml"
	"fmt"
	"html"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"
)

// Fetcher retrieves the caption transcript for a video. A failure here is a
// hard ingestion error: without a transcript there is nothing to index.
type Fetcher interface {
	Fetch(ctx context.Context, videoID string) (string, error)
}

// YouTubeFetcher pulls the caption track list from the watch page and then
// downloads the timedtext XML for the best available track.
type YouTubeFetcher struct {
	watchURL string
	client   *http.Client
}

func NewYouTubeFetcher() *YouTubeFetcher {
	return &YouTubeFetcher{
		watchURL: "https://www.youtube.com/watch",
		client: &http.Client{
			Timeout: 20 * time.Second,
		},
	}
}

var _ Fetcher = &YouTubeFetcher{}

var captionTracksRe = regexp.MustCompile(`"captionTracks":(\[.*?\])`)

type captionTrack struct {
	BaseURL      string `json:"baseUrl"`
	LanguageCode string `json:"languageCode"`
	Kind         string `json:"kind"` // "asr" for auto-generated
}

func (f *YouTubeFetcher) Fetch(ctx context.Context, videoID string) (string, error) {
	page, err := f.get(ctx, f.watchURL+"?v="+videoID)
	if err != nil {
		return "", fmt.Errorf("fetch watch page: %w", err)
	}

	m := captionTracksRe.FindStringSubmatch(page)
	if m == nil {
		return "", fmt.Errorf("video %s has no caption tracks", videoID)
	}

	var tracks []captionTrack
	if err := json.Unmarshal([]byte(m[1]), &tracks); err != nil {
		return "", fmt.Errorf("decode caption track list: %w", err)
	}
	if len(tracks) == 0 {
		return "", fmt.Errorf("video %s has no caption tracks", videoID)
	}

	track := pickTrack(tracks)
	raw, err := f.get(ctx, track.BaseURL)
	if err != nil {
		return "", fmt.Errorf("fetch timedtext: %w", err)
	}

	text, err := ParseTimedText(raw)
	if err != nil {
		return "", fmt.Errorf("parse timedtext: %w", err)
	}
	return text, nil
}

func (f *YouTubeFetcher) get(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (compatible; tubemind/1.0)")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := f.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 8<<20))
	if err != nil {
		return "", err
	}
	return string(body), nil
}

// pickTrack prefers a manually authored English track, then any English
// track, then the first one available.
func pickTrack(tracks []captionTrack) captionTrack {
	for _, t := range tracks {
		if strings.HasPrefix(t.LanguageCode, "en") && t.Kind != "asr" {
			return t
		}
	}
	for _, t := range tracks {
		if strings.HasPrefix(t.LanguageCode, "en") {
			return t
		}
	}
	return tracks[0]
}

type timedText struct {
	XMLName xml.Name `xml:"transcript"`
	Texts   []struct {
		Start float64 `xml:"start,attr"`
		Dur   float64 `xml:"dur,attr"`
		Body  string  `xml:",chardata"`
	} `xml:"text"`
}

// ParseTimedText flattens a timedtext XML document into one plain-text
// transcript, space-joined in caption order.
func ParseTimedText(raw string) (string, error) {
	var doc timedText
	if err := xml.Unmarshal([]byte(raw), &doc); err != nil {
		return "", err
	}

	parts := make([]string, 0, len(doc.Texts))
	for _, t := range doc.Texts {
		body := strings.TrimSpace(html.UnescapeString(t.Body))
		if body != "" {
			parts = append(parts, body)
		}
	}
	if len(parts) == 0 {
		return "", fmt.Errorf("empty transcript")
	}
	return strings.Join(parts, " "), nil
}
