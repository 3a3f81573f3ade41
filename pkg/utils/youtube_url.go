package utils

import (
	"net/url"
	"strings"
)

// ExtractVideoID pulls the 11-character video id out of a YouTube URL.
// Supports watch?v=, youtu.be/, shorts/ and embed/ forms. Returns "" when the
// URL carries no recognizable id.
func ExtractVideoID(rawURL string) string {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return ""
	}

	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}

	if v := u.Query().Get("v"); v != "" {
		return v
	}

	host := strings.TrimPrefix(u.Host, "www.")
	path := strings.Trim(u.Path, "/")

	switch {
	case host == "youtu.be":
		return firstSegment(path)
	case strings.HasPrefix(path, "shorts/"):
		return firstSegment(strings.TrimPrefix(path, "shorts/"))
	case strings.HasPrefix(path, "embed/"):
		return firstSegment(strings.TrimPrefix(path, "embed/"))
	}

	return ""
}

func firstSegment(path string) string {
	if idx := strings.Index(path, "/"); idx >= 0 {
		return path[:idx]
	}
	return path
}
