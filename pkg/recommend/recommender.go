package recommend

import (
	"context"
	"fmt"
	"log"
	"strings"

	"tubemind-be/pkg/llm"
	"tubemind-be/pkg/search"
)

// Recommendation is one suggested piece of further material.
type Recommendation struct {
	Title string `json:"title"`
	URL   string `json:"url"`
	Kind  string `json:"kind"` // "video" or "article"
}

const (
	maxVideoRecs   = 3
	maxArticleRecs = 4
)

// Recommender proposes related videos and articles for a freshly ingested
// transcript. All lookups are best-effort: a failed source contributes
// nothing instead of failing the ingestion flow.
type Recommender struct {
	provider llm.LLMProvider
	videos   search.VideoSearcher
	web      search.WebSearcher
	logger   *log.Logger
}

func NewRecommender(provider llm.LLMProvider, videos search.VideoSearcher, web search.WebSearcher, logger *log.Logger) *Recommender {
	return &Recommender{provider: provider, videos: videos, web: web, logger: logger}
}

// Recommend extracts the transcript's main topic and gathers related videos
// and blog articles around it.
func (r *Recommender) Recommend(ctx context.Context, transcriptExcerpt string) []Recommendation {
	topic := r.extractTopic(ctx, transcriptExcerpt)
	if topic == "" {
		return nil
	}

	var recs []Recommendation

	videos, err := r.videos.SearchVideos(ctx, topic, maxVideoRecs)
	if err != nil {
		r.logger.Printf("recommender: video lookup failed: %v", err)
	}
	for _, v := range videos {
		recs = append(recs, Recommendation{Title: v.Title, URL: v.Link, Kind: "video"})
	}

	articles, err := r.web.Search(ctx, topic+" blog article", maxArticleRecs*2)
	if err != nil {
		r.logger.Printf("recommender: article lookup failed: %v", err)
	}
	count := 0
	for _, a := range articles {
		if strings.Contains(a.URL, "youtube.com") || strings.Contains(a.URL, "youtu.be") {
			continue
		}
		recs = append(recs, Recommendation{Title: a.Title, URL: a.URL, Kind: "article"})
		count++
		if count >= maxArticleRecs {
			break
		}
	}

	return recs
}

func (r *Recommender) extractTopic(ctx context.Context, excerpt string) string {
	const limit = 1500
	if len(excerpt) > limit {
		excerpt = excerpt[:limit]
	}

	topic, err := r.provider.Generate(ctx,
		fmt.Sprintf("State the main topic of this transcript in 2-5 plain words, nothing else:\n\n%s", excerpt),
		llm.WithTemperature(0))
	if err != nil {
		r.logger.Printf("recommender: topic extraction failed: %v", err)
		return ""
	}
	return strings.Trim(strings.TrimSpace(topic), `"`)
}
