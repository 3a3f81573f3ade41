package retrieval

import (
	"context"
	"fmt"
	"log"
	"sort"
	"strings"

	"tubemind-be/pkg/embedding"
	"tubemind-be/pkg/rerank"
	"tubemind-be/pkg/utils"
)

// Passage is one transcript chunk with its estimated position in the video.
type Passage struct {
	Chunk           string
	PositionSeconds float64
}

// PassageSource resolves nearest-neighbor passages for a video. The storage
// layer implements this against the transcript embedding table.
type PassageSource interface {
	SearchNearest(ctx context.Context, videoID string, queryEmbedding []float32, limit int) ([]Passage, error)
}

const (
	candidateLimit = 10
	finalLimit     = 3
)

// Retriever turns a user question into a grounding context block: embed the
// query, pull candidates by vector distance, rerank, keep the best three.
type Retriever struct {
	embedder embedding.EmbeddingProvider
	reranker rerank.Reranker
	source   PassageSource
	logger   *log.Logger
}

func NewRetriever(embedder embedding.EmbeddingProvider, reranker rerank.Reranker, source PassageSource, logger *log.Logger) *Retriever {
	return &Retriever{embedder: embedder, reranker: reranker, source: source, logger: logger}
}

// Retrieve returns the grounding context for a query, one passage per line
// formatted as "[MM:SS] chunk". An empty string means no passages exist for
// the video; callers treat that as an ungrounded question, not an error.
func (r *Retriever) Retrieve(ctx context.Context, videoID, query string) (string, error) {
	resp, err := r.embedder.Generate(query, embedding.TaskRetrievalQuery)
	if err != nil {
		return "", fmt.Errorf("failed to embed query: %w", err)
	}

	candidates, err := r.source.SearchNearest(ctx, videoID, resp.Embedding.Values, candidateLimit)
	if err != nil {
		return "", fmt.Errorf("failed to search passages: %w", err)
	}
	if len(candidates) == 0 {
		return "", nil
	}

	ranked := r.rerank(ctx, query, candidates)
	if len(ranked) > finalLimit {
		ranked = ranked[:finalLimit]
	}

	lines := make([]string, 0, len(ranked))
	for _, p := range ranked {
		lines = append(lines, fmt.Sprintf("[%s] %s", utils.FormatTimestamp(p.PositionSeconds), p.Chunk))
	}
	return strings.Join(lines, "\n"), nil
}

// rerank orders candidates by relevance score, best first. When the reranker
// is unavailable, the vector-distance order already holds and is kept as-is.
func (r *Retriever) rerank(ctx context.Context, query string, candidates []Passage) []Passage {
	documents := make([]string, len(candidates))
	for i, p := range candidates {
		documents[i] = p.Chunk
	}

	scores, err := r.reranker.Rerank(ctx, query, documents)
	if err != nil || len(scores) != len(candidates) {
		r.logger.Printf("retriever: rerank unavailable, keeping vector order: %v", err)
		return candidates
	}

	type scoredPassage struct {
		passage Passage
		score   float64
	}
	pairs := make([]scoredPassage, len(candidates))
	for i := range candidates {
		pairs[i] = scoredPassage{passage: candidates[i], score: scores[i]}
	}
	sort.SliceStable(pairs, func(i, j int) bool {
		return pairs[i].score > pairs[j].score
	})

	ranked := make([]Passage, len(pairs))
	for i := range pairs {
		ranked[i] = pairs[i].passage
	}
	return ranked
}
