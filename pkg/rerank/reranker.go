package rerank

import "context"

// Reranker scores candidate documents against a query with a cross-encoder
// style relevance model. Higher scores mean more relevant. The returned slice
// is index-aligned with the input documents.
type Reranker interface {
	Rerank(ctx context.Context, query string, documents []string) ([]float64, error)
}
