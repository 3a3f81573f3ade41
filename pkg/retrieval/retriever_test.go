package retrieval

import (
	"context"
	"errors"
	"io"
	"log"
	"strings"
	"testing"

	"tubemind-be/pkg/embedding"
)

type fakeEmbedder struct {
	err error
}

func (f *fakeEmbedder) Generate(text string, taskType string) (*embedding.EmbeddingResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &embedding.EmbeddingResponse{
		Embedding: embedding.EmbeddingResponseEmbedding{Values: []float32{0.1, 0.2, 0.3}},
	}, nil
}

type fakeReranker struct {
	scores []float64
	err    error
}

func (f *fakeReranker) Rerank(ctx context.Context, query string, documents []string) ([]float64, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.scores, nil
}

type fakeSource struct {
	passages []Passage
	err      error
}

func (f *fakeSource) SearchNearest(ctx context.Context, videoID string, queryEmbedding []float32, limit int) ([]Passage, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.passages, nil
}

func newTestRetriever(source PassageSource, reranker *fakeReranker) *Retriever {
	return NewRetriever(&fakeEmbedder{}, reranker, source, log.New(io.Discard, "", 0))
}

func TestRetrieveEmptyVideoYieldsEmptyContext(t *testing.T) {
	r := newTestRetriever(&fakeSource{}, &fakeReranker{})

	got, err := r.Retrieve(context.Background(), "vid123", "anything")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "" {
		t.Errorf("context = %q, want empty for unknown video", got)
	}
}

func TestRetrieveRanksAndFormats(t *testing.T) {
	source := &fakeSource{passages: []Passage{
		{Chunk: "closest by vector", PositionSeconds: 5},
		{Chunk: "best by rerank", PositionSeconds: 65},
		{Chunk: "second best", PositionSeconds: 125},
		{Chunk: "third best", PositionSeconds: 185},
		{Chunk: "dropped", PositionSeconds: 600},
	}}
	reranker := &fakeReranker{scores: []float64{0.2, 0.99, 0.8, 0.7, 0.1}}
	r := newTestRetriever(source, reranker)

	got, err := r.Retrieve(context.Background(), "vid123", "query")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	lines := strings.Split(got, "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want 3:\n%s", len(lines), got)
	}
	want := []string{
		"[01:05] best by rerank",
		"[02:05] second best",
		"[03:05] third best",
	}
	for i, w := range want {
		if lines[i] != w {
			t.Errorf("line %d = %q, want %q", i, lines[i], w)
		}
	}
}

func TestRetrieveRerankFailureKeepsVectorOrder(t *testing.T) {
	source := &fakeSource{passages: []Passage{
		{Chunk: "first", PositionSeconds: 0},
		{Chunk: "second", PositionSeconds: 60},
		{Chunk: "third", PositionSeconds: 120},
		{Chunk: "fourth", PositionSeconds: 180},
	}}
	r := newTestRetriever(source, &fakeReranker{err: errors.New("rerank down")})

	got, err := r.Retrieve(context.Background(), "vid123", "query")
	if err != nil {
		t.Fatalf("rerank failure must not fail retrieval: %v", err)
	}

	lines := strings.Split(got, "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want 3", len(lines))
	}
	if lines[0] != "[00:00] first" {
		t.Errorf("line 0 = %q, vector order not preserved", lines[0])
	}
}

func TestRetrieveSourceErrorPropagates(t *testing.T) {
	r := newTestRetriever(&fakeSource{err: errors.New("db down")}, &fakeReranker{})

	if _, err := r.Retrieve(context.Background(), "vid123", "query"); err == nil {
		t.Fatal("expected storage error to surface")
	}
}
