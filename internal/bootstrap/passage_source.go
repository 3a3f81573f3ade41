package bootstrap

import (
	"context"

	"tubemind-be/internal/repository/unitofwork"
	"tubemind-be/pkg/retrieval"
)

// passageSource adapts the transcript embedding repository to the retriever.
type passageSource struct {
	uowFactory unitofwork.RepositoryFactory
}

var _ retrieval.PassageSource = &passageSource{}

func (s *passageSource) SearchNearest(ctx context.Context, videoID string, queryEmbedding []float32, limit int) ([]retrieval.Passage, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	chunks, err := uow.TranscriptEmbeddingRepository().SearchNearest(ctx, videoID, queryEmbedding, limit)
	if err != nil {
		return nil, err
	}

	passages := make([]retrieval.Passage, len(chunks))
	for i, c := range chunks {
		passages[i] = retrieval.Passage{
			Chunk:           c.Chunk,
			PositionSeconds: c.PositionSeconds,
		}
	}
	return passages, nil
}
