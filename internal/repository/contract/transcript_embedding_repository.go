package contract

import (
	"context"

	"tubemind-be/internal/entity"
	"tubemind-be/internal/repository/specification"

	"github.com/google/uuid"
)

type TranscriptEmbeddingRepository interface {
	Create(ctx context.Context, chunk *entity.TranscriptChunk) error
	// CreateBulk inserts chunks in one statement. Rows that collide on
	// (video_id, chunk_index) are skipped, keeping re-ingestion idempotent.
	CreateBulk(ctx context.Context, chunks []*entity.TranscriptChunk) error
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteByVideoId(ctx context.Context, videoId string) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.TranscriptChunk, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.TranscriptChunk, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
	CountByVideoId(ctx context.Context, videoId string) (int64, error)
	// SearchNearest returns chunks for a video ordered by cosine distance
	// to the query embedding, closest first.
	SearchNearest(ctx context.Context, videoId string, embedding []float32, limit int) ([]*entity.TranscriptChunk, error)
}
