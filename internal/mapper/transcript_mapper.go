package mapper

import (
	"time"

	"tubemind-be/internal/entity"
	"tubemind-be/internal/model"

	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
)

type TranscriptMapper struct{}

func NewTranscriptMapper() *TranscriptMapper {
	return &TranscriptMapper{}
}

func (m *TranscriptMapper) ToEntity(t *model.TranscriptEmbedding) *entity.TranscriptChunk {
	if t == nil {
		return nil
	}

	var deletedAt *time.Time
	if t.DeletedAt.Valid {
		dt := t.DeletedAt.Time
		deletedAt = &dt
	}

	var updatedAt *time.Time
	if !t.UpdatedAt.IsZero() {
		ut := t.UpdatedAt
		updatedAt = &ut
	}

	return &entity.TranscriptChunk{
		Id:              t.Id,
		VideoId:         t.VideoId,
		ChunkIndex:      t.ChunkIndex,
		Chunk:           t.Chunk,
		PositionSeconds: t.PositionSeconds,
		EmbeddingValue:  t.EmbeddingValue.Slice(),
		CreatedAt:       t.CreatedAt,
		UpdatedAt:       updatedAt,
		DeletedAt:       deletedAt,
		IsDeleted:       t.DeletedAt.Valid,
	}
}

func (m *TranscriptMapper) ToModel(t *entity.TranscriptChunk) *model.TranscriptEmbedding {
	if t == nil {
		return nil
	}

	var deletedAt gorm.DeletedAt
	if t.DeletedAt != nil {
		deletedAt = gorm.DeletedAt{Time: *t.DeletedAt, Valid: true}
	} else if t.IsDeleted {
		deletedAt = gorm.DeletedAt{Time: time.Now(), Valid: true}
	}

	var updatedAt time.Time
	if t.UpdatedAt != nil {
		updatedAt = *t.UpdatedAt
	}

	return &model.TranscriptEmbedding{
		Id:              t.Id,
		VideoId:         t.VideoId,
		ChunkIndex:      t.ChunkIndex,
		Chunk:           t.Chunk,
		PositionSeconds: t.PositionSeconds,
		EmbeddingValue:  pgvector.NewVector(t.EmbeddingValue),
		CreatedAt:       t.CreatedAt,
		UpdatedAt:       updatedAt,
		DeletedAt:       deletedAt,
	}
}

func (m *TranscriptMapper) ToEntities(models []*model.TranscriptEmbedding) []*entity.TranscriptChunk {
	entities := make([]*entity.TranscriptChunk, len(models))
	for i, mdl := range models {
		entities[i] = m.ToEntity(mdl)
	}
	return entities
}
