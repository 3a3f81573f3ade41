package entity

import (
	"time"

	"github.com/google/uuid"
)

type TranscriptChunk struct {
	Id              uuid.UUID
	VideoId         string
	ChunkIndex      int
	Chunk           string
	PositionSeconds float64
	EmbeddingValue  []float32
	CreatedAt       time.Time
	UpdatedAt       *time.Time
	DeletedAt       *time.Time
	IsDeleted       bool
}
