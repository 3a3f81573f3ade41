package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
)

type TranscriptEmbedding struct {
	Id              uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	VideoId         string          `gorm:"type:text;not null;uniqueIndex:idx_video_chunk,priority:1"`
	ChunkIndex      int             `gorm:"not null;uniqueIndex:idx_video_chunk,priority:2"` // 0-based index for ordering
	Chunk           string          `gorm:"type:text;not null"`
	PositionSeconds float64         `gorm:"not null;default:0"` // Estimated offset into the video
	EmbeddingValue  pgvector.Vector `gorm:"type:vector(768)"`
	CreatedAt       time.Time       `gorm:"autoCreateTime"`
	UpdatedAt       time.Time       `gorm:"autoUpdateTime"`
	DeletedAt       gorm.DeletedAt  `gorm:"index"`
}

func (TranscriptEmbedding) TableName() string {
	return "transcript_embeddings"
}
