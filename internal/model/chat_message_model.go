package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type ChatMessage struct {
	Id            uuid.UUID         `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Content       string            `gorm:"type:text;not null"`
	Role          string            `gorm:"type:text;not null"`
	Metadata      datatypes.JSONMap `gorm:"type:jsonb"` // Score and rationale for model turns
	ChatSessionId uuid.UUID         `gorm:"type:uuid;not null;index"`
	CreatedAt     time.Time         `gorm:"autoCreateTime"`
	UpdatedAt     time.Time         `gorm:"autoUpdateTime"`
	DeletedAt     gorm.DeletedAt    `gorm:"index"`
}

func (ChatMessage) TableName() string {
	return "chat_messages"
}
