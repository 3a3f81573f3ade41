package specification

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ByChatSessionID filters messages by their session
type ByChatSessionID struct {
	ChatSessionID uuid.UUID
}

func (s ByChatSessionID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("chat_session_id = ?", s.ChatSessionID)
}

// OwnedBy enforces user ownership for data isolation
type OwnedBy struct {
	UserID uuid.UUID
}

func (s OwnedBy) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("user_id = ?", s.UserID)
}

// ByVideoID filters by the external video identifier
type ByVideoID struct {
	VideoID string
}

func (s ByVideoID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("video_id = ?", s.VideoID)
}
