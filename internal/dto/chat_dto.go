package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateSessionRequest struct {
	VideoURL string `json:"video_url" validate:"required,url"`
	Title    string `json:"title,omitempty"`
}

type CreateSessionResponse struct {
	Id      uuid.UUID `json:"id"`
	VideoId string    `json:"video_id"`
}

type GetAllSessionsResponse struct {
	Id        uuid.UUID  `json:"id"`
	VideoId   string     `json:"video_id"`
	Title     string     `json:"title"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at"`
}

type GetChatHistoryResponse struct {
	Id        uuid.UUID              `json:"id"`
	Role      string                 `json:"role"`
	Content   string                 `json:"content"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	CreatedAt time.Time              `json:"created_at"`
}

type DeleteSessionRequest struct {
	ChatSessionId uuid.UUID `json:"chat_session_id" validate:"required"`
}
