package dto

import (
	"tubemind-be/pkg/recommend"
)

type IngestVideoRequest struct {
	URL string `json:"url" validate:"required,url"`
}

type IngestVideoResponse struct {
	VideoId         string                     `json:"video_id"`
	AlreadyIngested bool                       `json:"already_ingested"`
	Recommendations []recommend.Recommendation `json:"recommendations,omitempty"`
}

type VideoStatusResponse struct {
	VideoId    string `json:"video_id"`
	ChunkCount int64  `json:"chunk_count"`
	Ready      bool   `json:"ready"`
}

// PublishEmbedTranscriptMessage is the ingestion job payload on the queue.
type PublishEmbedTranscriptMessage struct {
	VideoId    string `json:"video_id"`
	Transcript string `json:"transcript"`
}
