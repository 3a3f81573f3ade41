package service

import (
	"context"
	"encoding/json"
	"fmt"

	"tubemind-be/internal/dto"
	"tubemind-be/internal/pkg/logger"
	"tubemind-be/internal/repository/unitofwork"
	"tubemind-be/pkg/recommend"
	"tubemind-be/pkg/transcript"
	"tubemind-be/pkg/utils"
)

// IVideoService owns the ingestion entrypoint: resolve the video, fetch its
// transcript, and queue the embedding job.
type IVideoService interface {
	Ingest(ctx context.Context, request *dto.IngestVideoRequest) (*dto.IngestVideoResponse, error)
	Status(ctx context.Context, videoId string) (*dto.VideoStatusResponse, error)
}

type videoService struct {
	uowFactory       unitofwork.RepositoryFactory
	fetcher          transcript.Fetcher
	publisherService IPublisherService
	recommender      *recommend.Recommender
	logger           logger.ILogger
}

func NewVideoService(
	uowFactory unitofwork.RepositoryFactory,
	fetcher transcript.Fetcher,
	publisherService IPublisherService,
	recommender *recommend.Recommender,
	log logger.ILogger,
) IVideoService {
	return &videoService{
		uowFactory:       uowFactory,
		fetcher:          fetcher,
		publisherService: publisherService,
		recommender:      recommender,
		logger:           log,
	}
}

func (s *videoService) Ingest(ctx context.Context, request *dto.IngestVideoRequest) (*dto.IngestVideoResponse, error) {
	videoId := utils.ExtractVideoID(request.URL)
	if videoId == "" {
		return nil, fmt.Errorf("unrecognized video url: %s", request.URL)
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)

	// Existing chunks mean the video was already processed. The unique index
	// on (video_id, chunk_index) backstops this check under races.
	count, err := uow.TranscriptEmbeddingRepository().CountByVideoId(ctx, videoId)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing transcript: %w", err)
	}
	if count > 0 {
		s.logger.Info("VideoService", "Video already ingested", map[string]interface{}{"video_id": videoId})
		return &dto.IngestVideoResponse{VideoId: videoId, AlreadyIngested: true}, nil
	}

	text, err := s.fetcher.Fetch(ctx, videoId)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch transcript for %s: %w", videoId, err)
	}
	if text == "" {
		return nil, fmt.Errorf("video %s has no transcript", videoId)
	}

	payload, err := json.Marshal(dto.PublishEmbedTranscriptMessage{
		VideoId:    videoId,
		Transcript: text,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal ingestion job: %w", err)
	}
	if err := s.publisherService.Publish(ctx, payload); err != nil {
		return nil, fmt.Errorf("failed to queue ingestion job: %w", err)
	}

	s.logger.Info("VideoService", "Ingestion job queued", map[string]interface{}{
		"video_id":          videoId,
		"transcript_length": len(text),
	})

	var recs []recommend.Recommendation
	if s.recommender != nil {
		recs = s.recommender.Recommend(ctx, text)
	}

	return &dto.IngestVideoResponse{
		VideoId:         videoId,
		Recommendations: recs,
	}, nil
}

func (s *videoService) Status(ctx context.Context, videoId string) (*dto.VideoStatusResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	count, err := uow.TranscriptEmbeddingRepository().CountByVideoId(ctx, videoId)
	if err != nil {
		return nil, fmt.Errorf("failed to count transcript chunks: %w", err)
	}
	return &dto.VideoStatusResponse{
		VideoId:    videoId,
		ChunkCount: count,
		Ready:      count > 0,
	}, nil
}
