package service

import (
	"context"
	"encoding/json"
	"log"
	"strings"
	"time"

	"tubemind-be/internal/constant"
	"tubemind-be/internal/dto"
	"tubemind-be/internal/entity"
	"tubemind-be/internal/repository/unitofwork"
	"tubemind-be/pkg/embedding"
	"tubemind-be/pkg/events"
	pktNats "tubemind-be/pkg/nats"
	"tubemind-be/pkg/utils"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

type consumerService struct {
	pubSub            *gochannel.GoChannel
	topicName         string
	uowFactory        unitofwork.RepositoryFactory
	embeddingProvider embedding.EmbeddingProvider
	eventPublisher    *pktNats.Publisher
}

func NewConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	uowFactory unitofwork.RepositoryFactory,
	embeddingProvider embedding.EmbeddingProvider,
	eventPublisher *pktNats.Publisher,
) IConsumerService {
	return &consumerService{
		pubSub:            pubSub,
		topicName:         topicName,
		uowFactory:        uowFactory,
		embeddingProvider: embeddingProvider,
		eventPublisher:    eventPublisher,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	var payload dto.PublishEmbedTranscriptMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		log.Printf("[ERROR] Failed to unmarshal ingestion job: %v", err)
		msg.Ack() // Ack invalid messages to prevent infinite retry
		return
	}

	log.Printf("[INFO] Processing transcript for video %s (length: %d)", payload.VideoId, len(payload.Transcript))

	// 1. Split Text
	chunks := utils.SplitText(payload.Transcript, constant.TranscriptChunkSize, constant.TranscriptChunkOverlap)
	log.Printf("[INFO] Transcript split into %d chunks", len(chunks))

	var newChunks []*entity.TranscriptChunk
	wordsSeen := 0

	// 2. Embed each chunk and estimate its position from speech pace
	for i, chunk := range chunks {
		res, err := cs.embeddingProvider.Generate(chunk, embedding.TaskRetrievalDocument)
		if err != nil {
			log.Printf("[ERROR] Failed to embed chunk %d of video %s: %v", i, payload.VideoId, err)
			msg.Nack() // Nack for retriable errors
			return
		}

		position := float64(wordsSeen) / constant.TranscriptWordsPerSecond
		wordsSeen += len(strings.Fields(chunk))

		newChunks = append(newChunks, &entity.TranscriptChunk{
			Id:              uuid.New(),
			VideoId:         payload.VideoId,
			ChunkIndex:      i,
			Chunk:           chunk,
			PositionSeconds: position,
			EmbeddingValue:  res.Embedding.Values,
			CreatedAt:       time.Now(),
		})
	}

	if len(newChunks) == 0 {
		log.Printf("[WARN] Video %s produced no chunks, nothing to store", payload.VideoId)
		msg.Ack()
		return
	}

	uow := cs.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		log.Printf("[ERROR] Failed to begin transaction: %v", err)
		msg.Nack()
		return
	}
	defer uow.Rollback()

	if err := uow.TranscriptEmbeddingRepository().CreateBulk(ctx, newChunks); err != nil {
		log.Printf("[ERROR] Failed to create bulk embeddings: %v", err)
		msg.Nack()
		return
	}

	if err := uow.Commit(); err != nil {
		log.Printf("[ERROR] Failed to commit transaction: %v", err)
		msg.Nack()
		return
	}

	log.Printf("[SUCCESS] Video processed: %d chunks for %s", len(newChunks), payload.VideoId)
	msg.Ack()

	// Publish Event for downstream consumers (warn-only, ingestion already done)
	if cs.eventPublisher != nil {
		evt := events.BaseEvent{
			Type: "VIDEO_INGESTED",
			Data: map[string]interface{}{
				"video_id":    payload.VideoId,
				"chunk_count": len(newChunks),
			},
			OccurredAt: time.Now(),
		}
		if err := cs.eventPublisher.Publish(ctx, evt); err != nil {
			log.Printf("[WARN] Failed to publish VIDEO_INGESTED event: %v", err)
		}
	}
}
