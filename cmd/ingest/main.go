package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"tubemind-be/internal/config"
	"tubemind-be/internal/constant"
	"tubemind-be/internal/entity"
	"tubemind-be/internal/repository/unitofwork"
	"tubemind-be/pkg/database"
	"tubemind-be/pkg/embedding"
	embeddingJina "tubemind-be/pkg/embedding/jina"
	"tubemind-be/pkg/transcript"
	"tubemind-be/pkg/utils"

	"github.com/fatih/color"
	"github.com/google/uuid"
)

// Batch transcript ingester. Bypasses the queue and writes chunks directly,
// for seeding a database or backfilling videos from a shell.
//
//	go run ./cmd/ingest <video-url> [<video-url> ...]
func main() {
	if len(os.Args) < 2 {
		color.Yellow("Usage: ingest <video-url> [<video-url> ...]")
		os.Exit(1)
	}

	cfg := config.Load()

	db, err := database.NewGormDBFromDSN(cfg.Database.Connection)
	if err != nil {
		color.Red("Failed to connect to database: %v", err)
		os.Exit(1)
	}
	uowFactory := unitofwork.NewRepositoryFactory(db)

	var embedder embedding.EmbeddingProvider
	if cfg.Ai.EmbeddingProvider == "jina" {
		embedder = embeddingJina.NewJinaProvider(cfg.Keys.Jina)
	} else {
		embedder = embedding.NewOllamaProvider(cfg.Ai.OllamaBaseURL, cfg.Ai.OllamaModel)
	}

	fetcher := transcript.NewYouTubeFetcher()
	ctx := context.Background()

	failures := 0
	for _, url := range os.Args[1:] {
		if err := ingestOne(ctx, uowFactory, fetcher, embedder, url); err != nil {
			color.Red("✗ %s: %v", url, err)
			failures++
			continue
		}
		color.Green("✓ %s", url)
	}

	if failures > 0 {
		os.Exit(1)
	}
}

func ingestOne(
	ctx context.Context,
	uowFactory unitofwork.RepositoryFactory,
	fetcher transcript.Fetcher,
	embedder embedding.EmbeddingProvider,
	url string,
) error {
	videoId := utils.ExtractVideoID(url)
	if videoId == "" {
		return fmt.Errorf("unrecognized video url")
	}

	uow := uowFactory.NewUnitOfWork(ctx)
	count, err := uow.TranscriptEmbeddingRepository().CountByVideoId(ctx, videoId)
	if err != nil {
		return err
	}
	if count > 0 {
		color.Cyan("  %s already ingested (%d chunks), skipping", videoId, count)
		return nil
	}

	text, err := fetcher.Fetch(ctx, videoId)
	if err != nil {
		return err
	}

	chunks := utils.SplitText(text, constant.TranscriptChunkSize, constant.TranscriptChunkOverlap)
	log.Printf("%s: %d chunks", videoId, len(chunks))

	var rows []*entity.TranscriptChunk
	wordsSeen := 0
	for i, chunk := range chunks {
		res, err := embedder.Generate(chunk, embedding.TaskRetrievalDocument)
		if err != nil {
			return err
		}
		rows = append(rows, &entity.TranscriptChunk{
			Id:              uuid.New(),
			VideoId:         videoId,
			ChunkIndex:      i,
			Chunk:           chunk,
			PositionSeconds: float64(wordsSeen) / constant.TranscriptWordsPerSecond,
			EmbeddingValue:  res.Embedding.Values,
			CreatedAt:       time.Now(),
		})
		wordsSeen += len(strings.Fields(chunk))
	}

	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()
	if err := uow.TranscriptEmbeddingRepository().CreateBulk(ctx, rows); err != nil {
		return err
	}
	return uow.Commit()
}
