package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"tubemind-be/internal/dto"
	"tubemind-be/internal/repository/contract"
	"tubemind-be/internal/repository/unitofwork"
)

type nopLogger struct{}

func (nopLogger) Debug(module, message string, details map[string]interface{}) {}
func (nopLogger) Info(module, message string, details map[string]interface{})  {}
func (nopLogger) Warn(module, message string, details map[string]interface{})  {}
func (nopLogger) Error(module, message string, details map[string]interface{}) {}
func (nopLogger) Sync() error                                                  { return nil }

type fakeEmbeddingRepo struct {
	contract.TranscriptEmbeddingRepository

	countByVideo map[string]int64
	countErr     error
}

func (r *fakeEmbeddingRepo) CountByVideoId(ctx context.Context, videoId string) (int64, error) {
	if r.countErr != nil {
		return 0, r.countErr
	}
	return r.countByVideo[videoId], nil
}

type fakeUnitOfWork struct {
	unitofwork.UnitOfWork

	embeddings *fakeEmbeddingRepo
}

func (u *fakeUnitOfWork) TranscriptEmbeddingRepository() contract.TranscriptEmbeddingRepository {
	return u.embeddings
}

type fakeFactory struct {
	uow *fakeUnitOfWork
}

func (f *fakeFactory) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork {
	return f.uow
}

type fakeFetcher struct {
	text string
	err  error

	fetched []string
}

func (f *fakeFetcher) Fetch(ctx context.Context, videoID string) (string, error) {
	f.fetched = append(f.fetched, videoID)
	return f.text, f.err
}

type fakePublisher struct {
	published [][]byte
	err       error
}

func (p *fakePublisher) Publish(ctx context.Context, payload []byte) error {
	if p.err != nil {
		return p.err
	}
	p.published = append(p.published, payload)
	return nil
}

func newVideoServiceForTest(repo *fakeEmbeddingRepo, fetcher *fakeFetcher, publisher *fakePublisher) IVideoService {
	factory := &fakeFactory{uow: &fakeUnitOfWork{embeddings: repo}}
	return NewVideoService(factory, fetcher, publisher, nil, nopLogger{})
}

func TestIngestQueuesJob(t *testing.T) {
	repo := &fakeEmbeddingRepo{countByVideo: map[string]int64{}}
	fetcher := &fakeFetcher{text: "the full transcript text"}
	publisher := &fakePublisher{}
	svc := newVideoServiceForTest(repo, fetcher, publisher)

	resp, err := svc.Ingest(context.Background(), &dto.IngestVideoRequest{
		URL: "https://www.youtube.com/watch?v=dQw4w9WgXcQ",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.VideoId != "dQw4w9WgXcQ" {
		t.Errorf("unexpected video id: %q", resp.VideoId)
	}
	if resp.AlreadyIngested {
		t.Error("fresh video reported as already ingested")
	}

	if len(publisher.published) != 1 {
		t.Fatalf("expected 1 queued job, got %d", len(publisher.published))
	}
	var job dto.PublishEmbedTranscriptMessage
	if err := json.Unmarshal(publisher.published[0], &job); err != nil {
		t.Fatalf("decode job payload: %v", err)
	}
	if job.VideoId != "dQw4w9WgXcQ" || job.Transcript != "the full transcript text" {
		t.Errorf("unexpected job payload: %+v", job)
	}
}

func TestIngestAlreadyIngested(t *testing.T) {
	repo := &fakeEmbeddingRepo{countByVideo: map[string]int64{"dQw4w9WgXcQ": 12}}
	fetcher := &fakeFetcher{text: "ignored"}
	publisher := &fakePublisher{}
	svc := newVideoServiceForTest(repo, fetcher, publisher)

	resp, err := svc.Ingest(context.Background(), &dto.IngestVideoRequest{
		URL: "https://youtu.be/dQw4w9WgXcQ",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !resp.AlreadyIngested {
		t.Error("expected already-ingested response")
	}
	if len(fetcher.fetched) != 0 {
		t.Error("transcript must not be fetched for an ingested video")
	}
	if len(publisher.published) != 0 {
		t.Error("no job may be queued for an ingested video")
	}
}

func TestIngestRejectsBadURL(t *testing.T) {
	svc := newVideoServiceForTest(
		&fakeEmbeddingRepo{countByVideo: map[string]int64{}},
		&fakeFetcher{},
		&fakePublisher{},
	)

	if _, err := svc.Ingest(context.Background(), &dto.IngestVideoRequest{URL: "https://example.com/nope"}); err == nil {
		t.Fatal("expected error for unrecognized url")
	}
}

func TestIngestFetchFailure(t *testing.T) {
	publisher := &fakePublisher{}
	svc := newVideoServiceForTest(
		&fakeEmbeddingRepo{countByVideo: map[string]int64{}},
		&fakeFetcher{err: errors.New("no caption tracks")},
		publisher,
	)

	if _, err := svc.Ingest(context.Background(), &dto.IngestVideoRequest{
		URL: "https://youtu.be/dQw4w9WgXcQ",
	}); err == nil {
		t.Fatal("expected error when the transcript fetch fails")
	}
	if len(publisher.published) != 0 {
		t.Error("no job may be queued without a transcript")
	}
}

func TestIngestEmptyTranscript(t *testing.T) {
	svc := newVideoServiceForTest(
		&fakeEmbeddingRepo{countByVideo: map[string]int64{}},
		&fakeFetcher{text: ""},
		&fakePublisher{},
	)

	if _, err := svc.Ingest(context.Background(), &dto.IngestVideoRequest{
		URL: "https://youtu.be/dQw4w9WgXcQ",
	}); err == nil {
		t.Fatal("expected error for empty transcript")
	}
}

func TestIngestPublishFailure(t *testing.T) {
	svc := newVideoServiceForTest(
		&fakeEmbeddingRepo{countByVideo: map[string]int64{}},
		&fakeFetcher{text: "transcript"},
		&fakePublisher{err: errors.New("broker down")},
	)

	if _, err := svc.Ingest(context.Background(), &dto.IngestVideoRequest{
		URL: "https://youtu.be/dQw4w9WgXcQ",
	}); err == nil {
		t.Fatal("expected error when the queue rejects the job")
	}
}

func TestStatus(t *testing.T) {
	repo := &fakeEmbeddingRepo{countByVideo: map[string]int64{"ready-video1": 42}}
	svc := newVideoServiceForTest(repo, &fakeFetcher{}, &fakePublisher{})

	resp, err := svc.Status(context.Background(), "ready-video1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !resp.Ready || resp.ChunkCount != 42 {
		t.Errorf("unexpected status: %+v", resp)
	}

	resp, err = svc.Status(context.Background(), "unknown-vid1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Ready || resp.ChunkCount != 0 {
		t.Errorf("unexpected status for unknown video: %+v", resp)
	}
}
