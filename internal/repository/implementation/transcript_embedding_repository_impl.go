package implementation

import (
	"context"
	"errors"

	"tubemind-be/internal/entity"
	"tubemind-be/internal/mapper"
	"tubemind-be/internal/model"
	"tubemind-be/internal/repository/contract"
	"tubemind-be/internal/repository/specification"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type TranscriptEmbeddingRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.TranscriptMapper
}

func NewTranscriptEmbeddingRepository(db *gorm.DB) contract.TranscriptEmbeddingRepository {
	return &TranscriptEmbeddingRepositoryImpl{
		db:     db,
		mapper: mapper.NewTranscriptMapper(),
	}
}

func (r *TranscriptEmbeddingRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *TranscriptEmbeddingRepositoryImpl) Create(ctx context.Context, chunk *entity.TranscriptChunk) error {
	m := r.mapper.ToModel(chunk)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*chunk = *r.mapper.ToEntity(m)
	return nil
}

func (r *TranscriptEmbeddingRepositoryImpl) CreateBulk(ctx context.Context, chunks []*entity.TranscriptChunk) error {
	if len(chunks) == 0 {
		return nil
	}
	models := make([]*model.TranscriptEmbedding, len(chunks))
	for i, c := range chunks {
		models[i] = r.mapper.ToModel(c)
	}

	// Two writers racing on the same video both succeed; the unique index on
	// (video_id, chunk_index) makes the duplicate rows no-ops.
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "video_id"}, {Name: "chunk_index"}},
			DoNothing: true,
		}).
		Create(models).Error
	if err != nil {
		return err
	}

	for i, m := range models {
		*chunks[i] = *r.mapper.ToEntity(m)
	}
	return nil
}

func (r *TranscriptEmbeddingRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.TranscriptEmbedding{}, id).Error
}

func (r *TranscriptEmbeddingRepositoryImpl) DeleteByVideoId(ctx context.Context, videoId string) error {
	return r.db.WithContext(ctx).Where("video_id = ?", videoId).Delete(&model.TranscriptEmbedding{}).Error
}

func (r *TranscriptEmbeddingRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.TranscriptChunk, error) {
	var m model.TranscriptEmbedding
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *TranscriptEmbeddingRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.TranscriptChunk, error) {
	var models []*model.TranscriptEmbedding
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

func (r *TranscriptEmbeddingRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.TranscriptEmbedding{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *TranscriptEmbeddingRepositoryImpl) CountByVideoId(ctx context.Context, videoId string) (int64, error) {
	return r.Count(ctx, specification.ByVideoID{VideoID: videoId})
}

func (r *TranscriptEmbeddingRepositoryImpl) SearchNearest(ctx context.Context, videoId string, embedding []float32, limit int) ([]*entity.TranscriptChunk, error) {
	if limit <= 0 {
		limit = 5
	}
	var models []*model.TranscriptEmbedding

	// pgvector cosine distance: embedding_value <=> vector, ascending
	err := r.db.WithContext(ctx).
		Where("video_id = ?", videoId).
		Where("deleted_at IS NULL").
		Clauses(clause.OrderBy{Expression: clause.Expr{
			SQL:  "embedding_value <=> ?",
			Vars: []interface{}{pgvector.NewVector(embedding)},
		}}).
		Limit(limit).
		Find(&models).Error
	if err != nil {
		return nil, err
	}

	return r.mapper.ToEntities(models), nil
}
