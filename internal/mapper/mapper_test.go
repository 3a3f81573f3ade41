package mapper

import (
	"testing"
	"time"

	"tubemind-be/internal/entity"
	"tubemind-be/internal/model"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

func TestChatSessionRoundTrip(t *testing.T) {
	m := NewChatMapper()
	now := time.Now()

	src := &model.ChatSession{
		Id:        uuid.New(),
		UserId:    uuid.New(),
		VideoId:   "dQw4w9WgXcQ",
		Title:     "Chat about dQw4w9WgXcQ",
		CreatedAt: now,
		UpdatedAt: now,
	}

	ent := m.ChatSessionToEntity(src)
	require.NotNil(t, ent)
	assert.Equal(t, src.Id, ent.Id)
	assert.Equal(t, src.VideoId, ent.VideoId)
	assert.False(t, ent.IsDeleted)
	require.NotNil(t, ent.UpdatedAt)

	back := m.ChatSessionToModel(ent)
	require.NotNil(t, back)
	assert.Equal(t, src.Id, back.Id)
	assert.Equal(t, src.Title, back.Title)
	assert.False(t, back.DeletedAt.Valid)
}

func TestChatSessionDeletedAt(t *testing.T) {
	m := NewChatMapper()
	deleted := time.Now()

	ent := m.ChatSessionToEntity(&model.ChatSession{
		Id:        uuid.New(),
		DeletedAt: gorm.DeletedAt{Time: deleted, Valid: true},
	})
	require.NotNil(t, ent)
	assert.True(t, ent.IsDeleted)
	require.NotNil(t, ent.DeletedAt)
	assert.Equal(t, deleted, *ent.DeletedAt)

	back := m.ChatSessionToModel(ent)
	assert.True(t, back.DeletedAt.Valid)
}

func TestChatSessionNil(t *testing.T) {
	m := NewChatMapper()
	assert.Nil(t, m.ChatSessionToEntity(nil))
	assert.Nil(t, m.ChatSessionToModel(nil))
}

func TestChatMessageMetadata(t *testing.T) {
	m := NewChatMapper()

	src := &model.ChatMessage{
		Id:            uuid.New(),
		Content:       "answer text",
		Role:          "model",
		Metadata:      datatypes.JSONMap{"score": float64(90), "reason": "Hybrid RAG Execution"},
		ChatSessionId: uuid.New(),
	}

	ent := m.ChatMessageToEntity(src)
	require.NotNil(t, ent)
	assert.Equal(t, "model", ent.Role)
	assert.Equal(t, float64(90), ent.Metadata["score"])

	back := m.ChatMessageToModel(ent)
	require.NotNil(t, back)
	assert.Equal(t, datatypes.JSONMap(ent.Metadata), back.Metadata)
}

func TestChatMessageNilMetadata(t *testing.T) {
	m := NewChatMapper()

	ent := m.ChatMessageToEntity(&model.ChatMessage{Id: uuid.New(), Role: "user"})
	require.NotNil(t, ent)
	assert.Nil(t, ent.Metadata)

	back := m.ChatMessageToModel(ent)
	require.NotNil(t, back)
	assert.Nil(t, back.Metadata)
}

func TestTranscriptRoundTrip(t *testing.T) {
	m := NewTranscriptMapper()

	src := &entity.TranscriptChunk{
		Id:              uuid.New(),
		VideoId:         "dQw4w9WgXcQ",
		ChunkIndex:      3,
		Chunk:           "never gonna give you up",
		PositionSeconds: 42.5,
		EmbeddingValue:  []float32{0.1, 0.2, 0.3},
	}

	mdl := m.ToModel(src)
	require.NotNil(t, mdl)
	assert.Equal(t, pgvector.NewVector([]float32{0.1, 0.2, 0.3}), mdl.EmbeddingValue)
	assert.Equal(t, 42.5, mdl.PositionSeconds)

	back := m.ToEntity(mdl)
	require.NotNil(t, back)
	assert.Equal(t, src.Chunk, back.Chunk)
	assert.Equal(t, src.EmbeddingValue, back.EmbeddingValue)
	assert.False(t, back.IsDeleted)
}

func TestTranscriptToEntities(t *testing.T) {
	m := NewTranscriptMapper()

	models := []*model.TranscriptEmbedding{
		{Id: uuid.New(), VideoId: "v", ChunkIndex: 0, Chunk: "first"},
		{Id: uuid.New(), VideoId: "v", ChunkIndex: 1, Chunk: "second"},
	}

	entities := m.ToEntities(models)
	require.Len(t, entities, 2)
	assert.Equal(t, "first", entities[0].Chunk)
	assert.Equal(t, int(1), entities[1].ChunkIndex)
}
