package mapper

import (
	"time"

	"ai-docqa-be/internal/entity"
	"ai-docqa-be/internal/model"

	"github.com/pgvector/pgvector-go"
)

type ChunkEmbeddingMapper struct{}

func NewChunkEmbeddingMapper() *ChunkEmbeddingMapper {
	return &ChunkEmbeddingMapper{}
}

func (m *ChunkEmbeddingMapper) ToEntity(e *model.ChunkEmbedding) *entity.ChunkEmbedding {
	if e == nil {
		return nil
	}

	var updatedAt *time.Time
	if !e.UpdatedAt.IsZero() {
		t := e.UpdatedAt
		updatedAt = &t
	}

	return &entity.ChunkEmbedding{
		Id:         e.Id,
		Namespace:  e.Namespace,
		DocumentId: e.DocumentId,
		ChunkText:  e.ChunkText,
		Vector:     e.EmbeddingValue.Slice(),
		PageStart:  e.PageStart,
		PageEnd:    e.PageEnd,
		SeqIndex:   e.SeqIndex,
		CreatedAt:  e.CreatedAt,
		UpdatedAt:  updatedAt,
	}
}

func (m *ChunkEmbeddingMapper) ToModel(e *entity.ChunkEmbedding) *model.ChunkEmbedding {
	if e == nil {
		return nil
	}

	var updatedAt time.Time
	if e.UpdatedAt != nil {
		updatedAt = *e.UpdatedAt
	}

	return &model.ChunkEmbedding{
		Id:             e.Id,
		Namespace:      e.Namespace,
		DocumentId:     e.DocumentId,
		ChunkText:      e.ChunkText,
		EmbeddingValue: pgvector.NewVector(e.Vector),
		PageStart:      e.PageStart,
		PageEnd:        e.PageEnd,
		SeqIndex:       e.SeqIndex,
		CreatedAt:      e.CreatedAt,
		UpdatedAt:      updatedAt,
	}
}

func (m *ChunkEmbeddingMapper) ToModels(embeddings []*entity.ChunkEmbedding) []*model.ChunkEmbedding {
	models := make([]*model.ChunkEmbedding, len(embeddings))
	for i, e := range embeddings {
		models[i] = m.ToModel(e)
	}
	return models
}
