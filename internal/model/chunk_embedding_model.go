package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
)

type ChunkEmbedding struct {
	Id             uuid.UUID       `gorm:"type:uuid;primaryKey"`
	Namespace      string          `gorm:"type:text;not null;index:idx_chunk_embeddings_namespace"`
	DocumentId     string          `gorm:"type:text;not null;index:idx_chunk_embeddings_document"`
	ChunkText      string          `gorm:"type:text"`
	EmbeddingValue pgvector.Vector `gorm:"type:vector(768)"` // matches EMBEDDING_DIMENSION; changing it requires a full re-index
	PageStart      int             `gorm:"default:0"`
	PageEnd        int             `gorm:"default:0"`
	SeqIndex       int             `gorm:"default:0"` // 0-based index for ordering
	CreatedAt      time.Time       `gorm:"autoCreateTime"`
	UpdatedAt      time.Time       `gorm:"autoUpdateTime"`
}

func (ChunkEmbedding) TableName() string {
	return "chunk_embeddings"
}
