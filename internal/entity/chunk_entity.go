package entity

import (
	"time"

	"github.com/google/uuid"
)

// Chunk is a bounded span of document text with provenance. It is the unit of
// retrieval.
type Chunk struct {
	Id         uuid.UUID
	DocumentId string
	Namespace  string
	Text       string
	PageStart  int
	PageEnd    int
	SeqIndex   int // 0-based position within the document's chunk sequence
}

// ChunkEmbedding is the persisted (vector, chunk, metadata) record owned by
// the vector index. Re-ingesting the same chunk id replaces it wholesale.
type ChunkEmbedding struct {
	Id         uuid.UUID
	Namespace  string
	DocumentId string
	ChunkText  string
	Vector     []float32
	PageStart  int
	PageEnd    int
	SeqIndex   int
	CreatedAt  time.Time
	UpdatedAt  *time.Time
}
