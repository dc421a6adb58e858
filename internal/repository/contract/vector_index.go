package contract

import (
	"context"

	"ai-docqa-be/internal/entity"

	"github.com/google/uuid"
)

// ScoredChunk wraps a stored ChunkEmbedding with its similarity to the query
// vector (1.0 = identical under cosine similarity).
type ScoredChunk struct {
	Embedding  *entity.ChunkEmbedding
	Similarity float64
}

// VectorIndex is the capability contract every index backend implements.
// All operations are scoped to exactly one namespace; cross-namespace reads
// are impossible by construction.
type VectorIndex interface {
	// Upsert writes records atomically per record; an existing chunk id is
	// replaced wholesale. A record whose vector length differs from the index
	// dimension fails with entity.ErrDimension and nothing is persisted.
	Upsert(ctx context.Context, namespace string, records []*entity.ChunkEmbedding) error

	// ReplaceDocument swaps a document's whole chunk set in one transaction:
	// stale chunks of the document are removed, the new records inserted.
	// Readers never observe a partial chunk set.
	ReplaceDocument(ctx context.Context, namespace, documentId string, records []*entity.ChunkEmbedding) error

	// Search returns at most k records ordered by descending similarity, ties
	// broken by ascending sequence index. k must be positive
	// (entity.ErrConfig otherwise). An empty namespace yields an empty
	// slice, never an error.
	Search(ctx context.Context, namespace string, vector []float32, k int) ([]*ScoredChunk, error)

	// Delete removes the given chunk ids; unknown ids are a no-op.
	Delete(ctx context.Context, namespace string, chunkIds []uuid.UUID) error

	// DeleteByDocumentId removes every chunk of one document.
	DeleteByDocumentId(ctx context.Context, namespace, documentId string) error

	// Purge drops everything stored under the namespace.
	Purge(ctx context.Context, namespace string) error

	Count(ctx context.Context, namespace string) (int64, error)

	// Dimension is the fixed vector dimensionality D of this index.
	Dimension() int
}
