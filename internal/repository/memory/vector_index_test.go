package memory

import (
	"context"
	"errors"
	"testing"

	"ai-docqa-be/internal/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func record(doc string, seq int, vector []float32) *entity.ChunkEmbedding {
	return &entity.ChunkEmbedding{
		Id:         uuid.New(),
		DocumentId: doc,
		ChunkText:  "chunk",
		Vector:     vector,
		SeqIndex:   seq,
	}
}

func TestUpsertRejectsDimensionMismatch(t *testing.T) {
	idx := NewVectorIndex(3)
	ctx := context.Background()

	err := idx.Upsert(ctx, "ns", []*entity.ChunkEmbedding{
		record("doc", 0, []float32{1, 0, 0}),
		record("doc", 1, []float32{1, 0}), // wrong dimension
	})
	assert.ErrorIs(t, err, entity.ErrDimension)

	// Nothing from the bad batch may be stored.
	count, err := idx.Count(ctx, "ns")
	assert.NoError(t, err)
	assert.Equal(t, int64(0), count)
}

func TestUpsertReplacesById(t *testing.T) {
	idx := NewVectorIndex(2)
	ctx := context.Background()

	rec := record("doc", 0, []float32{1, 0})
	assert.NoError(t, idx.Upsert(ctx, "ns", []*entity.ChunkEmbedding{rec}))

	updated := *rec
	updated.ChunkText = "updated text"
	assert.NoError(t, idx.Upsert(ctx, "ns", []*entity.ChunkEmbedding{&updated}))

	count, _ := idx.Count(ctx, "ns")
	assert.Equal(t, int64(1), count)

	results, err := idx.Search(ctx, "ns", []float32{1, 0}, 1)
	assert.NoError(t, err)
	assert.Equal(t, "updated text", results[0].Embedding.ChunkText)
}

func TestSearchOrderingAndTieBreak(t *testing.T) {
	idx := NewVectorIndex(2)
	ctx := context.Background()

	assert.NoError(t, idx.Upsert(ctx, "ns", []*entity.ChunkEmbedding{
		record("doc", 2, []float32{1, 0}), // identical direction, later seq
		record("doc", 0, []float32{1, 0}), // identical direction, earliest seq
		record("doc", 1, []float32{0, 1}), // orthogonal
	}))

	results, err := idx.Search(ctx, "ns", []float32{1, 0}, 3)
	assert.NoError(t, err)
	assert.Len(t, results, 3)

	// Ties resolve by ascending sequence index.
	assert.Equal(t, 0, results[0].Embedding.SeqIndex)
	assert.Equal(t, 2, results[1].Embedding.SeqIndex)
	assert.Equal(t, 1, results[2].Embedding.SeqIndex)
	assert.InDelta(t, 1.0, results[0].Similarity, 1e-9)
	assert.InDelta(t, 0.0, results[2].Similarity, 1e-9)
}

func TestSearchEmptyNamespace(t *testing.T) {
	idx := NewVectorIndex(2)

	results, err := idx.Search(context.Background(), "missing", []float32{1, 0}, 5)
	assert.NoError(t, err)
	assert.Empty(t, results)
}

func TestSearchQueryDimensionMismatch(t *testing.T) {
	idx := NewVectorIndex(3)

	_, err := idx.Search(context.Background(), "ns", []float32{1, 0}, 5)
	assert.True(t, errors.Is(err, entity.ErrDimension))
}

func TestSearchRejectsNonPositiveK(t *testing.T) {
	idx := NewVectorIndex(2)

	for _, k := range []int{0, -1} {
		_, err := idx.Search(context.Background(), "ns", []float32{1, 0}, k)
		assert.True(t, errors.Is(err, entity.ErrConfig), "k=%d", k)
	}
}

func TestReplaceDocumentSwapsChunkSet(t *testing.T) {
	idx := NewVectorIndex(2)
	ctx := context.Background()

	assert.NoError(t, idx.Upsert(ctx, "ns", []*entity.ChunkEmbedding{
		record("doc-a", 0, []float32{1, 0}),
		record("doc-a", 1, []float32{1, 0}),
		record("doc-b", 0, []float32{0, 1}),
	}))

	assert.NoError(t, idx.ReplaceDocument(ctx, "ns", "doc-a", []*entity.ChunkEmbedding{
		record("doc-a", 0, []float32{0, 1}),
	}))

	count, _ := idx.Count(ctx, "ns")
	assert.Equal(t, int64(2), count, "doc-a shrank to one chunk, doc-b untouched")

	results, err := idx.Search(ctx, "ns", []float32{0, 1}, 10)
	assert.NoError(t, err)
	for _, res := range results {
		if res.Embedding.DocumentId == "doc-a" {
			assert.Equal(t, 0, res.Embedding.SeqIndex)
		}
	}
}

func TestNamespaceIsolation(t *testing.T) {
	idx := NewVectorIndex(2)
	ctx := context.Background()

	assert.NoError(t, idx.Upsert(ctx, "ns-a", []*entity.ChunkEmbedding{record("doc", 0, []float32{1, 0})}))
	assert.NoError(t, idx.Upsert(ctx, "ns-b", []*entity.ChunkEmbedding{record("doc", 0, []float32{1, 0})}))

	results, err := idx.Search(ctx, "ns-a", []float32{1, 0}, 10)
	assert.NoError(t, err)
	assert.Len(t, results, 1)

	assert.NoError(t, idx.Purge(ctx, "ns-a"))

	countA, _ := idx.Count(ctx, "ns-a")
	countB, _ := idx.Count(ctx, "ns-b")
	assert.Equal(t, int64(0), countA)
	assert.Equal(t, int64(1), countB)
}

func TestDeleteUnknownIdsIsNoOp(t *testing.T) {
	idx := NewVectorIndex(2)
	ctx := context.Background()

	rec := record("doc", 0, []float32{1, 0})
	assert.NoError(t, idx.Upsert(ctx, "ns", []*entity.ChunkEmbedding{rec}))

	assert.NoError(t, idx.Delete(ctx, "ns", []uuid.UUID{uuid.New()}))
	count, _ := idx.Count(ctx, "ns")
	assert.Equal(t, int64(1), count)

	assert.NoError(t, idx.Delete(ctx, "ns", []uuid.UUID{rec.Id}))
	count, _ = idx.Count(ctx, "ns")
	assert.Equal(t, int64(0), count)
}

func TestDocumentRepositoryLifecycle(t *testing.T) {
	repo := NewDocumentRepository()
	ctx := context.Background()

	assert.NoError(t, repo.Upsert(ctx, &entity.Document{Id: "doc-1", Namespace: "ns", Filename: "a.txt", ChunkCount: 2}))
	assert.NoError(t, repo.Upsert(ctx, &entity.Document{Id: "doc-1", Namespace: "ns", Filename: "a.txt", ChunkCount: 5}))
	assert.NoError(t, repo.Upsert(ctx, &entity.Document{Id: "doc-2", Namespace: "other", Filename: "b.txt"}))

	doc, err := repo.FindOne(ctx, "ns", "doc-1")
	assert.NoError(t, err)
	assert.NotNil(t, doc)
	assert.Equal(t, 5, doc.ChunkCount, "upsert overwrites")

	missing, err := repo.FindOne(ctx, "ns", "nope")
	assert.NoError(t, err)
	assert.Nil(t, missing)

	count, err := repo.Count(ctx, "ns")
	assert.NoError(t, err)
	assert.Equal(t, int64(1), count)

	assert.NoError(t, repo.DeleteByNamespace(ctx, "ns"))
	count, _ = repo.Count(ctx, "ns")
	assert.Equal(t, int64(0), count)

	otherDocs, err := repo.FindAllByNamespace(ctx, "other")
	assert.NoError(t, err)
	assert.Len(t, otherDocs, 1)
}
