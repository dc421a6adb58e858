package integration

import (
	"context"
	"log"
	"os"
	"testing"

	"ai-docqa-be/internal/entity"
	"ai-docqa-be/internal/model"
	"ai-docqa-be/internal/repository/implementation"
	"ai-docqa-be/pkg/database"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

const testDimension = 3

func connectTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	// Load .env from root
	if err := godotenv.Load("../../.env"); err != nil {
		log.Println("No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		t.Skip("Skipping integration test: DB_CONNECTION_STRING not set")
	}

	gormDB, err := database.NewGormDBFromDSN(dsn)
	if err != nil {
		t.Fatalf("Failed to connect to DB: %v", err)
	}
	return gormDB
}

func TestPgVectorIndexRoundTrip(t *testing.T) {
	db := connectTestDB(t)
	ctx := context.Background()

	// The live schema uses the configured dimension; run this suite against
	// a scratch table with a tiny one.
	assert.NoError(t, db.Exec(`CREATE EXTENSION IF NOT EXISTS vector`).Error)
	assert.NoError(t, db.Exec(`DROP TABLE IF EXISTS chunk_embeddings`).Error)
	assert.NoError(t, db.Exec(`CREATE TABLE chunk_embeddings (
		id uuid PRIMARY KEY,
		namespace varchar(128) NOT NULL,
		document_id varchar(256) NOT NULL,
		chunk_text text NOT NULL,
		embedding_value vector(3) NOT NULL,
		page_start int,
		page_end int,
		seq_index int NOT NULL,
		created_at timestamptz,
		updated_at timestamptz
	)`).Error)
	t.Cleanup(func() {
		db.Exec(`DROP TABLE IF EXISTS chunk_embeddings`)
	})

	idx := implementation.NewPgVectorIndex(db, testDimension)

	records := []*entity.ChunkEmbedding{
		{Id: uuid.New(), DocumentId: "doc-a", ChunkText: "paris", Vector: []float32{1, 0, 0}, SeqIndex: 0},
		{Id: uuid.New(), DocumentId: "doc-a", ChunkText: "tower", Vector: []float32{0, 1, 0}, SeqIndex: 1},
	}
	assert.NoError(t, idx.Upsert(ctx, "it-ns", records))

	count, err := idx.Count(ctx, "it-ns")
	assert.NoError(t, err)
	assert.Equal(t, int64(2), count)

	t.Run("search ranks by cosine similarity", func(t *testing.T) {
		results, err := idx.Search(ctx, "it-ns", []float32{1, 0, 0}, 2)
		assert.NoError(t, err)
		assert.Len(t, results, 2)
		assert.Equal(t, "paris", results[0].Embedding.ChunkText)
		assert.InDelta(t, 1.0, results[0].Similarity, 1e-6)
	})

	t.Run("dimension mismatch is rejected", func(t *testing.T) {
		err := idx.Upsert(ctx, "it-ns", []*entity.ChunkEmbedding{
			{Id: uuid.New(), DocumentId: "doc-a", Vector: []float32{1, 0}, SeqIndex: 2},
		})
		assert.ErrorIs(t, err, entity.ErrDimension)
	})

	t.Run("replace document swaps the chunk set", func(t *testing.T) {
		err := idx.ReplaceDocument(ctx, "it-ns", "doc-a", []*entity.ChunkEmbedding{
			{Id: uuid.New(), DocumentId: "doc-a", ChunkText: "rewritten", Vector: []float32{0, 0, 1}, SeqIndex: 0},
		})
		assert.NoError(t, err)

		count, err := idx.Count(ctx, "it-ns")
		assert.NoError(t, err)
		assert.Equal(t, int64(1), count)
	})

	t.Run("purge empties the namespace", func(t *testing.T) {
		assert.NoError(t, idx.Purge(ctx, "it-ns"))
		count, err := idx.Count(ctx, "it-ns")
		assert.NoError(t, err)
		assert.Equal(t, int64(0), count)
	})
}

func TestDocumentRepositoryIntegration(t *testing.T) {
	db := connectTestDB(t)
	ctx := context.Background()

	assert.NoError(t, db.Exec(`DROP TABLE IF EXISTS documents`).Error)
	assert.NoError(t, db.AutoMigrate(&model.Document{}))
	t.Cleanup(func() {
		db.Exec(`DROP TABLE IF EXISTS documents`)
	})

	repo := implementation.NewDocumentRepository(db)

	doc := &entity.Document{Id: "doc-1", Namespace: "it-ns", Filename: "a.txt", SizeBytes: 42, ChunkCount: 3}
	assert.NoError(t, repo.Upsert(ctx, doc))

	doc.ChunkCount = 7
	assert.NoError(t, repo.Upsert(ctx, doc))

	found, err := repo.FindOne(ctx, "it-ns", "doc-1")
	assert.NoError(t, err)
	assert.NotNil(t, found)
	assert.Equal(t, 7, found.ChunkCount)

	count, err := repo.Count(ctx, "it-ns")
	assert.NoError(t, err)
	assert.Equal(t, int64(1), count)

	assert.NoError(t, repo.DeleteByNamespace(ctx, "it-ns"))
	count, _ = repo.Count(ctx, "it-ns")
	assert.Equal(t, int64(0), count)
}
