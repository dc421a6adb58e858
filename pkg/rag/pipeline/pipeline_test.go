package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"ai-docqa-be/internal/entity"
	"ai-docqa-be/internal/pkg/logger"
	"ai-docqa-be/internal/repository/memory"
	"ai-docqa-be/pkg/chunker"
	"ai-docqa-be/pkg/parser"

	"github.com/stretchr/testify/assert"
)

// hashProvider derives a stable vector from the text so re-ingestion is
// byte-for-byte reproducible.
type hashProvider struct {
	dimension int
	failOn    string
	calls     int
}

func (p *hashProvider) Embed(_ context.Context, text string, _ string) ([]float32, error) {
	p.calls++
	if p.failOn != "" && strings.Contains(text, p.failOn) {
		return nil, fmt.Errorf("%w: simulated provider outage", entity.ErrEmbedding)
	}
	vector := make([]float32, p.dimension)
	for i, r := range text {
		vector[i%p.dimension] += float32(r % 13)
	}
	return vector, nil
}

func (p *hashProvider) Dimension() int { return p.dimension }

func newTestPipeline(t *testing.T, provider *hashProvider) (*IngestionPipeline, *memory.VectorIndex, *memory.DocumentRepository) {
	t.Helper()

	idx := memory.NewVectorIndex(provider.dimension)
	docs := memory.NewDocumentRepository()
	textChunker, err := chunker.New(80, 10)
	if err != nil {
		t.Fatal(err)
	}
	log := logger.NewZapLogger(t.TempDir()+"/test.log", false)

	return New(parser.NewDocumentParser(), textChunker, provider, idx, docs, log), idx, docs
}

const payload = `Paris is the capital of France and its largest city.

The Eiffel Tower was completed in 1889 for the World's Fair.

The Louvre is the world's most visited museum.`

func TestIngestStoresChunksAndDocument(t *testing.T) {
	provider := &hashProvider{dimension: 4}
	p, idx, docs := newTestPipeline(t, provider)
	ctx := context.Background()

	document, err := p.Ingest(ctx, "ns", "paris-guide", "paris.txt", []byte(payload))
	assert.NoError(t, err)
	assert.Equal(t, "paris-guide", document.Id)
	assert.Greater(t, document.ChunkCount, 1)
	assert.Equal(t, int64(len(payload)), document.SizeBytes)

	count, _ := idx.Count(ctx, "ns")
	assert.Equal(t, int64(document.ChunkCount), count)

	stored, err := docs.FindOne(ctx, "ns", "paris-guide")
	assert.NoError(t, err)
	assert.NotNil(t, stored)
	assert.Equal(t, document.ChunkCount, stored.ChunkCount)
}

func TestIngestIsIdempotent(t *testing.T) {
	provider := &hashProvider{dimension: 4}
	p, idx, _ := newTestPipeline(t, provider)
	ctx := context.Background()

	first, err := p.Ingest(ctx, "ns", "paris-guide", "paris.txt", []byte(payload))
	assert.NoError(t, err)

	second, err := p.Ingest(ctx, "ns", "paris-guide", "paris.txt", []byte(payload))
	assert.NoError(t, err)

	assert.Equal(t, first.ChunkCount, second.ChunkCount)

	// No duplicate chunks after the second run.
	count, _ := idx.Count(ctx, "ns")
	assert.Equal(t, int64(second.ChunkCount), count)
}

func TestIngestParseFailure(t *testing.T) {
	provider := &hashProvider{dimension: 4}
	p, idx, docs := newTestPipeline(t, provider)
	ctx := context.Background()

	_, err := p.Ingest(ctx, "ns", "bad-doc", "bad.bin", []byte{0xff, 0x81, 0x00})
	assert.Error(t, err)
	assert.True(t, errors.Is(err, entity.ErrIngestion))
	assert.True(t, errors.Is(err, entity.ErrParse))

	var ingErr *entity.IngestionError
	assert.True(t, errors.As(err, &ingErr))
	assert.Equal(t, entity.StageParse, ingErr.Stage)
	assert.Equal(t, "bad-doc", ingErr.DocumentId)
	assert.Equal(t, 0, provider.calls, "parse failures must not reach the embedder")

	count, _ := idx.Count(ctx, "ns")
	assert.Equal(t, int64(0), count)
	doc, _ := docs.FindOne(ctx, "ns", "bad-doc")
	assert.Nil(t, doc)
}

func TestIngestEmbedFailureLeavesIndexUntouched(t *testing.T) {
	provider := &hashProvider{dimension: 4, failOn: "Louvre"}
	p, idx, docs := newTestPipeline(t, provider)
	ctx := context.Background()

	_, err := p.Ingest(ctx, "ns", "paris-guide", "paris.txt", []byte(payload))
	assert.Error(t, err)
	assert.True(t, errors.Is(err, entity.ErrEmbedding))

	var ingErr *entity.IngestionError
	assert.True(t, errors.As(err, &ingErr))
	assert.Equal(t, entity.StageEmbed, ingErr.Stage)

	// All embedding happens before any write: nothing persisted.
	count, _ := idx.Count(ctx, "ns")
	assert.Equal(t, int64(0), count)
	doc, _ := docs.FindOne(ctx, "ns", "paris-guide")
	assert.Nil(t, doc)
}

// failingDocs simulates a document table outage after the index write.
type failingDocs struct {
	*memory.DocumentRepository
}

func (d *failingDocs) Upsert(_ context.Context, _ *entity.Document) error {
	return errors.New("documents table unavailable")
}

func TestIngestDocumentUpsertFailureRemovesChunks(t *testing.T) {
	provider := &hashProvider{dimension: 4}
	idx := memory.NewVectorIndex(provider.dimension)
	docs := &failingDocs{memory.NewDocumentRepository()}
	textChunker, err := chunker.New(80, 10)
	if err != nil {
		t.Fatal(err)
	}
	log := logger.NewZapLogger(t.TempDir()+"/test.log", false)
	p := New(parser.NewDocumentParser(), textChunker, provider, idx, docs, log)
	ctx := context.Background()

	_, err = p.Ingest(ctx, "ns", "paris-guide", "paris.txt", []byte(payload))
	assert.Error(t, err)

	var ingErr *entity.IngestionError
	assert.True(t, errors.As(err, &ingErr))
	assert.Equal(t, entity.StageStore, ingErr.Stage)

	// The chunks written before the upsert failed must not stay behind, or
	// Stats and ListDocuments would disagree with the index.
	count, _ := idx.Count(ctx, "ns")
	assert.Equal(t, int64(0), count)
}

func TestIngestDimensionMismatchFailsAtStore(t *testing.T) {
	provider := &hashProvider{dimension: 4}
	idx := memory.NewVectorIndex(8) // index expects 8, provider emits 4
	docs := memory.NewDocumentRepository()
	textChunker, err := chunker.New(80, 10)
	if err != nil {
		t.Fatal(err)
	}
	log := logger.NewZapLogger(t.TempDir()+"/test.log", false)
	p := New(parser.NewDocumentParser(), textChunker, provider, idx, docs, log)
	ctx := context.Background()

	_, err = p.Ingest(ctx, "ns", "paris-guide", "paris.txt", []byte(payload))
	assert.True(t, errors.Is(err, entity.ErrDimension))

	var ingErr *entity.IngestionError
	assert.True(t, errors.As(err, &ingErr))
	assert.Equal(t, entity.StageStore, ingErr.Stage)

	count, _ := idx.Count(ctx, "ns")
	assert.Equal(t, int64(0), count)
}
