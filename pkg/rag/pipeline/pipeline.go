package pipeline

import (
	"context"
	"fmt"
	"time"

	"ai-docqa-be/internal/entity"
	"ai-docqa-be/internal/pkg/logger"
	"ai-docqa-be/internal/repository/contract"
	"ai-docqa-be/pkg/chunker"
	"ai-docqa-be/pkg/embedding"
	"ai-docqa-be/pkg/parser"
)

// IngestionPipeline runs parse -> chunk -> embed -> store for one document.
// All embedding happens before any write, so a failed ingestion never leaves
// a partially indexed document behind.
type IngestionPipeline struct {
	parser   parser.Parser
	chunker  *chunker.Chunker
	provider embedding.EmbeddingProvider
	index    contract.VectorIndex
	docs     contract.DocumentRepository
	log      logger.ILogger
}

func New(
	p parser.Parser,
	c *chunker.Chunker,
	provider embedding.EmbeddingProvider,
	index contract.VectorIndex,
	docs contract.DocumentRepository,
	log logger.ILogger,
) *IngestionPipeline {
	return &IngestionPipeline{
		parser:   p,
		chunker:  c,
		provider: provider,
		index:    index,
		docs:     docs,
		log:      log,
	}
}

// Ingest indexes one raw document payload under the namespace. Re-ingesting
// the same documentId replaces the previous chunk set atomically.
func (p *IngestionPipeline) Ingest(ctx context.Context, namespace, documentId, filename string, raw []byte) (*entity.Document, error) {
	started := time.Now()

	elements, err := p.parser.Parse(ctx, raw)
	if err != nil {
		return nil, entity.NewIngestionError(entity.StageParse, documentId, err)
	}

	chunks := p.chunker.Chunk(documentId, elements)
	if len(chunks) == 0 {
		return nil, entity.NewIngestionError(entity.StageChunk, documentId,
			fmt.Errorf("%w: document produced no chunks", entity.ErrParse))
	}

	texts := make([]string, len(chunks))
	for i, chunk := range chunks {
		texts[i] = chunk.Text
	}
	vectors, err := embedding.EmbedBatch(ctx, p.provider, texts, embedding.TaskDocument)
	if err != nil {
		return nil, entity.NewIngestionError(entity.StageEmbed, documentId, err)
	}

	now := time.Now()
	records := make([]*entity.ChunkEmbedding, len(chunks))
	for i, chunk := range chunks {
		records[i] = &entity.ChunkEmbedding{
			Id:         chunk.Id,
			Namespace:  namespace,
			DocumentId: documentId,
			ChunkText:  chunk.Text,
			Vector:     vectors[i],
			PageStart:  chunk.PageStart,
			PageEnd:    chunk.PageEnd,
			SeqIndex:   chunk.SeqIndex,
			CreatedAt:  now,
		}
	}

	if err := p.index.ReplaceDocument(ctx, namespace, documentId, records); err != nil {
		return nil, entity.NewIngestionError(entity.StageStore, documentId, err)
	}

	document := &entity.Document{
		Id:         documentId,
		Namespace:  namespace,
		Filename:   filename,
		SizeBytes:  int64(len(raw)),
		ChunkCount: len(chunks),
		IngestedAt: now,
	}
	if err := p.docs.Upsert(ctx, document); err != nil {
		// Keep the index and the document records consistent: drop the chunks
		// that were just written.
		if delErr := p.index.DeleteByDocumentId(ctx, namespace, documentId); delErr != nil {
			p.log.Warn("pipeline", "failed to remove chunks after document upsert failure", map[string]interface{}{
				"namespace":   namespace,
				"document_id": documentId,
				"error":       delErr.Error(),
			})
		}
		return nil, entity.NewIngestionError(entity.StageStore, documentId, err)
	}

	p.log.Info("pipeline", "document ingested", map[string]interface{}{
		"namespace":   namespace,
		"document_id": documentId,
		"chunks":      len(chunks),
		"elapsed_ms":  time.Since(started).Milliseconds(),
	})
	return document, nil
}
