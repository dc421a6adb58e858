package service

import (
	"context"
	"encoding/json"
	"errors"

	"ai-docqa-be/internal/dto"
	"ai-docqa-be/internal/entity"
	"ai-docqa-be/internal/pkg/logger"
	"ai-docqa-be/internal/repository/contract"
	"ai-docqa-be/pkg/events"
	pktNats "ai-docqa-be/pkg/nats"
	"ai-docqa-be/pkg/rag/pipeline"
	"ai-docqa-be/pkg/rag/response"
	"ai-docqa-be/pkg/rag/retriever"
)

type ICorpusService interface {
	// Ingest runs the full pipeline synchronously and blocks until the
	// document is searchable (or the ingestion failed).
	Ingest(ctx context.Context, req *dto.IngestDocumentRequest) (*dto.IngestDocumentResponse, error)

	// QueueIngest hands the document to the background consumer and returns
	// immediately.
	QueueIngest(ctx context.Context, req *dto.IngestDocumentRequest) (*dto.QueueIngestResponse, error)

	Ask(ctx context.Context, req *dto.AskRequest) (*dto.AskResponse, error)
	ListDocuments(ctx context.Context, namespace string) ([]*dto.DocumentResponse, error)
	Stats(ctx context.Context, namespace string) (*dto.StatsResponse, error)
	Purge(ctx context.Context, namespace string) (*dto.PurgeResponse, error)
}

type corpusService struct {
	pipeline         *pipeline.IngestionPipeline
	retriever        *retriever.Retriever
	generator        *response.Generator
	index            contract.VectorIndex
	docs             contract.DocumentRepository
	publisherService IPublisherService
	eventPublisher   *pktNats.Publisher
	topKDefault      int
	log              logger.ILogger
}

func NewCorpusService(
	ingestPipeline *pipeline.IngestionPipeline,
	chunkRetriever *retriever.Retriever,
	generator *response.Generator,
	index contract.VectorIndex,
	docs contract.DocumentRepository,
	publisherService IPublisherService,
	eventPublisher *pktNats.Publisher,
	topKDefault int,
	log logger.ILogger,
) ICorpusService {
	return &corpusService{
		pipeline:         ingestPipeline,
		retriever:        chunkRetriever,
		generator:        generator,
		index:            index,
		docs:             docs,
		publisherService: publisherService,
		eventPublisher:   eventPublisher,
		topKDefault:      topKDefault,
		log:              log,
	}
}

func (s *corpusService) Ingest(ctx context.Context, req *dto.IngestDocumentRequest) (*dto.IngestDocumentResponse, error) {
	document, err := s.pipeline.Ingest(ctx, req.Namespace, req.DocumentId, req.Filename, req.Content)
	if err != nil {
		s.publishIngestFailed(ctx, req.Namespace, req.DocumentId, err)
		return nil, err
	}

	s.publishEvent(ctx, events.NewDocumentIngested(req.Namespace, req.DocumentId, document.ChunkCount))

	return &dto.IngestDocumentResponse{
		DocumentId: document.Id,
		Namespace:  document.Namespace,
		ChunkCount: document.ChunkCount,
		IngestedAt: document.IngestedAt,
	}, nil
}

func (s *corpusService) QueueIngest(ctx context.Context, req *dto.IngestDocumentRequest) (*dto.QueueIngestResponse, error) {
	msgPayload := dto.PublishIngestDocumentMessage{
		Namespace:  req.Namespace,
		DocumentId: req.DocumentId,
		Filename:   req.Filename,
		Content:    req.Content,
		Location:   req.Location,
	}
	msgJson, err := json.Marshal(msgPayload)
	if err != nil {
		return nil, err
	}

	if err := s.publisherService.Publish(ctx, msgJson); err != nil {
		return nil, err
	}

	return &dto.QueueIngestResponse{
		DocumentId: req.DocumentId,
		Namespace:  req.Namespace,
		Queued:     true,
	}, nil
}

func (s *corpusService) Ask(ctx context.Context, req *dto.AskRequest) (*dto.AskResponse, error) {
	k := req.TopK
	if k == 0 {
		k = s.topKDefault
	}

	sources, err := s.retriever.Retrieve(ctx, req.Namespace, req.Query, k)
	if err != nil {
		return nil, err
	}

	answer, err := s.generator.Generate(ctx, req.Query, sources)
	if err != nil {
		return nil, err
	}

	citations := make([]dto.CitationResponse, len(answer.Citations))
	for i, c := range answer.Citations {
		citations[i] = dto.CitationResponse{
			Tag:        c.Tag,
			ChunkId:    c.ChunkId,
			DocumentId: c.DocumentId,
			PageStart:  c.PageStart,
			PageEnd:    c.PageEnd,
			SeqIndex:   c.SeqIndex,
			Similarity: c.Similarity,
		}
	}

	return &dto.AskResponse{
		Answer:    answer.Text,
		Grounded:  answer.Grounded,
		Citations: citations,
	}, nil
}

func (s *corpusService) ListDocuments(ctx context.Context, namespace string) ([]*dto.DocumentResponse, error) {
	documents, err := s.docs.FindAllByNamespace(ctx, namespace)
	if err != nil {
		return nil, err
	}

	res := make([]*dto.DocumentResponse, len(documents))
	for i, doc := range documents {
		res[i] = &dto.DocumentResponse{
			Id:         doc.Id,
			Filename:   doc.Filename,
			SizeBytes:  doc.SizeBytes,
			ChunkCount: doc.ChunkCount,
			IngestedAt: doc.IngestedAt,
		}
	}
	return res, nil
}

func (s *corpusService) Stats(ctx context.Context, namespace string) (*dto.StatsResponse, error) {
	documentCount, err := s.docs.Count(ctx, namespace)
	if err != nil {
		return nil, err
	}
	chunkCount, err := s.index.Count(ctx, namespace)
	if err != nil {
		return nil, err
	}

	return &dto.StatsResponse{
		Namespace:     namespace,
		DocumentCount: documentCount,
		ChunkCount:    chunkCount,
		Dimension:     s.index.Dimension(),
	}, nil
}

func (s *corpusService) Purge(ctx context.Context, namespace string) (*dto.PurgeResponse, error) {
	documentCount, err := s.docs.Count(ctx, namespace)
	if err != nil {
		return nil, err
	}
	chunkCount, err := s.index.Count(ctx, namespace)
	if err != nil {
		return nil, err
	}

	if err := s.index.Purge(ctx, namespace); err != nil {
		return nil, err
	}
	if err := s.docs.DeleteByNamespace(ctx, namespace); err != nil {
		return nil, err
	}

	s.publishEvent(ctx, events.NewNamespacePurged(namespace, documentCount))
	s.log.Info("corpus_service", "namespace purged", map[string]interface{}{
		"namespace": namespace,
		"documents": documentCount,
		"chunks":    chunkCount,
	})

	return &dto.PurgeResponse{
		Namespace:        namespace,
		DocumentsRemoved: documentCount,
		ChunksRemoved:    chunkCount,
	}, nil
}

func (s *corpusService) publishIngestFailed(ctx context.Context, namespace, documentId string, cause error) {
	stage := "unknown"
	var ingErr *entity.IngestionError
	if errors.As(cause, &ingErr) {
		stage = ingErr.Stage
	}
	s.publishEvent(ctx, events.NewDocumentIngestFailed(namespace, documentId, stage, cause))
}

// publishEvent logs and moves on; the bus is auxiliary and must never fail a
// request.
func (s *corpusService) publishEvent(ctx context.Context, evt events.Event) {
	if s.eventPublisher == nil {
		return
	}
	if err := s.eventPublisher.Publish(ctx, evt); err != nil {
		s.log.Warn("corpus_service", "failed to publish event", map[string]interface{}{
			"event": evt.EventType(),
			"error": err.Error(),
		})
	}
}
