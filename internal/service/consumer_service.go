package service

import (
	"context"
	"encoding/json"
	"errors"

	"ai-docqa-be/internal/dto"
	"ai-docqa-be/internal/entity"
	"ai-docqa-be/internal/pkg/logger"
	"ai-docqa-be/pkg/events"
	pktNats "ai-docqa-be/pkg/nats"
	"ai-docqa-be/pkg/rag/pipeline"
	"ai-docqa-be/pkg/storage"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

// consumerService drains the ingest topic and runs the pipeline for each
// queued document. Malformed payloads and permanent pipeline failures are
// acked so they do not loop forever; transient failures are nacked for
// redelivery.
type consumerService struct {
	pubSub         *gochannel.GoChannel
	topicName      string
	pipeline       *pipeline.IngestionPipeline
	fetcher        storage.Fetcher
	eventPublisher *pktNats.Publisher
	log            logger.ILogger
}

func NewConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	ingestPipeline *pipeline.IngestionPipeline,
	fetcher storage.Fetcher,
	eventPublisher *pktNats.Publisher,
	log logger.ILogger,
) IConsumerService {
	return &consumerService{
		pubSub:         pubSub,
		topicName:      topicName,
		pipeline:       ingestPipeline,
		fetcher:        fetcher,
		eventPublisher: eventPublisher,
		log:            log,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	var payload dto.PublishIngestDocumentMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		cs.log.Error("consumer_service", "failed to unmarshal message", map[string]interface{}{
			"error": err.Error(),
		})
		msg.Ack() // Ack invalid messages to prevent infinite retry
		return
	}

	cs.log.Info("consumer_service", "processing document ingestion", map[string]interface{}{
		"namespace":   payload.Namespace,
		"document_id": payload.DocumentId,
	})

	raw := payload.Content
	if len(raw) == 0 && payload.Location != "" {
		fetched, err := cs.fetcher.Fetch(ctx, payload.Location)
		if err != nil {
			cs.log.Error("consumer_service", "failed to fetch payload", map[string]interface{}{
				"document_id": payload.DocumentId,
				"location":    payload.Location,
				"error":       err.Error(),
			})
			msg.Nack() // Source may be temporarily unreachable
			return
		}
		raw = fetched
	}

	document, err := cs.pipeline.Ingest(ctx, payload.Namespace, payload.DocumentId, payload.Filename, raw)
	if err != nil {
		cs.log.Error("consumer_service", "ingestion failed", map[string]interface{}{
			"namespace":   payload.Namespace,
			"document_id": payload.DocumentId,
			"error":       err.Error(),
		})
		cs.publishIngestFailed(ctx, payload.Namespace, payload.DocumentId, err)

		// A payload that cannot be parsed will never succeed; retrying
		// embed/store failures can.
		if errors.Is(err, entity.ErrParse) || errors.Is(err, entity.ErrConfig) {
			msg.Ack()
		} else {
			msg.Nack()
		}
		return
	}

	cs.publishEvent(ctx, events.NewDocumentIngested(document.Namespace, document.Id, document.ChunkCount))
	cs.log.Info("consumer_service", "document ingested", map[string]interface{}{
		"namespace":   document.Namespace,
		"document_id": document.Id,
		"chunks":      document.ChunkCount,
	})
	msg.Ack()
}

func (cs *consumerService) publishIngestFailed(ctx context.Context, namespace, documentId string, cause error) {
	stage := "unknown"
	var ingErr *entity.IngestionError
	if errors.As(cause, &ingErr) {
		stage = ingErr.Stage
	}
	cs.publishEvent(ctx, events.NewDocumentIngestFailed(namespace, documentId, stage, cause))
}

func (cs *consumerService) publishEvent(ctx context.Context, evt events.Event) {
	if cs.eventPublisher == nil {
		return
	}
	if err := cs.eventPublisher.Publish(ctx, evt); err != nil {
		cs.log.Warn("consumer_service", "failed to publish event", map[string]interface{}{
			"event": evt.EventType(),
			"error": err.Error(),
		})
	}
}
