package events

import "time"

// Document lifecycle event types.
const (
	TypeDocumentIngested     = "DOCUMENT_INGESTED"
	TypeDocumentIngestFailed = "DOCUMENT_INGEST_FAILED"
	TypeNamespacePurged      = "NAMESPACE_PURGED"
)

func NewDocumentIngested(namespace, documentId string, chunkCount int) Event {
	return BaseEvent{
		Type: TypeDocumentIngested,
		Data: map[string]interface{}{
			"namespace":   namespace,
			"document_id": documentId,
			"chunk_count": chunkCount,
		},
		OccurredAt: time.Now(),
	}
}

func NewDocumentIngestFailed(namespace, documentId, stage string, cause error) Event {
	return BaseEvent{
		Type: TypeDocumentIngestFailed,
		Data: map[string]interface{}{
			"namespace":   namespace,
			"document_id": documentId,
			"stage":       stage,
			"error":       cause.Error(),
		},
		OccurredAt: time.Now(),
	}
}

func NewNamespacePurged(namespace string, documentsRemoved int64) Event {
	return BaseEvent{
		Type: TypeNamespacePurged,
		Data: map[string]interface{}{
			"namespace":         namespace,
			"documents_removed": documentsRemoved,
		},
		OccurredAt: time.Now(),
	}
}
