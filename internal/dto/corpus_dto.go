package dto

import (
	"time"

	"github.com/google/uuid"
)

type IngestDocumentRequest struct {
	Namespace  string `json:"namespace" validate:"required,max=128"`
	DocumentId string `json:"document_id" validate:"required,max=256"`
	Filename   string `json:"filename"`
	// Content carries the raw payload inline (base64 over JSON). Location is
	// the alternative: a URL the consumer fetches the payload from.
	Content  []byte `json:"content" validate:"required_without=Location"`
	Location string `json:"location" validate:"omitempty,url"`
}

type IngestDocumentResponse struct {
	DocumentId string    `json:"document_id"`
	Namespace  string    `json:"namespace"`
	ChunkCount int       `json:"chunk_count"`
	IngestedAt time.Time `json:"ingested_at"`
}

// QueueIngestResponse acknowledges an async ingestion request before the
// pipeline has run.
type QueueIngestResponse struct {
	DocumentId string `json:"document_id"`
	Namespace  string `json:"namespace"`
	Queued     bool   `json:"queued"`
}

type AskRequest struct {
	Namespace string `json:"namespace" validate:"required,max=128"`
	Query     string `json:"query" validate:"required"`
	TopK      int    `json:"top_k" validate:"omitempty,min=1"`
}

type CitationResponse struct {
	Tag        string    `json:"tag"`
	ChunkId    uuid.UUID `json:"chunk_id"`
	DocumentId string    `json:"document_id"`
	PageStart  int       `json:"page_start"`
	PageEnd    int       `json:"page_end"`
	SeqIndex   int       `json:"seq_index"`
	Similarity float64   `json:"similarity"`
}

type AskResponse struct {
	Answer    string             `json:"answer"`
	Grounded  bool               `json:"grounded"`
	Citations []CitationResponse `json:"citations"`
}

type DocumentResponse struct {
	Id         string    `json:"id"`
	Filename   string    `json:"filename"`
	SizeBytes  int64     `json:"size_bytes"`
	ChunkCount int       `json:"chunk_count"`
	IngestedAt time.Time `json:"ingested_at"`
}

type StatsResponse struct {
	Namespace     string `json:"namespace"`
	DocumentCount int64  `json:"document_count"`
	ChunkCount    int64  `json:"chunk_count"`
	Dimension     int    `json:"dimension"`
}

type PurgeResponse struct {
	Namespace        string `json:"namespace"`
	DocumentsRemoved int64  `json:"documents_removed"`
	ChunksRemoved    int64  `json:"chunks_removed"`
}
