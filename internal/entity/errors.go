package entity

import (
	"errors"
	"fmt"
)

// Error taxonomy for the pipeline. Callers branch with errors.Is.
var (
	// ErrParse - payload is not a valid/supported document or yields no elements
	ErrParse = errors.New("document parse failed")

	// ErrConfig - invalid chunking/retrieval parameters, caught before any work
	ErrConfig = errors.New("invalid configuration")

	// ErrDimension - vector dimensionality does not match the namespace's index
	ErrDimension = errors.New("vector dimension mismatch")

	// ErrEmbedding - embedding call failed, including partial batch failure
	ErrEmbedding = errors.New("embedding failed")

	// ErrGeneration - LLM call failed or timed out
	ErrGeneration = errors.New("answer generation failed")

	// ErrIngestion - aggregate wrapper for a failed ingestion stage
	ErrIngestion = errors.New("ingestion failed")
)

// Ingestion stages, reported inside IngestionError.
const (
	StageParse = "parse"
	StageChunk = "chunk"
	StageEmbed = "embed"
	StageStore = "store"
)

// IngestionError names the failing stage and document so upload callers can
// report what broke. Unwraps to both ErrIngestion and the stage's cause.
type IngestionError struct {
	Stage      string
	DocumentId string
	Err        error
}

func (e *IngestionError) Error() string {
	return fmt.Sprintf("ingestion of document %s failed at stage %s: %v", e.DocumentId, e.Stage, e.Err)
}

func (e *IngestionError) Unwrap() []error {
	return []error{ErrIngestion, e.Err}
}

func NewIngestionError(stage, documentId string, err error) *IngestionError {
	return &IngestionError{Stage: stage, DocumentId: documentId, Err: err}
}
