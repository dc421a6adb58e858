package embedding

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"ai-docqa-be/internal/entity"
)

// Task types steer models that embed documents and queries asymmetrically.
// Providers that do not distinguish them ignore the hint.
const (
	TaskDocument = "RETRIEVAL_DOCUMENT"
	TaskQuery    = "RETRIEVAL_QUERY"
)

// EmbeddingProvider maps text to a fixed-length vector. Stateless; safe for
// concurrent use. Dimension is fixed for the provider's lifetime; changing
// the provider of an existing namespace requires a full re-index.
type EmbeddingProvider interface {
	Embed(ctx context.Context, text string, taskType string) ([]float32, error)
	Dimension() int
}

// BatchError carries the per-index failures of a batch call. The surviving
// vectors are still returned alongside it so callers can decide whether a
// partial result is usable.
type BatchError struct {
	Failed map[int]error
}

func (e *BatchError) Error() string {
	indices := make([]int, 0, len(e.Failed))
	for i := range e.Failed {
		indices = append(indices, i)
	}
	sort.Ints(indices)

	parts := make([]string, len(indices))
	for n, i := range indices {
		parts[n] = fmt.Sprintf("[%d] %v", i, e.Failed[i])
	}
	return fmt.Sprintf("embedding batch failed for %d of the inputs: %s", len(indices), strings.Join(parts, "; "))
}

func (e *BatchError) Unwrap() error {
	return entity.ErrEmbedding
}

// EmbedBatch embeds every text, preserving order and length. On any failure
// the returned error is a *BatchError naming the failed indices; successful
// positions still hold their vectors, failed positions are nil.
func EmbedBatch(ctx context.Context, provider EmbeddingProvider, texts []string, taskType string) ([][]float32, error) {
	vectors := make([][]float32, len(texts))
	failed := make(map[int]error)

	for i, text := range texts {
		vec, err := provider.Embed(ctx, text, taskType)
		if err != nil {
			failed[i] = err
			continue
		}
		vectors[i] = vec
	}

	if len(failed) > 0 {
		return vectors, &BatchError{Failed: failed}
	}
	return vectors, nil
}
