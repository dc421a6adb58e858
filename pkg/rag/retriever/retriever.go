package retriever

import (
	"context"
	"fmt"

	"ai-docqa-be/internal/entity"
	"ai-docqa-be/internal/pkg/logger"
	"ai-docqa-be/internal/repository/contract"
	"ai-docqa-be/pkg/cache"
	"ai-docqa-be/pkg/embedding"
)

// Retriever embeds a query and pulls the k nearest chunks from the index.
// Query embeddings are cached per namespace so repeated questions skip the
// provider round trip.
type Retriever struct {
	provider embedding.EmbeddingProvider
	cache    cache.VectorCache
	index    contract.VectorIndex
	topKMax  int
	log      logger.ILogger
}

func New(provider embedding.EmbeddingProvider, vectorCache cache.VectorCache, index contract.VectorIndex, topKMax int, log logger.ILogger) *Retriever {
	return &Retriever{
		provider: provider,
		cache:    vectorCache,
		index:    index,
		topKMax:  topKMax,
		log:      log,
	}
}

// Retrieve returns at most k scored chunks for the query, best first.
// k outside [1, topKMax] is rejected before any embedding work happens.
func (r *Retriever) Retrieve(ctx context.Context, namespace, query string, k int) ([]*contract.ScoredChunk, error) {
	if query == "" {
		return nil, fmt.Errorf("%w: query must not be empty", entity.ErrConfig)
	}
	if k < 1 || k > r.topKMax {
		return nil, fmt.Errorf("%w: k must satisfy 1 <= k <= %d, got %d", entity.ErrConfig, r.topKMax, k)
	}

	vector, err := r.embedQuery(ctx, namespace, query)
	if err != nil {
		return nil, err
	}

	results, err := r.index.Search(ctx, namespace, vector, k)
	if err != nil {
		return nil, err
	}

	r.log.Debug("retriever", "query retrieved", map[string]interface{}{
		"namespace": namespace,
		"k":         k,
		"hits":      len(results),
	})
	return results, nil
}

func (r *Retriever) embedQuery(ctx context.Context, namespace, query string) ([]float32, error) {
	key := cache.QueryKey(namespace, query)
	if vector, found := r.cache.Get(ctx, key); found {
		return vector, nil
	}

	vector, err := r.provider.Embed(ctx, query, embedding.TaskQuery)
	if err != nil {
		return nil, err
	}

	r.cache.Set(ctx, key, vector)
	return vector, nil
}
