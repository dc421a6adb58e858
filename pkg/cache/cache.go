package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
)

// VectorCache stores query embeddings so repeated questions skip the
// embedding provider round trip. A cache miss is never an error.
type VectorCache interface {
	Get(ctx context.Context, key string) ([]float32, bool)
	Set(ctx context.Context, key string, vector []float32)
}

// QueryKey builds a stable cache key for a query within a namespace.
func QueryKey(namespace, query string) string {
	sum := sha256.Sum256([]byte(query))
	return "qemb:" + namespace + ":" + hex.EncodeToString(sum[:])
}
