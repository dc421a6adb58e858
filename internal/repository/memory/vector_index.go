package memory

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"

	"ai-docqa-be/internal/entity"
	"ai-docqa-be/internal/repository/contract"

	"github.com/google/uuid"
)

// VectorIndex is a brute-force in-memory index used by tests and the "memory"
// index driver. Namespaces are fully isolated maps; cosine similarity.
type VectorIndex struct {
	mu         sync.RWMutex
	dimension  int
	namespaces map[string]map[uuid.UUID]*entity.ChunkEmbedding
}

func NewVectorIndex(dimension int) *VectorIndex {
	return &VectorIndex{
		dimension:  dimension,
		namespaces: make(map[string]map[uuid.UUID]*entity.ChunkEmbedding),
	}
}

var _ contract.VectorIndex = &VectorIndex{}

func (s *VectorIndex) Dimension() int {
	return s.dimension
}

func (s *VectorIndex) checkDimensions(records []*entity.ChunkEmbedding) error {
	for _, rec := range records {
		if len(rec.Vector) != s.dimension {
			return fmt.Errorf("%w: chunk %s has %d dimensions, index expects %d",
				entity.ErrDimension, rec.Id, len(rec.Vector), s.dimension)
		}
	}
	return nil
}

func (s *VectorIndex) namespaceLocked(namespace string) map[uuid.UUID]*entity.ChunkEmbedding {
	ns, ok := s.namespaces[namespace]
	if !ok {
		ns = make(map[uuid.UUID]*entity.ChunkEmbedding)
		s.namespaces[namespace] = ns
	}
	return ns
}

func (s *VectorIndex) Upsert(ctx context.Context, namespace string, records []*entity.ChunkEmbedding) error {
	// Dimension check happens before the lock so a bad batch leaves the
	// namespace untouched.
	if err := s.checkDimensions(records); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	ns := s.namespaceLocked(namespace)
	for _, rec := range records {
		clone := *rec
		clone.Namespace = namespace
		ns[rec.Id] = &clone
	}
	return nil
}

func (s *VectorIndex) ReplaceDocument(ctx context.Context, namespace, documentId string, records []*entity.ChunkEmbedding) error {
	if err := s.checkDimensions(records); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	ns := s.namespaceLocked(namespace)
	for id, rec := range ns {
		if rec.DocumentId == documentId {
			delete(ns, id)
		}
	}
	for _, rec := range records {
		clone := *rec
		clone.Namespace = namespace
		clone.DocumentId = documentId
		ns[rec.Id] = &clone
	}
	return nil
}

func (s *VectorIndex) Search(ctx context.Context, namespace string, vector []float32, k int) ([]*contract.ScoredChunk, error) {
	if len(vector) != s.dimension {
		return nil, fmt.Errorf("%w: query vector has %d dimensions, index expects %d",
			entity.ErrDimension, len(vector), s.dimension)
	}
	if k <= 0 {
		return nil, fmt.Errorf("%w: k must be positive, got %d", entity.ErrConfig, k)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	ns := s.namespaces[namespace]
	scored := make([]*contract.ScoredChunk, 0, len(ns))
	for _, rec := range ns {
		scored = append(scored, &contract.ScoredChunk{
			Embedding:  rec,
			Similarity: cosineSimilarity(vector, rec.Vector),
		})
	}

	sort.Slice(scored, func(i, j int) bool {
		if scored[i].Similarity != scored[j].Similarity {
			return scored[i].Similarity > scored[j].Similarity
		}
		return scored[i].Embedding.SeqIndex < scored[j].Embedding.SeqIndex
	})

	if k > len(scored) {
		k = len(scored)
	}
	return scored[:k], nil
}

func (s *VectorIndex) Delete(ctx context.Context, namespace string, chunkIds []uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	ns := s.namespaces[namespace]
	for _, id := range chunkIds {
		delete(ns, id) // unknown ids are a no-op
	}
	return nil
}

func (s *VectorIndex) DeleteByDocumentId(ctx context.Context, namespace, documentId string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	ns := s.namespaces[namespace]
	for id, rec := range ns {
		if rec.DocumentId == documentId {
			delete(ns, id)
		}
	}
	return nil
}

func (s *VectorIndex) Purge(ctx context.Context, namespace string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.namespaces, namespace)
	return nil
}

func (s *VectorIndex) Count(ctx context.Context, namespace string) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.namespaces[namespace])), nil
}

func cosineSimilarity(a, b []float32) float64 {
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
