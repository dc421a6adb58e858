package memory

import (
	"context"
	"sync"

	"ai-docqa-be/internal/entity"
	"ai-docqa-be/internal/repository/contract"
)

type documentKey struct {
	namespace string
	id        string
}

// DocumentRepository keeps document metadata in memory, paired with the
// in-memory vector index for DB-less deployments and tests.
type DocumentRepository struct {
	mu        sync.RWMutex
	documents map[documentKey]*entity.Document
}

func NewDocumentRepository() *DocumentRepository {
	return &DocumentRepository{
		documents: make(map[documentKey]*entity.Document),
	}
}

var _ contract.DocumentRepository = &DocumentRepository{}

func (r *DocumentRepository) Upsert(ctx context.Context, document *entity.Document) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *document
	r.documents[documentKey{document.Namespace, document.Id}] = &clone
	return nil
}

func (r *DocumentRepository) FindOne(ctx context.Context, namespace, id string) (*entity.Document, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	doc, ok := r.documents[documentKey{namespace, id}]
	if !ok {
		return nil, nil
	}
	clone := *doc
	return &clone, nil
}

func (r *DocumentRepository) FindAllByNamespace(ctx context.Context, namespace string) ([]*entity.Document, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var documents []*entity.Document
	for key, doc := range r.documents {
		if key.namespace == namespace {
			clone := *doc
			documents = append(documents, &clone)
		}
	}
	return documents, nil
}

func (r *DocumentRepository) Count(ctx context.Context, namespace string) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var count int64
	for key := range r.documents {
		if key.namespace == namespace {
			count++
		}
	}
	return count, nil
}

func (r *DocumentRepository) DeleteByNamespace(ctx context.Context, namespace string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for key := range r.documents {
		if key.namespace == namespace {
			delete(r.documents, key)
		}
	}
	return nil
}
