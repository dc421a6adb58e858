package contract

import (
	"context"

	"ai-docqa-be/internal/entity"
)

type DocumentRepository interface {
	// Upsert registers a document; re-ingestion overwrites the existing row.
	Upsert(ctx context.Context, document *entity.Document) error
	FindOne(ctx context.Context, namespace, id string) (*entity.Document, error)
	FindAllByNamespace(ctx context.Context, namespace string) ([]*entity.Document, error)
	Count(ctx context.Context, namespace string) (int64, error)
	DeleteByNamespace(ctx context.Context, namespace string) error
}
