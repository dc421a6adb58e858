package implementation

import (
	"context"
	"fmt"

	"ai-docqa-be/internal/entity"
	"ai-docqa-be/internal/mapper"
	"ai-docqa-be/internal/model"
	"ai-docqa-be/internal/repository/contract"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PgVectorIndexImpl struct {
	db        *gorm.DB
	dimension int
	mapper    *mapper.ChunkEmbeddingMapper
}

func NewPgVectorIndex(db *gorm.DB, dimension int) contract.VectorIndex {
	return &PgVectorIndexImpl{
		db:        db,
		dimension: dimension,
		mapper:    mapper.NewChunkEmbeddingMapper(),
	}
}

func (r *PgVectorIndexImpl) Dimension() int {
	return r.dimension
}

// checkDimensions rejects the whole batch before anything touches the table.
func (r *PgVectorIndexImpl) checkDimensions(records []*entity.ChunkEmbedding) error {
	for _, rec := range records {
		if len(rec.Vector) != r.dimension {
			return fmt.Errorf("%w: chunk %s has %d dimensions, index expects %d",
				entity.ErrDimension, rec.Id, len(rec.Vector), r.dimension)
		}
	}
	return nil
}

func (r *PgVectorIndexImpl) Upsert(ctx context.Context, namespace string, records []*entity.ChunkEmbedding) error {
	if len(records) == 0 {
		return nil
	}
	if err := r.checkDimensions(records); err != nil {
		return err
	}

	models := make([]*model.ChunkEmbedding, len(records))
	for i, rec := range records {
		m := r.mapper.ToModel(rec)
		m.Namespace = namespace
		models[i] = m
	}

	// ON CONFLICT keeps the write atomic per record: a reader sees either the
	// old row or the fully replaced one.
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"namespace", "document_id", "chunk_text", "embedding_value",
				"page_start", "page_end", "seq_index", "updated_at",
			}),
		}).
		Create(models).Error
}

func (r *PgVectorIndexImpl) ReplaceDocument(ctx context.Context, namespace, documentId string, records []*entity.ChunkEmbedding) error {
	if err := r.checkDimensions(records); err != nil {
		return err
	}

	models := make([]*model.ChunkEmbedding, len(records))
	for i, rec := range records {
		m := r.mapper.ToModel(rec)
		m.Namespace = namespace
		m.DocumentId = documentId
		models[i] = m
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Where("namespace = ? AND document_id = ?", namespace, documentId).
			Delete(&model.ChunkEmbedding{}).Error; err != nil {
			return err
		}
		if len(models) == 0 {
			return nil
		}
		return tx.Create(models).Error
	})
}

func (r *PgVectorIndexImpl) Search(ctx context.Context, namespace string, vector []float32, k int) ([]*contract.ScoredChunk, error) {
	if len(vector) != r.dimension {
		return nil, fmt.Errorf("%w: query vector has %d dimensions, index expects %d",
			entity.ErrDimension, len(vector), r.dimension)
	}
	if k <= 0 {
		return nil, fmt.Errorf("%w: k must be positive, got %d", entity.ErrConfig, k)
	}

	// pgvector cosine distance: embedding_value <=> vector.
	// similarity = 1 - distance; ties broken by seq_index for determinism.
	type result struct {
		model.ChunkEmbedding
		Similarity float64
	}
	var results []result

	queryVector := pgvector.NewVector(vector)

	err := r.db.WithContext(ctx).
		Table("chunk_embeddings").
		Select("chunk_embeddings.*, 1 - (embedding_value <=> ?) as similarity", queryVector).
		Where("namespace = ?", namespace).
		Order("similarity DESC, seq_index ASC").
		Limit(k).
		Scan(&results).Error
	if err != nil {
		return nil, err
	}

	scored := make([]*contract.ScoredChunk, len(results))
	for i, res := range results {
		scored[i] = &contract.ScoredChunk{
			Embedding:  r.mapper.ToEntity(&res.ChunkEmbedding),
			Similarity: res.Similarity,
		}
	}
	return scored, nil
}

func (r *PgVectorIndexImpl) Delete(ctx context.Context, namespace string, chunkIds []uuid.UUID) error {
	if len(chunkIds) == 0 {
		return nil
	}
	// Deleting ids that do not exist is a no-op, not an error.
	return r.db.WithContext(ctx).
		Where("namespace = ? AND id IN ?", namespace, chunkIds).
		Delete(&model.ChunkEmbedding{}).Error
}

func (r *PgVectorIndexImpl) DeleteByDocumentId(ctx context.Context, namespace, documentId string) error {
	return r.db.WithContext(ctx).
		Where("namespace = ? AND document_id = ?", namespace, documentId).
		Delete(&model.ChunkEmbedding{}).Error
}

func (r *PgVectorIndexImpl) Purge(ctx context.Context, namespace string) error {
	return r.db.WithContext(ctx).
		Where("namespace = ?", namespace).
		Delete(&model.ChunkEmbedding{}).Error
}

func (r *PgVectorIndexImpl) Count(ctx context.Context, namespace string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.ChunkEmbedding{}).
		Where("namespace = ?", namespace).
		Count(&count).Error
	return count, err
}
