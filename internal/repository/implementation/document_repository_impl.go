package implementation

import (
	"context"
	"errors"

	"ai-docqa-be/internal/entity"
	"ai-docqa-be/internal/mapper"
	"ai-docqa-be/internal/model"
	"ai-docqa-be/internal/repository/contract"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type DocumentRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.DocumentMapper
}

func NewDocumentRepository(db *gorm.DB) contract.DocumentRepository {
	return &DocumentRepositoryImpl{
		db:     db,
		mapper: mapper.NewDocumentMapper(),
	}
}

func (r *DocumentRepositoryImpl) Upsert(ctx context.Context, document *entity.Document) error {
	m := r.mapper.ToModel(document)
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "id"}, {Name: "namespace"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"filename", "size_bytes", "chunk_count", "ingested_at",
			}),
		}).
		Create(m).Error
}

func (r *DocumentRepositoryImpl) FindOne(ctx context.Context, namespace, id string) (*entity.Document, error) {
	var m model.Document
	err := r.db.WithContext(ctx).
		Where("namespace = ? AND id = ?", namespace, id).
		First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *DocumentRepositoryImpl) FindAllByNamespace(ctx context.Context, namespace string) ([]*entity.Document, error) {
	var models []*model.Document
	err := r.db.WithContext(ctx).
		Where("namespace = ?", namespace).
		Order("ingested_at ASC").
		Find(&models).Error
	if err != nil {
		return nil, err
	}
	documents := make([]*entity.Document, len(models))
	for i, m := range models {
		documents[i] = r.mapper.ToEntity(m)
	}
	return documents, nil
}

func (r *DocumentRepositoryImpl) Count(ctx context.Context, namespace string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.Document{}).
		Where("namespace = ?", namespace).
		Count(&count).Error
	return count, err
}

func (r *DocumentRepositoryImpl) DeleteByNamespace(ctx context.Context, namespace string) error {
	return r.db.WithContext(ctx).
		Where("namespace = ?", namespace).
		Delete(&model.Document{}).Error
}
