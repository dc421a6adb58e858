package mapper

import (
	"ai-docqa-be/internal/entity"
	"ai-docqa-be/internal/model"
)

type DocumentMapper struct{}

func NewDocumentMapper() *DocumentMapper {
	return &DocumentMapper{}
}

func (m *DocumentMapper) ToEntity(d *model.Document) *entity.Document {
	if d == nil {
		return nil
	}
	return &entity.Document{
		Id:         d.Id,
		Namespace:  d.Namespace,
		Filename:   d.Filename,
		SizeBytes:  d.SizeBytes,
		ChunkCount: d.ChunkCount,
		IngestedAt: d.IngestedAt,
	}
}

func (m *DocumentMapper) ToModel(d *entity.Document) *model.Document {
	if d == nil {
		return nil
	}
	return &model.Document{
		Id:         d.Id,
		Namespace:  d.Namespace,
		Filename:   d.Filename,
		SizeBytes:  d.SizeBytes,
		ChunkCount: d.ChunkCount,
		IngestedAt: d.IngestedAt,
	}
}
