package mapper

import (
	"ai-assistant-be/internal/entity"
	"ai-assistant-be/internal/model"
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
		Id:          d.Id,
		Collection:  d.Collection,
		Name:        d.Name,
		ContentHash: d.ContentHash,
		Content:     d.Content,
		Status:      d.Status,
		CreatedAt:   d.CreatedAt,
		IndexedAt:   d.IndexedAt,
	}
}

func (m *DocumentMapper) ToModel(d *entity.Document) *model.Document {
	if d == nil {
		return nil
	}
	return &model.Document{
		Id:          d.Id,
		Collection:  d.Collection,
		Name:        d.Name,
		ContentHash: d.ContentHash,
		Content:     d.Content,
		Status:      d.Status,
		CreatedAt:   d.CreatedAt,
		IndexedAt:   d.IndexedAt,
	}
}
