package mapper

import (
	"ai-assistant-be/internal/entity"
	"ai-assistant-be/internal/model"
)

type UserFactMapper struct{}

func NewUserFactMapper() *UserFactMapper {
	return &UserFactMapper{}
}

func (m *UserFactMapper) ToEntity(f *model.UserFact) *entity.UserFact {
	if f == nil {
		return nil
	}
	return &entity.UserFact{
		Id:        f.Id,
		UserId:    f.UserId,
		FactKey:   f.FactKey,
		FactValue: f.FactValue,
		CreatedAt: f.CreatedAt,
		UpdatedAt: f.UpdatedAt,
	}
}

func (m *UserFactMapper) ToModel(f *entity.UserFact) *model.UserFact {
	if f == nil {
		return nil
	}
	return &model.UserFact{
		Id:        f.Id,
		UserId:    f.UserId,
		FactKey:   f.FactKey,
		FactValue: f.FactValue,
		CreatedAt: f.CreatedAt,
		UpdatedAt: f.UpdatedAt,
	}
}
