package mapper

import (
	"ai-assistant-be/internal/entity"
	"ai-assistant-be/internal/model"

	"github.com/pgvector/pgvector-go"
)

type TurnEmbeddingMapper struct{}

func NewTurnEmbeddingMapper() *TurnEmbeddingMapper {
	return &TurnEmbeddingMapper{}
}

func (m *TurnEmbeddingMapper) ToEntity(e *model.TurnEmbedding) *entity.TurnEmbedding {
	if e == nil {
		return nil
	}
	return &entity.TurnEmbedding{
		Id:             e.Id,
		UserId:         e.UserId,
		SessionId:      e.SessionId,
		TurnId:         e.TurnId,
		Summary:        e.Summary,
		EmbeddingValue: e.EmbeddingValue.Slice(),
		CreatedAt:      e.CreatedAt,
	}
}

func (m *TurnEmbeddingMapper) ToModel(e *entity.TurnEmbedding) *model.TurnEmbedding {
	if e == nil {
		return nil
	}
	return &model.TurnEmbedding{
		Id:             e.Id,
		UserId:         e.UserId,
		SessionId:      e.SessionId,
		TurnId:         e.TurnId,
		Summary:        e.Summary,
		EmbeddingValue: pgvector.NewVector(e.EmbeddingValue),
		CreatedAt:      e.CreatedAt,
	}
}
