package mapper

import (
	"encoding/json"

	"ai-assistant-be/internal/entity"
	"ai-assistant-be/internal/model"

	"gorm.io/datatypes"
)

type TurnMapper struct{}

func NewTurnMapper() *TurnMapper {
	return &TurnMapper{}
}

func (m *TurnMapper) ToEntity(t *model.Turn) *entity.Turn {
	if t == nil {
		return nil
	}
	var trace []entity.ToolInvocation
	if len(t.ToolTrace) > 0 {
		// A malformed trace is not worth failing a read over; leave it empty.
		_ = json.Unmarshal(t.ToolTrace, &trace)
	}
	return &entity.Turn{
		Id:            t.Id,
		SessionId:     t.SessionId,
		UserId:        t.UserId,
		RawText:       t.RawText,
		SanitizedText: t.SanitizedText,
		Answer:        t.Answer,
		ExecutorUsed:  t.ExecutorUsed,
		ToolTrace:     trace,
		CreatedAt:     t.CreatedAt,
	}
}

func (m *TurnMapper) ToModel(t *entity.Turn) *model.Turn {
	if t == nil {
		return nil
	}
	var trace datatypes.JSON
	if len(t.ToolTrace) > 0 {
		if raw, err := json.Marshal(t.ToolTrace); err == nil {
			trace = raw
		}
	}
	return &model.Turn{
		Id:            t.Id,
		SessionId:     t.SessionId,
		UserId:        t.UserId,
		RawText:       t.RawText,
		SanitizedText: t.SanitizedText,
		Answer:        t.Answer,
		ExecutorUsed:  t.ExecutorUsed,
		ToolTrace:     trace,
		CreatedAt:     t.CreatedAt,
	}
}
