package mapper

import (
	"encoding/json"

	"ai-assistant-be/internal/entity"
	"ai-assistant-be/internal/model"

	"gorm.io/datatypes"
)

type ToolProposalMapper struct{}

func NewToolProposalMapper() *ToolProposalMapper {
	return &ToolProposalMapper{}
}

func (m *ToolProposalMapper) ToEntity(p *model.ToolProposal) *entity.ToolProposal {
	if p == nil {
		return nil
	}
	params := map[string]interface{}{}
	if len(p.Parameters) > 0 {
		_ = json.Unmarshal(p.Parameters, &params)
	}
	return &entity.ToolProposal{
		Id:         p.Id,
		SessionId:  p.SessionId,
		UserId:     p.UserId,
		ToolName:   p.ToolName,
		Parameters: params,
		Summary:    p.Summary,
		Status:     p.Status,
		Result:     p.Result,
		CreatedAt:  p.CreatedAt,
		ResolvedAt: p.ResolvedAt,
	}
}

func (m *ToolProposalMapper) ToModel(p *entity.ToolProposal) *model.ToolProposal {
	if p == nil {
		return nil
	}
	var params datatypes.JSON
	if p.Parameters != nil {
		if raw, err := json.Marshal(p.Parameters); err == nil {
			params = raw
		}
	}
	return &model.ToolProposal{
		Id:         p.Id,
		SessionId:  p.SessionId,
		UserId:     p.UserId,
		ToolName:   p.ToolName,
		Parameters: params,
		Summary:    p.Summary,
		Status:     p.Status,
		Result:     p.Result,
		CreatedAt:  p.CreatedAt,
		ResolvedAt: p.ResolvedAt,
	}
}
