package dto

import (
	"time"

	"github.com/google/uuid"

	"ai-assistant-be/internal/entity"
)

type CreateSessionRequest struct {
	Title string `json:"title" validate:"required,max=200"`
	Mode  string `json:"mode" validate:"omitempty,oneof=retrieval tool_calling"`
}

type CreateSessionResponse struct {
	Id uuid.UUID `json:"id"`
}

type SessionResponse struct {
	Id           uuid.UUID  `json:"id"`
	Title        string     `json:"title"`
	Mode         string     `json:"mode,omitempty"`
	Collection   string     `json:"collection,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	LastActiveAt *time.Time `json:"last_active_at,omitempty"`
}

type ChatRequest struct {
	Message string `json:"message" validate:"required"`
}

type ChatResponse struct {
	TurnId       uuid.UUID  `json:"turn_id"`
	Answer       string     `json:"answer"`
	ExecutorUsed string     `json:"executor_used,omitempty"`
	Suspended    bool       `json:"suspended"`
	ProposalId   *uuid.UUID `json:"proposal_id,omitempty"`
	Blocked      bool       `json:"blocked,omitempty"`
	Warnings     []string   `json:"warnings,omitempty"`
}

type TurnResponse struct {
	Id           uuid.UUID               `json:"id"`
	Message      string                  `json:"message"`
	Answer       string                  `json:"answer"`
	ExecutorUsed string                  `json:"executor_used,omitempty"`
	ToolTrace    []entity.ToolInvocation `json:"tool_trace,omitempty"`
	CreatedAt    time.Time               `json:"created_at"`
}

type ResolveProposalRequest struct {
	Decision string `json:"decision" validate:"required,oneof=approve reject"`
}

type ProposalResponse struct {
	Id         uuid.UUID              `json:"id"`
	SessionId  uuid.UUID              `json:"session_id"`
	ToolName   string                 `json:"tool_name"`
	Parameters map[string]interface{} `json:"parameters"`
	Summary    string                 `json:"summary"`
	Status     string                 `json:"status"`
	Result     string                 `json:"result,omitempty"`
	CreatedAt  time.Time              `json:"created_at"`
	ResolvedAt *time.Time             `json:"resolved_at,omitempty"`
}

type ResolveProposalResponse struct {
	Proposal ProposalResponse `json:"proposal"`
	Answer   string           `json:"answer"`
}
