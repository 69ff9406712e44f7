package contract

import (
	"context"
	"time"

	"ai-assistant-be/internal/entity"
	"ai-assistant-be/internal/repository/specification"

	"github.com/google/uuid"
)

type ToolProposalRepository interface {
	Create(ctx context.Context, proposal *entity.ToolProposal) error
	Update(ctx context.Context, proposal *entity.ToolProposal) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.ToolProposal, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ToolProposal, error)
	// FindPendingBySession returns the session's single pending proposal, or
	// nil when there is none.
	FindPendingBySession(ctx context.Context, sessionId uuid.UUID) (*entity.ToolProposal, error)
	// ExpireOlderThan transitions pending proposals created before the cutoff
	// to expired and returns how many rows changed.
	ExpireOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}
