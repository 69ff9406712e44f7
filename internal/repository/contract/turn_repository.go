package contract

import (
	"context"

	"ai-assistant-be/internal/entity"
	"ai-assistant-be/internal/repository/specification"

	"github.com/google/uuid"
)

type TurnRepository interface {
	Create(ctx context.Context, turn *entity.Turn) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Turn, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Turn, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
	// FindRecent returns up to limit turns of a session ordered oldest to
	// newest. This backs the RecentWindow memory tier.
	FindRecent(ctx context.Context, sessionId uuid.UUID, limit int) ([]*entity.Turn, error)
}
