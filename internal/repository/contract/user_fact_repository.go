package contract

import (
	"context"

	"ai-assistant-be/internal/entity"
	"ai-assistant-be/internal/repository/specification"

	"github.com/google/uuid"
)

type UserFactRepository interface {
	// Upsert writes a fact with last-write-wins semantics on (user_id, fact_key).
	Upsert(ctx context.Context, fact *entity.UserFact) error
	FindAllByUserId(ctx context.Context, userId uuid.UUID) ([]*entity.UserFact, error)
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.UserFact, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
