package contract

import (
	"context"

	"ai-assistant-be/internal/entity"
	"ai-assistant-be/internal/repository/specification"

	"github.com/google/uuid"
)

type TurnEmbeddingRepository interface {
	Create(ctx context.Context, embedding *entity.TurnEmbedding) error
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.TurnEmbedding, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
	// SearchSimilar returns the k nearest entries for (user, session) ranked
	// by descending cosine similarity.
	SearchSimilar(ctx context.Context, embedding []float32, k int, userId uuid.UUID, sessionId uuid.UUID) ([]*entity.TurnEmbedding, error)
}
