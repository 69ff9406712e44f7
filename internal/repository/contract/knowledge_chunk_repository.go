package contract

import (
	"context"

	"ai-assistant-be/internal/entity"
	"ai-assistant-be/internal/repository/specification"

	"github.com/google/uuid"
)

type KnowledgeChunkRepository interface {
	CreateBatch(ctx context.Context, chunks []*entity.KnowledgeChunk) error
	DeleteByDocumentId(ctx context.Context, documentId uuid.UUID) error
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.KnowledgeChunk, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
	// SearchSimilar returns the k nearest chunks of a collection ranked by
	// descending cosine similarity.
	SearchSimilar(ctx context.Context, embedding []float32, k int, collection string) ([]*entity.KnowledgeChunk, error)
}
