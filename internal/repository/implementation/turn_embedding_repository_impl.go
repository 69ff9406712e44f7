package implementation

import (
	"context"

	"ai-assistant-be/internal/entity"
	"ai-assistant-be/internal/mapper"
	"ai-assistant-be/internal/model"
	"ai-assistant-be/internal/repository/contract"
	"ai-assistant-be/internal/repository/specification"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
)

type TurnEmbeddingRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.TurnEmbeddingMapper
}

func NewTurnEmbeddingRepository(db *gorm.DB) contract.TurnEmbeddingRepository {
	return &TurnEmbeddingRepositoryImpl{
		db:     db,
		mapper: mapper.NewTurnEmbeddingMapper(),
	}
}

func (r *TurnEmbeddingRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *TurnEmbeddingRepositoryImpl) Create(ctx context.Context, embedding *entity.TurnEmbedding) error {
	m := r.mapper.ToModel(embedding)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*embedding = *r.mapper.ToEntity(m)
	return nil
}

func (r *TurnEmbeddingRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.TurnEmbedding, error) {
	var models []*model.TurnEmbedding
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	entities := make([]*entity.TurnEmbedding, len(models))
	for i, m := range models {
		entities[i] = r.mapper.ToEntity(m)
	}
	return entities, nil
}

func (r *TurnEmbeddingRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	err := query.Model(&model.TurnEmbedding{}).Count(&count).Error
	return count, err
}

// SearchSimilar ranks by cosine similarity. pgvector's <=> operator is cosine
// distance, so similarity = 1 - distance.
func (r *TurnEmbeddingRepositoryImpl) SearchSimilar(ctx context.Context, embedding []float32, k int, userId uuid.UUID, sessionId uuid.UUID) ([]*entity.TurnEmbedding, error) {
	if k <= 0 {
		k = 5
	}

	type result struct {
		model.TurnEmbedding
		Similarity float64
	}
	var results []result

	queryVector := pgvector.NewVector(embedding)

	err := r.db.WithContext(ctx).
		Table("turn_embeddings").
		Select("turn_embeddings.*, 1 - (embedding_value <=> ?) as similarity", queryVector).
		Where("user_id = ?", userId).
		Where("session_id = ?", sessionId).
		Order("similarity DESC").
		Limit(k).
		Scan(&results).Error
	if err != nil {
		return nil, err
	}

	entities := make([]*entity.TurnEmbedding, len(results))
	for i, res := range results {
		e := r.mapper.ToEntity(&res.TurnEmbedding)
		e.Score = res.Similarity
		entities[i] = e
	}
	return entities, nil
}
