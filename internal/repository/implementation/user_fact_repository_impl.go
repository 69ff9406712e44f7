package implementation

import (
	"context"
	"errors"
	"time"

	"ai-assistant-be/internal/entity"
	"ai-assistant-be/internal/mapper"
	"ai-assistant-be/internal/model"
	"ai-assistant-be/internal/repository/contract"
	"ai-assistant-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type UserFactRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.UserFactMapper
}

func NewUserFactRepository(db *gorm.DB) contract.UserFactRepository {
	return &UserFactRepositoryImpl{
		db:     db,
		mapper: mapper.NewUserFactMapper(),
	}
}

func (r *UserFactRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

// Upsert is last-write-wins on the (user_id, fact_key) unique index.
func (r *UserFactRepositoryImpl) Upsert(ctx context.Context, fact *entity.UserFact) error {
	m := r.mapper.ToModel(fact)
	now := time.Now()
	m.UpdatedAt = &now
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "fact_key"}},
			DoUpdates: clause.AssignmentColumns([]string{"fact_value", "updated_at"}),
		}).
		Create(m).Error
	if err != nil {
		return err
	}
	*fact = *r.mapper.ToEntity(m)
	return nil
}

func (r *UserFactRepositoryImpl) FindAllByUserId(ctx context.Context, userId uuid.UUID) ([]*entity.UserFact, error) {
	var models []*model.UserFact
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userId).
		Order("fact_key ASC").
		Find(&models).Error
	if err != nil {
		return nil, err
	}
	entities := make([]*entity.UserFact, len(models))
	for i, m := range models {
		entities[i] = r.mapper.ToEntity(m)
	}
	return entities, nil
}

func (r *UserFactRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.UserFact, error) {
	var m model.UserFact
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *UserFactRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	err := query.Model(&model.UserFact{}).Count(&count).Error
	return count, err
}
