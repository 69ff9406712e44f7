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
)

type ToolProposalRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.ToolProposalMapper
}

func NewToolProposalRepository(db *gorm.DB) contract.ToolProposalRepository {
	return &ToolProposalRepositoryImpl{
		db:     db,
		mapper: mapper.NewToolProposalMapper(),
	}
}

func (r *ToolProposalRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *ToolProposalRepositoryImpl) Create(ctx context.Context, proposal *entity.ToolProposal) error {
	m := r.mapper.ToModel(proposal)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*proposal = *r.mapper.ToEntity(m)
	return nil
}

func (r *ToolProposalRepositoryImpl) Update(ctx context.Context, proposal *entity.ToolProposal) error {
	m := r.mapper.ToModel(proposal)
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return err
	}
	*proposal = *r.mapper.ToEntity(m)
	return nil
}

func (r *ToolProposalRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.ToolProposal, error) {
	var m model.ToolProposal
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *ToolProposalRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ToolProposal, error) {
	var models []*model.ToolProposal
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	entities := make([]*entity.ToolProposal, len(models))
	for i, m := range models {
		entities[i] = r.mapper.ToEntity(m)
	}
	return entities, nil
}

func (r *ToolProposalRepositoryImpl) FindPendingBySession(ctx context.Context, sessionId uuid.UUID) (*entity.ToolProposal, error) {
	var m model.ToolProposal
	err := r.db.WithContext(ctx).
		Where("session_id = ?", sessionId).
		Where("status = ?", entity.ProposalStatusPending).
		Order("created_at DESC").
		First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *ToolProposalRepositoryImpl) ExpireOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	now := time.Now()
	res := r.db.WithContext(ctx).
		Model(&model.ToolProposal{}).
		Where("status = ?", entity.ProposalStatusPending).
		Where("created_at < ?", cutoff).
		Updates(map[string]interface{}{
			"status":      entity.ProposalStatusExpired,
			"resolved_at": &now,
		})
	return res.RowsAffected, res.Error
}
