package implementation

import (
	"context"
	"errors"

	"auraflux-be/internal/entity"
	"auraflux-be/internal/mapper"
	"auraflux-be/internal/model"
	"auraflux-be/internal/repository/contract"
	"auraflux-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ResearchWorkflowRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.WorkflowMapper
}

func NewResearchWorkflowRepository(db *gorm.DB) contract.ResearchWorkflowRepository {
	return &ResearchWorkflowRepositoryImpl{
		db:     db,
		mapper: mapper.NewWorkflowMapper(),
	}
}

func (r *ResearchWorkflowRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *ResearchWorkflowRepositoryImpl) Create(ctx context.Context, workflow *entity.ResearchWorkflow) error {
	m := r.mapper.WorkflowToModel(workflow)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*workflow = *r.mapper.WorkflowToEntity(m)
	return nil
}

func (r *ResearchWorkflowRepositoryImpl) Update(ctx context.Context, workflow *entity.ResearchWorkflow) error {
	m := r.mapper.WorkflowToModel(workflow)
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return err
	}
	*workflow = *r.mapper.WorkflowToEntity(m)
	return nil
}

func (r *ResearchWorkflowRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.ResearchWorkflow, error) {
	var m model.ResearchWorkflow
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.WorkflowToEntity(&m), nil
}

func (r *ResearchWorkflowRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ResearchWorkflow, error) {
	var models []*model.ResearchWorkflow
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	entities := make([]*entity.ResearchWorkflow, len(models))
	for i, m := range models {
		entities[i] = r.mapper.WorkflowToEntity(m)
	}
	return entities, nil
}

func (r *ResearchWorkflowRepositoryImpl) FindOneForUpdate(ctx context.Context, sessionId uuid.UUID) (*entity.ResearchWorkflow, error) {
	var m model.ResearchWorkflow
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("session_id = ?", sessionId).
		First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.WorkflowToEntity(&m), nil
}
