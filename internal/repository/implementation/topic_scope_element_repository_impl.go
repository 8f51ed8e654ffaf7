package implementation

import (
	"context"
	"errors"

	"auraflux-be/internal/entity"
	"auraflux-be/internal/mapper"
	"auraflux-be/internal/model"
	"auraflux-be/internal/repository/contract"
	"auraflux-be/internal/repository/specification"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type TopicScopeElementRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.KnowledgeMapper
}

func NewTopicScopeElementRepository(db *gorm.DB) contract.TopicScopeElementRepository {
	return &TopicScopeElementRepositoryImpl{
		db:     db,
		mapper: mapper.NewKnowledgeMapper(),
	}
}

func (r *TopicScopeElementRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *TopicScopeElementRepositoryImpl) Create(ctx context.Context, element *entity.TopicScopeElement) error {
	m := r.mapper.ScopeElementToModel(element)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*element = *r.mapper.ScopeElementToEntity(m)
	return nil
}

func (r *TopicScopeElementRepositoryImpl) Update(ctx context.Context, element *entity.TopicScopeElement) error {
	m := r.mapper.ScopeElementToModel(element)
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return err
	}
	*element = *r.mapper.ScopeElementToEntity(m)
	return nil
}

func (r *TopicScopeElementRepositoryImpl) Upsert(ctx context.Context, element *entity.TopicScopeElement) error {
	m := r.mapper.ScopeElementToModel(element)
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "owner_kind"}, {Name: "owner_id"}, {Name: "label"}, {Name: "rationale"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"boundary_type", "status", "updated_at",
		}),
	}).Create(m).Error
	if err != nil {
		return err
	}
	*element = *r.mapper.ScopeElementToEntity(m)
	return nil
}

func (r *TopicScopeElementRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.TopicScopeElement, error) {
	var m model.TopicScopeElement
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ScopeElementToEntity(&m), nil
}

func (r *TopicScopeElementRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.TopicScopeElement, error) {
	var models []*model.TopicScopeElement
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ScopeElementsToEntities(models), nil
}
