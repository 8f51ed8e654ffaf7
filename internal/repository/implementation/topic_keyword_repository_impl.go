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

type TopicKeywordRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.KnowledgeMapper
}

func NewTopicKeywordRepository(db *gorm.DB) contract.TopicKeywordRepository {
	return &TopicKeywordRepositoryImpl{
		db:     db,
		mapper: mapper.NewKnowledgeMapper(),
	}
}

func (r *TopicKeywordRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *TopicKeywordRepositoryImpl) Create(ctx context.Context, keyword *entity.TopicKeyword) error {
	m := r.mapper.KeywordToModel(keyword)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*keyword = *r.mapper.KeywordToEntity(m)
	return nil
}

func (r *TopicKeywordRepositoryImpl) Update(ctx context.Context, keyword *entity.TopicKeyword) error {
	m := r.mapper.KeywordToModel(keyword)
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return err
	}
	*keyword = *r.mapper.KeywordToEntity(m)
	return nil
}

func (r *TopicKeywordRepositoryImpl) Upsert(ctx context.Context, keyword *entity.TopicKeyword) error {
	m := r.mapper.KeywordToModel(keyword)
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "owner_kind"}, {Name: "owner_id"}, {Name: "label"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"importance_weight", "is_core", "semantic_category", "status", "updated_at",
		}),
	}).Create(m).Error
	if err != nil {
		return err
	}
	*keyword = *r.mapper.KeywordToEntity(m)
	return nil
}

func (r *TopicKeywordRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.TopicKeyword, error) {
	var m model.TopicKeyword
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.KeywordToEntity(&m), nil
}

func (r *TopicKeywordRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.TopicKeyword, error) {
	var models []*model.TopicKeyword
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.KeywordsToEntities(models), nil
}
