package implementation

import (
	"context"
	"errors"

	"auraflux-be/internal/constant"
	"auraflux-be/internal/entity"
	"auraflux-be/internal/mapper"
	"auraflux-be/internal/model"
	"auraflux-be/internal/repository/contract"
	"auraflux-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ReflectionLogRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.KnowledgeMapper
}

func NewReflectionLogRepository(db *gorm.DB) contract.ReflectionLogRepository {
	return &ReflectionLogRepositoryImpl{
		db:     db,
		mapper: mapper.NewKnowledgeMapper(),
	}
}

func (r *ReflectionLogRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *ReflectionLogRepositoryImpl) Create(ctx context.Context, log *entity.ReflectionLog) error {
	m := r.mapper.ReflectionLogToModel(log)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*log = *r.mapper.ReflectionLogToEntity(m)
	return nil
}

func (r *ReflectionLogRepositoryImpl) Update(ctx context.Context, log *entity.ReflectionLog) error {
	m := r.mapper.ReflectionLogToModel(log)
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return err
	}
	*log = *r.mapper.ReflectionLogToEntity(m)
	return nil
}

func (r *ReflectionLogRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.ReflectionLog, error) {
	var m model.ReflectionLog
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ReflectionLogToEntity(&m), nil
}

func (r *ReflectionLogRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ReflectionLog, error) {
	var models []*model.ReflectionLog
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ReflectionLogsToEntities(models), nil
}

func (r *ReflectionLogRepositoryImpl) LatestCommitted(ctx context.Context, kind constant.OwnerKind, ownerId uuid.UUID) (*entity.ReflectionLog, error) {
	var m model.ReflectionLog
	err := r.db.WithContext(ctx).
		Where("owner_kind = ? AND owner_id = ? AND status = ?", string(kind), ownerId, string(constant.ReflectionCommitted)).
		Order("created_at DESC").
		First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ReflectionLogToEntity(&m), nil
}
