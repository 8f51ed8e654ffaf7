package implementation

import (
	"context"
	"errors"

	"auraflux-be/internal/entity"
	"auraflux-be/internal/mapper"
	"auraflux-be/internal/model"
	"auraflux-be/internal/repository/contract"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type InitiationDataRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.WorkflowMapper
}

func NewInitiationDataRepository(db *gorm.DB) contract.InitiationDataRepository {
	return &InitiationDataRepositoryImpl{
		db:     db,
		mapper: mapper.NewWorkflowMapper(),
	}
}

func (r *InitiationDataRepositoryImpl) FindBySession(ctx context.Context, sessionId uuid.UUID) (*entity.InitiationPhaseData, error) {
	var m model.InitiationPhaseData
	err := r.db.WithContext(ctx).Where("session_id = ?", sessionId).First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.InitiationDataToEntity(&m), nil
}

func (r *InitiationDataRepositoryImpl) GetOrCreateForUpdate(ctx context.Context, sessionId uuid.UUID) (*entity.InitiationPhaseData, error) {
	var m model.InitiationPhaseData
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("session_id = ?", sessionId).
		First(&m).Error
	if err == nil {
		return r.mapper.InitiationDataToEntity(&m), nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	// First turn for this session. The insert happens inside the open
	// transaction so the fresh row is already locked by us.
	m = model.InitiationPhaseData{SessionId: sessionId}
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return nil, err
	}
	return r.mapper.InitiationDataToEntity(&m), nil
}

func (r *InitiationDataRepositoryImpl) Update(ctx context.Context, data *entity.InitiationPhaseData) error {
	m := r.mapper.InitiationDataToModel(data)
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return err
	}
	*data = *r.mapper.InitiationDataToEntity(m)
	return nil
}
