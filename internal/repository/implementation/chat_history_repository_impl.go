package implementation

import (
	"context"

	"auraflux-be/internal/entity"
	"auraflux-be/internal/mapper"
	"auraflux-be/internal/model"
	"auraflux-be/internal/repository/contract"
	"auraflux-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ChatHistoryRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.WorkflowMapper
}

func NewChatHistoryRepository(db *gorm.DB) contract.ChatHistoryRepository {
	return &ChatHistoryRepositoryImpl{
		db:     db,
		mapper: mapper.NewWorkflowMapper(),
	}
}

func (r *ChatHistoryRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *ChatHistoryRepositoryImpl) Append(ctx context.Context, entry *entity.ChatHistoryEntry) error {
	next, err := r.MaxSequence(ctx, entry.SessionId)
	if err != nil {
		return err
	}
	m := r.mapper.ChatEntryToModel(entry)
	m.SequenceNumber = next + 1
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*entry = *r.mapper.ChatEntryToEntity(m)
	return nil
}

func (r *ChatHistoryRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ChatHistoryEntry, error) {
	var models []*model.ChatHistoryEntry
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ChatEntriesToEntities(models), nil
}

func (r *ChatHistoryRepositoryImpl) MaxSequence(ctx context.Context, sessionId uuid.UUID) (int64, error) {
	var max int64
	err := r.db.WithContext(ctx).
		Model(&model.ChatHistoryEntry{}).
		Where("session_id = ?", sessionId).
		Select("COALESCE(MAX(sequence_number), 0)").
		Scan(&max).Error
	if err != nil {
		return 0, err
	}
	return max, nil
}

func (r *ChatHistoryRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.ChatHistoryEntry{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
