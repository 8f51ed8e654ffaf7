package unitofwork

import (
	"context"
	"fmt"

	"auraflux-be/internal/repository/contract"
	"auraflux-be/internal/repository/implementation"

	"gorm.io/gorm"
)

type UnitOfWorkImpl struct {
	db *gorm.DB
	tx *gorm.DB
}

func NewUnitOfWork(db *gorm.DB) UnitOfWork {
	return &UnitOfWorkImpl{
		db: db,
	}
}

func (u *UnitOfWorkImpl) getDB() *gorm.DB {
	if u.tx != nil {
		return u.tx
	}
	return u.db
}

func (u *UnitOfWorkImpl) Begin(ctx context.Context) error {
	if u.tx != nil {
		return fmt.Errorf("transaction already started")
	}
	u.tx = u.db.WithContext(ctx).Begin()
	return u.tx.Error
}

func (u *UnitOfWorkImpl) Commit() error {
	if u.tx == nil {
		return fmt.Errorf("no transaction to commit")
	}
	err := u.tx.Commit().Error
	u.tx = nil
	return err
}

func (u *UnitOfWorkImpl) Rollback() error {
	if u.tx == nil {
		return fmt.Errorf("no transaction to rollback")
	}
	err := u.tx.Rollback().Error
	u.tx = nil
	return err
}

// Repository Accessors

func (u *UnitOfWorkImpl) UserRepository() contract.UserRepository {
	return implementation.NewUserRepository(u.getDB())
}

func (u *UnitOfWorkImpl) ResearchWorkflowRepository() contract.ResearchWorkflowRepository {
	return implementation.NewResearchWorkflowRepository(u.getDB())
}

func (u *UnitOfWorkImpl) InitiationDataRepository() contract.InitiationDataRepository {
	return implementation.NewInitiationDataRepository(u.getDB())
}

func (u *UnitOfWorkImpl) ChatHistoryRepository() contract.ChatHistoryRepository {
	return implementation.NewChatHistoryRepository(u.getDB())
}

func (u *UnitOfWorkImpl) TopicKeywordRepository() contract.TopicKeywordRepository {
	return implementation.NewTopicKeywordRepository(u.getDB())
}

func (u *UnitOfWorkImpl) TopicScopeElementRepository() contract.TopicScopeElementRepository {
	return implementation.NewTopicScopeElementRepository(u.getDB())
}

func (u *UnitOfWorkImpl) ReflectionLogRepository() contract.ReflectionLogRepository {
	return implementation.NewReflectionLogRepository(u.getDB())
}
