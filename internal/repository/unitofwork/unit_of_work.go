package unitofwork

import (
	"context"

	"auraflux-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	UserRepository() contract.UserRepository
	ResearchWorkflowRepository() contract.ResearchWorkflowRepository
	InitiationDataRepository() contract.InitiationDataRepository
	ChatHistoryRepository() contract.ChatHistoryRepository
	TopicKeywordRepository() contract.TopicKeywordRepository
	TopicScopeElementRepository() contract.TopicScopeElementRepository
	ReflectionLogRepository() contract.ReflectionLogRepository
}
