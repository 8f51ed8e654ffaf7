package contract

import (
	"context"

	"github.com/google/uuid"

	"auraflux-be/internal/entity"
	"auraflux-be/internal/repository/specification"
)

type ResearchWorkflowRepository interface {
	Create(ctx context.Context, workflow *entity.ResearchWorkflow) error
	Update(ctx context.Context, workflow *entity.ResearchWorkflow) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.ResearchWorkflow, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ResearchWorkflow, error)
	// FindOneForUpdate acquires a row-level lock (SELECT ... FOR UPDATE) and
	// must run inside an open transaction. Returns nil when absent.
	FindOneForUpdate(ctx context.Context, sessionId uuid.UUID) (*entity.ResearchWorkflow, error)
}
