package contract

import (
	"context"

	"auraflux-be/internal/entity"
	"auraflux-be/internal/repository/specification"
)

type TopicScopeElementRepository interface {
	Create(ctx context.Context, element *entity.TopicScopeElement) error
	Update(ctx context.Context, element *entity.TopicScopeElement) error
	// Upsert inserts or, on (owner_kind, owner_id, label, rationale)
	// conflict, updates the mutable columns.
	Upsert(ctx context.Context, element *entity.TopicScopeElement) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.TopicScopeElement, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.TopicScopeElement, error)
}
