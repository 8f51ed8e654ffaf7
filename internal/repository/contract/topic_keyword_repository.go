package contract

import (
	"context"

	"auraflux-be/internal/entity"
	"auraflux-be/internal/repository/specification"
)

type TopicKeywordRepository interface {
	Create(ctx context.Context, keyword *entity.TopicKeyword) error
	Update(ctx context.Context, keyword *entity.TopicKeyword) error
	// Upsert inserts or, on (owner_kind, owner_id, label) conflict, updates
	// the mutable columns. Safe under concurrent extraction runs.
	Upsert(ctx context.Context, keyword *entity.TopicKeyword) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.TopicKeyword, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.TopicKeyword, error)
}
