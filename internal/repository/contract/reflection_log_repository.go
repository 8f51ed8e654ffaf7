package contract

import (
	"context"

	"github.com/google/uuid"

	"auraflux-be/internal/constant"
	"auraflux-be/internal/entity"
	"auraflux-be/internal/repository/specification"
)

type ReflectionLogRepository interface {
	Create(ctx context.Context, log *entity.ReflectionLog) error
	Update(ctx context.Context, log *entity.ReflectionLog) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.ReflectionLog, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ReflectionLog, error)
	// LatestCommitted returns the newest COMMITTED entry for the owner, or
	// nil when none exists.
	LatestCommitted(ctx context.Context, kind constant.OwnerKind, ownerId uuid.UUID) (*entity.ReflectionLog, error)
}
