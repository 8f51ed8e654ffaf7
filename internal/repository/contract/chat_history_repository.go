package contract

import (
	"context"

	"github.com/google/uuid"

	"auraflux-be/internal/entity"
	"auraflux-be/internal/repository/specification"
)

type ChatHistoryRepository interface {
	// Append persists the entry with the next sequence number for its
	// session (previous max + 1) and fills it in on the entity. Callers must
	// hold the session lock to keep sequence numbers gapless.
	Append(ctx context.Context, entry *entity.ChatHistoryEntry) error
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ChatHistoryEntry, error)
	MaxSequence(ctx context.Context, sessionId uuid.UUID) (int64, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
