package contract

import (
	"context"

	"github.com/google/uuid"

	"auraflux-be/internal/entity"
)

type InitiationDataRepository interface {
	FindBySession(ctx context.Context, sessionId uuid.UUID) (*entity.InitiationPhaseData, error)
	// GetOrCreateForUpdate returns the locked phase-data row for the session,
	// creating it with stage defaults on first access. Must run inside an
	// open transaction holding the workflow row lock.
	GetOrCreateForUpdate(ctx context.Context, sessionId uuid.UUID) (*entity.InitiationPhaseData, error)
	Update(ctx context.Context, data *entity.InitiationPhaseData) error
}
