package entity

import (
	"time"

	"github.com/google/uuid"

	"auraflux-be/internal/constant"
)

// ResearchWorkflow is the control record for one research session.
// Exactly one row exists per session id; the session id doubles as the
// primary key.
type ResearchWorkflow struct {
	SessionId    uuid.UUID
	UserId       uuid.UUID
	CurrentStage constant.ISPStage
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    *time.Time
}
