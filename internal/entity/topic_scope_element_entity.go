package entity

import (
	"time"

	"github.com/google/uuid"

	"auraflux-be/internal/constant"
)

// TopicScopeElement defines one boundary of the research topic
// (an inclusion or exclusion with its rationale). Unique per
// (owner kind, owner id, label, rationale).
type TopicScopeElement struct {
	Id           uuid.UUID
	OwnerKind    constant.OwnerKind
	OwnerId      uuid.UUID
	Label        string
	BoundaryType constant.BoundaryType
	Rationale    string
	Status       constant.EntityStatus
	CreatedAt    time.Time
	UpdatedAt    *time.Time
}
