package entity

import (
	"time"

	"github.com/google/uuid"

	"auraflux-be/internal/constant"
)

// TopicKeyword is a semantic unit of the research topic. Uniqueness is
// enforced per (owner kind, owner id, label) so repeated agent extraction
// upserts instead of duplicating.
type TopicKeyword struct {
	Id               uuid.UUID
	OwnerKind        constant.OwnerKind
	OwnerId          uuid.UUID
	Label            string
	ImportanceWeight float64 // 0.0 - 1.0
	IsCore           bool
	SemanticCategory string
	Status           constant.EntityStatus
	CreatedAt        time.Time
	UpdatedAt        *time.Time
}
