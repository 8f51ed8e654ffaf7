package entity

import (
	"time"

	"github.com/google/uuid"

	"auraflux-be/internal/constant"
)

// ReflectionLog is a user-authored free-text reflection. The most recent
// COMMITTED entry is surfaced to the pipeline as context.
type ReflectionLog struct {
	Id        uuid.UUID
	OwnerKind constant.OwnerKind
	OwnerId   uuid.UUID
	Title     string
	Content   string
	Status    string // DRAFT | COMMITTED
	CreatedAt time.Time
	UpdatedAt *time.Time
}
