package specification

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"auraflux-be/internal/constant"
)

// BySessionID filters by workflow session id.
type BySessionID struct {
	SessionID uuid.UUID
}

func (s BySessionID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("session_id = ?", s.SessionID)
}

// ByOwner filters knowledge entities by their typed owner reference.
type ByOwner struct {
	Kind constant.OwnerKind
	ID   uuid.UUID
}

func (s ByOwner) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("owner_kind = ? AND owner_id = ?", string(s.Kind), s.ID)
}

// ByStatus filters by lifecycle status.
type ByStatus struct {
	Status string
}

func (s ByStatus) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("status = ?", s.Status)
}

// SequenceAfter keeps chat entries strictly past a checkpoint.
type SequenceAfter struct {
	After int64
}

func (s SequenceAfter) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("sequence_number > ?", s.After)
}
