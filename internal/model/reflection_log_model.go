package model

import (
	"time"

	"github.com/google/uuid"
)

type ReflectionLog struct {
	Id        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	OwnerKind string    `gorm:"type:varchar(20);not null;index:idx_reflection_owner,priority:1"`
	OwnerId   uuid.UUID `gorm:"type:uuid;not null;index:idx_reflection_owner,priority:2"`
	Title     string    `gorm:"type:varchar(255);not null"`
	Content   string    `gorm:"type:text;not null"`
	Status    string    `gorm:"type:varchar(20);not null;default:'DRAFT'"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (ReflectionLog) TableName() string {
	return "reflection_logs"
}
