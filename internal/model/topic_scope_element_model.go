package model

import (
	"time"

	"github.com/google/uuid"
)

type TopicScopeElement struct {
	Id           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	OwnerKind    string    `gorm:"type:varchar(20);not null;uniqueIndex:idx_scope_owner_label_rationale,priority:1"`
	OwnerId      uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_scope_owner_label_rationale,priority:2"`
	Label        string    `gorm:"type:varchar(255);not null;uniqueIndex:idx_scope_owner_label_rationale,priority:3"`
	BoundaryType string    `gorm:"type:varchar(20);not null;default:'INCLUSION'"`
	Rationale    string    `gorm:"type:text;not null;uniqueIndex:idx_scope_owner_label_rationale,priority:4"`
	Status       string    `gorm:"type:varchar(20);not null;default:'AI_EXTRACTED'"`
	CreatedAt    time.Time `gorm:"autoCreateTime"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime"`
}

func (TopicScopeElement) TableName() string {
	return "topic_scope_elements"
}
