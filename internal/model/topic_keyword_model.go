package model

import (
	"time"

	"github.com/google/uuid"
)

type TopicKeyword struct {
	Id               uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	OwnerKind        string    `gorm:"type:varchar(20);not null;uniqueIndex:idx_keyword_owner_label,priority:1"`
	OwnerId          uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_keyword_owner_label,priority:2"`
	Label            string    `gorm:"type:varchar(255);not null;uniqueIndex:idx_keyword_owner_label,priority:3"`
	ImportanceWeight float64   `gorm:"not null;default:0.5"`
	IsCore           bool      `gorm:"not null;default:false"`
	SemanticCategory string    `gorm:"type:varchar(100);not null;default:''"`
	Status           string    `gorm:"type:varchar(20);not null;default:'AI_EXTRACTED'"`
	CreatedAt        time.Time `gorm:"autoCreateTime"`
	UpdatedAt        time.Time `gorm:"autoUpdateTime"`
}

func (TopicKeyword) TableName() string {
	return "topic_keywords"
}
