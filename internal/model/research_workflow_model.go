package model

import (
	"time"

	"github.com/google/uuid"
)

type ResearchWorkflow struct {
	SessionId    uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserId       uuid.UUID `gorm:"type:uuid;not null;index"`
	CurrentStage string    `gorm:"type:varchar(50);not null;default:'DEFINITION'"`
	IsActive     bool      `gorm:"not null;default:true"`
	CreatedAt    time.Time `gorm:"autoCreateTime"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime"`
}

func (ResearchWorkflow) TableName() string {
	return "research_workflows"
}
