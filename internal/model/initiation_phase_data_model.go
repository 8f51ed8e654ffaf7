package model

import (
	"time"

	"github.com/google/uuid"
)

type InitiationPhaseData struct {
	// Shares the workflow's primary key (one-to-one).
	SessionId                   uuid.UUID `gorm:"type:uuid;primaryKey"`
	StabilityScore              float64   `gorm:"not null;default:0"`
	FeasibilityStatus           string    `gorm:"type:varchar(20);not null;default:'LOW'"`
	FinalResearchQuestion       string    `gorm:"type:text;not null;default:''"`
	ConversationSummary         string    `gorm:"type:text;not null;default:''"`
	LastAnalysisSequenceNumber  int64     `gorm:"not null;default:0"`
	AnalysisActivationThreshold float64   `gorm:"not null;default:6.5"`
	IsTransitionReady           bool      `gorm:"not null;default:false"`
	CreatedAt                   time.Time `gorm:"autoCreateTime"`
	UpdatedAt                   time.Time `gorm:"autoUpdateTime"`
}

func (InitiationPhaseData) TableName() string {
	return "initiation_phase_data"
}
