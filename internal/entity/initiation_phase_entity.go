package entity

import (
	"time"

	"github.com/google/uuid"

	"auraflux-be/internal/constant"
)

// InitiationPhaseData holds the mutable analysis state exclusive to the
// Definition stage. One-to-one with ResearchWorkflow.
//
// LastAnalysisSequenceNumber is the high-water mark of chat history already
// folded into ConversationSummary; it never decreases.
type InitiationPhaseData struct {
	SessionId             uuid.UUID
	StabilityScore        float64 // 0.0 - 10.0
	FeasibilityStatus     constant.FeasibilityStatus
	FinalResearchQuestion string
	ConversationSummary   string

	LastAnalysisSequenceNumber int64

	// AnalysisActivationThreshold gates secondary analysis; a session whose
	// stability score crosses it is flagged transition-ready.
	AnalysisActivationThreshold float64
	IsTransitionReady           bool

	CreatedAt time.Time
	UpdatedAt *time.Time
}
