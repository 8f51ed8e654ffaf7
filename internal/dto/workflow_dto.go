package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateWorkflowRequest struct {
	SessionId uuid.UUID `json:"session_id"`
}

type WorkflowResponse struct {
	SessionId    uuid.UUID  `json:"session_id"`
	CurrentStage string     `json:"current_stage"`
	IsActive     bool       `json:"is_active"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    *time.Time `json:"updated_at"`
}

type ChatInputRequest struct {
	UserMessage   string `json:"user_message" validate:"required"`
	AgentRoleName string `json:"agent_role_name,omitempty"`
}

type ChatInputResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

type ChatEntryResponse struct {
	Id             uuid.UUID `json:"id"`
	Role           string    `json:"role"`
	Content        string    `json:"content"`
	SenderName     string    `json:"sender_name"`
	SequenceNumber int64     `json:"sequence_number"`
	CreatedAt      time.Time `json:"created_at"`
}

// RefinedTopicResponse is the sidebar snapshot for the Definition stage.
type RefinedTopicResponse struct {
	StabilityScore        float64                `json:"stability_score"`
	FeasibilityStatus     string                 `json:"feasibility_status"`
	FinalResearchQuestion string                 `json:"final_research_question"`
	IsTransitionReady     bool                   `json:"is_transition_ready"`
	ResourceSuggestion    string                 `json:"resource_suggestion"`
	Keywords              []TopicKeywordResponse `json:"keywords"`
	ScopeElements         []ScopeElementResponse `json:"scope_elements"`
}
