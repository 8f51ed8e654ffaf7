package dto

import (
	"fmt"

	"github.com/google/uuid"
)

// Pipeline event payloads. Each carries everything the consuming worker
// needs so stages stay connected only by published events, never by direct
// calls. Required-field validation is the consumer's first move: a payload
// missing a required key is dropped, not retried.

type ChatEntryPayload struct {
	Role           string `json:"role"`
	Content        string `json:"content"`
	SenderName     string `json:"sender_name"`
	SequenceNumber int64  `json:"sequence_number"`
}

type KeywordPayload struct {
	Label            string  `json:"label"`
	ImportanceWeight float64 `json:"importance_weight"`
	IsCore           bool    `json:"is_core"`
	SemanticCategory string  `json:"semantic_category"`
}

type ScopeElementPayload struct {
	Label        string `json:"label"`
	BoundaryType string `json:"boundary_type"`
	Rationale    string `json:"rationale"`
}

// StreamingDialogueRequested is published by the HTTP intake once the user
// message is persisted under the session lock.
type StreamingDialogueRequested struct {
	SessionId                  uuid.UUID             `json:"session_id"`
	UserId                     uuid.UUID             `json:"user_id"`
	UserMessage                string                `json:"user_message"`
	AgentRoleName              string                `json:"agent_role_name"`
	FinalQuestionDraft         string                `json:"final_question_draft"`
	LockedKeywords             []KeywordPayload      `json:"locked_keywords"`
	LockedScopeElements        []ScopeElementPayload `json:"locked_scope_elements"`
	ConversationSummary        string                `json:"conversation_summary"`
	LastAnalysisSequenceNumber int64                 `json:"last_analysis_sequence_number"`
	ChatHistory                []ChatEntryPayload    `json:"chat_history"`
	LatestReflection           string                `json:"latest_reflection,omitempty"`
}

func (e *StreamingDialogueRequested) Validate() error {
	if e.SessionId == uuid.Nil {
		return fmt.Errorf("session_id is required")
	}
	if e.UserId == uuid.Nil {
		return fmt.Errorf("user_id is required")
	}
	if e.UserMessage == "" {
		return fmt.Errorf("user_message is required")
	}
	return nil
}

// TopicRefinementRequested is published by the streaming worker after the
// assistant turn is persisted. Window holds only the entries past the
// analysis checkpoint (capped), which bounds downstream prompt size.
type TopicRefinementRequested struct {
	SessionId                  uuid.UUID             `json:"session_id"`
	UserId                     uuid.UUID             `json:"user_id"`
	Window                     []ChatEntryPayload    `json:"window"`
	LockedKeywords             []KeywordPayload      `json:"locked_keywords"`
	LockedScopeElements        []ScopeElementPayload `json:"locked_scope_elements"`
	ConversationSummary        string                `json:"conversation_summary"`
	LastAnalysisSequenceNumber int64                 `json:"last_analysis_sequence_number"`
	LatestSequenceNumber       int64                 `json:"latest_sequence_number"`
}

func (e *TopicRefinementRequested) Validate() error {
	if e.SessionId == uuid.Nil {
		return fmt.Errorf("session_id is required")
	}
	if e.UserId == uuid.Nil {
		return fmt.Errorf("user_id is required")
	}
	if len(e.Window) == 0 {
		return fmt.Errorf("window is required")
	}
	return nil
}

// TopicStabilityUpdated carries the merged refinement result to the single
// authoritative persistence stage.
type TopicStabilityUpdated struct {
	SessionId              uuid.UUID             `json:"session_id"`
	UserId                 uuid.UUID             `json:"user_id"`
	StabilityScore         float64               `json:"stability_score"`
	IsNiche                bool                  `json:"is_niche"`
	FeasibilityStatus      string                `json:"feasibility_status"`
	ResearchQuestionDraft  string                `json:"research_question_draft"`
	ConversationSummary    string                `json:"conversation_summary"`
	RefinedKeywords        []KeywordPayload      `json:"refined_keywords"`
	RefinedScopeElements   []ScopeElementPayload `json:"refined_scope_elements"`
	AnalyzedSequenceNumber int64                 `json:"analyzed_sequence_number"`
}

func (e *TopicStabilityUpdated) Validate() error {
	if e.SessionId == uuid.Nil {
		return fmt.Errorf("session_id is required")
	}
	if e.UserId == uuid.Nil {
		return fmt.Errorf("user_id is required")
	}
	return nil
}
