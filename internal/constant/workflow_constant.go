package constant

// ISPStage enumerates the Kuhlthau Information Search Process phases.
// A workflow session occupies exactly one stage at a time and only moves
// forward.
type ISPStage string

const (
	StageDefinition   ISPStage = "DEFINITION"
	StageExploration  ISPStage = "EXPLORATION"
	StageFormulation  ISPStage = "FORMULATION"
	StageCollection   ISPStage = "COLLECTION"
	StagePresentation ISPStage = "PRESENTATION"
)

// stageOrder gives the forward-only progression index per stage.
var stageOrder = map[ISPStage]int{
	StageDefinition:   0,
	StageExploration:  1,
	StageFormulation:  2,
	StageCollection:   3,
	StagePresentation: 4,
}

// IsValid reports whether the stage is a member of the closed set.
func (s ISPStage) IsValid() bool {
	_, ok := stageOrder[s]
	return ok
}

// Before reports whether s precedes other in the ISP progression.
func (s ISPStage) Before(other ISPStage) bool {
	return stageOrder[s] < stageOrder[other]
}

// FeasibilityStatus tracks the viability assessment of a research topic.
type FeasibilityStatus string

const (
	FeasibilityLow    FeasibilityStatus = "LOW"
	FeasibilityMedium FeasibilityStatus = "MEDIUM"
	FeasibilityHigh   FeasibilityStatus = "HIGH"
)

// ParticipantRole standardizes chat history roles between users and agents.
const (
	RoleUser    = "user"
	RoleSystem  = "system"
	RoleAIAgent = "ai-agent"
)

// EntityStatus is the lifecycle state shared by keywords, scope elements
// and reflection logs.
type EntityStatus string

const (
	StatusUserDraft   EntityStatus = "USER_DRAFT"
	StatusAIExtracted EntityStatus = "AI_EXTRACTED"
	StatusLocked      EntityStatus = "LOCKED"
	StatusOnHold      EntityStatus = "ON_HOLD"
	StatusArchived    EntityStatus = "ARCHIVED"
)

// ReflectionStatus values for reflection log entries.
const (
	ReflectionDraft     = "DRAFT"
	ReflectionCommitted = "COMMITTED"
)

// OwnerKind is the typed owner reference for knowledge entities.
// Replaces the polymorphic (content_type, object_id) pair with a closed set.
type OwnerKind string

const (
	OwnerWorkflow OwnerKind = "WORKFLOW"
	OwnerResource OwnerKind = "RESOURCE"
)

// BoundaryType classifies a scope element as inclusion or exclusion.
type BoundaryType string

const (
	BoundaryInclusion BoundaryType = "INCLUSION"
	BoundaryExclusion BoundaryType = "EXCLUSION"
)

// Realtime push statuses. The client contract is
// {event_type, status, payload} where status is one of these.
const (
	PushStatusSuccess  = "success"
	PushStatusRunning  = "RUNNING"
	PushStatusComplete = "COMPLETE"
	PushStatusError    = "error"
)

// Realtime event types pushed to the per-user group.
const (
	PushEventDialogueStream = "initiation_dialogue_stream"
	PushEventTopicSnapshot  = "initiation_topic_snapshot"
	PushEventNotification   = "notification"
)
