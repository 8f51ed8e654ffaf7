package constant

// Pipeline topics carried over the in-process event bus. The names are the
// contract between the intake handler and the worker chain; payload shapes
// live in internal/dto.
const (
	TopicStreamingDialogueRequested = "streaming_dialogue_requested"
	TopicRefinementRequested        = "topic_refinement_requested"
	TopicStabilityUpdated           = "topic_stability_updated"
)

// NATS subjects for cross-service notification events.
const (
	EventWorkflowCreated    = "WORKFLOW_CREATED"
	EventStageAdvanced      = "WORKFLOW_STAGE_ADVANCED"
	EventTopicStabilized    = "TOPIC_STABILIZED"
	EventAnalysisFailed     = "TOPIC_ANALYSIS_FAILED"
	EventReflectionLogSaved = "REFLECTION_LOG_SAVED"
)
