package service

import (
	"context"
	"encoding/json"

	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"

	"auraflux-be/internal/config"
	"auraflux-be/internal/constant"
	"auraflux-be/internal/dto"
	"auraflux-be/internal/pkg/logger"
	"auraflux-be/pkg/agent"
	"auraflux-be/pkg/events"
	"auraflux-be/pkg/guard"
	pktNats "auraflux-be/pkg/nats"
)

// IRefinementWorker consumes refinement requests, runs the summarizer and
// refinement agents, and emits the merged stability update. Duplicate
// requests for the same session inside the guard TTL are dropped, not
// queued.
type IRefinementWorker interface {
	Consume(ctx context.Context) error
}

type refinementWorker struct {
	pubSub           *gochannel.GoChannel
	agent            *agent.Agent
	sessionGuard     guard.SessionGuard
	publisherService IPublisherService
	eventPublisher   *pktNats.Publisher
	workflowCfg      config.WorkflowConfig
	logger           logger.ILogger
}

func NewRefinementWorker(
	pubSub *gochannel.GoChannel,
	ag *agent.Agent,
	sessionGuard guard.SessionGuard,
	publisherService IPublisherService,
	eventPublisher *pktNats.Publisher,
	workflowCfg config.WorkflowConfig,
	log logger.ILogger,
) IRefinementWorker {
	return &refinementWorker{
		pubSub:           pubSub,
		agent:            ag,
		sessionGuard:     sessionGuard,
		publisherService: publisherService,
		eventPublisher:   eventPublisher,
		workflowCfg:      workflowCfg,
		logger:           log,
	}
}

func (w *refinementWorker) Consume(ctx context.Context) error {
	messages, err := w.pubSub.Subscribe(ctx, constant.TopicRefinementRequested)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			// An analysis run makes two blocking agent calls; ack at
			// handoff so one session's run never stalls another's. The
			// guard below keeps concurrent runs per session out.
			msg.Ack()
			go w.processMessage(ctx, msg.Payload)
		}
	}()

	return nil
}

func (w *refinementWorker) processMessage(ctx context.Context, payload []byte) {
	var event dto.TopicRefinementRequested
	if err := json.Unmarshal(payload, &event); err != nil {
		w.logger.Error("RefinementWorker", "Dropping malformed event", map[string]interface{}{"error": err.Error()})
		return
	}
	if err := event.Validate(); err != nil {
		w.logger.Error("RefinementWorker", "Dropping invalid event", map[string]interface{}{"error": err.Error()})
		return
	}

	guardKey := "refinement:" + event.SessionId.String()
	acquired, err := w.sessionGuard.Acquire(ctx, guardKey, w.workflowCfg.AnalysisGuardTTL)
	if err != nil {
		// The checkpoint has not moved; the next chat turn re-triggers
		// analysis over the same window.
		w.logger.Error("RefinementWorker", "Guard acquire failed", map[string]interface{}{
			"session_id": event.SessionId,
			"error":      err.Error(),
		})
		return
	}
	if !acquired {
		w.logger.Info("RefinementWorker", "Analysis already running, dropping duplicate", map[string]interface{}{
			"session_id": event.SessionId,
		})
		return
	}
	defer w.sessionGuard.Release(ctx, guardKey)

	update, err := w.analyze(ctx, &event)
	if err != nil {
		w.logger.Error("RefinementWorker", "Analysis failed", map[string]interface{}{
			"session_id": event.SessionId,
			"error":      err.Error(),
		})
		w.publishAnalysisFailed(ctx, &event, err)
		return
	}

	if err := w.publisherService.Publish(ctx, constant.TopicStabilityUpdated, update); err != nil {
		w.logger.Error("RefinementWorker", "Failed to publish stability update", map[string]interface{}{
			"session_id": event.SessionId,
			"error":      err.Error(),
		})
	}
}

func (w *refinementWorker) analyze(ctx context.Context, event *dto.TopicRefinementRequested) (*dto.TopicStabilityUpdated, error) {
	dialogue := renderDialogue(event.Window)

	// Stage 1: fold the new window into the running summary.
	summary, err := w.agent.Run(ctx, constant.RoleSummarizerAgent, map[string]string{
		"existing_summary":     event.ConversationSummary,
		"new_dialogue_segment": dialogue,
	}, nil)
	if err != nil {
		return nil, err
	}

	// Stage 2: structured refinement over the same window.
	raw, err := w.agent.Run(ctx, constant.RoleRefinementAgent, map[string]string{
		"locked_keywords":       formatKeywords(event.LockedKeywords),
		"locked_scope_elements": formatScopeElements(event.LockedScopeElements),
		"conversation_summary":  summary,
		"recent_dialogue":       dialogue,
	}, nil)
	if err != nil {
		return nil, err
	}

	result, err := agent.ParseRefinementResult(raw)
	if err != nil {
		return nil, err
	}

	status := DetermineFeasibilityStatus(result.NewStabilityScore, result.IsNiche)

	refinedKeywords := make([]dto.KeywordPayload, len(result.RefinedKeywords))
	for i, k := range result.RefinedKeywords {
		refinedKeywords[i] = dto.KeywordPayload{
			Label:            k.Label,
			ImportanceWeight: k.ImportanceWeight,
			IsCore:           k.IsCore,
			SemanticCategory: k.SemanticCategory,
		}
	}

	refinedElements := make([]dto.ScopeElementPayload, len(result.RefinedScopeElements))
	for i, s := range result.RefinedScopeElements {
		refinedElements[i] = dto.ScopeElementPayload{
			Label:        s.Label,
			BoundaryType: s.BoundaryType,
			Rationale:    s.Rationale,
		}
	}

	return &dto.TopicStabilityUpdated{
		SessionId:              event.SessionId,
		UserId:                 event.UserId,
		StabilityScore:         result.NewStabilityScore,
		IsNiche:                result.IsNiche,
		FeasibilityStatus:      string(status),
		ResearchQuestionDraft:  result.ResearchQuestionDraft,
		ConversationSummary:    summary,
		RefinedKeywords:        refinedKeywords,
		RefinedScopeElements:   refinedElements,
		AnalyzedSequenceNumber: event.LatestSequenceNumber,
	}, nil
}

func (w *refinementWorker) publishAnalysisFailed(ctx context.Context, event *dto.TopicRefinementRequested, cause error) {
	if w.eventPublisher == nil {
		return
	}
	evt := events.NewBaseEvent(constant.EventAnalysisFailed, map[string]interface{}{
		"user_id":    event.UserId.String(),
		"session_id": event.SessionId.String(),
		"reason":     cause.Error(),
	})
	if err := w.eventPublisher.Publish(ctx, evt); err != nil {
		w.logger.Warn("RefinementWorker", "Failed to publish analysis failed event", map[string]interface{}{"error": err.Error()})
	}
}
