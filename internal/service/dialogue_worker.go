package service

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"

	"auraflux-be/internal/config"
	"auraflux-be/internal/constant"
	"auraflux-be/internal/dto"
	"auraflux-be/internal/entity"
	"auraflux-be/internal/pkg/logger"
	"auraflux-be/internal/repository/specification"
	"auraflux-be/internal/repository/unitofwork"
	"auraflux-be/internal/websocket"
	"auraflux-be/pkg/agent"
)

// IDialogueWorker consumes dialogue events, streams the explorer agent's
// reply to the user and hands the turn to the refinement stage.
type IDialogueWorker interface {
	Consume(ctx context.Context) error
}

// The reply is already streamed to the user when persistence fails, so the
// write is retried in place rather than replaying the whole turn.
const (
	persistAttempts   = 3
	persistRetryDelay = 200 * time.Millisecond
)

type dialogueWorker struct {
	pubSub           *gochannel.GoChannel
	uowFactory       unitofwork.RepositoryFactory
	agent            *agent.Agent
	hub              *websocket.Hub
	publisherService IPublisherService
	workflowCfg      config.WorkflowConfig
	logger           logger.ILogger
}

func NewDialogueWorker(
	pubSub *gochannel.GoChannel,
	uowFactory unitofwork.RepositoryFactory,
	ag *agent.Agent,
	hub *websocket.Hub,
	publisherService IPublisherService,
	workflowCfg config.WorkflowConfig,
	log logger.ILogger,
) IDialogueWorker {
	return &dialogueWorker{
		pubSub:           pubSub,
		uowFactory:       uowFactory,
		agent:            ag,
		hub:              hub,
		publisherService: publisherService,
		workflowCfg:      workflowCfg,
		logger:           log,
	}
}

func (w *dialogueWorker) Consume(ctx context.Context) error {
	messages, err := w.pubSub.Subscribe(ctx, constant.TopicStreamingDialogueRequested)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			// The bus withholds the next delivery until this message acks,
			// and a reply stream can stay open for seconds. Ack at handoff
			// so one session's turn never stalls another's; each turn owns
			// its own outcome from here.
			msg.Ack()
			go w.processMessage(ctx, msg.Payload)
		}
	}()

	return nil
}

func (w *dialogueWorker) processMessage(ctx context.Context, payload []byte) {
	var event dto.StreamingDialogueRequested
	if err := json.Unmarshal(payload, &event); err != nil {
		w.logger.Error("DialogueWorker", "Dropping malformed event", map[string]interface{}{"error": err.Error()})
		return
	}
	if err := event.Validate(); err != nil {
		w.logger.Error("DialogueWorker", "Dropping invalid event", map[string]interface{}{"error": err.Error()})
		return
	}

	fullReply, err := w.streamReply(ctx, &event)
	if err != nil {
		// The error frame reaches the user; replaying the turn would
		// double-stream.
		w.pushStreamError(&event, err)
		return
	}

	aiEntry, err := w.persistReply(ctx, &event, fullReply)
	for attempt := 1; err != nil && attempt < persistAttempts; attempt++ {
		time.Sleep(persistRetryDelay)
		aiEntry, err = w.persistReply(ctx, &event, fullReply)
	}
	if err != nil {
		w.logger.Error("DialogueWorker", "Failed to persist agent reply", map[string]interface{}{
			"session_id": event.SessionId,
			"error":      err.Error(),
		})
		w.pushStreamError(&event, err)
		return
	}

	w.hub.Push(event.UserId, constant.PushEventDialogueStream, constant.PushStatusComplete, map[string]interface{}{
		"session_id":      event.SessionId.String(),
		"content":         fullReply,
		"sequence_number": aiEntry.SequenceNumber,
	})

	if err := w.maybeRequestRefinement(ctx, &event, aiEntry.SequenceNumber); err != nil {
		w.logger.Error("DialogueWorker", "Failed to dispatch refinement", map[string]interface{}{
			"session_id": event.SessionId,
			"error":      err.Error(),
		})
		// The dialogue turn itself succeeded; the next turn re-evaluates
		// the analysis trigger.
	}
}

func (w *dialogueWorker) streamReply(ctx context.Context, event *dto.StreamingDialogueRequested) (string, error) {
	summary := event.ConversationSummary
	if event.LatestReflection != "" {
		summary = summary + "\nStudent's latest reflection: " + event.LatestReflection
	}

	vars := map[string]string{
		"locked_keywords":       formatKeywords(event.LockedKeywords),
		"locked_scope_elements": formatScopeElements(event.LockedScopeElements),
		"final_question_draft":  event.FinalQuestionDraft,
		"conversation_summary":  summary,
	}

	stream, err := w.agent.RunStream(ctx, event.AgentRoleName, vars, payloadsToLLMHistory(event.ChatHistory))
	if err != nil {
		return "", err
	}
	defer stream.Close()

	var full strings.Builder
	for stream.Next() {
		fragment := stream.Current()
		full.WriteString(fragment)
		w.hub.Push(event.UserId, constant.PushEventDialogueStream, constant.PushStatusRunning, map[string]interface{}{
			"session_id": event.SessionId.String(),
			"content":    fragment,
		})
	}
	if err := stream.Err(); err != nil {
		return "", err
	}
	return full.String(), nil
}

func (w *dialogueWorker) pushStreamError(event *dto.StreamingDialogueRequested, err error) {
	w.logger.Error("DialogueWorker", "Agent stream failed", map[string]interface{}{
		"session_id": event.SessionId,
		"error":      err.Error(),
	})
	w.hub.Push(event.UserId, constant.PushEventDialogueStream, constant.PushStatusError, map[string]interface{}{
		"session_id": event.SessionId.String(),
		"message":    "The assistant could not respond. Please try again.",
	})
}

func (w *dialogueWorker) persistReply(ctx context.Context, event *dto.StreamingDialogueRequested, content string) (*entity.ChatHistoryEntry, error) {
	uow := w.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	// Sequence assignment is serialized with intake by the workflow row lock.
	if _, err := uow.ResearchWorkflowRepository().FindOneForUpdate(ctx, event.SessionId); err != nil {
		return nil, err
	}

	entry := &entity.ChatHistoryEntry{
		SessionId:  event.SessionId,
		Role:       constant.RoleAIAgent,
		Content:    content,
		SenderName: event.AgentRoleName,
	}
	if err := uow.ChatHistoryRepository().Append(ctx, entry); err != nil {
		return nil, err
	}
	if err := uow.Commit(); err != nil {
		return nil, err
	}
	return entry, nil
}

// maybeRequestRefinement re-reads the analysis state (it may have moved
// since the intake snapshot) and publishes a refinement request when the
// trigger rule fires.
func (w *dialogueWorker) maybeRequestRefinement(ctx context.Context, event *dto.StreamingDialogueRequested, latestSeq int64) error {
	uow := w.uowFactory.NewUnitOfWork(ctx)

	data, err := uow.InitiationDataRepository().FindBySession(ctx, event.SessionId)
	if err != nil {
		return err
	}
	if data == nil {
		return nil
	}

	unanalyzed := int(latestSeq - data.LastAnalysisSequenceNumber)
	if !ShouldRunAnalysis(data.StabilityScore, data.AnalysisActivationThreshold, unanalyzed, w.workflowCfg.DialogueWindowSize) {
		return nil
	}

	window, err := w.loadWindow(ctx, uow, event.SessionId, data.LastAnalysisSequenceNumber)
	if err != nil {
		return err
	}
	if len(window) == 0 {
		return nil
	}

	refinement := &dto.TopicRefinementRequested{
		SessionId:                  event.SessionId,
		UserId:                     event.UserId,
		Window:                     window,
		LockedKeywords:             event.LockedKeywords,
		LockedScopeElements:        event.LockedScopeElements,
		ConversationSummary:        data.ConversationSummary,
		LastAnalysisSequenceNumber: data.LastAnalysisSequenceNumber,
		LatestSequenceNumber:       latestSeq,
	}
	return w.publisherService.Publish(ctx, constant.TopicRefinementRequested, refinement)
}

func (w *dialogueWorker) loadWindow(ctx context.Context, uow unitofwork.UnitOfWork, sessionId uuid.UUID, afterSeq int64) ([]dto.ChatEntryPayload, error) {
	entries, err := uow.ChatHistoryRepository().FindAll(ctx,
		specification.BySessionID{SessionID: sessionId},
		specification.SequenceAfter{After: afterSeq},
		specification.OrderBy{Field: "sequence_number"},
	)
	if err != nil {
		return nil, err
	}
	// Cap the window to bound the downstream prompt; the checkpoint only
	// moves past what was actually analyzed.
	if len(entries) > w.workflowCfg.DialogueWindowSize {
		entries = entries[len(entries)-w.workflowCfg.DialogueWindowSize:]
	}
	return chatEntriesToPayloads(entries), nil
}
