package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"

	"auraflux-be/internal/constant"
	"auraflux-be/internal/dto"
	"auraflux-be/internal/entity"
	"auraflux-be/internal/pkg/logger"
	"auraflux-be/internal/repository/specification"
	"auraflux-be/internal/repository/unitofwork"
	"auraflux-be/internal/websocket"
	"auraflux-be/pkg/events"
	pktNats "auraflux-be/pkg/nats"
)

// IStabilityWorker is the single authoritative persistence stage for
// analysis results. All merged state lands here, inside one locked
// transaction per update.
type IStabilityWorker interface {
	Consume(ctx context.Context) error
}

type stabilityWorker struct {
	pubSub         *gochannel.GoChannel
	uowFactory     unitofwork.RepositoryFactory
	hub            *websocket.Hub
	eventPublisher *pktNats.Publisher
	logger         logger.ILogger
}

func NewStabilityWorker(
	pubSub *gochannel.GoChannel,
	uowFactory unitofwork.RepositoryFactory,
	hub *websocket.Hub,
	eventPublisher *pktNats.Publisher,
	log logger.ILogger,
) IStabilityWorker {
	return &stabilityWorker{
		pubSub:         pubSub,
		uowFactory:     uowFactory,
		hub:            hub,
		eventPublisher: eventPublisher,
		logger:         log,
	}
}

func (w *stabilityWorker) Consume(ctx context.Context) error {
	messages, err := w.pubSub.Subscribe(ctx, constant.TopicStabilityUpdated)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			w.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (w *stabilityWorker) processMessage(ctx context.Context, msg *message.Message) {
	var event dto.TopicStabilityUpdated
	if err := json.Unmarshal(msg.Payload, &event); err != nil {
		w.logger.Error("StabilityWorker", "Failed to unmarshal event", map[string]interface{}{"error": err.Error()})
		msg.Ack()
		return
	}
	if err := event.Validate(); err != nil {
		w.logger.Error("StabilityWorker", "Dropping invalid event", map[string]interface{}{"error": err.Error()})
		msg.Ack()
		return
	}

	snapshot, err := w.persist(ctx, &event)
	if err != nil {
		w.logger.Error("StabilityWorker", "Failed to persist analysis result", map[string]interface{}{
			"session_id": event.SessionId,
			"error":      err.Error(),
		})
		msg.Nack()
		return
	}
	if snapshot == nil {
		// Workflow disappeared; nothing to retry.
		msg.Ack()
		return
	}

	w.hub.Push(event.UserId, constant.PushEventTopicSnapshot, constant.PushStatusSuccess, snapshot)

	if w.eventPublisher != nil && snapshot.IsTransitionReady {
		evt := events.NewBaseEvent(constant.EventTopicStabilized, map[string]interface{}{
			"user_id":         event.UserId.String(),
			"session_id":      event.SessionId.String(),
			"stability_score": event.StabilityScore,
		})
		if err := w.eventPublisher.Publish(ctx, evt); err != nil {
			w.logger.Warn("StabilityWorker", "Failed to publish topic stabilized event", map[string]interface{}{"error": err.Error()})
		}
	}

	msg.Ack()
}

func (w *stabilityWorker) persist(ctx context.Context, event *dto.TopicStabilityUpdated) (*dto.RefinedTopicResponse, error) {
	uow := w.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	workflow, err := uow.ResearchWorkflowRepository().FindOneForUpdate(ctx, event.SessionId)
	if err != nil {
		return nil, err
	}
	if workflow == nil {
		w.logger.Warn("StabilityWorker", "Workflow gone, dropping result", map[string]interface{}{"session_id": event.SessionId})
		return nil, nil
	}

	data, err := uow.InitiationDataRepository().GetOrCreateForUpdate(ctx, event.SessionId)
	if err != nil {
		return nil, err
	}

	data.StabilityScore = event.StabilityScore
	data.FeasibilityStatus = constant.FeasibilityStatus(event.FeasibilityStatus)
	data.ConversationSummary = event.ConversationSummary
	if event.ResearchQuestionDraft != "" {
		data.FinalResearchQuestion = event.ResearchQuestionDraft
	}
	// The checkpoint only moves forward, even if results land out of order.
	if event.AnalyzedSequenceNumber > data.LastAnalysisSequenceNumber {
		data.LastAnalysisSequenceNumber = event.AnalyzedSequenceNumber
	}
	data.IsTransitionReady = IsTransitionReady(data.StabilityScore, data.AnalysisActivationThreshold)

	if err := uow.InitiationDataRepository().Update(ctx, data); err != nil {
		return nil, err
	}

	if err := w.mergeKeywords(ctx, uow, event); err != nil {
		return nil, err
	}
	if err := w.mergeScopeElements(ctx, uow, event); err != nil {
		return nil, err
	}

	keywords, err := uow.TopicKeywordRepository().FindAll(ctx,
		specification.ByOwner{Kind: constant.OwnerWorkflow, ID: event.SessionId},
	)
	if err != nil {
		return nil, err
	}
	elements, err := uow.TopicScopeElementRepository().FindAll(ctx,
		specification.ByOwner{Kind: constant.OwnerWorkflow, ID: event.SessionId},
	)
	if err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, err
	}

	return buildRefinedTopicResponse(data, keywords, elements), nil
}

// mergeKeywords upserts agent extractions, never touching entries the user
// has locked or archived.
func (w *stabilityWorker) mergeKeywords(ctx context.Context, uow unitofwork.UnitOfWork, event *dto.TopicStabilityUpdated) error {
	existing, err := uow.TopicKeywordRepository().FindAll(ctx,
		specification.ByOwner{Kind: constant.OwnerWorkflow, ID: event.SessionId},
	)
	if err != nil {
		return err
	}
	protected := make(map[string]bool, len(existing))
	for _, k := range existing {
		if k.Status == constant.StatusLocked || k.Status == constant.StatusArchived {
			protected[k.Label] = true
		}
	}

	for _, k := range event.RefinedKeywords {
		if k.Label == "" || protected[k.Label] {
			continue
		}
		keyword := &entity.TopicKeyword{
			OwnerKind:        constant.OwnerWorkflow,
			OwnerId:          event.SessionId,
			Label:            k.Label,
			ImportanceWeight: k.ImportanceWeight,
			IsCore:           k.IsCore,
			SemanticCategory: k.SemanticCategory,
			Status:           constant.StatusAIExtracted,
			CreatedAt:        time.Now(),
		}
		if err := uow.TopicKeywordRepository().Upsert(ctx, keyword); err != nil {
			return err
		}
	}
	return nil
}

func (w *stabilityWorker) mergeScopeElements(ctx context.Context, uow unitofwork.UnitOfWork, event *dto.TopicStabilityUpdated) error {
	existing, err := uow.TopicScopeElementRepository().FindAll(ctx,
		specification.ByOwner{Kind: constant.OwnerWorkflow, ID: event.SessionId},
	)
	if err != nil {
		return err
	}
	type scopeKey struct{ label, rationale string }
	protected := make(map[scopeKey]bool, len(existing))
	for _, s := range existing {
		if s.Status == constant.StatusLocked || s.Status == constant.StatusArchived {
			protected[scopeKey{s.Label, s.Rationale}] = true
		}
	}

	for _, s := range event.RefinedScopeElements {
		if s.Label == "" || protected[scopeKey{s.Label, s.Rationale}] {
			continue
		}
		element := &entity.TopicScopeElement{
			OwnerKind:    constant.OwnerWorkflow,
			OwnerId:      event.SessionId,
			Label:        s.Label,
			BoundaryType: constant.BoundaryType(s.BoundaryType),
			Rationale:    s.Rationale,
			Status:       constant.StatusAIExtracted,
			CreatedAt:    time.Now(),
		}
		if err := uow.TopicScopeElementRepository().Upsert(ctx, element); err != nil {
			return err
		}
	}
	return nil
}
