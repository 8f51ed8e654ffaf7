package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"auraflux-be/internal/config"
	"auraflux-be/internal/constant"
	"auraflux-be/internal/dto"
	"auraflux-be/internal/entity"
	"auraflux-be/internal/pkg/logger"
	"auraflux-be/internal/pkg/serverutils"
	"auraflux-be/internal/repository/specification"
	"auraflux-be/internal/repository/unitofwork"
	"auraflux-be/pkg/events"
	pktNats "auraflux-be/pkg/nats"
)

type IWorkflowService interface {
	Create(ctx context.Context, userId uuid.UUID, req *dto.CreateWorkflowRequest) (*dto.WorkflowResponse, error)
	Show(ctx context.Context, userId, sessionId uuid.UUID) (*dto.WorkflowResponse, error)
	GetChatHistory(ctx context.Context, userId, sessionId uuid.UUID) ([]*dto.ChatEntryResponse, error)
	GetRefinedTopic(ctx context.Context, userId, sessionId uuid.UUID) (*dto.RefinedTopicResponse, error)
	SubmitChatInput(ctx context.Context, userId, sessionId uuid.UUID, req *dto.ChatInputRequest) (*dto.ChatInputResponse, error)
	AdvanceStage(ctx context.Context, userId, sessionId uuid.UUID) (*dto.WorkflowResponse, error)
}

type workflowService struct {
	uowFactory       unitofwork.RepositoryFactory
	publisherService IPublisherService
	eventPublisher   *pktNats.Publisher
	workflowCfg      config.WorkflowConfig
	logger           logger.ILogger
}

func NewWorkflowService(
	uowFactory unitofwork.RepositoryFactory,
	publisherService IPublisherService,
	eventPublisher *pktNats.Publisher,
	workflowCfg config.WorkflowConfig,
	log logger.ILogger,
) IWorkflowService {
	return &workflowService{
		uowFactory:       uowFactory,
		publisherService: publisherService,
		eventPublisher:   eventPublisher,
		workflowCfg:      workflowCfg,
		logger:           log,
	}
}

func (s *workflowService) Create(ctx context.Context, userId uuid.UUID, req *dto.CreateWorkflowRequest) (*dto.WorkflowResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	sessionId := req.SessionId
	if sessionId == uuid.Nil {
		sessionId = uuid.New()
	}

	// Re-submitting an existing session id is a no-op, not a conflict.
	existing, err := uow.ResearchWorkflowRepository().FindOne(ctx, specification.BySessionID{SessionID: sessionId})
	if err != nil {
		return nil, serverutils.NewInternalError("Failed to check session", err)
	}
	if existing != nil {
		if existing.UserId != userId {
			return nil, serverutils.NewConflictError("Session already exists")
		}
		return workflowToResponse(existing), nil
	}

	workflow := &entity.ResearchWorkflow{
		SessionId:    sessionId,
		UserId:       userId,
		CurrentStage: constant.StageDefinition,
		IsActive:     true,
		CreatedAt:    time.Now(),
	}
	if err := uow.ResearchWorkflowRepository().Create(ctx, workflow); err != nil {
		return nil, serverutils.NewInternalError("Failed to create workflow", err)
	}

	if s.eventPublisher != nil {
		evt := events.NewBaseEvent(constant.EventWorkflowCreated, map[string]interface{}{
			"user_id":    userId.String(),
			"session_id": workflow.SessionId.String(),
			"stage":      string(workflow.CurrentStage),
		})
		if err := s.eventPublisher.Publish(ctx, evt); err != nil {
			s.logger.Warn("WorkflowService", "Failed to publish workflow created event", map[string]interface{}{"error": err.Error()})
		}
	}

	return workflowToResponse(workflow), nil
}

func (s *workflowService) Show(ctx context.Context, userId, sessionId uuid.UUID) (*dto.WorkflowResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	workflow, err := s.ownedWorkflow(ctx, uow, userId, sessionId)
	if err != nil {
		return nil, err
	}
	return workflowToResponse(workflow), nil
}

func (s *workflowService) GetChatHistory(ctx context.Context, userId, sessionId uuid.UUID) ([]*dto.ChatEntryResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	if _, err := s.ownedWorkflow(ctx, uow, userId, sessionId); err != nil {
		return nil, err
	}

	entries, err := uow.ChatHistoryRepository().FindAll(ctx,
		specification.BySessionID{SessionID: sessionId},
		specification.OrderBy{Field: "sequence_number"},
	)
	if err != nil {
		return nil, serverutils.NewInternalError("Failed to load chat history", err)
	}

	responses := make([]*dto.ChatEntryResponse, len(entries))
	for i, e := range entries {
		responses[i] = &dto.ChatEntryResponse{
			Id:             e.Id,
			Role:           e.Role,
			Content:        e.Content,
			SenderName:     e.SenderName,
			SequenceNumber: e.SequenceNumber,
			CreatedAt:      e.CreatedAt,
		}
	}
	return responses, nil
}

func (s *workflowService) GetRefinedTopic(ctx context.Context, userId, sessionId uuid.UUID) (*dto.RefinedTopicResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	if _, err := s.ownedWorkflow(ctx, uow, userId, sessionId); err != nil {
		return nil, err
	}

	data, err := uow.InitiationDataRepository().FindBySession(ctx, sessionId)
	if err != nil {
		return nil, serverutils.NewInternalError("Failed to load initiation data", err)
	}
	if data == nil {
		// No chat turn yet: the snapshot is all defaults.
		data = &entity.InitiationPhaseData{SessionId: sessionId}
	}

	keywords, err := uow.TopicKeywordRepository().FindAll(ctx,
		specification.ByOwner{Kind: constant.OwnerWorkflow, ID: sessionId},
	)
	if err != nil {
		return nil, serverutils.NewInternalError("Failed to load keywords", err)
	}

	elements, err := uow.TopicScopeElementRepository().FindAll(ctx,
		specification.ByOwner{Kind: constant.OwnerWorkflow, ID: sessionId},
	)
	if err != nil {
		return nil, serverutils.NewInternalError("Failed to load scope elements", err)
	}

	return buildRefinedTopicResponse(data, keywords, elements), nil
}

// SubmitChatInput is the single locked intake for a chat turn. The user
// message is persisted under the session row lock, the dialogue event is
// published after commit, and the caller gets an immediate accepted reply.
func (s *workflowService) SubmitChatInput(ctx context.Context, userId, sessionId uuid.UUID, req *dto.ChatInputRequest) (*dto.ChatInputResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	if err := uow.Begin(ctx); err != nil {
		return nil, serverutils.NewInternalError("Failed to begin transaction", err)
	}
	defer uow.Rollback()

	workflow, err := uow.ResearchWorkflowRepository().FindOneForUpdate(ctx, sessionId)
	if err != nil {
		return nil, serverutils.NewInternalError("Failed to lock workflow", err)
	}
	if workflow == nil {
		return nil, serverutils.NewNotFoundError("Workflow not found")
	}
	if workflow.UserId != userId {
		return nil, serverutils.NewForbiddenError("Workflow belongs to another user")
	}
	if !workflow.IsActive {
		return nil, serverutils.NewConflictError("Workflow is no longer active")
	}
	if workflow.CurrentStage != constant.StageDefinition {
		return nil, serverutils.NewConflictError("Chat input is only accepted in the DEFINITION stage")
	}

	data, err := uow.InitiationDataRepository().GetOrCreateForUpdate(ctx, sessionId)
	if err != nil {
		return nil, serverutils.NewInternalError("Failed to load initiation data", err)
	}

	userEntry := &entity.ChatHistoryEntry{
		SessionId: sessionId,
		Role:      constant.RoleUser,
		Content:   req.UserMessage,
	}
	if err := uow.ChatHistoryRepository().Append(ctx, userEntry); err != nil {
		return nil, serverutils.NewInternalError("Failed to persist user message", err)
	}

	event, err := s.buildDialogueEvent(ctx, uow, workflow, data, req)
	if err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, serverutils.NewInternalError("Failed to commit chat turn", err)
	}

	// Publish only after the lock is released, so workers never race the
	// open transaction.
	if err := s.publisherService.Publish(ctx, constant.TopicStreamingDialogueRequested, event); err != nil {
		s.logger.Error("WorkflowService", "Failed to publish dialogue event", map[string]interface{}{
			"session_id": sessionId,
			"error":      err.Error(),
		})
		return nil, serverutils.NewInternalError("Failed to dispatch chat turn", err)
	}

	return &dto.ChatInputResponse{
		Status:  "accepted",
		Message: "Chat input accepted for processing",
	}, nil
}

func (s *workflowService) buildDialogueEvent(
	ctx context.Context,
	uow unitofwork.UnitOfWork,
	workflow *entity.ResearchWorkflow,
	data *entity.InitiationPhaseData,
	req *dto.ChatInputRequest,
) (*dto.StreamingDialogueRequested, error) {
	sessionId := workflow.SessionId

	lockedKeywords, err := uow.TopicKeywordRepository().FindAll(ctx,
		specification.ByOwner{Kind: constant.OwnerWorkflow, ID: sessionId},
		specification.ByStatus{Status: string(constant.StatusLocked)},
	)
	if err != nil {
		return nil, serverutils.NewInternalError("Failed to load locked keywords", err)
	}

	lockedElements, err := uow.TopicScopeElementRepository().FindAll(ctx,
		specification.ByOwner{Kind: constant.OwnerWorkflow, ID: sessionId},
		specification.ByStatus{Status: string(constant.StatusLocked)},
	)
	if err != nil {
		return nil, serverutils.NewInternalError("Failed to load locked scope elements", err)
	}

	maxSeq, err := uow.ChatHistoryRepository().MaxSequence(ctx, sessionId)
	if err != nil {
		return nil, serverutils.NewInternalError("Failed to read chat sequence", err)
	}

	windowStart := maxSeq - int64(s.workflowCfg.DialogueWindowSize)
	if windowStart < 0 {
		windowStart = 0
	}
	window, err := uow.ChatHistoryRepository().FindAll(ctx,
		specification.BySessionID{SessionID: sessionId},
		specification.SequenceAfter{After: windowStart},
		specification.OrderBy{Field: "sequence_number"},
	)
	if err != nil {
		return nil, serverutils.NewInternalError("Failed to load dialogue window", err)
	}

	latestReflection := ""
	reflection, err := uow.ReflectionLogRepository().LatestCommitted(ctx, constant.OwnerWorkflow, sessionId)
	if err != nil {
		return nil, serverutils.NewInternalError("Failed to load reflection log", err)
	}
	if reflection != nil {
		latestReflection = reflection.Content
	}

	roleName := req.AgentRoleName
	if roleName == "" {
		roleName = constant.RoleExplorerAgent
	}
	if _, err := constant.ResolveAgentRole(roleName); err != nil {
		return nil, serverutils.NewBadRequestError("Unknown agent role")
	}

	return &dto.StreamingDialogueRequested{
		SessionId:                  sessionId,
		UserId:                     workflow.UserId,
		UserMessage:                req.UserMessage,
		AgentRoleName:              roleName,
		FinalQuestionDraft:         data.FinalResearchQuestion,
		LockedKeywords:             keywordsToPayloads(lockedKeywords),
		LockedScopeElements:        scopeElementsToPayloads(lockedElements),
		ConversationSummary:        data.ConversationSummary,
		LastAnalysisSequenceNumber: data.LastAnalysisSequenceNumber,
		ChatHistory:                chatEntriesToPayloads(window),
		LatestReflection:           latestReflection,
	}, nil
}

// AdvanceStage moves the workflow one ISP stage forward. Only valid while
// the analysis state is transition-ready.
func (s *workflowService) AdvanceStage(ctx context.Context, userId, sessionId uuid.UUID) (*dto.WorkflowResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	if err := uow.Begin(ctx); err != nil {
		return nil, serverutils.NewInternalError("Failed to begin transaction", err)
	}
	defer uow.Rollback()

	workflow, err := uow.ResearchWorkflowRepository().FindOneForUpdate(ctx, sessionId)
	if err != nil {
		return nil, serverutils.NewInternalError("Failed to lock workflow", err)
	}
	if workflow == nil {
		return nil, serverutils.NewNotFoundError("Workflow not found")
	}
	if workflow.UserId != userId {
		return nil, serverutils.NewForbiddenError("Workflow belongs to another user")
	}
	if !workflow.IsActive {
		return nil, serverutils.NewConflictError("Workflow is no longer active")
	}

	next, ok := nextStage(workflow.CurrentStage)
	if !ok {
		return nil, serverutils.NewConflictError("Workflow is already at the final stage")
	}

	if workflow.CurrentStage == constant.StageDefinition {
		data, err := uow.InitiationDataRepository().GetOrCreateForUpdate(ctx, sessionId)
		if err != nil {
			return nil, serverutils.NewInternalError("Failed to load initiation data", err)
		}
		if !data.IsTransitionReady {
			return nil, serverutils.NewConflictError("Topic is not stable enough to advance yet")
		}
	}

	workflow.CurrentStage = next
	if err := uow.ResearchWorkflowRepository().Update(ctx, workflow); err != nil {
		return nil, serverutils.NewInternalError("Failed to advance stage", err)
	}

	if err := uow.Commit(); err != nil {
		return nil, serverutils.NewInternalError("Failed to commit stage advance", err)
	}

	if s.eventPublisher != nil {
		evt := events.NewBaseEvent(constant.EventStageAdvanced, map[string]interface{}{
			"user_id":    userId.String(),
			"session_id": sessionId.String(),
			"stage":      string(next),
		})
		if err := s.eventPublisher.Publish(ctx, evt); err != nil {
			s.logger.Warn("WorkflowService", "Failed to publish stage advanced event", map[string]interface{}{"error": err.Error()})
		}
	}

	return workflowToResponse(workflow), nil
}

func (s *workflowService) ownedWorkflow(ctx context.Context, uow unitofwork.UnitOfWork, userId, sessionId uuid.UUID) (*entity.ResearchWorkflow, error) {
	workflow, err := uow.ResearchWorkflowRepository().FindOne(ctx, specification.BySessionID{SessionID: sessionId})
	if err != nil {
		return nil, serverutils.NewInternalError("Failed to load workflow", err)
	}
	if workflow == nil {
		return nil, serverutils.NewNotFoundError("Workflow not found")
	}
	if workflow.UserId != userId {
		return nil, serverutils.NewForbiddenError("Workflow belongs to another user")
	}
	return workflow, nil
}

func workflowToResponse(w *entity.ResearchWorkflow) *dto.WorkflowResponse {
	return &dto.WorkflowResponse{
		SessionId:    w.SessionId,
		CurrentStage: string(w.CurrentStage),
		IsActive:     w.IsActive,
		CreatedAt:    w.CreatedAt,
		UpdatedAt:    w.UpdatedAt,
	}
}

func nextStage(current constant.ISPStage) (constant.ISPStage, bool) {
	switch current {
	case constant.StageDefinition:
		return constant.StageExploration, true
	case constant.StageExploration:
		return constant.StageFormulation, true
	case constant.StageFormulation:
		return constant.StageCollection, true
	case constant.StageCollection:
		return constant.StagePresentation, true
	default:
		return current, false
	}
}

func buildRefinedTopicResponse(data *entity.InitiationPhaseData, keywords []*entity.TopicKeyword, elements []*entity.TopicScopeElement) *dto.RefinedTopicResponse {
	keywordResponses := make([]dto.TopicKeywordResponse, len(keywords))
	for i, k := range keywords {
		keywordResponses[i] = dto.TopicKeywordResponse{
			Id:               k.Id,
			Label:            k.Label,
			ImportanceWeight: k.ImportanceWeight,
			IsCore:           k.IsCore,
			SemanticCategory: k.SemanticCategory,
			Status:           string(k.Status),
			UpdatedAt:        k.UpdatedAt,
		}
	}

	elementResponses := make([]dto.ScopeElementResponse, len(elements))
	for i, s := range elements {
		elementResponses[i] = dto.ScopeElementResponse{
			Id:           s.Id,
			Label:        s.Label,
			BoundaryType: string(s.BoundaryType),
			Rationale:    s.Rationale,
			Status:       string(s.Status),
			UpdatedAt:    s.UpdatedAt,
		}
	}

	return &dto.RefinedTopicResponse{
		StabilityScore:        data.StabilityScore,
		FeasibilityStatus:     string(data.FeasibilityStatus),
		FinalResearchQuestion: data.FinalResearchQuestion,
		IsTransitionReady:     data.IsTransitionReady,
		ResourceSuggestion:    GetResourceSuggestion(data.FeasibilityStatus),
		Keywords:              keywordResponses,
		ScopeElements:         elementResponses,
	}
}
