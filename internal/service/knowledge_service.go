package service

import (
	"context"
	"time"

	"github.com/google/uuid"

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

// IKnowledgeService manages the user-facing side of the topic knowledge
// base: keywords, scope elements and reflection logs. Agent-side merging
// happens in the stability worker, not here.
type IKnowledgeService interface {
	CreateKeyword(ctx context.Context, userId, sessionId uuid.UUID, req *dto.CreateTopicKeywordRequest) (*dto.TopicKeywordResponse, error)
	UpdateKeyword(ctx context.Context, userId, sessionId uuid.UUID, req *dto.UpdateTopicKeywordRequest) (*dto.TopicKeywordResponse, error)
	ListKeywords(ctx context.Context, userId, sessionId uuid.UUID) ([]dto.TopicKeywordResponse, error)

	CreateScopeElement(ctx context.Context, userId, sessionId uuid.UUID, req *dto.CreateScopeElementRequest) (*dto.ScopeElementResponse, error)
	UpdateScopeElement(ctx context.Context, userId, sessionId uuid.UUID, req *dto.UpdateScopeElementRequest) (*dto.ScopeElementResponse, error)
	ListScopeElements(ctx context.Context, userId, sessionId uuid.UUID) ([]dto.ScopeElementResponse, error)

	CreateReflectionLog(ctx context.Context, userId, sessionId uuid.UUID, req *dto.CreateReflectionLogRequest) (*dto.ReflectionLogResponse, error)
	UpdateReflectionLog(ctx context.Context, userId, sessionId uuid.UUID, req *dto.UpdateReflectionLogRequest) (*dto.ReflectionLogResponse, error)
	ListReflectionLogs(ctx context.Context, userId, sessionId uuid.UUID) ([]dto.ReflectionLogResponse, error)
}

type knowledgeService struct {
	uowFactory     unitofwork.RepositoryFactory
	eventPublisher *pktNats.Publisher
	logger         logger.ILogger
}

func NewKnowledgeService(uowFactory unitofwork.RepositoryFactory, eventPublisher *pktNats.Publisher, log logger.ILogger) IKnowledgeService {
	return &knowledgeService{
		uowFactory:     uowFactory,
		eventPublisher: eventPublisher,
		logger:         log,
	}
}

func (s *knowledgeService) guardWorkflow(ctx context.Context, uow unitofwork.UnitOfWork, userId, sessionId uuid.UUID) error {
	workflow, err := uow.ResearchWorkflowRepository().FindOne(ctx, specification.BySessionID{SessionID: sessionId})
	if err != nil {
		return serverutils.NewInternalError("Failed to load workflow", err)
	}
	if workflow == nil {
		return serverutils.NewNotFoundError("Workflow not found")
	}
	if workflow.UserId != userId {
		return serverutils.NewForbiddenError("Workflow belongs to another user")
	}
	return nil
}

func entityStatusOrDefault(raw string, fallback constant.EntityStatus) (constant.EntityStatus, error) {
	if raw == "" {
		return fallback, nil
	}
	status := constant.EntityStatus(raw)
	switch status {
	case constant.StatusUserDraft, constant.StatusAIExtracted, constant.StatusLocked,
		constant.StatusOnHold, constant.StatusArchived:
		return status, nil
	}
	return "", serverutils.NewBadRequestError("Unknown entity status")
}

// --- Keywords ---

func (s *knowledgeService) CreateKeyword(ctx context.Context, userId, sessionId uuid.UUID, req *dto.CreateTopicKeywordRequest) (*dto.TopicKeywordResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := s.guardWorkflow(ctx, uow, userId, sessionId); err != nil {
		return nil, err
	}

	status, err := entityStatusOrDefault(req.Status, constant.StatusUserDraft)
	if err != nil {
		return nil, err
	}

	keyword := &entity.TopicKeyword{
		OwnerKind: constant.OwnerWorkflow,
		OwnerId:   sessionId,
		Label:     req.Label,
		Status:    status,
		CreatedAt: time.Now(),
	}
	if err := uow.TopicKeywordRepository().Upsert(ctx, keyword); err != nil {
		return nil, serverutils.NewInternalError("Failed to save keyword", err)
	}

	resp := keywordToResponse(keyword)
	return &resp, nil
}

func (s *knowledgeService) UpdateKeyword(ctx context.Context, userId, sessionId uuid.UUID, req *dto.UpdateTopicKeywordRequest) (*dto.TopicKeywordResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := s.guardWorkflow(ctx, uow, userId, sessionId); err != nil {
		return nil, err
	}

	keyword, err := uow.TopicKeywordRepository().FindOne(ctx,
		specification.ByID{ID: req.Id},
		specification.ByOwner{Kind: constant.OwnerWorkflow, ID: sessionId},
	)
	if err != nil {
		return nil, serverutils.NewInternalError("Failed to load keyword", err)
	}
	if keyword == nil {
		return nil, serverutils.NewNotFoundError("Keyword not found")
	}

	keyword.Label = req.Label
	if req.Status != "" {
		status, err := entityStatusOrDefault(req.Status, keyword.Status)
		if err != nil {
			return nil, err
		}
		keyword.Status = status
	}
	if err := uow.TopicKeywordRepository().Update(ctx, keyword); err != nil {
		return nil, serverutils.NewInternalError("Failed to update keyword", err)
	}

	resp := keywordToResponse(keyword)
	return &resp, nil
}

func (s *knowledgeService) ListKeywords(ctx context.Context, userId, sessionId uuid.UUID) ([]dto.TopicKeywordResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := s.guardWorkflow(ctx, uow, userId, sessionId); err != nil {
		return nil, err
	}

	keywords, err := uow.TopicKeywordRepository().FindAll(ctx,
		specification.ByOwner{Kind: constant.OwnerWorkflow, ID: sessionId},
		specification.OrderBy{Field: "created_at"},
	)
	if err != nil {
		return nil, serverutils.NewInternalError("Failed to list keywords", err)
	}

	responses := make([]dto.TopicKeywordResponse, len(keywords))
	for i, k := range keywords {
		responses[i] = keywordToResponse(k)
	}
	return responses, nil
}

// --- Scope elements ---

func (s *knowledgeService) CreateScopeElement(ctx context.Context, userId, sessionId uuid.UUID, req *dto.CreateScopeElementRequest) (*dto.ScopeElementResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := s.guardWorkflow(ctx, uow, userId, sessionId); err != nil {
		return nil, err
	}

	status, err := entityStatusOrDefault(req.Status, constant.StatusUserDraft)
	if err != nil {
		return nil, err
	}

	boundary := constant.BoundaryInclusion
	if req.BoundaryType == string(constant.BoundaryExclusion) {
		boundary = constant.BoundaryExclusion
	}

	element := &entity.TopicScopeElement{
		OwnerKind:    constant.OwnerWorkflow,
		OwnerId:      sessionId,
		Label:        req.Label,
		BoundaryType: boundary,
		Rationale:    req.Rationale,
		Status:       status,
		CreatedAt:    time.Now(),
	}
	if err := uow.TopicScopeElementRepository().Upsert(ctx, element); err != nil {
		return nil, serverutils.NewInternalError("Failed to save scope element", err)
	}

	resp := scopeElementToResponse(element)
	return &resp, nil
}

func (s *knowledgeService) UpdateScopeElement(ctx context.Context, userId, sessionId uuid.UUID, req *dto.UpdateScopeElementRequest) (*dto.ScopeElementResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := s.guardWorkflow(ctx, uow, userId, sessionId); err != nil {
		return nil, err
	}

	element, err := uow.TopicScopeElementRepository().FindOne(ctx,
		specification.ByID{ID: req.Id},
		specification.ByOwner{Kind: constant.OwnerWorkflow, ID: sessionId},
	)
	if err != nil {
		return nil, serverutils.NewInternalError("Failed to load scope element", err)
	}
	if element == nil {
		return nil, serverutils.NewNotFoundError("Scope element not found")
	}

	element.Label = req.Label
	element.Rationale = req.Rationale
	if req.BoundaryType != "" {
		boundary := constant.BoundaryInclusion
		if req.BoundaryType == string(constant.BoundaryExclusion) {
			boundary = constant.BoundaryExclusion
		}
		element.BoundaryType = boundary
	}
	if req.Status != "" {
		status, err := entityStatusOrDefault(req.Status, element.Status)
		if err != nil {
			return nil, err
		}
		element.Status = status
	}
	if err := uow.TopicScopeElementRepository().Update(ctx, element); err != nil {
		return nil, serverutils.NewInternalError("Failed to update scope element", err)
	}

	resp := scopeElementToResponse(element)
	return &resp, nil
}

func (s *knowledgeService) ListScopeElements(ctx context.Context, userId, sessionId uuid.UUID) ([]dto.ScopeElementResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := s.guardWorkflow(ctx, uow, userId, sessionId); err != nil {
		return nil, err
	}

	elements, err := uow.TopicScopeElementRepository().FindAll(ctx,
		specification.ByOwner{Kind: constant.OwnerWorkflow, ID: sessionId},
		specification.OrderBy{Field: "created_at"},
	)
	if err != nil {
		return nil, serverutils.NewInternalError("Failed to list scope elements", err)
	}

	responses := make([]dto.ScopeElementResponse, len(elements))
	for i, e := range elements {
		responses[i] = scopeElementToResponse(e)
	}
	return responses, nil
}

// --- Reflection logs ---

func (s *knowledgeService) CreateReflectionLog(ctx context.Context, userId, sessionId uuid.UUID, req *dto.CreateReflectionLogRequest) (*dto.ReflectionLogResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := s.guardWorkflow(ctx, uow, userId, sessionId); err != nil {
		return nil, err
	}

	status := constant.ReflectionDraft
	if req.Status == constant.ReflectionCommitted {
		status = constant.ReflectionCommitted
	}

	log := &entity.ReflectionLog{
		Id:        uuid.New(),
		OwnerKind: constant.OwnerWorkflow,
		OwnerId:   sessionId,
		Title:     req.Title,
		Content:   req.Content,
		Status:    status,
		CreatedAt: time.Now(),
	}
	if err := uow.ReflectionLogRepository().Create(ctx, log); err != nil {
		return nil, serverutils.NewInternalError("Failed to save reflection log", err)
	}

	s.publishReflectionSaved(ctx, userId, sessionId, log)

	resp := reflectionLogToResponse(log)
	return &resp, nil
}

func (s *knowledgeService) UpdateReflectionLog(ctx context.Context, userId, sessionId uuid.UUID, req *dto.UpdateReflectionLogRequest) (*dto.ReflectionLogResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := s.guardWorkflow(ctx, uow, userId, sessionId); err != nil {
		return nil, err
	}

	log, err := uow.ReflectionLogRepository().FindOne(ctx,
		specification.ByID{ID: req.Id},
		specification.ByOwner{Kind: constant.OwnerWorkflow, ID: sessionId},
	)
	if err != nil {
		return nil, serverutils.NewInternalError("Failed to load reflection log", err)
	}
	if log == nil {
		return nil, serverutils.NewNotFoundError("Reflection log not found")
	}

	log.Title = req.Title
	log.Content = req.Content
	if req.Status != "" {
		if req.Status != constant.ReflectionDraft && req.Status != constant.ReflectionCommitted {
			return nil, serverutils.NewBadRequestError("Unknown reflection status")
		}
		log.Status = req.Status
	}
	if err := uow.ReflectionLogRepository().Update(ctx, log); err != nil {
		return nil, serverutils.NewInternalError("Failed to update reflection log", err)
	}

	s.publishReflectionSaved(ctx, userId, sessionId, log)

	resp := reflectionLogToResponse(log)
	return &resp, nil
}

func (s *knowledgeService) ListReflectionLogs(ctx context.Context, userId, sessionId uuid.UUID) ([]dto.ReflectionLogResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := s.guardWorkflow(ctx, uow, userId, sessionId); err != nil {
		return nil, err
	}

	logs, err := uow.ReflectionLogRepository().FindAll(ctx,
		specification.ByOwner{Kind: constant.OwnerWorkflow, ID: sessionId},
		specification.OrderBy{Field: "created_at", Desc: true},
	)
	if err != nil {
		return nil, serverutils.NewInternalError("Failed to list reflection logs", err)
	}

	responses := make([]dto.ReflectionLogResponse, len(logs))
	for i, l := range logs {
		responses[i] = reflectionLogToResponse(l)
	}
	return responses, nil
}

func (s *knowledgeService) publishReflectionSaved(ctx context.Context, userId, sessionId uuid.UUID, log *entity.ReflectionLog) {
	if s.eventPublisher == nil || log.Status != constant.ReflectionCommitted {
		return
	}
	evt := events.NewBaseEvent(constant.EventReflectionLogSaved, map[string]interface{}{
		"user_id":    userId.String(),
		"session_id": sessionId.String(),
		"title":      log.Title,
	})
	if err := s.eventPublisher.Publish(ctx, evt); err != nil {
		s.logger.Warn("KnowledgeService", "Failed to publish reflection saved event", map[string]interface{}{"error": err.Error()})
	}
}

func keywordToResponse(k *entity.TopicKeyword) dto.TopicKeywordResponse {
	return dto.TopicKeywordResponse{
		Id:               k.Id,
		Label:            k.Label,
		ImportanceWeight: k.ImportanceWeight,
		IsCore:           k.IsCore,
		SemanticCategory: k.SemanticCategory,
		Status:           string(k.Status),
		UpdatedAt:        k.UpdatedAt,
	}
}

func scopeElementToResponse(e *entity.TopicScopeElement) dto.ScopeElementResponse {
	return dto.ScopeElementResponse{
		Id:           e.Id,
		Label:        e.Label,
		BoundaryType: string(e.BoundaryType),
		Rationale:    e.Rationale,
		Status:       string(e.Status),
		UpdatedAt:    e.UpdatedAt,
	}
}

func reflectionLogToResponse(l *entity.ReflectionLog) dto.ReflectionLogResponse {
	return dto.ReflectionLogResponse{
		Id:        l.Id,
		Title:     l.Title,
		Content:   l.Content,
		Status:    l.Status,
		CreatedAt: l.CreatedAt,
	}
}
