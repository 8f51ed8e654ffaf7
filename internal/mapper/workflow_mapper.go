package mapper

import (
	"time"

	"auraflux-be/internal/constant"
	"auraflux-be/internal/entity"
	"auraflux-be/internal/model"
)

type WorkflowMapper struct{}

func NewWorkflowMapper() *WorkflowMapper {
	return &WorkflowMapper{}
}

func optionalTime(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	out := t
	return &out
}

func derefTime(t *time.Time) time.Time {
	if t == nil {
		return time.Time{}
	}
	return *t
}

func (m *WorkflowMapper) WorkflowToEntity(w *model.ResearchWorkflow) *entity.ResearchWorkflow {
	if w == nil {
		return nil
	}
	return &entity.ResearchWorkflow{
		SessionId:    w.SessionId,
		UserId:       w.UserId,
		CurrentStage: constant.ISPStage(w.CurrentStage),
		IsActive:     w.IsActive,
		CreatedAt:    w.CreatedAt,
		UpdatedAt:    optionalTime(w.UpdatedAt),
	}
}

func (m *WorkflowMapper) WorkflowToModel(w *entity.ResearchWorkflow) *model.ResearchWorkflow {
	if w == nil {
		return nil
	}
	return &model.ResearchWorkflow{
		SessionId:    w.SessionId,
		UserId:       w.UserId,
		CurrentStage: string(w.CurrentStage),
		IsActive:     w.IsActive,
		CreatedAt:    w.CreatedAt,
		UpdatedAt:    derefTime(w.UpdatedAt),
	}
}

func (m *WorkflowMapper) InitiationDataToEntity(d *model.InitiationPhaseData) *entity.InitiationPhaseData {
	if d == nil {
		return nil
	}
	return &entity.InitiationPhaseData{
		SessionId:                   d.SessionId,
		StabilityScore:              d.StabilityScore,
		FeasibilityStatus:           constant.FeasibilityStatus(d.FeasibilityStatus),
		FinalResearchQuestion:       d.FinalResearchQuestion,
		ConversationSummary:         d.ConversationSummary,
		LastAnalysisSequenceNumber:  d.LastAnalysisSequenceNumber,
		AnalysisActivationThreshold: d.AnalysisActivationThreshold,
		IsTransitionReady:           d.IsTransitionReady,
		CreatedAt:                   d.CreatedAt,
		UpdatedAt:                   optionalTime(d.UpdatedAt),
	}
}

func (m *WorkflowMapper) InitiationDataToModel(d *entity.InitiationPhaseData) *model.InitiationPhaseData {
	if d == nil {
		return nil
	}
	return &model.InitiationPhaseData{
		SessionId:                   d.SessionId,
		StabilityScore:              d.StabilityScore,
		FeasibilityStatus:           string(d.FeasibilityStatus),
		FinalResearchQuestion:       d.FinalResearchQuestion,
		ConversationSummary:         d.ConversationSummary,
		LastAnalysisSequenceNumber:  d.LastAnalysisSequenceNumber,
		AnalysisActivationThreshold: d.AnalysisActivationThreshold,
		IsTransitionReady:           d.IsTransitionReady,
		CreatedAt:                   d.CreatedAt,
		UpdatedAt:                   derefTime(d.UpdatedAt),
	}
}

func (m *WorkflowMapper) ChatEntryToEntity(e *model.ChatHistoryEntry) *entity.ChatHistoryEntry {
	if e == nil {
		return nil
	}
	return &entity.ChatHistoryEntry{
		Id:             e.Id,
		SessionId:      e.SessionId,
		Role:           e.Role,
		Content:        e.Content,
		SenderName:     e.SenderName,
		SequenceNumber: e.SequenceNumber,
		CreatedAt:      e.CreatedAt,
	}
}

func (m *WorkflowMapper) ChatEntryToModel(e *entity.ChatHistoryEntry) *model.ChatHistoryEntry {
	if e == nil {
		return nil
	}
	return &model.ChatHistoryEntry{
		Id:             e.Id,
		SessionId:      e.SessionId,
		Role:           e.Role,
		Content:        e.Content,
		SenderName:     e.SenderName,
		SequenceNumber: e.SequenceNumber,
		CreatedAt:      e.CreatedAt,
	}
}

func (m *WorkflowMapper) ChatEntriesToEntities(models []*model.ChatHistoryEntry) []*entity.ChatHistoryEntry {
	entities := make([]*entity.ChatHistoryEntry, len(models))
	for i, e := range models {
		entities[i] = m.ChatEntryToEntity(e)
	}
	return entities
}
