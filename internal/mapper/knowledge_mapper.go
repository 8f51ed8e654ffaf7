package mapper

import (
	"auraflux-be/internal/constant"
	"auraflux-be/internal/entity"
	"auraflux-be/internal/model"
)

type KnowledgeMapper struct{}

func NewKnowledgeMapper() *KnowledgeMapper {
	return &KnowledgeMapper{}
}

func (m *KnowledgeMapper) KeywordToEntity(k *model.TopicKeyword) *entity.TopicKeyword {
	if k == nil {
		return nil
	}
	return &entity.TopicKeyword{
		Id:               k.Id,
		OwnerKind:        constant.OwnerKind(k.OwnerKind),
		OwnerId:          k.OwnerId,
		Label:            k.Label,
		ImportanceWeight: k.ImportanceWeight,
		IsCore:           k.IsCore,
		SemanticCategory: k.SemanticCategory,
		Status:           constant.EntityStatus(k.Status),
		CreatedAt:        k.CreatedAt,
		UpdatedAt:        optionalTime(k.UpdatedAt),
	}
}

func (m *KnowledgeMapper) KeywordToModel(k *entity.TopicKeyword) *model.TopicKeyword {
	if k == nil {
		return nil
	}
	return &model.TopicKeyword{
		Id:               k.Id,
		OwnerKind:        string(k.OwnerKind),
		OwnerId:          k.OwnerId,
		Label:            k.Label,
		ImportanceWeight: k.ImportanceWeight,
		IsCore:           k.IsCore,
		SemanticCategory: k.SemanticCategory,
		Status:           string(k.Status),
		CreatedAt:        k.CreatedAt,
		UpdatedAt:        derefTime(k.UpdatedAt),
	}
}

func (m *KnowledgeMapper) KeywordsToEntities(models []*model.TopicKeyword) []*entity.TopicKeyword {
	entities := make([]*entity.TopicKeyword, len(models))
	for i, k := range models {
		entities[i] = m.KeywordToEntity(k)
	}
	return entities
}

func (m *KnowledgeMapper) ScopeElementToEntity(s *model.TopicScopeElement) *entity.TopicScopeElement {
	if s == nil {
		return nil
	}
	return &entity.TopicScopeElement{
		Id:           s.Id,
		OwnerKind:    constant.OwnerKind(s.OwnerKind),
		OwnerId:      s.OwnerId,
		Label:        s.Label,
		BoundaryType: constant.BoundaryType(s.BoundaryType),
		Rationale:    s.Rationale,
		Status:       constant.EntityStatus(s.Status),
		CreatedAt:    s.CreatedAt,
		UpdatedAt:    optionalTime(s.UpdatedAt),
	}
}

func (m *KnowledgeMapper) ScopeElementToModel(s *entity.TopicScopeElement) *model.TopicScopeElement {
	if s == nil {
		return nil
	}
	return &model.TopicScopeElement{
		Id:           s.Id,
		OwnerKind:    string(s.OwnerKind),
		OwnerId:      s.OwnerId,
		Label:        s.Label,
		BoundaryType: string(s.BoundaryType),
		Rationale:    s.Rationale,
		Status:       string(s.Status),
		CreatedAt:    s.CreatedAt,
		UpdatedAt:    derefTime(s.UpdatedAt),
	}
}

func (m *KnowledgeMapper) ScopeElementsToEntities(models []*model.TopicScopeElement) []*entity.TopicScopeElement {
	entities := make([]*entity.TopicScopeElement, len(models))
	for i, s := range models {
		entities[i] = m.ScopeElementToEntity(s)
	}
	return entities
}

func (m *KnowledgeMapper) ReflectionLogToEntity(r *model.ReflectionLog) *entity.ReflectionLog {
	if r == nil {
		return nil
	}
	return &entity.ReflectionLog{
		Id:        r.Id,
		OwnerKind: constant.OwnerKind(r.OwnerKind),
		OwnerId:   r.OwnerId,
		Title:     r.Title,
		Content:   r.Content,
		Status:    r.Status,
		CreatedAt: r.CreatedAt,
		UpdatedAt: optionalTime(r.UpdatedAt),
	}
}

func (m *KnowledgeMapper) ReflectionLogToModel(r *entity.ReflectionLog) *model.ReflectionLog {
	if r == nil {
		return nil
	}
	return &model.ReflectionLog{
		Id:        r.Id,
		OwnerKind: string(r.OwnerKind),
		OwnerId:   r.OwnerId,
		Title:     r.Title,
		Content:   r.Content,
		Status:    r.Status,
		CreatedAt: r.CreatedAt,
		UpdatedAt: derefTime(r.UpdatedAt),
	}
}

func (m *KnowledgeMapper) ReflectionLogsToEntities(models []*model.ReflectionLog) []*entity.ReflectionLog {
	entities := make([]*entity.ReflectionLog, len(models))
	for i, r := range models {
		entities[i] = m.ReflectionLogToEntity(r)
	}
	return entities
}
