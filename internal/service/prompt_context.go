package service

import (
	"fmt"
	"strings"

	"auraflux-be/internal/constant"
	"auraflux-be/internal/dto"
	"auraflux-be/internal/entity"
	"auraflux-be/pkg/llm"
)

// Helpers shared by the intake handler and the worker chain: entity to
// payload conversion and payload to prompt-text rendering.

func keywordsToPayloads(keywords []*entity.TopicKeyword) []dto.KeywordPayload {
	payloads := make([]dto.KeywordPayload, len(keywords))
	for i, k := range keywords {
		payloads[i] = dto.KeywordPayload{
			Label:            k.Label,
			ImportanceWeight: k.ImportanceWeight,
			IsCore:           k.IsCore,
			SemanticCategory: k.SemanticCategory,
		}
	}
	return payloads
}

func scopeElementsToPayloads(elements []*entity.TopicScopeElement) []dto.ScopeElementPayload {
	payloads := make([]dto.ScopeElementPayload, len(elements))
	for i, s := range elements {
		payloads[i] = dto.ScopeElementPayload{
			Label:        s.Label,
			BoundaryType: string(s.BoundaryType),
			Rationale:    s.Rationale,
		}
	}
	return payloads
}

func chatEntriesToPayloads(entries []*entity.ChatHistoryEntry) []dto.ChatEntryPayload {
	payloads := make([]dto.ChatEntryPayload, len(entries))
	for i, e := range entries {
		payloads[i] = dto.ChatEntryPayload{
			Role:           e.Role,
			Content:        e.Content,
			SenderName:     e.SenderName,
			SequenceNumber: e.SequenceNumber,
		}
	}
	return payloads
}

func formatKeywords(keywords []dto.KeywordPayload) string {
	if len(keywords) == 0 {
		return "(none yet)"
	}
	parts := make([]string, len(keywords))
	for i, k := range keywords {
		parts[i] = k.Label
	}
	return strings.Join(parts, ", ")
}

func formatScopeElements(elements []dto.ScopeElementPayload) string {
	if len(elements) == 0 {
		return "(none yet)"
	}
	parts := make([]string, len(elements))
	for i, s := range elements {
		parts[i] = fmt.Sprintf("%s [%s]: %s", s.Label, s.BoundaryType, s.Rationale)
	}
	return strings.Join(parts, "; ")
}

func renderDialogue(entries []dto.ChatEntryPayload) string {
	lines := make([]string, len(entries))
	for i, e := range entries {
		lines[i] = fmt.Sprintf("%s: %s", e.Role, e.Content)
	}
	return strings.Join(lines, "\n")
}

// payloadsToLLMHistory maps stored chat roles onto the provider roles.
func payloadsToLLMHistory(entries []dto.ChatEntryPayload) []llm.Message {
	history := make([]llm.Message, len(entries))
	for i, e := range entries {
		role := "user"
		switch e.Role {
		case constant.RoleAIAgent:
			role = "assistant"
		case constant.RoleSystem:
			role = "system"
		}
		history[i] = llm.Message{Role: role, Content: e.Content}
	}
	return history
}
