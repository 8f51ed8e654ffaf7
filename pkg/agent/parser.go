package agent

import (
	"encoding/json"
	"fmt"
	"strings"
)

// RefinedKeyword is one keyword extracted by the refinement agent.
type RefinedKeyword struct {
	Label            string  `json:"label"`
	ImportanceWeight float64 `json:"importance_weight"`
	IsCore           bool    `json:"is_core"`
	SemanticCategory string  `json:"semantic_category"`
}

// RefinedScopeElement is one scope boundary extracted by the refinement agent.
type RefinedScopeElement struct {
	Label        string `json:"label"`
	BoundaryType string `json:"boundary_type"`
	Rationale    string `json:"rationale"`
}

// RefinementResult is the structured output of the topic-refinement agent.
type RefinementResult struct {
	NewStabilityScore     float64               `json:"new_stability_score"`
	IsNiche               bool                  `json:"is_niche"`
	RefinedKeywords       []RefinedKeyword      `json:"refined_keywords"`
	RefinedScopeElements  []RefinedScopeElement `json:"refined_scope_elements"`
	ResearchQuestionDraft string                `json:"research_question_draft"`
}

// StripCodeFences removes a surrounding markdown code fence, with or
// without a language tag. Models wrap JSON output in ```json fences often
// enough that parsing must tolerate it.
func StripCodeFences(raw string) string {
	s := strings.TrimSpace(raw)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	// Drop the language tag on the opening fence line.
	if idx := strings.Index(s, "\n"); idx != -1 {
		firstLine := strings.TrimSpace(s[:idx])
		if firstLine == "" || !strings.ContainsAny(firstLine, "{}[]") {
			s = s[idx+1:]
		}
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

// ParseRefinementResult decodes the refinement agent's JSON reply. The
// stability score is clamped to [0, 10]; boundary types are normalized to
// upper case with INCLUSION as the fallback.
func ParseRefinementResult(raw string) (*RefinementResult, error) {
	cleaned := StripCodeFences(raw)
	if cleaned == "" {
		return nil, fmt.Errorf("empty refinement response")
	}

	var result RefinementResult
	if err := json.Unmarshal([]byte(cleaned), &result); err != nil {
		return nil, fmt.Errorf("unmarshal refinement response: %w", err)
	}

	if result.NewStabilityScore < 0 {
		result.NewStabilityScore = 0
	}
	if result.NewStabilityScore > 10 {
		result.NewStabilityScore = 10
	}

	for i := range result.RefinedScopeElements {
		bt := strings.ToUpper(strings.TrimSpace(result.RefinedScopeElements[i].BoundaryType))
		if bt != "EXCLUSION" {
			bt = "INCLUSION"
		}
		result.RefinedScopeElements[i].BoundaryType = bt
	}

	return &result, nil
}
