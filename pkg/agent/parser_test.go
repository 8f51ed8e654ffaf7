package agent

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStripCodeFences(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{
			name: "no fences",
			raw:  `{"a": 1}`,
			want: `{"a": 1}`,
		},
		{
			name: "json fence",
			raw:  "```json\n{\"a\": 1}\n```",
			want: `{"a": 1}`,
		},
		{
			name: "bare fence",
			raw:  "```\n{\"a\": 1}\n```",
			want: `{"a": 1}`,
		},
		{
			name: "fence with surrounding whitespace",
			raw:  "  ```json\n{\"a\": 1}\n```  ",
			want: `{"a": 1}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StripCodeFences(tt.raw))
		})
	}
}

func TestParseRefinementResult(t *testing.T) {
	raw := "```json\n" + `{
		"new_stability_score": 7.5,
		"is_niche": false,
		"refined_keywords": [
			{"label": "microgrids", "importance_weight": 0.9, "is_core": true, "semantic_category": "technology"}
		],
		"refined_scope_elements": [
			{"label": "rural deployments", "boundary_type": "inclusion", "rationale": "focus area"}
		],
		"research_question_draft": "How do microgrids improve rural electrification?"
	}` + "\n```"

	result, err := ParseRefinementResult(raw)
	require.NoError(t, err)

	assert.Equal(t, 7.5, result.NewStabilityScore)
	assert.False(t, result.IsNiche)
	require.Len(t, result.RefinedKeywords, 1)
	assert.Equal(t, "microgrids", result.RefinedKeywords[0].Label)
	assert.True(t, result.RefinedKeywords[0].IsCore)
	require.Len(t, result.RefinedScopeElements, 1)
	assert.Equal(t, "INCLUSION", result.RefinedScopeElements[0].BoundaryType)
}

func TestParseRefinementResult_ClampsScore(t *testing.T) {
	result, err := ParseRefinementResult(`{"new_stability_score": 14.2}`)
	require.NoError(t, err)
	assert.Equal(t, 10.0, result.NewStabilityScore)

	result, err = ParseRefinementResult(`{"new_stability_score": -3}`)
	require.NoError(t, err)
	assert.Equal(t, 0.0, result.NewStabilityScore)
}

func TestParseRefinementResult_UnknownBoundaryDefaultsToInclusion(t *testing.T) {
	result, err := ParseRefinementResult(`{
		"new_stability_score": 5,
		"refined_scope_elements": [{"label": "x", "boundary_type": "maybe", "rationale": "r"}]
	}`)
	require.NoError(t, err)
	assert.Equal(t, "INCLUSION", result.RefinedScopeElements[0].BoundaryType)
}

func TestParseRefinementResult_MalformedJSON(t *testing.T) {
	_, err := ParseRefinementResult("not json at all")
	assert.Error(t, err)
}

func TestParseRefinementResult_Empty(t *testing.T) {
	_, err := ParseRefinementResult("```json\n```")
	assert.Error(t, err)
}
