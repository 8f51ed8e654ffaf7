package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"auraflux-be/internal/constant"
)

func TestDetermineFeasibilityStatus(t *testing.T) {
	tests := []struct {
		name    string
		score   float64
		isNiche bool
		want    constant.FeasibilityStatus
	}{
		{name: "low score", score: 3, isNiche: false, want: constant.FeasibilityLow},
		{name: "boundary to medium", score: 4, isNiche: false, want: constant.FeasibilityMedium},
		{name: "mid range", score: 7.9, isNiche: false, want: constant.FeasibilityMedium},
		{name: "boundary to high", score: 8, isNiche: false, want: constant.FeasibilityHigh},
		{name: "top score", score: 10, isNiche: false, want: constant.FeasibilityHigh},
		{name: "niche overrides high score", score: 9, isNiche: true, want: constant.FeasibilityLow},
		{name: "niche and low", score: 1, isNiche: true, want: constant.FeasibilityLow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DetermineFeasibilityStatus(tt.score, tt.isNiche))
		})
	}
}

func TestGetResourceSuggestion(t *testing.T) {
	assert.Contains(t, GetResourceSuggestion(constant.FeasibilityHigh), "academic databases")
	assert.Contains(t, GetResourceSuggestion(constant.FeasibilityMedium), "institutional reports")
	assert.Contains(t, GetResourceSuggestion(constant.FeasibilityLow), "niche")
	assert.Contains(t, GetResourceSuggestion(constant.FeasibilityStatus("")), "define your topic")
}

func TestIsTransitionReady(t *testing.T) {
	assert.False(t, IsTransitionReady(6.5, 6.5))
	assert.True(t, IsTransitionReady(6.6, 6.5))
	assert.False(t, IsTransitionReady(0, 6.5))
}

func TestShouldRunAnalysis(t *testing.T) {
	// Below threshold: any unanalyzed dialogue triggers a run.
	assert.True(t, ShouldRunAnalysis(2, 6.5, 1, 12))

	// Nothing new: never run.
	assert.False(t, ShouldRunAnalysis(2, 6.5, 0, 12))

	// Stable topic: waits for a full window.
	assert.False(t, ShouldRunAnalysis(8, 6.5, 3, 12))
	assert.True(t, ShouldRunAnalysis(8, 6.5, 12, 12))
}
