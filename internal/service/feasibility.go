package service

import (
	"auraflux-be/internal/constant"
)

// DetermineFeasibilityStatus maps the agent's stability assessment onto the
// final feasibility status. A niche topic is LOW regardless of score.
func DetermineFeasibilityStatus(score float64, isNiche bool) constant.FeasibilityStatus {
	if isNiche || score < 4 {
		return constant.FeasibilityLow
	}
	if score >= 8 {
		return constant.FeasibilityHigh
	}
	return constant.FeasibilityMedium
}

// GetResourceSuggestion returns the search guidance shown in the topic
// snapshot for a given feasibility status.
func GetResourceSuggestion(status constant.FeasibilityStatus) string {
	switch status {
	case constant.FeasibilityHigh:
		return "Focus your next search using specialized academic databases (e.g., Scopus, Web of Science) targeting the specific geographical and time scope."
	case constant.FeasibilityMedium:
		return "Use a combination of general search engines and credible institutional reports (e.g., OECD, World Bank) to solidify your topic."
	case constant.FeasibilityLow:
		return "The topic is highly niche or information-scarce. Start with broad keyword searches and general encyclopedias to establish foundational context before narrowing down."
	default:
		return "Please define your topic further to get a resource suggestion."
	}
}

// IsTransitionReady reports whether the stage-advance button unlocks: the
// stability score must clear the activation threshold.
func IsTransitionReady(score, threshold float64) bool {
	return score > threshold
}

// ShouldRunAnalysis decides whether a chat turn triggers a refinement run.
// Below the threshold every turn with unanalyzed dialogue is analyzed; once
// the topic is stable, analysis waits until a full window of new dialogue
// accumulates.
func ShouldRunAnalysis(score, threshold float64, unanalyzed, windowSize int) bool {
	if unanalyzed <= 0 {
		return false
	}
	if score < threshold {
		return true
	}
	return unanalyzed >= windowSize
}
