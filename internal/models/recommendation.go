package models

// Recommendation types.
const (
	RecommendationInfo       = "info"
	RecommendationEfficiency = "efficiency"
	RecommendationEnergy     = "energy"
	RecommendationSafety     = "safety"
	RecommendationGeneral    = "general"
)

// Recommendation is one rule-based usage suggestion.
type Recommendation struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}
