package calculatestaffscore

import "venue-workers/internal/scoring"

// Input carries one review's raw scores. Weights override the role's table
// when present.
type Input struct {
	Role    string            `json:"role"`
	Scores  scoring.ScoreSet  `json:"scores"`
	Weights scoring.WeightSet `json:"weights,omitempty"`
}

type Output struct {
	Role               string   `json:"role"`
	WeightedScore      float64  `json:"weightedScore"`
	UnscoredCategories []string `json:"unscoredCategories"`
	UsedCustomWeights  bool     `json:"usedCustomWeights"`
}
