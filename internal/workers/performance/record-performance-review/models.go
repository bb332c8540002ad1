package recordperformancereview

import (
	"venue-workers/internal/common/validation"
	"venue-workers/internal/scoring"

	ozzo "github.com/go-ozzo/ozzo-validation/v4"
)

type Input struct {
	VenueID    string           `json:"venueId"`
	StaffID    string           `json:"staffId"`
	Role       string           `json:"role"`
	Scores     scoring.ScoreSet `json:"scores"`
	ReviewerID string           `json:"reviewerId,omitempty"`
	Notes      string           `json:"notes,omitempty"`
}

func (in Input) Validate() error {
	return ozzo.ValidateStruct(&in,
		ozzo.Field(&in.VenueID, ozzo.Required, validation.NotBlank, ozzo.Length(1, 64)),
		ozzo.Field(&in.StaffID, ozzo.Required, validation.NotBlank, ozzo.Length(1, 64)),
		ozzo.Field(&in.ReviewerID, ozzo.Length(0, 64)),
		ozzo.Field(&in.Notes, ozzo.Length(0, 2000)),
	)
}

type Output struct {
	ReviewID      string   `json:"reviewId"`
	WeightedScore float64  `json:"weightedScore"`
	CreatedAt     string   `json:"createdAt"`
	ReviewCount   int      `json:"reviewCount"`
	AverageScore  float64  `json:"averageScore"`
	PreviousScore *float64 `json:"previousScore,omitempty"`
	Trend         string   `json:"trend"`
}

const (
	TrendFirst     = "first"
	TrendImproving = "improving"
	TrendDeclining = "declining"
	TrendSteady    = "steady"
)
