package scoring

import (
	"errors"
	"fmt"
	"time"
)

var ErrInvalidScores = errors.New("INVALID_SCORES")

// Review is a scored performance review for one staff member.
type Review struct {
	ID            string    `json:"id"`
	VenueID       string    `json:"venueId"`
	StaffID       string    `json:"staffId"`
	Role          Role      `json:"role"`
	Scores        ScoreSet  `json:"scores"`
	WeightedScore float64   `json:"weightedScore"`
	ReviewerID    string    `json:"reviewerId,omitempty"`
	Notes         string    `json:"notes,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
}

// ValidateScores checks that scores only use the role's categories and that
// each value sits inside [min, max].
func ValidateScores(r Role, scores ScoreSet, min, max float64) error {
	if !r.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownRole, string(r))
	}
	if len(scores) == 0 {
		return fmt.Errorf("%w: no scores supplied", ErrInvalidScores)
	}
	allowed := EmptyScores(r)
	for category, v := range scores {
		if _, ok := allowed[category]; !ok {
			return fmt.Errorf("%w: %s is not a %s category", ErrInvalidScores, category, r)
		}
		if !isFinite(v) || v < min || v > max {
			return fmt.Errorf("%w: %s=%v outside %v-%v", ErrInvalidScores, category, v, min, max)
		}
	}
	return nil
}

// NewReview validates and scores a review against the role's weight table.
func NewReview(id, venueID, staffID string, r Role, scores ScoreSet, maxScore float64, now time.Time) (*Review, error) {
	if err := ValidateScores(r, scores, 0, maxScore); err != nil {
		return nil, err
	}
	weighted, err := CalculateRoleScore(r, scores)
	if err != nil {
		return nil, err
	}
	return &Review{
		ID:            id,
		VenueID:       venueID,
		StaffID:       staffID,
		Role:          r,
		Scores:        scores.Clone(),
		WeightedScore: weighted,
		CreatedAt:     now.UTC(),
	}, nil
}
