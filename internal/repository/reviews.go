package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"venue-workers/internal/scoring"
)

// ReviewRepository stores scored performance reviews.
type ReviewRepository struct {
	db *sql.DB
}

func NewReviewRepository(db *sql.DB) *ReviewRepository {
	return &ReviewRepository{db: db}
}

func (r *ReviewRepository) Insert(ctx context.Context, review *scoring.Review) error {
	scores, err := json.Marshal(review.Scores)
	if err != nil {
		return fmt.Errorf("marshal scores: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO performance_reviews (
			id, venue_id, staff_id, role, scores,
			weighted_score, reviewer_id, notes, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		review.ID,
		review.VenueID,
		review.StaffID,
		string(review.Role),
		scores,
		review.WeightedScore,
		nullString(review.ReviewerID),
		nullString(review.Notes),
		review.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert performance review: %w", err)
	}
	return nil
}

// ListForStaff returns the staff member's most recent reviews, newest first.
func (r *ReviewRepository) ListForStaff(ctx context.Context, venueID, staffID string, limit int) ([]scoring.Review, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, venue_id, staff_id, role, scores,
		       weighted_score, reviewer_id, notes, created_at
		FROM performance_reviews
		WHERE venue_id = $1 AND staff_id = $2
		ORDER BY created_at DESC
		LIMIT $3`, venueID, staffID, limit)
	if err != nil {
		return nil, fmt.Errorf("query performance reviews: %w", err)
	}
	defer rows.Close()

	var reviews []scoring.Review
	for rows.Next() {
		var (
			rev        scoring.Review
			role       string
			scoresJSON []byte
			reviewer   sql.NullString
			notes      sql.NullString
		)
		if err := rows.Scan(
			&rev.ID, &rev.VenueID, &rev.StaffID, &role, &scoresJSON,
			&rev.WeightedScore, &reviewer, &notes, &rev.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan performance review: %w", err)
		}
		if err := json.Unmarshal(scoresJSON, &rev.Scores); err != nil {
			return nil, fmt.Errorf("decode scores for review %s: %w", rev.ID, err)
		}
		rev.Role = scoring.Role(role)
		rev.ReviewerID = reviewer.String
		rev.Notes = notes.String
		reviews = append(reviews, rev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate performance reviews: %w", err)
	}
	return reviews, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
