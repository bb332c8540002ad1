package calculatestaffscore

import (
	"context"
	"fmt"
	"math"
	"testing"

	apperrors "venue-workers/internal/common/errors"
	"venue-workers/internal/common/logger"
	"venue-workers/internal/scoring"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestHandler(t *testing.T) *Handler {
	return NewHandler(LoadConfig(), nil, logger.NewTestLogger(t))
}

// ==========================
// Core Functionality Tests
// ==========================

func TestHandler_Execute(t *testing.T) {
	tests := []struct {
		name         string
		input        Input
		wantScore    float64
		wantUnscored []string
		wantCustom   bool
	}{
		{
			name: "foh full review",
			input: Input{
				Role: "foh",
				Scores: scoring.ScoreSet{
					scoring.Hospitality:        8,
					scoring.Friendliness:       6,
					scoring.InternalTeamSkills: 7,
					scoring.ServiceSkills:      9,
					scoring.FOHKnowledge:       5,
				},
			},
			wantScore: 7.2,
		},
		{
			name: "kitchen partial review keeps unscored weight in the total",
			input: Input{
				Role:   "Kitchen",
				Scores: scoring.ScoreSet{scoring.WorkEthic: 9},
			},
			wantScore: 3.15,
			wantUnscored: []string{
				scoring.TeamPlayer, scoring.Adaptability, scoring.CookingSkills, scoring.FoodKnowledge,
			},
		},
		{
			name: "custom weights",
			input: Input{
				Role:    "foh",
				Scores:  scoring.ScoreSet{scoring.Hospitality: 10, scoring.Friendliness: 5},
				Weights: scoring.WeightSet{scoring.Hospitality: 3, scoring.Friendliness: 1},
			},
			wantScore: 8.75,
			wantUnscored: []string{
				scoring.InternalTeamSkills, scoring.ServiceSkills, scoring.FOHKnowledge,
			},
			wantCustom: true,
		},
	}

	h := newTestHandler(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := h.Execute(context.Background(), &tt.input)
			require.NoError(t, err)

			assert.Equal(t, tt.wantScore, out.WeightedScore)
			assert.Equal(t, tt.wantUnscored, out.UnscoredCategories)
			assert.Equal(t, tt.wantCustom, out.UsedCustomWeights)
		})
	}
}

// ==========================
// Error Handling Tests
// ==========================

func TestHandler_Execute_Errors(t *testing.T) {
	tests := []struct {
		name     string
		input    Input
		wantCode apperrors.ErrorCode
	}{
		{
			name:     "unknown role",
			input:    Input{Role: "bar", Scores: scoring.ScoreSet{scoring.Hospitality: 5}},
			wantCode: apperrors.ErrCodeInvalidRole,
		},
		{
			name:     "no scores",
			input:    Input{Role: "foh"},
			wantCode: apperrors.ErrCodeInvalidScores,
		},
		{
			name:     "kitchen category on foh review",
			input:    Input{Role: "foh", Scores: scoring.ScoreSet{scoring.CookingSkills: 5}},
			wantCode: apperrors.ErrCodeInvalidScores,
		},
		{
			name:     "score above max",
			input:    Input{Role: "kitchen", Scores: scoring.ScoreSet{scoring.WorkEthic: 11}},
			wantCode: apperrors.ErrCodeInvalidScores,
		},
		{
			name: "custom weights miss a scored category",
			input: Input{
				Role:    "foh",
				Scores:  scoring.ScoreSet{scoring.Hospitality: 5, scoring.Friendliness: 5},
				Weights: scoring.WeightSet{scoring.Hospitality: 1},
			},
			wantCode: apperrors.ErrCodeMissingWeight,
		},
		{
			name: "custom weights sum to zero",
			input: Input{
				Role:    "foh",
				Scores:  scoring.ScoreSet{scoring.Hospitality: 5},
				Weights: scoring.WeightSet{scoring.Hospitality: 0},
			},
			wantCode: apperrors.ErrCodeInvalidWeights,
		},
		{
			name: "negative custom weight",
			input: Input{
				Role:    "foh",
				Scores:  scoring.ScoreSet{scoring.Hospitality: 5},
				Weights: scoring.WeightSet{scoring.Hospitality: 1, scoring.Friendliness: -2},
			},
			wantCode: apperrors.ErrCodeInvalidWeights,
		},
	}

	h := newTestHandler(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := h.Execute(context.Background(), &tt.input)
			require.Error(t, err)

			stdErr, ok := apperrors.AsStandardError(err)
			require.True(t, ok)
			assert.Equal(t, tt.wantCode, stdErr.Code)
			assert.False(t, stdErr.Retryable)
		})
	}
}

func TestMapScoringError(t *testing.T) {
	tests := []struct {
		err  error
		want apperrors.ErrorCode
	}{
		{fmt.Errorf("%w: x", scoring.ErrUnknownRole), apperrors.ErrCodeInvalidRole},
		{fmt.Errorf("%w: x", scoring.ErrMissingWeight), apperrors.ErrCodeMissingWeight},
		{scoring.ErrZeroTotalWeight, apperrors.ErrCodeInvalidWeights},
		{scoring.ErrNonFiniteValue, apperrors.ErrCodeInvalidWeights},
		{scoring.ErrInvalidScores, apperrors.ErrCodeInvalidScores},
		{fmt.Errorf("unexpected"), apperrors.ErrCodeInternal},
	}

	for _, tt := range tests {
		stdErr, ok := apperrors.AsStandardError(MapScoringError(tt.err))
		require.True(t, ok)
		assert.Equal(t, tt.want, stdErr.Code, tt.err.Error())
	}
}

func TestHandler_Execute_NonFiniteCustomWeight(t *testing.T) {
	h := newTestHandler(t)
	_, err := h.Execute(context.Background(), &Input{
		Role:    "foh",
		Scores:  scoring.ScoreSet{scoring.Hospitality: 5},
		Weights: scoring.WeightSet{scoring.Hospitality: math.Inf(1)},
	})

	stdErr, ok := apperrors.AsStandardError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrCodeInvalidWeights, stdErr.Code)
}
