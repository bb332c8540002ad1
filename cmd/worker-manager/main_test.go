package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"venue-workers/internal/common/config"
	"venue-workers/internal/common/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRetryWithBackoff(t *testing.T) {
	log := logger.NewTestLogger(t)

	calls := 0
	err := retryWithBackoff(func() error {
		calls++
		if calls < 3 {
			return errors.New("not yet")
		}
		return nil
	}, 5, time.Millisecond, log, "flaky")
	require.NoError(t, err)
	assert.Equal(t, 3, calls)

	calls = 0
	err = retryWithBackoff(func() error {
		calls++
		return errors.New("down")
	}, 2, time.Millisecond, log, "broken")
	require.Error(t, err)
	assert.Equal(t, 2, calls)
	assert.Contains(t, err.Error(), "broken failed after 2 attempts")
}

func TestHealthHandler(t *testing.T) {
	ok := func(context.Context) error { return nil }
	down := func(context.Context) error { return errors.New("connection refused") }

	tests := []struct {
		name       string
		checks     map[string]func(context.Context) error
		wantStatus int
		wantState  string
	}{
		{"all healthy", map[string]func(context.Context) error{"postgres": ok, "redis": ok}, http.StatusOK, "healthy"},
		{"one down", map[string]func(context.Context) error{"postgres": ok, "redis": down}, http.StatusServiceUnavailable, "unhealthy"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			healthHandler(tt.checks)(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

			assert.Equal(t, tt.wantStatus, rec.Code)

			var body struct {
				Status string            `json:"status"`
				Checks map[string]string `json:"checks"`
			}
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.wantState, body.Status)
			assert.Len(t, body.Checks, len(tt.checks))
		})
	}
}

func TestBuildHandlers(t *testing.T) {
	cfg := &config.Config{
		Workers: map[string]config.WorkerConfig{
			"calculate-staff-score": {Enabled: true, Timeout: 2000},
		},
		Scoring: config.ScoringConfig{MaxScore: 5, HistoryLimit: 3},
	}

	handlers := buildHandlers(cfg, nil, nil, nil, logger.NewTestLogger(t))
	assert.Equal(t, []string{
		"calculate-staff-score",
		"record-performance-review",
		"recommend-staffing",
		"seed-revenue-bands",
	}, sortedTaskTypes(handlers))
}
