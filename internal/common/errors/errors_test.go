package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/pb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errZeroWeight = stderrors.New("ZERO_TOTAL_WEIGHT")

func TestStandardError_UnwrapKeepsCause(t *testing.T) {
	stdErr := NewInvalidWeightsError(errZeroWeight)

	assert.True(t, stderrors.Is(stdErr, errZeroWeight))
	assert.Equal(t, "ZERO_TOTAL_WEIGHT", stdErr.Details)
	assert.False(t, stdErr.Retryable)
	assert.Equal(t, "StandardError[INVALID_WEIGHTS]: Weight table cannot produce a score", stdErr.Error())
}

func TestAsStandardError_Wrapped(t *testing.T) {
	wrapped := fmt.Errorf("calculate: %w", NewMissingWeightError(errZeroWeight))

	stdErr, ok := AsStandardError(wrapped)
	require.True(t, ok)
	assert.Equal(t, ErrCodeMissingWeight, stdErr.Code)

	_, ok = AsStandardError(stderrors.New("plain"))
	assert.False(t, ok)
}

func TestNormalize(t *testing.T) {
	plain := Normalize(stderrors.New("boom"))
	assert.Equal(t, ErrCodeInternal, plain.Code)
	assert.Equal(t, "boom", plain.Details)

	known := NewRevenueOutOfRangeError(stderrors.New("below 0"))
	assert.Same(t, known, Normalize(known))
}

func TestConvertToBPMNError(t *testing.T) {
	tests := []struct {
		name          string
		err           *StandardError
		expectedCode  string
		expectedRetry int
	}{
		{"business error never retried", NewInvalidScoresError(stderrors.New("x")), "INVALID_SCORES", 0},
		{"insert failure retried", NewDatabaseInsertFailedError(stderrors.New("x")), "DATABASE_INSERT_FAILED", 3},
		{"timeout retried less", NewQueryTimeoutError("load bands"), "QUERY_TIMEOUT", 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bpmn := ConvertToBPMNError(tt.err)
			assert.Equal(t, tt.expectedCode, bpmn.Code)
			assert.Equal(t, tt.expectedRetry, bpmn.Retries)

			vars := bpmn.ToErrorVariables()
			assert.Equal(t, tt.expectedCode, vars["errorCode"])
			assert.Equal(t, tt.expectedCode, vars["originalErrorCode"])
			assert.Contains(t, vars, "timestamp")
		})
	}
}

func TestConvertToBPMNError_NonRetryableOverridesCode(t *testing.T) {
	stdErr := NewDatabaseInsertFailedError(stderrors.New("x"))
	stdErr.Retryable = false
	assert.Zero(t, ConvertToBPMNError(stdErr).Retries)
}

func TestRetriesFor(t *testing.T) {
	bpmn := &BPMNError{Retries: 3}

	assert.Equal(t, int32(3), RetriesFor(entities.Job{ActivatedJob: &pb.ActivatedJob{Retries: 5}}, bpmn))
	assert.Equal(t, int32(1), RetriesFor(entities.Job{ActivatedJob: &pb.ActivatedJob{Retries: 2}}, bpmn))
	assert.Equal(t, int32(0), RetriesFor(entities.Job{ActivatedJob: &pb.ActivatedJob{Retries: 1}}, bpmn))
}

func TestGetErrorCategory(t *testing.T) {
	assert.Equal(t, "SCORING", GetErrorCategory(ErrCodeInvalidWeights))
	assert.Equal(t, "SCORING", GetErrorCategory(ErrCodeInvalidRole))
	assert.Equal(t, "STAFFING", GetErrorCategory(ErrCodeInvalidBandConfig))
	assert.Equal(t, "DATABASE", GetErrorCategory(ErrCodeQueryTimeout))
	assert.Equal(t, "VALIDATION", GetErrorCategory(ErrCodeInputValidationFailed))
	assert.Equal(t, "EXTERNAL", GetErrorCategory(ErrCodeTimeout))
	assert.Equal(t, "OTHER", GetErrorCategory(ErrCodeInternal))
	assert.True(t, IsRetryableErrorCode(ErrCodeCacheUnavailable))
	assert.False(t, IsRetryableErrorCode(ErrCodeMissingWeight))
}

func TestNewExternalServiceError(t *testing.T) {
	err := NewExternalServiceError("zeebe", assert.AnError)

	assert.Equal(t, ErrCodeExternalService, err.Code)
	assert.True(t, err.Retryable)
	assert.Equal(t, "zeebe", err.Metadata["service"])
	assert.ErrorIs(t, err, assert.AnError)
	assert.Equal(t, 2, ConvertToBPMNError(err).Retries)
}
