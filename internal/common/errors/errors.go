// Package errors provides standardized error handling for BPMN workflow integration.
package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodeParseError ErrorCode = "PARSE_ERROR"
	ErrCodeInternal   ErrorCode = "INTERNAL_ERROR"

	ErrCodeInputValidationFailed ErrorCode = "INPUT_VALIDATION_FAILED"

	// Scoring
	ErrCodeInvalidRole    ErrorCode = "INVALID_ROLE"
	ErrCodeInvalidScores  ErrorCode = "INVALID_SCORES"
	ErrCodeInvalidWeights ErrorCode = "INVALID_WEIGHTS"
	ErrCodeMissingWeight  ErrorCode = "MISSING_WEIGHT"

	// Staffing
	ErrCodeRevenueOutOfRange ErrorCode = "REVENUE_OUT_OF_RANGE"
	ErrCodeInvalidBandConfig ErrorCode = "INVALID_BAND_CONFIG"

	// Storage
	ErrCodeDatabaseConnectionFailed ErrorCode = "DATABASE_CONNECTION_FAILED"
	ErrCodeQueryExecutionFailed     ErrorCode = "QUERY_EXECUTION_FAILED"
	ErrCodeDatabaseInsertFailed     ErrorCode = "DATABASE_INSERT_FAILED"
	ErrCodeQueryTimeout             ErrorCode = "QUERY_TIMEOUT"
	ErrCodeCacheUnavailable         ErrorCode = "CACHE_UNAVAILABLE"

	// Engine
	ErrCodeExternalService ErrorCode = "EXTERNAL_SERVICE_ERROR"
	ErrCodeTimeout         ErrorCode = "TIMEOUT"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`

	cause error
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

func (e *StandardError) Unwrap() error {
	return e.cause
}

// AsStandardError reports whether err wraps a StandardError and returns it.
func AsStandardError(err error) (*StandardError, bool) {
	var stdErr *StandardError
	if stderrors.As(err, &stdErr) {
		return stdErr, true
	}
	return nil, false
}

// ==========================
// 2. BPMN Error Integration
// ==========================

// BPMNError represents an error that can be thrown to the Camunda workflow engine.
type BPMNError struct {
	Code           string                 `json:"code"`
	Message        string                 `json:"message"`
	Details        string                 `json:"details,omitempty"`
	Retryable      bool                   `json:"retryable"`
	Retries        int                    `json:"retries"`
	ErrorVariables map[string]interface{} `json:"errorVariables,omitempty"`
}

func (e *BPMNError) Error() string {
	return fmt.Sprintf("BPMNError[%s]: %s", e.Code, e.Message)
}

// ToErrorVariables returns a map suitable for setting Camunda job fail variables.
func (e *BPMNError) ToErrorVariables() map[string]interface{} {
	vars := map[string]interface{}{
		"errorCode":    e.Code,
		"errorMessage": e.Message,
		"errorDetails": e.Details,
		"retryable":    e.Retryable,
	}
	for k, v := range e.ErrorVariables {
		vars[k] = v
	}
	return vars
}

// ==========================
// 3. Error Constructors
// ==========================

func newError(code ErrorCode, message string, cause error, retryable bool) *StandardError {
	details := ""
	if cause != nil {
		details = cause.Error()
	}
	return &StandardError{
		Code:      code,
		Message:   message,
		Details:   details,
		Retryable: retryable,
		Timestamp: time.Now().UTC(),
		cause:     cause,
	}
}

func NewParseError(err error) *StandardError {
	return newError(ErrCodeParseError, "Job variables could not be parsed", err, false)
}

func NewInputValidationError(details string) *StandardError {
	e := newError(ErrCodeInputValidationFailed, "Job variables failed schema validation", nil, false)
	e.Details = details
	return e
}

func NewInvalidRoleError(err error) *StandardError {
	return newError(ErrCodeInvalidRole, "Unknown staff role", err, false)
}

func NewInvalidScoresError(err error) *StandardError {
	return newError(ErrCodeInvalidScores, "Scores are not valid for the role", err, false)
}

// NewInvalidWeightsError covers zero-sum, negative and non-finite weight tables.
func NewInvalidWeightsError(err error) *StandardError {
	return newError(ErrCodeInvalidWeights, "Weight table cannot produce a score", err, false)
}

func NewMissingWeightError(err error) *StandardError {
	return newError(ErrCodeMissingWeight, "Scored category has no weight", err, false)
}

func NewRevenueOutOfRangeError(err error) *StandardError {
	return newError(ErrCodeRevenueOutOfRange, "Revenue is outside the configured bands", err, false)
}

func NewInvalidBandConfigError(err error) *StandardError {
	return newError(ErrCodeInvalidBandConfig, "Revenue band configuration is invalid", err, false)
}

func NewDatabaseConnectionFailedError(err error) *StandardError {
	return newError(ErrCodeDatabaseConnectionFailed, "Database connection error", err, true)
}

func NewQueryExecutionFailedError(query string, err error) *StandardError {
	e := newError(ErrCodeQueryExecutionFailed, "Database query execution error", err, true)
	e.Details = fmt.Sprintf("query: %s, error: %v", query, err)
	return e
}

func NewDatabaseInsertFailedError(err error) *StandardError {
	return newError(ErrCodeDatabaseInsertFailed, "Database insert operation failed", err, true)
}

func NewQueryTimeoutError(query string) *StandardError {
	e := newError(ErrCodeQueryTimeout, "Database query timeout", nil, true)
	e.Details = fmt.Sprintf("query: %s", query)
	return e
}

func NewCacheUnavailableError(err error) *StandardError {
	return newError(ErrCodeCacheUnavailable, "Cache is unavailable", err, true)
}

func NewExternalServiceError(service string, err error) *StandardError {
	e := newError(ErrCodeExternalService, fmt.Sprintf("%s request failed", service), err, true)
	e.Metadata = map[string]interface{}{"service": service}
	return e
}

func NewTimeoutError(service string, err error) *StandardError {
	e := newError(ErrCodeTimeout, fmt.Sprintf("%s request timed out", service), err, true)
	e.Metadata = map[string]interface{}{"service": service}
	return e
}

func NewInternalError(err error) *StandardError {
	return newError(ErrCodeInternal, "Unexpected error", err, false)
}

// ==========================
// 4. Retry & Category Mapping
// ==========================

func GetRetryCount(code ErrorCode) int {
	switch code {
	case ErrCodeDatabaseConnectionFailed,
		ErrCodeQueryExecutionFailed,
		ErrCodeDatabaseInsertFailed:
		return 3

	case ErrCodeQueryTimeout, ErrCodeCacheUnavailable,
		ErrCodeExternalService, ErrCodeTimeout:
		return 2

	default:
		return 0 // Business errors: no retry
	}
}

// ConvertToBPMNError maps a StandardError onto the code and variables thrown to the engine.
func ConvertToBPMNError(stdErr *StandardError) *BPMNError {
	retries := GetRetryCount(stdErr.Code)
	if !stdErr.Retryable {
		retries = 0
	}

	return &BPMNError{
		Code:      string(stdErr.Code),
		Message:   stdErr.Message,
		Details:   stdErr.Details,
		Retryable: stdErr.Retryable,
		Retries:   retries,
		ErrorVariables: map[string]interface{}{
			"originalErrorCode": string(stdErr.Code),
			"timestamp":         stdErr.Timestamp.Format(time.RFC3339),
		},
	}
}

func IsRetryableErrorCode(code ErrorCode) bool {
	return GetRetryCount(code) > 0
}

func GetErrorCategory(code ErrorCode) string {
	codeStr := string(code)
	switch {
	case strings.Contains(codeStr, "ROLE") || strings.Contains(codeStr, "SCORE") || strings.Contains(codeStr, "WEIGHT"):
		return "SCORING"
	case strings.Contains(codeStr, "REVENUE") || strings.Contains(codeStr, "BAND"):
		return "STAFFING"
	case strings.Contains(codeStr, "DATABASE") || strings.Contains(codeStr, "QUERY") || strings.Contains(codeStr, "CACHE"):
		return "DATABASE"
	case strings.Contains(codeStr, "PARSE") || strings.Contains(codeStr, "VALIDATION"):
		return "VALIDATION"
	case code == ErrCodeExternalService || code == ErrCodeTimeout:
		return "EXTERNAL"
	default:
		return "OTHER"
	}
}
