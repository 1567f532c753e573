// Package errors provides standardized error handling for BPMN workflow integration.
package errors

import (
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
	// Resolution (business) errors — surfaced to the conversation layer.
	ErrCodeUnknownIntent   ErrorCode = "UNKNOWN_INTENT"
	ErrCodeAmbiguousEntity ErrorCode = "AMBIGUOUS_ENTITY"
	ErrCodeEntityNotFound  ErrorCode = "ENTITY_NOT_FOUND"

	// Catalog errors.
	ErrCodeCatalogLoadFailed  ErrorCode = "CATALOG_LOAD_FAILED"
	ErrCodeCatalogQueryFailed ErrorCode = "CATALOG_QUERY_FAILED"
	ErrCodeCatalogCacheFailed ErrorCode = "CATALOG_CACHE_FAILED"

	ErrCodeDatabaseConnectionFailed ErrorCode = "DATABASE_CONNECTION_FAILED"

	// News pipeline errors.
	ErrCodeFeedFetchFailed ErrorCode = "FEED_FETCH_FAILED"
	ErrCodeFeedTimeout     ErrorCode = "FEED_TIMEOUT"

	// External sports API errors.
	ErrCodeScheduleAPIFailed  ErrorCode = "SCHEDULE_API_FAILED"
	ErrCodeScheduleAPITimeout ErrorCode = "SCHEDULE_API_TIMEOUT"
	ErrCodeStatsAPIFailed     ErrorCode = "STATS_API_FAILED"
	ErrCodeStatsAPITimeout    ErrorCode = "STATS_API_TIMEOUT"
	ErrCodeStatsNotFound      ErrorCode = "STATS_NOT_FOUND"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
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

	if e.ErrorVariables != nil {
		for k, v := range e.ErrorVariables {
			vars[k] = v
		}
	}

	return vars
}

// ==========================
// 3. Error Constructors
// ==========================

// NewUnknownIntentError creates a non-retryable classification error.
// The conversation layer responds by listing the supported query shapes.
func NewUnknownIntentError(utterance string) *StandardError {
	return &StandardError{
		Code:      ErrCodeUnknownIntent,
		Message:   "Could not classify the query into a supported intent",
		Details:   fmt.Sprintf("utterance: %q", utterance),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewAmbiguousEntityError creates a non-retryable resolution error carrying
// the ranked candidate ids so the caller can ask the user to pick one.
func NewAmbiguousEntityError(phrase string, candidates []string) *StandardError {
	return &StandardError{
		Code:      ErrCodeAmbiguousEntity,
		Message:   "Multiple entities match the query",
		Details:   fmt.Sprintf("phrase: %q", phrase),
		Retryable: false,
		Metadata:  map[string]interface{}{"candidates": candidates},
		Timestamp: time.Now().UTC(),
	}
}

// NewEntityNotFoundError creates a non-retryable resolution error.
func NewEntityNotFoundError(phrase string) *StandardError {
	return &StandardError{
		Code:      ErrCodeEntityNotFound,
		Message:   "No team or player matches the query",
		Details:   fmt.Sprintf("phrase: %q", phrase),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewCatalogLoadFailedError creates a non-retryable catalog error.
// Alias collisions and malformed records are fatal at load time.
func NewCatalogLoadFailedError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeCatalogLoadFailed,
		Message:   "Reference catalog failed to load",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewCatalogQueryFailedError creates a retryable catalog store error.
func NewCatalogQueryFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeCatalogQueryFailed,
		Message:   "Database error while reading the reference catalog",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewCatalogCacheFailedError creates a retryable cache error.
func NewCatalogCacheFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeCatalogCacheFailed,
		Message:   "Redis error while reading the catalog snapshot cache",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewDatabaseConnectionFailedError creates a retryable database connection error.
func NewDatabaseConnectionFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeDatabaseConnectionFailed,
		Message:   "Database connection error",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewFeedFetchFailedError creates a retryable feed error for a single source.
func NewFeedFetchFailedError(source string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeFeedFetchFailed,
		Message:   "News feed fetch failed",
		Details:   fmt.Sprintf("source: %s, error: %s", source, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewFeedTimeoutError creates a non-retryable feed timeout error.
// A timed-out source contributes zero articles; the batch proceeds without it.
func NewFeedTimeoutError(source string) *StandardError {
	return &StandardError{
		Code:      ErrCodeFeedTimeout,
		Message:   "News feed fetch timeout",
		Details:   fmt.Sprintf("source: %s", source),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewScheduleAPIFailedError creates a retryable schedule API error.
func NewScheduleAPIFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeScheduleAPIFailed,
		Message:   "Schedule API error",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewScheduleAPITimeoutError creates a retryable schedule API timeout error.
func NewScheduleAPITimeoutError() *StandardError {
	return &StandardError{
		Code:      ErrCodeScheduleAPITimeout,
		Message:   "Schedule API timeout",
		Details:   "API call exceeded timeout threshold",
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewStatsAPIFailedError creates a retryable stats API error.
func NewStatsAPIFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeStatsAPIFailed,
		Message:   "Fantasy stats API error",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewStatsAPITimeoutError creates a retryable stats API timeout error.
func NewStatsAPITimeoutError() *StandardError {
	return &StandardError{
		Code:      ErrCodeStatsAPITimeout,
		Message:   "Fantasy stats API timeout",
		Details:   "API call exceeded timeout threshold",
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewStatsNotFoundError creates a non-retryable business error for players
// with no recorded stats in the requested season.
func NewStatsNotFoundError(playerID string, season int) *StandardError {
	return &StandardError{
		Code:      ErrCodeStatsNotFound,
		Message:   "No fantasy stats recorded for player",
		Details:   fmt.Sprintf("playerId: %s, season: %d", playerID, season),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// Generic constructors

func NewExternalServiceError(service string, err error) *StandardError {
	return &StandardError{
		Code:      "EXTERNAL_SERVICE_ERROR",
		Message:   fmt.Sprintf("External service '%s' error", service),
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

func NewTimeoutError(service string, err error) *StandardError {
	return &StandardError{
		Code:      "TIMEOUT_ERROR",
		Message:   fmt.Sprintf("Service '%s' timeout", service),
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

func NewResourceNotFoundError(service, details string) *StandardError {
	return &StandardError{
		Code:      "RESOURCE_NOT_FOUND",
		Message:   fmt.Sprintf("Resource not found in %s", service),
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// ==========================
// 4. Error Conversion to BPMN
// ==========================

// BPMNErrorMapping maps internal error codes to BPMN error codes (same as internal).
var BPMNErrorMapping = map[ErrorCode]string{
	ErrCodeUnknownIntent:            "UNKNOWN_INTENT",
	ErrCodeAmbiguousEntity:          "AMBIGUOUS_ENTITY",
	ErrCodeEntityNotFound:           "ENTITY_NOT_FOUND",
	ErrCodeCatalogLoadFailed:        "CATALOG_LOAD_FAILED",
	ErrCodeCatalogQueryFailed:       "CATALOG_QUERY_FAILED",
	ErrCodeCatalogCacheFailed:       "CATALOG_CACHE_FAILED",
	ErrCodeDatabaseConnectionFailed: "DATABASE_CONNECTION_FAILED",
	ErrCodeFeedFetchFailed:          "FEED_FETCH_FAILED",
	ErrCodeFeedTimeout:              "FEED_TIMEOUT",
	ErrCodeScheduleAPIFailed:        "SCHEDULE_API_FAILED",
	ErrCodeScheduleAPITimeout:       "SCHEDULE_API_TIMEOUT",
	ErrCodeStatsAPIFailed:           "STATS_API_FAILED",
	ErrCodeStatsAPITimeout:          "STATS_API_TIMEOUT",
	ErrCodeStatsNotFound:            "STATS_NOT_FOUND",
}

// GetRetryCount returns the recommended retry count per error code.
func GetRetryCount(code ErrorCode) int {
	switch code {
	case ErrCodeCatalogQueryFailed,
		ErrCodeCatalogCacheFailed,
		ErrCodeDatabaseConnectionFailed,
		ErrCodeFeedFetchFailed,
		ErrCodeScheduleAPIFailed,
		ErrCodeStatsAPIFailed:
		return 3 // Retryable technical errors

	case ErrCodeScheduleAPITimeout,
		ErrCodeStatsAPITimeout:
		return 2 // Partial retry for timeouts

	default:
		return 0 // Business errors: no retry
	}
}

// ConvertToBPMNError converts a StandardError to a BPMNError for Camunda.
func ConvertToBPMNError(stdErr *StandardError) *BPMNError {
	bpmnCode, exists := BPMNErrorMapping[stdErr.Code]
	if !exists {
		bpmnCode = string(stdErr.Code) // Fallback
	}

	retries := GetRetryCount(stdErr.Code)
	if !stdErr.Retryable {
		retries = 0
	}

	errorVars := map[string]interface{}{
		"originalErrorCode": string(stdErr.Code),
		"timestamp":         stdErr.Timestamp.Format(time.RFC3339),
	}
	for k, v := range stdErr.Metadata {
		errorVars[k] = v
	}

	return &BPMNError{
		Code:           bpmnCode,
		Message:        stdErr.Message,
		Details:        stdErr.Details,
		Retryable:      stdErr.Retryable,
		Retries:        retries,
		ErrorVariables: errorVars,
	}
}

// ==========================
// 5. Utility Functions
// ==========================

// IsRetryableErrorCode checks if an error code is retryable.
func IsRetryableErrorCode(code ErrorCode) bool {
	return GetRetryCount(code) > 0
}

// GetErrorCategory returns the category of the error code.
func GetErrorCategory(code ErrorCode) string {
	codeStr := string(code)
	switch {
	case strings.Contains(codeStr, "INTENT") || strings.Contains(codeStr, "ENTITY"):
		return "RESOLUTION"
	case strings.Contains(codeStr, "CATALOG") || strings.Contains(codeStr, "DATABASE"):
		return "CATALOG"
	case strings.Contains(codeStr, "FEED"):
		return "NEWS"
	case strings.Contains(codeStr, "SCHEDULE") || strings.Contains(codeStr, "STATS"):
		return "SPORTS_API"
	default:
		return "OTHER"
	}
}
