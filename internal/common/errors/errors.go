// Package errors provides standardized error handling for the enrichment pipeline.
package errors

import (
	"fmt"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodeValidationFailed ErrorCode = "VALIDATION_FAILED"

	ErrCodeSearchFailed  ErrorCode = "SEARCH_FAILED"
	ErrCodeSearchTimeout ErrorCode = "SEARCH_TIMEOUT"
	ErrCodeNoSuitableURL ErrorCode = "NO_SUITABLE_URL"

	ErrCodeFetchFailed  ErrorCode = "FETCH_FAILED"
	ErrCodeFetchTimeout ErrorCode = "FETCH_TIMEOUT"
	ErrCodeParseFailed  ErrorCode = "PARSE_FAILED"

	ErrCodeCacheUnavailable ErrorCode = "CACHE_UNAVAILABLE"
	ErrCodeInternal         ErrorCode = "INTERNAL_ERROR"
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
// 2. Error Constructors
// ==========================

// NewValidationFailedError creates a non-retryable request validation error.
func NewValidationFailedError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeValidationFailed,
		Message:   "Request validation failed",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewSearchFailedError creates a retryable web search error.
func NewSearchFailedError(query string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeSearchFailed,
		Message:   "Web search request failed",
		Details:   fmt.Sprintf("query: %s, error: %s", query, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewSearchTimeoutError creates a retryable web search timeout error.
func NewSearchTimeoutError(query string) *StandardError {
	return &StandardError{
		Code:      ErrCodeSearchTimeout,
		Message:   "Web search timed out",
		Details:   fmt.Sprintf("query: %s", query),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewNoSuitableURLError creates a non-retryable locate error for places whose
// search results contained no usable URL.
func NewNoSuitableURLError(place string) *StandardError {
	return &StandardError{
		Code:      ErrCodeNoSuitableURL,
		Message:   "Could not find a suitable URL from search results",
		Details:   fmt.Sprintf("place: %s", place),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewFetchFailedError creates a retryable fetch error.
func NewFetchFailedError(url string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeFetchFailed,
		Message:   fmt.Sprintf("Failed to fetch %s", url),
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewFetchTimeoutError creates a retryable fetch timeout error.
func NewFetchTimeoutError(url string) *StandardError {
	return &StandardError{
		Code:      ErrCodeFetchTimeout,
		Message:   fmt.Sprintf("Timed out fetching %s", url),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewParseFailedError creates a non-retryable document parse error.
func NewParseFailedError(url string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeParseFailed,
		Message:   fmt.Sprintf("Failed to parse document from %s", url),
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewCacheUnavailableError creates a retryable cache error. The locator treats
// this as advisory: a missing cache never fails an enrichment.
func NewCacheUnavailableError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeCacheUnavailable,
		Message:   "Locator cache unavailable",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewInternalError wraps an unexpected failure.
func NewInternalError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeInternal,
		Message:   "Unexpected error",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}
