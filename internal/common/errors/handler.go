// internal/common/errors/handler.go
package errors

import (
	"context"
	goerrors "errors"
	"net/http"
	"strings"
	"time"
)

// ErrorHandler normalizes arbitrary errors into StandardError values and
// decides how they surface at the HTTP boundary.
type ErrorHandler struct {
	logger Logger
}

type Logger interface {
	Error(msg string, fields map[string]interface{})
}

func NewErrorHandler(logger Logger) *ErrorHandler {
	return &ErrorHandler{logger: logger}
}

// Normalize ensures we always have a StandardError.
func (h *ErrorHandler) Normalize(err error) *StandardError {
	var stdErr *StandardError
	if goerrors.As(err, &stdErr) {
		return stdErr
	}
	return &StandardError{
		Code:      ErrCodeInternal,
		Message:   "Unexpected error",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// HandleRequestError normalizes and logs an error escaping a request handler,
// returning the HTTP status the response should carry.
func (h *ErrorHandler) HandleRequestError(requestID string, err error) (*StandardError, int) {
	stdErr := h.Normalize(err)

	h.logger.Error("request failed", map[string]interface{}{
		"requestId": requestID,
		"errorCode": string(stdErr.Code),
		"message":   stdErr.Message,
		"details":   stdErr.Details,
		"retryable": stdErr.Retryable,
	})

	return stdErr, HTTPStatus(stdErr.Code)
}

// HTTPStatus maps an error code to the boundary status code. Per-place
// enrichment errors never reach this mapping; they are recovered into
// LiveData.Error long before the HTTP layer.
func HTTPStatus(code ErrorCode) int {
	switch code {
	case ErrCodeValidationFailed:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// IsTimeout reports whether err looks like a deadline or client timeout.
// The stdlib surfaces these inconsistently across transports.
func IsTimeout(err error) bool {
	if err == nil {
		return false
	}
	if goerrors.Is(err, context.DeadlineExceeded) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "timeout") ||
		strings.Contains(msg, "deadline") ||
		strings.Contains(msg, "Client.Timeout")
}
