// Package apierr defines the error kinds surfaced by the media manager and
// their mapping to user-facing messages and HTTP statuses.
package apierr

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// RemoteAPIError is returned for transport failures, non-2xx responses and
// GraphQL responses carrying an "errors" array.
type RemoteAPIError struct {
	StatusCode int
	Message    string
	RawBody    string
	Err        error
}

func (e *RemoteAPIError) Error() string {
	if e == nil {
		return ""
	}
	if e.StatusCode != 0 {
		return fmt.Sprintf("remote api error (%d): %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("remote api error: %s", e.Message)
}

func (e *RemoteAPIError) Unwrap() error { return e.Err }

// ValidationError is returned before any remote call is made.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// NewValidationError creates a validation error for the given field
func NewValidationError(field, format string, args ...any) *ValidationError {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// ProcessingTimeoutError means the remote pipeline did not finish within the poll budget.
type ProcessingTimeoutError struct {
	MediaID  string
	Attempts int
}

func (e *ProcessingTimeoutError) Error() string {
	return fmt.Sprintf("video processing timed out after %d attempts, media %s may still be processing", e.Attempts, e.MediaID)
}

// ProcessingFailedError means the remote pipeline reported a failed status.
type ProcessingFailedError struct {
	MediaID string
}

func (e *ProcessingFailedError) Error() string {
	return fmt.Sprintf("video processing failed for media %s", e.MediaID)
}

// NotFoundError is returned when a lookup found nothing.
type NotFoundError struct {
	Resource string
	Key      string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.Key)
}

// PartialFailure summarizes a bulk operation where some items failed.
type PartialFailure struct {
	Succeeded int
	Failed    int
}

func (e *PartialFailure) Error() string {
	return fmt.Sprintf("bulk operation partially failed: %d succeeded, %d failed", e.Succeeded, e.Failed)
}

// Message extracts the most specific human-readable message from err.
// Remote details win over wrapping context so the caller sees what the platform said.
func Message(err error) string {
	if err == nil {
		return ""
	}
	var remote *RemoteAPIError
	if errors.As(err, &remote) && strings.TrimSpace(remote.Message) != "" {
		return remote.Message
	}
	var validation *ValidationError
	if errors.As(err, &validation) {
		return validation.Error()
	}
	return err.Error()
}

// HTTPStatus maps an error kind to the response status code
func HTTPStatus(err error) int {
	var (
		validation *ValidationError
		notFound   *NotFoundError
		failed     *ProcessingFailedError
		timeout    *ProcessingTimeoutError
		remote     *RemoteAPIError
	)
	switch {
	case err == nil:
		return http.StatusOK
	case errors.As(err, &validation):
		return http.StatusBadRequest
	case errors.As(err, &notFound):
		return http.StatusNotFound
	case errors.As(err, &failed):
		return http.StatusUnprocessableEntity
	case errors.As(err, &timeout), errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.As(err, &remote):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
