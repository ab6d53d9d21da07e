package generator

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"google.golang.org/genai"
)

// ErrMissingAPIKey is returned when no Gemini API key is configured.
var ErrMissingAPIKey = errors.New("gemini api key is not configured")

// APIError is a non-success response from the Gemini API.
type APIError struct {
	// Operation is the generator operation that failed (brief, mockup, ...).
	Operation string

	// StatusCode is the HTTP status code (0 if unknown).
	StatusCode int

	// Message is the error message from the API.
	Message string

	// Cause is the underlying error.
	Cause error
}

func (e *APIError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("%s request failed (status %d): %s", e.Operation, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s request failed: %s", e.Operation, e.Message)
}

func (e *APIError) Unwrap() error {
	return e.Cause
}

// RateLimitError is returned when the API answers 429.
type RateLimitError struct {
	Operation string
	Message   string
	Cause     error
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("%s rate limit exceeded: %s", e.Operation, e.Message)
}

func (e *RateLimitError) Unwrap() error {
	return e.Cause
}

// AuthError is returned when the API rejects the key (401 or 403).
type AuthError struct {
	Message string
	Cause   error
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("gemini authentication failed: %s", e.Message)
}

func (e *AuthError) Unwrap() error {
	return e.Cause
}

// EmptyResponseError is returned when a response carries no usable content.
type EmptyResponseError struct {
	Operation string
	Model     string
}

func (e *EmptyResponseError) Error() string {
	return fmt.Sprintf("%s: model %q returned no content", e.Operation, e.Model)
}

// classifyError maps an SDK error onto the package's error types.
func classifyError(operation string, err error) error {
	if err == nil {
		return nil
	}

	code, message, ok := apiErrorDetails(err)
	if !ok {
		return err
	}

	switch {
	case code == http.StatusTooManyRequests:
		return &RateLimitError{Operation: operation, Message: message, Cause: err}
	case code == http.StatusUnauthorized || code == http.StatusForbidden:
		return &AuthError{Message: message, Cause: err}
	default:
		return &APIError{Operation: operation, StatusCode: code, Message: message, Cause: err}
	}
}

func apiErrorDetails(err error) (int, string, bool) {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Code, apiErr.Message, true
	}
	var apiErrPtr *genai.APIError
	if errors.As(err, &apiErrPtr) && apiErrPtr != nil {
		return apiErrPtr.Code, apiErrPtr.Message, true
	}
	return 0, "", false
}

// retryable reports whether err is worth another attempt: rate limits,
// server errors and transport failures are; client errors are not.
func retryable(err error) bool {
	var (
		rateErr  *RateLimitError
		authErr  *AuthError
		apiErr   *APIError
		emptyErr *EmptyResponseError
	)
	switch {
	case errors.Is(err, context.Canceled):
		return false
	case errors.As(err, &rateErr):
		return true
	case errors.As(err, &authErr), errors.As(err, &emptyErr):
		return false
	case errors.As(err, &apiErr):
		return apiErr.StatusCode == 0 || apiErr.StatusCode >= 500
	}
	return true
}

// Status returns the metrics label for the outcome of a call.
func Status(err error) string {
	var (
		rateErr  *RateLimitError
		authErr  *AuthError
		apiErr   *APIError
		emptyErr *EmptyResponseError
	)
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, context.Canceled):
		return "canceled"
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	case errors.As(err, &rateErr):
		return "rate_limit"
	case errors.As(err, &authErr):
		return "auth"
	case errors.As(err, &emptyErr):
		return "empty"
	case errors.As(err, &apiErr):
		return "api_error"
	}
	return "error"
}
