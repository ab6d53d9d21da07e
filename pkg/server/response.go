package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"palette-hq/scout/pkg/generator"
)

// Error types in the "type" field of error responses.
const (
	ErrTypeInvalidRequest = "invalid_request_error"
	ErrTypeNotFound       = "not_found_error"
	ErrTypeUnavailable    = "unavailable_error"
	ErrTypeRateLimit      = "rate_limit_error"
	ErrTypeUpstreamAuth   = "upstream_authentication_error"
	ErrTypeUpstream       = "upstream_error"
	ErrTypeTimeout        = "timeout_error"
	ErrTypeServer         = "server_error"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail describes an error.
type ErrorDetail struct {
	Message string `json:"message"`
	Type    string `json:"type"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, errType, message string) {
	writeJSON(w, status, ErrorResponse{Error: ErrorDetail{Message: message, Type: errType}})
}

// writeGenerationError maps generator failures to HTTP statuses.
func writeGenerationError(w http.ResponseWriter, err error) {
	var (
		rateErr  *generator.RateLimitError
		authErr  *generator.AuthError
		emptyErr *generator.EmptyResponseError
		apiErr   *generator.APIError
	)
	switch {
	case errors.As(err, &rateErr):
		writeError(w, http.StatusTooManyRequests, ErrTypeRateLimit, err.Error())
	case errors.As(err, &authErr):
		writeError(w, http.StatusBadGateway, ErrTypeUpstreamAuth, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		writeError(w, http.StatusGatewayTimeout, ErrTypeTimeout, "generation timed out")
	case errors.As(err, &emptyErr), errors.As(err, &apiErr):
		writeError(w, http.StatusBadGateway, ErrTypeUpstream, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, ErrTypeServer, err.Error())
	}
}

// decodeJSON reads a JSON body into v, rejecting unknown fields.
func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}
