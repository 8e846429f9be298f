package siftgate

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// Sentinel errors mapped from server error codes. Use errors.Is() to check.
var (
	ErrTableNotFound         = errors.New("table not found")
	ErrValidationFailed      = errors.New("validation failed")
	ErrVectorDimMismatch     = errors.New("vector dimension mismatch")
	ErrUnauthorized          = errors.New("unauthorized")
	ErrProviderNotConfigured = errors.New("provider not configured")
	ErrProvider              = errors.New("upstream provider error")
)

// codeToSentinel maps server error codes to client sentinels.
var codeToSentinel = map[string]error{
	"table_not_found":          ErrTableNotFound,
	"validation_failed":        ErrValidationFailed,
	"vector_dim_mismatch":      ErrVectorDimMismatch,
	"unauthorized":             ErrUnauthorized,
	"provider_not_configured":  ErrProviderNotConfigured,
	"embedding_provider_error": ErrProvider,
	"chat_provider_error":      ErrProvider,
	"speech_provider_error":    ErrProvider,
}

// APIError is a non-2xx response from the server.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
	sentinel   error
}

func (e *APIError) Error() string {
	return fmt.Sprintf("siftgate: %s (%d): %s", e.Code, e.StatusCode, e.Message)
}

// Unwrap lets errors.Is match the mapped sentinel.
func (e *APIError) Unwrap() error {
	return e.sentinel
}

func decodeAPIError(resp *http.Response) error {
	apiErr := &APIError{StatusCode: resp.StatusCode}

	var body struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err == nil {
		apiErr.Code = body.Code
		apiErr.Message = body.Message
		apiErr.sentinel = codeToSentinel[body.Code]
	}
	return apiErr
}
