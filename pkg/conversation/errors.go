package conversation

import (
	"errors"
	"fmt"
)

// Sentinel errors for common conditions.
var (
	// ErrNotConfigured is returned when no backend credentials are set.
	ErrNotConfigured = errors.New("conversation: backend not configured")

	// ErrEmptyInput is returned when asked to respond to nothing.
	ErrEmptyInput = errors.New("conversation: empty input")

	// ErrNoChoices is returned when the API reply contains no completions.
	ErrNoChoices = errors.New("conversation: no choices returned")
)

// Spoken fallbacks. Respond hands these to the caller so the companion
// still says something useful when the backend is down or missing.
const (
	// ApologyNotConfigured is spoken when no API key is set.
	ApologyNotConfigured = "I'm sorry, but I'm not configured properly. Please set up your OpenAI API key."

	// ApologyRequestFailed is spoken when the backend request fails.
	ApologyRequestFailed = "I'm sorry, I encountered an error processing your request."
)

// APIError represents an error response from the chat API.
type APIError struct {
	// StatusCode is the HTTP status code.
	StatusCode int

	// Message is the error message from the API.
	Message string

	// Code is the error code (if provided).
	Code string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("conversation: API error %d (%s): %s", e.StatusCode, e.Code, e.Message)
	}
	return fmt.Sprintf("conversation: API error %d: %s", e.StatusCode, e.Message)
}

// IsRateLimited returns true if this is a rate limit error (HTTP 429).
func (e *APIError) IsRateLimited() bool {
	return e.StatusCode == 429
}

// IsUnauthorized returns true if this is an authentication error (HTTP 401).
func (e *APIError) IsUnauthorized() bool {
	return e.StatusCode == 401
}

// IsServerError returns true if this is a server-side error (HTTP 5xx).
func (e *APIError) IsServerError() bool {
	return e.StatusCode >= 500 && e.StatusCode < 600
}

// IsRetryable returns true if the request should be retried.
func (e *APIError) IsRetryable() bool {
	return e.IsRateLimited() || e.IsServerError()
}
