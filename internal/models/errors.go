package models

import (
	"errors"
	"fmt"
)

// ErrorCode is a machine-readable error classification surfaced alongside the
// human-readable message so callers can branch without string matching.
type ErrorCode string

const (
	CodeValidation    ErrorCode = "VALIDATION_ERROR"
	CodeAuthorization ErrorCode = "ACCESS_DENIED"
	CodeNotFound      ErrorCode = "NOT_FOUND"
	CodeConflict      ErrorCode = "CONFLICT"
	CodeUpstream      ErrorCode = "UPSTREAM_ERROR"
	CodeParse         ErrorCode = "PARSE_ERROR"
	CodeRateLimit     ErrorCode = "RATE_LIMITED"
	CodeNoAIProvider  ErrorCode = "NO_AI_INTEGRATION"
)

// DomainError carries the error taxonomy for synchronous request paths: a
// machine code, a human message, and the offending field where one applies.
type DomainError struct {
	Code    ErrorCode
	Message string
	Field   string
	Details map[string]interface{}
	cause   error
}

func (e *DomainError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s (field: %s)", e.Code, e.Message, e.Field)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *DomainError) Unwrap() error {
	return e.cause
}

// NewValidationError reports malformed or out-of-range user input.
func NewValidationError(message, field string) *DomainError {
	return &DomainError{Code: CodeValidation, Message: message, Field: field}
}

// NewAuthorizationError reports access to a resource the caller does not own.
func NewAuthorizationError(message string) *DomainError {
	return &DomainError{Code: CodeAuthorization, Message: message}
}

// NewNotFoundError reports a missing resource.
func NewNotFoundError(message string) *DomainError {
	return &DomainError{Code: CodeNotFound, Message: message}
}

// NewConflictError reports an operation invalid in the resource's current state.
func NewConflictError(message string) *DomainError {
	return &DomainError{Code: CodeConflict, Message: message}
}

// NewUpstreamError reports a rejected or failed call to an external provider.
func NewUpstreamError(message string, cause error) *DomainError {
	return &DomainError{Code: CodeUpstream, Message: message, cause: cause}
}

// NewParseError reports AI output that could not be parsed as structured data.
// Parse failures are hard errors: substituting a default would corrupt every
// downstream generation step.
func NewParseError(message string, cause error) *DomainError {
	return &DomainError{Code: CodeParse, Message: message, cause: cause}
}

// NewRateLimitError reports the per-user concurrent job ceiling being hit.
func NewRateLimitError(message string, current, limit int) *DomainError {
	return &DomainError{
		Code:    CodeRateLimit,
		Message: message,
		Details: map[string]interface{}{"current": current, "limit": limit},
	}
}

// ErrNoAIIntegration is returned before any network call when a user has no
// configured AI provider.
var ErrNoAIIntegration = &DomainError{
	Code:    CodeNoAIProvider,
	Message: "no active AI integration found (Gemini, OpenAI or Claude); configure an integration first",
}

// IsCode reports whether err is a DomainError with the given code.
func IsCode(err error, code ErrorCode) bool {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Code == code
	}
	return false
}
