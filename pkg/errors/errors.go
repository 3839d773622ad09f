package errors

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorType categorizes different error types
type ErrorType string

const (
	// Network errors
	ErrorTypeNetwork ErrorType = "network"
	ErrorTypeTimeout ErrorType = "timeout"
	ErrorTypeHTTP    ErrorType = "http"

	// Authentication errors
	ErrorTypeAuth         ErrorType = "auth"
	ErrorTypeNoCredential ErrorType = "no_credential"
	ErrorTypeForbidden    ErrorType = "forbidden"

	// Input errors
	ErrorTypeValidation ErrorType = "validation"
	ErrorTypeShape      ErrorType = "shape"

	// Server errors
	ErrorTypeServer    ErrorType = "server"
	ErrorTypeNotFound  ErrorType = "not_found"
	ErrorTypeRateLimit ErrorType = "rate_limit"

	ErrorTypeUnknown ErrorType = "unknown"
)

// CLIError represents a structured error with context
type CLIError struct {
	Type       ErrorType
	Message    string
	Cause      error
	Suggestion string
	StatusCode int
}

// Error implements the error interface
func (e *CLIError) Error() string {
	return e.Message
}

// WithSuggestion adds a helpful suggestion to the error
func (e *CLIError) WithSuggestion(suggestion string) *CLIError {
	e.Suggestion = suggestion
	return e
}

// HasSuggestion returns true if the error has a suggestion
func (e *CLIError) HasSuggestion() bool {
	return e.Suggestion != ""
}

// Unwrap returns the underlying error
func (e *CLIError) Unwrap() error {
	return e.Cause
}

// NewCLIError creates a new CLI error
func NewCLIError(errorType ErrorType, message string, cause error) *CLIError {
	return &CLIError{
		Type:    errorType,
		Message: message,
		Cause:   cause,
	}
}

// NetworkError creates a network error
func NetworkError(message string) *CLIError {
	err := NewCLIError(ErrorTypeNetwork, message, nil)
	err.Suggestion = "Check your internet connection and the api.base_url setting."
	return err
}

// TimeoutError creates a timeout error
func TimeoutError() *CLIError {
	err := NewCLIError(ErrorTypeTimeout, "Request timed out", nil)
	err.Suggestion = "The backend is taking too long to respond. Try again in a moment."
	return err
}

// AuthError creates an authentication error
func AuthError(message string) *CLIError {
	err := NewCLIError(ErrorTypeAuth, message, nil)
	err.Suggestion = "Try signing in again with 'forumctl auth login'"
	return err
}

// ForbiddenError creates a forbidden error
func ForbiddenError() *CLIError {
	err := NewCLIError(ErrorTypeForbidden, "Access denied", nil)
	err.Suggestion = "Moderation actions need an admin session."
	return err
}

// NotFoundError creates a not found error
func NotFoundError(resourceType, identifier string) *CLIError {
	return NewCLIError(ErrorTypeNotFound,
		fmt.Sprintf("%s not found: %s", resourceType, identifier),
		nil)
}

// ServerError creates a server error
func ServerError() *CLIError {
	err := NewCLIError(ErrorTypeServer, "Server error", nil)
	err.Suggestion = "The backend encountered an error. Try again in a few moments."
	return err
}

// RateLimitError creates a rate limit error
func RateLimitError() *CLIError {
	err := NewCLIError(ErrorTypeRateLimit, "Rate limit exceeded. Too many requests.", nil)
	err.Suggestion = "Please wait a minute before trying again."
	return err
}

// CategorizeError converts an error into a CLIError. Typed errors from
// this package are matched first; anything else is classified by message.
func CategorizeError(err error) *CLIError {
	if err == nil {
		return nil
	}

	var cliErr *CLIError
	if errors.As(err, &cliErr) {
		return cliErr
	}

	var validationErr *ValidationError
	if errors.As(err, &validationErr) {
		return NewCLIError(ErrorTypeValidation, validationErr.Error(), err).
			WithSuggestion("Fix the listed fields and submit again.")
	}

	var credErr *NoCredentialError
	if errors.As(err, &credErr) {
		return NewCLIError(ErrorTypeNoCredential, credErr.Error(), err).
			WithSuggestion("Run 'forumctl auth login' or set api.api_key.")
	}

	var notFound *NotFoundErr
	if errors.As(err, &notFound) {
		out := NotFoundError(notFound.Resource, notFound.ID)
		out.Cause = err
		return out
	}

	var shapeErr *ShapeError
	if errors.As(err, &shapeErr) {
		return NewCLIError(ErrorTypeShape, shapeErr.Error(), err)
	}

	var transportErr *TransportError
	if errors.As(err, &transportErr) {
		return categorizeTransport(transportErr)
	}

	errMsg := err.Error()

	switch {
	case strings.Contains(errMsg, "connection refused"):
		return NetworkError("Could not connect to the backend.")
	case strings.Contains(errMsg, "timeout"):
		return TimeoutError()
	case strings.Contains(errMsg, "context deadline exceeded"):
		return TimeoutError()
	default:
		return NewCLIError(ErrorTypeUnknown, errMsg, err)
	}
}

func categorizeTransport(e *TransportError) *CLIError {
	var out *CLIError
	switch {
	case e.StatusCode == 0:
		out = NetworkError(e.Error())
	case e.StatusCode == 401:
		out = AuthError(e.Error())
	case e.StatusCode == 403:
		out = ForbiddenError()
		out.Message = e.Error()
	case e.StatusCode == 404:
		out = NewCLIError(ErrorTypeNotFound, e.Error(), nil)
	case e.StatusCode == 429:
		out = RateLimitError()
	case e.StatusCode >= 500:
		out = ServerError()
		out.Message = e.Error()
	default:
		out = NewCLIError(ErrorTypeHTTP, e.Error(), nil)
	}
	out.Cause = e
	out.StatusCode = e.StatusCode
	return out
}

// FormatError returns a user-friendly error message
func FormatError(err error) string {
	if err == nil {
		return ""
	}

	cliErr := CategorizeError(err)
	var sb strings.Builder

	sb.WriteString("Error")
	if cliErr.Type != ErrorTypeUnknown {
		sb.WriteString(" (")
		sb.WriteString(string(cliErr.Type))
		sb.WriteString(")")
	}
	sb.WriteString(": ")
	sb.WriteString(cliErr.Message)
	sb.WriteString("\n")

	if cliErr.HasSuggestion() {
		sb.WriteString("\nSuggestion: ")
		sb.WriteString(cliErr.Suggestion)
		sb.WriteString("\n")
	}

	return sb.String()
}
