package errors

import (
	"fmt"
	"strings"
)

// TransportError is a non-2xx response or a network failure. StatusCode is
// zero for network failures, in which case Cause holds the underlying error.
type TransportError struct {
	Action     string
	StatusCode int
	Status     string
	Message    string
	Cause      error
}

func (e *TransportError) Error() string {
	var sb strings.Builder
	sb.WriteString("request failed")
	if e.Action != "" {
		sb.WriteString(" (" + e.Action + ")")
	}
	if e.StatusCode != 0 {
		sb.WriteString(fmt.Sprintf(": %d", e.StatusCode))
		if e.Status != "" {
			sb.WriteString(" " + e.Status)
		}
	}
	if e.Message != "" {
		sb.WriteString(": " + e.Message)
	} else if e.Cause != nil {
		sb.WriteString(": " + e.Cause.Error())
	}
	return sb.String()
}

func (e *TransportError) Unwrap() error {
	return e.Cause
}

// ShapeError means a response body could not be read as an object or array
type ShapeError struct {
	Kind   string
	Reason string
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("unexpected %s response shape: %s", e.Kind, e.Reason)
}

// FieldError is a single failed validation rule
type FieldError struct {
	Field   string
	Message string
}

// ValidationError lists every invalid field of a rejected input
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		msgs = append(msgs, f.Field+": "+f.Message)
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

// Has reports whether field failed validation
func (e *ValidationError) Has(field string) bool {
	for _, f := range e.Fields {
		if f.Field == field {
			return true
		}
	}
	return false
}

// NoCredentialError is returned by writes attempted without a session token
// or an applicable API key
type NoCredentialError struct {
	Action string
}

func (e *NoCredentialError) Error() string {
	return fmt.Sprintf("%s requires a signed-in session or an API key", e.Action)
}

// NotFoundErr is returned when a single record lookup has no match
type NotFoundErr struct {
	Resource string
	ID       string
}

func (e *NotFoundErr) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}
