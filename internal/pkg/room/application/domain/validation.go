package room

import (
	"fmt"
	"strings"
)

// FailureKind tags a ValidationError with exactly one failure category.
type FailureKind int

const (
	FailureBadRequest FailureKind = iota
	FailureNotFound
	FailureNotAuthorized
)

func (k FailureKind) String() string {
	switch k {
	case FailureBadRequest:
		return "BadRequest"
	case FailureNotFound:
		return "NotFound"
	case FailureNotAuthorized:
		return "NotAuthorized"
	default:
		return fmt.Sprintf("FailureKind(%d)", int(k))
	}
}

// FieldFailure is one field-level message inside a ValidationError.
type FieldFailure struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError is the typed failure returned by room operations.
// A failed operation carries exactly one kind with one or more field/message
// pairs; a successful operation never carries a failure payload.
type ValidationError struct {
	Kind     FailureKind
	Failures []FieldFailure
}

func (e *ValidationError) Error() string {
	if e == nil {
		return ""
	}
	parts := make([]string, 0, len(e.Failures))
	for _, f := range e.Failures {
		parts = append(parts, fmt.Sprintf("%s: %s", f.Field, f.Message))
	}
	return fmt.Sprintf("%s: %s", e.Kind, strings.Join(parts, "; "))
}

// NewBadRequest builds a BadRequest validation failure for a single field.
func NewBadRequest(field, message string) *ValidationError {
	return &ValidationError{
		Kind:     FailureBadRequest,
		Failures: []FieldFailure{{Field: field, Message: message}},
	}
}

// NewNotFound builds a NotFound validation failure for a single field.
func NewNotFound(field, message string) *ValidationError {
	return &ValidationError{
		Kind:     FailureNotFound,
		Failures: []FieldFailure{{Field: field, Message: message}},
	}
}

// NewNotAuthorized builds a NotAuthorized validation failure for a single field.
func NewNotAuthorized(field, message string) *ValidationError {
	return &ValidationError{
		Kind:     FailureNotAuthorized,
		Failures: []FieldFailure{{Field: field, Message: message}},
	}
}
