package domain

import (
	"errors"
	"strings"
)

var (
	ErrNotFound      = errors.New("project not found")
	ErrDuplicateName = errors.New("project name already exists")
	ErrForbidden     = errors.New("not a member of this project")
	ErrValidation    = errors.New("invalid input")
)

// FieldError describes one rejected input field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError carries the per-field reasons for rejecting a request.
// errors.Is(err, ErrValidation) holds for every ValidationError.
type ValidationError struct {
	Fields []FieldError
}

func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Fields: []FieldError{{Field: field, Message: message}}}
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Message)
	}
	return "invalid input: " + strings.Join(parts, "; ")
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}
