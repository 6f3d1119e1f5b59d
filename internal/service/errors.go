package service

import (
	"errors"
	"sort"
	"strings"

	"github.com/mkarpenko/recipebox/models"
)

var (
	ErrInvalidDataProvided = errors.New("invalid data provided")
	ErrWrongPassword       = errors.New("wrong password")
	ErrUserIsDisabled      = errors.New("user account is disabled")

	ErrTokenCreationFailed     = errors.New("token creation failed")
	ErrTokenIsExpiredOrInvalid = errors.New("token is expired or invalid")
)

// ValidationError carries per-field validation messages for a rejected
// request. It is returned by the service layer and rendered by the HTTP
// layer as a field-keyed JSON object with status 400.
type ValidationError struct {
	Fields models.ValidationErrors
}

// NewValidationError returns an empty ValidationError ready to collect
// field messages.
func NewValidationError() *ValidationError {
	return &ValidationError{Fields: models.ValidationErrors{}}
}

// Add appends a message to the given field's error list.
func (e *ValidationError) Add(field, message string) {
	e.Fields.Add(field, message)
}

// Empty reports whether no field messages were collected.
func (e *ValidationError) Empty() bool {
	return len(e.Fields) == 0
}

// Error renders the collected messages as "field: msg1, msg2; ..." with
// fields in alphabetical order so the output is stable.
func (e *ValidationError) Error() string {
	fields := make([]string, 0, len(e.Fields))
	for field := range e.Fields {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, field := range fields {
		parts = append(parts, field+": "+strings.Join(e.Fields[field], ", "))
	}

	return "validation failed: " + strings.Join(parts, "; ")
}
