package service

import (
	"errors"
	"strings"
)

var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrDuplicateUsername  = errors.New("username already taken")
	ErrPasswordMismatch   = errors.New("passwords do not match")
	ErrInvalidCredentials = errors.New("invalid username and/or password")
)

// FieldError ties one form field to the rule it broke. Kind is one of the
// sentinel errors above.
type FieldError struct {
	Field   string
	Kind    error
	Message string
}

// Code is the wire identifier for the kind of violation.
func (f FieldError) Code() string {
	switch {
	case errors.Is(f.Kind, ErrDuplicateUsername):
		return "duplicate_username"
	case errors.Is(f.Kind, ErrPasswordMismatch):
		return "password_mismatch"
	default:
		return "invalid_input"
	}
}

// ValidationError carries every field error found on a form.
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

// Is lets errors.Is match a ValidationError against any field kind it holds.
func (e *ValidationError) Is(target error) bool {
	for _, f := range e.Fields {
		if errors.Is(f.Kind, target) {
			return true
		}
	}
	return false
}

func (e *ValidationError) add(field string, kind error, message string) {
	e.Fields = append(e.Fields, FieldError{Field: field, Kind: kind, Message: message})
}

func (e *ValidationError) empty() bool {
	return len(e.Fields) == 0
}

func (e *ValidationError) has(field string) bool {
	for _, f := range e.Fields {
		if f.Field == field {
			return true
		}
	}
	return false
}

func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}
