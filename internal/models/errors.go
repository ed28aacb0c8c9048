package models

import (
	"errors"
	"fmt"
)

var (
	ErrValidation     = errors.New("validation error")
	ErrEventNotFound  = errors.New("event not found")
	ErrDuplicateSlug  = errors.New("an event with this slug already exists")
	ErrEventReference = errors.New("referenced event does not exist")
	ErrUpload         = errors.New("image upload failed")
)

// ValidationError describes malformed or missing input. It matches ErrValidation.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

func NewValidationError(field, format string, args ...interface{}) *ValidationError {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// NotFoundError names the slug that matched no event. It matches ErrEventNotFound.
type NotFoundError struct {
	Slug string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("Event with slug '%s' not found", e.Slug)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrEventNotFound
}

// IntegrityError is a rejected write that conflicts with existing data,
// such as a duplicate slug or a booking for an event that does not exist.
type IntegrityError struct {
	Field string
	Value string
	Err   error
}

func (e *IntegrityError) Error() string {
	switch e.Err {
	case ErrDuplicateSlug:
		return fmt.Sprintf("event with slug '%s' already exists", e.Value)
	case ErrEventReference:
		return fmt.Sprintf("event with ID %s does not exist", e.Value)
	}
	return fmt.Sprintf("%s %q: %v", e.Field, e.Value, e.Err)
}

func (e *IntegrityError) Unwrap() error {
	return e.Err
}
