// Package shared contains common domain types, errors, and audit actions
// that are used across all domain packages. This package has zero external dependencies.
package shared

import (
	"errors"
	"fmt"
)

// Base domain errors that can be used for error checking with errors.Is().
var (
	// Entity errors
	ErrNotFound      = errors.New("entity not found")
	ErrAlreadyExists = errors.New("entity already exists")

	// Validation errors
	ErrValidation      = errors.New("validation error")
	ErrInvalidID       = errors.New("invalid ID")
	ErrInvalidInput    = errors.New("invalid input")
	ErrEmptyValue      = errors.New("value cannot be empty")
	ErrValueOutOfRange = errors.New("value out of range")
	ErrInvalidFormat   = errors.New("invalid format")

	// I/O errors
	ErrIO = errors.New("i/o error")

	// Authorization errors
	ErrUnauthorized = errors.New("unauthorized")
)

// DomainError represents a domain-specific error with context.
type DomainError struct {
	Domain  string // e.g., "student", "course", "roster", "storage"
	Op      string // Operation that failed, e.g., "Create", "SetAge"
	Kind    error  // Base error type for errors.Is() checking
	Field   string // Offending field or id, if any
	Message string // Human-readable message
	Err     error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s.%s: %s: %v", e.Domain, e.Op, e.Message, e.Err)
	}
	return fmt.Sprintf("%s.%s: %s", e.Domain, e.Op, e.Message)
}

// Unwrap returns the underlying error for errors.Unwrap().
func (e *DomainError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return e.Kind
}

// Is implements errors.Is() matching.
func (e *DomainError) Is(target error) bool {
	if e.Kind != nil && errors.Is(e.Kind, target) {
		return true
	}
	if e.Err != nil && errors.Is(e.Err, target) {
		return true
	}
	return false
}

// NewDomainError creates a new domain error.
func NewDomainError(domain, op string, kind error, message string) *DomainError {
	return &DomainError{
		Domain:  domain,
		Op:      op,
		Kind:    kind,
		Message: message,
	}
}

// WrapError wraps an existing error with domain context.
func WrapError(domain, op string, kind error, message string, err error) *DomainError {
	return &DomainError{
		Domain:  domain,
		Op:      op,
		Kind:    kind,
		Message: message,
		Err:     err,
	}
}

// validationKind wraps a finer validation kind so that it also matches ErrValidation.
type validationKind struct {
	kind error
}

func (v validationKind) Error() string { return v.kind.Error() }

func (v validationKind) Is(target error) bool {
	return target == ErrValidation || errors.Is(v.kind, target)
}

// NewValidationError creates a validation error naming the offending field.
// kind refines the failure (ErrValueOutOfRange, ErrInvalidFormat, ...) and may be nil.
func NewValidationError(domain, op, field string, kind error, message string) *DomainError {
	k := error(ErrValidation)
	if kind != nil && kind != ErrValidation {
		k = validationKind{kind: kind}
	}
	return &DomainError{
		Domain:  domain,
		Op:      op,
		Kind:    k,
		Field:   field,
		Message: message,
	}
}

// NewNotFoundError creates a not-found error naming the missing id.
func NewNotFoundError(domain, op, id string) *DomainError {
	return &DomainError{
		Domain:  domain,
		Op:      op,
		Kind:    ErrNotFound,
		Field:   id,
		Message: fmt.Sprintf("%s not found with ID: %s", domain, id),
	}
}

// WrapIOError wraps a persistence or sink failure.
func WrapIOError(domain, op, message string, err error) *DomainError {
	return WrapError(domain, op, ErrIO, message, err)
}

// Roster domain errors
var (
	ErrInvalidCredentials    = NewDomainError("auth", "Login", ErrUnauthorized, "invalid credentials")
	ErrLoginAttemptsExceeded = NewDomainError("auth", "Login", ErrUnauthorized, "maximum login attempts reached")
)

// IsNotFound checks if the error is a "not found" error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsAlreadyExists checks if the error is an "already exists" error.
func IsAlreadyExists(err error) bool {
	return errors.Is(err, ErrAlreadyExists)
}

// IsValidation checks if the error is a validation error.
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation) ||
		errors.Is(err, ErrInvalidID) ||
		errors.Is(err, ErrInvalidInput) ||
		errors.Is(err, ErrEmptyValue) ||
		errors.Is(err, ErrValueOutOfRange) ||
		errors.Is(err, ErrInvalidFormat)
}

// IsIO checks if the error is a persistence or sink failure.
func IsIO(err error) bool {
	return errors.Is(err, ErrIO)
}

// IsUnauthorized checks if the error is an authorization failure.
func IsUnauthorized(err error) bool {
	return errors.Is(err, ErrUnauthorized)
}

// Message returns the human-readable part of a domain error, falling back to err.Error().
// It is what the console shows: it names the field or id without the op prefix.
func Message(err error) string {
	if err == nil {
		return ""
	}
	var de *DomainError
	if errors.As(err, &de) {
		if de.Err != nil {
			return fmt.Sprintf("%s: %v", de.Message, de.Err)
		}
		return de.Message
	}
	return err.Error()
}
