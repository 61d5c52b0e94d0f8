// Package apperr defines the error categories shared by the quoting engine and
// its surfaces. Domain packages declare their sentinels with these
// constructors so callers can branch with errors.As / errors.Is.
package apperr

import (
	"errors"
	"fmt"
)

// ValidationError reports malformed or missing input. It is never defaulted.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return "validation_failed: " + e.Reason
	}
	return fmt.Sprintf("invalid_%s: %s", e.Field, e.Reason)
}

// Validation returns a new ValidationError.
func Validation(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

// NotFoundError reports a reference with no corresponding priced record.
type NotFoundError struct {
	Kind string
	ID   string
}

func (e *NotFoundError) Error() string {
	if e.ID == "" {
		return e.Kind + "_not_found"
	}
	return fmt.Sprintf("%s_not_found: %s", e.Kind, e.ID)
}

// NotFound returns a new NotFoundError.
func NotFound(kind, id string) *NotFoundError {
	return &NotFoundError{Kind: kind, ID: id}
}

// CatalogUnavailableError reports that pricing or labor data could not be
// read, or was read but is inconsistent. Callers may retry.
type CatalogUnavailableError struct {
	Op  string
	Err error
}

func (e *CatalogUnavailableError) Error() string {
	if e.Err == nil {
		return "catalog_unavailable: " + e.Op
	}
	return fmt.Sprintf("catalog_unavailable: %s: %v", e.Op, e.Err)
}

func (e *CatalogUnavailableError) Unwrap() error { return e.Err }

// Retryable is always true for catalog failures.
func (e *CatalogUnavailableError) Retryable() bool { return true }

// CatalogUnavailable wraps err as a CatalogUnavailableError.
func CatalogUnavailable(op string, err error) *CatalogUnavailableError {
	return &CatalogUnavailableError{Op: op, Err: err}
}

func IsValidation(err error) bool {
	var target *ValidationError
	return errors.As(err, &target)
}

func IsNotFound(err error) bool {
	var target *NotFoundError
	return errors.As(err, &target)
}

func IsCatalogUnavailable(err error) bool {
	var target *CatalogUnavailableError
	return errors.As(err, &target)
}
