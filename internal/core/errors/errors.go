// Package errors defines custom error types for the provision library.
package errors

import "fmt"

// DomainError represents errors in the profile lifecycle domain logic.
type DomainError struct {
	Code    string
	Message string
	Err     error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// Is reports whether target is the same domain error, matched by code.
// Wrapped copies produced by NewDomainError share the code of their base
// sentinel, so errors.Is(err, ErrAppNotFound) works on wrapped values.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// Common domain errors
var (
	ErrMissingParameter = &DomainError{
		Code:    "MISSING_PARAMETER",
		Message: "required parameter is missing",
	}

	ErrAppNotFound = &DomainError{
		Code:    "APP_NOT_FOUND",
		Message: "no app registered for the given bundle id",
	}

	ErrUnknownDistributionMethod = &DomainError{
		Code:    "UNKNOWN_DISTRIBUTION_METHOD",
		Message: "portal returned an unrecognized distribution method",
	}

	ErrNoCertificateAvailable = &DomainError{
		Code:    "NO_CERTIFICATE_AVAILABLE",
		Message: "no signing certificate of the required kind is available",
	}

	ErrProfileNotFoundAfterRepair = &DomainError{
		Code:    "PROFILE_NOT_FOUND_AFTER_REPAIR",
		Message: "repaired profile could not be located by name",
	}
)

// NewDomainError creates a new domain error with context
func NewDomainError(base *DomainError, err error) error {
	return &DomainError{
		Code:    base.Code,
		Message: base.Message,
		Err:     err,
	}
}

// ValidationError represents input validation errors
type ValidationError struct {
	Field   string
	Value   interface{}
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed for field '%s': %s (value: %v)", e.Field, e.Message, e.Value)
}
