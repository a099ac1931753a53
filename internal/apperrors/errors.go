package apperrors

import "errors"

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrConflict indicates that the operation conflicts with the current state
// of the resource (e.g. posting into a closed period, reversing twice).
var ErrConflict = errors.New("state conflict")

// ErrProtected indicates that the resource is protected from the requested
// mutation (e.g. system accounts cannot be deleted or deactivated).
var ErrProtected = errors.New("resource is protected")

// ErrInternal indicates an infrastructure-level failure (store unreachable,
// corrupted row) as opposed to a business-rule rejection.
var ErrInternal = errors.New("internal error")

// IsRecoverable reports whether err is a business-rule rejection that a
// batch run may record and continue past. Anything outside the taxonomy is
// treated as fatal.
func IsRecoverable(err error) bool {
	return errors.Is(err, ErrValidation) ||
		errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrDuplicate) ||
		errors.Is(err, ErrConflict) ||
		errors.Is(err, ErrProtected)
}
