package services

import (
	"errors"
	"fmt"
	"strings"
)

// Error kinds. Every error a service returns wraps exactly one of these, and
// handlers map the kind to a status code.
var (
	ErrValidation       = errors.New("validation failed")
	ErrInvalidReference = errors.New("invalid reference")
	ErrUnauthorized     = errors.New("unauthorized")
	ErrNotFound         = errors.New("not found")
	ErrConflict         = errors.New("conflict")
)

var (
	ErrUserNotFound       = fmt.Errorf("%w: user not found", ErrNotFound)
	ErrProjectNotFound    = fmt.Errorf("%w: project not found", ErrNotFound)
	ErrTaskNotFound       = fmt.Errorf("%w: task not found", ErrNotFound)
	ErrNoProjectsFound    = fmt.Errorf("%w: no projects found", ErrNotFound)
	ErrNoTasksFound       = fmt.Errorf("%w: no tasks found", ErrNotFound)
	ErrEmailTaken         = fmt.Errorf("%w: email already registered", ErrConflict)
	ErrInvalidCredentials = fmt.Errorf("%w: invalid password", ErrUnauthorized)
	ErrAccountArchived    = fmt.Errorf("%w: account is archived", ErrUnauthorized)
	ErrNotSelf            = fmt.Errorf("%w: cannot modify another user", ErrUnauthorized)
	ErrForeignPassword    = fmt.Errorf("%w: cannot change another user's password", ErrUnauthorized)
	ErrNoFieldsToUpdate   = fmt.Errorf("%w: no fields to update", ErrValidation)
)

// InvalidReferenceError lists the referenced IDs that do not resolve to a
// live record.
type InvalidReferenceError struct {
	Field string
	IDs   []string
}

func (e *InvalidReferenceError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, strings.Join(e.IDs, ", "))
}

// Is makes errors.Is(err, ErrInvalidReference) match.
func (e *InvalidReferenceError) Is(target error) bool {
	return target == ErrInvalidReference
}

func validationError(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}
