package service

import (
	"errors"
	"fmt"
)

// Every service failure the transport layer needs to classify is one of
// these. Anything else is an infrastructure error.
var (
	ErrNotFound           = errors.New("not found")
	ErrForbidden          = errors.New("forbidden")
	ErrInvalidInput       = errors.New("invalid input")
	ErrInvalidCredentials = errors.New("invalid credentials")

	ErrExpired      = errors.New("invite has expired")
	ErrAlreadyUsed  = errors.New("invite has already been used")
	ErrRevoked      = errors.New("invite has been revoked")
	ErrRoleMismatch = errors.New("invite is for a different role")

	// ErrConflict is the parent of every error that would break a
	// uniqueness rule. Match it with errors.Is.
	ErrConflict = errors.New("conflict")

	ErrAlreadyAssigned       = fmt.Errorf("%w: startup already has a mentor", ErrConflict)
	ErrAlreadyMember         = fmt.Errorf("%w: user already has investor access", ErrConflict)
	ErrDuplicateActiveInvite = fmt.Errorf("%w: an active mentor invite already exists", ErrConflict)
	ErrHasMembers            = fmt.Errorf("%w: startup still has mentors or investors", ErrConflict)
	ErrAlreadyExists         = fmt.Errorf("%w: already exists", ErrConflict)
)

// invalid wraps ErrInvalidInput with a field-level reason.
func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}
