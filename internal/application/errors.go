package application

import (
	"errors"
	"fmt"

	"github.com/example/pawdesk/internal/persistence"
)

var (
	// ErrUnauthorized is returned when the acting principal lacks permission for an operation.
	ErrUnauthorized = errors.New("application: unauthorized")
	// ErrNotFound is returned when the requested resource does not exist.
	ErrNotFound = errors.New("application: not found")
	// ErrAlreadyExists is returned when a uniqueness rule is violated.
	ErrAlreadyExists = errors.New("application: already exists")
	// ErrInvalidCredentials is returned when login credentials do not match.
	ErrInvalidCredentials = errors.New("application: invalid credentials")
	// ErrSessionExpired is returned when a session token is past its expiry.
	ErrSessionExpired = errors.New("application: session expired")
	// ErrSessionRevoked is returned when a session token has been revoked.
	ErrSessionRevoked = errors.New("application: session revoked")
	// ErrInviteInvalid is returned when an invite token fails verification.
	ErrInviteInvalid = errors.New("application: invite invalid")
)

// ValidationError captures field level validation issues that callers can surface to users.
type ValidationError struct {
	FieldErrors map[string]string
}

// Error implements the error interface.
func (v *ValidationError) Error() string {
	if v == nil {
		return ""
	}
	return "validation failed"
}

// HasErrors reports whether any field level issues were recorded.
func (v *ValidationError) HasErrors() bool {
	return v != nil && len(v.FieldErrors) > 0
}

// add records a field level validation error.
func (v *ValidationError) add(field, message string) {
	if v.FieldErrors == nil {
		v.FieldErrors = make(map[string]string)
	}
	v.FieldErrors[field] = message
}

// ConfirmationRequiredError aborts a booking submission that collides with
// existing bookings until the caller explicitly confirms the double-booking.
// It carries the conflicts so they can be shown to the user.
type ConfirmationRequiredError struct {
	Conflicts []ConflictingBooking
}

// Error implements the error interface.
func (e *ConfirmationRequiredError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("booking overlaps %d existing booking(s); confirmation required", len(e.Conflicts))
}

// mapRepoError translates persistence sentinels into application sentinels.
func mapRepoError(err error) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, persistence.ErrNotFound):
		return ErrNotFound
	case errors.Is(err, persistence.ErrDuplicate):
		return ErrAlreadyExists
	case errors.Is(err, persistence.ErrConstraintViolation):
		vErr := &ValidationError{}
		vErr.add("input", "violates a data constraint")
		return vErr
	case errors.Is(err, persistence.ErrForeignKeyViolation):
		vErr := &ValidationError{}
		vErr.add("input", "references a missing record")
		return vErr
	}
	return err
}
