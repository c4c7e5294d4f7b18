package service

import (
	"errors"
	"fmt"
)

// Error kinds surfaced by the lifecycle manager. Every conflict cause wraps
// ErrConflict, so callers can match either the kind or the specific cause.
var (
	ErrNotFound  = errors.New("registration not found")
	ErrForbidden = errors.New("requester is not allowed to access this registration")
	ErrConflict  = errors.New("registration state conflict")
)

var (
	ErrAlreadyRegistered     = fmt.Errorf("%w: user is already registered for this event", ErrConflict)
	ErrAlreadyCheckedIn      = fmt.Errorf("%w: registration is already checked in", ErrConflict)
	ErrCheckedInCannotCancel = fmt.Errorf("%w: a checked-in registration cannot be canceled", ErrConflict)
	ErrAlreadyCanceled       = fmt.Errorf("%w: registration is already canceled", ErrConflict)
)
