// services/errors.go
package services

import "errors"

// Every rejected precondition fails the whole action with one of these.
// Handlers translate them to HTTP statuses; nothing is retried internally.
var (
	ErrAlreadyCheckedIn       = errors.New("already checked in today")
	ErrEmptyActionLabel       = errors.New("action label must not be empty")
	ErrSelfEndorsement        = errors.New("cannot endorse yourself")
	ErrDuplicateEndorsement   = errors.New("endorsement already recorded")
	ErrInsufficientReputation = errors.New("insufficient reputation to endorse")

	ErrBadgeOutOfRange = errors.New("badge index out of range")
	ErrBadgeLocked     = errors.New("badge not unlocked")
	ErrAlreadyMinted   = errors.New("badge already minted")
	ErrBadgeNotFound   = errors.New("badge not found")
	ErrTokenNotFound   = errors.New("token not found")
	ErrNonTransferable = errors.New("badge tokens are non-transferable")

	ErrUnauthorized = errors.New("administrator privileges required")
)
