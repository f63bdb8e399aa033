package services

import (
	"errors"
	"fmt"
)

// Auth errors. Always fatal to the connection.
var (
	ErrInvalidToken      = errors.New("invalid token")
	ErrUnverifiedContact = errors.New("email not verified")
	ErrDomainNotAllowed  = errors.New("email not allowed")
)

// Request-validity errors. Reported to the caller, never fatal.
var (
	ErrAuthRequired     = errors.New("authentication required")
	ErrTileNotFound     = errors.New("tile not found")
	ErrUserNotFound     = errors.New("user not found")
	ErrQuizNotFound     = errors.New("quiz not found")
	ErrNoQuizzes        = errors.New("no quizzes loaded")
	ErrNoActiveAttempt  = errors.New("no active attempt")
	ErrConnectionClosed = errors.New("connection closed")
)

// AlreadyClaimedError rejects a claim on an awarded tile. Not retryable.
type AlreadyClaimedError struct {
	TileName    string
	AwardeeName string
}

func (e *AlreadyClaimedError) Error() string {
	return fmt.Sprintf("tile %q already claimed by %s", e.TileName, e.AwardeeName)
}

// InsufficientStaminaError rejects a claim when stamina does not exceed the cost.
type InsufficientStaminaError struct {
	Stamina int
	Cost    int
}

func (e *InsufficientStaminaError) Error() string {
	return fmt.Sprintf("insufficient stamina: have %d, need more than %d", e.Stamina, e.Cost)
}

// ConsistencyError marks a resolved attempt that points at data which no
// longer resolves. Should never happen; surfaced as a generic failure.
type ConsistencyError struct {
	Op  string
	Err error
}

func (e *ConsistencyError) Error() string {
	return fmt.Sprintf("consistency fault in %s: %v", e.Op, e.Err)
}

func (e *ConsistencyError) Unwrap() error { return e.Err }

// IsAuthError reports whether err must terminate the connection.
func IsAuthError(err error) bool {
	return errors.Is(err, ErrInvalidToken) ||
		errors.Is(err, ErrUnverifiedContact) ||
		errors.Is(err, ErrDomainNotAllowed)
}

// IsConsistencyFault reports whether err is a data-consistency anomaly.
func IsConsistencyFault(err error) bool {
	var ce *ConsistencyError
	return errors.As(err, &ce)
}
