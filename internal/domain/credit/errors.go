package credit

import "errors"

var (
	// ErrInsufficientCredits is returned when the user doesn't have enough credits
	ErrInsufficientCredits = errors.New("insufficient credits")

	// ErrInvalidAmount is returned when amount is <= 0
	ErrInvalidAmount = errors.New("invalid amount: must be greater than 0")

	// ErrNotFound is returned when no balance row exists for the user
	ErrNotFound = errors.New("credit balance not found")

	ErrInternal = errors.New("internal error")
)
