package user

import "errors"

var (
	// ErrNotFound is returned when a user doesn't exist
	ErrNotFound = errors.New("user not found")

	// ErrEmailTaken is returned when registering with an email already in use
	ErrEmailTaken = errors.New("email already registered")
)
