package generation

import "errors"

var (
	ErrNotFound = errors.New("generation not found")
	ErrInternal = errors.New("internal error")
)
