package domain

import "errors"

var (
	// ErrNotFound is returned when an entity doesn't exist
	ErrNotFound = errors.New("not found")

	// ErrDuplicate is returned when a uniqueness constraint is violated
	ErrDuplicate = errors.New("already exists")

	// ErrInvalid is returned when an entity fails validation
	ErrInvalid = errors.New("invalid")
)
