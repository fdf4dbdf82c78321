package errors

import "errors"

var (
	ErrNotFound = errors.New("booking not found")

	ErrInvalidID = errors.New("invalid booking ID format")

	// ErrStatusChanged means the booking exists but its status no longer
	// matches the one the update was based on.
	ErrStatusChanged = errors.New("booking status changed concurrently")
)
