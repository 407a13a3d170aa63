package analytics

import "errors"

var (
	// ErrNotFound is returned when a merchant id does not resolve to a record.
	ErrNotFound = errors.New("merchant not found")

	// ErrDataAccess wraps any failure of the underlying store.
	ErrDataAccess = errors.New("data access failure")

	// ErrInvalidInput is returned for malformed parameters such as a non-positive window.
	ErrInvalidInput = errors.New("invalid input")
)
