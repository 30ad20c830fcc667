package store

import "errors"

// Error kinds surfaced by stock-affecting operations. Callers match with
// errors.Is; the API layer maps them to HTTP statuses.
var (
	// ErrInvalidInput marks malformed requests: empty line lists, missing
	// fields, or non-positive quantities.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotFound marks a reference to an inventory id that does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInsufficientStock marks a requested quantity exceeding current stock.
	ErrInsufficientStock = errors.New("insufficient stock")

	// ErrConflict marks a concurrent modification that prevented an atomic
	// apply after validation had already passed.
	ErrConflict = errors.New("conflict")
)
