package usecase

import "errors"

// Failure categories surfaced by the engine. Handlers map them to
// HTTP statuses; everything else is a 500.
var (
	ErrInsufficientData     = errors.New("insufficient history")
	ErrModelFailure         = errors.New("model failure")
	ErrComputationUndefined = errors.New("computation undefined for input")
	ErrExternalFetch        = errors.New("external fetch failed")
)
