package errs

import "errors"

var (
	// ErrChamadoNotFound — no ticket with the given id (or it was soft-deleted).
	ErrChamadoNotFound = errors.New("chamado not found")

	// ErrAlreadyCompleted — the ticket already has a completion timestamp.
	// Informational: callers treat it as a successful no-op, not a failure.
	ErrAlreadyCompleted = errors.New("chamado already completed")

	// ErrValidation — a required field is empty after trimming.
	ErrValidation = errors.New("validation failed")
)
