package workflow

import "errors"

// Error kinds surfaced by the engine and its stores. Callers distinguish
// them with errors.Is; the HTTP layer maps each kind to a status code.
var (
	// ErrNotFound means the referenced session or date does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidState means the operation is illegal in the session's
	// current lifecycle state, e.g. logging against a completed session.
	ErrInvalidState = errors.New("invalid state")

	// ErrConflict means a uniqueness constraint rejected a concurrent
	// write. The losing caller should re-read state and decide.
	ErrConflict = errors.New("conflict")

	// ErrPlanExhausted means every trackable target is met; the caller
	// should finish the session instead of logging another set.
	ErrPlanExhausted = errors.New("plan exhausted")

	// ErrMalformedInput means uploaded content could not be parsed at all.
	ErrMalformedInput = errors.New("malformed input")
)
