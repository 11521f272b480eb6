package model

import "errors"

// Common errors used across the application
var (
	// Validation errors: malformed input, resolved as a no-op
	ErrPlayerNotFound   = errors.New("player not found")
	ErrInvalidMagnitude = errors.New("score magnitude must be a positive integer")
	ErrInvalidScoreText = errors.New("score text is not an integer")
	ErrInvalidDirection = errors.New("invalid score direction")
	ErrInvalidPhase     = errors.New("invalid phase")

	// State errors: operation requested in the wrong phase
	ErrNotInSetup     = errors.New("roster can only be resized during setup")
	ErrNoResetPending = errors.New("reset has not been requested")

	// Persistence errors
	ErrSnapshotNotFound    = errors.New("snapshot not found")
	ErrInvalidSnapshot     = errors.New("snapshot is structurally invalid")
	ErrPersistenceDisabled = errors.New("persistence disabled")
)

// IsValidationError reports whether err stems from malformed user input
func IsValidationError(err error) bool {
	return errors.Is(err, ErrPlayerNotFound) ||
		errors.Is(err, ErrInvalidMagnitude) ||
		errors.Is(err, ErrInvalidScoreText) ||
		errors.Is(err, ErrInvalidDirection) ||
		errors.Is(err, ErrInvalidPhase)
}

// IsStateError reports whether err stems from an operation requested in the wrong phase
func IsStateError(err error) bool {
	return errors.Is(err, ErrNotInSetup) || errors.Is(err, ErrNoResetPending)
}
