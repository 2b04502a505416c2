package domain

import "errors"

// Error message string constants - single source of truth for error messages
// Use these in assert.Contains() checks when testing error messages
const (
	// Engine errors
	ErrMsgInvalidLevel    = "invalid level"
	ErrMsgInvalidDelta    = "invalid progression delta"
	ErrMsgDivisionByZero  = "division by zero"
	ErrMsgInvalidFactor   = "invalid boost factor"
	ErrMsgInvalidModifier = "invalid boost modifier"

	// Profile errors
	ErrMsgProfileNotFound = "profile not found"
	ErrMsgUnknownBoost    = "unknown boost"

	// Snapshot errors
	ErrMsgUnsupportedSnapshot = "unsupported snapshot version"
	ErrMsgMalformedSnapshot   = "malformed snapshot"

	// Input errors
	ErrMsgInvalidInput = "invalid input"
)

// Common domain errors
// These errors should be used consistently across all layers of the application.
// Wrap these errors with fmt.Errorf("%w: %s", domain.ErrXxx, details) for additional context.
var (
	// ErrInvalidLevel is returned for a level argument below 1.
	ErrInvalidLevel = errors.New(ErrMsgInvalidLevel)
	// ErrInvalidDelta is returned for a negative progression delta.
	ErrInvalidDelta = errors.New(ErrMsgInvalidDelta)
	// ErrDivisionByZero is returned when dividing by the zero scaled number.
	ErrDivisionByZero = errors.New(ErrMsgDivisionByZero)
	// ErrInvalidFactor is returned when a boost factor is negative or not finite.
	ErrInvalidFactor   = errors.New(ErrMsgInvalidFactor)
	ErrInvalidModifier = errors.New(ErrMsgInvalidModifier)

	ErrProfileNotFound = errors.New(ErrMsgProfileNotFound)
	ErrUnknownBoost    = errors.New(ErrMsgUnknownBoost)

	ErrUnsupportedSnapshot = errors.New(ErrMsgUnsupportedSnapshot)
	ErrMalformedSnapshot   = errors.New(ErrMsgMalformedSnapshot)

	ErrInvalidInput = errors.New(ErrMsgInvalidInput)
)

// IsContractViolation reports whether err is one of the engine's caller-side
// validation failures. These are never transient and must not be retried.
func IsContractViolation(err error) bool {
	return errors.Is(err, ErrInvalidLevel) ||
		errors.Is(err, ErrInvalidDelta) ||
		errors.Is(err, ErrDivisionByZero) ||
		errors.Is(err, ErrInvalidFactor)
}
