package game

import (
	"errors"
	"fmt"
)

var (
	ErrAlreadyWon        = errors.New("already won")
	ErrAttemptsExhausted = errors.New("attempts exhausted")

	// ErrQuotaExceeded is returned by remote suppliers when the upstream
	// service refuses to serve more random data.
	ErrQuotaExceeded = errors.New("random source quota exceeded")
	ErrSupplyTimeout = errors.New("secret code supply timed out")
)

// ValidationError reports a malformed code or an invalid configuration value.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return "invalid input: " + e.Reason
	}
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func invalid(field, format string, args ...any) *ValidationError {
	return &ValidationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// StateError reports an operation against a game in a terminal state.
type StateError struct {
	Err error // ErrAlreadyWon | ErrAttemptsExhausted
}

func (e *StateError) Error() string { return "game over: " + e.Err.Error() }

func (e *StateError) Unwrap() error { return e.Err }

// SupplyError wraps a failure of the secret code source during Build.
type SupplyError struct {
	Source SecretSource
	Err    error
}

func (e *SupplyError) Error() string {
	return fmt.Sprintf("supply secret code (%s): %v", e.Source, e.Err)
}

func (e *SupplyError) Unwrap() error { return e.Err }

func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

func IsState(err error) bool {
	var se *StateError
	return errors.As(err, &se)
}

func IsSupply(err error) bool {
	var se *SupplyError
	return errors.As(err, &se)
}
