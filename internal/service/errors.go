package service

import (
	"errors"
	"fmt"
)

// Recoverable conditions surfaced to the transport adapter. None of
// these is fatal for the process; each maps to a user-facing reply.
var (
	// ErrProfileIncomplete means the feed was requested before the
	// profile became search-eligible.
	ErrProfileIncomplete = errors.New("profile incomplete")

	// ErrQuotaExceeded means the free application counter is exhausted
	// and the user is not premium.
	ErrQuotaExceeded = errors.New("application quota exceeded")

	// ErrVacancyNotFound means the referenced vacancy no longer exists.
	ErrVacancyNotFound = errors.New("vacancy not found")

	// ErrNoSession means an onboarding input arrived without an active
	// dialogue for the user.
	ErrNoSession = errors.New("no active onboarding session")
)

// ValidationError describes malformed user input (salary string, file
// extension, vacancy text). The dialogue re-prompts the same step; the
// stored state stays untouched.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func newValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

// AsValidation unwraps a ValidationError if err carries one.
func AsValidation(err error) (*ValidationError, bool) {
	var verr *ValidationError
	if errors.As(err, &verr) {
		return verr, true
	}
	return nil, false
}
