package scenario

import (
	"errors"
	"fmt"
)

var (
	// ErrOutOfRange indicates a scenario index outside [0, Count()).
	ErrOutOfRange = errors.New("scenario: index out of range")

	// ErrNotFound indicates no scenario matches a name.
	ErrNotFound = errors.New("scenario: not found")

	// ErrInvalid indicates authored data that breaks a store invariant.
	ErrInvalid = errors.New("scenario: invalid data")
)

// ValidationError locates an invariant violation inside a scenario set.
// Step is -1 when the problem is not tied to a single step.
type ValidationError struct {
	Scenario string
	Step     int
	Field    string
	Reason   string
}

func (e *ValidationError) Error() string {
	if e.Step < 0 {
		return fmt.Sprintf("scenario %q: %s: %s", e.Scenario, e.Field, e.Reason)
	}
	return fmt.Sprintf("scenario %q step %d: %s: %s", e.Scenario, e.Step, e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalid
}
