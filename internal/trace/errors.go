package trace

import (
	"errors"
	"fmt"
)

var (
	// ErrTaskBudget indicates the loop ran more macrotasks than allowed,
	// usually an interval that is never cleared.
	ErrTaskBudget = errors.New("trace: task budget exhausted")

	// ErrInterrupted indicates the run was cancelled through its context.
	ErrInterrupted = errors.New("trace: interrupted")
)

// ScriptError reports code that failed to compile.
type ScriptError struct {
	Message string
	Wrapped error
}

func (e *ScriptError) Error() string {
	return fmt.Sprintf("trace: script error: %s", e.Message)
}

func (e *ScriptError) Unwrap() error {
	return e.Wrapped
}
