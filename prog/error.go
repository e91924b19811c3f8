package prog

import (
	"errors"
	"fmt"
)

// Program errors.
var (
	// ErrTooLarge indicates the program would exceed the instruction limit.
	ErrTooLarge = errors.New("program too large")

	// ErrInvalidProgram indicates a program failed structural validation.
	ErrInvalidProgram = errors.New("invalid program")

	// ErrStepLimit indicates a search exceeded its step budget.
	ErrStepLimit = errors.New("step limit exceeded")

	// ErrDeadline indicates a search ran past its deadline.
	ErrDeadline = errors.New("deadline exceeded")
)

// CompileError wraps a failure to turn a parsed pattern into a program.
type CompileError struct {
	Pattern string
	Err     error
}

// Error implements the error interface.
func (e *CompileError) Error() string {
	if e.Pattern != "" {
		return fmt.Sprintf("program compilation failed for pattern %q: %v", e.Pattern, e.Err)
	}
	return fmt.Sprintf("program compilation failed: %v", e.Err)
}

// Unwrap returns the underlying error.
func (e *CompileError) Unwrap() error {
	return e.Err
}

// BuildError reports a malformed instruction found while building or
// validating a program.
type BuildError struct {
	Message string
	Inst    InstID
}

// Error implements the error interface.
func (e *BuildError) Error() string {
	if e.Inst != InvalidInst {
		return fmt.Sprintf("program build error at instruction %d: %s", e.Inst, e.Message)
	}
	return fmt.Sprintf("program build error: %s", e.Message)
}

// Is reports whether target is ErrInvalidProgram.
func (e *BuildError) Is(target error) bool {
	return target == ErrInvalidProgram
}
