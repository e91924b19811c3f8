package meta

import (
	"context"
	"errors"
	"fmt"

	"github.com/coregx/regexkit/prog"
)

// ErrTimeout matches every *MatchError: the search ran out of budget
// before it could decide whether the pattern matches.
var ErrTimeout = errors.New("regexkit: match budget exceeded")

// AbortKind says which budget stopped a search.
type AbortKind uint8

const (
	// AbortStepLimit means Config.StepLimit was reached.
	AbortStepLimit AbortKind = iota + 1

	// AbortTimeout means Config.Timeout or the context deadline passed.
	AbortTimeout

	// AbortCanceled means the context was canceled.
	AbortCanceled
)

func (k AbortKind) String() string {
	switch k {
	case AbortStepLimit:
		return "step limit"
	case AbortTimeout:
		return "timeout"
	case AbortCanceled:
		return "canceled"
	}
	return fmt.Sprintf("AbortKind(%d)", uint8(k))
}

// MatchError reports a search abandoned because its budget ran out.
//
// errors.Is(err, ErrTimeout) holds for every MatchError; the underlying
// cause (prog.ErrStepLimit, prog.ErrDeadline or a context error) is
// available through Unwrap.
type MatchError struct {
	Kind    AbortKind
	Pattern string
	Steps   int
	Err     error
}

// Error implements the error interface.
func (e *MatchError) Error() string {
	return fmt.Sprintf("regexkit: search aborted (%s) after %d steps for pattern %q", e.Kind, e.Steps, e.Pattern)
}

// Unwrap returns the underlying cause.
func (e *MatchError) Unwrap() error {
	return e.Err
}

// Is reports whether target is ErrTimeout.
func (e *MatchError) Is(target error) bool {
	return target == ErrTimeout
}

func newMatchError(pattern string, steps int, err error) *MatchError {
	me := &MatchError{Pattern: pattern, Steps: steps, Err: err}
	switch {
	case errors.Is(err, prog.ErrStepLimit):
		me.Kind = AbortStepLimit
	case errors.Is(err, prog.ErrDeadline), errors.Is(err, context.DeadlineExceeded):
		me.Kind = AbortTimeout
	default:
		me.Kind = AbortCanceled
	}
	return me
}
