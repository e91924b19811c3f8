package syntax

import (
	"errors"
	"strconv"
)

// ErrPattern is matched by every *Error via errors.Is.
var ErrPattern = errors.New("invalid pattern")

// ErrorCode describes why a pattern failed to parse.
type ErrorCode string

const (
	ErrMissingParen          ErrorCode = "missing closing )"
	ErrUnexpectedParen       ErrorCode = "unexpected )"
	ErrMissingBracket        ErrorCode = "missing closing ]"
	ErrInvalidEscape         ErrorCode = "invalid escape sequence"
	ErrInvalidCharRange      ErrorCode = "invalid character class range"
	ErrInvalidCharClass      ErrorCode = "invalid character class"
	ErrMissingRepeatArgument ErrorCode = "missing argument to repetition operator"
	ErrInvalidRepeatOp       ErrorCode = "invalid nested repetition operator"
	ErrInvalidRepeatSize     ErrorCode = "invalid repeat count"
	ErrInvalidNamedCapture   ErrorCode = "invalid named capture"
	ErrDuplicateGroupName    ErrorCode = "duplicate capture group name"
	ErrUndefinedGroupName    ErrorCode = "reference to undefined group name"
	ErrInvalidBackref        ErrorCode = "invalid backreference"
	ErrInvalidFlag           ErrorCode = "invalid or unsupported flag"
	ErrLookbehindUnbounded   ErrorCode = "lookbehind has unbounded length"
	ErrNestingDepth          ErrorCode = "expression nests too deeply"
	ErrTrailingBackslash     ErrorCode = "trailing backslash at end of expression"
	ErrInvalidUTF8           ErrorCode = "invalid UTF-8"
)

func (c ErrorCode) String() string {
	return string(c)
}

// Error describes a failure to parse a pattern and where it happened.
type Error struct {
	Code ErrorCode
	Expr string // offending fragment
	Pos  int    // byte offset into the pattern
}

func (e *Error) Error() string {
	return "error parsing regexp: " + e.Code.String() + ": `" + e.Expr + "` (at offset " + strconv.Itoa(e.Pos) + ")"
}

// Is reports whether target is ErrPattern or an *Error with the same code.
func (e *Error) Is(target error) bool {
	if target == ErrPattern {
		return true
	}
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Code == e.Code
}
