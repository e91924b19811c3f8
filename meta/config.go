// Package meta implements the matching engine orchestrator.
//
// An Engine couples a compiled program with everything needed to search
// with it:
//   - Prefilter: literal-based candidate start finding (optional)
//   - Backtracker: depth-first execution of the program, one per search,
//     drawn from a pool
//   - Budget: step limit, timeout and context cancellation
//
// Strategy selection is based on the pattern: start-anchored patterns are
// tried once, plain literals are answered by the prefilter alone, and
// patterns with good prefix literals only run the backtracker at candidate
// positions.
package meta

import (
	"time"

	"github.com/coregx/regexkit/prog"
	"github.com/coregx/regexkit/syntax"
)

// Config controls engine behavior and resource limits.
//
// Example:
//
//	config := meta.DefaultConfig()
//	config.StepLimit = 1_000_000 // abort runaway searches
//	engine, err := meta.CompileWithConfig(`(a+)+$`, 0, config)
type Config struct {
	// StepLimit caps the instructions executed plus backtrack pops of one
	// search. Exceeding it aborts the search with a *MatchError.
	// 0 means unlimited.
	// Default: 0
	StepLimit int

	// Timeout bounds the wall time of one search. It is checked every few
	// hundred steps. 0 means no timeout.
	// Default: 0
	Timeout time.Duration

	// MaxMemoBits caps the failure memo of one search, one bit per
	// instruction and haystack position. Larger searches run without it.
	// 0 disables memoization.
	// Default: 32 Mi bits (4 MiB)
	MaxMemoBits int

	// MaxInsts caps the compiled program size.
	// Default: 1 << 20
	MaxInsts int

	// MaxRepeat is the largest counted repetition bound accepted by the
	// parser.
	// Default: 1000
	MaxRepeat int

	// MaxNestingDepth limits group and lookaround nesting in the parser.
	// Default: 1000
	MaxNestingDepth int

	// EnablePrefilter enables literal-based candidate finding.
	// Default: true
	EnablePrefilter bool

	// MinLiteralLen is the shortest prefix literal worth a prefilter.
	// Default: 1
	MinLiteralLen int

	// MaxLiterals limits the number of prefix literals extracted. Patterns
	// needing more get no prefilter.
	// Default: 64
	MaxLiterals int
}

// DefaultConfig returns a configuration with sensible defaults.
//
// Searches are unbounded by default, as in ICU; the failure memo keeps
// patterns without backreferences polynomial. Set StepLimit or Timeout
// when matching untrusted patterns.
func DefaultConfig() Config {
	return Config{
		StepLimit:       0,
		Timeout:         0,
		MaxMemoBits:     32 << 20,
		MaxInsts:        prog.DefaultMaxInsts,
		MaxRepeat:       syntax.DefaultMaxRepeat,
		MaxNestingDepth: syntax.DefaultMaxDepth,
		EnablePrefilter: true,
		MinLiteralLen:   1,
		MaxLiterals:     64,
	}
}

// Validate checks if the configuration is valid.
//
// Valid ranges:
//   - StepLimit: >= 0
//   - Timeout: >= 0
//   - MaxMemoBits: 0 to 1<<32
//   - MaxInsts: 16 to 1<<24
//   - MaxRepeat: 1 to 100,000
//   - MaxNestingDepth: 10 to 10,000
//   - MinLiteralLen: 1 to 64 (with prefilter)
//   - MaxLiterals: 1 to 1,000 (with prefilter)
func (c Config) Validate() error {
	if c.StepLimit < 0 {
		return &ConfigError{Field: "StepLimit", Message: "must not be negative"}
	}
	if c.Timeout < 0 {
		return &ConfigError{Field: "Timeout", Message: "must not be negative"}
	}
	if c.MaxMemoBits < 0 || c.MaxMemoBits > 1<<32 {
		return &ConfigError{Field: "MaxMemoBits", Message: "must be between 0 and 1<<32"}
	}
	if c.MaxInsts < 16 || c.MaxInsts > 1<<24 {
		return &ConfigError{Field: "MaxInsts", Message: "must be between 16 and 1<<24"}
	}
	if c.MaxRepeat < 1 || c.MaxRepeat > 100_000 {
		return &ConfigError{Field: "MaxRepeat", Message: "must be between 1 and 100,000"}
	}
	if c.MaxNestingDepth < 10 || c.MaxNestingDepth > 10_000 {
		return &ConfigError{Field: "MaxNestingDepth", Message: "must be between 10 and 10,000"}
	}

	if c.EnablePrefilter {
		if c.MinLiteralLen < 1 || c.MinLiteralLen > 64 {
			return &ConfigError{Field: "MinLiteralLen", Message: "must be between 1 and 64"}
		}
		if c.MaxLiterals < 1 || c.MaxLiterals > 1_000 {
			return &ConfigError{Field: "MaxLiterals", Message: "must be between 1 and 1,000"}
		}
	}
	return nil
}

// ConfigError represents an invalid configuration parameter.
type ConfigError struct {
	Field   string
	Message string
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	return "regexkit: invalid config: " + e.Field + ": " + e.Message
}
