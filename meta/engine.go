package meta

import (
	"context"
	"time"

	"github.com/coregx/regexkit/prefilter"
	"github.com/coregx/regexkit/prog"
	"github.com/coregx/regexkit/syntax"
)

// Engine is a compiled pattern ready for searching.
//
// An Engine is immutable after compilation apart from its statistics, and
// safe for concurrent use: every search draws its own backtracker from a
// pool.
//
// Example:
//
//	engine, err := meta.Compile(`(\w+)@(\w+)\.com`, 0)
//	if err != nil {
//	    return err
//	}
//	m, err := engine.Find(ctx, []byte("mail user@example.com"))
//	if m != nil {
//	    println(m.Group(1).String()) // "user"
//	}
type Engine struct {
	stats counters

	prog      *prog.Program
	prefilter prefilter.Prefilter
	strategy  Strategy
	config    Config

	statePool *searchStatePool
}

// Program returns the compiled program.
func (e *Engine) Program() *prog.Program {
	return e.prog
}

// Prefilter returns the prefilter, or nil if the engine has none.
func (e *Engine) Prefilter() prefilter.Prefilter {
	return e.prefilter
}

// Strategy returns the search strategy selected at compile time.
func (e *Engine) Strategy() Strategy {
	return e.strategy
}

// Config returns the configuration the engine was compiled with.
func (e *Engine) Config() Config {
	return e.config
}

// Pattern returns the source pattern.
func (e *Engine) Pattern() string {
	return e.prog.Source()
}

// Flags returns the flags the pattern was parsed with.
func (e *Engine) Flags() syntax.Flags {
	return e.prog.Flags()
}

// NumCaptures returns the number of capture groups including group 0.
func (e *Engine) NumCaptures() int {
	return e.prog.NumCaptures()
}

// SubexpNames returns the capture group names; index 0 is always "".
// Unnamed groups have empty names.
func (e *Engine) SubexpNames() []string {
	return e.prog.Names()
}

// SubexpIndex returns the index of the named group, or -1.
func (e *Engine) SubexpIndex(name string) int {
	return e.prog.GroupIndex(name)
}

// Stats returns execution statistics.
//
// Example:
//
//	stats := engine.Stats()
//	println("steps:", stats.Steps)
//	println("memo hits:", stats.MemoHits)
func (e *Engine) Stats() Stats {
	return e.stats.snapshot()
}

// ResetStats resets execution statistics to zero.
func (e *Engine) ResetStats() {
	e.stats.reset()
}

// budget builds the limits of one search.
func (e *Engine) budget(ctx context.Context) prog.Budget {
	b := prog.Budget{
		StepLimit:   e.config.StepLimit,
		MaxMemoBits: e.config.MaxMemoBits,
	}
	// Background and TODO contexts can never be done; skip polling them.
	if ctx != nil && ctx.Done() != nil {
		b.Ctx = ctx
	}
	if e.config.Timeout > 0 {
		b.Deadline = time.Now().Add(e.config.Timeout)
	}
	return b
}
