package meta

import (
	"context"
	"slices"
	"unicode/utf8"

	"github.com/coregx/regexkit/prefilter"
	"github.com/coregx/regexkit/prog"
)

// Find returns the leftmost match in haystack, or nil if there is none.
//
// The error is non-nil only when the search was aborted by the step
// limit, the timeout or ctx; it is then a *MatchError and the match is
// nil.
//
// Example:
//
//	m, err := engine.Find(ctx, []byte("test foo123 end"))
//	if m != nil {
//	    println(m.String())
//	}
func (e *Engine) Find(ctx context.Context, haystack []byte) (*Match, error) {
	return e.FindAt(ctx, haystack, 0)
}

// FindAt returns the leftmost match starting at or after position at.
//
// Lookbehind, \b and ^ still see the bytes before at, and \G matches at
// at. Positions outside [0, len(haystack)] never match.
func (e *Engine) FindAt(ctx context.Context, haystack []byte, at int) (*Match, error) {
	if at < 0 || at > len(haystack) {
		return nil, nil
	}
	state := e.statePool.get()
	defer e.statePool.put(state)

	slots, err := e.search(ctx, state, haystack, at, at)
	if slots == nil || err != nil {
		return nil, err
	}
	return newMatch(e.prog, haystack, slots), nil
}

// IsMatch reports whether haystack contains any match.
func (e *Engine) IsMatch(ctx context.Context, haystack []byte) (bool, error) {
	state := e.statePool.get()
	defer e.statePool.put(state)

	slots, err := e.search(ctx, state, haystack, 0, 0)
	return slots != nil, err
}

// search finds the leftmost match at or after at, with \G bound to
// searchStart. It returns a fresh copy of the capture slots, or nil.
func (e *Engine) search(ctx context.Context, state *SearchState, haystack []byte, at, searchStart int) ([]int, error) {
	e.stats.searches.Add(1)

	if e.strategy == UseLiteral {
		e.stats.literal.Add(1)
		pos := e.prefilter.Find(haystack, at)
		if pos < 0 {
			return nil, nil
		}
		return []int{pos, pos + e.prefilter.LiteralLen()}, nil
	}

	bt := state.backtracker
	bt.Reset(haystack, searchStart, e.budget(ctx))
	defer func() {
		e.stats.steps.Add(uint64(bt.Steps()))
		e.stats.memoHits.Add(uint64(bt.MemoHits()))
	}()

	if e.strategy == UseAnchored {
		if at != 0 {
			return nil, nil
		}
		return e.attempt(bt, 0)
	}

	tracker := &state.tracker
	if e.strategy == UsePrefilter {
		tracker.Reset(e.prefilter, trackerConfig)
		defer e.recordPrefilter(tracker)
	}

	minLen := e.prog.MinLen()
	for pos := at; pos <= len(haystack); {
		// Every rune takes at least one byte.
		if len(haystack)-pos < minLen {
			return nil, nil
		}
		if tracker.IsActive() {
			if pos = tracker.Find(haystack, pos); pos < 0 {
				return nil, nil
			}
		}
		if slots, err := e.attempt(bt, pos); slots != nil || err != nil {
			return slots, err
		}
		if pos == len(haystack) {
			break
		}
		_, size := utf8.DecodeRune(haystack[pos:])
		pos += size
	}
	return nil, nil
}

// attempt runs the backtracker at exactly pos.
func (e *Engine) attempt(bt *prog.Backtracker, pos int) ([]int, error) {
	ok, err := bt.MatchAt(pos)
	if err != nil {
		e.stats.aborts.Add(1)
		return nil, newMatchError(e.prog.Source(), bt.Steps(), err)
	}
	if !ok {
		return nil, nil
	}
	return slices.Clone(bt.Slots()), nil
}

var trackerConfig = prefilter.DefaultTrackerConfig()

func (e *Engine) recordPrefilter(t *prefilter.Tracker) {
	candidates, _, active := t.Stats()
	e.stats.candidates.Add(candidates)
	if !active {
		e.stats.abandoned.Add(1)
	}
}
