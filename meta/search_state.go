package meta

import (
	"sync"

	"github.com/coregx/regexkit/prefilter"
	"github.com/coregx/regexkit/prog"
)

// SearchState holds per-search mutable state for thread-safe concurrent searches.
// It is obtained from a sync.Pool so one compiled Engine can serve many
// goroutines.
//
// Usage pattern:
//
//	state := e.statePool.get()
//	defer e.statePool.put(state)
//	// use state for search operations
//
// Thread safety: each goroutine must use its own SearchState instance.
type SearchState struct {
	// backtracker owns the frame stack, capture slots and failure memo.
	backtracker *prog.Backtracker

	// tracker measures prefilter density during one search.
	tracker prefilter.Tracker
}

func newSearchState(p *prog.Program) *SearchState {
	return &SearchState{backtracker: prog.NewBacktracker(p)}
}

// reset prepares the SearchState for reuse. Buffers are kept; references
// to the caller's haystack and context are dropped so a pooled state does
// not pin them.
func (s *SearchState) reset() {
	s.backtracker.Reset(nil, 0, prog.Budget{})
	s.tracker.Reset(nil, prefilter.TrackerConfig{})
}

// searchStatePool manages a pool of SearchState instances for thread-safe reuse.
// This follows the stdlib regexp pattern of using sync.Pool for concurrent safety.
type searchStatePool struct {
	pool sync.Pool
	prog *prog.Program
}

func newSearchStatePool(p *prog.Program) *searchStatePool {
	sp := &searchStatePool{prog: p}
	sp.pool = sync.Pool{
		New: func() any {
			return newSearchState(sp.prog)
		},
	}
	return sp
}

// get retrieves a SearchState from the pool, creating one if necessary.
func (p *searchStatePool) get() *SearchState {
	return p.pool.Get().(*SearchState)
}

// put returns a SearchState to the pool for reuse.
func (p *searchStatePool) put(state *SearchState) {
	if state == nil {
		return
	}
	state.reset()
	p.pool.Put(state)
}
