package meta

import (
	"testing"

	"github.com/coregx/regexkit/prog"
)

func TestSearchStatePoolReuse(t *testing.T) {
	engine := mustCompile(t, `(a)(b)`, 0)
	pool := engine.statePool

	state := pool.get()
	if state.backtracker == nil {
		t.Fatal("pooled state has no backtracker")
	}
	if state.backtracker.Program() != engine.Program() {
		t.Error("backtracker runs a different program")
	}

	state.backtracker.Reset([]byte("ab"), 0, prog.Budget{})
	ok, err := state.backtracker.MatchAt(0)
	if !ok || err != nil {
		t.Fatalf("MatchAt = %v, %v", ok, err)
	}
	pool.put(state)

	if state.tracker.IsActive() {
		t.Error("tracker still active after put")
	}
	if state.backtracker.Steps() != 0 {
		t.Errorf("Steps = %d after put, want 0", state.backtracker.Steps())
	}

	// put(nil) is a no-op.
	pool.put(nil)
}
