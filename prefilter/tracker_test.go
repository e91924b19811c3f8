package prefilter

import (
	"strings"
	"testing"
)

func scan(tr *Tracker, haystack []byte) int {
	attempts := 0
	for pos := 0; pos < len(haystack); pos++ {
		if tr.IsActive() {
			if pos = tr.Find(haystack, pos); pos < 0 {
				break
			}
		}
		attempts++
	}
	return attempts
}

func TestTrackerDense(t *testing.T) {
	var tr Tracker
	tr.Reset(newMemchrPrefilter('a', false), DefaultTrackerConfig())
	haystack := []byte(strings.Repeat("a", 1000))

	if got := scan(&tr, haystack); got != 1000 {
		t.Errorf("attempts = %d, want 1000", got)
	}
	candidates, skipped, active := tr.Stats()
	if active {
		t.Error("tracker still active on dense candidates")
	}
	if candidates != 128 || skipped != 0 {
		t.Errorf("Stats = %d, %d; want 128, 0", candidates, skipped)
	}
}

func TestTrackerSparse(t *testing.T) {
	var tr Tracker
	tr.Reset(newMemchrPrefilter('a', false), DefaultTrackerConfig())
	haystack := []byte(strings.Repeat("a.........", 100))

	if got := scan(&tr, haystack); got != 100 {
		t.Errorf("attempts = %d, want 100", got)
	}
	if _, _, active := tr.Stats(); !active {
		t.Error("tracker retired a selective prefilter")
	}
}

func TestTrackerNil(t *testing.T) {
	var tr Tracker
	tr.Reset(nil, DefaultTrackerConfig())
	if tr.IsActive() {
		t.Error("nil prefilter is active")
	}
	if tr.Inner() != nil {
		t.Error("Inner not nil")
	}
}
