package prefilter

// Tracker wraps a Prefilter and retires it when it stops paying off.
//
// A prefilter is worth calling when it skips ahead. When candidates are
// dense (a one-byte literal in text full of that byte), every call costs a
// function call and a scan of a few bytes just to land on the next
// position, and attempting every position directly is cheaper.
//
// Algorithm:
//  1. Count candidates and the bytes skipped to reach them
//  2. After a warmup, check the average skip every CheckInterval candidates
//  3. If it is below MinSkip, deactivate for the rest of the search
//
// Example usage:
//
//	var t prefilter.Tracker
//	t.Reset(pf, prefilter.DefaultTrackerConfig())
//	for pos <= len(haystack) {
//	    if t.IsActive() {
//	        if pos = t.Find(haystack, pos); pos < 0 {
//	            break
//	        }
//	    }
//	    // attempt a match at pos
//	}
type Tracker struct {
	inner  Prefilter
	config TrackerConfig

	candidates     uint64
	skipped        uint64
	lastCheckpoint uint64
	active         bool
}

// TrackerConfig holds the thresholds of a Tracker.
type TrackerConfig struct {
	// CheckInterval is how often to evaluate, in candidates.
	// Default: 64
	CheckInterval uint64

	// MinSkip is the smallest acceptable average number of bytes skipped
	// per candidate.
	// Default: 4
	MinSkip uint64

	// WarmupPeriod is the number of candidates before the first check.
	// Default: 128
	WarmupPeriod uint64
}

// DefaultTrackerConfig returns the default thresholds.
func DefaultTrackerConfig() TrackerConfig {
	return TrackerConfig{
		CheckInterval: 64,
		MinSkip:       4,
		WarmupPeriod:  128,
	}
}

// Reset starts tracking inner with fresh statistics. A nil inner leaves
// the tracker inactive.
func (t *Tracker) Reset(inner Prefilter, config TrackerConfig) {
	*t = Tracker{inner: inner, config: config, active: inner != nil}
}

// Find returns the next candidate at or after start, or -1 if there is
// none. It must only be called while IsActive.
func (t *Tracker) Find(haystack []byte, start int) int {
	pos := t.inner.Find(haystack, start)
	if pos >= 0 {
		t.candidates++
		t.skipped += uint64(pos - start)
		t.check()
	}
	return pos
}

// IsActive reports whether the prefilter is still in use.
func (t *Tracker) IsActive() bool {
	return t.active
}

// Inner returns the tracked prefilter.
func (t *Tracker) Inner() Prefilter {
	return t.inner
}

// Stats returns the candidates found, the bytes skipped and whether the
// prefilter is still active.
func (t *Tracker) Stats() (candidates, skipped uint64, active bool) {
	return t.candidates, t.skipped, t.active
}

func (t *Tracker) check() {
	if t.candidates < t.config.WarmupPeriod {
		return
	}
	if t.candidates-t.lastCheckpoint < t.config.CheckInterval {
		return
	}
	t.lastCheckpoint = t.candidates
	if t.skipped/t.candidates < t.config.MinSkip {
		t.active = false
	}
}
