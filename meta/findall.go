package meta

import (
	"context"
	"iter"
	"unicode/utf8"
)

// FindAll returns an iterator over successive non-overlapping matches.
//
// Matching resumes where the previous match ended. An empty match that
// starts exactly where the previous non-empty match ended is skipped, and
// after an empty match the search moves on by one rune:
//
//	a* on "ab" yields [0 1] and [2 2], not [1 1]
//
// \G matches at the end of the previous match (0 at first).
//
// If a search aborts, the iterator yields (nil, err) once and stops.
// The state used for searching is acquired once for the whole iteration.
//
// Example:
//
//	for m, err := range engine.FindAll(ctx, haystack) {
//	    if err != nil {
//	        return err
//	    }
//	    println(m.String())
//	}
func (e *Engine) FindAll(ctx context.Context, haystack []byte) iter.Seq2[*Match, error] {
	return func(yield func(*Match, error) bool) {
		state := e.statePool.get()
		defer e.statePool.put(state)

		pos := 0
		lastMatchEnd := -1
		searchStart := 0

		for pos <= len(haystack) {
			slots, err := e.search(ctx, state, haystack, pos, searchStart)
			if err != nil {
				yield(nil, err)
				return
			}
			if slots == nil {
				return
			}
			start, end := slots[0], slots[1]

			// Skip empty matches that start exactly where the previous
			// non-empty match ended.
			if start == end && start == lastMatchEnd {
				pos = nextPos(haystack, pos)
				continue
			}

			searchStart = end
			if start != end {
				lastMatchEnd = end
			}
			if start == end {
				pos = nextPos(haystack, end)
			} else {
				pos = end
			}

			if !yield(newMatch(e.prog, haystack, slots), nil) {
				return
			}
		}
	}
}

// Count returns the number of non-overlapping matches, as FindAll would
// report them. If n > 0, counts at most n matches.
//
// Example:
//
//	engine, _ := meta.Compile(`\d+`, 0)
//	count, _ := engine.Count(ctx, []byte("1 2 3 4 5"), -1)
//	// count == 5
func (e *Engine) Count(ctx context.Context, haystack []byte, n int) (int, error) {
	if n == 0 {
		return 0, nil
	}
	count := 0
	for _, err := range e.FindAll(ctx, haystack) {
		if err != nil {
			return count, err
		}
		count++
		if n > 0 && count >= n {
			break
		}
	}
	return count, nil
}

// nextPos returns the position one rune after pos, or len(haystack)+1 at
// the end. Invalid bytes count as one rune each.
func nextPos(haystack []byte, pos int) int {
	if pos >= len(haystack) {
		return len(haystack) + 1
	}
	_, size := utf8.DecodeRune(haystack[pos:])
	return pos + size
}
