package meta

import (
	"sync/atomic"

	"golang.org/x/sys/cpu"
)

// Stats is a snapshot of the execution counters of an Engine.
//
// Example:
//
//	stats := engine.Stats()
//	println("searches:", stats.Searches)
//	println("steps:", stats.Steps)
type Stats struct {
	// Searches counts calls that ran a search (Find, FindAt, IsMatch and
	// each step of FindAll).
	Searches uint64

	// Steps counts backtracker steps over all searches.
	Steps uint64

	// MemoHits counts paths pruned by the failure memo.
	MemoHits uint64

	// PrefilterCandidates counts start positions proposed by the prefilter.
	PrefilterCandidates uint64

	// PrefilterAbandoned counts searches where the prefilter was switched
	// off for proposing too many candidates.
	PrefilterAbandoned uint64

	// LiteralSearches counts searches answered by the prefilter alone.
	LiteralSearches uint64

	// Aborts counts searches stopped by a step limit, timeout or
	// cancellation.
	Aborts uint64
}

// counters is the live form of Stats. An Engine is shared by goroutines,
// so the hot counters sit on separate cache lines.
type counters struct {
	searches atomic.Uint64
	_        cpu.CacheLinePad
	steps    atomic.Uint64
	memoHits atomic.Uint64
	_        cpu.CacheLinePad

	candidates atomic.Uint64
	abandoned  atomic.Uint64
	literal    atomic.Uint64
	aborts     atomic.Uint64
}

func (c *counters) snapshot() Stats {
	return Stats{
		Searches:            c.searches.Load(),
		Steps:               c.steps.Load(),
		MemoHits:            c.memoHits.Load(),
		PrefilterCandidates: c.candidates.Load(),
		PrefilterAbandoned:  c.abandoned.Load(),
		LiteralSearches:     c.literal.Load(),
		Aborts:              c.aborts.Load(),
	}
}

func (c *counters) reset() {
	c.searches.Store(0)
	c.steps.Store(0)
	c.memoHits.Store(0)
	c.candidates.Store(0)
	c.abandoned.Store(0)
	c.literal.Store(0)
	c.aborts.Store(0)
}
