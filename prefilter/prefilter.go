// Package prefilter finds candidate match start positions before the
// backtracker runs.
//
// A prefilter scans the haystack for literals every match must begin with.
// Positions it skips cannot start a match, so the engine only attempts a
// match where the prefilter reports a candidate.
//
// The builder selects a strategy from the extracted prefixes:
//   - Single byte → memchr (bytes.IndexByte)
//   - Single substring → memmem (bytes.Index)
//   - Several single bytes → byte set scan
//   - Several substrings → Aho-Corasick automaton
//
// Example usage:
//
//	re, _ := syntax.Parse(`(hello|world)\d`, 0)
//	prefixes := literal.New(literal.DefaultConfig()).ExtractPrefixes(re)
//	pf := prefilter.NewBuilder(prefixes).Build()
//	pos := pf.Find([]byte("foo hello1 bar"), 0)
//	// pos == 4
package prefilter

import (
	"bytes"

	"github.com/coregx/regexkit/literal"
)

// Prefilter reports candidate match start positions.
type Prefilter interface {
	// Find returns the first candidate position at or after start, or -1.
	// A candidate is only a position where a prefix literal occurs; the
	// caller must still verify a match there unless IsComplete is true.
	Find(haystack []byte, start int) int

	// IsComplete reports whether an occurrence of the literal is itself a
	// match of the whole pattern.
	IsComplete() bool

	// LiteralLen returns the match length when IsComplete is true, else 0.
	LiteralLen() int

	// HeapBytes returns the heap memory held by the prefilter.
	HeapBytes() int
}

// Builder constructs the best prefilter for a prefix literal sequence.
//
// Example:
//
//	pf := prefilter.NewBuilder(prefixes).MinLiteralLen(2).Build()
//	if pf == nil {
//	    // every position is a candidate
//	}
type Builder struct {
	prefixes      *literal.Seq
	minLiteralLen int
	complete      bool
}

// NewBuilder creates a builder for the given prefixes (from
// literal.Extractor.ExtractPrefixes).
func NewBuilder(prefixes *literal.Seq) *Builder {
	return &Builder{prefixes: prefixes, minLiteralLen: 1}
}

// MinLiteralLen sets the shortest literal worth searching for. Sequences
// with a shorter literal get no prefilter.
func (b *Builder) MinLiteralLen(n int) *Builder {
	b.minLiteralLen = max(n, 1)
	return b
}

// Complete declares that the pattern is exactly the single prefix literal,
// so an occurrence needs no verification.
func (b *Builder) Complete(complete bool) *Builder {
	b.complete = complete
	return b
}

// Build returns the selected prefilter, or nil when the prefixes cannot
// narrow the search (infinite, empty, or too short).
func (b *Builder) Build() Prefilter {
	seq := b.prefixes
	if !seq.IsFinite() || seq.Len() == 0 || seq.MinLen() < b.minLiteralLen {
		return nil
	}

	if seq.Len() == 1 {
		lit := seq.Get(0)
		complete := b.complete && lit.Complete
		if len(lit.Bytes) == 1 {
			return newMemchrPrefilter(lit.Bytes[0], complete)
		}
		return newMemmemPrefilter(lit.Bytes, complete)
	}

	if seq.MinLen() == 1 && maxLen(seq) == 1 {
		set := make([]byte, seq.Len())
		for i := range seq.Len() {
			set[i] = seq.Get(i).Bytes[0]
		}
		return NewByteSetPrefilter(set)
	}

	return newAhoCorasickPrefilter(seq)
}

func maxLen(seq *literal.Seq) int {
	n := 0
	for i := range seq.Len() {
		n = max(n, seq.Get(i).Len())
	}
	return n
}

// memchrPrefilter searches for a single byte.
//
// Example patterns:
//
//	/a\d+/  → search for 'a'
//	/x/     → search for 'x' (complete)
type memchrPrefilter struct {
	needle   byte
	complete bool
}

func newMemchrPrefilter(needle byte, complete bool) Prefilter {
	return &memchrPrefilter{needle: needle, complete: complete}
}

// Find implements Prefilter.Find using bytes.IndexByte.
func (p *memchrPrefilter) Find(haystack []byte, start int) int {
	if start < 0 || start >= len(haystack) {
		return -1
	}
	idx := bytes.IndexByte(haystack[start:], p.needle)
	if idx == -1 {
		return -1
	}
	return start + idx
}

// IsComplete implements Prefilter.IsComplete.
func (p *memchrPrefilter) IsComplete() bool {
	return p.complete
}

// LiteralLen implements Prefilter.LiteralLen.
func (p *memchrPrefilter) LiteralLen() int {
	if p.complete {
		return 1
	}
	return 0
}

// HeapBytes implements Prefilter.HeapBytes.
func (p *memchrPrefilter) HeapBytes() int {
	return 0
}

// memmemPrefilter searches for a single substring.
//
// Example patterns:
//
//	/hello/        → search for "hello" (complete)
//	/foo|foobar/   → after minimization → search for "foo"
//	/prefix\w*/    → search for "prefix"
type memmemPrefilter struct {
	needle   []byte
	complete bool
}

// newMemmemPrefilter copies needle so the caller's slice may be reused.
func newMemmemPrefilter(needle []byte, complete bool) Prefilter {
	return &memmemPrefilter{needle: bytes.Clone(needle), complete: complete}
}

// Find implements Prefilter.Find using bytes.Index.
func (p *memmemPrefilter) Find(haystack []byte, start int) int {
	if start < 0 || start >= len(haystack) {
		return -1
	}
	idx := bytes.Index(haystack[start:], p.needle)
	if idx == -1 {
		return -1
	}
	return start + idx
}

// IsComplete implements Prefilter.IsComplete.
func (p *memmemPrefilter) IsComplete() bool {
	return p.complete
}

// LiteralLen implements Prefilter.LiteralLen.
func (p *memmemPrefilter) LiteralLen() int {
	if p.complete {
		return len(p.needle)
	}
	return 0
}

// HeapBytes implements Prefilter.HeapBytes.
func (p *memmemPrefilter) HeapBytes() int {
	return len(p.needle)
}
