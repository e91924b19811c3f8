package prefilter

import (
	"github.com/coregx/ahocorasick"

	"github.com/coregx/regexkit/literal"
)

// ahoCorasickPrefilter finds the leftmost occurrence of any of several
// prefix literals with a single pass of an Aho-Corasick automaton.
//
// Example patterns:
//
//	/(foo|bar|baz)\d+/   → automaton over "bar", "baz", "foo"
//	/(?i)get/            → automaton over the 8 case variants of "get"
type ahoCorasickPrefilter struct {
	auto     *ahocorasick.Automaton
	patterns int
	heap     int
}

// newAhoCorasickPrefilter returns nil if the automaton cannot be built.
func newAhoCorasickPrefilter(seq *literal.Seq) Prefilter {
	builder := ahocorasick.NewBuilder()
	heap := 0
	for i := range seq.Len() {
		lit := seq.Get(i)
		builder.AddPattern(lit.Bytes)
		heap += lit.Len()
	}
	auto, err := builder.Build()
	if err != nil {
		return nil
	}
	return &ahoCorasickPrefilter{auto: auto, patterns: seq.Len(), heap: heap}
}

// Find implements Prefilter.Find.
func (p *ahoCorasickPrefilter) Find(haystack []byte, start int) int {
	if start < 0 || start >= len(haystack) {
		return -1
	}
	m := p.auto.Find(haystack, start)
	if m == nil {
		return -1
	}
	return m.Start
}

// IsComplete implements Prefilter.IsComplete. Candidates always need
// verification: the automaton does not know which literal the pattern
// prefers.
func (p *ahoCorasickPrefilter) IsComplete() bool {
	return false
}

// LiteralLen implements Prefilter.LiteralLen.
func (p *ahoCorasickPrefilter) LiteralLen() int {
	return 0
}

// HeapBytes implements Prefilter.HeapBytes. It counts pattern bytes only;
// the automaton's tables are not exposed.
func (p *ahoCorasickPrefilter) HeapBytes() int {
	return p.heap
}
