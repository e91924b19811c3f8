// Package literal extracts literal byte strings from parsed patterns.
//
// The main use is prefiltering: if every match of /(foo|bar)\d+/ begins
// with "foo" or "bar", a search only needs to try start positions where one
// of those strings occurs.
//
// Key concepts:
//   - A Literal is a byte string a match begins with
//   - A Seq is a set of alternative literals, or "anything" when no useful
//     finite set exists
package literal

import (
	"bytes"
	"slices"
	"strconv"
)

// Literal is a byte string extracted from a pattern.
//
// Complete reports whether the literal covers the whole sub-pattern it was
// extracted from. Only complete literals may be extended by what follows.
//
// Example:
//   - /hello/ gives Literal{"hello", true}
//   - /hello\d/ gives Literal{"hello", false}
type Literal struct {
	Bytes    []byte
	Complete bool
}

// NewLiteral creates a Literal.
func NewLiteral(b []byte, complete bool) Literal {
	return Literal{Bytes: b, Complete: complete}
}

// Len returns the length of the literal in bytes.
func (l Literal) Len() int {
	return len(l.Bytes)
}

// String returns a debugging representation such as "foo" or "foo"+.
// The trailing + marks an inexact literal.
func (l Literal) String() string {
	s := strconv.Quote(string(l.Bytes))
	if !l.Complete {
		s += "+"
	}
	return s
}

// Seq is a set of alternative literals.
//
// An infinite Seq means the set of possible prefixes is unknown or too large
// to be useful; it is the neutral answer for constructs like `.` or `\1`.
// A finite Seq with no literals means the pattern cannot match at all.
type Seq struct {
	literals []Literal
	infinite bool
}

// NewSeq creates a finite sequence from the given literals.
func NewSeq(lits ...Literal) *Seq {
	return &Seq{literals: lits}
}

// Infinite returns the sequence that matches anything.
func Infinite() *Seq {
	return &Seq{infinite: true}
}

// emptySeq returns the sequence holding only the complete empty literal,
// the prefix set of a zero-width construct.
func emptySeq() *Seq {
	return NewSeq(NewLiteral(nil, true))
}

// Len returns the number of literals; 0 for an infinite sequence.
func (s *Seq) Len() int {
	if s == nil || s.infinite {
		return 0
	}
	return len(s.literals)
}

// Get returns the i-th literal.
func (s *Seq) Get(i int) Literal {
	return s.literals[i]
}

// IsFinite reports whether the sequence is a known finite set.
func (s *Seq) IsFinite() bool {
	return s != nil && !s.infinite
}

// IsEmpty reports whether the sequence has no literals. An infinite sequence
// is not empty.
func (s *Seq) IsEmpty() bool {
	return s.IsFinite() && len(s.literals) == 0
}

// Clone returns a deep copy of s.
func (s *Seq) Clone() *Seq {
	if s == nil {
		return nil
	}
	c := &Seq{infinite: s.infinite, literals: make([]Literal, len(s.literals))}
	for i, lit := range s.literals {
		c.literals[i] = NewLiteral(slices.Clone(lit.Bytes), lit.Complete)
	}
	return c
}

// MakeInexact marks every literal incomplete so nothing is appended to it.
func (s *Seq) MakeInexact() {
	if s == nil {
		return
	}
	for i := range s.literals {
		s.literals[i].Complete = false
	}
}

// hasComplete reports whether any literal can still be extended.
func (s *Seq) hasComplete() bool {
	for _, lit := range s.literals {
		if lit.Complete {
			return true
		}
	}
	return false
}

// Union adds the literals of o to s. If either side is infinite or the
// result would exceed maxLits, s becomes infinite.
func (s *Seq) Union(o *Seq, maxLits int) {
	if s.infinite {
		return
	}
	if o.infinite || len(s.literals)+len(o.literals) > maxLits {
		s.infinite = true
		s.literals = nil
		return
	}
	s.literals = append(s.literals, o.literals...)
}

// Cross appends each literal of o to each complete literal of s.
// Incomplete literals of s are kept as they are. If o is infinite, or the
// product would exceed maxLits, the complete literals of s are marked
// inexact instead. Literals longer than maxLen are truncated and marked
// inexact.
func (s *Seq) Cross(o *Seq, maxLits, maxLen int) {
	if s.infinite || !s.hasComplete() {
		return
	}
	if o.infinite {
		s.MakeInexact()
		return
	}
	n := 0
	for _, lit := range s.literals {
		if lit.Complete {
			n += len(o.literals)
		} else {
			n++
		}
	}
	if n > maxLits {
		s.MakeInexact()
		return
	}
	out := make([]Literal, 0, n)
	for _, lit := range s.literals {
		if !lit.Complete {
			out = append(out, lit)
			continue
		}
		for _, suffix := range o.literals {
			b := make([]byte, 0, len(lit.Bytes)+len(suffix.Bytes))
			b = append(b, lit.Bytes...)
			b = append(b, suffix.Bytes...)
			complete := suffix.Complete
			if maxLen > 0 && len(b) > maxLen {
				b = b[:maxLen]
				complete = false
			}
			out = append(out, NewLiteral(b, complete))
		}
	}
	s.literals = out
}

// Minimize sorts and deduplicates the literals and drops any literal that
// has another literal of the set as a prefix: finding the shorter one is
// enough to report a candidate. A literal that absorbed a longer one is
// marked inexact.
func (s *Seq) Minimize() {
	if !s.IsFinite() || len(s.literals) < 2 {
		return
	}
	slices.SortFunc(s.literals, func(a, b Literal) int {
		return bytes.Compare(a.Bytes, b.Bytes)
	})
	out := s.literals[:1]
	for _, lit := range s.literals[1:] {
		last := &out[len(out)-1]
		if bytes.HasPrefix(lit.Bytes, last.Bytes) {
			if len(lit.Bytes) != len(last.Bytes) || !lit.Complete {
				last.Complete = false
			}
			continue
		}
		out = append(out, lit)
	}
	s.literals = out
}

// MinLen returns the length of the shortest literal, or -1 when the
// sequence is infinite or empty.
func (s *Seq) MinLen() int {
	if !s.IsFinite() || len(s.literals) == 0 {
		return -1
	}
	n := len(s.literals[0].Bytes)
	for _, lit := range s.literals[1:] {
		n = min(n, len(lit.Bytes))
	}
	return n
}

// LongestCommonPrefix returns the longest byte string every literal starts
// with.
func (s *Seq) LongestCommonPrefix() []byte {
	if !s.IsFinite() || len(s.literals) == 0 {
		return nil
	}
	prefix := s.literals[0].Bytes
	for _, lit := range s.literals[1:] {
		n := 0
		for n < len(prefix) && n < len(lit.Bytes) && prefix[n] == lit.Bytes[n] {
			n++
		}
		prefix = prefix[:n]
	}
	return prefix
}

// String returns a debugging representation like [foo bar+] or [inf].
func (s *Seq) String() string {
	if !s.IsFinite() {
		return "[inf]"
	}
	var b bytes.Buffer
	b.WriteByte('[')
	for i, lit := range s.literals {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(lit.String())
	}
	b.WriteByte(']')
	return b.String()
}
