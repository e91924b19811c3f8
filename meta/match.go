package meta

import (
	"github.com/coregx/regexkit/prog"
)

// Match represents a successful match with its capture groups.
//
// Positions are byte offsets into the haystack that was searched. The
// haystack is stored by reference (not copied); callers must keep it
// unchanged for the lifetime of the Match.
//
// Example:
//
//	m, _ := engine.Find(ctx, []byte("key=value"))
//	println(m.Start(), m.End())     // 0, 9
//	println(m.Group(1).String())    // "key"
type Match struct {
	haystack []byte
	slots    []int
	prog     *prog.Program
}

// NewMatch creates a Match without capture groups from start and end
// positions.
//
// Example:
//
//	haystack := []byte("hello world")
//	match := meta.NewMatch(0, 5, haystack) // "hello"
func NewMatch(start, end int, haystack []byte) *Match {
	return &Match{haystack: haystack, slots: []int{start, end}}
}

// newMatch takes ownership of slots.
func newMatch(p *prog.Program, haystack []byte, slots []int) *Match {
	return &Match{haystack: haystack, slots: slots, prog: p}
}

// Start returns the inclusive start position of the match.
func (m *Match) Start() int {
	return m.slots[0]
}

// End returns the exclusive end position of the match.
func (m *Match) End() int {
	return m.slots[1]
}

// Len returns the length of the match in bytes.
func (m *Match) Len() int {
	return m.slots[1] - m.slots[0]
}

// Bytes returns the matched bytes as a view into the haystack.
func (m *Match) Bytes() []byte {
	return m.haystack[m.slots[0]:m.slots[1]:m.slots[1]]
}

// String returns the matched text.
func (m *Match) String() string {
	return string(m.Bytes())
}

// IsEmpty reports whether the match is zero-width.
func (m *Match) IsEmpty() bool {
	return m.slots[0] == m.slots[1]
}

// Contains reports whether pos lies within [Start, End).
func (m *Match) Contains(pos int) bool {
	return pos >= m.slots[0] && pos < m.slots[1]
}

// NumGroups returns the number of groups including group 0.
func (m *Match) NumGroups() int {
	return len(m.slots) / 2
}

// Slots returns the raw capture positions: group i spans
// [Slots()[2i], Slots()[2i+1]), both -1 when it did not participate.
// The slice must not be modified.
func (m *Match) Slots() []int {
	return m.slots
}

// Group returns capture group i. Group 0 is the whole match. A group that
// did not participate, or an index out of range, has Start and End -1.
func (m *Match) Group(i int) Group {
	g := Group{Index: i, Start: -1, End: -1}
	if i < 0 || 2*i+1 >= len(m.slots) {
		return g
	}
	if m.prog != nil {
		g.Name = m.prog.Names()[i]
	}
	if s, e := m.slots[2*i], m.slots[2*i+1]; s >= 0 && e >= s {
		g.Start, g.End = s, e
		g.text = m.haystack[s:e:e]
	}
	return g
}

// GroupByName returns the named group and whether the pattern defines it.
func (m *Match) GroupByName(name string) (Group, bool) {
	if m.prog == nil {
		return Group{Index: -1, Start: -1, End: -1}, false
	}
	i := m.prog.GroupIndex(name)
	if i < 0 {
		return Group{Index: -1, Name: name, Start: -1, End: -1}, false
	}
	return m.Group(i), true
}

// GroupIndex returns []int{start, end} for group i, or nil when the group
// did not participate or i is out of range.
func (m *Match) GroupIndex(i int) []int {
	g := m.Group(i)
	if !g.Matched() {
		return nil
	}
	return []int{g.Start, g.End}
}

// Groups returns every group, including group 0.
func (m *Match) Groups() []Group {
	groups := make([]Group, m.NumGroups())
	for i := range groups {
		groups[i] = m.Group(i)
	}
	return groups
}

// Group is one capture group of a Match.
type Group struct {
	Index int
	Name  string // "" for unnamed groups
	Start int    // -1 if the group did not participate
	End   int    // -1 if the group did not participate

	text []byte
}

// Matched reports whether the group participated in the match.
func (g Group) Matched() bool {
	return g.Start >= 0
}

// Bytes returns the captured bytes as a view into the haystack, or nil.
func (g Group) Bytes() []byte {
	return g.text
}

// String returns the captured text, or "" if the group did not participate.
func (g Group) String() string {
	return string(g.text)
}
