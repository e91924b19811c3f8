// Package sparse provides a set of small integers with constant-time
// insert, membership and clear.
//
// The program validator walks the instruction graph with it; the universe
// is the instruction count, known before the walk starts.
package sparse

// Set is a sparse set over [0, capacity). Values keeps insertion order.
type Set struct {
	sparse []uint32 // value -> index in dense
	dense  []uint32
}

// NewSet creates a set able to hold values below capacity.
func NewSet(capacity uint32) *Set {
	return &Set{
		sparse: make([]uint32, capacity),
		dense:  make([]uint32, 0, capacity),
	}
}

// Insert adds v and reports whether it was absent. Values outside the
// capacity are never added.
func (s *Set) Insert(v uint32) bool {
	if int(v) >= len(s.sparse) || s.Contains(v) {
		return false
	}
	s.sparse[v] = uint32(len(s.dense)) //nolint:gosec // G115: len(dense) <= capacity
	s.dense = append(s.dense, v)
	return true
}

// Contains reports whether v is in the set.
func (s *Set) Contains(v uint32) bool {
	if int(v) >= len(s.sparse) {
		return false
	}
	i := s.sparse[v]
	return int(i) < len(s.dense) && s.dense[i] == v
}

// Len returns the number of values in the set.
func (s *Set) Len() int {
	return len(s.dense)
}

// Cap returns the exclusive upper bound of storable values.
func (s *Set) Cap() int {
	return len(s.sparse)
}

// Clear empties the set without touching the sparse array.
func (s *Set) Clear() {
	s.dense = s.dense[:0]
}

// Values returns the values in insertion order. The slice is valid until
// the next Insert or Clear.
func (s *Set) Values() []uint32 {
	return s.dense
}
