package sparse

import (
	"slices"
	"testing"
)

func TestSetInsertContains(t *testing.T) {
	s := NewSet(16)
	if s.Len() != 0 || s.Cap() != 16 {
		t.Fatalf("new set: Len=%d Cap=%d", s.Len(), s.Cap())
	}

	for _, v := range []uint32{5, 0, 15, 7} {
		if !s.Insert(v) {
			t.Errorf("Insert(%d) = false on first insert", v)
		}
	}
	if s.Insert(5) {
		t.Error("Insert(5) = true on duplicate")
	}
	if s.Insert(16) {
		t.Error("Insert(16) = true past capacity")
	}
	if s.Contains(16) || s.Contains(1) {
		t.Error("Contains reports absent values")
	}
	if got, want := s.Values(), []uint32{5, 0, 15, 7}; !slices.Equal(got, want) {
		t.Errorf("Values = %v, want %v", got, want)
	}
}

func TestSetClear(t *testing.T) {
	s := NewSet(8)
	s.Insert(3)
	s.Insert(4)
	s.Clear()
	if s.Len() != 0 {
		t.Errorf("Len after Clear = %d", s.Len())
	}
	// Stale sparse entries must not resurrect cleared values.
	if s.Contains(3) || s.Contains(4) {
		t.Error("cleared value still reported")
	}
	if !s.Insert(4) || !s.Contains(4) || s.Contains(3) {
		t.Error("reinsert after Clear failed")
	}
}

func TestSetZeroCapacity(t *testing.T) {
	s := NewSet(0)
	if s.Insert(0) || s.Contains(0) {
		t.Error("zero-capacity set accepted a value")
	}
}
