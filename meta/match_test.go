package meta

import (
	"context"
	"reflect"
	"testing"
)

func TestNewMatch(t *testing.T) {
	haystack := []byte("test foo123 end")
	m := NewMatch(5, 11, haystack)

	if m.Start() != 5 || m.End() != 11 || m.Len() != 6 {
		t.Errorf("span = [%d %d] len %d, want [5 11] len 6", m.Start(), m.End(), m.Len())
	}
	if m.String() != "foo123" {
		t.Errorf("String() = %q, want foo123", m.String())
	}
	if m.IsEmpty() {
		t.Error("IsEmpty() = true")
	}
	if !m.Contains(5) || m.Contains(11) || m.Contains(4) {
		t.Error("Contains boundaries wrong")
	}
	if m.NumGroups() != 1 {
		t.Errorf("NumGroups() = %d, want 1", m.NumGroups())
	}
	if g := m.Group(0); g.Name != "" || g.String() != "foo123" {
		t.Errorf("Group(0) = %+v", g)
	}
	if _, ok := m.GroupByName("x"); ok {
		t.Error("GroupByName found a group on a group-free match")
	}

	// Appending to Bytes must not clobber the haystack.
	b := append(m.Bytes(), '!')
	if string(haystack) != "test foo123 end" || string(b) != "foo123!" {
		t.Errorf("haystack = %q, appended = %q", haystack, b)
	}
}

func TestMatchEmpty(t *testing.T) {
	m := NewMatch(3, 3, []byte("abcdef"))
	if !m.IsEmpty() || m.Len() != 0 || m.String() != "" {
		t.Errorf("empty match: IsEmpty=%v Len=%d String=%q", m.IsEmpty(), m.Len(), m.String())
	}
	if m.Contains(3) {
		t.Error("empty match contains its own position")
	}
}

func TestMatchGroups(t *testing.T) {
	engine := mustCompile(t, `(?<key>\w+)=(\d+)?(;)?`, 0)
	m, err := engine.Find(context.Background(), []byte("x key=;"))
	if err != nil || m == nil {
		t.Fatalf("Find = %v, %v", m, err)
	}

	want := []Group{
		{Index: 0, Start: 2, End: 7},
		{Index: 1, Name: "key", Start: 2, End: 5},
		{Index: 2, Start: -1, End: -1},
		{Index: 3, Start: 6, End: 7},
	}
	groups := m.Groups()
	if len(groups) != len(want) {
		t.Fatalf("len(Groups()) = %d, want %d", len(groups), len(want))
	}
	for i, g := range groups {
		if g.Index != want[i].Index || g.Name != want[i].Name || g.Start != want[i].Start || g.End != want[i].End {
			t.Errorf("group %d = %+v, want %+v", i, g, want[i])
		}
	}

	if got := m.GroupIndex(1); !reflect.DeepEqual(got, []int{2, 5}) {
		t.Errorf("GroupIndex(1) = %v, want [2 5]", got)
	}
	if got := m.GroupIndex(2); got != nil {
		t.Errorf("GroupIndex(2) = %v, want nil", got)
	}
	for _, i := range []int{-1, 4} {
		if g := m.Group(i); g.Matched() || g.Index != i {
			t.Errorf("Group(%d) = %+v, want unmatched", i, g)
		}
	}
	if got := m.Slots(); !reflect.DeepEqual(got, []int{2, 7, 2, 5, -1, -1, 6, 7}) {
		t.Errorf("Slots() = %v", got)
	}
}

func TestMatchOutlivesSearch(t *testing.T) {
	engine := mustCompile(t, `(\d)(\d)`, 0)
	ctx := context.Background()
	first, _ := engine.Find(ctx, []byte("12"))
	second, _ := engine.Find(ctx, []byte("x34"))
	if first == nil || second == nil {
		t.Fatal("expected two matches")
	}
	if first.Group(2).String() != "2" || second.Group(2).String() != "4" {
		t.Errorf("groups = %q, %q; pooled state leaked into a match",
			first.Group(2).String(), second.Group(2).String())
	}
}
