package literal

import "testing"

func lits(complete bool, ss ...string) *Seq {
	seq := NewSeq()
	for _, s := range ss {
		seq.literals = append(seq.literals, NewLiteral([]byte(s), complete))
	}
	return seq
}

func TestSeqUnion(t *testing.T) {
	s := lits(true, "a", "b")
	s.Union(lits(true, "c"), 8)
	if got := s.String(); got != `["a" "b" "c"]` {
		t.Errorf("Union = %s", got)
	}

	s.Union(lits(true, "d", "e"), 4)
	if s.IsFinite() {
		t.Errorf("Union past the limit = %s, want infinite", s)
	}

	s = lits(true, "a")
	s.Union(Infinite(), 8)
	if s.IsFinite() {
		t.Error("Union with infinite stayed finite")
	}
}

func TestSeqCross(t *testing.T) {
	s := lits(true, "a", "b")
	s.literals = append(s.literals, NewLiteral([]byte("z"), false))
	s.Cross(lits(true, "x", "y"), 8, 0)
	if got := s.String(); got != `["ax" "ay" "bx" "by" "z"+]` {
		t.Errorf("Cross = %s", got)
	}

	s = lits(true, "a", "b")
	s.Cross(lits(true, "x", "y", "z"), 4, 0)
	if got := s.String(); got != `["a"+ "b"+]` {
		t.Errorf("Cross past the limit = %s", got)
	}

	s = lits(true, "ab")
	s.Cross(Infinite(), 8, 0)
	if got := s.String(); got != `["ab"+]` {
		t.Errorf("Cross with infinite = %s", got)
	}

	s = lits(true, "ab")
	s.Cross(lits(true, "cd"), 8, 3)
	if got := s.String(); got != `["abc"+]` {
		t.Errorf("Cross truncated = %s", got)
	}
}

func TestSeqMinimize(t *testing.T) {
	tests := []struct {
		name string
		seq  *Seq
		want string
	}{
		{"dedupe", lits(true, "b", "a", "b"), `["a" "b"]`},
		{"prefix absorbs", lits(true, "foobar", "foo", "fob"), `["fob" "foo"+]`},
		{"chain", lits(true, "fo", "foa", "fob"), `["fo"+]`},
		{"inexact duplicate", NewSeq(NewLiteral([]byte("x"), true), NewLiteral([]byte("x"), false)), `["x"+]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.seq.Minimize()
			if got := tt.seq.String(); got != tt.want {
				t.Errorf("Minimize = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestSeqMeasures(t *testing.T) {
	s := lits(true, "hello", "help", "hero")
	if got := string(s.LongestCommonPrefix()); got != "he" {
		t.Errorf("LongestCommonPrefix = %q, want %q", got, "he")
	}
	if got := s.MinLen(); got != 4 {
		t.Errorf("MinLen = %d, want 4", got)
	}
	if got := Infinite().MinLen(); got != -1 {
		t.Errorf("infinite MinLen = %d, want -1", got)
	}
	if !NewSeq().IsEmpty() || Infinite().IsEmpty() {
		t.Error("IsEmpty wrong")
	}

	c := s.Clone()
	c.literals[0].Bytes[0] = 'j'
	if string(s.Get(0).Bytes) != "hello" {
		t.Error("Clone shares bytes")
	}
}
