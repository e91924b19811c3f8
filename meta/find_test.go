package meta

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/coregx/regexkit/prog"
	"github.com/coregx/regexkit/syntax"
)

func mustCompile(t *testing.T, pattern string, flags syntax.Flags) *Engine {
	t.Helper()
	engine, err := Compile(pattern, flags)
	if err != nil {
		t.Fatalf("Compile(%q): %v", pattern, err)
	}
	return engine
}

func TestFind(t *testing.T) {
	tests := []struct {
		name    string
		pattern string
		flags   syntax.Flags
		input   string
		want    []int // whole match span, nil for no match
	}{
		{"literal", `hello`, 0, "say hello", []int{4, 9}},
		{"literal miss", `hello`, 0, "say hell", nil},
		{"literal mode", `a.b`, syntax.Literal, "axb a.b", []int{4, 7}},
		{"fold", `hello`, syntax.FoldCase, "say HeLLo", []int{4, 9}},
		{"anchored", `^abc`, 0, "abcabc", []int{0, 3}},
		{"anchored miss", `^abc`, 0, "xabc", nil},
		{"digits", `\d+`, 0, "ab 123 c", []int{3, 6}},
		{"word", `\w+`, 0, "  foo bar", []int{2, 5}},
		{"lookbehind", `(?<=\$)\d+`, 0, "cost 7 $42", []int{8, 10}},
		{"empty match", `a*`, 0, "bbb", []int{0, 0}},
		{"leftmost not longest", `a|ab`, 0, "ab", []int{0, 1}},
		{"lazy", `a+?`, 0, "aaa", []int{0, 1}},
		{"backref", `(\w)\1`, 0, "abccd", []int{2, 4}},
		{"end anchor", `\w+$`, 0, "foo bar", []int{4, 7}},
		{"multibyte", `é+`, 0, "caféé!", []int{3, 7}},
		{"too short", `abcd`, 0, "abc", nil},
		{"empty haystack", `x*`, 0, "", []int{0, 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine := mustCompile(t, tt.pattern, tt.flags)
			m, err := engine.Find(context.Background(), []byte(tt.input))
			if err != nil {
				t.Fatalf("Find: %v", err)
			}
			if tt.want == nil {
				if m != nil {
					t.Errorf("Find = [%d %d], want no match", m.Start(), m.End())
				}
				return
			}
			if m == nil {
				t.Fatalf("Find = nil, want %v", tt.want)
			}
			if m.Start() != tt.want[0] || m.End() != tt.want[1] {
				t.Errorf("Find = [%d %d], want %v", m.Start(), m.End(), tt.want)
			}

			ok, err := engine.IsMatch(context.Background(), []byte(tt.input))
			if err != nil || !ok {
				t.Errorf("IsMatch = %v, %v; want true", ok, err)
			}
		})
	}
}

func TestFindCaptures(t *testing.T) {
	engine := mustCompile(t, `(?<user>\w+)@(\w+)(\.com)?`, 0)
	m, err := engine.Find(context.Background(), []byte("mail bob@example.org"))
	if err != nil || m == nil {
		t.Fatalf("Find = %v, %v", m, err)
	}
	if m.NumGroups() != 4 {
		t.Fatalf("NumGroups = %d, want 4", m.NumGroups())
	}
	if g := m.Group(1); g.String() != "bob" || g.Name != "user" || g.Start != 5 {
		t.Errorf("Group(1) = %+v", g)
	}
	if g := m.Group(2); g.String() != "example" {
		t.Errorf("Group(2) = %q", g.String())
	}
	if g := m.Group(3); g.Matched() || g.Start != -1 || g.Bytes() != nil {
		t.Errorf("Group(3) = %+v, want unmatched", g)
	}
	if g, ok := m.GroupByName("user"); !ok || g.Index != 1 {
		t.Errorf("GroupByName(user) = %+v, %v", g, ok)
	}
	if _, ok := m.GroupByName("host"); ok {
		t.Error("GroupByName(host) found an undefined group")
	}
}

func TestFindAt(t *testing.T) {
	engine := mustCompile(t, `\bfoo`, 0)
	h := []byte("xfoo foo")

	m, err := engine.FindAt(context.Background(), h, 1)
	if err != nil {
		t.Fatal(err)
	}
	// \b sees the 'x' before position 1.
	if m == nil || m.Start() != 5 {
		t.Errorf("FindAt(1) = %v, want start 5", m)
	}

	for _, at := range []int{-1, len(h) + 1} {
		if m, err := engine.FindAt(context.Background(), h, at); m != nil || err != nil {
			t.Errorf("FindAt(%d) = %v, %v; want nil, nil", at, m, err)
		}
	}

	anchored := mustCompile(t, `^foo`, 0)
	if m, _ := anchored.FindAt(context.Background(), []byte("foofoo"), 3); m != nil {
		t.Errorf("^foo matched at %d after position 0", m.Start())
	}

	g := mustCompile(t, `\Gb`, 0)
	if m, _ := g.FindAt(context.Background(), []byte("abab"), 1); m == nil || m.Start() != 1 {
		t.Errorf("\\Gb FindAt(1) = %v, want start 1", m)
	}
	if m, _ := g.FindAt(context.Background(), []byte("aab"), 1); m != nil {
		t.Errorf("\\Gb FindAt(1) on aab = [%d %d], want nil", m.Start(), m.End())
	}
}

func TestFindBudget(t *testing.T) {
	input := []byte(strings.Repeat("a", 30))

	tests := []struct {
		name     string
		modify   func(*Config)
		ctx      func() (context.Context, context.CancelFunc)
		wantKind AbortKind
		wantErr  error
	}{
		{
			name:     "step limit",
			modify:   func(c *Config) { c.StepLimit = 10_000 },
			wantKind: AbortStepLimit,
			wantErr:  prog.ErrStepLimit,
		},
		{
			name:     "timeout",
			modify:   func(c *Config) { c.Timeout = time.Nanosecond },
			wantKind: AbortTimeout,
			wantErr:  prog.ErrDeadline,
		},
		{
			name: "canceled",
			ctx: func() (context.Context, context.CancelFunc) {
				ctx, cancel := context.WithCancel(context.Background())
				cancel()
				return ctx, cancel
			},
			wantKind: AbortCanceled,
			wantErr:  context.Canceled,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := DefaultConfig()
			c.MaxMemoBits = 0
			if tt.modify != nil {
				tt.modify(&c)
			}
			engine, err := CompileWithConfig(`(a+)+b`, 0, c)
			if err != nil {
				t.Fatal(err)
			}
			ctx := context.Background()
			if tt.ctx != nil {
				var cancel context.CancelFunc
				ctx, cancel = tt.ctx()
				defer cancel()
			}

			m, err := engine.Find(ctx, input)
			if m != nil {
				t.Errorf("Find returned a match")
			}
			var merr *MatchError
			if !errors.As(err, &merr) {
				t.Fatalf("err = %v, want *MatchError", err)
			}
			if merr.Kind != tt.wantKind {
				t.Errorf("Kind = %v, want %v", merr.Kind, tt.wantKind)
			}
			if !errors.Is(err, ErrTimeout) || !errors.Is(err, tt.wantErr) {
				t.Errorf("err = %v, want ErrTimeout wrapping %v", err, tt.wantErr)
			}
			if merr.Pattern != `(a+)+b` {
				t.Errorf("Pattern = %q", merr.Pattern)
			}
			if engine.Stats().Aborts != 1 {
				t.Errorf("Aborts = %d, want 1", engine.Stats().Aborts)
			}
		})
	}
}

func TestFindMemoKeepsBacktrackingPolynomial(t *testing.T) {
	c := DefaultConfig()
	c.StepLimit = 1_000_000
	engine, err := CompileWithConfig(`(a+)+b`, 0, c)
	if err != nil {
		t.Fatal(err)
	}
	m, err := engine.Find(context.Background(), []byte(strings.Repeat("a", 30)))
	if m != nil || err != nil {
		t.Fatalf("Find = %v, %v; want nil, nil", m, err)
	}
	if engine.Stats().MemoHits == 0 {
		t.Error("memo was never consulted")
	}
}

func TestStats(t *testing.T) {
	engine := mustCompile(t, `b\d`, 0)
	ctx := context.Background()
	for range 3 {
		if _, err := engine.Find(ctx, []byte("aaa b1")); err != nil {
			t.Fatal(err)
		}
	}
	s := engine.Stats()
	if s.Searches != 3 {
		t.Errorf("Searches = %d, want 3", s.Searches)
	}
	if s.PrefilterCandidates != 3 {
		t.Errorf("PrefilterCandidates = %d, want 3", s.PrefilterCandidates)
	}
	if s.Steps == 0 {
		t.Error("Steps = 0")
	}

	engine.ResetStats()
	if s := engine.Stats(); s != (Stats{}) {
		t.Errorf("after ResetStats: %+v", s)
	}

	lit := mustCompile(t, `needle`, 0)
	if _, err := lit.Find(ctx, []byte("haystack needle")); err != nil {
		t.Fatal(err)
	}
	if s := lit.Stats(); s.LiteralSearches != 1 || s.Steps != 0 {
		t.Errorf("literal stats = %+v", s)
	}
}
