package syntax

import (
	"errors"
	"reflect"
	"strings"
	"testing"
)

func TestParseTree(t *testing.T) {
	tests := []struct {
		pattern string
		flags   Flags
		want    string
	}{
		{`abc`, 0, `Literal{"abc"}`},
		{``, 0, `Empty`},
		{`a|b`, 0, `Alternate(Literal{"a"} Literal{"b"})`},
		{`a|`, 0, `Alternate(Literal{"a"} Empty)`},
		{`(a)`, 0, `Capture{1}(Literal{"a"})`},
		{`(?:ab)c`, 0, `Literal{"abc"}`},
		{`a*`, 0, `Repeat{0,-1}(Literal{"a"})`},
		{`ab+`, 0, `Concat(Literal{"a"} Repeat{1,-1}(Literal{"b"}))`},
		{`a{2,3}`, 0, `Repeat{2,3}(Literal{"a"})`},
		{`a{2,}`, 0, `Repeat{2,-1}(Literal{"a"})`},
		{`a{`, 0, `Literal{"a{"}`},
		{`\Qa.b\E+`, 0, `Concat(Literal{"a."} Repeat{1,-1}(Literal{"b"}))`},
		{`(?i)ab`, 0, `Literal{"ab" fold}`},
		{`a(?i)b`, 0, `Concat(Literal{"a"} Literal{"b" fold})`},
		{`(?i:a)b`, 0, `Concat(Literal{"a" fold} Literal{"b"})`},
		{`ab`, FoldCase, `Literal{"ab" fold}`},
		{"a b # comment\n c", FreeSpacing, `Literal{"abc"}`},
		{`a\ b`, FreeSpacing, `Literal{"a b"}`},
		{`(?x) a b`, 0, `Literal{"ab"}`},
		{`a.b(`, Literal, `Literal{"a.b("}`},
		{`(?<name>x)`, 0, `Capture{1 name}(Literal{"x"})`},
		{`(a)\1`, 0, `Concat(Capture{1}(Literal{"a"}) Backref{1})`},
		{`(a)\10`, 0, `Concat(Capture{1}(Literal{"a"}) Concat(Backref{1} Literal{"0"}))`},
		{`(a)\12*`, 0, `Concat(Capture{1}(Literal{"a"}) Concat(Backref{1} Repeat{0,-1}(Literal{"2"})))`},
		{`(a)\123+?`, 0, `Concat(Capture{1}(Literal{"a"}) Concat(Backref{1} Literal{"2"} Repeat{1,-1}(Literal{"3"})))`},
		{`\1(a)`, 0, `Concat(Backref{1} Capture{1}(Literal{"a"}))`},
		{`\x41B\x{43}\0101`, 0, `Literal{"ABCA"}`},
		{`\cA\t\e`, 0, `Literal{"\x01\t\x1b"}`},
		{`\.\*`, 0, `Literal{".*"}`},
		{`(?#comment)a`, 0, `Literal{"a"}`},
	}

	for _, tt := range tests {
		t.Run(tt.pattern, func(t *testing.T) {
			re, err := Parse(tt.pattern, tt.flags)
			if err != nil {
				t.Fatalf("Parse(%q) error: %v", tt.pattern, err)
			}
			if got := re.Root.String(); got != tt.want {
				t.Errorf("Parse(%q) = %s, want %s", tt.pattern, got, tt.want)
			}
		})
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		pattern string
		code    ErrorCode
	}{
		{`(abc`, ErrMissingParen},
		{`abc)`, ErrUnexpectedParen},
		{`[abc`, ErrMissingBracket},
		{`[]`, ErrMissingBracket},
		{`\q`, ErrInvalidEscape},
		{`\X`, ErrInvalidEscape},
		{`\xZZ`, ErrInvalidEscape},
		{`[z-a]`, ErrInvalidCharRange},
		{`[a-\d]`, ErrInvalidCharRange},
		{`\p{NoSuchProperty}`, ErrInvalidCharClass},
		{`*a`, ErrMissingRepeatArgument},
		{`a|+`, ErrMissingRepeatArgument},
		{`(?:{2})`, ErrMissingRepeatArgument},
		{`a**`, ErrInvalidRepeatOp},
		{`a{2}{3}`, ErrInvalidRepeatOp},
		{`a{3,2}`, ErrInvalidRepeatSize},
		{`a{1001}`, ErrInvalidRepeatSize},
		{`(?<1a>x)`, ErrInvalidNamedCapture},
		{`(?<a`, ErrInvalidNamedCapture},
		{`(?<n>a)(?<n>b)`, ErrDuplicateGroupName},
		{`\k<nope>`, ErrUndefinedGroupName},
		{`(?P=nope)`, ErrUndefinedGroupName},
		{`\2(a)`, ErrInvalidBackref},
		{`\1`, ErrInvalidBackref},
		{`(?z)`, ErrInvalidFlag},
		{`(?)`, ErrInvalidFlag},
		{`(?i-)`, ErrInvalidFlag},
		{`(?<=a+)b`, ErrLookbehindUnbounded},
		{`(?<!(a)\1)b`, ErrLookbehindUnbounded},
		{`abc\`, ErrTrailingBackslash},
		{"a\xffb", ErrInvalidUTF8},
		{strings.Repeat("(", 1001) + strings.Repeat(")", 1001), ErrNestingDepth},
	}

	for _, tt := range tests {
		name := tt.pattern
		if len(name) > 20 {
			name = name[:20]
		}
		t.Run(name, func(t *testing.T) {
			_, err := Parse(tt.pattern, 0)
			if err == nil {
				t.Fatalf("Parse(%q) succeeded, want %s", tt.pattern, tt.code)
			}
			var perr *Error
			if !errors.As(err, &perr) {
				t.Fatalf("Parse(%q) error %T, want *Error", tt.pattern, err)
			}
			if perr.Code != tt.code {
				t.Errorf("Parse(%q) code = %s, want %s", tt.pattern, perr.Code, tt.code)
			}
			if !errors.Is(err, ErrPattern) {
				t.Errorf("errors.Is(%v, ErrPattern) = false", err)
			}
		})
	}
}

func TestParseErrorPosition(t *testing.T) {
	_, err := Parse(`ab(cd`, 0)
	var perr *Error
	if !errors.As(err, &perr) {
		t.Fatalf("want *Error, got %v", err)
	}
	if perr.Pos != 2 {
		t.Errorf("Pos = %d, want 2", perr.Pos)
	}
	if perr.Expr != "(cd" {
		t.Errorf("Expr = %q, want %q", perr.Expr, "(cd")
	}
}

func TestParseLiteralIgnoresOtherFlags(t *testing.T) {
	re, err := Parse("a # b", Literal|FreeSpacing)
	if err != nil {
		t.Fatal(err)
	}
	if got := re.Root.String(); got != `Literal{"a # b"}` {
		t.Errorf("got %s", got)
	}
	if re.NumCap != 0 {
		t.Errorf("NumCap = %d, want 0", re.NumCap)
	}
}

func TestParseCaptureNames(t *testing.T) {
	tests := []struct {
		pattern string
		names   []string
	}{
		{`abc`, []string{""}},
		{`(a)(b)`, []string{"", "", ""}},
		{`(?<year>\d+)-(\d+)-(?P<day>\d+)`, []string{"", "year", "", "day"}},
		{`(?'outer'a(?<inner>b))`, []string{"", "outer", "inner"}},
		{`(?:a)(?=b)(?>c)(d)`, []string{"", ""}},
	}
	for _, tt := range tests {
		t.Run(tt.pattern, func(t *testing.T) {
			re, err := Parse(tt.pattern, 0)
			if err != nil {
				t.Fatal(err)
			}
			if !reflect.DeepEqual(re.Names, tt.names) {
				t.Errorf("Names = %q, want %q", re.Names, tt.names)
			}
			if re.NumCap != len(tt.names)-1 {
				t.Errorf("NumCap = %d, want %d", re.NumCap, len(tt.names)-1)
			}
		})
	}
}

func TestNamedBackref(t *testing.T) {
	for _, pattern := range []string{`(?<w>a)\k<w>`, `(?<w>a)\k{w}`, `(?<w>a)\k'w'`, `(?P<w>a)(?P=w)`} {
		re, err := Parse(pattern, 0)
		if err != nil {
			t.Fatalf("Parse(%q): %v", pattern, err)
		}
		ref := re.Root.Sub[1]
		if ref.Op != OpBackref || ref.Cap != 1 {
			t.Errorf("Parse(%q) ref = %s, want Backref{1}", pattern, ref)
		}
	}
}

func TestLookaround(t *testing.T) {
	tests := []struct {
		pattern        string
		negate, behind bool
	}{
		{`(?=a)`, false, false},
		{`(?!a)`, true, false},
		{`(?<=ab|c)`, false, true},
		{`(?<!a{1,3})`, true, true},
	}
	for _, tt := range tests {
		re, err := Parse(tt.pattern, 0)
		if err != nil {
			t.Fatalf("Parse(%q): %v", tt.pattern, err)
		}
		n := re.Root
		if n.Op != OpLook || n.Negate != tt.negate || n.Behind != tt.behind {
			t.Errorf("Parse(%q) = %s negate=%v behind=%v", tt.pattern, n, n.Negate, n.Behind)
		}
	}
}

func TestWidth(t *testing.T) {
	tests := []struct {
		pattern string
		lo, hi  int
	}{
		{`abc`, 3, 3},
		{`a{2,5}`, 2, 5},
		{`(?:ab|c)`, 1, 2},
		{`a*`, 0, Unbounded},
		{`\b`, 0, 0},
		{`(?:\b)*`, 0, 0},
		{`(a)\1`, 1, Unbounded},
		{`[a-z]?x`, 1, 2},
		{`\R`, 1, 2},
	}
	for _, tt := range tests {
		re, err := Parse(tt.pattern, 0)
		if err != nil {
			t.Fatalf("Parse(%q): %v", tt.pattern, err)
		}
		lo, hi := re.Root.Width()
		if lo != tt.lo || hi != tt.hi {
			t.Errorf("Width(%q) = %d,%d want %d,%d", tt.pattern, lo, hi, tt.lo, tt.hi)
		}
	}
}

func TestParseClass(t *testing.T) {
	tests := []struct {
		pattern string
		flags   Flags
		in      string
		out     string
	}{
		{`[abc]`, 0, "abc", "dA"},
		{`[^abc]`, 0, "dA\n", "abc"},
		{`[]a]`, 0, "]a", "b["},
		{`[^]a]`, 0, "b", "]a"},
		{`[a-c&&b-d]`, 0, "bc", "ad"},
		{`[a-z--[aeiou]]`, 0, "bz", "ae"},
		{`[a[0-2]]`, 0, "a01", "3b"},
		{`[[:digit:]x]`, 0, "09x", "a"},
		{`[[:^alpha:]]`, 0, "1 ", "aZ"},
		{`[\d-]`, 0, "5-", "a"},
		{`[\w&&\D]`, 0, "a_", "1 "},
		{`[\b]`, 0, "\b", "b"},
		{`[\Q]-\E]`, 0, "]-", "a"},
		{`[\p{Greek}]`, 0, "αΩ", "a"},
		{`[\P{L}]`, 0, "1 ", "aé"},
		{`[a]`, FoldCase, "aA", "b"},
		{`[^a]`, FoldCase, "b", "aA"},
		{`[k]`, FoldCase, "kK\u212a", "j"},
		{`[\W]`, FoldCase, " ", "kK"},
		{`[\x{41}-\x{43}]`, 0, "ABC", "D"},
	}
	for _, tt := range tests {
		t.Run(tt.pattern, func(t *testing.T) {
			re, err := Parse(tt.pattern, tt.flags)
			if err != nil {
				t.Fatal(err)
			}
			if re.Root.Op != OpCharClass {
				t.Fatalf("got %s, want CharClass", re.Root)
			}
			cc := re.Root.Class
			for _, r := range tt.in {
				if !cc.Contains(r) {
					t.Errorf("%s does not contain %q", cc, r)
				}
			}
			for _, r := range tt.out {
				if cc.Contains(r) {
					t.Errorf("%s contains %q", cc, r)
				}
			}
		})
	}
}

func TestPerlClassOutsideBrackets(t *testing.T) {
	re, err := Parse(`\D`, 0)
	if err != nil {
		t.Fatal(err)
	}
	cc := re.Root.Class
	if cc.Contains('5') || !cc.Contains('x') || !cc.Contains('٣') {
		t.Errorf(`\D = %s`, cc)
	}
}

func TestFlagsString(t *testing.T) {
	if got := (FoldCase | MultiLine).String(); got != "FoldCase|MultiLine" {
		t.Errorf("got %q", got)
	}
	if got := Flags(0).String(); got != "0" {
		t.Errorf("got %q", got)
	}
}
