package prefilter

import (
	"testing"

	"github.com/coregx/regexkit/literal"
	"github.com/coregx/regexkit/syntax"
)

func prefixes(t *testing.T, pattern string) *literal.Seq {
	t.Helper()
	re, err := syntax.Parse(pattern, 0)
	if err != nil {
		t.Fatalf("Parse(%q): %v", pattern, err)
	}
	return literal.New(literal.DefaultConfig()).ExtractPrefixes(re)
}

func TestBuilderSelection(t *testing.T) {
	tests := []struct {
		pattern string
		minLen  int
		want    string
	}{
		{`a\w`, 1, "memchr"},
		{`hello\w`, 1, "memmem"},
		{`[0-9]+`, 1, "byteset"},
		{`(a|b)c`, 1, "ahocorasick"},
		{`(foo|bar)\w`, 1, "ahocorasick"},
		{`(?i)get`, 1, "ahocorasick"},
		{`.x`, 1, "none"},
		{`a*`, 1, "none"},
		{`\w+`, 1, "none"},
		{`ab\w`, 3, "none"},
		{`abc\w`, 3, "memmem"},
	}
	for _, tt := range tests {
		t.Run(tt.pattern, func(t *testing.T) {
			pf := NewBuilder(prefixes(t, tt.pattern)).MinLiteralLen(tt.minLen).Build()
			var got string
			switch pf.(type) {
			case nil:
				got = "none"
			case *memchrPrefilter:
				got = "memchr"
			case *memmemPrefilter:
				got = "memmem"
			case *ByteSetPrefilter:
				got = "byteset"
			case *ahoCorasickPrefilter:
				got = "ahocorasick"
			}
			if got != tt.want {
				t.Errorf("Build() for %q = %s, want %s", tt.pattern, got, tt.want)
			}
		})
	}
}

func TestFind(t *testing.T) {
	tests := []struct {
		name     string
		pf       Prefilter
		haystack string
		start    int
		want     int
	}{
		{"memchr", newMemchrPrefilter('x', false), "abxcx", 0, 2},
		{"memchr from start", newMemchrPrefilter('x', false), "abxcx", 3, 4},
		{"memchr none", newMemchrPrefilter('x', false), "abc", 0, -1},
		{"memchr past end", newMemchrPrefilter('x', false), "x", 1, -1},
		{"memmem", newMemmemPrefilter([]byte("cd"), false), "abcdcd", 0, 2},
		{"memmem from start", newMemmemPrefilter([]byte("cd"), false), "abcdcd", 3, 4},
		{"memmem negative start", newMemmemPrefilter([]byte("cd"), false), "cd", -1, -1},
		{"byteset", NewByteSetPrefilter([]byte("0123456789")), "abc 42", 0, 4},
		{"byteset none", NewByteSetPrefilter([]byte("0123456789")), "abc", 0, -1},
		{"ahocorasick", newAhoCorasickPrefilter(literal.NewSeq(
			literal.NewLiteral([]byte("foo"), true),
			literal.NewLiteral([]byte("bar"), true),
		)), "xx bar foo", 0, 3},
		{"ahocorasick from start", newAhoCorasickPrefilter(literal.NewSeq(
			literal.NewLiteral([]byte("foo"), true),
			literal.NewLiteral([]byte("bar"), true),
		)), "xx bar foo", 4, 7},
		{"ahocorasick none", newAhoCorasickPrefilter(literal.NewSeq(
			literal.NewLiteral([]byte("foo"), true),
			literal.NewLiteral([]byte("bar"), true),
		)), "baz", 0, -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.pf.Find([]byte(tt.haystack), tt.start); got != tt.want {
				t.Errorf("Find(%q, %d) = %d, want %d", tt.haystack, tt.start, got, tt.want)
			}
		})
	}
}

func TestComplete(t *testing.T) {
	seq := prefixes(t, `hello`)
	pf := NewBuilder(seq).Complete(true).Build()
	if !pf.IsComplete() || pf.LiteralLen() != 5 {
		t.Errorf("IsComplete = %v, LiteralLen = %d; want true, 5", pf.IsComplete(), pf.LiteralLen())
	}

	pf = NewBuilder(seq).Build()
	if pf.IsComplete() || pf.LiteralLen() != 0 {
		t.Errorf("without Complete: IsComplete = %v, LiteralLen = %d", pf.IsComplete(), pf.LiteralLen())
	}

	// An inexact literal never becomes complete.
	pf = NewBuilder(prefixes(t, `hello\w`)).Complete(true).Build()
	if pf.IsComplete() {
		t.Error("inexact prefix reported complete")
	}
}

func TestByteSet(t *testing.T) {
	pf := NewByteSetPrefilter([]byte("abca"))
	if pf.Len() != 3 {
		t.Errorf("Len = %d, want 3", pf.Len())
	}
	if !pf.Contains('c') || pf.Contains('d') {
		t.Error("Contains wrong")
	}
	if pf.HeapBytes() != 256 {
		t.Errorf("HeapBytes = %d", pf.HeapBytes())
	}
}
