package regexkit

import (
	"fmt"
	"reflect"
	"testing"

	"github.com/dlclark/regexp2"
)

// oracleOptions maps options to their .NET equivalents in regexp2.
func oracleOptions(opts Options) regexp2.RegexOptions {
	var o regexp2.RegexOptions
	if opts.Has(CaseInsensitive) {
		o |= regexp2.IgnoreCase
	}
	if opts.Has(AnchorsMatchLines) {
		o |= regexp2.Multiline
	}
	if opts.Has(DotMatchesLineSeparators) {
		o |= regexp2.Singleline
	}
	if opts.Has(AllowCommentsAndWhitespace) {
		o |= regexp2.IgnorePatternWhitespace
	}
	return o
}

// oracleSlots returns the capture slots of a regexp2 match. Subjects are
// ASCII, so rune offsets equal byte offsets.
func oracleSlots(m *regexp2.Match) []int {
	if m == nil {
		return nil
	}
	var slots []int
	for _, g := range m.Groups() {
		if len(g.Captures) == 0 {
			slots = append(slots, -1, -1)
			continue
		}
		slots = append(slots, g.Index, g.Index+g.Length)
	}
	return slots
}

func matchSlots(m *Match) []int {
	if m == nil {
		return nil
	}
	return append([]int(nil), m.Slots()...)
}

// differentialCases use ASCII subjects and constructs whose semantics
// .NET shares with ICU: both are leftmost-first backtrackers.
var differentialCases = []struct {
	pattern string
	inputs  []string
	// nonEmpty marks patterns that never match empty, so successive
	// matches can be compared too.
	nonEmpty bool
}{
	{`(a|ab)(c|bcd)(d*)`, []string{"abcd", "xabcdd"}, true},
	{`(a+)+b`, []string{"aaab", "aaa", "b"}, true},
	{`(\w+)\s+\1`, []string{"hello hello world", "a b c c"}, true},
	{`Hello`, []string{"hello HELLO Hello"}, true},
	{`(?<=\d{3})[a-z]+`, []string{"123abc 12xy", "x1234yz"}, true},
	{`(?<!foo)bar`, []string{"foobar xbar bar"}, true},
	{`(?=\w*\d)\w+`, []string{"abc a1 22"}, true},
	{`(?>a+)b`, []string{"aaab", "aaa"}, true},
	{`(?>a+)a`, []string{"aaaa"}, true},
	{`x{2,3}?`, []string{"xxxxxxx"}, true},
	{`x{2,3}`, []string{"xxxxxxx"}, true},
	{`^(\d+)$`, []string{"12\n34\nab", "12"}, true},
	{`(a)|(b)`, []string{"b", "ab"}, true},
	{`\bfoo\b`, []string{"a foo b foobar foo"}, true},
	{`\Bo\B`, []string{"foo boot"}, true},
	{`(\d+)-(\d+)`, []string{"tel 555-1234, 1-2"}, true},
	{`colou?r`, []string{"color colour colouur"}, true},
	{`a.c`, []string{"a\nc abc"}, true},
	{`\Aabc`, []string{"abc abc", "xabc"}, true},
	{`abc$`, []string{"abc\n", "abc\nabc", "abc"}, true},
	{`abc\Z`, []string{"abc\n", "abc"}, true},
	{`abc\z`, []string{"abc\n", "abc"}, true},
	{`(a|b)*?c`, []string{"abac", "ccc"}, true},
	{`\d+(?=px)`, []string{"10em 20px 300px"}, true},
	{`[^aeiou\s]+`, []string{"hello world"}, true},
	{`(?<year>\d{4})-(?<mon>\d\d)`, []string{"on 2024-05 and 1999-12"}, true},
	{`a b c # letters`, []string{"abc a b c"}, true},
	{`[a-f]+\d*`, []string{"cafe42 BEEF7"}, true},
	{`(\w)(\w)?\2`, []string{"abb xyz"}, true},
	{`a*`, []string{"baaac", ""}, false},
	{`(a*)b`, []string{"b", "aab"}, true},
	{`(?:ab|a)(?:bc|c)`, []string{"abc"}, true},
	{`x*?y`, []string{"xxy y"}, true},
}

func TestDifferentialRegexp2(t *testing.T) {
	optionSets := []Options{
		0,
		CaseInsensitive,
		AnchorsMatchLines,
		DotMatchesLineSeparators,
		AllowCommentsAndWhitespace,
		CaseInsensitive | AnchorsMatchLines | DotMatchesLineSeparators,
	}

	for _, tc := range differentialCases {
		for _, opts := range optionSets {
			name := fmt.Sprintf("%s/%s", tc.pattern, opts)
			t.Run(name, func(t *testing.T) {
				oracle, err := regexp2.Compile(tc.pattern, oracleOptions(opts))
				if err != nil {
					t.Skipf("oracle rejects pattern: %v", err)
				}
				re, err := Compile(tc.pattern, opts)
				if err != nil {
					t.Fatalf("Compile: %v", err)
				}

				for _, input := range tc.inputs {
					om, err := oracle.FindStringMatch(input)
					if err != nil {
						t.Fatalf("oracle: %v", err)
					}
					m, err := re.FindString(input)
					if err != nil {
						t.Fatalf("FindString(%q): %v", input, err)
					}
					if got, want := matchSlots(m), oracleSlots(om); !reflect.DeepEqual(got, want) {
						t.Errorf("FindString(%q) slots = %v, want %v", input, got, want)
					}

					if !tc.nonEmpty {
						continue
					}
					var want [][]int
					for om != nil {
						want = append(want, oracleSlots(om))
						if om, err = oracle.FindNextMatch(om); err != nil {
							t.Fatalf("oracle: %v", err)
						}
					}
					var got [][]int
					for m, err := range re.FindAllString(input) {
						if err != nil {
							t.Fatalf("FindAllString(%q): %v", input, err)
						}
						got = append(got, matchSlots(m))
					}
					if !reflect.DeepEqual(got, want) {
						t.Errorf("FindAllString(%q) = %v, want %v", input, got, want)
					}
				}
			})
		}
	}
}
