package syntax

import "strings"

// Flags controls how a pattern is parsed and how its instructions behave.
// They are the compiler-native form of the public option set.
type Flags uint16

const (
	// FoldCase makes literals, classes and backreferences match case-insensitively.
	FoldCase Flags = 1 << iota

	// FreeSpacing ignores unescaped whitespace and #-to-end-of-line comments.
	FreeSpacing

	// Literal treats the whole pattern as verbatim text.
	Literal

	// DotNL lets '.' match line terminators.
	DotNL

	// MultiLine makes '^' and '$' match at line boundaries.
	MultiLine

	// UnixLines restricts line terminators to '\n'.
	UnixLines

	// UnicodeWord makes \b and \B use Unicode word segmentation.
	UnicodeWord
)

var flagNames = []struct {
	flag Flags
	name string
}{
	{FoldCase, "FoldCase"},
	{FreeSpacing, "FreeSpacing"},
	{Literal, "Literal"},
	{DotNL, "DotNL"},
	{MultiLine, "MultiLine"},
	{UnixLines, "UnixLines"},
	{UnicodeWord, "UnicodeWord"},
}

// String returns the flag names joined by '|'.
func (f Flags) String() string {
	if f == 0 {
		return "0"
	}
	var parts []string
	for _, fn := range flagNames {
		if f&fn.flag != 0 {
			parts = append(parts, fn.name)
		}
	}
	return strings.Join(parts, "|")
}

// inlineFlag maps an inline flag letter, as in (?imsxwd), to its flag.
func inlineFlag(c byte) (Flags, bool) {
	switch c {
	case 'i':
		return FoldCase, true
	case 'm':
		return MultiLine, true
	case 's':
		return DotNL, true
	case 'x':
		return FreeSpacing, true
	case 'w':
		return UnicodeWord, true
	case 'd':
		return UnixLines, true
	}
	return 0, false
}
