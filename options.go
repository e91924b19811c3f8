package regexkit

import (
	"strconv"
	"strings"

	"github.com/coregx/regexkit/syntax"
)

// Options is a set of pattern options. Combine them with |.
//
// Example:
//
//	re, err := regexkit.Compile(`^\w+$`, regexkit.CaseInsensitive|regexkit.AnchorsMatchLines)
type Options uint32

const (
	// CaseInsensitive matches letters regardless of case, using Unicode
	// simple case folding.
	CaseInsensitive Options = 1 << iota

	// AllowCommentsAndWhitespace ignores unescaped whitespace and
	// #-to-end-of-line comments in the pattern.
	AllowCommentsAndWhitespace

	// IgnoreMetacharacters treats the whole pattern as literal text.
	IgnoreMetacharacters

	// DotMatchesLineSeparators lets '.' match line terminators.
	DotMatchesLineSeparators

	// AnchorsMatchLines makes '^' and '$' match at the start and end of
	// every line.
	AnchorsMatchLines

	// UseUnixLineSeparators recognizes only '\n' as a line terminator.
	UseUnixLineSeparators

	// UseUnicodeWordBoundaries makes \b and \B follow Unicode word
	// segmentation (UAX #29) instead of \w transitions.
	UseUnicodeWordBoundaries
)

// DefaultOptions are used by the package-level matching helpers.
const DefaultOptions = CaseInsensitive

// optionFlags maps every option to its compiler flag. It is the only place
// the two sets are related.
var optionFlags = []struct {
	opt  Options
	flag syntax.Flags
	name string
}{
	{CaseInsensitive, syntax.FoldCase, "CaseInsensitive"},
	{AllowCommentsAndWhitespace, syntax.FreeSpacing, "AllowCommentsAndWhitespace"},
	{IgnoreMetacharacters, syntax.Literal, "IgnoreMetacharacters"},
	{DotMatchesLineSeparators, syntax.DotNL, "DotMatchesLineSeparators"},
	{AnchorsMatchLines, syntax.MultiLine, "AnchorsMatchLines"},
	{UseUnixLineSeparators, syntax.UnixLines, "UseUnixLineSeparators"},
	{UseUnicodeWordBoundaries, syntax.UnicodeWord, "UseUnicodeWordBoundaries"},
}

// Has reports whether every option in o2 is set in o.
func (o Options) Has(o2 Options) bool {
	return o&o2 == o2
}

// String returns the option names joined by '|', or "0" for none.
// Unknown bits are printed in hex.
func (o Options) String() string {
	if o == 0 {
		return "0"
	}
	var parts []string
	rest := o
	for _, of := range optionFlags {
		if o&of.opt != 0 {
			parts = append(parts, of.name)
			rest &^= of.opt
		}
	}
	if rest != 0 {
		parts = append(parts, "0x"+strconv.FormatUint(uint64(rest), 16))
	}
	return strings.Join(parts, "|")
}

// compileFlags translates options to compiler flags. Unknown bits are
// ignored. Comment mode has no effect on a literal pattern and is dropped.
func (o Options) compileFlags() syntax.Flags {
	var flags syntax.Flags
	for _, of := range optionFlags {
		if o&of.opt != 0 {
			flags |= of.flag
		}
	}
	if flags&syntax.Literal != 0 {
		flags &^= syntax.FreeSpacing
	}
	return flags
}

// optionsFromFlags is the inverse of compileFlags.
func optionsFromFlags(flags syntax.Flags) Options {
	var o Options
	for _, of := range optionFlags {
		if flags&of.flag != 0 {
			o |= of.opt
		}
	}
	return o
}
