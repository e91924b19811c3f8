package literal

import (
	"unicode"
	"unicode/utf8"

	"github.com/coregx/regexkit/syntax"
)

// ExtractorConfig bounds literal extraction.
type ExtractorConfig struct {
	// MaxLiterals caps the size of any intermediate sequence. Larger sets
	// give up and become infinite.
	// Default: 64
	MaxLiterals int

	// MaxLiteralLen truncates extracted literals (bytes).
	// Default: 64
	MaxLiteralLen int

	// MaxClassSize is the largest character class expanded into one
	// literal per rune.
	// Default: 10
	MaxClassSize int

	// MaxDepth stops descending into deeply nested patterns.
	// Default: 100
	MaxDepth int
}

// DefaultConfig returns the default extraction limits.
func DefaultConfig() ExtractorConfig {
	return ExtractorConfig{
		MaxLiterals:   64,
		MaxLiteralLen: 64,
		MaxClassSize:  10,
		MaxDepth:      100,
	}
}

// Extractor computes prefix literal sets from parsed patterns.
type Extractor struct {
	config ExtractorConfig
}

// New creates an extractor with the given limits.
func New(config ExtractorConfig) *Extractor {
	return &Extractor{config: config}
}

// ExtractPrefixes returns the literals every match of re begins with.
//
// The result is minimized. It is infinite when no useful set exists, and
// contains an empty literal when some match may begin with anything.
//
// Example:
//
//	re, _ := syntax.Parse(`(foo|bar)\d+`, 0)
//	seq := literal.New(literal.DefaultConfig()).ExtractPrefixes(re)
//	// seq: ["bar"+ "foo"+]
func (e *Extractor) ExtractPrefixes(re *syntax.Regexp) *Seq {
	seq := e.prefixes(re.Root, 0)
	seq.Minimize()
	return seq
}

func (e *Extractor) prefixes(n *syntax.Node, depth int) *Seq {
	if depth > e.config.MaxDepth {
		return Infinite()
	}
	switch n.Op {
	case syntax.OpNoMatch:
		return NewSeq()
	case syntax.OpEmpty, syntax.OpAssert, syntax.OpLook:
		// Zero-width: the match continues with whatever follows.
		return emptySeq()
	case syntax.OpLiteral:
		return e.literal(n.Runes, n.Flags&syntax.FoldCase != 0)
	case syntax.OpCharClass:
		return e.class(n.Class)
	case syntax.OpCapture, syntax.OpAtomic:
		return e.prefixes(n.Sub[0], depth+1)
	case syntax.OpConcat:
		seq := emptySeq()
		for _, sub := range n.Sub {
			if !seq.IsFinite() || !seq.hasComplete() {
				break
			}
			seq.Cross(e.prefixes(sub, depth+1), e.config.MaxLiterals, e.config.MaxLiteralLen)
		}
		return seq
	case syntax.OpAlternate:
		seq := NewSeq()
		for _, sub := range n.Sub {
			seq.Union(e.prefixes(sub, depth+1), e.config.MaxLiterals)
			if !seq.IsFinite() {
				break
			}
		}
		return seq
	case syntax.OpRepeat:
		sub := e.prefixes(n.Sub[0], depth+1)
		if n.Min == 1 && n.Max == 1 {
			return sub
		}
		sub.MakeInexact()
		if n.Min == 0 {
			sub.Union(emptySeq(), e.config.MaxLiterals)
		}
		return sub
	}
	// OpAnyChar, OpBackref
	return Infinite()
}

// literal expands runes into byte strings, one per combination of case
// variants when folding. Runes past the point where the combinations exceed
// MaxLiterals are dropped and the result is inexact.
func (e *Extractor) literal(runes []rune, fold bool) *Seq {
	seq := emptySeq()
	for _, r := range runes {
		if r == utf8.RuneError {
			// U+FFFD also stands for invalid input bytes.
			seq.MakeInexact()
			return seq
		}
		variants := []rune{r}
		if fold {
			for f := unicode.SimpleFold(r); f != r; f = unicode.SimpleFold(f) {
				variants = append(variants, f)
			}
		}
		next := NewSeq()
		for _, v := range variants {
			next.literals = append(next.literals, NewLiteral(utf8.AppendRune(nil, v), true))
		}
		seq.Cross(next, e.config.MaxLiterals, e.config.MaxLiteralLen)
		if !seq.hasComplete() {
			break
		}
	}
	return seq
}

func (e *Extractor) class(cc *syntax.CharClass) *Seq {
	if cc.Size() > e.config.MaxClassSize {
		return Infinite()
	}
	seq := NewSeq()
	for _, rr := range cc.Ranges {
		for r := rr.Lo; r <= rr.Hi; r++ {
			if r == utf8.RuneError {
				return Infinite()
			}
			seq.literals = append(seq.literals, NewLiteral(utf8.AppendRune(nil, r), true))
		}
	}
	return seq
}
