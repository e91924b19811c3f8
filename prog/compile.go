package prog

import (
	"unicode"

	"github.com/coregx/regexkit/syntax"
)

// DefaultMaxInsts is the default instruction limit for a compiled program.
const DefaultMaxInsts = 1 << 20

// Config configures compilation.
type Config struct {
	// MaxInsts caps the program size. Counted repetition is expanded into
	// copies, so nested counters are the usual way to reach it.
	// 0 means no limit.
	MaxInsts int
}

// DefaultConfig returns the default compiler configuration.
func DefaultConfig() Config {
	return Config{MaxInsts: DefaultMaxInsts}
}

// Compile turns a parsed pattern into a program of the form
// Save(0) body Save(1) Match.
func Compile(re *syntax.Regexp, config Config) (*Program, error) {
	c := &compiler{
		b:       NewBuilder(config.MaxInsts),
		nextReg: 2 * (re.NumCap + 1),
	}

	save0 := c.b.AddSave(0)
	start, end := c.compile(re.Root)
	save1 := c.b.AddSave(1)
	match := c.b.AddMatch()
	c.patch(save0, start)
	c.patch(end, save1)
	c.patch(save1, match)
	if c.err == nil {
		c.err = c.b.Err()
	}
	if c.err != nil {
		return nil, &CompileError{Pattern: re.Source, Err: c.err}
	}

	minLen, _ := re.Root.Width()
	p, err := c.b.Build(save0,
		WithCaptures(re.Names),
		WithSlots(c.nextReg),
		WithAnchorStart(anchoredAtStart(re.Root)),
		WithMinLen(minLen),
		WithSource(re.Source, re.Flags),
	)
	if err != nil {
		return nil, &CompileError{Pattern: re.Source, Err: err}
	}
	return p, nil
}

type compiler struct {
	b       *Builder
	nextReg int // next free loop register slot
	err     error
}

func (c *compiler) patch(id, target InstID) {
	if c.err != nil || id == InvalidInst {
		return
	}
	if err := c.b.Patch(id, target); err != nil {
		c.err = err
	}
}

// fragment returns a single instruction that is both start and open end.
func fragment(id InstID) (start, end InstID) { return id, id }

// compile emits n and returns its entry and the instruction whose exit
// continues after it.
func (c *compiler) compile(n *syntax.Node) (start, end InstID) {
	if c.err != nil || c.b.Err() != nil {
		return InvalidInst, InvalidInst
	}
	switch n.Op {
	case syntax.OpEmpty:
		return fragment(c.b.AddJmp(InvalidInst))
	case syntax.OpNoMatch:
		return c.fail()
	case syntax.OpLiteral:
		return fragment(c.literal(n))
	case syntax.OpCharClass:
		if n.Class.IsEmpty() {
			return c.fail()
		}
		return fragment(c.b.AddClass(n.Class))
	case syntax.OpAnyChar:
		return fragment(c.b.AddAny(n.Flags&syntax.DotNL != 0, n.Flags&syntax.UnixLines != 0))
	case syntax.OpAssert:
		return fragment(c.b.AddAssert(lookFor(n), n.Flags&syntax.UnixLines != 0))
	case syntax.OpBackref:
		return fragment(c.b.AddBackref(n.Cap, n.Flags&syntax.FoldCase != 0))
	case syntax.OpCapture:
		open := c.b.AddSave(2 * n.Cap)
		s, e := c.compile(n.Sub[0])
		closing := c.b.AddSave(2*n.Cap + 1)
		c.patch(open, s)
		c.patch(e, closing)
		return open, closing
	case syntax.OpConcat:
		start, end = InvalidInst, InvalidInst
		for _, sub := range n.Sub {
			s, e := c.compile(sub)
			if start == InvalidInst {
				start = s
			} else {
				c.patch(end, s)
			}
			end = e
		}
		if start == InvalidInst {
			return fragment(c.b.AddJmp(InvalidInst))
		}
		return start, end
	case syntax.OpAlternate:
		return c.alternate(n.Sub)
	case syntax.OpRepeat:
		return c.repeat(n)
	case syntax.OpLook:
		lo, hi := 0, 0
		if n.Behind {
			lo, hi = n.Sub[0].Width()
		}
		look := c.b.AddLook(n.Negate, n.Behind, lo, hi)
		c.body(look, n.Sub[0])
		return look, look
	case syntax.OpAtomic:
		atomic := c.b.AddAtomic()
		c.body(atomic, n.Sub[0])
		return atomic, atomic
	}
	return c.fail()
}

// body compiles a lookaround or atomic body ending in Succeed.
func (c *compiler) body(owner InstID, sub *syntax.Node) {
	first := c.b.Len()
	s, e := c.compile(sub)
	c.patch(e, c.b.AddSucceed())
	if c.err == nil && c.b.Err() == nil {
		if err := c.b.SetBody(owner, s); err != nil {
			c.err = err
		}
	}
	c.b.SetNoMemo(first, c.b.Len())
}

func (c *compiler) fail() (start, end InstID) {
	// The Jmp is unreachable; it only gives the fragment an open end.
	return c.b.AddFail(), c.b.AddJmp(InvalidInst)
}

func (c *compiler) literal(n *syntax.Node) InstID {
	fold := n.Flags&syntax.FoldCase != 0 && hasCase(n.Runes)
	if len(n.Runes) == 1 {
		r := n.Runes[0]
		if fold {
			return c.b.AddRune(foldOrbit(r))
		}
		return c.b.AddRune([]rune{r})
	}
	return c.b.AddLiteral(encodeRunes(n.Runes), fold)
}

func (c *compiler) alternate(subs []*syntax.Node) (start, end InstID) {
	join := c.b.AddJmp(InvalidInst)
	prev := InvalidInst
	for i, sub := range subs {
		s, e := c.compile(sub)
		c.patch(e, join)
		entry := s
		if i < len(subs)-1 {
			entry = c.b.AddSplit(s, InvalidInst)
		}
		if prev == InvalidInst {
			start = entry
		} else {
			c.patch(prev, entry)
		}
		prev = entry
	}
	return start, join
}

func (c *compiler) repeat(n *syntax.Node) (start, end InstID) {
	sub := n.Sub[0]
	if n.Mode != syntax.Possessive {
		return c.repeatRange(sub, n.Min, n.Max, n.Mode == syntax.Greedy)
	}
	atomic := c.b.AddAtomic()
	first := c.b.Len()
	s, e := c.repeatRange(sub, n.Min, n.Max, true)
	c.patch(e, c.b.AddSucceed())
	if c.err == nil && c.b.Err() == nil {
		if err := c.b.SetBody(atomic, s); err != nil {
			c.err = err
		}
	}
	c.b.SetNoMemo(first, c.b.Len())
	return atomic, atomic
}

// repeatRange expands sub{lo,hi} into lo mandatory copies followed by
// either a loop (hi == -1) or hi-lo nested optional copies.
func (c *compiler) repeatRange(sub *syntax.Node, lo, hi int, greedy bool) (start, end InstID) {
	if hi == 0 {
		return fragment(c.b.AddJmp(InvalidInst))
	}
	start, end = InvalidInst, InvalidInst
	link := func(s, e InstID) {
		if start == InvalidInst {
			start = s
		} else {
			c.patch(end, s)
		}
		end = e
	}

	if hi == -1 {
		mandatory := lo
		if lo > 0 && !sub.CanBeEmpty() {
			// The last mandatory copy doubles as the loop body.
			mandatory--
		}
		for range mandatory {
			link(c.compile(sub))
		}
		if mandatory < lo {
			link(c.plus(sub, greedy))
		} else {
			link(c.star(sub, greedy))
		}
		return start, end
	}

	for range lo {
		link(c.compile(sub))
	}
	if hi == lo {
		return start, end
	}
	join := c.b.AddJmp(InvalidInst)
	for range hi - lo {
		s, e := c.compile(sub)
		var split InstID
		if greedy {
			split = c.b.AddSplit(s, join)
		} else {
			split = c.b.AddSplit(join, s)
		}
		link(split, e)
	}
	c.patch(end, join)
	return start, join
}

// star emits a zero-or-more loop. A body that can match empty is wrapped
// in Mark/Progress so that an empty iteration leaves the loop.
func (c *compiler) star(sub *syntax.Node, greedy bool) (start, end InstID) {
	if !sub.CanBeEmpty() {
		s, e := c.compile(sub)
		split := c.loopSplit(s, greedy)
		c.patch(e, split)
		return split, split
	}
	join := c.b.AddJmp(InvalidInst)
	reg := c.nextReg
	c.nextReg++
	first := c.b.Len()
	mark := c.b.AddMark(reg)
	s, e := c.compile(sub)
	progress := c.b.AddProgress(reg, join)
	c.patch(mark, s)
	c.patch(e, progress)
	c.b.SetNoMemo(first, c.b.Len())
	split := c.loopSplit(mark, greedy)
	c.patch(progress, split)
	c.patch(split, join)
	return split, join
}

// loopSplit adds the branch between another iteration at body and the
// loop exit, which is left open.
func (c *compiler) loopSplit(body InstID, greedy bool) InstID {
	if greedy {
		return c.b.AddSplit(body, InvalidInst)
	}
	return c.b.AddSplit(InvalidInst, body)
}

// plus emits a one-or-more loop over a body that always consumes input.
func (c *compiler) plus(sub *syntax.Node, greedy bool) (start, end InstID) {
	s, e := c.compile(sub)
	split := c.loopSplit(s, greedy)
	c.patch(e, split)
	return s, split
}

func lookFor(n *syntax.Node) Look {
	multi := n.Flags&syntax.MultiLine != 0
	uword := n.Flags&syntax.UnicodeWord != 0
	switch n.Assert {
	case syntax.AssertBeginLine:
		if multi {
			return LookStartLine
		}
		return LookStartText
	case syntax.AssertEndLine:
		if multi {
			return LookEndLine
		}
		return LookEndTextOptTerm
	case syntax.AssertBeginText:
		return LookStartText
	case syntax.AssertEndText:
		return LookEndText
	case syntax.AssertEndTextOptional:
		return LookEndTextOptTerm
	case syntax.AssertWordBoundary:
		if uword {
			return LookUnicodeWordBoundary
		}
		return LookWordBoundary
	case syntax.AssertNotWordBoundary:
		if uword {
			return LookNotUnicodeWordBoundary
		}
		return LookNotWordBoundary
	}
	return LookSearchStart
}

// anchoredAtStart reports whether every path through n begins with a
// start-of-text assertion.
func anchoredAtStart(n *syntax.Node) bool {
	switch n.Op {
	case syntax.OpAssert:
		return n.Assert == syntax.AssertBeginText ||
			(n.Assert == syntax.AssertBeginLine && n.Flags&syntax.MultiLine == 0)
	case syntax.OpConcat:
		return len(n.Sub) > 0 && anchoredAtStart(n.Sub[0])
	case syntax.OpCapture, syntax.OpAtomic:
		return anchoredAtStart(n.Sub[0])
	case syntax.OpRepeat:
		return n.Min > 0 && anchoredAtStart(n.Sub[0])
	case syntax.OpAlternate:
		for _, sub := range n.Sub {
			if !anchoredAtStart(sub) {
				return false
			}
		}
		return len(n.Sub) > 0
	}
	return false
}

// foldOrbit returns r followed by its simple case-fold equivalents.
func foldOrbit(r rune) []rune {
	orbit := []rune{r}
	for f := unicode.SimpleFold(r); f != r; f = unicode.SimpleFold(f) {
		orbit = append(orbit, f)
	}
	return orbit
}

func hasCase(runes []rune) bool {
	for _, r := range runes {
		if unicode.SimpleFold(r) != r {
			return true
		}
	}
	return false
}
