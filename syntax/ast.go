package syntax

import (
	"strconv"
	"strings"
)

// Op is the kind of a syntax tree node.
type Op uint8

const (
	OpNoMatch   Op = iota + 1 // matches nothing
	OpEmpty                   // matches the empty string
	OpLiteral                 // Runes, folded when Flags has FoldCase
	OpCharClass               // Class
	OpAnyChar                 // '.', line handling taken from Flags
	OpAssert                  // zero-width Assert
	OpCapture                 // capturing group Cap (and Name), Sub[0]
	OpConcat                  // Sub[0] Sub[1] ...
	OpAlternate               // Sub[0] | Sub[1] ...
	OpRepeat                  // Sub[0]{Min,Max}, Max == -1 means unbounded
	OpBackref                 // \Cap
	OpLook                    // lookaround over Sub[0]
	OpAtomic                  // (?>Sub[0])
)

var opNames = [...]string{
	OpNoMatch:   "NoMatch",
	OpEmpty:     "Empty",
	OpLiteral:   "Literal",
	OpCharClass: "CharClass",
	OpAnyChar:   "AnyChar",
	OpAssert:    "Assert",
	OpCapture:   "Capture",
	OpConcat:    "Concat",
	OpAlternate: "Alternate",
	OpRepeat:    "Repeat",
	OpBackref:   "Backref",
	OpLook:      "Look",
	OpAtomic:    "Atomic",
}

func (op Op) String() string {
	if int(op) < len(opNames) && opNames[op] != "" {
		return opNames[op]
	}
	return "Op(" + strconv.Itoa(int(op)) + ")"
}

// AssertKind identifies a zero-width assertion.
type AssertKind uint8

const (
	AssertBeginLine       AssertKind = iota + 1 // ^
	AssertEndLine                               // $
	AssertBeginText                             // \A
	AssertEndText                               // \z
	AssertEndTextOptional                       // \Z: end, or before a final line terminator
	AssertWordBoundary                          // \b
	AssertNotWordBoundary                       // \B
	AssertSearchStart                           // \G
)

// RepeatMode selects how a repetition backtracks.
type RepeatMode uint8

const (
	Greedy RepeatMode = iota
	Lazy
	Possessive
)

// Node is a node of the parsed syntax tree.
type Node struct {
	Op     Op
	Flags  Flags // flags in effect where the node was parsed
	Runes  []rune
	Class  *CharClass
	Assert AssertKind
	Sub    []*Node
	Min    int
	Max    int
	Mode   RepeatMode
	Cap    int    // capture index for OpCapture and OpBackref
	Name   string // group name for OpCapture, referenced name for OpBackref
	Negate bool   // negative lookaround
	Behind bool   // lookbehind
}

// Regexp is a parsed pattern.
type Regexp struct {
	Root   *Node
	Source string
	Flags  Flags
	NumCap int      // number of capture groups, not counting the whole match
	Names  []string // Names[i] is the name of group i; Names[0] is ""
}

// Unbounded is the rune width reported for expressions without an upper bound.
const Unbounded = -1

// Width returns the minimum and maximum number of runes n can consume.
// max is Unbounded when there is no upper bound.
func (n *Node) Width() (lo, hi int) {
	switch n.Op {
	case OpNoMatch, OpEmpty, OpAssert, OpLook:
		return 0, 0
	case OpLiteral:
		return len(n.Runes), len(n.Runes)
	case OpCharClass, OpAnyChar:
		return 1, 1
	case OpBackref:
		return 0, Unbounded
	case OpCapture, OpAtomic:
		return n.Sub[0].Width()
	case OpConcat:
		for _, sub := range n.Sub {
			l, h := sub.Width()
			lo += l
			if hi != Unbounded {
				if h == Unbounded {
					hi = Unbounded
				} else {
					hi += h
				}
			}
		}
		return lo, hi
	case OpAlternate:
		for i, sub := range n.Sub {
			l, h := sub.Width()
			if i == 0 || l < lo {
				lo = l
			}
			if i == 0 {
				hi = h
			} else if hi != Unbounded && (h == Unbounded || h > hi) {
				hi = h
			}
		}
		return lo, hi
	case OpRepeat:
		l, h := n.Sub[0].Width()
		lo = l * n.Min
		switch {
		case h == 0:
			hi = 0
		case n.Max == -1 || h == Unbounded:
			hi = Unbounded
		default:
			hi = h * n.Max
		}
		return lo, hi
	}
	return 0, Unbounded
}

// CanBeEmpty reports whether n can match without consuming input.
func (n *Node) CanBeEmpty() bool {
	lo, _ := n.Width()
	return lo == 0
}

// String returns a debugging rendering of the tree.
func (n *Node) String() string {
	var b strings.Builder
	n.dump(&b)
	return b.String()
}

func (n *Node) dump(b *strings.Builder) {
	b.WriteString(n.Op.String())
	switch n.Op {
	case OpLiteral:
		b.WriteString("{")
		b.WriteString(strconv.Quote(string(n.Runes)))
		if n.Flags&FoldCase != 0 {
			b.WriteString(" fold")
		}
		b.WriteString("}")
		return
	case OpCharClass:
		b.WriteString("{")
		b.WriteString(n.Class.String())
		b.WriteString("}")
		return
	case OpAssert:
		b.WriteString("{")
		b.WriteString(strconv.Itoa(int(n.Assert)))
		b.WriteString("}")
		return
	case OpBackref:
		b.WriteString("{")
		b.WriteString(strconv.Itoa(n.Cap))
		b.WriteString("}")
		return
	case OpRepeat:
		b.WriteString("{")
		b.WriteString(strconv.Itoa(n.Min))
		b.WriteString(",")
		b.WriteString(strconv.Itoa(n.Max))
		b.WriteString("}")
	case OpCapture:
		b.WriteString("{")
		b.WriteString(strconv.Itoa(n.Cap))
		if n.Name != "" {
			b.WriteString(" ")
			b.WriteString(n.Name)
		}
		b.WriteString("}")
	}
	if len(n.Sub) > 0 {
		b.WriteString("(")
		for i, sub := range n.Sub {
			if i > 0 {
				b.WriteString(" ")
			}
			sub.dump(b)
		}
		b.WriteString(")")
	}
}
