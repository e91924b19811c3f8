// Package prog compiles parsed patterns into backtracking programs and
// executes them.
//
// A Program is a flat arena of instructions addressed by InstID. It is
// immutable once built and may be shared by any number of Backtrackers.
package prog

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/coregx/regexkit/syntax"
)

// InstID addresses an instruction within a Program.
type InstID uint32

// InvalidInst marks an unset instruction reference.
const InvalidInst InstID = 0xFFFFFFFF

// InstKind selects the behavior of an instruction and which Inst fields
// are meaningful.
type InstKind uint8

const (
	// InstMatch accepts.
	InstMatch InstKind = iota

	// InstRune matches one rune from Runes (its case-fold orbit when folding).
	InstRune

	// InstLiteral matches the UTF-8 string Lit, rune-wise folded when Fold.
	InstLiteral

	// InstClass matches one rune in class N.
	InstClass

	// InstAny matches any rune; line terminators only when NL.
	InstAny

	// InstSplit tries Out first, then Arg.
	InstSplit

	// InstJmp continues at Out.
	InstJmp

	// InstSave records the position in slot N.
	InstSave

	// InstAssert checks the zero-width assertion Look.
	InstAssert

	// InstBackref matches the text captured by group N.
	InstBackref

	// InstLook runs the lookaround body at Out and continues at Arg.
	InstLook

	// InstAtomic runs the body at Out without backtracking into it once it
	// has succeeded, then continues at Arg.
	InstAtomic

	// InstSucceed ends a lookaround or atomic body.
	InstSucceed

	// InstMark records the position in register N at the start of a loop
	// iteration.
	InstMark

	// InstProgress continues the loop at Out, or leaves it through Arg
	// when register N still holds the current position, so a loop whose
	// body matched empty stops iterating.
	InstProgress

	// InstFail never matches.
	InstFail
)

var instKindNames = [...]string{
	InstMatch:    "Match",
	InstRune:     "Rune",
	InstLiteral:  "Literal",
	InstClass:    "Class",
	InstAny:      "Any",
	InstSplit:    "Split",
	InstJmp:      "Jmp",
	InstSave:     "Save",
	InstAssert:   "Assert",
	InstBackref:  "Backref",
	InstLook:     "Look",
	InstAtomic:   "Atomic",
	InstSucceed:  "Succeed",
	InstMark:     "Mark",
	InstProgress: "Progress",
	InstFail:     "Fail",
}

func (k InstKind) String() string {
	if int(k) < len(instKindNames) {
		return instKindNames[k]
	}
	return fmt.Sprintf("Unknown(%d)", k)
}

// Look identifies a zero-width assertion.
type Look uint8

const (
	LookStartText              Look = iota + 1 // \A, ^ without multiline
	LookEndText                                // \z
	LookEndTextOptTerm                         // \Z, $ without multiline
	LookStartLine                              // ^ with multiline
	LookEndLine                                // $ with multiline
	LookWordBoundary                           // \b
	LookNotWordBoundary                        // \B
	LookUnicodeWordBoundary                    // \b with Unicode word segmentation
	LookNotUnicodeWordBoundary                 // \B with Unicode word segmentation
	LookSearchStart                            // \G
)

var lookNames = [...]string{
	LookStartText:              "StartText",
	LookEndText:                "EndText",
	LookEndTextOptTerm:         "EndTextOptTerm",
	LookStartLine:              "StartLine",
	LookEndLine:                "EndLine",
	LookWordBoundary:           "WordBoundary",
	LookNotWordBoundary:        "NotWordBoundary",
	LookUnicodeWordBoundary:    "UnicodeWordBoundary",
	LookNotUnicodeWordBoundary: "NotUnicodeWordBoundary",
	LookSearchStart:            "SearchStart",
}

func (l Look) String() string {
	if int(l) < len(lookNames) && lookNames[l] != "" {
		return lookNames[l]
	}
	return fmt.Sprintf("Look(%d)", l)
}

// Inst is one program instruction. Kind determines which fields are used.
type Inst struct {
	Kind InstKind
	Out  InstID // next instruction; preferred branch of Split; body of Look and Atomic
	Arg  InstID // alternative of Split; continuation of Look and Atomic; loop exit of Progress

	Runes []rune // InstRune
	Lit   []byte // InstLiteral
	Fold  bool   // InstLiteral, InstBackref
	N     int    // slot, class index, group or register
	Look  Look   // InstAssert

	Negate bool // InstLook
	Behind bool // InstLook
	MinLen int  // InstLook: shortest lookbehind body in runes
	MaxLen int  // InstLook: longest lookbehind body in runes

	NL   bool // InstAny: also match line terminators
	Unix bool // InstAny, InstAssert: only '\n' terminates lines

	// NoMemo excludes the instruction from failure memoization. Set for
	// lookaround and atomic bodies and for the bodies of guarded loops,
	// whose outcome depends on more than (instruction, position).
	NoMemo bool
}

func (i *Inst) String() string {
	switch i.Kind {
	case InstMatch, InstSucceed, InstFail:
		return i.Kind.String()
	case InstRune:
		return fmt.Sprintf("Rune %q -> %d", string(i.Runes), i.Out)
	case InstLiteral:
		if i.Fold {
			return fmt.Sprintf("Literal %q fold -> %d", i.Lit, i.Out)
		}
		return fmt.Sprintf("Literal %q -> %d", i.Lit, i.Out)
	case InstSplit:
		return fmt.Sprintf("Split -> %d, %d", i.Out, i.Arg)
	case InstAssert:
		return fmt.Sprintf("Assert %s -> %d", i.Look, i.Out)
	case InstLook:
		var b strings.Builder
		b.WriteString("Look")
		if i.Behind {
			b.WriteString(" behind")
		}
		if i.Negate {
			b.WriteString(" negate")
		}
		fmt.Fprintf(&b, " body %d -> %d", i.Out, i.Arg)
		return b.String()
	case InstAtomic:
		return fmt.Sprintf("Atomic body %d -> %d", i.Out, i.Arg)
	case InstAny:
		if i.NL {
			return fmt.Sprintf("Any NL -> %d", i.Out)
		}
		return fmt.Sprintf("Any -> %d", i.Out)
	case InstJmp:
		return fmt.Sprintf("Jmp -> %d", i.Out)
	case InstProgress:
		return fmt.Sprintf("Progress %d -> %d, exit %d", i.N, i.Out, i.Arg)
	}
	return fmt.Sprintf("%s %d -> %d", i.Kind, i.N, i.Out)
}

// Program is a compiled pattern.
type Program struct {
	insts   []Inst
	classes []*Class
	start   InstID

	numCaptures int // including group 0
	names       []string
	nameIndex   map[string]int
	numSlots    int // 2*numCaptures plus loop registers

	hasBackrefs bool
	anchorStart bool
	minLen      int
	flags       syntax.Flags
	source      string
}

// Len returns the number of instructions.
func (p *Program) Len() int { return len(p.insts) }

// Inst returns the instruction at id.
func (p *Program) Inst(id InstID) *Inst { return &p.insts[id] }

// Start returns the entry instruction.
func (p *Program) Start() InstID { return p.start }

// Class returns the character class at index i.
func (p *Program) Class(i int) *Class { return p.classes[i] }

// NumCaptures returns the number of capture groups including group 0.
func (p *Program) NumCaptures() int { return p.numCaptures }

// Names returns the capture group names; index 0 is the whole match.
func (p *Program) Names() []string { return p.names }

// GroupIndex returns the index of the named group, or -1.
func (p *Program) GroupIndex(name string) int {
	if i, ok := p.nameIndex[name]; ok {
		return i
	}
	return -1
}

// NumSlots returns the number of position registers a search needs.
func (p *Program) NumSlots() int { return p.numSlots }

// HasBackrefs reports whether the program contains backreferences.
func (p *Program) HasBackrefs() bool { return p.hasBackrefs }

// AnchorStart reports whether every match must begin at the start of text.
func (p *Program) AnchorStart() bool { return p.anchorStart }

// MinLen returns the minimum number of runes a match consumes.
func (p *Program) MinLen() int { return p.minLen }

// Flags returns the flags the pattern was parsed with.
func (p *Program) Flags() syntax.Flags { return p.flags }

// Source returns the pattern text.
func (p *Program) Source() string { return p.source }

// String returns a listing of the program, one instruction per line.
func (p *Program) String() string {
	var b strings.Builder
	for id := range p.insts {
		mark := "  "
		if InstID(id) == p.start {
			mark = "> "
		}
		b.WriteString(mark)
		b.WriteString(strconv.Itoa(id))
		b.WriteString(": ")
		b.WriteString(p.insts[id].String())
		b.WriteByte('\n')
	}
	return b.String()
}
