package prog

import (
	"fmt"
	"unicode/utf8"

	"github.com/coregx/regexkit/internal/conv"
	"github.com/coregx/regexkit/syntax"
)

// Builder constructs programs incrementally. It is used by the compiler
// and by tests that need hand-made programs.
type Builder struct {
	insts    []Inst
	classes  []*Class
	maxInsts int
	err      error
}

// NewBuilder creates a builder that refuses to grow past maxInsts
// instructions. maxInsts <= 0 means no limit.
func NewBuilder(maxInsts int) *Builder {
	return &Builder{
		insts:    make([]Inst, 0, 16),
		maxInsts: maxInsts,
	}
}

// Err returns the first error recorded while adding instructions.
func (b *Builder) Err() error { return b.err }

// Len returns the number of instructions added so far.
func (b *Builder) Len() int { return len(b.insts) }

func (b *Builder) add(inst Inst) InstID {
	if b.err != nil {
		return InvalidInst
	}
	if b.maxInsts > 0 && len(b.insts) >= b.maxInsts {
		b.err = ErrTooLarge
		return InvalidInst
	}
	id := InstID(conv.IntToUint32(len(b.insts)))
	b.insts = append(b.insts, inst)
	return id
}

// AddMatch adds an accepting instruction.
func (b *Builder) AddMatch() InstID {
	return b.add(Inst{Kind: InstMatch, Out: InvalidInst, Arg: InvalidInst})
}

// AddRune adds an instruction matching any rune of runes.
func (b *Builder) AddRune(runes []rune) InstID {
	return b.add(Inst{Kind: InstRune, Runes: runes, Out: InvalidInst, Arg: InvalidInst})
}

// AddLiteral adds an instruction matching lit, case-insensitively when fold.
func (b *Builder) AddLiteral(lit []byte, fold bool) InstID {
	return b.add(Inst{Kind: InstLiteral, Lit: lit, Fold: fold, Out: InvalidInst, Arg: InvalidInst})
}

// AddClass adds an instruction matching one rune of cc.
func (b *Builder) AddClass(cc *syntax.CharClass) InstID {
	id := b.add(Inst{Kind: InstClass, N: len(b.classes), Out: InvalidInst, Arg: InvalidInst})
	if id != InvalidInst {
		b.classes = append(b.classes, newClass(cc))
	}
	return id
}

// AddAny adds '.'; nl makes it match line terminators too.
func (b *Builder) AddAny(nl, unix bool) InstID {
	return b.add(Inst{Kind: InstAny, NL: nl, Unix: unix, Out: InvalidInst, Arg: InvalidInst})
}

// AddSplit adds a branch preferring out over arg.
func (b *Builder) AddSplit(out, arg InstID) InstID {
	return b.add(Inst{Kind: InstSplit, Out: out, Arg: arg})
}

// AddJmp adds an unconditional jump.
func (b *Builder) AddJmp(out InstID) InstID {
	return b.add(Inst{Kind: InstJmp, Out: out, Arg: InvalidInst})
}

// AddSave adds an instruction recording the position in slot.
func (b *Builder) AddSave(slot int) InstID {
	return b.add(Inst{Kind: InstSave, N: slot, Out: InvalidInst, Arg: InvalidInst})
}

// AddAssert adds a zero-width assertion.
func (b *Builder) AddAssert(look Look, unix bool) InstID {
	return b.add(Inst{Kind: InstAssert, Look: look, Unix: unix, Out: InvalidInst, Arg: InvalidInst})
}

// AddBackref adds a backreference to group.
func (b *Builder) AddBackref(group int, fold bool) InstID {
	return b.add(Inst{Kind: InstBackref, N: group, Fold: fold, Out: InvalidInst, Arg: InvalidInst})
}

// AddLook adds a lookaround. The body is attached with SetBody and the
// continuation with Patch. minLen and maxLen bound a lookbehind body in runes.
func (b *Builder) AddLook(negate, behind bool, minLen, maxLen int) InstID {
	return b.add(Inst{
		Kind:   InstLook,
		Negate: negate,
		Behind: behind,
		MinLen: minLen,
		MaxLen: maxLen,
		Out:    InvalidInst,
		Arg:    InvalidInst,
	})
}

// AddAtomic adds an atomic group. The body is attached with SetBody and the
// continuation with Patch.
func (b *Builder) AddAtomic() InstID {
	return b.add(Inst{Kind: InstAtomic, Out: InvalidInst, Arg: InvalidInst})
}

// AddSucceed adds the terminator of a lookaround or atomic body.
func (b *Builder) AddSucceed() InstID {
	return b.add(Inst{Kind: InstSucceed, Out: InvalidInst, Arg: InvalidInst})
}

// AddMark adds a loop-iteration mark on register reg.
func (b *Builder) AddMark(reg int) InstID {
	return b.add(Inst{Kind: InstMark, N: reg, Out: InvalidInst, Arg: InvalidInst})
}

// AddProgress adds the empty-iteration check for register reg. An
// iteration that consumed nothing leaves the loop through exit.
func (b *Builder) AddProgress(reg int, exit InstID) InstID {
	return b.add(Inst{Kind: InstProgress, N: reg, Out: InvalidInst, Arg: exit})
}

// AddFail adds an instruction that never matches.
func (b *Builder) AddFail() InstID {
	return b.add(Inst{Kind: InstFail, Out: InvalidInst, Arg: InvalidInst})
}

// SetBody attaches the body of a lookaround or atomic instruction.
func (b *Builder) SetBody(id, body InstID) error {
	if b.err != nil {
		return b.err
	}
	if int(id) >= len(b.insts) {
		return &BuildError{Message: "instruction out of range", Inst: id}
	}
	inst := &b.insts[id]
	if inst.Kind != InstLook && inst.Kind != InstAtomic {
		return &BuildError{Message: fmt.Sprintf("cannot attach body to %s", inst.Kind), Inst: id}
	}
	inst.Out = body
	return nil
}

// Patch connects the open exit of instruction id to target: Out for
// ordinary instructions, whichever branch is unset for Split, and the
// continuation for Look and Atomic.
func (b *Builder) Patch(id, target InstID) error {
	if b.err != nil {
		return b.err
	}
	if int(id) >= len(b.insts) {
		return &BuildError{Message: "instruction out of range", Inst: id}
	}
	inst := &b.insts[id]
	switch inst.Kind {
	case InstMatch, InstSucceed, InstFail:
		return &BuildError{Message: fmt.Sprintf("cannot patch %s", inst.Kind), Inst: id}
	case InstLook, InstAtomic:
		if inst.Arg != InvalidInst {
			return &BuildError{Message: "continuation already set", Inst: id}
		}
		inst.Arg = target
	case InstSplit:
		switch {
		case inst.Out == InvalidInst:
			inst.Out = target
		case inst.Arg == InvalidInst:
			inst.Arg = target
		default:
			return &BuildError{Message: "split already patched", Inst: id}
		}
	default:
		if inst.Out != InvalidInst {
			return &BuildError{Message: "exit already set", Inst: id}
		}
		inst.Out = target
	}
	return nil
}

// SetNoMemo excludes instructions [from, to) from failure memoization.
func (b *Builder) SetNoMemo(from, to int) {
	for i := from; i < to && i < len(b.insts); i++ {
		b.insts[i].NoMemo = true
	}
}

// Build finishes the program. The builder must not be used afterwards.
func (b *Builder) Build(start InstID, opts ...BuildOption) (*Program, error) {
	if b.err != nil {
		return nil, b.err
	}
	p := &Program{
		insts:       b.insts,
		classes:     b.classes,
		start:       start,
		numCaptures: 1,
		names:       []string{""},
		nameIndex:   map[string]int{},
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.numSlots < 2*p.numCaptures {
		p.numSlots = 2 * p.numCaptures
	}
	for i := range p.insts {
		if p.insts[i].Kind == InstBackref {
			p.hasBackrefs = true
			break
		}
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// BuildOption configures a program during Build.
type BuildOption func(*Program)

// WithCaptures sets the capture group names, index 0 being the whole match.
func WithCaptures(names []string) BuildOption {
	return func(p *Program) {
		p.names = names
		p.numCaptures = len(names)
		p.nameIndex = make(map[string]int)
		for i, name := range names {
			if name != "" {
				p.nameIndex[name] = i
			}
		}
	}
}

// WithSlots sets the total number of slots, including loop registers.
func WithSlots(n int) BuildOption {
	return func(p *Program) { p.numSlots = n }
}

// WithAnchorStart marks the program as only matching at the start of text.
func WithAnchorStart(anchored bool) BuildOption {
	return func(p *Program) { p.anchorStart = anchored }
}

// WithMinLen records the minimum match length in runes.
func WithMinLen(n int) BuildOption {
	return func(p *Program) { p.minLen = n }
}

// WithSource records the pattern and the flags it was parsed with.
func WithSource(pattern string, flags syntax.Flags) BuildOption {
	return func(p *Program) {
		p.source = pattern
		p.flags = flags
	}
}

func encodeRunes(runes []rune) []byte {
	n := 0
	for _, r := range runes {
		n += utf8.RuneLen(r)
	}
	buf := make([]byte, 0, n)
	for _, r := range runes {
		buf = utf8.AppendRune(buf, r)
	}
	return buf
}
