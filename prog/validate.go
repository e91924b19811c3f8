package prog

import (
	"fmt"

	"github.com/coregx/regexkit/internal/conv"
	"github.com/coregx/regexkit/internal/sparse"
)

// Validate checks that every instruction reachable from the start refers to
// instructions, slots, classes and groups that exist. A compiled program
// always validates; failures indicate a compiler bug or a hand-built
// program that is malformed.
func (p *Program) Validate() error {
	n := len(p.insts)
	if int(p.start) >= n {
		return &BuildError{Message: "start instruction out of range", Inst: p.start}
	}

	seen := sparse.NewSet(conv.IntToUint32(n))
	stack := []InstID{p.start}
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if !seen.Insert(uint32(id)) {
			continue
		}

		inst := &p.insts[id]
		var targets []InstID
		switch inst.Kind {
		case InstMatch, InstSucceed, InstFail:
		case InstSplit, InstLook, InstAtomic, InstProgress:
			targets = []InstID{inst.Out, inst.Arg}
		default:
			targets = []InstID{inst.Out}
		}
		for _, t := range targets {
			if int(t) >= n {
				return &BuildError{Message: fmt.Sprintf("%s target %d out of range", inst.Kind, t), Inst: id}
			}
			stack = append(stack, t)
		}

		switch inst.Kind {
		case InstSave, InstMark, InstProgress:
			if inst.N < 0 || inst.N >= p.numSlots {
				return &BuildError{Message: fmt.Sprintf("slot %d out of range", inst.N), Inst: id}
			}
		case InstClass:
			if inst.N < 0 || inst.N >= len(p.classes) {
				return &BuildError{Message: fmt.Sprintf("class %d out of range", inst.N), Inst: id}
			}
		case InstBackref:
			if inst.N < 1 || inst.N >= p.numCaptures {
				return &BuildError{Message: fmt.Sprintf("group %d out of range", inst.N), Inst: id}
			}
		case InstAssert:
			if inst.Look < LookStartText || inst.Look > LookSearchStart {
				return &BuildError{Message: fmt.Sprintf("unknown assertion %d", inst.Look), Inst: id}
			}
		case InstRune:
			if len(inst.Runes) == 0 {
				return &BuildError{Message: "empty rune set", Inst: id}
			}
		case InstLook:
			if inst.Behind && (inst.MinLen < 0 || inst.MaxLen < inst.MinLen) {
				return &BuildError{Message: "invalid lookbehind bounds", Inst: id}
			}
		}
	}
	return nil
}
