package prog

import (
	"bytes"
	"context"
	"time"
	"unicode"
	"unicode/utf8"
)

// Budget limits the work a single search may do.
type Budget struct {
	// StepLimit caps executed instructions plus backtrack pops. 0 means
	// unlimited.
	StepLimit int

	// Deadline, when non-zero, is polled every pollInterval steps.
	Deadline time.Time

	// Ctx, when non-nil, is polled every pollInterval steps.
	Ctx context.Context

	// MaxMemoBits caps the failure memo (one bit per instruction and
	// position). Searches needing more run without it. 0 disables it.
	MaxMemoBits int
}

const pollInterval = 256

type frameKind uint8

const (
	frameAlt     frameKind = iota // resume at (inst, pos)
	frameRestore                  // slots[n] = old
	frameBarrier                  // start of a lookaround or atomic body
)

type frame struct {
	kind frameKind
	inst InstID // alt: where to resume; barrier: the Look or Atomic owner
	pos  int    // alt: where to resume; barrier: position at entry
	n    int    // restore: slot
	old  int    // restore: previous value
}

// Backtracker runs a Program depth-first with an explicit frame stack.
// It holds all per-search scratch and is not safe for concurrent use; one
// Program may be shared by many Backtrackers.
type Backtracker struct {
	prog *Program

	haystack    []byte
	searchStart int
	budget      Budget
	steps       int
	nextPoll    int

	slots    []int
	stack    []frame
	barriers []int // indices of barrier frames in stack, innermost last

	// visited is the failure memo: bit (inst*(len+1) + pos) is set once
	// (inst, pos) has been explored.
	visited []uint64
	memoOn  bool
	memoHit int

	words      []uint64 // Unicode word boundary bitset
	wordsValid bool
}

// NewBacktracker returns a backtracker for p.
func NewBacktracker(p *Program) *Backtracker {
	return &Backtracker{
		prog:  p,
		slots: make([]int, p.NumSlots()),
		stack: make([]frame, 0, 32),
	}
}

// Program returns the program being run.
func (b *Backtracker) Program() *Program { return b.prog }

// Reset prepares a search of haystack. searchStart is the position \G
// matches; the memo and Unicode word boundaries are shared by every
// MatchAt until the next Reset.
func (b *Backtracker) Reset(haystack []byte, searchStart int, budget Budget) {
	b.haystack = haystack
	b.searchStart = searchStart
	b.budget = budget
	b.steps = 0
	b.nextPoll = pollInterval
	b.memoHit = 0
	b.wordsValid = false

	b.memoOn = false
	if !b.prog.hasBackrefs && budget.MaxMemoBits > 0 {
		bits := b.prog.Len() * (len(haystack) + 1)
		if bits/b.prog.Len() == len(haystack)+1 && bits <= budget.MaxMemoBits {
			words := (bits + 63) / 64
			if cap(b.visited) >= words {
				b.visited = b.visited[:words]
				clear(b.visited)
			} else {
				b.visited = make([]uint64, words)
			}
			b.memoOn = true
		}
	}
}

// Steps returns the steps used since the last Reset.
func (b *Backtracker) Steps() int { return b.steps }

// MemoHits returns how many paths the failure memo pruned since Reset.
func (b *Backtracker) MemoHits() int { return b.memoHit }

// MemoEnabled reports whether the current search uses the failure memo.
func (b *Backtracker) MemoEnabled() bool { return b.memoOn }

// Slots returns the capture slots of the last successful MatchAt:
// slots[2i] and slots[2i+1] bound group i, -1 when it did not participate.
func (b *Backtracker) Slots() []int { return b.slots[:2*b.prog.numCaptures] }

// MatchAt attempts a match starting exactly at pos. It returns a non-nil
// error only when the budget is exhausted: ErrStepLimit, ErrDeadline or
// the context's error.
func (b *Backtracker) MatchAt(pos int) (bool, error) {
	for i := range b.slots {
		b.slots[i] = -1
	}
	b.stack = b.stack[:0]
	b.barriers = b.barriers[:0]
	return b.run(b.prog.start, pos)
}

func (b *Backtracker) step() error {
	b.steps++
	if b.budget.StepLimit > 0 && b.steps > b.budget.StepLimit {
		return ErrStepLimit
	}
	if b.steps < b.nextPoll {
		return nil
	}
	b.nextPoll += pollInterval
	if b.budget.Ctx != nil {
		if err := b.budget.Ctx.Err(); err != nil {
			return err
		}
	}
	if !b.budget.Deadline.IsZero() && time.Now().After(b.budget.Deadline) {
		return ErrDeadline
	}
	return nil
}

// shouldVisit marks (id, pos) and reports whether it was unmarked.
func (b *Backtracker) shouldVisit(id InstID, pos int) bool {
	idx := int(id)*(len(b.haystack)+1) + pos
	word, bit := idx/64, uint64(1)<<(idx%64)
	if b.visited[word]&bit != 0 {
		b.memoHit++
		return false
	}
	b.visited[word] |= bit
	return true
}

func (b *Backtracker) setSlot(n, pos int) {
	b.stack = append(b.stack, frame{kind: frameRestore, n: n, old: b.slots[n]})
	b.slots[n] = pos
}

//nolint:gocyclo,cyclop // complexity is inherent to instruction dispatch
func (b *Backtracker) run(pc InstID, pos int) (bool, error) {
	h := b.haystack
	insts := b.prog.insts
	for {
		if err := b.step(); err != nil {
			return false, err
		}
		inst := &insts[pc]
		ok := true
		if b.memoOn && !inst.NoMemo && !b.shouldVisit(pc, pos) {
			ok = false
		} else {
			switch inst.Kind {
			case InstMatch:
				return true, nil

			case InstRune:
				ok = false
				if pos < len(h) {
					r, size := utf8.DecodeRune(h[pos:])
					for _, want := range inst.Runes {
						if r == want {
							ok = true
							pos += size
							pc = inst.Out
							break
						}
					}
				}

			case InstLiteral:
				var n int
				if inst.Fold {
					n, ok = foldPrefix(h[pos:], inst.Lit)
				} else {
					n, ok = len(inst.Lit), bytes.HasPrefix(h[pos:], inst.Lit)
				}
				if ok {
					pos += n
					pc = inst.Out
				}

			case InstClass:
				ok = false
				if pos < len(h) {
					r, size := utf8.DecodeRune(h[pos:])
					if b.prog.classes[inst.N].Matches(r) {
						ok = true
						pos += size
						pc = inst.Out
					}
				}

			case InstAny:
				ok = false
				if pos < len(h) {
					r, size := utf8.DecodeRune(h[pos:])
					if inst.NL || !isLineTerm(r, inst.Unix) {
						ok = true
						pos += size
						pc = inst.Out
					}
				}

			case InstSplit:
				b.stack = append(b.stack, frame{kind: frameAlt, inst: inst.Arg, pos: pos})
				pc = inst.Out

			case InstJmp:
				pc = inst.Out

			case InstSave, InstMark:
				b.setSlot(inst.N, pos)
				pc = inst.Out

			case InstProgress:
				if b.slots[inst.N] == pos {
					pc = inst.Arg
				} else {
					pc = inst.Out
				}

			case InstAssert:
				if b.assert(inst, pos) {
					pc = inst.Out
				} else {
					ok = false
				}

			case InstBackref:
				var n int
				n, ok = b.backref(inst, pos)
				if ok {
					pos += n
					pc = inst.Out
				}

			case InstLook:
				b.barriers = append(b.barriers, len(b.stack))
				b.stack = append(b.stack, frame{kind: frameBarrier, inst: pc, pos: pos})
				if inst.Behind {
					var start int
					start, ok = b.lookbehindStarts(inst, pos)
					pos = start
				}
				pc = inst.Out

			case InstAtomic:
				b.barriers = append(b.barriers, len(b.stack))
				b.stack = append(b.stack, frame{kind: frameBarrier, inst: pc, pos: pos})
				pc = inst.Out

			case InstSucceed:
				bi := b.barriers[len(b.barriers)-1]
				bar := b.stack[bi]
				owner := &insts[bar.inst]
				if owner.Kind == InstLook && owner.Behind && pos != bar.pos {
					// This candidate start did not end where the lookbehind began.
					ok = false
					break
				}
				b.barriers = b.barriers[:len(b.barriers)-1]
				if owner.Kind == InstLook && owner.Negate {
					b.unwind(bi)
					ok = false
					break
				}
				b.cut(bi)
				if owner.Kind == InstLook {
					pos = bar.pos
				}
				pc = owner.Arg

			default: // InstFail
				ok = false
			}
		}
		if ok {
			continue
		}

		var err error
		pc, pos, ok, err = b.backtrack()
		if err != nil {
			return false, err
		}
		if !ok {
			return false, nil
		}
	}
}

// backtrack pops frames until it finds a place to resume.
func (b *Backtracker) backtrack() (InstID, int, bool, error) {
	for len(b.stack) > 0 {
		if err := b.step(); err != nil {
			return InvalidInst, 0, false, err
		}
		f := b.stack[len(b.stack)-1]
		b.stack = b.stack[:len(b.stack)-1]
		switch f.kind {
		case frameRestore:
			b.slots[f.n] = f.old
		case frameAlt:
			return f.inst, f.pos, true, nil
		case frameBarrier:
			// The body is exhausted without succeeding.
			b.barriers = b.barriers[:len(b.barriers)-1]
			owner := &b.prog.insts[f.inst]
			if owner.Kind == InstLook && owner.Negate {
				return owner.Arg, f.pos, true, nil
			}
		}
	}
	return InvalidInst, 0, false, nil
}

// unwind pops every frame from index bi upward, restoring slots.
func (b *Backtracker) unwind(bi int) {
	for i := len(b.stack) - 1; i >= bi; i-- {
		if f := b.stack[i]; f.kind == frameRestore {
			b.slots[f.n] = f.old
		}
	}
	b.stack = b.stack[:bi]
}

// cut discards the alternatives of a body that succeeded, keeping slot
// restores so that later failure still undoes its captures.
func (b *Backtracker) cut(bi int) {
	w := bi
	for i := bi + 1; i < len(b.stack); i++ {
		if b.stack[i].kind == frameRestore {
			b.stack[w] = b.stack[i]
			w++
		}
	}
	b.stack = b.stack[:w]
}

// lookbehindStarts pushes the candidate body starts for a lookbehind at
// pos, nearest first, and returns the first one to try.
func (b *Backtracker) lookbehindStarts(inst *Inst, pos int) (int, bool) {
	h := b.haystack
	// starts[k] is the position k runes before pos.
	starts := make([]int, 0, inst.MaxLen+1)
	q := pos
	starts = append(starts, q)
	for k := 0; k < inst.MaxLen && q > 0; k++ {
		_, size := utf8.DecodeLastRune(h[:q])
		q -= size
		starts = append(starts, q)
	}
	if len(starts) <= inst.MinLen {
		return pos, false
	}
	for k := len(starts) - 1; k > inst.MinLen; k-- {
		b.stack = append(b.stack, frame{kind: frameAlt, inst: inst.Out, pos: starts[k]})
	}
	return starts[inst.MinLen], true
}

func (b *Backtracker) backref(inst *Inst, pos int) (int, bool) {
	start, end := b.slots[2*inst.N], b.slots[2*inst.N+1]
	if start < 0 || end < 0 {
		return 0, false
	}
	want := b.haystack[start:end]
	if !inst.Fold {
		return len(want), bytes.HasPrefix(b.haystack[pos:], want)
	}
	return foldPrefix(b.haystack[pos:], want)
}

// foldPrefix reports whether h begins with lit under simple case folding
// and returns how many bytes of h matched.
func foldPrefix(h, lit []byte) (int, bool) {
	n := 0
	for len(lit) > 0 {
		if n >= len(h) {
			return 0, false
		}
		want, wsize := utf8.DecodeRune(lit)
		got, gsize := utf8.DecodeRune(h[n:])
		if !foldEqual(want, got) {
			return 0, false
		}
		lit = lit[wsize:]
		n += gsize
	}
	return n, true
}

func foldEqual(a, b rune) bool {
	if a == b {
		return true
	}
	for f := unicode.SimpleFold(a); f != a; f = unicode.SimpleFold(f) {
		if f == b {
			return true
		}
	}
	return false
}
