package prog

import (
	"unicode/utf8"

	"github.com/rivo/uniseg"

	"github.com/coregx/regexkit/syntax"
)

// isLineTerm reports whether r terminates a line. In Unix mode only '\n'
// does; otherwise LF, VT, FF, CR, NEL, LS and PS all do.
func isLineTerm(r rune, unix bool) bool {
	if unix {
		return r == '\n'
	}
	switch r {
	case '\n', '\v', '\f', '\r', 0x85, 0x2028, 0x2029:
		return true
	}
	return false
}

// betweenCRLF reports whether pos splits a CR LF pair.
func betweenCRLF(h []byte, pos int) bool {
	return pos > 0 && pos < len(h) && h[pos-1] == '\r' && h[pos] == '\n'
}

func (b *Backtracker) assert(inst *Inst, pos int) bool {
	h := b.haystack
	switch inst.Look {
	case LookStartText:
		return pos == 0
	case LookEndText:
		return pos == len(h)
	case LookEndTextOptTerm:
		if pos == len(h) {
			return true
		}
		if !inst.Unix && len(h)-pos == 2 && h[pos] == '\r' && h[pos+1] == '\n' {
			return true
		}
		if !inst.Unix && betweenCRLF(h, pos) {
			return false
		}
		r, size := utf8.DecodeRune(h[pos:])
		return pos+size == len(h) && isLineTerm(r, inst.Unix)
	case LookStartLine:
		if pos == 0 {
			return true
		}
		if pos == len(h) {
			return false
		}
		r, _ := utf8.DecodeLastRune(h[:pos])
		if !isLineTerm(r, inst.Unix) {
			return false
		}
		return inst.Unix || !betweenCRLF(h, pos)
	case LookEndLine:
		if pos == len(h) {
			return true
		}
		r, _ := utf8.DecodeRune(h[pos:])
		if !isLineTerm(r, inst.Unix) {
			return false
		}
		return inst.Unix || !betweenCRLF(h, pos)
	case LookWordBoundary:
		return b.asciiBoundary(pos)
	case LookNotWordBoundary:
		return !b.asciiBoundary(pos)
	case LookUnicodeWordBoundary:
		return b.unicodeBoundary(pos)
	case LookNotUnicodeWordBoundary:
		return !b.unicodeBoundary(pos)
	case LookSearchStart:
		return pos == b.searchStart
	}
	return false
}

func (b *Backtracker) asciiBoundary(pos int) bool {
	h := b.haystack
	before, after := false, false
	if pos > 0 {
		r, _ := utf8.DecodeLastRune(h[:pos])
		before = syntax.IsWordRune(r)
	}
	if pos < len(h) {
		r, _ := utf8.DecodeRune(h[pos:])
		after = syntax.IsWordRune(r)
	}
	return before != after
}

// unicodeBoundary reports whether pos is a TR#29 word boundary. The
// boundary set is computed once per subject.
func (b *Backtracker) unicodeBoundary(pos int) bool {
	if !b.wordsValid {
		b.computeWordBoundaries()
	}
	return b.words[pos>>6]&(1<<(pos&63)) != 0
}

func (b *Backtracker) computeWordBoundaries() {
	h := b.haystack
	n := (len(h) + 64) >> 6
	if cap(b.words) >= n {
		b.words = b.words[:n]
		clear(b.words)
	} else {
		b.words = make([]uint64, n)
	}
	b.wordsValid = true
	if len(h) == 0 {
		return
	}
	set := func(i int) { b.words[i>>6] |= 1 << (i & 63) }
	set(0)
	pos, rest, state := 0, h, -1
	for len(rest) > 0 {
		var word []byte
		word, rest, state = uniseg.FirstWord(rest, state)
		pos += len(word)
		set(pos)
	}
}
