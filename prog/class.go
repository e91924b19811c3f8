package prog

import (
	"unicode/utf8"

	"github.com/coregx/regexkit/syntax"
)

// Class is a compiled character class: a bitmap for ASCII and a sorted
// range list for everything else.
type Class struct {
	ascii  [2]uint64
	ranges []syntax.RuneRange
}

func newClass(cc *syntax.CharClass) *Class {
	c := &Class{}
	for _, r := range cc.Ranges {
		for x := r.Lo; x <= r.Hi && x < utf8.RuneSelf; x++ {
			c.ascii[x>>6] |= 1 << (x & 63)
		}
		if r.Hi >= utf8.RuneSelf {
			c.ranges = append(c.ranges, syntax.RuneRange{Lo: max(r.Lo, utf8.RuneSelf), Hi: r.Hi})
		}
	}
	return c
}

// Matches reports whether r is in the class.
func (c *Class) Matches(r rune) bool {
	if r < utf8.RuneSelf {
		return r >= 0 && c.ascii[r>>6]&(1<<(r&63)) != 0
	}
	rs := c.ranges
	lo, hi := 0, len(rs)
	for lo < hi {
		m := int(uint(lo+hi) >> 1)
		switch {
		case r < rs[m].Lo:
			hi = m
		case r > rs[m].Hi:
			lo = m + 1
		default:
			return true
		}
	}
	return false
}

// IsASCII reports whether the class only contains ASCII runes.
func (c *Class) IsASCII() bool { return len(c.ranges) == 0 }
