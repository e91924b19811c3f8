package syntax

import (
	"slices"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// CharClass is a set of runes stored as sorted, non-overlapping,
// non-adjacent closed ranges.
type CharClass struct {
	Ranges []RuneRange
}

// RuneRange is the closed interval [Lo, Hi].
type RuneRange struct {
	Lo, Hi rune
}

// NewCharClass returns a class holding the given ranges.
func NewCharClass(ranges ...RuneRange) *CharClass {
	c := &CharClass{Ranges: append([]RuneRange(nil), ranges...)}
	c.canonicalize()
	return c
}

// Contains reports whether r is in the class.
func (c *CharClass) Contains(r rune) bool {
	rs := c.Ranges
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

// IsEmpty reports whether the class matches no rune.
func (c *CharClass) IsEmpty() bool { return len(c.Ranges) == 0 }

// Size returns the number of runes in the class.
func (c *CharClass) Size() int {
	n := 0
	for _, r := range c.Ranges {
		n += int(r.Hi-r.Lo) + 1
	}
	return n
}

// Clone returns a copy of c.
func (c *CharClass) Clone() *CharClass {
	return &CharClass{Ranges: slices.Clone(c.Ranges)}
}

// AddRune adds a single rune.
func (c *CharClass) AddRune(r rune) { c.AddRange(r, r) }

// AddRange adds [lo, hi].
func (c *CharClass) AddRange(lo, hi rune) {
	if lo > hi {
		return
	}
	c.Ranges = append(c.Ranges, RuneRange{lo, hi})
	c.canonicalize()
}

// AddClass adds every rune of o.
func (c *CharClass) AddClass(o *CharClass) {
	c.Ranges = append(c.Ranges, o.Ranges...)
	c.canonicalize()
}

// AddTable adds every rune of a unicode range table.
func (c *CharClass) AddTable(t *unicode.RangeTable) {
	for _, r := range t.R16 {
		c.addStride(rune(r.Lo), rune(r.Hi), rune(r.Stride))
	}
	for _, r := range t.R32 {
		c.addStride(rune(r.Lo), rune(r.Hi), rune(r.Stride))
	}
	c.canonicalize()
}

func (c *CharClass) addStride(lo, hi, stride rune) {
	if stride == 1 {
		c.Ranges = append(c.Ranges, RuneRange{lo, hi})
		return
	}
	for r := lo; r <= hi; r += stride {
		c.Ranges = append(c.Ranges, RuneRange{r, r})
	}
}

// Negate replaces c with its complement over [0, MaxRune].
func (c *CharClass) Negate() {
	var out []RuneRange
	next := rune(0)
	for _, r := range c.Ranges {
		if r.Lo > next {
			out = append(out, RuneRange{next, r.Lo - 1})
		}
		next = r.Hi + 1
	}
	if next <= unicode.MaxRune {
		out = append(out, RuneRange{next, unicode.MaxRune})
	}
	c.Ranges = out
}

// Intersect keeps only runes that are also in o.
func (c *CharClass) Intersect(o *CharClass) {
	var out []RuneRange
	i, j := 0, 0
	for i < len(c.Ranges) && j < len(o.Ranges) {
		a, b := c.Ranges[i], o.Ranges[j]
		lo, hi := max(a.Lo, b.Lo), min(a.Hi, b.Hi)
		if lo <= hi {
			out = append(out, RuneRange{lo, hi})
		}
		if a.Hi < b.Hi {
			i++
		} else {
			j++
		}
	}
	c.Ranges = out
}

// Subtract removes every rune of o.
func (c *CharClass) Subtract(o *CharClass) {
	neg := o.Clone()
	neg.Negate()
	c.Intersect(neg)
}

// FoldClosure adds every case variant of every rune in the class.
func (c *CharClass) FoldClosure() {
	add := make([]RuneRange, 0, len(c.Ranges))
	for _, r := range c.Ranges {
		// Only runes with case variants need walking.
		lo, hi := r.Lo, min(r.Hi, maxFoldRune)
		for x := lo; x <= hi; x++ {
			for f := unicode.SimpleFold(x); f != x; f = unicode.SimpleFold(f) {
				add = append(add, RuneRange{f, f})
			}
		}
	}
	c.Ranges = append(c.Ranges, add...)
	c.canonicalize()
}

// maxFoldRune is the largest rune that has a simple case fold.
const maxFoldRune = 0x1e943

func (c *CharClass) canonicalize() {
	rs := c.Ranges
	if len(rs) < 2 {
		return
	}
	slices.SortFunc(rs, func(a, b RuneRange) int {
		if a.Lo != b.Lo {
			return int(a.Lo - b.Lo)
		}
		return int(a.Hi - b.Hi)
	})
	w := 0
	for _, r := range rs[1:] {
		if r.Lo <= rs[w].Hi+1 {
			rs[w].Hi = max(rs[w].Hi, r.Hi)
			continue
		}
		w++
		rs[w] = r
	}
	c.Ranges = rs[:w+1]
}

func (c *CharClass) String() string {
	var b strings.Builder
	b.WriteByte('[')
	for _, r := range c.Ranges {
		writeClassRune(&b, r.Lo)
		if r.Hi != r.Lo {
			b.WriteByte('-')
			writeClassRune(&b, r.Hi)
		}
	}
	b.WriteByte(']')
	return b.String()
}

func writeClassRune(b *strings.Builder, r rune) {
	if r > ' ' && r < utf8.RuneSelf && !strings.ContainsRune(`\-[]^`, r) {
		b.WriteRune(r)
		return
	}
	b.WriteString(`\x{`)
	b.WriteString(strconv.FormatInt(int64(r), 16))
	b.WriteByte('}')
}

// Perl-style shorthand classes. These are ASCII-only, as with the \b
// assertion outside UnicodeWord mode.
var (
	digitRanges  = []RuneRange{{'0', '9'}}
	wordRanges   = []RuneRange{{'0', '9'}, {'A', 'Z'}, {'_', '_'}, {'a', 'z'}}
	spaceRanges  = []RuneRange{{'\t', '\r'}, {' ', ' '}}
	hspaceRanges = []RuneRange{{'\t', '\t'}, {' ', ' '}}
	vspaceRanges = []RuneRange{{'\n', '\r'}, {0x85, 0x85}, {0x2028, 0x2029}}
)

// perlClass returns the positive class for \d \w \s \h \v. The
// uppercase escapes are the complements, applied by the caller.
func perlClass(c byte) (*CharClass, bool) {
	var rs []RuneRange
	switch c | 0x20 {
	case 'd':
		rs = digitRanges
	case 'w':
		rs = wordRanges
	case 's':
		rs = spaceRanges
	case 'h':
		rs = hspaceRanges
	case 'v':
		rs = vspaceRanges
	default:
		return nil, false
	}
	return NewCharClass(rs...), true
}

// posixClass parses "[:name:]" or "[:^name:]" at the start of s.
func posixClass(s string) (cc *CharClass, negated bool, size int, ok bool) {
	if len(s) < 2 || s[0] != '[' || s[1] != ':' {
		return nil, false, 0, false
	}
	end := strings.Index(s[2:], ":]")
	if end < 0 {
		return nil, false, 0, false
	}
	name := s[2 : 2+end]
	if strings.HasPrefix(name, "^") {
		negated = true
		name = name[1:]
	}
	rs, found := posixClasses[name]
	if !found {
		return nil, false, 0, false
	}
	return NewCharClass(rs...), negated, end + 4, true
}

// IsWordRune reports whether r is an ASCII word character.
func IsWordRune(r rune) bool {
	return r < utf8.RuneSelf && (r == '_' || '0' <= r && r <= '9' || 'a' <= r|0x20 && r|0x20 <= 'z')
}

var posixClasses = map[string][]RuneRange{
	"alnum":  {{'0', '9'}, {'A', 'Z'}, {'a', 'z'}},
	"alpha":  {{'A', 'Z'}, {'a', 'z'}},
	"ascii":  {{0, 0x7f}},
	"blank":  {{'\t', '\t'}, {' ', ' '}},
	"cntrl":  {{0, 0x1f}, {0x7f, 0x7f}},
	"digit":  {{'0', '9'}},
	"graph":  {{'!', '~'}},
	"lower":  {{'a', 'z'}},
	"print":  {{' ', '~'}},
	"punct":  {{'!', '/'}, {':', '@'}, {'[', '`'}, {'{', '~'}},
	"space":  {{'\t', '\r'}, {' ', ' '}},
	"upper":  {{'A', 'Z'}},
	"word":   {{'0', '9'}, {'A', 'Z'}, {'_', '_'}, {'a', 'z'}},
	"xdigit": {{'0', '9'}, {'A', 'F'}, {'a', 'f'}},
}

var propertyAliases = map[string]string{
	"letter":               "L",
	"lowercaseletter":      "Ll",
	"uppercaseletter":      "Lu",
	"titlecaseletter":      "Lt",
	"mark":                 "M",
	"number":               "N",
	"decimaldigitnumber":   "Nd",
	"digit":                "Nd",
	"punctuation":          "P",
	"symbol":               "S",
	"separator":            "Z",
	"spaceseparator":       "Zs",
	"other":                "C",
	"control":              "Cc",
	"alphabetic":           "L",
	"lowercase":            "Ll",
	"uppercase":            "Lu",
	"whitespace":           "White_Space",
	"mathsymbol":           "Sm",
	"currencysymbol":       "Sc",
	"connectorpunctuation": "Pc",
	"dashpunctuation":      "Pd",
	"openpunctuation":      "Ps",
	"closepunctuation":     "Pe",
}

// unicodeClass resolves a \p{name} property name. Lookup is insensitive to
// case, spaces, underscores and hyphens, and accepts an optional "Is"
// prefix and "gc=" or "sc=" qualifiers.
func unicodeClass(name string) (*CharClass, bool) {
	if i := strings.IndexByte(name, '='); i >= 0 {
		name = name[i+1:]
	}
	switch normalizePropName(name) {
	case "any":
		return NewCharClass(RuneRange{0, unicode.MaxRune}), true
	case "ascii":
		return NewCharClass(RuneRange{0, 0x7f}), true
	case "assigned":
		cc := unicodeTableClass(unicode.Cn)
		cc.Negate()
		return cc, true
	}
	if t := lookupTable(name); t != nil {
		return unicodeTableClass(t), true
	}
	if strings.HasPrefix(strings.ToLower(name), "is") {
		if t := lookupTable(name[2:]); t != nil {
			return unicodeTableClass(t), true
		}
	}
	return nil, false
}

func unicodeTableClass(t *unicode.RangeTable) *CharClass {
	cc := &CharClass{}
	cc.AddTable(t)
	return cc
}

func lookupTable(name string) *unicode.RangeTable {
	if t, ok := unicode.Categories[name]; ok {
		return t
	}
	if t, ok := unicode.Scripts[name]; ok {
		return t
	}
	if t, ok := unicode.Properties[name]; ok {
		return t
	}
	key := normalizePropName(name)
	if alias, ok := propertyAliases[key]; ok {
		return lookupTable(alias)
	}
	for _, m := range []map[string]*unicode.RangeTable{unicode.Categories, unicode.Scripts, unicode.Properties} {
		for k, t := range m {
			if normalizePropName(k) == key {
				return t
			}
		}
	}
	return nil
}

func normalizePropName(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == ' ' || c == '_' || c == '-':
		case 'A' <= c && c <= 'Z':
			b.WriteByte(c + 'a' - 'A')
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}
