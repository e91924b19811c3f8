package syntax

import (
	"slices"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Limits bounds what a pattern may ask of the compiler.
type Limits struct {
	MaxRepeat int // largest bound accepted in {n,m}
	MaxDepth  int // deepest group and class nesting
}

const (
	DefaultMaxRepeat = 1000
	DefaultMaxDepth  = 1000
)

// DefaultLimits returns the limits used by Parse.
func DefaultLimits() Limits {
	return Limits{MaxRepeat: DefaultMaxRepeat, MaxDepth: DefaultMaxDepth}
}

// Parse parses pattern under flags with the default limits.
func Parse(pattern string, flags Flags) (*Regexp, error) {
	return ParseWithLimits(pattern, flags, DefaultLimits())
}

// ParseWithLimits parses pattern under flags. Zero limits take their
// defaults. With the Literal flag the pattern is matched verbatim and every
// flag other than FoldCase is ignored.
func ParseWithLimits(pattern string, flags Flags, limits Limits) (*Regexp, error) {
	if limits.MaxRepeat <= 0 {
		limits.MaxRepeat = DefaultMaxRepeat
	}
	if limits.MaxDepth <= 0 {
		limits.MaxDepth = DefaultMaxDepth
	}
	if !utf8.ValidString(pattern) {
		pos := invalidUTF8(pattern)
		return nil, &Error{Code: ErrInvalidUTF8, Expr: pattern[pos:], Pos: pos}
	}
	if flags&Literal != 0 {
		return parseLiteral(pattern, flags), nil
	}

	p := &parser{
		src:       pattern,
		flags:     flags,
		limits:    limits,
		names:     []string{""},
		nameIndex: make(map[string]int),
	}
	root, err := p.parseAlternation()
	if err != nil {
		return nil, err
	}
	if p.more() {
		// parseAlternation only stops early at an unbalanced ')'.
		return nil, p.errAt(ErrUnexpectedParen, p.pos, p.pos+1)
	}
	if err := p.resolveRefs(); err != nil {
		return nil, err
	}
	return &Regexp{
		Root:   root,
		Source: pattern,
		Flags:  flags,
		NumCap: p.numCap,
		Names:  p.names,
	}, nil
}

func parseLiteral(pattern string, flags Flags) *Regexp {
	root := &Node{Op: OpEmpty, Flags: flags}
	if pattern != "" {
		root = &Node{Op: OpLiteral, Runes: []rune(pattern), Flags: flags}
	}
	return &Regexp{Root: root, Source: pattern, Flags: flags, Names: []string{""}}
}

func invalidUTF8(s string) int {
	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		if r == utf8.RuneError && size == 1 {
			return i
		}
		i += size
	}
	return len(s)
}

type parser struct {
	src    string
	pos    int
	flags  Flags
	limits Limits
	depth  int

	numCap    int
	names     []string
	nameIndex map[string]int
	refs      []pendingRef
}

// pendingRef is a backreference resolved once every group is known, so
// that forward references and multi-digit numbers can be decided.
type pendingRef struct {
	node   *Node
	repeat *Node // quantifier applied to node, if any
	digits string
	pos    int
	end    int
}

type groupKind uint8

const (
	groupCapture groupKind = iota
	groupPlain
	groupLook
	groupAtomic
)

func (p *parser) more() bool { return p.pos < len(p.src) }

func (p *parser) errAt(code ErrorCode, start, end int) *Error {
	end = min(max(end, start), len(p.src))
	return &Error{Code: code, Expr: p.src[start:end], Pos: start}
}

func (p *parser) enter(start int) error {
	p.depth++
	if p.depth > p.limits.MaxDepth {
		return p.errAt(ErrNestingDepth, start, p.pos)
	}
	return nil
}

func (p *parser) leave() { p.depth-- }

// skipSpace skips whitespace and # comments in free-spacing mode.
func (p *parser) skipSpace() {
	if p.flags&FreeSpacing == 0 {
		return
	}
	for p.more() {
		switch p.src[p.pos] {
		case ' ', '\t', '\n', '\v', '\f', '\r':
			p.pos++
		case '#':
			if i := strings.IndexByte(p.src[p.pos:], '\n'); i >= 0 {
				p.pos += i + 1
			} else {
				p.pos = len(p.src)
			}
		default:
			return
		}
	}
}

func (p *parser) parseAlternation() (*Node, error) {
	var alts []*Node
	for {
		n, err := p.parseConcat()
		if err != nil {
			return nil, err
		}
		alts = append(alts, n)
		if !p.more() || p.src[p.pos] != '|' {
			break
		}
		p.pos++
	}
	if len(alts) == 1 {
		return alts[0], nil
	}
	return &Node{Op: OpAlternate, Sub: alts, Flags: p.flags}, nil
}

func (p *parser) parseConcat() (*Node, error) {
	var items []*Node
	for {
		p.skipSpace()
		if !p.more() {
			break
		}
		if c := p.src[p.pos]; c == '|' || c == ')' {
			break
		}
		start := p.pos
		atom, err := p.parseAtom()
		if err != nil {
			return nil, err
		}
		if atom == nil {
			continue
		}
		p.skipSpace()
		// A quantifier after \Q...\E applies to the last quoted rune only.
		if p.src[start] == '\\' && atom.Op == OpLiteral && len(atom.Runes) > 1 && p.atRepeat() {
			last := len(atom.Runes) - 1
			items = append(items, &Node{Op: OpLiteral, Runes: slices.Clone(atom.Runes[:last]), Flags: atom.Flags})
			atom = &Node{Op: OpLiteral, Runes: []rune{atom.Runes[last]}, Flags: atom.Flags}
		}
		rep, err := p.parseRepeat(atom)
		if err != nil {
			return nil, err
		}
		if rep != atom && atom.Op == OpBackref {
			if last := len(p.refs) - 1; last >= 0 && p.refs[last].node == atom {
				p.refs[last].repeat = rep
			}
		}
		items = append(items, rep)
	}
	return p.concat(items), nil
}

// concat merges adjacent literals with the same case sensitivity.
func (p *parser) concat(items []*Node) *Node {
	out := items[:0]
	for _, n := range items {
		if n.Op == OpEmpty {
			continue
		}
		if n.Op == OpLiteral && len(out) > 0 {
			last := out[len(out)-1]
			if last.Op == OpLiteral && last.Flags&FoldCase == n.Flags&FoldCase {
				last.Runes = append(last.Runes, n.Runes...)
				continue
			}
		}
		out = append(out, n)
	}
	switch len(out) {
	case 0:
		return &Node{Op: OpEmpty, Flags: p.flags}
	case 1:
		return out[0]
	}
	return &Node{Op: OpConcat, Sub: out, Flags: p.flags}
}

func (p *parser) atRepeat() bool {
	if !p.more() {
		return false
	}
	switch p.src[p.pos] {
	case '*', '+', '?':
		return true
	case '{':
		_, _, _, ok := parseBraces(p.src[p.pos:])
		return ok
	}
	return false
}

func (p *parser) repeatOp() (lo, hi int, ok bool) {
	if !p.more() {
		return 0, 0, false
	}
	switch p.src[p.pos] {
	case '*':
		p.pos++
		return 0, -1, true
	case '+':
		p.pos++
		return 1, -1, true
	case '?':
		p.pos++
		return 0, 1, true
	case '{':
		lo, hi, size, ok := parseBraces(p.src[p.pos:])
		if ok {
			p.pos += size
		}
		return lo, hi, ok
	}
	return 0, 0, false
}

func (p *parser) parseRepeat(atom *Node) (*Node, error) {
	start := p.pos
	lo, hi, ok := p.repeatOp()
	if !ok {
		return atom, nil
	}
	mode := Greedy
	if p.more() {
		switch p.src[p.pos] {
		case '?':
			mode = Lazy
			p.pos++
		case '+':
			mode = Possessive
			p.pos++
		}
	}
	if lo > p.limits.MaxRepeat || hi > p.limits.MaxRepeat || (hi != -1 && lo > hi) {
		return nil, p.errAt(ErrInvalidRepeatSize, start, p.pos)
	}
	p.skipSpace()
	if p.atRepeat() {
		return nil, p.errAt(ErrInvalidRepeatOp, start, p.pos+1)
	}
	return &Node{Op: OpRepeat, Sub: []*Node{atom}, Min: lo, Max: hi, Mode: mode, Flags: p.flags}, nil
}

// parseBraces parses {n}, {n,} or {n,m} at the start of s.
func parseBraces(s string) (lo, hi, size int, ok bool) {
	if len(s) == 0 || s[0] != '{' {
		return 0, 0, 0, false
	}
	lo, i, ok := parseDecimal(s, 1)
	if !ok || i >= len(s) {
		return 0, 0, 0, false
	}
	switch s[i] {
	case '}':
		return lo, lo, i + 1, true
	case ',':
	default:
		return 0, 0, 0, false
	}
	i++
	if i < len(s) && s[i] == '}' {
		return lo, -1, i + 1, true
	}
	hi, i, ok = parseDecimal(s, i)
	if !ok || i >= len(s) || s[i] != '}' {
		return 0, 0, 0, false
	}
	return lo, hi, i + 1, true
}

// parseDecimal reads digits at s[i:], saturating large values.
func parseDecimal(s string, i int) (v, next int, ok bool) {
	start := i
	for i < len(s) && '0' <= s[i] && s[i] <= '9' {
		if v < 1<<24 {
			v = v*10 + int(s[i]-'0')
		}
		i++
	}
	return v, i, i > start
}

func (p *parser) literal(r rune) *Node {
	return &Node{Op: OpLiteral, Runes: []rune{r}, Flags: p.flags}
}

func (p *parser) assert(k AssertKind) *Node {
	return &Node{Op: OpAssert, Assert: k, Flags: p.flags}
}

// parseAtom parses one item. A nil node with a nil error means the
// construct matched nothing and changed parser state (comments, flags).
func (p *parser) parseAtom() (*Node, error) {
	start := p.pos
	switch c := p.src[p.pos]; c {
	case '(':
		return p.parseGroup()
	case '[':
		p.pos++
		cc, err := p.parseClass(start)
		if err != nil {
			return nil, err
		}
		return &Node{Op: OpCharClass, Class: cc, Flags: p.flags}, nil
	case '.':
		p.pos++
		return &Node{Op: OpAnyChar, Flags: p.flags}, nil
	case '^':
		p.pos++
		return p.assert(AssertBeginLine), nil
	case '$':
		p.pos++
		return p.assert(AssertEndLine), nil
	case '\\':
		return p.parseEscape()
	case '*', '+', '?':
		return nil, p.errAt(ErrMissingRepeatArgument, start, start+1)
	case '{':
		if _, _, size, ok := parseBraces(p.src[p.pos:]); ok {
			return nil, p.errAt(ErrMissingRepeatArgument, start, start+size)
		}
	}
	r, size := utf8.DecodeRuneInString(p.src[p.pos:])
	p.pos += size
	return p.literal(r), nil
}

func (p *parser) parseGroup() (*Node, error) {
	start := p.pos
	p.pos++
	if err := p.enter(start); err != nil {
		return nil, err
	}
	defer p.leave()

	saved := p.flags
	kind := groupCapture
	var (
		name           string
		negate, behind bool
		err            error
	)
	if p.more() && p.src[p.pos] == '?' {
		p.pos++
		if !p.more() {
			return nil, p.errAt(ErrMissingParen, start, p.pos)
		}
		rest := p.src[p.pos:]
		switch {
		case rest[0] == '#':
			end := strings.IndexByte(rest, ')')
			if end < 0 {
				return nil, p.errAt(ErrMissingParen, start, len(p.src))
			}
			p.pos += end + 1
			return nil, nil
		case rest[0] == ':':
			p.pos++
			kind = groupPlain
		case rest[0] == '=' || rest[0] == '!':
			p.pos++
			kind, negate = groupLook, rest[0] == '!'
		case rest[0] == '>':
			p.pos++
			kind = groupAtomic
		case strings.HasPrefix(rest, "<=") || strings.HasPrefix(rest, "<!"):
			p.pos += 2
			kind, negate, behind = groupLook, rest[1] == '!', true
		case rest[0] == '<':
			p.pos++
			name, err = p.parseName('>', start)
		case rest[0] == '\'':
			p.pos++
			name, err = p.parseName('\'', start)
		case strings.HasPrefix(rest, "P<"):
			p.pos += 2
			name, err = p.parseName('>', start)
		case strings.HasPrefix(rest, "P="):
			p.pos += 2
			if name, err = p.parseName(')', start); err != nil {
				return nil, err
			}
			return p.namedRef(name, start), nil
		default:
			flags, term, err := p.parseFlags(start)
			if err != nil {
				return nil, err
			}
			p.flags = flags
			if term == ')' {
				// Scoped to the rest of the enclosing group.
				return nil, nil
			}
			kind = groupPlain
		}
		if err != nil {
			return nil, err
		}
	}

	capIndex := 0
	if kind == groupCapture {
		if name != "" {
			if _, dup := p.nameIndex[name]; dup {
				return nil, p.errAt(ErrDuplicateGroupName, start, p.pos)
			}
		}
		p.numCap++
		capIndex = p.numCap
		if name != "" {
			p.nameIndex[name] = capIndex
		}
		p.names = append(p.names, name)
	}

	body, err := p.parseAlternation()
	if err != nil {
		return nil, err
	}
	if !p.more() || p.src[p.pos] != ')' {
		return nil, p.errAt(ErrMissingParen, start, len(p.src))
	}
	p.pos++
	p.flags = saved

	switch kind {
	case groupCapture:
		return &Node{Op: OpCapture, Cap: capIndex, Name: name, Sub: []*Node{body}, Flags: saved}, nil
	case groupLook:
		if behind {
			if _, hi := body.Width(); hi == Unbounded {
				return nil, p.errAt(ErrLookbehindUnbounded, start, p.pos)
			}
		}
		return &Node{Op: OpLook, Sub: []*Node{body}, Negate: negate, Behind: behind, Flags: saved}, nil
	case groupAtomic:
		return &Node{Op: OpAtomic, Sub: []*Node{body}, Flags: saved}, nil
	}
	return body, nil
}

// parseFlags parses "imsxwd-imsxwd" up to ':' or ')'.
func (p *parser) parseFlags(start int) (Flags, byte, error) {
	f := p.flags
	neg, seen := false, false
	for p.more() {
		c := p.src[p.pos]
		p.pos++
		switch c {
		case '-':
			if neg {
				return 0, 0, p.errAt(ErrInvalidFlag, start, p.pos)
			}
			neg, seen = true, false
		case ':', ')':
			if !seen {
				return 0, 0, p.errAt(ErrInvalidFlag, start, p.pos)
			}
			return f, c, nil
		default:
			fl, ok := inlineFlag(c)
			if !ok {
				return 0, 0, p.errAt(ErrInvalidFlag, start, p.pos)
			}
			if neg {
				f &^= fl
			} else {
				f |= fl
			}
			seen = true
		}
	}
	return 0, 0, p.errAt(ErrMissingParen, start, p.pos)
}

func (p *parser) parseName(term byte, start int) (string, error) {
	end := strings.IndexByte(p.src[p.pos:], term)
	if end < 0 {
		return "", p.errAt(ErrInvalidNamedCapture, start, len(p.src))
	}
	name := p.src[p.pos : p.pos+end]
	p.pos += end + 1
	if !isValidName(name) {
		return "", p.errAt(ErrInvalidNamedCapture, start, p.pos)
	}
	return name, nil
}

func isValidName(name string) bool {
	if name == "" {
		return false
	}
	for i := 0; i < len(name); i++ {
		c := name[i]
		switch {
		case 'a' <= c|0x20 && c|0x20 <= 'z':
		case i > 0 && ('0' <= c && c <= '9' || c == '_'):
		default:
			return false
		}
	}
	return true
}

func (p *parser) namedRef(name string, start int) *Node {
	n := &Node{Op: OpBackref, Name: name, Flags: p.flags}
	p.refs = append(p.refs, pendingRef{node: n, pos: start, end: p.pos})
	return n
}

func (p *parser) parseEscape() (*Node, error) {
	start := p.pos
	p.pos++
	if !p.more() {
		return nil, p.errAt(ErrTrailingBackslash, start, p.pos)
	}
	c := p.src[p.pos]
	switch c {
	case 'A':
		p.pos++
		return p.assert(AssertBeginText), nil
	case 'z':
		p.pos++
		return p.assert(AssertEndText), nil
	case 'Z':
		p.pos++
		return p.assert(AssertEndTextOptional), nil
	case 'b':
		p.pos++
		return p.assert(AssertWordBoundary), nil
	case 'B':
		p.pos++
		return p.assert(AssertNotWordBoundary), nil
	case 'G':
		p.pos++
		return p.assert(AssertSearchStart), nil
	case 'd', 'D', 'w', 'W', 's', 'S', 'h', 'H', 'v', 'V':
		p.pos++
		cc, _ := perlClass(c)
		return &Node{Op: OpCharClass, Class: p.classItem(cc, c <= 'Z'), Flags: p.flags}, nil
	case 'p', 'P':
		cc, neg, err := p.parseProperty(start)
		if err != nil {
			return nil, err
		}
		return &Node{Op: OpCharClass, Class: p.classItem(cc, neg), Flags: p.flags}, nil
	case 'R':
		p.pos++
		return lineBreak(p.flags), nil
	case 'Q':
		p.pos++
		text := p.quoted()
		if text == "" {
			return nil, nil
		}
		return &Node{Op: OpLiteral, Runes: []rune(text), Flags: p.flags}, nil
	case 'k':
		p.pos++
		var term byte
		if p.more() {
			switch p.src[p.pos] {
			case '<':
				term = '>'
			case '{':
				term = '}'
			case '\'':
				term = '\''
			}
		}
		if term == 0 {
			return nil, p.errAt(ErrInvalidEscape, start, p.pos)
		}
		p.pos++
		name, err := p.parseName(term, start)
		if err != nil {
			return nil, err
		}
		return p.namedRef(name, start), nil
	case '1', '2', '3', '4', '5', '6', '7', '8', '9':
		end := p.pos
		for end < len(p.src) && '0' <= p.src[end] && p.src[end] <= '9' {
			end++
		}
		n := &Node{Op: OpBackref, Flags: p.flags}
		p.refs = append(p.refs, pendingRef{node: n, digits: p.src[p.pos:end], pos: start, end: end})
		p.pos = end
		return n, nil
	}
	r, err := p.escapeRune(start)
	if err != nil {
		return nil, err
	}
	return p.literal(r), nil
}

// quoted consumes the body of \Q...\E; an unterminated quote runs to the end.
func (p *parser) quoted() string {
	rest := p.src[p.pos:]
	end := strings.Index(rest, `\E`)
	if end < 0 {
		p.pos = len(p.src)
		return rest
	}
	p.pos += end + 2
	return rest[:end]
}

// escapeRune decodes an escape that denotes a single rune. p.pos is just
// past the backslash.
func (p *parser) escapeRune(start int) (rune, error) {
	c, size := utf8.DecodeRuneInString(p.src[p.pos:])
	p.pos += size
	switch c {
	case 'a':
		return '\a', nil
	case 'e':
		return 0x1b, nil
	case 'f':
		return '\f', nil
	case 'n':
		return '\n', nil
	case 'r':
		return '\r', nil
	case 't':
		return '\t', nil
	case '0':
		v, n := 0, 0
		for n < 3 && p.more() && '0' <= p.src[p.pos] && p.src[p.pos] <= '7' {
			next := v*8 + int(p.src[p.pos]-'0')
			if next > 0o377 {
				break
			}
			v = next
			p.pos++
			n++
		}
		return rune(v), nil
	case 'x':
		if p.more() && p.src[p.pos] == '{' {
			end := strings.IndexByte(p.src[p.pos:], '}')
			if end < 2 || end > 9 {
				return 0, p.errAt(ErrInvalidEscape, start, p.pos+max(end+1, 1))
			}
			r, ok := hexRune(p.src[p.pos+1 : p.pos+end])
			p.pos += end + 1
			if !ok {
				return 0, p.errAt(ErrInvalidEscape, start, p.pos)
			}
			return r, nil
		}
		return p.fixedHex(start, 2)
	case 'u':
		return p.fixedHex(start, 4)
	case 'U':
		return p.fixedHex(start, 8)
	case 'c':
		if !p.more() || p.src[p.pos] >= utf8.RuneSelf {
			return 0, p.errAt(ErrInvalidEscape, start, p.pos+1)
		}
		r := rune(p.src[p.pos] & 0x1f)
		p.pos++
		return r, nil
	}
	if c < utf8.RuneSelf && (unicode.IsLetter(c) || unicode.IsDigit(c)) {
		return 0, p.errAt(ErrInvalidEscape, start, p.pos)
	}
	return c, nil
}

func (p *parser) fixedHex(start, n int) (rune, error) {
	if p.pos+n > len(p.src) {
		return 0, p.errAt(ErrInvalidEscape, start, len(p.src))
	}
	r, ok := hexRune(p.src[p.pos : p.pos+n])
	p.pos += n
	if !ok {
		return 0, p.errAt(ErrInvalidEscape, start, p.pos)
	}
	return r, nil
}

func hexRune(s string) (rune, bool) {
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil || v > unicode.MaxRune || (0xd800 <= v && v <= 0xdfff) {
		return 0, false
	}
	return rune(v), true
}

// parseProperty parses \p{Name}, \P{Name}, \pL or \p{^Name}.
func (p *parser) parseProperty(start int) (*CharClass, bool, error) {
	neg := p.src[p.pos] == 'P'
	p.pos++
	if !p.more() {
		return nil, false, p.errAt(ErrInvalidCharClass, start, p.pos)
	}
	var name string
	if p.src[p.pos] == '{' {
		end := strings.IndexByte(p.src[p.pos:], '}')
		if end < 0 {
			return nil, false, p.errAt(ErrInvalidCharClass, start, len(p.src))
		}
		name = p.src[p.pos+1 : p.pos+end]
		p.pos += end + 1
	} else {
		r, size := utf8.DecodeRuneInString(p.src[p.pos:])
		name = string(r)
		p.pos += size
	}
	if strings.HasPrefix(name, "^") {
		neg = !neg
		name = name[1:]
	}
	cc, ok := unicodeClass(name)
	if !ok {
		return nil, false, p.errAt(ErrInvalidCharClass, start, p.pos)
	}
	return cc, neg, nil
}

// classItem finishes one class item: positive items are closed under case
// folding, negated ones are complemented without folding.
func (p *parser) classItem(cc *CharClass, negated bool) *CharClass {
	if negated {
		cc.Negate()
		return cc
	}
	if p.flags&FoldCase != 0 {
		cc.FoldClosure()
	}
	return cc
}

// parseClass parses a bracket expression; p.pos is just past '['.
func (p *parser) parseClass(start int) (*CharClass, error) {
	if err := p.enter(start); err != nil {
		return nil, err
	}
	defer p.leave()

	negate := false
	if p.more() && p.src[p.pos] == '^' {
		negate = true
		p.pos++
	}
	var (
		acc  *CharClass
		op   byte
		term = &CharClass{}
	)
	flush := func() {
		switch {
		case acc == nil:
			acc = term
		case op == '&':
			acc.Intersect(term)
		case op == '-':
			acc.Subtract(term)
		default:
			acc.AddClass(term)
		}
		term = &CharClass{}
	}
	for first := true; ; first = false {
		if !p.more() {
			return nil, p.errAt(ErrMissingBracket, start, len(p.src))
		}
		rest := p.src[p.pos:]
		switch {
		case rest[0] == ']' && !first:
			p.pos++
			flush()
			if negate {
				acc.Negate()
			}
			return acc, nil
		case strings.HasPrefix(rest, "&&") || (!first && strings.HasPrefix(rest, "--[")):
			p.pos += 2
			flush()
			op = rest[0]
			continue
		case rest[0] == '[':
			if cc, neg, size, ok := posixClass(rest); ok {
				p.pos += size
				term.AddClass(p.classItem(cc, neg))
				continue
			}
			nestStart := p.pos
			p.pos++
			cc, err := p.parseClass(nestStart)
			if err != nil {
				return nil, err
			}
			term.AddClass(cc)
			continue
		}

		itemStart := p.pos
		lo, cc, err := p.classAtom()
		if err != nil {
			return nil, err
		}
		if cc != nil {
			term.AddClass(cc)
			continue
		}
		rest = p.src[p.pos:]
		if len(rest) >= 2 && rest[0] == '-' && rest[1] != ']' && !strings.HasPrefix(rest, "--[") {
			p.pos++
			if p.src[p.pos] == '[' {
				return nil, p.errAt(ErrInvalidCharRange, itemStart, p.pos+1)
			}
			hi, hcc, err := p.classAtom()
			if err != nil {
				return nil, err
			}
			if hcc != nil || hi < lo {
				return nil, p.errAt(ErrInvalidCharRange, itemStart, p.pos)
			}
			term.AddClass(p.classItem(NewCharClass(RuneRange{lo, hi}), false))
			continue
		}
		term.AddClass(p.classItem(NewCharClass(RuneRange{lo, lo}), false))
	}
}

// classAtom parses a single rune or a class-valued escape inside brackets.
func (p *parser) classAtom() (rune, *CharClass, error) {
	if p.src[p.pos] != '\\' {
		r, size := utf8.DecodeRuneInString(p.src[p.pos:])
		p.pos += size
		return r, nil, nil
	}
	start := p.pos
	p.pos++
	if !p.more() {
		return 0, nil, p.errAt(ErrTrailingBackslash, start, p.pos)
	}
	switch c := p.src[p.pos]; c {
	case 'd', 'D', 'w', 'W', 's', 'S', 'h', 'H', 'v', 'V':
		p.pos++
		cc, _ := perlClass(c)
		return 0, p.classItem(cc, c <= 'Z'), nil
	case 'p', 'P':
		cc, neg, err := p.parseProperty(start)
		if err != nil {
			return 0, nil, err
		}
		return 0, p.classItem(cc, neg), nil
	case 'b':
		p.pos++
		return '\b', nil, nil
	case 'Q':
		p.pos++
		cc := &CharClass{}
		for _, r := range p.quoted() {
			cc.AddRune(r)
		}
		return 0, p.classItem(cc, false), nil
	}
	r, err := p.escapeRune(start)
	return r, nil, err
}

// lineBreak builds \R: CRLF or any single vertical whitespace rune.
func lineBreak(f Flags) *Node {
	f &^= FoldCase
	return &Node{Op: OpAtomic, Flags: f, Sub: []*Node{{
		Op:    OpAlternate,
		Flags: f,
		Sub: []*Node{
			{Op: OpLiteral, Runes: []rune("\r\n"), Flags: f},
			{Op: OpCharClass, Class: NewCharClass(vspaceRanges...), Flags: f},
		},
	}}}
}

// resolveRefs binds backreferences now that every group is known. A
// numeric reference takes the longest digit prefix that names an existing
// group; any remaining digits are literal text.
func (p *parser) resolveRefs() error {
	for _, ref := range p.refs {
		n := ref.node
		if n.Name != "" {
			idx, ok := p.nameIndex[n.Name]
			if !ok {
				return p.errAt(ErrUndefinedGroupName, ref.pos, ref.end)
			}
			n.Cap = idx
			continue
		}
		group, used := 0, 0
		for i := 1; i <= len(ref.digits) && i <= 9; i++ {
			v, _ := strconv.Atoi(ref.digits[:i])
			if v > p.numCap {
				break
			}
			group, used = v, i
		}
		if group == 0 {
			return p.errAt(ErrInvalidBackref, ref.pos, ref.end)
		}
		n.Cap = group
		if used < len(ref.digits) {
			splitRef(ref, used)
		}
	}
	return nil
}

// splitRef turns a reference that used only digits[:used] into the
// reference followed by the remaining digits as literal text. A quantifier
// on the reference moves to the last digit, so `\12*` is `\1` then `2*`.
func splitRef(ref pendingRef, used int) {
	n := ref.node
	back := *n
	rest := []rune(ref.digits[used:])
	if ref.repeat == nil {
		*n = Node{Op: OpConcat, Flags: back.Flags, Sub: []*Node{
			&back,
			{Op: OpLiteral, Runes: rest, Flags: back.Flags},
		}}
		return
	}
	rep := *ref.repeat
	last := len(rest) - 1
	sub := []*Node{&back}
	if last > 0 {
		sub = append(sub, &Node{Op: OpLiteral, Runes: rest[:last], Flags: back.Flags})
	}
	rep.Sub = []*Node{{Op: OpLiteral, Runes: rest[last:], Flags: back.Flags}}
	sub = append(sub, &rep)
	*ref.repeat = Node{Op: OpConcat, Flags: back.Flags, Sub: sub}
}
