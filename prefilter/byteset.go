package prefilter

// ByteSetPrefilter finds positions holding any byte of a small set. It
// serves patterns whose every match begins with one of a few ASCII bytes,
// such as `[0-9]+` or `(a|b)c`, where literal prefixes are one byte long.
//
// Finding a byte is only a candidate position; the pattern must still be
// verified there.
type ByteSetPrefilter struct {
	table [256]bool
	count int
}

// NewByteSetPrefilter creates a prefilter over the given bytes.
//
// Example:
//
//	pf := prefilter.NewByteSetPrefilter([]byte("0123456789"))
//	pos := pf.Find([]byte("abc 42"), 0) // 4
func NewByteSetPrefilter(set []byte) *ByteSetPrefilter {
	p := &ByteSetPrefilter{}
	for _, c := range set {
		if !p.table[c] {
			p.table[c] = true
			p.count++
		}
	}
	return p
}

// Find returns the index of the first byte of the set at or after start,
// or -1.
func (p *ByteSetPrefilter) Find(haystack []byte, start int) int {
	if start < 0 {
		return -1
	}
	for i := start; i < len(haystack); i++ {
		if p.table[haystack[i]] {
			return i
		}
	}
	return -1
}

// Contains reports whether c is in the set.
func (p *ByteSetPrefilter) Contains(c byte) bool {
	return p.table[c]
}

// Len returns the number of distinct bytes in the set.
func (p *ByteSetPrefilter) Len() int {
	return p.count
}

// IsComplete returns false: a byte is only a candidate.
func (p *ByteSetPrefilter) IsComplete() bool {
	return false
}

// LiteralLen returns 0.
func (p *ByteSetPrefilter) LiteralLen() int {
	return 0
}

// HeapBytes returns the size of the lookup table.
func (p *ByteSetPrefilter) HeapBytes() int {
	return len(p.table)
}
