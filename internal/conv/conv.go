// Package conv provides checked integer narrowing.
//
// Instruction IDs are uint32; a program larger than that is a compiler
// bug, since Config.MaxInsts caps programs far below it. The helpers panic
// instead of wrapping silently.
package conv

import "math"

// IntToUint32 converts n to uint32.
// Panics if n is negative or does not fit.
//
//go:inline
func IntToUint32(n int) uint32 {
	// uint comparison keeps this correct where int is 32 bits.
	if n < 0 || uint(n) > math.MaxUint32 {
		panic("conv: int value out of uint32 range")
	}
	return uint32(n)
}
