package insts

import "fmt"

// Unsigned is the set of result types Extract can produce.
type Unsigned interface {
	~uint8 | ~uint16 | ~uint32
}

// Extract returns bits [lo, hi] of word, inclusive, shifted down so that
// bit lo becomes bit 0 of the result. The caller picks a result type wide
// enough to hold hi-lo+1 bits; wider fields are truncated.
func Extract[T Unsigned](word uint32, lo, hi uint) T {
	if hi > 31 || lo > hi {
		panic(fmt.Sprintf("insts: invalid bit range [%d, %d]", lo, hi))
	}
	// A shift by 32 yields 0, so the mask wraps to all ones for [0, 31].
	mask := uint32(1)<<(hi-lo+1) - 1
	return T((word >> lo) & mask)
}

// bit returns bit n of v as 0 or 1.
func bit(v uint32, n uint) uint32 {
	return (v >> n) & 1
}
