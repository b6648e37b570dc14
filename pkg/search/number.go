package search

import (
	"math/big"
	"math/bits"
)

// number is a fixed-width unsigned integer stored as little-endian 32-bit
// limbs. Every number used by one search shares the same width, chosen so
// the largest value of the input length never overflows.
type number []uint32

// limbsFor returns the width that holds any value of an n-symbol string.
func limbsFor(n int) int {
	return (n*586/100)/32 + 2
}

// add sets dst = a + b. dst may alias a or b.
func add(dst, a, b number) {
	var carry uint32
	for i := range dst {
		dst[i], carry = bits.Add32(a[i], b[i], carry)
	}
}

// sub sets dst = a - b and reports whether it underflowed.
func sub(dst, a, b number) bool {
	var borrow uint32
	for i := range dst {
		dst[i], borrow = bits.Sub32(a[i], b[i], borrow)
	}
	return borrow != 0
}

// cmp returns -1, 0 or +1.
func cmp(a, b number) int {
	for i := len(a) - 1; i >= 0; i-- {
		switch {
		case a[i] < b[i]:
			return -1
		case a[i] > b[i]:
			return 1
		}
	}
	return 0
}

func (n number) bitLen() int {
	for i := len(n) - 1; i >= 0; i-- {
		if n[i] != 0 {
			return i*32 + bits.Len32(n[i])
		}
	}
	return 0
}

// shr64 returns n >> shift truncated to 64 bits.
func (n number) shr64(shift int) uint64 {
	var out uint64
	for b := 0; b < 64; b += 32 {
		out |= uint64(n.limbAt(shift+b)) << b
	}
	return out
}

// limbAt returns the 32 bits starting at bit offset off.
func (n number) limbAt(off int) uint32 {
	i, s := off/32, uint(off%32)
	var lo, hi uint32
	if i < len(n) {
		lo = n[i] >> s
	}
	if s != 0 && i+1 < len(n) {
		hi = n[i+1] << (32 - s)
	}
	return lo | hi
}

// appendBytes appends the minimal big-endian encoding of n (nothing for 0).
func (n number) appendBytes(dst []byte) []byte {
	top := len(n) - 1
	for top >= 0 && n[top] == 0 {
		top--
	}
	if top < 0 {
		return dst
	}
	w := n[top]
	for s := (bits.Len32(w) - 1) / 8 * 8; s >= 0; s -= 8 {
		dst = append(dst, byte(w>>uint(s)))
	}
	for i := top - 1; i >= 0; i-- {
		w = n[i]
		dst = append(dst, byte(w>>24), byte(w>>16), byte(w>>8), byte(w))
	}
	return dst
}

// fromBig converts x into a number of the given width, saturating at the
// largest representable value.
func fromBig(x *big.Int, width int) number {
	n := make(number, width)
	if x.BitLen() > width*32 {
		for i := range n {
			n[i] = ^uint32(0)
		}
		return n
	}
	for i, w := range x.Bits() {
		for j := 0; j < bits.UintSize/32; j++ {
			idx := i*(bits.UintSize/32) + j
			if idx < width {
				n[idx] = uint32(uint64(w) >> (32 * j))
			}
		}
	}
	return n
}

func (n number) big() *big.Int {
	b := n.appendBytes(nil)
	return new(big.Int).SetBytes(b)
}
