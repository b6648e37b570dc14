package search

import (
	"sort"

	"github.com/Amr-9/b58finder/pkg/base58"
)

// suffixTable lists every assignment of the trailing missing positions,
// sorted by a 64-bit key of its value contribution. The key is the
// contribution shifted right until the largest one fits in 64 bits, so a key
// window always covers at least the matching contributions.
type suffixTable struct {
	keys  []uint64
	idx   []uint32 // suffix digits, base 58, last position least significant
	shift int
	max   number
}

func (t *suffixTable) Len() int           { return len(t.keys) }
func (t *suffixTable) Less(i, j int) bool { return t.keys[i] < t.keys[j] }
func (t *suffixTable) Swap(i, j int) {
	t.keys[i], t.keys[j] = t.keys[j], t.keys[i]
	t.idx[i], t.idx[j] = t.idx[j], t.idx[i]
}

// buildSuffixTable enumerates the positions split..k-1 of p.
func buildSuffixTable(p *plan, split int) *suffixTable {
	digits := p.k - split
	size := 1
	for i := 0; i < digits; i++ {
		size *= base58.Radix
	}

	t := &suffixTable{
		keys: make([]uint64, size),
		idx:  make([]uint32, size),
		max:  p.maxRest[split],
	}
	t.shift = max(0, t.max.bitLen()-64)

	sum := make(number, p.width)
	for i := 0; i < size; i++ {
		clear(sum)
		rem := i
		for j := p.k - 1; j >= split; j-- {
			add(sum, sum, p.contribution(j, rem%base58.Radix))
			rem /= base58.Radix
		}
		t.keys[i] = sum.shr64(t.shift)
		t.idx[i] = uint32(i)
	}
	sort.Sort(t)
	return t
}

// key returns the table key of x, saturating at the largest contribution.
func (t *suffixTable) key(x number) uint64 {
	if cmp(x, t.max) > 0 {
		x = t.max
	}
	return x.shr64(t.shift)
}

// join evaluates, for the prefix node at depth j, only the suffixes whose
// key falls in a window that can reach one of the value ranges.
func (w *walker) join(j int) {
	p, t := w.p, w.p.mitm
	partial := w.partial[j]
	next := 0
	for _, s := range p.ranges[w.zeros[j]] {
		if cmp(partial, s.hi) > 0 {
			continue
		}
		var lo uint64
		if !sub(w.scratch, s.lo, partial) {
			if cmp(w.scratch, t.max) > 0 {
				continue
			}
			lo = t.key(w.scratch)
		}
		sub(w.scratch, s.hi, partial)
		hi := t.key(w.scratch)

		i := sort.Search(len(t.keys), func(i int) bool { return t.keys[i] >= lo })
		i = max(i, next)
		for ; i < len(t.keys) && t.keys[i] <= hi; i++ {
			w.suffix(j, t.idx[i])
			if w.stopped {
				return
			}
		}
		next = i
	}
}

// suffix assigns the digits encoded in idx to positions j..k-1 and
// evaluates the resulting candidate.
func (w *walker) suffix(j int, idx uint32) {
	p := w.p
	var digits [8]int
	rem := int(idx)
	for i := p.k - 1; i >= j; i-- {
		digits[i-j] = rem % base58.Radix
		rem /= base58.Radix
	}
	for i := j; i < p.k; i++ {
		w.place(i, digits[i-j])
	}
	w.leaf(w.partial[p.k], w.zeros[j])
}
