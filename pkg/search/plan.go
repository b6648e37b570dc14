package search

import (
	"math/big"

	"github.com/Amr-9/b58finder/pkg/base58"
	"github.com/Amr-9/b58finder/pkg/checksum"
	"github.com/Amr-9/b58finder/pkg/format"
)

// maxLeafDepth bounds the progress accounting depth so 58^depth fits in a
// uint64. Deeper searches count whole subtrees as one unit.
const maxLeafDepth = 10

// span is an inclusive interval of values.
type span struct {
	lo, hi number
}

// plan holds everything precomputed for one input. It is read-only once
// built and shared by all workers.
type plan struct {
	desc   *format.Descriptor
	filter func(string) bool

	template []byte // input with every placeholder set to digit 0
	missing  []int  // placeholder positions, left to right
	k        int
	width    int

	base    number   // value of the known symbols
	contrib []uint32 // k*58 numbers: digit d at missing[j]
	maxRest []number // maxRest[j]: largest sum of positions j..k-1

	constrained bool
	ranges      [][]span // by leading zero count

	zeroStart  int   // leading '1' count known before missing[0], or -1
	nextNonOne []int // first known non-'1' between missing[j] and missing[j+1]

	acct   int      // depth at which one subtree is one progress unit
	weight []uint64 // units covered by a node at depth j <= acct

	split int // prefix depth for the meet-in-the-middle join, 0 = off
	mitm  *suffixTable
}

func newPlan(job Job, d *format.Descriptor) *plan {
	s := job.Input
	n := len(s)
	w := limbsFor(n)
	p := &plan{
		desc:     d,
		filter:   job.Filter,
		template: []byte(s),
		width:    w,
	}

	radix := big.NewInt(base58.Radix)
	pow := make([]*big.Int, n)
	acc := big.NewInt(1)
	for i := n - 1; i >= 0; i-- {
		pow[i] = new(big.Int).Set(acc)
		acc.Mul(acc, radix)
	}

	base := new(big.Int)
	tmp := new(big.Int)
	for i := 0; i < n; i++ {
		if rune(s[i]) == job.Placeholder {
			p.missing = append(p.missing, i)
			p.template[i] = base58.ZeroSymbol
			continue
		}
		v, _ := base58.Value(rune(s[i]))
		base.Add(base, tmp.Mul(pow[i], big.NewInt(int64(v))))
	}
	p.base = fromBig(base, w)
	p.k = len(p.missing)

	p.contrib = make([]uint32, p.k*base58.Radix*w)
	for j, pos := range p.missing {
		for dg := 1; dg < base58.Radix; dg++ {
			tmp.Mul(pow[pos], big.NewInt(int64(dg)))
			copy(p.contribution(j, dg), fromBig(tmp, w))
		}
	}

	p.maxRest = make([]number, p.k+1)
	p.maxRest[p.k] = make(number, w)
	rest := new(big.Int)
	for j := p.k - 1; j >= 0; j-- {
		rest.Add(rest, tmp.Mul(pow[p.missing[j]], big.NewInt(base58.Radix-1)))
		p.maxRest[j] = fromBig(rest, w)
	}

	if d.Constrained() {
		p.constrained = true
		p.ranges = make([][]span, n+1)
		for z := 0; z <= n; z++ {
			for _, r := range d.ValueRanges(z) {
				p.ranges[z] = append(p.ranges[z], span{lo: fromBig(r.Lo, w), hi: fromBig(r.Hi, w)})
			}
		}
	}

	p.zeroStart = -1
	if p.k > 0 {
		for i := 0; i < p.missing[0]; i++ {
			if s[i] != base58.ZeroSymbol {
				p.zeroStart = i
				break
			}
		}
	}
	p.nextNonOne = make([]int, p.k)
	for j, pos := range p.missing {
		end := n
		if j+1 < p.k {
			end = p.missing[j+1]
		}
		p.nextNonOne[j] = -1
		for i := pos + 1; i < end; i++ {
			if s[i] != base58.ZeroSymbol {
				p.nextNonOne[j] = i
				break
			}
		}
	}

	p.acct = p.k - max(0, p.k-maxLeafDepth)
	p.weight = make([]uint64, p.acct+1)
	u := uint64(1)
	for j := p.acct; j >= 0; j-- {
		p.weight[j] = u
		u *= base58.Radix
	}
	return p
}

// total is the number of progress units of the whole search.
func (p *plan) total() uint64 {
	return p.weight[0]
}

func (p *plan) contribution(j, digit int) number {
	off := (j*base58.Radix + digit) * p.width
	return p.contrib[off : off+p.width : off+p.width]
}

// nextZeros returns the leading '1' count known after digit is placed at
// missing[j], or -1 while the leading run is still open.
func (p *plan) nextZeros(j, zeros, digit int) int {
	switch {
	case zeros >= 0:
		return zeros
	case digit != 0:
		return p.missing[j]
	case p.nextNonOne[j] >= 0:
		return p.nextNonOne[j]
	case j+1 == p.k:
		return len(p.template)
	default:
		return -1
	}
}

// prune reports whether no completion of a node at depth j with the given
// partial value can satisfy the descriptor. top is scratch space.
func (p *plan) prune(j, zeros int, partial, top number) bool {
	if !p.constrained || zeros < 0 {
		return false
	}
	add(top, partial, p.maxRest[j])
	for _, s := range p.ranges[zeros] {
		if cmp(partial, s.hi) <= 0 && cmp(top, s.lo) >= 0 {
			return false
		}
	}
	return true
}

// accept runs the byte-level checks on a decoded candidate, cheapest first.
func (p *plan) accept(decoded []byte) bool {
	d := p.desc
	return d.ByteLengthOK(len(decoded)) &&
		d.PrefixOK(decoded) &&
		d.MarkerOK(decoded) &&
		checksum.Verify(decoded)
}
