package search

import (
	"context"

	"github.com/Amr-9/b58finder/pkg/base58"
)

// walker is one worker's goroutine-local recursion state.
type walker struct {
	p          *plan
	state      *State
	ctx        context.Context
	checkEvery uint64

	buf     []byte   // candidate being built
	partial []number // partial[j]: value with positions < j assigned
	zeros   []int    // zeros[j]: leading '1' count, -1 while unknown
	top     number
	scratch number
	decoded []byte

	tested, explored uint64
	sinceCheck       uint64
	stopped          bool
}

func newWalker(ctx context.Context, p *plan, state *State, checkEvery uint64) *walker {
	w := &walker{
		p:          p,
		state:      state,
		ctx:        ctx,
		checkEvery: checkEvery,
		buf:        append([]byte(nil), p.template...),
		partial:    make([]number, p.k+1),
		zeros:      make([]int, p.k+1),
		top:        make(number, p.width),
		scratch:    make(number, p.width),
		decoded:    make([]byte, 0, len(p.template)+8),
	}
	for j := range w.partial {
		w.partial[j] = make(number, p.width)
	}
	copy(w.partial[0], p.base)
	w.zeros[0] = p.zeroStart
	return w
}

// task explores every candidate whose first missing symbol is digit.
func (w *walker) task(digit int) {
	w.place(0, digit)
	w.walk(1)
	w.flush()
}

// place assigns digit to missing[j] and derives the depth j+1 state.
func (w *walker) place(j, digit int) {
	p := w.p
	add(w.partial[j+1], w.partial[j], p.contribution(j, digit))
	w.buf[p.missing[j]] = base58.Alphabet[digit]
	w.zeros[j+1] = p.nextZeros(j, w.zeros[j], digit)
}

func (w *walker) walk(j int) {
	p := w.p
	if p.prune(j, w.zeros[j], w.partial[j], w.top) {
		w.done(j)
		return
	}
	if j == p.k {
		w.leaf(w.partial[j], w.zeros[j])
		w.done(j)
		return
	}
	if j == p.split && p.mitm != nil && w.zeros[j] >= 0 {
		w.join(j)
		if !w.stopped {
			w.done(j)
		}
		return
	}

	for d := 0; d < base58.Radix; d++ {
		w.place(j, d)
		w.walk(j + 1)
		if w.stopped {
			return
		}
	}
	if j == p.acct {
		w.done(j)
	}
}

// done records that the subtree at depth j is fully explored.
func (w *walker) done(j int) {
	if j <= w.p.acct {
		w.explored += w.p.weight[j]
	}
}

// leaf evaluates one full candidate.
func (w *walker) leaf(value number, zeros int) {
	w.tested++
	w.decoded = w.decoded[:0]
	for i := 0; i < zeros; i++ {
		w.decoded = append(w.decoded, 0)
	}
	w.decoded = value.appendBytes(w.decoded)

	if w.p.accept(w.decoded) {
		candidate := string(w.buf)
		if w.p.filter == nil || w.p.filter(candidate) {
			w.state.addResult(candidate)
		}
	}

	w.sinceCheck++
	if w.sinceCheck >= w.checkEvery {
		w.sinceCheck = 0
		w.flush()
		if w.ctx.Err() != nil {
			w.stopped = true
		}
	}
}

func (w *walker) flush() {
	w.state.flush(w.tested, w.explored)
	w.tested, w.explored = 0, 0
}
