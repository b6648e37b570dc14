package search

import (
	"bytes"
	"math/big"
	"math/rand"
	"testing"
)

func randomBig(r *rand.Rand, bits int) *big.Int {
	b := make([]byte, (bits+7)/8)
	r.Read(b)
	x := new(big.Int).SetBytes(b)
	return x.Rsh(x, uint(len(b)*8-bits))
}

func TestNumberMatchesBig(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	const width = 12
	for i := 0; i < 500; i++ {
		a := randomBig(r, 1+r.Intn(width*32-2))
		b := randomBig(r, 1+r.Intn(width*32-2))
		na, nb := fromBig(a, width), fromBig(b, width)

		if na.big().Cmp(a) != 0 {
			t.Fatalf("fromBig(%x) round trip = %x", a, na.big())
		}
		if got, want := cmp(na, nb), a.Cmp(b); got != want {
			t.Fatalf("cmp(%x, %x) = %d, want %d", a, b, got, want)
		}

		sum := make(number, width)
		add(sum, na, nb)
		if want := new(big.Int).Add(a, b); sum.big().Cmp(want) != 0 {
			t.Fatalf("add(%x, %x) = %x, want %x", a, b, sum.big(), want)
		}

		diff := make(number, width)
		under := sub(diff, na, nb)
		if under != (a.Cmp(b) < 0) {
			t.Fatalf("sub(%x, %x) underflow = %v", a, b, under)
		}
		if !under {
			if want := new(big.Int).Sub(a, b); diff.big().Cmp(want) != 0 {
				t.Fatalf("sub(%x, %x) = %x, want %x", a, b, diff.big(), want)
			}
		}

		if got := na.appendBytes(nil); !bytes.Equal(got, a.Bytes()) {
			t.Fatalf("appendBytes(%x) = %x", a, got)
		}
		if na.bitLen() != a.BitLen() {
			t.Fatalf("bitLen(%x) = %d, want %d", a, na.bitLen(), a.BitLen())
		}

		shift := max(0, a.BitLen()-64)
		if want := new(big.Int).Rsh(a, uint(shift)).Uint64(); na.shr64(shift) != want {
			t.Fatalf("shr64(%x, %d) = %x, want %x", a, shift, na.shr64(shift), want)
		}
	}
}

func TestNumberZero(t *testing.T) {
	n := make(number, 4)
	if got := n.appendBytes([]byte{0}); !bytes.Equal(got, []byte{0}) {
		t.Errorf("appendBytes of zero added bytes: %x", got)
	}
	if n.bitLen() != 0 {
		t.Errorf("bitLen of zero = %d", n.bitLen())
	}
}

func TestFromBigSaturates(t *testing.T) {
	x := new(big.Int).Lsh(big.NewInt(1), 200)
	n := fromBig(x, 4)
	for i, l := range n {
		if l != ^uint32(0) {
			t.Fatalf("limb %d = %x, want all ones", i, l)
		}
	}
}

func TestLimbsForHoldsLargestValue(t *testing.T) {
	for _, n := range []int{1, 26, 34, 51, 52, 58, 111, 200} {
		max := new(big.Int).Exp(big.NewInt(58), big.NewInt(int64(n)), nil)
		if max.BitLen() > (limbsFor(n)-1)*32 {
			t.Errorf("limbsFor(%d) = %d limbs, too narrow for %d bits", n, limbsFor(n), max.BitLen())
		}
	}
}
