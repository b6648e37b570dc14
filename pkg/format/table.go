package format

import (
	"fmt"
	"math/big"
	"sort"

	"github.com/Amr-9/b58finder/pkg/base58"
	"github.com/Amr-9/b58finder/pkg/checksum"
)

// Marker is a fixed byte at a fixed offset of the decoded payload.
type Marker struct {
	Offset int
	Value  byte
}

// Descriptor holds the structural rules of one encoding type.
type Descriptor struct {
	Type EncodingType
	Name string // human-readable, used in messages

	MinLength int // string length bounds, 0 = unbounded
	MaxLength int

	DecodedLen int      // decoded byte length including checksum, 0 = any
	Prefixes   [][]byte // allowed version prefixes, nil = any
	Marker     *Marker  // required marker byte, nil = none

	// FirstChars holds the possible first characters of a valid string.
	// It is derived from the prefixes at init; empty means any.
	FirstChars string
}

// Range is an inclusive interval of base-58 values.
type Range struct {
	Lo, Hi *big.Int
}

var table = map[EncodingType]*Descriptor{
	UncompressedPrivateKey: {
		Name:       "uncompressed private key",
		MinLength:  51,
		MaxLength:  51,
		DecodedLen: 37,
		Prefixes:   [][]byte{{0x80}},
	},
	CompressedPrivateKey: {
		Name:       "compressed private key",
		MinLength:  52,
		MaxLength:  52,
		DecodedLen: 38,
		Prefixes:   [][]byte{{0x80}},
		Marker:     &Marker{Offset: 33, Value: 0x01},
	},
	P2PKHAddress: {
		Name:       "P2PKH address",
		MinLength:  26,
		MaxLength:  34,
		DecodedLen: 25,
		Prefixes:   [][]byte{{0x00}},
	},
	P2SHAddress: {
		Name:       "P2SH address",
		MinLength:  34,
		MaxLength:  34,
		DecodedLen: 25,
		Prefixes:   [][]byte{{0x05}},
	},
	BIP38EncryptedKey: {
		Name:       "BIP-38 encrypted key",
		MinLength:  58,
		MaxLength:  58,
		DecodedLen: 43,
		Prefixes:   [][]byte{{0x01, 0x42}, {0x01, 0x43}},
	},
	ExtendedKey: {
		Name:       "extended key",
		MinLength:  111,
		MaxLength:  111,
		DecodedLen: 82,
		Prefixes: [][]byte{
			{0x04, 0x88, 0xad, 0xe4}, // xprv
			{0x04, 0x88, 0xb2, 0x1e}, // xpub
			{0x04, 0x9d, 0x78, 0x78}, // yprv
			{0x04, 0x9d, 0x7c, 0xb2}, // ypub
			{0x04, 0xb2, 0x43, 0x0c}, // zprv
			{0x04, 0xb2, 0x47, 0x46}, // zpub
			{0x04, 0x35, 0x83, 0x94}, // tprv
			{0x04, 0x35, 0x87, 0xcf}, // tpub
		},
	},
	GenericBase58Check: {
		Name:      "Base58Check string",
		MinLength: 6,
	},
}

func init() {
	for t, d := range table {
		d.Type = t
		d.FirstChars = deriveFirstChars(d)
	}
}

// Lookup returns the descriptor of t.
func Lookup(t EncodingType) (*Descriptor, error) {
	d, ok := table[t]
	if !ok {
		return nil, invalidInput("encoding type is not set")
	}
	return d, nil
}

// MustLookup is Lookup for types known to be valid.
func MustLookup(t EncodingType) *Descriptor {
	d, err := Lookup(t)
	if err != nil {
		panic(err)
	}
	return d
}

// LengthOK reports whether n is an acceptable string length.
func (d *Descriptor) LengthOK(n int) bool {
	if d.MinLength > 0 && n < d.MinLength {
		return false
	}
	if d.MaxLength > 0 && n > d.MaxLength {
		return false
	}
	return true
}

// Constrained reports whether the descriptor restricts the numeric value of
// the string (fixed decoded length and version prefixes).
func (d *Descriptor) Constrained() bool {
	return d.DecodedLen > 0
}

// FirstCharOK reports whether c may start a valid string of this type.
func (d *Descriptor) FirstCharOK(c byte) bool {
	if d.FirstChars == "" {
		return true
	}
	for i := 0; i < len(d.FirstChars); i++ {
		if d.FirstChars[i] == c {
			return true
		}
	}
	return false
}

// PrefixOK reports whether decoded starts with an allowed version prefix.
func (d *Descriptor) PrefixOK(decoded []byte) bool {
	if len(d.Prefixes) == 0 {
		return true
	}
	for _, p := range d.Prefixes {
		if len(decoded) >= len(p) && string(decoded[:len(p)]) == string(p) {
			return true
		}
	}
	return false
}

// MarkerOK reports whether decoded carries the required marker byte.
func (d *Descriptor) MarkerOK(decoded []byte) bool {
	if d.Marker == nil {
		return true
	}
	return len(decoded) > d.Marker.Offset && decoded[d.Marker.Offset] == d.Marker.Value
}

// ByteLengthOK reports whether the decoded length is acceptable.
func (d *Descriptor) ByteLengthOK(n int) bool {
	if d.DecodedLen > 0 {
		return n == d.DecodedLen
	}
	return n > checksum.Size
}

// ExpectedPrefixes renders the allowed version prefixes as hex strings.
func (d *Descriptor) ExpectedPrefixes() []string {
	out := make([]string, len(d.Prefixes))
	for i, p := range d.Prefixes {
		out[i] = fmt.Sprintf("%x", p)
	}
	return out
}

// ExpectedFirstChars renders FirstChars as a list of one-character strings.
func (d *Descriptor) ExpectedFirstChars() []string {
	out := make([]string, len(d.FirstChars))
	for i := range d.FirstChars {
		out[i] = d.FirstChars[i : i+1]
	}
	return out
}

// ValueRanges returns the intervals the base-58 value of a string must fall
// in when the string starts with exactly zeros '1' characters. It returns
// nil when no value can satisfy the descriptor with that many zeros.
// Unconstrained descriptors must not call it.
//
// A decoded payload is zeros zero bytes followed by the big-endian value with
// no leading zero byte, so the value has exactly DecodedLen-zeros bytes.
func (d *Descriptor) ValueRanges(zeros int) []Range {
	m := d.DecodedLen - zeros
	if m < 0 {
		return nil
	}
	if m == 0 {
		for _, p := range d.Prefixes {
			if allZero(p) && len(p) <= zeros {
				return []Range{{Lo: new(big.Int), Hi: new(big.Int)}}
			}
		}
		if len(d.Prefixes) == 0 {
			return []Range{{Lo: new(big.Int), Hi: new(big.Int)}}
		}
		return nil
	}

	if len(d.Prefixes) == 0 {
		return []Range{fullRange(m)}
	}

	var ranges []Range
	for _, p := range d.Prefixes {
		n := min(len(p), zeros)
		if !allZero(p[:n]) {
			continue
		}
		if len(p) <= zeros {
			// The prefix sits entirely in the leading zeros.
			ranges = append(ranges, fullRange(m))
			continue
		}
		q := p[zeros:]
		if q[0] == 0 || len(q) > m {
			continue
		}
		// value = q || anything, with the value exactly m bytes long
		shift := uint(8 * (m - len(q)))
		lo := new(big.Int).Lsh(new(big.Int).SetBytes(q), shift)
		hi := new(big.Int).Add(new(big.Int).SetBytes(q), big.NewInt(1))
		hi.Lsh(hi, shift)
		hi.Sub(hi, big.NewInt(1))
		ranges = append(ranges, Range{Lo: lo, Hi: hi})
	}
	return mergeRanges(ranges)
}

// fullRange covers every value that is exactly m bytes long.
func fullRange(m int) Range {
	lo := new(big.Int).Lsh(big.NewInt(1), uint(8*(m-1)))
	hi := new(big.Int).Lsh(big.NewInt(1), uint(8*m))
	hi.Sub(hi, big.NewInt(1))
	return Range{Lo: lo, Hi: hi}
}

func allZero(b []byte) bool {
	for _, c := range b {
		if c != 0 {
			return false
		}
	}
	return true
}

// mergeRanges sorts ranges and joins overlapping ones.
func mergeRanges(rs []Range) []Range {
	if len(rs) < 2 {
		return rs
	}
	sort.Slice(rs, func(i, j int) bool { return rs[i].Lo.Cmp(rs[j].Lo) < 0 })
	out := rs[:1]
	for _, r := range rs[1:] {
		last := &out[len(out)-1]
		next := new(big.Int).Add(last.Hi, big.NewInt(1))
		if r.Lo.Cmp(next) <= 0 {
			if r.Hi.Cmp(last.Hi) > 0 {
				last.Hi = r.Hi
			}
			continue
		}
		out = append(out, r)
	}
	return out
}

// deriveFirstChars computes which symbols can start a valid string by
// intersecting each value range with the values representable by a string
// of each allowed length.
func deriveFirstChars(d *Descriptor) string {
	if !d.Constrained() || d.MaxLength == 0 {
		return ""
	}

	radix := big.NewInt(base58.Radix)
	seen := make(map[byte]bool)
	for length := d.MinLength; length <= d.MaxLength; length++ {
		for zeros := 0; zeros < length; zeros++ {
			ranges := d.ValueRanges(zeros)
			if len(ranges) == 0 {
				continue
			}
			// Values whose string has exactly zeros leading '1's and the given
			// length: [58^(length-zeros-1), 58^(length-zeros) - 1].
			digits := length - zeros
			lo := new(big.Int).Exp(radix, big.NewInt(int64(digits-1)), nil)
			hi := new(big.Int).Exp(radix, big.NewInt(int64(digits)), nil)
			hi.Sub(hi, big.NewInt(1))

			for _, r := range ranges {
				a := maxBig(lo, r.Lo)
				b := minBig(hi, r.Hi)
				if a.Cmp(b) > 0 {
					continue
				}
				if zeros > 0 {
					seen[base58.ZeroSymbol] = true
					continue
				}
				unit := new(big.Int).Exp(radix, big.NewInt(int64(digits-1)), nil)
				first := new(big.Int).Quo(a, unit).Int64()
				last := new(big.Int).Quo(b, unit).Int64()
				for v := first; v <= last; v++ {
					seen[base58.Symbol(int(v))] = true
				}
			}
		}
	}

	out := make([]byte, 0, len(seen))
	for i := 0; i < len(base58.Alphabet); i++ {
		if seen[base58.Alphabet[i]] {
			out = append(out, base58.Alphabet[i])
		}
	}
	return string(out)
}

func maxBig(a, b *big.Int) *big.Int {
	if a.Cmp(b) >= 0 {
		return a
	}
	return b
}

func minBig(a, b *big.Int) *big.Int {
	if a.Cmp(b) <= 0 {
		return a
	}
	return b
}

// describe returns the human name of t.
func describe(t EncodingType) string {
	if d, ok := table[t]; ok {
		return d.Name
	}
	return "unset type"
}
