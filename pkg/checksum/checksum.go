// Package checksum implements the Base58Check checksum: the first four bytes
// of SHA-256(SHA-256(payload)).
package checksum

import (
	"bytes"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
)

// Size is the checksum width in bytes.
const Size = 4

// Sum4 returns the 4-byte checksum of payload.
func Sum4(payload []byte) [Size]byte {
	h := chainhash.DoubleHashH(payload)
	var sum [Size]byte
	copy(sum[:], h[:Size])
	return sum
}

// Verify reports whether the trailing four bytes of decoded are the checksum
// of the bytes before them.
func Verify(decoded []byte) bool {
	if len(decoded) <= Size {
		return false
	}
	body := decoded[:len(decoded)-Size]
	sum := Sum4(body)
	return bytes.Equal(sum[:], decoded[len(decoded)-Size:])
}

// Append returns payload followed by its checksum.
func Append(payload []byte) []byte {
	sum := Sum4(payload)
	out := make([]byte, 0, len(payload)+Size)
	out = append(out, payload...)
	return append(out, sum[:]...)
}
