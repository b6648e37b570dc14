package base58

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/mr-tron/base58"
)

// ErrInvalidCharacter is matched by every *InvalidCharacterError.
var ErrInvalidCharacter = errors.New("invalid base-58 character")

// InvalidCharacterError reports a character outside the alphabet.
type InvalidCharacterError struct {
	Position int  // zero-based character index
	Char     rune // offending character
}

func (e *InvalidCharacterError) Error() string {
	return fmt.Sprintf("invalid base-58 character %q at position %d", e.Char, e.Position)
}

// Is makes errors.Is(err, ErrInvalidCharacter) work.
func (e *InvalidCharacterError) Is(target error) bool {
	return target == ErrInvalidCharacter
}

// Check returns an *InvalidCharacterError for the first character of s that
// is not a base-58 symbol.
func Check(s string) error {
	pos := 0
	for _, c := range s {
		if !IsSymbol(c) {
			return &InvalidCharacterError{Position: pos, Char: c}
		}
		pos++
	}
	return nil
}

// Decode converts a base-58 string to bytes. Leading '1' symbols map to
// leading zero bytes.
func Decode(s string) ([]byte, error) {
	if err := Check(s); err != nil {
		return nil, err
	}
	if s == "" {
		return []byte{}, nil
	}
	b, err := base58.Decode(s)
	if err != nil {
		return nil, fmt.Errorf("decoding base-58: %w", err)
	}
	return b, nil
}

// Encode converts bytes to a base-58 string. It is the inverse of Decode.
func Encode(b []byte) string {
	if len(b) == 0 {
		return ""
	}
	return base58.Encode(b)
}

// DecodeBig returns the numeric value of s (most significant symbol first)
// and the number of leading zero symbols.
func DecodeBig(s string) (*big.Int, int, error) {
	if err := Check(s); err != nil {
		return nil, 0, err
	}

	zeros := 0
	for zeros < len(s) && s[zeros] == ZeroSymbol {
		zeros++
	}

	radix := big.NewInt(Radix)
	n := new(big.Int)
	for i := 0; i < len(s); i++ {
		n.Mul(n, radix)
		n.Add(n, big.NewInt(int64(values[s[i]])))
	}
	return n, zeros, nil
}
