// Package base58 provides the Bitcoin base-58 alphabet and codec used by the
// recovery engine. Decoding and encoding go through mr-tron/base58; this
// package adds position-aware validation and constant-time symbol lookup.
package base58

import "strings"

// Alphabet is the Bitcoin base-58 charset (excludes 0, O, I, l).
// The index of each symbol is its numeric value.
const Alphabet = "123456789ABCDEFGHJKLMNPQRSTUVWXYZabcdefghijkmnopqrstuvwxyz"

// Radix is the number of symbols in the alphabet.
const Radix = 58

// Placeholders lists the symbols accepted as a stand-in for an unknown
// character. None of them is part of Alphabet.
const Placeholders = "*-$_!@#%^&+=?"

// ZeroSymbol encodes a leading zero byte.
const ZeroSymbol = '1'

// values maps an ASCII byte to its alphabet value, or -1.
var values = func() [128]int8 {
	var t [128]int8
	for i := range t {
		t[i] = -1
	}
	for i := 0; i < len(Alphabet); i++ {
		t[Alphabet[i]] = int8(i)
	}
	return t
}()

// Value returns the numeric value of a base-58 symbol.
func Value(r rune) (int, bool) {
	if r < 0 || r >= 128 {
		return 0, false
	}
	v := values[r]
	if v < 0 {
		return 0, false
	}
	return int(v), true
}

// Symbol returns the symbol for a value in [0, 58).
func Symbol(v int) byte {
	return Alphabet[v]
}

// IsSymbol reports whether r belongs to the base-58 alphabet.
func IsSymbol(r rune) bool {
	_, ok := Value(r)
	return ok
}

// IsPlaceholder reports whether r can be used to mark a missing character.
func IsPlaceholder(r rune) bool {
	return r < 128 && strings.ContainsRune(Placeholders, r)
}

// InvalidChars returns any characters of s outside the alphabet, ignoring
// the given placeholder. Useful for helpful error messages.
func InvalidChars(s string, placeholder rune) []rune {
	var invalid []rune
	for _, c := range s {
		if c == placeholder {
			continue
		}
		if !IsSymbol(c) {
			invalid = append(invalid, c)
		}
	}
	return invalid
}
