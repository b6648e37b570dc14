package format

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Amr-9/b58finder/pkg/base58"
	"github.com/Amr-9/b58finder/pkg/checksum"
)

// PlaceholderIsValid reports whether r may mark a missing character.
func PlaceholderIsValid(r rune) bool {
	return base58.IsPlaceholder(r)
}

// Validate runs the full pipeline on a complete string: length, first
// character, alphabet, decoded length, version prefix, marker byte and
// checksum, cheapest first.
func Validate(s string, t EncodingType) error {
	d, err := Lookup(t)
	if err != nil {
		return err
	}
	if s == "" {
		return invalidInput("input is empty")
	}
	if !d.LengthOK(len(s)) {
		return &LengthError{Type: t, Got: len(s), Min: d.MinLength, Max: d.MaxLength}
	}
	if !d.FirstCharOK(s[0]) {
		return &InvalidPrefixError{Type: t, Expected: d.ExpectedFirstChars()}
	}

	decoded, err := base58.Decode(s)
	if err != nil {
		return err
	}
	return ValidateDecoded(decoded, d)
}

// ValidateDecoded applies the byte-level checks to a decoded payload.
func ValidateDecoded(decoded []byte, d *Descriptor) error {
	if !d.ByteLengthOK(len(decoded)) {
		return fmt.Errorf("%w: got %d bytes for %s", ErrInvalidByteLength, len(decoded), d.Name)
	}
	if !d.PrefixOK(decoded) {
		return &InvalidPrefixError{Type: d.Type, Expected: d.ExpectedPrefixes()}
	}
	if !d.MarkerOK(decoded) {
		return fmt.Errorf("%w: byte %d must be %#02x", ErrInvalidCompressionMarker, d.Marker.Offset, d.Marker.Value)
	}
	if !checksum.Verify(decoded) {
		return ErrInvalidChecksum
	}
	return nil
}

// CheckIncomplete runs the checks that do not need the missing characters:
// input presence, placeholder choice, alphabet, length and, when the first
// character is known, the first-character set.
func CheckIncomplete(s string, placeholder rune, t EncodingType) error {
	if t == Unset {
		return invalidInput("encoding type is not set")
	}
	d, err := Lookup(t)
	if err != nil {
		return err
	}
	if strings.TrimSpace(s) == "" {
		return invalidInput("input is empty")
	}
	if !PlaceholderIsValid(placeholder) {
		return invalidInput("placeholder %q is not one of %s", placeholder, base58.Placeholders)
	}

	pos := 0
	for _, c := range s {
		if c != placeholder && !base58.IsSymbol(c) {
			return &base58.InvalidCharacterError{Position: pos, Char: c}
		}
		pos++
	}

	if !d.LengthOK(len(s)) {
		return &LengthError{Type: t, Got: len(s), Min: d.MinLength, Max: d.MaxLength}
	}
	if rune(s[0]) != placeholder && !d.FirstCharOK(s[0]) {
		return &InvalidPrefixError{Type: t, Expected: d.ExpectedFirstChars()}
	}
	return nil
}

// CountMissing returns the number of placeholder characters in s.
func CountMissing(s string, placeholder rune) int {
	return strings.Count(s, string(placeholder))
}

// DescribeProblem returns a human-readable explanation of why s cannot be a
// string of type t, or "" when nothing is wrong yet. Any placeholder symbol
// counts as an unknown character.
func DescribeProblem(s string, t EncodingType) string {
	if t == Unset {
		return "Choose an encoding type."
	}
	if strings.TrimSpace(s) == "" {
		return "Input can not be empty."
	}

	placeholder, mixed := detectPlaceholder(s)
	if mixed {
		return "Input uses more than one placeholder symbol."
	}

	var err error
	if placeholder != 0 {
		err = CheckIncomplete(s, placeholder, t)
	} else {
		err = Validate(s, t)
	}
	if err == nil {
		return ""
	}
	return message(err, t)
}

// detectPlaceholder returns the placeholder symbol used in s, if any.
func detectPlaceholder(s string) (rune, bool) {
	var found rune
	for _, c := range s {
		if !base58.IsPlaceholder(c) {
			continue
		}
		if found != 0 && c != found {
			return found, true
		}
		found = c
	}
	return found, false
}

func message(err error, t EncodingType) string {
	name := describe(t)

	var ice *base58.InvalidCharacterError
	var ipe *InvalidPrefixError
	var le *LengthError
	switch {
	case errors.As(err, &ice):
		return fmt.Sprintf("The given %s contains an invalid base-58 character %q at position %d.", name, ice.Char, ice.Position)
	case errors.As(err, &le):
		return fmt.Sprintf("The given %s has an invalid length (%d).", name, le.Got)
	case errors.As(err, &ipe):
		return fmt.Sprintf("The given %s has invalid starting characters (expected one of %s).", name, strings.Join(ipe.Expected, ", "))
	case errors.Is(err, ErrInvalidByteLength):
		return fmt.Sprintf("The given %s has an invalid byte length.", name)
	case errors.Is(err, ErrInvalidCompressionMarker):
		return fmt.Sprintf("The given %s has an invalid compression flag.", name)
	case errors.Is(err, ErrInvalidChecksum):
		return fmt.Sprintf("The given %s has an invalid checksum.", name)
	default:
		return err.Error()
	}
}
