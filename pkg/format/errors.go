package format

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Amr-9/b58finder/pkg/base58"
)

var (
	// ErrInvalidCharacter is re-exported from the codec so callers only need
	// this package for the whole taxonomy.
	ErrInvalidCharacter = base58.ErrInvalidCharacter

	ErrInvalidLength            = errors.New("invalid length")
	ErrInvalidPrefix            = errors.New("invalid prefix")
	ErrInvalidCompressionMarker = errors.New("invalid compression marker")
	ErrInvalidByteLength        = errors.New("invalid decoded byte length")
	ErrInvalidChecksum          = errors.New("invalid checksum")
	ErrInvalidInput             = errors.New("invalid input")
)

// InvalidPrefixError reports a first character or version prefix outside the
// set allowed for the encoding type.
type InvalidPrefixError struct {
	Type     EncodingType
	Expected []string
}

func (e *InvalidPrefixError) Error() string {
	return fmt.Sprintf("invalid prefix for %s: expected one of [%s]",
		describe(e.Type), strings.Join(e.Expected, " "))
}

// Is makes errors.Is(err, ErrInvalidPrefix) work.
func (e *InvalidPrefixError) Is(target error) bool {
	return target == ErrInvalidPrefix
}

// LengthError carries the offending length. It matches ErrInvalidLength.
type LengthError struct {
	Type     EncodingType
	Got      int
	Min, Max int
}

func (e *LengthError) Error() string {
	if e.Min == e.Max {
		return fmt.Sprintf("invalid length %d for %s (want %d)", e.Got, describe(e.Type), e.Min)
	}
	return fmt.Sprintf("invalid length %d for %s (want %d to %d)", e.Got, describe(e.Type), e.Min, e.Max)
}

// Is makes errors.Is(err, ErrInvalidLength) work.
func (e *LengthError) Is(target error) bool {
	return target == ErrInvalidLength
}

// invalidInput wraps ErrInvalidInput with a reason.
func invalidInput(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}
