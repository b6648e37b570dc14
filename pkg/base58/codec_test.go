package base58

import (
	"bytes"
	"errors"
	"math/rand"
	"testing"
)

func TestAlphabetOrder(t *testing.T) {
	if len(Alphabet) != Radix {
		t.Fatalf("alphabet has %d symbols, want %d", len(Alphabet), Radix)
	}
	for i := 0; i < len(Alphabet); i++ {
		v, ok := Value(rune(Alphabet[i]))
		if !ok || v != i {
			t.Errorf("Value(%q) = %d, %v; want %d, true", Alphabet[i], v, ok, i)
		}
	}
	for _, c := range "0OIl" {
		if IsSymbol(c) {
			t.Errorf("%q must not be a base-58 symbol", c)
		}
	}
}

func TestPlaceholdersAreDisjoint(t *testing.T) {
	for _, c := range Placeholders {
		if IsSymbol(c) {
			t.Errorf("placeholder %q is also an alphabet symbol", c)
		}
		if !IsPlaceholder(c) {
			t.Errorf("IsPlaceholder(%q) = false", c)
		}
	}
	for _, c := range []rune{' ', 'a', 'B', '`', '(', 'é'} {
		if IsPlaceholder(c) {
			t.Errorf("IsPlaceholder(%q) = true", c)
		}
	}
}

func TestRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(58))
	for n := 0; n <= 128; n++ {
		b := make([]byte, n)
		rng.Read(b)
		// Exercise the leading-zero convention too.
		if n > 3 && n%4 == 0 {
			b[0], b[1] = 0, 0
		}
		got, err := Decode(Encode(b))
		if err != nil {
			t.Fatalf("len %d: Decode returned %v", n, err)
		}
		if !bytes.Equal(got, b) {
			t.Fatalf("len %d: round trip mismatch\n  got:  %x\n  want: %x", n, got, b)
		}
	}
}

func TestLeadingZeros(t *testing.T) {
	got := Encode([]byte{0, 0, 0, 1})
	if got != "1112" {
		t.Errorf("Encode = %q, want %q", got, "1112")
	}
	b, err := Decode("111")
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(b, []byte{0, 0, 0}) {
		t.Errorf("Decode(111) = %x", b)
	}
}

func TestDecodeInvalidCharacter(t *testing.T) {
	_, err := Decode("1BvBMSEYstWetqTFn5Au4m4$Fg7xJaNVN2")
	var ice *InvalidCharacterError
	if !errors.As(err, &ice) {
		t.Fatalf("expected *InvalidCharacterError, got %v", err)
	}
	if ice.Position != 23 || ice.Char != '$' {
		t.Errorf("got position %d char %q", ice.Position, ice.Char)
	}
	if !errors.Is(err, ErrInvalidCharacter) {
		t.Error("errors.Is(err, ErrInvalidCharacter) = false")
	}
}

func TestDecodeBig(t *testing.T) {
	n, zeros, err := DecodeBig("112z")
	if err != nil {
		t.Fatal(err)
	}
	if zeros != 2 {
		t.Errorf("zeros = %d, want 2", zeros)
	}
	if n.Int64() != 1*58+57 {
		t.Errorf("value = %s, want %d", n, 1*58+57)
	}
}

func TestInvalidChars(t *testing.T) {
	got := string(InvalidChars("5Hue*0Ol", '*'))
	if got != "0Ol" {
		t.Errorf("InvalidChars = %q, want %q", got, "0Ol")
	}
}
