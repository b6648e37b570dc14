package format

import (
	"errors"
	"math/rand"
	"strings"
	"testing"

	"github.com/Amr-9/b58finder/pkg/base58"
	"github.com/Amr-9/b58finder/pkg/checksum"
)

const (
	validUncompKey = "5HueCGU8rMjxEXxiPuD5BDku4MkFqeZyd4dZ1jvhTVqvbTLvyTJ"
	validCompKey1  = "KwdMAjGmerYanjeui5SHS7JkmpZvVipYvB2LJGU1ZxJwYvP98617"
	validCompKey2  = "L53fCHmQhbNp1B4JipfBtfeHZH7cAibzG9oK19XfiFzxHgAkz6JK"
	validP2PKH     = "1BvBMSEYstWetqTFn5Au4m4GFg7xJaNVN2"
	validP2SH      = "3J98t1WpEZ73CNmQviecrnyiWrnqRhWNLy"
	validBIP38     = "6PRWdmoT1ZursVcr5NiD14p5bHrKVGPG7yeEoEeRb8FVaqYSHnZTLEbYsU"
	validBIP38EC   = "6PnZki3vKspApf2zym6Anp2jd5hiZbuaZArPfa2ePcgVf196PLGrQNyVUh"
)

func TestDerivedFirstChars(t *testing.T) {
	tests := []struct {
		typ  EncodingType
		want string
	}{
		{UncompressedPrivateKey, "5"},
		{CompressedPrivateKey, "KL"},
		{P2PKHAddress, "1"},
		{P2SHAddress, "3"},
		{BIP38EncryptedKey, "6"},
		{ExtendedKey, "txyz"},
		{GenericBase58Check, ""},
	}
	for _, tt := range tests {
		got := MustLookup(tt.typ).FirstChars
		if got != tt.want {
			t.Errorf("%s: FirstChars = %q, want %q", tt.typ, got, tt.want)
		}
	}
}

func TestValidateAcceptsKnownStrings(t *testing.T) {
	tests := []struct {
		s   string
		typ EncodingType
	}{
		{validUncompKey, UncompressedPrivateKey},
		{validCompKey1, CompressedPrivateKey},
		{validCompKey2, CompressedPrivateKey},
		{validP2PKH, P2PKHAddress},
		{validP2SH, P2SHAddress},
		{validBIP38, BIP38EncryptedKey},
		{validBIP38EC, BIP38EncryptedKey},
		{validP2PKH, GenericBase58Check},
		{validUncompKey, GenericBase58Check},
		{makeExtendedKey(t, 1), ExtendedKey},
	}
	for _, tt := range tests {
		if err := Validate(tt.s, tt.typ); err != nil {
			t.Errorf("Validate(%s, %s) = %v", tt.s, tt.typ, err)
		}
	}
}

func TestValidateRejects(t *testing.T) {
	tests := []struct {
		name string
		s    string
		typ  EncodingType
		want error
	}{
		{"bad checksum", "1BvBMSEYstWetqTFn5Au4m4GFg7xJaNVN3", P2PKHAddress, ErrInvalidChecksum},
		{"bad char", "1BvBMSEYstWetqTFn5Au4m4$Fg7xJaNVN2", P2PKHAddress, ErrInvalidCharacter},
		{"short address", "12eESoee9vDq6tQtZ6RQfdf3SsHWBQYpd", P2PKHAddress, ErrInvalidByteLength},
		{"p2sh as p2pkh", "34q4KRuJeVGJ79f8jRkexoEnFKP1fRjqp", P2PKHAddress, ErrInvalidPrefix},
		{"bip38 checksum", "6PRWdmoT1ZursVcr5NiD14p5bHrKVGPG7yeEoEeRb8FVaqYSHnZTLEbYs1", BIP38EncryptedKey, ErrInvalidChecksum},
		{"bip38 prefix", "AfEEGJ8HqcGUofEyL7Cr6R73LJbus3tuKFMHEiBmT6X1H8npuj94cMrcai", BIP38EncryptedKey, ErrInvalidPrefix},
		{"key too short", "5HueCGU8rMjxEXxiPuD5BDku4MkFqeZyd4dZ1jvhTVqvbTLvyT", UncompressedPrivateKey, ErrInvalidLength},
		{"compressed as uncompressed", validCompKey1, UncompressedPrivateKey, ErrInvalidLength},
		{"empty", "", P2PKHAddress, ErrInvalidInput},
		{"unset type", validP2PKH, Unset, ErrInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.s, tt.typ)
			if !errors.Is(err, tt.want) {
				t.Errorf("Validate = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestValidateCompressionMarker(t *testing.T) {
	// Same layout as a compressed key but with 0x02 instead of the 0x01 flag.
	payload := make([]byte, 34)
	payload[0] = 0x80
	payload[1] = 0x11
	payload[33] = 0x02
	s := base58.Encode(checksum.Append(payload))

	err := Validate(s, CompressedPrivateKey)
	if !errors.Is(err, ErrInvalidCompressionMarker) {
		t.Errorf("Validate = %v, want ErrInvalidCompressionMarker", err)
	}
}

func TestCheckIncomplete(t *testing.T) {
	ok := []struct {
		s   string
		ph  rune
		typ EncodingType
	}{
		{validUncompKey, '*', UncompressedPrivateKey},
		{"5HueCGU8r*jxEXxi*uD5*Dku4MkFqeZyd4dZ1jvhTVqvbTL*yTJ", '*', UncompressedPrivateKey},
		{"5HueCG--------------------kFqeZyd4dZ1jvhTVqvbTLvyTJ", '-', UncompressedPrivateKey},
		{"KwdMAjGmerYanjeui5SHS7J*mpZvVipYvB2LJGU1ZxJwYvP98617", '*', CompressedPrivateKey},
		{"L53fCHmQ$$Np1B4JipfBt$eHZH$cAibz$9oK1$XfiFzxHgAkz6$$", '$', CompressedPrivateKey},
		{"*BvBMSEYstWetqTFn5Au4m4GFg7xJaNVN2", '*', P2PKHAddress},
	}
	for _, tt := range ok {
		if err := CheckIncomplete(tt.s, tt.ph, tt.typ); err != nil {
			t.Errorf("CheckIncomplete(%s) = %v", tt.s, err)
		}
	}

	bad := []struct {
		s    string
		ph   rune
		typ  EncodingType
		want error
	}{
		{validUncompKey, '`', UncompressedPrivateKey, ErrInvalidInput},
		{" ", '*', UncompressedPrivateKey, ErrInvalidInput},
		{validUncompKey, '*', Unset, ErrInvalidInput},
		{"5HueCGU8rMjxEXxiPuD5BDk$4MkFqeZyd4dZ1jvhTVqvbTLvyTJ", '*', UncompressedPrivateKey, ErrInvalidCharacter},
		{"5HueCGU8rMjxEXx*PuD5BDk$4MkFqeZyd4dZ1jvhTVqvbTLvyTJ", '*', UncompressedPrivateKey, ErrInvalidCharacter},
		{"5HueCGU8*MjxEXxiPuD5BDku4MkFqeZyd4dZ1jvhTVqvbTLvy", '*', UncompressedPrivateKey, ErrInvalidLength},
		{"L53f*HHmQhbNp1B4JipfBtfeHZH7cAibzG9oK19XfiFzxHgAkz6JK1", '*', CompressedPrivateKey, ErrInvalidLength},
		{"6HueCGU8rMjxEXxiPuD5BDk*4MkFqeZyd4dZ1jvhTVqvbTLvyTJ", '*', UncompressedPrivateKey, ErrInvalidPrefix},
		{"LHueCGU8rMjxEXxiPu*5BDku4MkFqeZyd4dZ1jvhTVqvbTLvyTJ", '*', UncompressedPrivateKey, ErrInvalidPrefix},
		{"XwdMAjGmerYanjeui5SHS*JkmpZvVipYvB2LJGU1ZxJwYvP98617", '*', CompressedPrivateKey, ErrInvalidPrefix},
		{"5wdMAjGmerYanjeui5SH*7JkmpZvVipYvB2LJGU1ZxJwYvP98617", '*', CompressedPrivateKey, ErrInvalidPrefix},
	}
	for _, tt := range bad {
		err := CheckIncomplete(tt.s, tt.ph, tt.typ)
		if !errors.Is(err, tt.want) {
			t.Errorf("CheckIncomplete(%q, %q, %s) = %v, want %v", tt.s, tt.ph, tt.typ, err, tt.want)
		}
	}
}

func TestInvalidCharacterPosition(t *testing.T) {
	err := CheckIncomplete("5HueCGU8rMjxEXxiPuD5BDk$4MkFqeZyd4dZ1jvhTVqvbTLvyTJ", '*', UncompressedPrivateKey)
	var ice *base58.InvalidCharacterError
	if !errors.As(err, &ice) || ice.Position != 23 {
		t.Fatalf("got %v, want invalid character at 23", err)
	}
}

func TestPlaceholderIsValid(t *testing.T) {
	tests := []struct {
		c    rune
		want bool
	}{
		{'*', true}, {'-', true}, {'$', true}, {'_', true},
		{' ', false}, {'a', false}, {'B', false}, {'`', false}, {'(', false},
	}
	for _, tt := range tests {
		if got := PlaceholderIsValid(tt.c); got != tt.want {
			t.Errorf("PlaceholderIsValid(%q) = %v, want %v", tt.c, got, tt.want)
		}
	}
}

func TestDescribeProblem(t *testing.T) {
	tests := []struct {
		s    string
		typ  EncodingType
		want string
	}{
		{validP2PKH, P2PKHAddress, ""},
		{"1BvBMSEYstWetqTFn5Au4m4*Fg7xJaNVN2", P2PKHAddress, ""},
		{"", P2PKHAddress, "empty"},
		{validP2PKH, Unset, "encoding type"},
		{"1BvBMSEYstWetqTFn5Au4m4GFg7xJaNVN3", P2PKHAddress, "invalid checksum"},
		{"1BvBMSEYstWetqTFn5Au4m4GFg7xJaNVN0", P2PKHAddress, "invalid base-58 character"},
		{"6HueCGU8rMjxEXxiPuD5BDk*4MkFqeZyd4dZ1jvhTVqvbTLvyTJ", UncompressedPrivateKey, "invalid starting characters"},
		{"5HueCGU8*MjxEXxiPuD5BDku4MkFqeZyd4dZ1jvhTVqvbTLvy", UncompressedPrivateKey, "invalid length"},
		{"5HueCGU8*MjxEXxiPuD5BDku4MkFqeZyd4dZ1jvhTVqvbTL-yTJ", UncompressedPrivateKey, "more than one placeholder"},
	}
	for _, tt := range tests {
		got := DescribeProblem(tt.s, tt.typ)
		if tt.want == "" {
			if got != "" {
				t.Errorf("DescribeProblem(%q) = %q, want no problem", tt.s, got)
			}
			continue
		}
		if !strings.Contains(got, tt.want) {
			t.Errorf("DescribeProblem(%q) = %q, want it to contain %q", tt.s, got, tt.want)
		}
	}
}

func TestParseEncodingType(t *testing.T) {
	for _, typ := range Types {
		got, err := ParseEncodingType(strings.ToUpper(typ.String()))
		if err != nil || got != typ {
			t.Errorf("ParseEncodingType(%s) = %v, %v", typ, got, err)
		}
	}
	if got, _ := ParseEncodingType("p2sh"); got != P2SHAddress {
		t.Errorf("alias p2sh parsed as %s", got)
	}
	if _, err := ParseEncodingType("ethereum"); err == nil {
		t.Error("expected an error for an unknown type")
	}
}

func TestValueRangesContainValidStrings(t *testing.T) {
	for _, s := range []struct {
		s   string
		typ EncodingType
	}{
		{validUncompKey, UncompressedPrivateKey},
		{validCompKey2, CompressedPrivateKey},
		{validP2PKH, P2PKHAddress},
		{validP2SH, P2SHAddress},
		{validBIP38, BIP38EncryptedKey},
	} {
		n, zeros, err := base58.DecodeBig(s.s)
		if err != nil {
			t.Fatal(err)
		}
		inside := false
		for _, r := range MustLookup(s.typ).ValueRanges(zeros) {
			if n.Cmp(r.Lo) >= 0 && n.Cmp(r.Hi) <= 0 {
				inside = true
			}
		}
		if !inside {
			t.Errorf("%s: value of %s is outside every range", s.typ, s.s)
		}
	}
}

// makeExtendedKey builds a structurally valid xprv from random bytes.
func makeExtendedKey(t *testing.T, seed int64) string {
	t.Helper()
	payload := make([]byte, 78)
	copy(payload, []byte{0x04, 0x88, 0xad, 0xe4})
	rand.New(rand.NewSource(seed)).Read(payload[4:])
	s := base58.Encode(checksum.Append(payload))
	if !strings.HasPrefix(s, "xprv") {
		t.Fatalf("built extended key %s does not start with xprv", s)
	}
	return s
}
