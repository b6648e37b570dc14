// Package format holds the per-encoding rules for checksum-protected base-58
// strings: valid lengths, version prefixes, marker bytes, and the validators
// that enforce them.
package format

import (
	"fmt"
	"strings"
)

// EncodingType names the kind of base-58 string being recovered.
type EncodingType int

const (
	Unset                  EncodingType = iota // No type selected
	UncompressedPrivateKey                     // WIF, 0x80 prefix, starts with 5
	CompressedPrivateKey                       // WIF, 0x80 prefix + 0x01 flag, starts with K/L
	P2PKHAddress                               // Legacy address, 0x00 prefix, starts with 1
	P2SHAddress                                // Script address, 0x05 prefix, starts with 3
	BIP38EncryptedKey                          // Passphrase-protected key, starts with 6P
	ExtendedKey                                // BIP-32 xprv/xpub and friends
	GenericBase58Check                         // Any Base58Check string, checksum only
)

// Types lists every selectable encoding type in menu order.
var Types = []EncodingType{
	UncompressedPrivateKey,
	CompressedPrivateKey,
	P2PKHAddress,
	P2SHAddress,
	BIP38EncryptedKey,
	ExtendedKey,
	GenericBase58Check,
}

// String returns the type name.
func (t EncodingType) String() string {
	switch t {
	case UncompressedPrivateKey:
		return "UncompressedPrivateKey"
	case CompressedPrivateKey:
		return "CompressedPrivateKey"
	case P2PKHAddress:
		return "P2PKHAddress"
	case P2SHAddress:
		return "P2SHAddress"
	case BIP38EncryptedKey:
		return "BIP38EncryptedKey"
	case ExtendedKey:
		return "ExtendedKey"
	case GenericBase58Check:
		return "GenericBase58Check"
	default:
		return "Unset"
	}
}

// IsPrivateKey reports whether t is a WIF private key.
func (t EncodingType) IsPrivateKey() bool {
	return t == UncompressedPrivateKey || t == CompressedPrivateKey
}

// aliases accepted by ParseEncodingType, besides the String() names.
var aliases = map[string]EncodingType{
	"wif":          UncompressedPrivateKey,
	"uncompressed": UncompressedPrivateKey,
	"compressed":   CompressedPrivateKey,
	"p2pkh":        P2PKHAddress,
	"legacy":       P2PKHAddress,
	"address":      P2PKHAddress,
	"p2sh":         P2SHAddress,
	"bip38":        BIP38EncryptedKey,
	"xprv":         ExtendedKey,
	"xpub":         ExtendedKey,
	"extended":     ExtendedKey,
	"base58check":  GenericBase58Check,
	"generic":      GenericBase58Check,
}

// ParseEncodingType parses a type name or one of its short aliases
// (case-insensitive).
func ParseEncodingType(s string) (EncodingType, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	for _, t := range Types {
		if strings.ToLower(t.String()) == key {
			return t, nil
		}
	}
	if t, ok := aliases[key]; ok {
		return t, nil
	}
	return Unset, fmt.Errorf("unknown encoding type %q", s)
}
