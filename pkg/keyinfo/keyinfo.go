// Package keyinfo describes recovered strings: the private key behind a WIF
// and the addresses it controls, the hash behind an address, the node data
// of an extended key and the flags of a BIP-38 key.
package keyinfo

import (
	"encoding/hex"
	"fmt"
	"strconv"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/btcutil/hdkeychain"
	"github.com/btcsuite/btcd/chaincfg"

	"github.com/Amr-9/b58finder/pkg/base58"
	"github.com/Amr-9/b58finder/pkg/checksum"
	"github.com/Amr-9/b58finder/pkg/format"
)

// Field is one labelled property of a decoded string.
type Field struct {
	Name  string
	Value string
}

// Info is what Inspect learned about a string.
type Info struct {
	Type      format.EncodingType
	Fields    []Field
	Addresses []Address
}

// Get returns the value of the named field, or "".
func (i *Info) Get(name string) string {
	for _, f := range i.Fields {
		if f.Name == name {
			return f.Value
		}
	}
	return ""
}

func (i *Info) add(name, value string) {
	i.Fields = append(i.Fields, Field{Name: name, Value: value})
}

// Field names.
const (
	FieldPrivateKey  = "Private key"
	FieldCompressed  = "Compressed"
	FieldScript      = "Script"
	FieldHash160     = "Hash160"
	FieldVersion     = "Version"
	FieldPrivate     = "Private"
	FieldDepth       = "Depth"
	FieldChildIndex  = "Child index"
	FieldFingerprint = "Parent fingerprint"
	FieldECMultiply  = "EC multiply"
	FieldAddressHash = "Address hash"
	FieldPayload     = "Payload"
)

var extendedVersions = map[string]string{
	"0488ade4": "xprv", "0488b21e": "xpub",
	"049d7878": "yprv", "049d7cb2": "ypub",
	"04b2430c": "zprv", "04b24746": "zpub",
	"04358394": "tprv", "043587cf": "tpub",
}

// Inspect validates s as type t and describes it.
func Inspect(s string, t format.EncodingType) (*Info, error) {
	if err := format.Validate(s, t); err != nil {
		return nil, err
	}
	info := &Info{Type: t}
	var err error
	switch t {
	case format.UncompressedPrivateKey, format.CompressedPrivateKey:
		err = inspectWIF(info, s)
	case format.P2PKHAddress, format.P2SHAddress:
		err = inspectAddress(info, s)
	case format.ExtendedKey:
		err = inspectExtended(info, s)
	case format.BIP38EncryptedKey:
		err = inspectBIP38(info, s)
	default:
		err = inspectGeneric(info, s)
	}
	if err != nil {
		return nil, fmt.Errorf("inspecting %s: %w", t, err)
	}
	return info, nil
}

func inspectWIF(info *Info, s string) error {
	wif, err := btcutil.DecodeWIF(s)
	if err != nil {
		return err
	}
	info.add(FieldPrivateKey, hex.EncodeToString(wif.PrivKey.Serialize()))
	info.add(FieldCompressed, strconv.FormatBool(wif.CompressPubKey))

	info.Addresses, err = deriveAddresses(wif.PrivKey.PubKey(), wif.CompressPubKey)
	return err
}

func inspectAddress(info *Info, s string) error {
	addr, err := btcutil.DecodeAddress(s, &chaincfg.MainNetParams)
	if err != nil {
		return err
	}
	switch a := addr.(type) {
	case *btcutil.AddressPubKeyHash:
		info.add(FieldScript, "pay-to-pubkey-hash")
		info.add(FieldHash160, hex.EncodeToString(a.Hash160()[:]))
	case *btcutil.AddressScriptHash:
		info.add(FieldScript, "pay-to-script-hash")
		info.add(FieldHash160, hex.EncodeToString(a.Hash160()[:]))
	default:
		return fmt.Errorf("unexpected address type %T", addr)
	}
	return nil
}

func inspectExtended(info *Info, s string) error {
	key, err := hdkeychain.NewKeyFromString(s)
	if err != nil {
		return err
	}
	version := hex.EncodeToString(key.Version())
	if name, ok := extendedVersions[version]; ok {
		version = name
	}
	info.add(FieldVersion, version)
	info.add(FieldPrivate, strconv.FormatBool(key.IsPrivate()))
	info.add(FieldDepth, strconv.Itoa(int(key.Depth())))
	info.add(FieldChildIndex, childIndex(key.ChildIndex()))
	info.add(FieldFingerprint, fmt.Sprintf("%08x", key.ParentFingerprint()))

	pub, err := key.ECPubKey()
	if err != nil {
		return err
	}
	p2pkh, err := btcutil.NewAddressPubKeyHash(hash160(pub.SerializeCompressed()), &chaincfg.MainNetParams)
	if err != nil {
		return err
	}
	info.Addresses = []Address{{Kind: KindP2PKH, Value: p2pkh.EncodeAddress()}}
	return nil
}

func childIndex(i uint32) string {
	if i >= hdkeychain.HardenedKeyStart {
		return strconv.FormatUint(uint64(i-hdkeychain.HardenedKeyStart), 10) + "'"
	}
	return strconv.FormatUint(uint64(i), 10)
}

// BIP-38 layout: 2-byte prefix, flag byte, 4-byte address hash.
const (
	bip38ECPrefix       = 0x43
	bip38CompressedFlag = 0x20
)

func inspectBIP38(info *Info, s string) error {
	decoded, err := base58.Decode(s)
	if err != nil {
		return err
	}
	flag := decoded[2]
	info.add(FieldECMultiply, strconv.FormatBool(decoded[1] == bip38ECPrefix))
	info.add(FieldCompressed, strconv.FormatBool(flag&bip38CompressedFlag != 0))
	info.add(FieldAddressHash, hex.EncodeToString(decoded[3:7]))
	return nil
}

func inspectGeneric(info *Info, s string) error {
	decoded, err := base58.Decode(s)
	if err != nil {
		return err
	}
	payload := decoded[:len(decoded)-checksum.Size]
	info.add(FieldVersion, fmt.Sprintf("%#02x", payload[0]))
	info.add(FieldPayload, hex.EncodeToString(payload[1:]))
	return nil
}
