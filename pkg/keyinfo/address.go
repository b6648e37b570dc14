package keyinfo

import (
	"crypto/sha256"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcec/v2/schnorr"
	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/btcsuite/btcd/txscript"
	"github.com/ethereum/go-ethereum/crypto"
	"golang.org/x/crypto/ripemd160"

	"github.com/Amr-9/b58finder/pkg/base58"
	"github.com/Amr-9/b58finder/pkg/checksum"
)

// Address kinds reported by Inspect.
const (
	KindP2PKH      = "P2PKH"
	KindP2SHP2WPKH = "P2SH-P2WPKH"
	KindP2WPKH     = "P2WPKH"
	KindP2TR       = "P2TR"
	KindTron       = "Tron"
)

// TronMainnetPrefix is the version byte of Tron addresses.
const TronMainnetPrefix = 0x41

// Address is one address derived from a key.
type Address struct {
	Kind  string
	Value string
}

// hash160 computes RIPEMD160(SHA256(data)).
func hash160(data []byte) []byte {
	sha := sha256.Sum256(data)
	h := ripemd160.New()
	h.Write(sha[:])
	return h.Sum(nil)
}

// deriveAddresses returns the addresses a public key controls. Segwit kinds
// only exist for compressed keys.
func deriveAddresses(pub *btcec.PublicKey, compressed bool) ([]Address, error) {
	net := &chaincfg.MainNetParams
	serialized := pub.SerializeUncompressed()
	if compressed {
		serialized = pub.SerializeCompressed()
	}
	pkHash := hash160(serialized)

	p2pkh, err := btcutil.NewAddressPubKeyHash(pkHash, net)
	if err != nil {
		return nil, err
	}
	out := []Address{{Kind: KindP2PKH, Value: p2pkh.EncodeAddress()}}

	if compressed {
		// P2SH-P2WPKH wraps the witness program OP_0 <20 bytes>.
		program := append([]byte{0x00, 0x14}, pkHash...)
		nested, err := btcutil.NewAddressScriptHashFromHash(hash160(program), net)
		if err != nil {
			return nil, err
		}
		wpkh, err := btcutil.NewAddressWitnessPubKeyHash(pkHash, net)
		if err != nil {
			return nil, err
		}
		tweaked := txscript.ComputeTaprootKeyNoScript(pub)
		tr, err := btcutil.NewAddressTaproot(schnorr.SerializePubKey(tweaked), net)
		if err != nil {
			return nil, err
		}
		out = append(out,
			Address{Kind: KindP2SHP2WPKH, Value: nested.EncodeAddress()},
			Address{Kind: KindP2WPKH, Value: wpkh.EncodeAddress()},
			Address{Kind: KindP2TR, Value: tr.EncodeAddress()},
		)
	}

	out = append(out, Address{Kind: KindTron, Value: tronAddress(pub)})
	return out, nil
}

// tronAddress is Base58Check(0x41 || last 20 bytes of Keccak256(X || Y)).
func tronAddress(pub *btcec.PublicKey) string {
	hash := crypto.Keccak256(pub.SerializeUncompressed()[1:])
	data := make([]byte, 21)
	data[0] = TronMainnetPrefix
	copy(data[1:], hash[len(hash)-20:])
	return base58.Encode(checksum.Append(data))
}
