package keyinfo

import (
	"bytes"
	"strings"
	"testing"

	"github.com/btcsuite/btcd/btcutil/hdkeychain"
	"github.com/btcsuite/btcd/chaincfg"

	"github.com/Amr-9/b58finder/pkg/format"
)

const privHex = "0c28fca386c7a227600b2fe50b7cae11ec86d3bf1fbe471be89827e19d72aa1d"

func address(info *Info, kind string) string {
	for _, a := range info.Addresses {
		if a.Kind == kind {
			return a.Value
		}
	}
	return ""
}

func TestUncompressedWIF(t *testing.T) {
	info, err := Inspect("5HueCGU8rMjxEXxiPuD5BDku4MkFqeZyd4dZ1jvhTVqvbTLvyTJ", format.UncompressedPrivateKey)
	if err != nil {
		t.Fatal(err)
	}
	if got := info.Get(FieldPrivateKey); got != privHex {
		t.Errorf("private key = %s, want %s", got, privHex)
	}
	if got := address(info, KindP2PKH); got != "1GAehh7TsJAHuUAeKZcXf5CnwuGuGgyX2S" {
		t.Errorf("P2PKH = %s", got)
	}
	if address(info, KindP2WPKH) != "" {
		t.Error("uncompressed key must not have segwit addresses")
	}
	if tron := address(info, KindTron); !strings.HasPrefix(tron, "T") || len(tron) != 34 {
		t.Errorf("Tron address = %s", tron)
	}
}

func TestCompressedWIF(t *testing.T) {
	info, err := Inspect("KwdMAjGmerYanjeui5SHS7JkmpZvVipYvB2LJGU1ZxJwYvP98617", format.CompressedPrivateKey)
	if err != nil {
		t.Fatal(err)
	}
	if got := info.Get(FieldPrivateKey); got != privHex {
		t.Errorf("private key = %s, want %s", got, privHex)
	}
	if info.Get(FieldCompressed) != "true" {
		t.Error("expected a compressed key")
	}
	prefixes := map[string]string{
		KindP2PKH:      "1",
		KindP2SHP2WPKH: "3",
		KindP2WPKH:     "bc1q",
		KindP2TR:       "bc1p",
		KindTron:       "T",
	}
	for kind, prefix := range prefixes {
		if got := address(info, kind); !strings.HasPrefix(got, prefix) {
			t.Errorf("%s address = %q, want prefix %s", kind, got, prefix)
		}
	}
	// Same key, so the Tron address matches the uncompressed WIF's.
	other, err := Inspect("5HueCGU8rMjxEXxiPuD5BDku4MkFqeZyd4dZ1jvhTVqvbTLvyTJ", format.UncompressedPrivateKey)
	if err != nil {
		t.Fatal(err)
	}
	if address(info, KindTron) != address(other, KindTron) {
		t.Error("Tron address depends on compression")
	}
}

func TestAddress(t *testing.T) {
	info, err := Inspect("1BvBMSEYstWetqTFn5Au4m4GFg7xJaNVN2", format.P2PKHAddress)
	if err != nil {
		t.Fatal(err)
	}
	if got := info.Get(FieldHash160); got != "77bff20c60e522dfaa3350c39b030a5d004e839a" {
		t.Errorf("hash160 = %s", got)
	}

	info, err = Inspect("3J98t1WpEZ73CNmQviecrnyiWrnqRhWNLy", format.P2SHAddress)
	if err != nil {
		t.Fatal(err)
	}
	if got := info.Get(FieldScript); got != "pay-to-script-hash" {
		t.Errorf("script = %s", got)
	}
}

func TestExtendedKey(t *testing.T) {
	seed := bytes.Repeat([]byte{0x42}, 32)
	master, err := hdkeychain.NewMaster(seed, &chaincfg.MainNetParams)
	if err != nil {
		t.Fatal(err)
	}
	child, err := master.Derive(hdkeychain.HardenedKeyStart + 44)
	if err != nil {
		t.Fatal(err)
	}

	info, err := Inspect(child.String(), format.ExtendedKey)
	if err != nil {
		t.Fatal(err)
	}
	want := map[string]string{
		FieldVersion:    "xprv",
		FieldPrivate:    "true",
		FieldDepth:      "1",
		FieldChildIndex: "44'",
	}
	for name, v := range want {
		if got := info.Get(name); got != v {
			t.Errorf("%s = %q, want %q", name, got, v)
		}
	}
	if len(info.Addresses) != 1 || !strings.HasPrefix(info.Addresses[0].Value, "1") {
		t.Errorf("addresses = %v", info.Addresses)
	}

	pub, err := child.Neuter()
	if err != nil {
		t.Fatal(err)
	}
	info, err = Inspect(pub.String(), format.ExtendedKey)
	if err != nil {
		t.Fatal(err)
	}
	if info.Get(FieldVersion) != "xpub" || info.Get(FieldPrivate) != "false" {
		t.Errorf("neutered key fields = %v", info.Fields)
	}
}

func TestBIP38(t *testing.T) {
	tests := []struct {
		key        string
		ecMultiply string
	}{
		{"6PRWdmoT1ZursVcr5NiD14p5bHrKVGPG7yeEoEeRb8FVaqYSHnZTLEbYsU", "false"},
		{"6PnZki3vKspApf2zym6Anp2jd5hiZbuaZArPfa2ePcgVf196PLGrQNyVUh", "true"},
	}
	for _, tt := range tests {
		info, err := Inspect(tt.key, format.BIP38EncryptedKey)
		if err != nil {
			t.Fatal(err)
		}
		if got := info.Get(FieldECMultiply); got != tt.ecMultiply {
			t.Errorf("%s: EC multiply = %s, want %s", tt.key, got, tt.ecMultiply)
		}
		if len(info.Get(FieldAddressHash)) != 8 {
			t.Errorf("%s: address hash = %q", tt.key, info.Get(FieldAddressHash))
		}
	}
}

func TestGeneric(t *testing.T) {
	info, err := Inspect("1BvBMSEYstWetqTFn5Au4m4GFg7xJaNVN2", format.GenericBase58Check)
	if err != nil {
		t.Fatal(err)
	}
	if info.Get(FieldVersion) != "0x00" {
		t.Errorf("version = %s", info.Get(FieldVersion))
	}
	if info.Get(FieldPayload) != "77bff20c60e522dfaa3350c39b030a5d004e839a" {
		t.Errorf("payload = %s", info.Get(FieldPayload))
	}
}

func TestInspectRejectsInvalid(t *testing.T) {
	if _, err := Inspect("1BvBMSEYstWetqTFn5Au4m4GFg7xJaNVN3", format.P2PKHAddress); err == nil {
		t.Error("expected a checksum error")
	}
}
