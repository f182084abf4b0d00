package domain

import (
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/crypto"
)

// testSignerKey is the private key from the original prototype's test
// fixture (message/src/lib.rs); its derived address is asserted below.
// Only the key/address pairing is reused here — the original's signature
// bytes aren't, since this implementation signs max_gas_price as a u128
// (see DESIGN.md), changing the EIP-712 type hash and therefore every
// digest and signature computed against it.
const testSignerKey = "8114fae7aa0a92c7e3a6015413a54539b4ba9f28254a70f67a3969d73c33509b"

func TestSignerKeyDerivesExpectedAddress(t *testing.T) {
	key, err := crypto.HexToECDSA(testSignerKey)
	if err != nil {
		t.Fatalf("HexToECDSA: %v", err)
	}
	got := strings.ToLower(crypto.PubkeyToAddress(key.PublicKey).Hex())
	want := strings.ToLower("0x7306897365c277A6951FDA9519fD0CCc16341E4A")
	if got != want {
		t.Fatalf("address mismatch: got %s, want %s", got, want)
	}
}

func TestRecoverRoundTrip(t *testing.T) {
	key, err := crypto.HexToECDSA(testSignerKey)
	if err != nil {
		t.Fatalf("HexToECDSA: %v", err)
	}
	wantAddr := crypto.PubkeyToAddress(key.PublicKey)

	msg := SigningMessage{
		App:         ZeroAddress,
		Nonce:       0,
		MaxGasPrice: NewU256FromUint64(0),
		Data:        []byte("Hello, World!"),
	}
	prehash := SigningHash(msg, Domain)

	sigBytes, err := crypto.Sign(prehash[:], key)
	if err != nil {
		t.Fatalf("crypto.Sign: %v", err)
	}
	var sig Signature
	copy(sig.R[:], sigBytes[0:32])
	copy(sig.S[:], sigBytes[32:64])
	sig.YParity = sigBytes[64]

	got, err := Recover(sig, prehash)
	if err != nil {
		t.Fatalf("Recover: %v", err)
	}
	if got.Hex() != strings.ToLower(wantAddr.Hex()) {
		t.Fatalf("recovered signer mismatch: got %s, want %s", got.Hex(), wantAddr.Hex())
	}
}

func TestRecoverRejectsInvalidSignature(t *testing.T) {
	var sig Signature // all-zero R, S — not a valid signature
	sig.YParity = 0
	var prehash [32]byte
	if _, err := Recover(sig, prehash); err == nil {
		t.Fatal("expected error recovering from an all-zero signature")
	}
}

func TestSignatureJSONRoundTrip(t *testing.T) {
	var sig Signature
	sig.R[31] = 1
	sig.S[31] = 2
	sig.YParity = 1

	raw, err := sig.MarshalJSON()
	if err != nil {
		t.Fatalf("MarshalJSON: %v", err)
	}

	var out Signature
	if err := out.UnmarshalJSON(raw); err != nil {
		t.Fatalf("UnmarshalJSON: %v", err)
	}
	if out != sig {
		t.Fatalf("round trip mismatch: got %+v, want %+v", out, sig)
	}
}

// Canonical signature JSON strips leading zeros from r and s; this s is
// 63 hex chars and must left-pad into the 32-byte word.
func TestSignatureJSONAcceptsStrippedLeadingZeros(t *testing.T) {
	raw := []byte(`{"r":"0xfa6f7fd6825c953b355c8970fd2c9322162987bfb6898aa78f74f2be6bf8b10c","s":"0x9a2018a7e31b623a91802147e6f8d5c658e17191e69f6663052efda71db72e2","yParity":"0x1"}`)
	var out Signature
	if err := out.UnmarshalJSON(raw); err != nil {
		t.Fatalf("UnmarshalJSON: %v", err)
	}
	if out.S[0] != 0x09 || out.S[1] != 0xa2 {
		t.Fatalf("expected s left-padded to 09a2…, got %x", out.S[:2])
	}
	if out.R[0] != 0xfa {
		t.Fatalf("expected full-width r untouched, got %x", out.R[:1])
	}
	if out.YParity != 1 {
		t.Fatalf("yParity = %d, want 1", out.YParity)
	}
}

func TestSignatureJSONAcceptsLegacyV(t *testing.T) {
	var out Signature
	raw := []byte(`{"r":"0x` + strings.Repeat("00", 31) + `01","s":"0x` + strings.Repeat("00", 31) + `02","v":"0x1c"}`)
	if err := out.UnmarshalJSON(raw); err != nil {
		t.Fatalf("UnmarshalJSON: %v", err)
	}
	if out.YParity != 1 {
		t.Fatalf("v=0x1c (28) should map to yParity=1, got %d", out.YParity)
	}
}
