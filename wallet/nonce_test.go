package wallet

import (
	"testing"

	"github.com/ethereum/go-ethereum/crypto"

	"github.com/cartesi/paio-sequencer/domain"
)

const testKey = "8114fae7aa0a92c7e3a6015413a54539b4ba9f28254a70f67a3969d73c33509b"

func signWire(t *testing.T, app domain.Address, nonce uint64, data []byte, d domain.Eip712Domain) domain.WireTransaction {
	t.Helper()
	return signWireGas(t, app, nonce, domain.NewU256FromUint64(1), data, d)
}

func signWireGas(t *testing.T, app domain.Address, nonce uint64, gasPrice domain.U256, data []byte, d domain.Eip712Domain) domain.WireTransaction {
	t.Helper()
	key, err := crypto.HexToECDSA(testKey)
	if err != nil {
		t.Fatalf("HexToECDSA: %v", err)
	}
	msg := domain.SigningMessage{App: app, Nonce: nonce, MaxGasPrice: gasPrice, Data: data}
	prehash := domain.SigningHash(msg, d)
	sigBytes, err := crypto.Sign(prehash[:], key)
	if err != nil {
		t.Fatalf("crypto.Sign: %v", err)
	}
	var sig domain.Signature
	copy(sig.R[:], sigBytes[0:32])
	copy(sig.S[:], sigBytes[32:64])
	sig.YParity = sigBytes[64]
	return domain.WireTransaction{App: app, Nonce: nonce, MaxGasPrice: msg.MaxGasPrice, Data: data, Signature: sig}
}

func TestVerifyTxAdvancesOnlyOnAccept(t *testing.T) {
	app := domain.Address{}
	app[19] = 1
	n := NewAppNonces()

	wire := signWire(t, app, 0, []byte("hi"), domain.Domain)
	tx, ok := n.VerifyTx(wire, domain.Domain)
	if !ok {
		t.Fatal("expected admission at nonce 0")
	}
	if tx.Nonce != 0 {
		t.Fatalf("unexpected nonce on returned tx: %d", tx.Nonce)
	}

	// Replaying the same nonce must fail and must not move it again.
	if _, ok := n.VerifyTx(wire, domain.Domain); ok {
		t.Fatal("expected rejection replaying nonce 0")
	}

	wire2 := signWire(t, app, 1, []byte("hi"), domain.Domain)
	if _, ok := n.VerifyTx(wire2, domain.Domain); !ok {
		t.Fatal("expected admission at nonce 1 after nonce 0 advanced")
	}
}

func TestVerifyTxRejectsWrongNonce(t *testing.T) {
	app := domain.Address{}
	n := NewAppNonces()

	wire := signWire(t, app, 5, []byte("hi"), domain.Domain)
	if _, ok := n.VerifyTx(wire, domain.Domain); ok {
		t.Fatal("expected rejection for unexpected nonce 5 when 0 is expected")
	}
	if got := n.Get(recoverTestSigner(t, wire)); got != 0 {
		t.Fatalf("nonce must stay untouched on rejection, got %d", got)
	}
}

func TestVerifyTxRejectsBadSignature(t *testing.T) {
	app := domain.Address{}
	n := NewAppNonces()
	wire := domain.WireTransaction{App: app, Nonce: 0, MaxGasPrice: domain.NewU256FromUint64(1), Data: []byte("x")}
	if _, ok := n.VerifyTx(wire, domain.Domain); ok {
		t.Fatal("expected rejection for a zero-value (invalid) signature")
	}
}
