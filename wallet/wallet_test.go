package wallet

import (
	"math/big"
	"testing"

	"github.com/cartesi/paio-sequencer/domain"
)

func TestWithdrawForcedCapsAtBalance(t *testing.T) {
	w := NewWalletState(domain.Domain)
	user := domain.Address{}
	user[19] = 1
	w.SeedBalance(user, domain.NewU256FromUint64(10))

	got := w.withdrawForced(user, domain.NewU256FromUint64(100))
	if got.Uint64() != 10 {
		t.Fatalf("expected forced withdraw to return prior balance 10, got %d", got.Uint64())
	}
	if bal := w.Balance(user); !bal.IsZero() {
		t.Fatalf("expected balance zeroed after shortfall, got %s", bal.String())
	}
}

func TestWithdrawForcedExactBalance(t *testing.T) {
	w := NewWalletState(domain.Domain)
	user := domain.Address{}
	w.SeedBalance(user, domain.NewU256FromUint64(50))

	got := w.withdrawForced(user, domain.NewU256FromUint64(50))
	if got.Uint64() != 50 {
		t.Fatalf("expected full withdraw of 50, got %d", got.Uint64())
	}
	if !w.Balance(user).IsZero() {
		t.Fatal("expected balance to be exactly zero")
	}
}

func TestVerifySingleDebitsAndCredits(t *testing.T) {
	w := NewWalletState(domain.Domain)
	app := domain.Address{}
	app[19] = 2
	sequencer := domain.Address{}
	sequencer[19] = 9

	user := domain.Address{}
	user[19] = 1
	w.SeedBalance(user, domain.NewU256FromUint64(1000))

	wire := signWire(t, app, 0, []byte("hello"), domain.Domain)
	// signWire signs with the fixed test key; recover its address to seed
	// the balance under the actual signer, not an arbitrary placeholder.
	signerKeyAddr := recoverTestSigner(t, wire)
	w.SeedBalance(signerKeyAddr, domain.NewU256FromUint64(1000))

	tx, ok := w.VerifySingle(sequencer, wire)
	if !ok {
		t.Fatal("expected admission")
	}
	cost := uint64(1 * len("hello")) // max_gas_price=1 set by signWire
	if bal := w.Balance(signerKeyAddr); bal.Uint64() != 1000-cost {
		t.Fatalf("sender balance = %d, want %d", bal.Uint64(), 1000-cost)
	}
	if bal := w.Balance(sequencer); bal.Uint64() != cost {
		t.Fatalf("sequencer balance = %d, want %d", bal.Uint64(), cost)
	}
	if tx.Sender != signerKeyAddr {
		t.Fatalf("unexpected sender: %s", tx.Sender.Hex())
	}
}

func recoverTestSigner(t *testing.T, wire domain.WireTransaction) domain.Address {
	t.Helper()
	signed := wire.ToSigned()
	prehash := domain.SigningHash(signed.Message, domain.Domain)
	addr, err := domain.Recover(wire.Signature, prehash)
	if err != nil {
		t.Fatalf("Recover: %v", err)
	}
	return addr
}

// A gas price at the top of the u128 range prices any non-empty data far
// beyond a realistic balance, so admission drains the sender entirely and
// credits the sequencer with exactly the prior balance.
func TestVerifySingleDrainsOnUnpayableCost(t *testing.T) {
	w := NewWalletState(domain.Domain)
	app := domain.Address{}
	sequencer := domain.Address{}
	sequencer[19] = 9

	maxU128 := new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 128), big.NewInt(1))
	wire := signWireGas(t, app, 0, domain.U256FromBig(maxU128), []byte("x"), domain.Domain)
	sender := recoverTestSigner(t, wire)
	w.SeedBalance(sender, domain.NewU256FromUint64(500))

	if _, ok := w.VerifySingle(sequencer, wire); !ok {
		t.Fatal("admission must still succeed when the balance falls short")
	}
	if !w.Balance(sender).IsZero() {
		t.Fatalf("sender must be drained, balance = %s", w.Balance(sender).String())
	}
	if got := w.Balance(sequencer); got.Uint64() != 500 {
		t.Fatalf("sequencer credited %d, want the full prior balance 500", got.Uint64())
	}
}

func TestVerifySingleEmptyDataCostsNothing(t *testing.T) {
	w := NewWalletState(domain.Domain)
	app := domain.Address{}
	sequencer := domain.Address{}
	sequencer[19] = 9

	wire := signWire(t, app, 0, nil, domain.Domain)
	sender := recoverTestSigner(t, wire)
	w.SeedBalance(sender, domain.NewU256FromUint64(77))

	if _, ok := w.VerifySingle(sequencer, wire); !ok {
		t.Fatal("expected admission for empty data")
	}
	if got := w.Balance(sender); got.Uint64() != 77 {
		t.Fatalf("sender balance = %d, want untouched 77", got.Uint64())
	}
	if !w.Balance(sequencer).IsZero() {
		t.Fatal("sequencer must receive nothing for zero-cost data")
	}
}

func TestVerifyBatchAccumulates(t *testing.T) {
	w := NewWalletState(domain.Domain)
	app := domain.Address{}
	sequencer := domain.Address{}
	sequencer[19] = 9

	wire0 := signWire(t, app, 0, []byte("a"), domain.Domain)
	wire1 := signWire(t, app, 1, []byte("b"), domain.Domain)

	accepted := w.VerifyBatch(sequencer, []domain.WireTransaction{wire0, wire1})
	if len(accepted) != 2 {
		t.Fatalf("expected both txs admitted in order, got %d", len(accepted))
	}
	if accepted[0].Nonce != 0 || accepted[1].Nonce != 1 {
		t.Fatalf("unexpected nonce order: %d, %d", accepted[0].Nonce, accepted[1].Nonce)
	}
}
