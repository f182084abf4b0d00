// Package wallet implements the per-application nonce registry and the
// prepaid balance state the sequencer debits to admit transactions
// (spec §4.4, §4.5).
package wallet

import (
	"github.com/cartesi/paio-sequencer/domain"
)

// AppNonces maps a sender address to its next-expected nonce under one
// application. A missing entry is implicitly 0 (spec §3).
type AppNonces struct {
	nonces map[domain.Address]uint64
}

// NewAppNonces returns an empty nonce table.
func NewAppNonces() *AppNonces {
	return &AppNonces{nonces: make(map[domain.Address]uint64)}
}

// Get returns the next-expected nonce for sender, or 0 if unseen.
func (n *AppNonces) Get(sender domain.Address) uint64 {
	return n.nonces[sender]
}

// Seed sets sender's next-expected nonce directly. Used by startup
// fixtures and by replayers resuming from a known point.
func (n *AppNonces) Seed(sender domain.Address, nonce uint64) {
	n.nonces[sender] = nonce
}

// VerifyTx recovers the signer, checks the nonce, and — only on success —
// advances it (spec §4.4). The advance is the only mutation and is
// atomic with acceptance: a rejected transaction leaves the nonce
// untouched (invariant I5).
func (n *AppNonces) VerifyTx(wire domain.WireTransaction, d domain.Eip712Domain) (domain.Transaction, bool) {
	signed := wire.ToSigned()
	prehash := domain.SigningHash(signed.Message, d)
	sender, err := domain.Recover(wire.Signature, prehash)
	if err != nil {
		return domain.Transaction{}, false
	}

	expected := n.nonces[sender]
	if wire.Nonce != expected {
		return domain.Transaction{}, false
	}

	n.nonces[sender] = expected + 1

	return domain.Transaction{
		Sender:      sender,
		App:         wire.App,
		Nonce:       wire.Nonce,
		MaxGasPrice: wire.MaxGasPrice,
		Data:        wire.Data,
	}, true
}
