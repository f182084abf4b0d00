// Package batch implements the append-only accumulator that collects
// admitted (and, per the sequencer's current behavior, rejected — see
// Add) transactions between flush cycles (spec §4.6).
package batch

import (
	"github.com/cartesi/paio-sequencer/codec"
	"github.com/cartesi/paio-sequencer/domain"
)

// Builder is the mutable accumulator behind the service's single mutex.
// A Batch is produced by Build, which operates on a clone so the live
// builder can keep accepting submissions right up to the snapshot.
type Builder struct {
	SequencerPaymentAddress domain.Address
	Txs                     []domain.SignedTransaction
}

// New creates an empty Builder for sequencerAddr.
func New(sequencerAddr domain.Address) *Builder {
	return &Builder{SequencerPaymentAddress: sequencerAddr, Txs: nil}
}

// Add appends tx to the builder. Per spec §4.7 step 4, the caller adds
// every submission that passes signature recovery and the gas gate,
// whether or not the wallet state admits it.
func (b *Builder) Add(tx domain.SignedTransaction) {
	b.Txs = append(b.Txs, tx)
}

// Len reports the number of pending transactions.
func (b *Builder) Len() int { return len(b.Txs) }

// Clone returns a copy whose Txs slice is detached from the live
// builder, so callers can read or project it after releasing the lock.
func (b *Builder) Clone() Builder {
	txs := make([]domain.SignedTransaction, len(b.Txs))
	copy(txs, b.Txs)
	return Builder{SequencerPaymentAddress: b.SequencerPaymentAddress, Txs: txs}
}

// Build clones the builder and projects every SignedTransaction to its
// WireTransaction form, returning an immutable codec.Batch (spec §4.6).
// The caller is responsible for resetting the live builder afterwards.
func (b *Builder) Build() codec.Batch {
	snapshot := b.Clone()
	wire := make([]domain.WireTransaction, len(snapshot.Txs))
	for i, tx := range snapshot.Txs {
		wire[i] = tx.ToWire()
	}
	return codec.Batch{
		SequencerPaymentAddress: snapshot.SequencerPaymentAddress,
		Txs:                     wire,
	}
}

type builderJSON struct {
	SequencerPaymentAddress domain.Address             `json:"sequencer_payment_address"`
	Txs                     []domain.SignedTransaction `json:"txs"`
}

// MarshalJSON renders the builder for the /batch observability endpoint.
func (b Builder) MarshalJSON() ([]byte, error) {
	return jsonMarshal(builderJSON{
		SequencerPaymentAddress: b.SequencerPaymentAddress,
		Txs:                     b.Txs,
	})
}
